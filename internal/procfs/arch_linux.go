//go:build linux

package procfs

import (
	"golang.org/x/sys/unix"
)

// MachineArch returns the uname(2) machine field, e.g. "x86_64".
func MachineArch() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(uts.Machine[:]), nil
}
