//go:build !linux

package procfs

import "runtime"

// MachineArch maps GOARCH to the uname machine spelling.
func MachineArch() (string, error) {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64", nil
	case "arm64":
		return "aarch64", nil
	default:
		return runtime.GOARCH, nil
	}
}
