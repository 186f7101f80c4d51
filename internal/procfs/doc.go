// Package procfs reads the Linux sources behind each metric category:
// /proc/cpuinfo, /proc/meminfo, /proc/interrupts, /proc/irq/*, /proc/net/dev
// and the SMBIOS memory device table as printed by dmidecode.
//
// Every method of Reader is a snapshot source: it performs fresh I/O on each
// call and returns either a complete record or an error whose kind is one of
// ErrSourceUnavailable (file or tool missing, permission denied),
// ErrMalformedData (content present but not in the expected layout) or
// ErrUnsupportedPlatform (architecture not recognized).
//
// The /proc and /sys roots are fields on Reader so tests can point them at
// synthetic trees.
package procfs
