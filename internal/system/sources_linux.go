//go:build linux

package system

import (
	"github.com/Schera-ole/hostmetrics/internal/procfs"
)

// DefaultSources reads every category from procRoot and sysRoot; empty roots
// mean /proc and /sys. Host identity comes from gopsutil.
func DefaultSources(procRoot, sysRoot string) Sources {
	r := procfs.New().WithRoots(procRoot, sysRoot)
	return Sources{
		CPU:           r.CPUInfo,
		Memory:        r.MemInfo,
		MemoryModules: r.MemoryModules,
		Interrupts:    r.Interrupts,
		IRQ:           r.IRQs,
		Network:       r.NetDev,
		Host:          HostInfo,
	}
}
