//go:build !linux

package system

import (
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

// DefaultSources serves memory and network through gopsutil. The proc-only
// categories stay unsupported; the roots are ignored.
func DefaultSources(_, _ string) Sources {
	return Sources{
		Memory:  gopsutilMemory,
		Network: gopsutilNetwork,
		Host:    HostInfo,
	}
}

func gopsutilMemory() (models.MemInfo, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return models.MemInfo{}, internalerrors.Unavailable("gopsutil", "mem", err)
	}
	return models.MemInfo{
		MemTotal:     vm.Total,
		MemFree:      vm.Free,
		MemAvailable: vm.Available,
		Buffers:      vm.Buffers,
		Cached:       vm.Cached,
		Active:       vm.Active,
		Inactive:     vm.Inactive,
		SwapTotal:    vm.SwapTotal,
		SwapFree:     vm.SwapFree,
		Dirty:        vm.Dirty,
		Shmem:        vm.Shared,
		Slab:         vm.Slab,
	}, nil
}

func gopsutilNetwork() ([]models.NetDevStat, error) {
	counters, err := net.IOCounters(true)
	if err != nil {
		return nil, internalerrors.Unavailable("gopsutil", "net", err)
	}
	out := make([]models.NetDevStat, 0, len(counters))
	for _, c := range counters {
		out = append(out, models.NetDevStat{
			Interface:   c.Name,
			RecvBytes:   c.BytesRecv,
			RecvPackets: c.PacketsRecv,
			RecvErrs:    c.Errin,
			RecvDrop:    c.Dropin,
			RecvFifo:    c.Fifoin,
			SentBytes:   c.BytesSent,
			SentPackets: c.PacketsSent,
			SentErrs:    c.Errout,
			SentDrop:    c.Dropout,
			SentFifo:    c.Fifoout,
		})
	}
	return out, nil
}
