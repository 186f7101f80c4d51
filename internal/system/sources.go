package system

import (
	models "github.com/Schera-ole/hostmetrics/internal/model"
	"github.com/Schera-ole/hostmetrics/internal/snapshot"
)

// Sources supplies one reader per category. Any nil source is reported as
// an unsupported platform when its category is requested.
type Sources struct {
	CPU           snapshot.Source[models.CPUInfo]
	Memory        snapshot.Source[models.MemInfo]
	MemoryModules snapshot.Source[[]models.MemoryModule]
	Interrupts    snapshot.Source[[]models.InterruptDetails]
	IRQ           snapshot.Source[[]models.IrqDetails]
	Network       snapshot.Source[[]models.NetDevStat]
	Host          snapshot.Source[models.HostInfo]
}

func orUnsupported[T any](src snapshot.Source[T], category Category) snapshot.Source[T] {
	if src != nil {
		return src
	}
	return func() (T, error) {
		var zero T
		return zero, unsupported(category)
	}
}

func (s Sources) complete() Sources {
	return Sources{
		CPU:           orUnsupported(s.CPU, CategoryCPU),
		Memory:        orUnsupported(s.Memory, CategoryMemory),
		MemoryModules: orUnsupported(s.MemoryModules, CategoryMemoryModules),
		Interrupts:    orUnsupported(s.Interrupts, CategoryInterrupts),
		IRQ:           orUnsupported(s.IRQ, CategoryIRQ),
		Network:       orUnsupported(s.Network, CategoryNetwork),
		Host:          orUnsupported(s.Host, CategoryHost),
	}
}
