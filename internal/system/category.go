package system

import (
	"fmt"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
)

// Category names one group of host metrics.
type Category string

const (
	CategoryCPU           Category = "cpu"
	CategoryMemory        Category = "memory"
	CategoryMemoryModules Category = "memory-modules"
	CategoryInterrupts    Category = "interrupts"
	CategoryIRQ           Category = "irq"
	CategoryHost          Category = "host"

	// sampled
	CategoryNetwork       Category = "network"
	CategoryInterruptRate Category = "interrupt-rate"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryHost,
	CategoryCPU,
	CategoryMemory,
	CategoryMemoryModules,
	CategoryInterrupts,
	CategoryIRQ,
	CategoryNetwork,
	CategoryInterruptRate,
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", internalerrors.ErrUnknownCategory, s)
}

// Sampled reports whether c is computed from two captures rather than cached.
func (c Category) Sampled() bool {
	return c == CategoryNetwork || c == CategoryInterruptRate
}

func unsupported(c Category) error {
	return internalerrors.Unsupported(string(c), "no source on this platform")
}
