package models

// InterruptDetails is one line of /proc/interrupts.
type InterruptDetails struct {
	// IRQ is the line label: a number for device interrupts, a mnemonic
	// (NMI, LOC, TLB, ...) for architecture interrupts.
	IRQ           string   `json:"irq"`
	CPUCounts     []uint64 `json:"cpu_counts"`
	InterruptType string   `json:"interrupt_type"`
	Description   string   `json:"description"`
}

// Total sums the per-CPU counts.
func (d InterruptDetails) Total() uint64 {
	var total uint64
	for _, c := range d.CPUCounts {
		total += c
	}
	return total
}

// IrqDetails is the affinity configuration exported under /proc/irq/<n>.
type IrqDetails struct {
	IRQNumber       string  `json:"irq_number"`
	SMPAffinity     *string `json:"smp_affinity,omitempty"`
	SMPAffinityList *string `json:"smp_affinity_list,omitempty"`
	Node            *string `json:"node,omitempty"`
}

// InterruptRate is the per-second rate of one interrupt line over a window.
// InterruptType and Description come from the later capture.
type InterruptRate struct {
	IRQ           string    `json:"irq"`
	PerCPU        []float64 `json:"per_cpu"`
	Total         float64   `json:"total"`
	InterruptType string    `json:"interrupt_type"`
	Description   string    `json:"description"`
}
