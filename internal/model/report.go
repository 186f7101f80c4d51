package models

import "time"

// Report is a full collection pass over every category.
type Report struct {
	AgentID       string          `json:"agent_id"`
	CollectedAt   time.Time       `json:"collected_at"`
	Host          HostInfo        `json:"host"`
	CPU           CPUInfo         `json:"cpu"`
	Memory        MemInfo         `json:"memory"`
	MemoryModules []MemoryModule  `json:"memory_modules"`
	IRQ           []IrqDetails    `json:"irq"`
	Network       []NetworkRate   `json:"network"`
	Interrupts    []InterruptRate `json:"interrupts"`
	Window        time.Duration   `json:"window"`

	// Errors maps a category name to the reason it is missing from the
	// report. Categories that succeeded have no entry.
	Errors map[string]string `json:"errors,omitempty"`
}

// ReportEvent is what the agent publishes to report subscribers after each
// sampling pass.
type ReportEvent struct {
	// ID is a unique event identifier
	ID string `json:"id"`

	// AgentID identifies the publishing agent instance
	AgentID string `json:"agent_id"`

	// TS is the timestamp of the event in RFC 3339 format
	TS string `json:"ts"`

	// Metrics are the flattened series produced by the pass
	Metrics []MetricsDTO `json:"metrics"`
}
