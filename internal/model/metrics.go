// Package models defines the category records produced by sources and the
// data structures exchanged between the agent, storage and the HTTP layer.
package models

import "time"

const (
	Counter = "counter"
	Gauge   = "gauge"
)

// MetricsDTO represents a metric data transfer object for API requests and responses.
type MetricsDTO struct {
	// ID is the series name, e.g. "net.eth0.recv_bytes_per_sec"
	ID string `json:"id"`

	// MType is the type of the metric (either "counter" or "gauge")
	MType string `json:"type"`

	// Delta is the counter value (omitted for gauge metrics)
	Delta *int64 `json:"delta,omitempty"`

	// Value is the value for gauge metrics (omitted for counter metrics)
	Value *float64 `json:"value,omitempty"`

	// CapturedAt is when the value was measured
	CapturedAt time.Time `json:"captured_at,omitzero"`
}

// Metric represents a single flattened series point.
type Metric struct {
	// Name is the unique identifier for the series
	Name string `json:"name"`

	// Type is the type of the metric (either "counter" or "gauge")
	Type string `json:"type"`

	// Value is the metric value (int64 for counters, float64 for gauges)
	Value any `json:"value"`

	// CapturedAt is the end of the sampling window that produced the value
	CapturedAt time.Time `json:"captured_at"`
}

// Sample is one stored point of a series.
type Sample struct {
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Value      float64   `json:"value"`
	CapturedAt time.Time `json:"captured_at"`
}

// ToDTO converts a flattened metric into its wire form.
func (m Metric) ToDTO() MetricsDTO {
	dto := MetricsDTO{ID: m.Name, MType: m.Type, CapturedAt: m.CapturedAt}
	switch v := m.Value.(type) {
	case int64:
		dto.Delta = &v
	case uint64:
		d := int64(v)
		dto.Delta = &d
	case float64:
		dto.Value = &v
	}
	return dto
}

// ToSample converts a metric into a storable point.
func (m Metric) ToSample() Sample {
	s := Sample{Name: m.Name, Type: m.Type, CapturedAt: m.CapturedAt}
	switch v := m.Value.(type) {
	case int64:
		s.Value = float64(v)
	case uint64:
		s.Value = float64(v)
	case float64:
		s.Value = v
	}
	return s
}

// ToSample converts a received DTO into a storable point. The second result
// is false when the DTO carries no value for its type.
func (d MetricsDTO) ToSample(now time.Time) (Sample, bool) {
	s := Sample{Name: d.ID, Type: d.MType, CapturedAt: d.CapturedAt}
	if s.CapturedAt.IsZero() {
		s.CapturedAt = now
	}
	switch d.MType {
	case Gauge:
		if d.Value == nil {
			return Sample{}, false
		}
		s.Value = *d.Value
	case Counter:
		if d.Delta == nil {
			return Sample{}, false
		}
		s.Value = float64(*d.Delta)
	default:
		return Sample{}, false
	}
	return s, true
}
