// Package agent turns collection passes into flattened metric series and
// delivers them to storage and report subscribers.
package agent

import (
	"fmt"
	"strings"
	"time"

	models "github.com/Schera-ole/hostmetrics/internal/model"
)

// Flatten converts a report into named series. Rates become gauges and
// absolute counters become counters; every point carries the report's
// collection time. Categories that failed contribute nothing.
func Flatten(report models.Report) []models.Metric {
	at := report.CollectedAt
	var metrics []models.Metric
	gauge := func(name string, v float64) {
		metrics = append(metrics, models.Metric{Name: name, Type: models.Gauge, Value: v, CapturedAt: at})
	}
	counter := func(name string, v uint64) {
		metrics = append(metrics, models.Metric{Name: name, Type: models.Counter, Value: v, CapturedAt: at})
	}

	if _, failed := report.Errors["memory"]; !failed && report.Memory.MemTotal > 0 {
		m := report.Memory
		gauge("mem.total_bytes", float64(m.MemTotal))
		gauge("mem.free_bytes", float64(m.MemFree))
		gauge("mem.available_bytes", float64(m.MemAvailable))
		gauge("mem.buffers_bytes", float64(m.Buffers))
		gauge("mem.cached_bytes", float64(m.Cached))
		gauge("mem.used_percent", m.UsedPercent())
	}
	if n := report.CPU.Processors(); n > 0 {
		gauge("cpu.count", float64(n))
	}
	if report.Host.Uptime > 0 {
		counter("host.uptime_sec", report.Host.Uptime)
	}

	for _, n := range report.Network {
		prefix := "net." + seriesPart(n.Interface) + "."
		gauge(prefix+"recv_bytes_per_sec", n.RecvBytesPerSec)
		gauge(prefix+"recv_packets_per_sec", n.RecvPacketsPerSec)
		gauge(prefix+"recv_errs_per_sec", n.RecvErrsPerSec)
		gauge(prefix+"recv_drop_per_sec", n.RecvDropPerSec)
		gauge(prefix+"sent_bytes_per_sec", n.SentBytesPerSec)
		gauge(prefix+"sent_packets_per_sec", n.SentPacketsPerSec)
		gauge(prefix+"sent_errs_per_sec", n.SentErrsPerSec)
		gauge(prefix+"sent_drop_per_sec", n.SentDropPerSec)
		counter(prefix+"recv_bytes_total", n.RecvBytesTotal)
		counter(prefix+"sent_bytes_total", n.SentBytesTotal)
	}

	for _, irq := range report.Interrupts {
		gauge("irq."+seriesPart(irq.IRQ)+".per_sec", irq.Total)
	}
	return metrics
}

// utilization names per-CPU busy percentages as cpu.<n>.utilization.
func utilization(percents []float64, at time.Time) []models.Metric {
	metrics := make([]models.Metric, 0, len(percents))
	for i, p := range percents {
		metrics = append(metrics, models.Metric{
			Name:       fmt.Sprintf("cpu.%d.utilization", i),
			Type:       models.Gauge,
			Value:      p,
			CapturedAt: at,
		})
	}
	return metrics
}

// seriesPart keeps dots out of a name component so that series names stay
// splittable.
func seriesPart(s string) string {
	return strings.ReplaceAll(s, ".", "_")
}
