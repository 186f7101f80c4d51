package system

import (
	"time"

	models "github.com/Schera-ole/hostmetrics/internal/model"
	"github.com/Schera-ole/hostmetrics/internal/snapshot"
)

// networkRates pairs interfaces by name. Interfaces present in only one
// capture are skipped; the order follows the later capture.
func networkRates(before, after []models.NetDevStat, elapsed time.Duration) []models.NetworkRate {
	prev := make(map[string]models.NetDevStat, len(before))
	for _, s := range before {
		prev[s.Interface] = s
	}
	rates := make([]models.NetworkRate, 0, len(after))
	for _, a := range after {
		b, ok := prev[a.Interface]
		if !ok {
			continue
		}
		rates = append(rates, models.NetworkRate{
			Interface:         a.Interface,
			RecvBytesPerSec:   snapshot.CounterRate(b.RecvBytes, a.RecvBytes, elapsed),
			RecvPacketsPerSec: snapshot.CounterRate(b.RecvPackets, a.RecvPackets, elapsed),
			RecvErrsPerSec:    snapshot.CounterRate(b.RecvErrs, a.RecvErrs, elapsed),
			RecvDropPerSec:    snapshot.CounterRate(b.RecvDrop, a.RecvDrop, elapsed),
			SentBytesPerSec:   snapshot.CounterRate(b.SentBytes, a.SentBytes, elapsed),
			SentPacketsPerSec: snapshot.CounterRate(b.SentPackets, a.SentPackets, elapsed),
			SentErrsPerSec:    snapshot.CounterRate(b.SentErrs, a.SentErrs, elapsed),
			SentDropPerSec:    snapshot.CounterRate(b.SentDrop, a.SentDrop, elapsed),
			RecvBytesTotal:    a.RecvBytes,
			SentBytesTotal:    a.SentBytes,
		})
	}
	return rates
}

// interruptRates pairs lines by IRQ label. A CPU column missing from the
// earlier capture (hotplug) rates as zero.
func interruptRates(before, after []models.InterruptDetails, elapsed time.Duration) []models.InterruptRate {
	prev := make(map[string]models.InterruptDetails, len(before))
	for _, d := range before {
		prev[d.IRQ] = d
	}
	rates := make([]models.InterruptRate, 0, len(after))
	for _, a := range after {
		b, ok := prev[a.IRQ]
		if !ok {
			continue
		}
		perCPU := make([]float64, len(a.CPUCounts))
		var total float64
		for i, count := range a.CPUCounts {
			if i < len(b.CPUCounts) {
				perCPU[i] = snapshot.CounterRate(b.CPUCounts[i], count, elapsed)
			}
			total += perCPU[i]
		}
		rates = append(rates, models.InterruptRate{
			IRQ:           a.IRQ,
			PerCPU:        perCPU,
			Total:         total,
			InterruptType: a.InterruptType,
			Description:   a.Description,
		})
	}
	return rates
}
