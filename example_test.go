package hostmetrics_test

import (
	"context"
	"fmt"
	"time"

	"github.com/Schera-ole/hostmetrics/internal/clock"
	models "github.com/Schera-ole/hostmetrics/internal/model"
	"github.com/Schera-ole/hostmetrics/internal/repository"
	"github.com/Schera-ole/hostmetrics/internal/service"
	"github.com/Schera-ole/hostmetrics/internal/snapshot"
	"github.com/Schera-ole/hostmetrics/internal/system"
)

// A Handle runs its source once and shares the outcome until Refresh.
func Example_handle() {
	calls := 0
	h := snapshot.NewHandle(func() (string, error) {
		calls++
		return "GenuineIntel", nil
	})

	v, _ := h.Get()
	v, _ = h.Get()
	fmt.Println(v, calls)

	h.Refresh()
	h.Get()
	fmt.Println(calls)

	// Output:
	// GenuineIntel 1
	// 2
}

// Rates are computed over the time that actually elapsed between captures.
func Example_networkStat() {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := clock.NewFake(start)
	sys := system.New(system.Sources{
		Network: func() ([]models.NetDevStat, error) {
			seconds := uint64(c.Now().Sub(start).Seconds())
			return []models.NetDevStat{{Interface: "eth0", RecvBytes: 1 << 20 * seconds}}, nil
		},
	}, c, nil)

	result := make(chan snapshot.Delta[[]models.NetworkRate], 1)
	go func() {
		delta, err := sys.NetworkStat(context.Background(), time.Second)
		if err != nil {
			fmt.Println(err)
		}
		result <- delta
	}()
	c.WaitForTimers(1)
	c.Advance(2 * time.Second) // woke up late

	delta := <-result
	fmt.Println(delta.Elapsed, delta.Fields[0].Interface, delta.Fields[0].RecvBytesPerSec)

	// Output:
	// 2s eth0 1.048576e+06
}

// Categories without a source on this platform report an unsupported
// platform error instead of a fallback value.
func Example_unsupported() {
	sys := system.New(system.Sources{}, nil, nil)
	_, err := sys.CPUInfo()
	fmt.Println(err)

	// Output:
	// cpu: unsupported platform: no source on this platform
}

// History is appended and read back through the service layer.
func Example_metricsService() {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := service.NewMetricsService(repository.NewMemStorage(2), nil, nil)
	ctx := context.Background()

	for i, v := range []float64{10, 20, 30} {
		svc.Append(ctx, []models.Sample{{
			Name: "mem.used_percent", Type: models.Gauge, Value: v,
			CapturedAt: at.Add(time.Duration(i) * time.Minute),
		}})
	}

	history, _ := svc.History(ctx, "mem.used_percent", 10)
	for _, s := range history {
		fmt.Println(s.Value)
	}

	// Output:
	// 30
	// 20
}
