package metrics

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/shirou/gopsutil/v4/load"
)

// LoadCollector reports the 1-minute load average normalized by logical CPU count.
// Params: none.
// Returns: load collector instance.
type LoadCollector struct {
	loadAvg  func(context.Context) (float64, error)
	cpuCount func() int
}

// NewLoadCollector creates a load collector over sysinfo(2) and the process CPU set.
// Params: none.
// Returns: configured load collector.
func NewLoadCollector() *LoadCollector {
	return &LoadCollector{
		loadAvg:  readLoad1,
		cpuCount: runtime.NumCPU,
	}
}

// Name returns logical collector name.
// Params: none.
// Returns: collector name string.
func (c *LoadCollector) Name() string {
	return "load"
}

// Collect emits squo_load_avg_1m with three decimal digits.
// Params: ctx for cancellation; scrape context is unused.
// Returns: one unlabeled gauge or scrape error.
func (c *LoadCollector) Collect(ctx context.Context, _ ScrapeContext) ([]*Metric, error) {
	load1, err := c.loadAvg(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read load average: %w", ErrSourceUnavailable, err)
	}

	value, err := normalizedLoad(load1, c.cpuCount())
	if err != nil {
		return nil, err
	}

	metric, err := NewMetric(Namespace+"load_avg_1m", KindGauge)
	if err != nil {
		return nil, err
	}
	if err := metric.Add(value); err != nil {
		return nil, err
	}

	return []*Metric{metric}, nil
}

// normalizedLoad divides load by CPU count and formats to three decimals.
// Params: load1 raw 1-minute average; cpus logical CPU count, must be > 0.
// Returns: formatted value or error when cpus is not positive.
func normalizedLoad(load1 float64, cpus int) (string, error) {
	if cpus <= 0 {
		return "", fmt.Errorf("%w: logical cpu count %d", ErrSourceUnavailable, cpus)
	}
	return strconv.FormatFloat(load1/float64(cpus), 'f', 3, 64), nil
}

// readLoad1 reads the 1-minute load average; 5/15-minute values are discarded.
// Params: ctx for cancellation.
// Returns: load1 or read error.
func readLoad1(ctx context.Context) (float64, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return avg.Load1, nil
}
