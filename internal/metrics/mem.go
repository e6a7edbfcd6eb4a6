package metrics

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const procMeminfoPath = "/proc/meminfo"

// memFields lists meminfo keys and the metric each one feeds, in render order.
var memFields = []struct {
	key    string
	metric string
}{
	{key: "MemTotal", metric: Namespace + "mem_total"},
	{key: "MemFree", metric: Namespace + "mem_free"},
	{key: "MemAvailable", metric: Namespace + "mem_available"},
}

// MemCollector reads total/free/available memory from procfs.
// Params: none.
// Returns: memory collector instance.
type MemCollector struct {
	path     string
	readFile func(string) ([]byte, error)
}

// NewMemCollector creates a memory collector over /proc/meminfo.
// Params: none.
// Returns: configured memory collector.
func NewMemCollector() *MemCollector {
	return &MemCollector{
		path:     procMeminfoPath,
		readFile: os.ReadFile,
	}
}

// Name returns logical collector name.
// Params: none.
// Returns: collector name string.
func (c *MemCollector) Name() string {
	return "mem"
}

// Collect reads meminfo and emits three unlabeled gauges in kilobytes.
// Params: ctx for cancellation; scrape context is unused.
// Returns: total, free, available metrics or scrape error.
func (c *MemCollector) Collect(ctx context.Context, _ ScrapeContext) ([]*Metric, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	payload, err := c.readFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrSourceUnavailable, c.path, err)
	}

	values, err := parseMeminfo(payload)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.path, err)
	}

	out := make([]*Metric, 0, len(memFields))
	for _, field := range memFields {
		token, ok := values[field.key]
		if !ok {
			return nil, fmt.Errorf("parse %s: %w: missing %s", c.path, ErrMalformedData, field.key)
		}
		if token == "" {
			return nil, fmt.Errorf("parse %s: %w: %s has no value column", c.path, ErrMalformedData, field.key)
		}
		value, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w: %s value %q", c.path, ErrMalformedData, field.key, token)
		}

		metric, err := NewMetric(field.metric, KindGauge)
		if err != nil {
			return nil, err
		}
		if err := metric.Add(strconv.FormatUint(value, 10)); err != nil {
			return nil, err
		}
		out = append(out, metric)
	}

	return out, nil
}

// parseMeminfo splits `Key:   value kB` lines into key -> value token.
// Params: payload is raw meminfo content.
// Returns: key->value token map; lines without a value column map to "".
func parseMeminfo(payload []byte) (map[string]string, error) {
	values := make(map[string]string)

	scanner := bufio.NewScanner(bytes.NewReader(payload))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		key := strings.TrimSuffix(fields[0], ":")
		if _, exists := values[key]; exists {
			continue
		}
		if len(fields) < 2 {
			values[key] = ""
			continue
		}
		values[key] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan: %w", ErrMalformedData, err)
	}

	return values, nil
}
