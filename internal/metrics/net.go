package metrics

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"squo/internal/match"
)

const (
	procNetDevPath = "/proc/net/dev"
	// netDevHeaderToken appears only in the two header lines of /proc/net/dev.
	netDevHeaderToken = "|"
	// Counter offsets after the interface name: bytes received and bytes transmitted.
	netDevRecvBytesCol = 0
	netDevSentBytesCol = 8
	netDevMinCounters  = netDevSentBytesCol + 1
)

// netDevCounters is one parsed /proc/net/dev data line.
type netDevCounters struct {
	device    string
	bytesRecv uint64
	bytesSent uint64
}

// NETCollector reports cumulative per-interface byte counters.
// Params: exclude patterns drop matching interfaces.
// Returns: NET collector instance.
type NETCollector struct {
	path     string
	exclude  match.Set
	readFile func(string) ([]byte, error)
}

// NewNETCollector creates a NET collector over /proc/net/dev.
// Params: exclude lists '*' wildcard interface patterns to skip; empty keeps all interfaces.
// Returns: configured NET collector.
func NewNETCollector(exclude []string) *NETCollector {
	return &NETCollector{
		path:     procNetDevPath,
		exclude:  match.NewSet(exclude),
		readFile: os.ReadFile,
	}
}

// Name returns logical collector name.
// Params: none.
// Returns: collector name string.
func (c *NETCollector) Name() string {
	return "net"
}

// Collect reads interface counters and emits received/sent counters labeled by device.
// Params: ctx for cancellation; scrape context is unused.
// Returns: two counter metrics or scrape error.
func (c *NETCollector) Collect(ctx context.Context, _ ScrapeContext) ([]*Metric, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	payload, err := c.readFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrSourceUnavailable, c.path, err)
	}

	rows, err := parseNetDev(payload)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.path, err)
	}

	received, err := NewMetric(Namespace+"network_bytes_received", KindCounter)
	if err != nil {
		return nil, err
	}
	sent, err := NewMetric(Namespace+"network_bytes_sent", KindCounter)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if c.exclude.MatchAny(row.device) {
			continue
		}

		label := Label{Name: "device", Value: row.device}
		if err := received.Add(strconv.FormatUint(row.bytesRecv, 10), label); err != nil {
			return nil, err
		}
		if err := sent.Add(strconv.FormatUint(row.bytesSent, 10), label); err != nil {
			return nil, err
		}
	}

	return []*Metric{received, sent}, nil
}

// parseNetDev parses /proc/net/dev data lines in table order.
// Params: payload is raw table content.
// Returns: parsed rows or malformed-data error for short/non-numeric lines.
func parseNetDev(payload []byte) ([]netDevCounters, error) {
	rows := make([]netDevCounters, 0, 8)

	scanner := bufio.NewScanner(bytes.NewReader(payload))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.Contains(line, netDevHeaderToken) {
			continue
		}

		// Counters may abut the colon, e.g. "eth0:123".
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return nil, fmt.Errorf("%w: line %d has no interface separator", ErrMalformedData, lineNo)
		}
		device := interfaceName(line[:colon+1])
		if device == "" {
			return nil, fmt.Errorf("%w: line %d has empty interface name", ErrMalformedData, lineNo)
		}

		counters := strings.Fields(line[colon+1:])
		if len(counters) < netDevMinCounters {
			return nil, fmt.Errorf("%w: line %d (%s) has %d counters, want at least %d", ErrMalformedData, lineNo, device, len(counters), netDevMinCounters)
		}

		recv, err := strconv.ParseUint(counters[netDevRecvBytesCol], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d (%s): parse received bytes %q", ErrMalformedData, lineNo, device, counters[netDevRecvBytesCol])
		}
		sent, err := strconv.ParseUint(counters[netDevSentBytesCol], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d (%s): parse sent bytes %q", ErrMalformedData, lineNo, device, counters[netDevSentBytesCol])
		}

		rows = append(rows, netDevCounters{device: device, bytesRecv: recv, bytesSent: sent})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan: %w", ErrMalformedData, err)
	}

	return rows, nil
}

// interfaceName trims padding and the trailing colon from the first table column.
// Params: raw first column, e.g. "  eth0:".
// Returns: bare interface name; applying it again yields the same value.
func interfaceName(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), ":")
}
