package metrics

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/shirou/gopsutil/v4/disk"
)

// FSUsage is filesystem capacity in bytes: block size times total and unprivileged-available blocks.
type FSUsage struct {
	Total uint64
	Free  uint64
}

// DiskCollector reports filesystem capacity for configured mount points.
type DiskCollector struct {
	statFS func(ctx context.Context, path string) (FSUsage, error)
}

// NewDiskCollector creates a disk collector backed by statfs(2).
// Params: none.
// Returns: configured disk collector.
func NewDiskCollector() *DiskCollector {
	return &DiskCollector{statFS: statFS}
}

// Name returns logical collector name.
// Params: none.
// Returns: collector name string.
func (c *DiskCollector) Name() string {
	return "disk"
}

// Collect stats every mount point from the scrape context.
// Params: ctx for cancellation; sc carries mount points.
// Returns: disk_total and disk_free gauges labeled by path, or first stat error.
func (c *DiskCollector) Collect(ctx context.Context, sc ScrapeContext) ([]*Metric, error) {
	total, err := NewMetric(Namespace+"disk_total", KindGauge)
	if err != nil {
		return nil, err
	}
	free, err := NewMetric(Namespace+"disk_free", KindGauge)
	if err != nil {
		return nil, err
	}

	for _, mount := range sc.Mounts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		usage, err := c.statFS(ctx, mount)
		if err != nil {
			return nil, classifyStatError(mount, err)
		}

		label := Label{Name: "path", Value: mount}
		if err := total.Add(strconv.FormatUint(usage.Total, 10), label); err != nil {
			return nil, err
		}
		if err := free.Add(strconv.FormatUint(usage.Free, 10), label); err != nil {
			return nil, err
		}
	}

	return []*Metric{total, free}, nil
}

// statFS runs statfs(2) for one path through gopsutil.
// Params: ctx for cancellation; path is a mount point.
// Returns: total and available bytes or the raw syscall error.
func statFS(ctx context.Context, path string) (FSUsage, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return FSUsage{}, err
	}
	return FSUsage{Total: usage.Total, Free: usage.Free}, nil
}

// classifyStatError maps statfs failures into the scrape error taxonomy.
// Params: mount is the queried path; err is the raw stat error.
// Returns: invalid-parameter error for missing paths, source-unavailable otherwise.
func classifyStatError(mount string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: mount point %q does not exist: %w", ErrInvalidParameter, mount, err)
	}
	return fmt.Errorf("%w: statfs %q: %w", ErrSourceUnavailable, mount, err)
}
