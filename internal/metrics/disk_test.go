package metrics

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"syscall"
	"testing"
)

func fakeStatFS(stats map[string]FSUsage) func(context.Context, string) (FSUsage, error) {
	return func(_ context.Context, path string) (FSUsage, error) {
		stat, ok := stats[path]
		if !ok {
			return FSUsage{}, syscall.ENOENT
		}
		return stat, nil
	}
}

func TestDiskCollector_TotalAndFreePerMount(t *testing.T) {
	collector := &DiskCollector{statFS: fakeStatFS(map[string]FSUsage{
		"/":     {Total: 409600, Free: 204800},
		"/home": {Total: 819200, Free: 614400},
	})}

	collected, err := collector.Collect(context.Background(), NewScrapeContext("/ /home"))
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	want := "# TYPE squo_disk_total gauge\n" +
		"squo_disk_total{path=\"/\"} 409600\n" +
		"squo_disk_total{path=\"/home\"} 819200\n" +
		"# TYPE squo_disk_free gauge\n" +
		"squo_disk_free{path=\"/\"} 204800\n" +
		"squo_disk_free{path=\"/home\"} 614400\n"
	if got := renderAll(collected); got != want {
		t.Fatalf("unexpected render:\ngot=%q\nwant=%q", got, want)
	}
}

func TestDiskCollector_SampleCountAndFreeBelowTotal(t *testing.T) {
	stats := map[string]FSUsage{
		"/":        {Total: 4096 << 30, Free: 4096 << 20},
		"/var":     {Total: 512000, Free: 512000},
		"/srv":     {Total: 3584, Free: 0},
		"/mnt/big": {Total: 65536 << 34, Free: 65536 << 33},
	}
	collector := &DiskCollector{statFS: fakeStatFS(stats)}
	sc := NewScrapeContext("/ /var /srv /mnt/big")

	collected, err := collector.Collect(context.Background(), sc)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(collected) != 2 {
		t.Fatalf("unexpected metric count: got=%d want=2", len(collected))
	}

	total, free := collected[0].Samples(), collected[1].Samples()
	if len(total)+len(free) != 2*len(sc.Mounts) {
		t.Fatalf("unexpected sample count: got=%d want=%d", len(total)+len(free), 2*len(sc.Mounts))
	}
	for idx, mount := range sc.Mounts {
		if total[idx].Labels[0].Value != mount || free[idx].Labels[0].Value != mount {
			t.Fatalf("sample %d not labeled with %q", idx, mount)
		}
		totalBytes, _ := strconv.ParseUint(total[idx].Value, 10, 64)
		freeBytes, _ := strconv.ParseUint(free[idx].Value, 10, 64)
		if freeBytes > totalBytes {
			t.Fatalf("%s: free=%d exceeds total=%d", mount, freeBytes, totalBytes)
		}
	}
	if got, want := total[3].Value, strconv.FormatUint(uint64(65536)<<34, 10); got != want {
		t.Fatalf("64-bit product mismatch: got=%s want=%s", got, want)
	}
}

func TestDiskCollector_MissingMountFailsWholeScrape(t *testing.T) {
	collector := &DiskCollector{statFS: fakeStatFS(map[string]FSUsage{
		"/": {Total: 409600, Free: 204800},
	})}

	collected, err := collector.Collect(context.Background(), NewScrapeContext("/ /nope"))
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got: %v", err)
	}
	if collected != nil {
		t.Fatalf("expected no partial output, got %d metrics", len(collected))
	}
	if !strings.Contains(err.Error(), "/nope") {
		t.Fatalf("error does not name the mount: %v", err)
	}
}

func TestDiskCollector_StatFailureIsSourceUnavailable(t *testing.T) {
	collector := &DiskCollector{statFS: func(context.Context, string) (FSUsage, error) {
		return FSUsage{}, syscall.EIO
	}}

	_, err := collector.Collect(context.Background(), NewScrapeContext("/"))
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got: %v", err)
	}
	if !errors.Is(err, syscall.EIO) {
		t.Fatalf("expected wrapped errno, got: %v", err)
	}
}

func TestStatFS_RootFilesystem(t *testing.T) {
	usage, err := statFS(context.Background(), "/")
	if err != nil {
		t.Fatalf("statFS(/) error: %v", err)
	}
	if usage.Total == 0 {
		t.Fatalf("expected non-zero total")
	}
	if usage.Free > usage.Total {
		t.Fatalf("free bytes %d exceed total %d", usage.Free, usage.Total)
	}
}
