package metrics

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
)

const testMeminfo = "MemTotal:       32149948 kB\n" +
	"MemFree:        17528172 kB\n" +
	"MemAvailable:   25903096 kB\n" +
	"Buffers:          580648 kB\n" +
	"Cached:          7887768 kB\n" +
	"SwapTotal:       2097148 kB\n"

func newTestMemCollector(payload string, readErr error) *MemCollector {
	return &MemCollector{
		path: procMeminfoPath,
		readFile: func(string) ([]byte, error) {
			if readErr != nil {
				return nil, readErr
			}
			return []byte(payload), nil
		},
	}
}

// TestMemCollector_EmitsThreeGauges verifies values match the second token of the first three lines.
func TestMemCollector_EmitsThreeGauges(t *testing.T) {
	collected, err := newTestMemCollector(testMeminfo, nil).Collect(context.Background(), ScrapeContext{})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	rendered := renderAll(collected)
	want := "# TYPE squo_mem_total gauge\nsquo_mem_total 32149948\n" +
		"# TYPE squo_mem_free gauge\nsquo_mem_free 17528172\n" +
		"# TYPE squo_mem_available gauge\nsquo_mem_available 25903096\n"
	if rendered != want {
		t.Fatalf("unexpected render:\ngot=%q\nwant=%q", rendered, want)
	}
	if got := strings.Count(rendered, "# TYPE "); got != 3 {
		t.Fatalf("unexpected header count: got=%d want=3", got)
	}
}

// TestMemCollector_LooksUpByKey verifies table reordering does not shift values.
func TestMemCollector_LooksUpByKey(t *testing.T) {
	payload := "MemAvailable: 700 kB\nBuffers: 5 kB\nMemTotal: 1000 kB\nMemFree: 400 kB\n"

	collected, err := newTestMemCollector(payload, nil).Collect(context.Background(), ScrapeContext{})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	rendered := renderAll(collected)
	for _, line := range []string{"squo_mem_total 1000\n", "squo_mem_free 400\n", "squo_mem_available 700\n"} {
		if !strings.Contains(rendered, line) {
			t.Fatalf("missing %q in:\n%s", line, rendered)
		}
	}
}

func TestMemCollector_ReadFailureIsSourceUnavailable(t *testing.T) {
	_, err := newTestMemCollector("", fs.ErrPermission).Collect(context.Background(), ScrapeContext{})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got: %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected wrapped cause, got: %v", err)
	}
}

func TestMemCollector_MalformedTable(t *testing.T) {
	cases := map[string]string{
		"missing key":     "MemTotal: 1000 kB\nMemFree: 400 kB\n",
		"short line":      "MemTotal: 1000 kB\nMemFree:\nMemAvailable: 700 kB\n",
		"non-numeric":     "MemTotal: lots kB\nMemFree: 400 kB\nMemAvailable: 700 kB\n",
		"empty table":     "",
		"negative number": "MemTotal: -1 kB\nMemFree: 400 kB\nMemAvailable: 700 kB\n",
	}

	for name, payload := range cases {
		_, err := newTestMemCollector(payload, nil).Collect(context.Background(), ScrapeContext{})
		if !errors.Is(err, ErrMalformedData) {
			t.Fatalf("%s: expected ErrMalformedData, got: %v", name, err)
		}
	}
}

func TestMemCollector_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestMemCollector(testMeminfo, nil).Collect(ctx, ScrapeContext{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}

func renderAll(collected []*Metric) string {
	var builder strings.Builder
	for _, metric := range collected {
		builder.WriteString(metric.Render())
	}
	return builder.String()
}
