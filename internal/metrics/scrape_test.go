package metrics

import (
	"context"
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"testing"
)

func TestParseMounts(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{raw: "", want: []string{"/"}},
		{raw: "  \t\n", want: []string{"/"}},
		{raw: "/", want: []string{"/"}},
		{raw: "/ /home", want: []string{"/", "/home"}},
		{raw: "\t/data\n/ /data  /home ", want: []string{"/data", "/", "/home"}},
	}

	for _, tc := range cases {
		if got := ParseMounts(tc.raw); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ParseMounts(%q) got=%v want=%v", tc.raw, got, tc.want)
		}
	}
}

// newTestHostScraper builds the canonical collector chain over synthetic OS data.
func newTestHostScraper(meminfo string, memErr error) *Scraper {
	netCollector := NewNETCollector(nil)
	netCollector.readFile = func(string) ([]byte, error) {
		return []byte(testNetDev), nil
	}

	return NewScraper(
		newTestLoadCollector(2.0, 2),
		newTestMemCollector(meminfo, memErr),
		&DiskCollector{statFS: fakeStatFS(map[string]FSUsage{
			"/":     {Total: 409600, Free: 204800},
			"/home": {Total: 819200, Free: 614400},
		})},
		netCollector,
	)
}

func TestScraper_EndToEndDocument(t *testing.T) {
	meminfo := "MemTotal: 1000 kB\nMemFree: 400 kB\nMemAvailable: 700 kB\n"
	scraper := newTestHostScraper(meminfo, nil)

	document, err := scraper.Scrape(context.Background(), NewScrapeContext("/ /home"))
	if err != nil {
		t.Fatalf("Scrape() error: %v", err)
	}

	for _, line := range []string{
		"squo_load_avg_1m 1.000\n",
		"squo_mem_total 1000\n",
		"squo_mem_free 400\n",
		"squo_mem_available 700\n",
		"squo_disk_total{path=\"/\"} 409600\n",
		"squo_disk_free{path=\"/home\"} 614400\n",
		"squo_network_bytes_received{device=\"lo\"} 123456\n",
	} {
		if !strings.Contains(document, line) {
			t.Fatalf("missing %q in document:\n%s", line, document)
		}
	}

	order := []string{
		"# TYPE squo_load_avg_1m gauge",
		"# TYPE squo_mem_total gauge",
		"# TYPE squo_disk_total gauge",
		"# TYPE squo_network_bytes_received counter",
	}
	last := -1
	for _, header := range order {
		idx := strings.Index(document, header)
		if idx <= last {
			t.Fatalf("header %q out of canonical order in:\n%s", header, document)
		}
		last = idx
	}

	families := parseExposition(t, document)
	if len(families) != 8 {
		t.Fatalf("unexpected family count: got=%d want=8", len(families))
	}
	for name := range families {
		if !strings.HasPrefix(name, Namespace) {
			t.Fatalf("metric %q lacks %s prefix", name, Namespace)
		}
		if got := strings.Count(document, "# TYPE "+name+" "); got != 1 {
			t.Fatalf("metric %q has %d TYPE headers, want 1", name, got)
		}
	}
}

func TestScraper_UnreadableMemoryFailsWholeDocument(t *testing.T) {
	scraper := newTestHostScraper("", fs.ErrNotExist)

	document, err := scraper.Scrape(context.Background(), NewScrapeContext("/ /home"))
	if err == nil {
		t.Fatalf("expected scrape failure")
	}
	if document != "" {
		t.Fatalf("expected no partial document, got:\n%s", document)
	}
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got: %v", err)
	}
	if !strings.Contains(err.Error(), "collector mem") {
		t.Fatalf("error does not name collector: %v", err)
	}
}

type countingCollector struct {
	name  string
	calls int
	err   error
}

func (c *countingCollector) Name() string {
	return c.name
}

func (c *countingCollector) Collect(_ context.Context, _ ScrapeContext) ([]*Metric, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	metric, err := NewMetric(Namespace+c.name, KindGauge)
	if err != nil {
		return nil, err
	}
	return []*Metric{metric}, metric.Add("1")
}

func TestScraper_StopsAtFirstFailure(t *testing.T) {
	first := &countingCollector{name: "first"}
	failing := &countingCollector{name: "failing", err: ErrMalformedData}
	after := &countingCollector{name: "after"}

	_, err := NewScraper(first, failing, after).Scrape(context.Background(), ScrapeContext{})
	if !errors.Is(err, ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData, got: %v", err)
	}
	if first.calls != 1 || failing.calls != 1 || after.calls != 0 {
		t.Fatalf("unexpected calls: first=%d failing=%d after=%d", first.calls, failing.calls, after.calls)
	}
}

func TestScraper_RejectsDuplicateMetricNames(t *testing.T) {
	_, err := NewScraper(&countingCollector{name: "same"}, &countingCollector{name: "same"}).
		Scrape(context.Background(), ScrapeContext{})
	if !errors.Is(err, ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData, got: %v", err)
	}
}

func TestScraper_CanceledContext(t *testing.T) {
	collector := &countingCollector{name: "never"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScraper(collector).Scrape(ctx, ScrapeContext{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
	if collector.calls != 0 {
		t.Fatalf("collector ran after cancellation")
	}
}

func TestScraper_IndependentScrapesAreIdentical(t *testing.T) {
	meminfo := "MemTotal: 1000 kB\nMemFree: 400 kB\nMemAvailable: 700 kB\n"
	scraper := newTestHostScraper(meminfo, nil)
	sc := NewScrapeContext("/")

	first, err := scraper.Scrape(context.Background(), sc)
	if err != nil {
		t.Fatalf("first Scrape() error: %v", err)
	}
	second, err := scraper.Scrape(context.Background(), sc)
	if err != nil {
		t.Fatalf("second Scrape() error: %v", err)
	}
	if first != second {
		t.Fatalf("scrapes differ for identical inputs")
	}
}

func TestNewHostScraper_CanonicalOrder(t *testing.T) {
	got := NewHostScraper(ScraperOptions{}).Collectors()
	want := []string{"load", "mem", "disk", "net"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected collector order: got=%v want=%v", got, want)
	}
}
