package metrics

import (
	"context"
	"fmt"
	"strings"
)

// DefaultMount is reported when no mount points are configured.
const DefaultMount = "/"

// ScrapeContext is immutable per-request configuration for collectors.
type ScrapeContext struct {
	Mounts []string
}

// ParseMounts splits a whitespace-separated mount list.
// Params: raw list such as "/ /home"; empty input selects the root filesystem.
// Returns: mount points in first-seen order without duplicates.
func ParseMounts(raw string) []string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return []string{DefaultMount}
	}

	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, mount := range fields {
		if _, exists := seen[mount]; exists {
			continue
		}
		seen[mount] = struct{}{}
		out = append(out, mount)
	}
	return out
}

// NewScrapeContext builds scrape context from raw mount list text.
// Params: mounts is whitespace-separated mount list.
// Returns: scrape context with parsed mounts.
func NewScrapeContext(mounts string) ScrapeContext {
	return ScrapeContext{Mounts: ParseMounts(mounts)}
}

// Scraper runs collectors in fixed order and concatenates their output.
// Params: ordered collector list.
// Returns: reusable, stateless orchestrator.
type Scraper struct {
	collectors []Collector
}

// ScraperOptions tunes built-in collectors.
type ScraperOptions struct {
	ExcludeDevices []string
}

// NewScraper creates an orchestrator over custom collectors.
// Params: collectors in render order.
// Returns: scraper instance.
func NewScraper(collectors ...Collector) *Scraper {
	return &Scraper{collectors: collectors}
}

// NewHostScraper creates the canonical host scraper: load, mem, disk, net.
// Params: opts tunes built-in collectors.
// Returns: scraper instance.
func NewHostScraper(opts ScraperOptions) *Scraper {
	return NewScraper(
		NewLoadCollector(),
		NewMemCollector(),
		NewDiskCollector(),
		NewNETCollector(opts.ExcludeDevices),
	)
}

// Collectors returns collector names in run order.
// Params: none.
// Returns: collector names.
func (s *Scraper) Collectors() []string {
	names := make([]string, 0, len(s.collectors))
	for _, collector := range s.collectors {
		names = append(names, collector.Name())
	}
	return names
}

// Scrape runs all collectors and renders one exposition document.
// Params: ctx bounds the scrape; sc carries per-request configuration.
// Returns: full document, or the first collector error with no partial output.
func (s *Scraper) Scrape(ctx context.Context, sc ScrapeContext) (string, error) {
	var builder strings.Builder
	names := make(map[string]string)

	for _, collector := range s.collectors {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("collector %s: %w", collector.Name(), err)
		}

		collected, err := collector.Collect(ctx, sc)
		if err != nil {
			return "", fmt.Errorf("collector %s: %w", collector.Name(), err)
		}

		for _, metric := range collected {
			if owner, exists := names[metric.Name()]; exists {
				return "", fmt.Errorf("collector %s: %w: metric %s already emitted by %s", collector.Name(), ErrMalformedData, metric.Name(), owner)
			}
			names[metric.Name()] = collector.Name()
			metric.renderTo(&builder)
		}
	}

	return builder.String(), nil
}
