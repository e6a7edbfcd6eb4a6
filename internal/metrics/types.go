package metrics

import (
	"context"
	"fmt"
)

// Namespace prefixes every metric name exposed by the exporter.
const Namespace = "squo_"

// Kind identifies monotonicity semantics of a metric for scrape consumers.
// Params: none.
// Returns: enum value rendered into the `# TYPE` header.
type Kind uint8

const (
	// KindUntyped is declared for forward compatibility; no built-in collector emits it.
	KindUntyped Kind = iota
	// KindCounter represents monotonically non-decreasing values.
	KindCounter
	// KindGauge represents values that may go up and down between scrapes.
	KindGauge
)

// String returns exposition token for the kind.
// Params: none.
// Returns: "counter", "gauge", or "untyped".
func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	case KindUntyped:
		return "untyped"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Label is one name/value pair attached to a sample.
type Label struct {
	Name  string
	Value string
}

// Sample is one observation of a metric within one document.
type Sample struct {
	Labels []Label
	Value  string
}

// Collector reads one OS source and returns freshly built metrics.
// Params: context for cancellation and the per-scrape configuration.
// Returns: metrics in render order or a typed scrape error.
type Collector interface {
	Name() string
	Collect(ctx context.Context, sc ScrapeContext) ([]*Metric, error)
}
