package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/common/model"
)

// Metric is one named series populated during a single scrape.
// Params: name, kind, and ordered samples.
// Returns: renderable metric instance.
type Metric struct {
	name    string
	kind    Kind
	samples []Sample
	series  map[string]struct{}
}

// NewMetric validates metric name and kind.
// Params: name must match the exposition metric-name grammar; kind is counter/gauge/untyped.
// Returns: empty metric or validation error.
func NewMetric(name string, kind Kind) (*Metric, error) {
	if !model.IsValidLegacyMetricName(name) {
		return nil, fmt.Errorf("%w: invalid metric name %q", ErrInvalidParameter, name)
	}
	if kind > KindGauge {
		return nil, fmt.Errorf("%w: unsupported metric kind %d for %q", ErrInvalidParameter, uint8(kind), name)
	}

	return &Metric{
		name:   name,
		kind:   kind,
		series: make(map[string]struct{}),
	}, nil
}

// Name returns metric name.
// Params: none.
// Returns: metric name string.
func (m *Metric) Name() string {
	return m.name
}

// Kind returns metric kind.
// Params: none.
// Returns: metric kind.
func (m *Metric) Kind() Kind {
	return m.kind
}

// Samples returns a copy of accumulated samples.
// Params: none.
// Returns: samples in insertion order.
func (m *Metric) Samples() []Sample {
	out := make([]Sample, len(m.samples))
	for idx, sample := range m.samples {
		out[idx] = Sample{
			Labels: append([]Label(nil), sample.Labels...),
			Value:  sample.Value,
		}
	}
	return out
}

// Add appends one sample; label order is kept as given.
// Params: value is numeric text; labels is optional ordered label-set.
// Returns: error on invalid/duplicate label names or repeated label-set.
func (m *Metric) Add(value string, labels ...Label) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: empty value for %s", ErrMalformedData, m.name)
	}

	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if !model.LabelName(label.Name).IsValidLegacy() {
			return fmt.Errorf("%w: invalid label name %q for %s", ErrInvalidParameter, label.Name, m.name)
		}
		if _, exists := seen[label.Name]; exists {
			return fmt.Errorf("%w: duplicate label %q for %s", ErrMalformedData, label.Name, m.name)
		}
		seen[label.Name] = struct{}{}
	}

	key := seriesKey(labels)
	if _, exists := m.series[key]; exists {
		return fmt.Errorf("%w: duplicate series %s%s", ErrMalformedData, m.name, key)
	}
	m.series[key] = struct{}{}

	m.samples = append(m.samples, Sample{
		Labels: append([]Label(nil), labels...),
		Value:  value,
	})
	return nil
}

// Render produces the exposition text for this metric.
// Params: none.
// Returns: TYPE header followed by one line per sample.
func (m *Metric) Render() string {
	var builder strings.Builder
	m.renderTo(&builder)
	return builder.String()
}

func (m *Metric) renderTo(builder *strings.Builder) {
	builder.WriteString("# TYPE ")
	builder.WriteString(m.name)
	builder.WriteByte(' ')
	builder.WriteString(m.kind.String())
	builder.WriteByte('\n')

	for _, sample := range m.samples {
		builder.WriteString(m.name)
		writeLabels(builder, sample.Labels)
		builder.WriteByte(' ')
		builder.WriteString(sample.Value)
		builder.WriteByte('\n')
	}
}

// writeLabels renders `{k="v",...}`; no braces for an empty label-set.
func writeLabels(builder *strings.Builder, labels []Label) {
	if len(labels) == 0 {
		return
	}

	builder.WriteByte('{')
	for idx, label := range labels {
		if idx > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(label.Name)
		builder.WriteString(`="`)
		builder.WriteString(escapeLabelValue(label.Value))
		builder.WriteByte('"')
	}
	builder.WriteByte('}')
}

var labelValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// escapeLabelValue quotes backslash, double quote, and newline per text exposition rules.
// Params: raw label value.
// Returns: escaped value safe inside double quotes.
func escapeLabelValue(value string) string {
	return labelValueEscaper.Replace(value)
}

// seriesKey builds identity of one label-set independent of label order.
func seriesKey(labels []Label) string {
	sorted := append([]Label(nil), labels...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var builder strings.Builder
	writeLabels(&builder, sorted)
	return builder.String()
}
