package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	ProfilingLabelRoute     = "route"
	ProfilingLabelMethod    = "method"
	ProfilingLabelOperation = "operation"
	ProfilingLabelDomain    = "domain"
)

// Operation label values for the storefront's hot paths
const (
	OperationPlaceOrder   = "place_order"
	OperationRecordRating = "record_rating"
)

// MaxLabelValueLength caps label values so a stray path cannot blow up
// profile cardinality
const MaxLabelValueLength = 128

// highCardinalityLabels are dropped from profiling labels. Per-entity ids
// belong on spans, not on profiles.
var highCardinalityLabels = map[string]bool{
	"user_id":    true,
	"request_id": true,
	"order_id":   true,
	"product_id": true,
	"trace_id":   true,
	"span_id":    true,
}

// WithProfilingLabels runs fn with labels attached to its goroutine, so CPU
// and allocation samples taken inside fn can be filtered by them in
// Pyroscope. Labels nest: an inner call adds to the outer set.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// HTTPRequestLabels labels a request by its matched route pattern and method
func HTTPRequestLabels(route, method string) map[string]string {
	labels := make(map[string]string, 2)
	if route != "" {
		labels[ProfilingLabelRoute] = route
	}
	if method != "" {
		labels[ProfilingLabelMethod] = method
	}
	return labels
}

// OperationLabels labels a service operation within a domain
func OperationLabels(domain, operation string) map[string]string {
	return map[string]string{
		ProfilingLabelDomain:    domain,
		ProfilingLabelOperation: operation,
	}
}

// sanitizeLabels returns sorted key/value pairs with empty entries and
// high-cardinality keys removed and long values truncated
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range keys {
		value := labels[key]
		name := sanitizeLabelKey(key)
		if value == "" || name == "" || highCardinalityLabels[name] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		pairs = append(pairs, name, value)
	}
	return pairs
}

// sanitizeLabelKey lowercases key and keeps only [a-z0-9_], mapping spaces
// and dashes to underscores
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
