package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// WithProfilingLabels runs fn with pprof labels attached, so samples taken
// inside it can be filtered in Pyroscope. Keep label values low-cardinality:
// routes, not order numbers.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := labelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// HTTPRequestLabels labels samples with the matched route and method
func HTTPRequestLabels(route, method string) map[string]string {
	if route == "" {
		route = "unmatched"
	}
	return map[string]string{"http_route": route, "http_method": method}
}

// labelPairs flattens labels into sorted key/value pairs, dropping empty
// values and replacing characters pprof keys do not allow.
func labelPairs(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if k != "" && v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, sanitizeLabelKey(k), labels[k])
	}
	return pairs
}

func sanitizeLabelKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}
