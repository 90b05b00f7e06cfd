package nlquery

import (
	"fmt"
	"sort"
	"strings"
)

// Status markers appended to the tag expression. The search backend indexes
// span outcomes under the OpenTelemetry status code tag.
const (
	tagStatusError   = `otel.status_code="ERROR"`
	tagStatusSuccess = `otel.status_code="OK"`
)

// Compile renders a StructuredQuery into the filter parameters the trace
// search consumes. Pure and deterministic: equal inputs always produce
// byte-identical output. Fields are applied in a fixed order; tags render
// as key="value" pairs joined by single spaces in sorted key order, with
// the status marker last. Status "all" adds nothing.
func Compile(q *StructuredQuery) FilterSet {
	fs := FilterSet{}

	if q.Service != "" {
		fs["service"] = q.Service
	}
	if q.Operation != "" {
		fs["operation"] = q.Operation
	}
	if q.MinDuration != "" {
		fs["minDuration"] = q.MinDuration
	}
	if q.MaxDuration != "" {
		fs["maxDuration"] = q.MaxDuration
	}

	var parts []string
	if len(q.Tags) > 0 {
		keys := make([]string, 0, len(q.Tags))
		for k := range q.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf(`%s="%s"`, k, q.Tags[k]))
		}
	}
	switch q.Status {
	case StatusError:
		parts = append(parts, tagStatusError)
	case StatusSuccess:
		parts = append(parts, tagStatusSuccess)
	}
	if len(parts) > 0 {
		fs["tags"] = strings.Join(parts, " ")
	}

	return fs
}
