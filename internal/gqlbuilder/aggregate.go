package gqlbuilder

import "strings"

// Aggregation is one requested aggregate: a target field plus a function
// name (sum, avg, min, max, count). An empty function defaults to sum.
type Aggregation struct {
	Field    string `json:"field" mapstructure:"field"`
	Function string `json:"function,omitempty" mapstructure:"function"`
}

var aggregateFunctions = map[string]struct{}{
	"sum":   {},
	"avg":   {},
	"min":   {},
	"max":   {},
	"count": {},
}

const defaultAggregateFunction = "sum"

// BuildAggregationBlock renders the aggregations sub-block for a group-by
// query. With no requests it emits a bare count (row count per group).
//
// Entries that cannot be emitted verbatim are silently downgraded to count:
// a missing field, a field outside numericFields, or an unknown function.
// Returning something interpretable always beats rejecting the request
// here; resolver-level validation already happened upstream of this call.
// Duplicate fragments are removed, first occurrence wins.
func BuildAggregationBlock(requested []Aggregation, numericFields []string) string {
	numeric := make(map[string]struct{}, len(numericFields))
	for _, f := range numericFields {
		numeric[f] = struct{}{}
	}

	var fragments []string
	if len(requested) == 0 {
		fragments = []string{"count"}
	} else {
		fragments = make([]string, 0, len(requested))
		for _, agg := range requested {
			fragments = append(fragments, aggregationFragment(agg, numeric))
		}
	}

	seen := make(map[string]struct{}, len(fragments))
	deduped := fragments[:0]
	for _, frag := range fragments {
		if _, dup := seen[frag]; dup {
			continue
		}
		seen[frag] = struct{}{}
		deduped = append(deduped, frag)
	}

	return "aggregations {\n" + strings.Join(deduped, "\n") + "\n}"
}

func aggregationFragment(agg Aggregation, numeric map[string]struct{}) string {
	fn := agg.Function
	if fn == "" {
		fn = defaultAggregateFunction
	}
	if _, known := aggregateFunctions[fn]; !known {
		return "count"
	}
	if agg.Field == "" {
		return "count"
	}
	if _, ok := numeric[agg.Field]; !ok {
		return "count"
	}
	// Field name is a bare identifier: it is an enum member upstream.
	return fn + "(field: " + agg.Field + ")"
}
