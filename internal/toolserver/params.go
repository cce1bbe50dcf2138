package toolserver

import "tradeflow-mcp/internal/gqlbuilder"

// QueryToolParams mirrors the builder's parameter bag as it appears to MCP
// clients. The jsonschema tags become the per-tool parameter schemas.
type QueryToolParams struct {
	First        *int                   `json:"first,omitempty" jsonschema:"Maximum number of rows to return"`
	After        *string                `json:"after,omitempty" jsonschema:"Opaque pagination cursor from a previous response"`
	Filter       map[string]interface{} `json:"filter,omitempty" jsonschema:"Filter tree of FIELD -> {operator: value} objects; use and/or keys with arrays for compound conditions"`
	OrderBy      map[string]interface{} `json:"order_by,omitempty" jsonschema:"Map of FIELD -> ASC or DESC"`
	Fields       []string               `json:"fields,omitempty" jsonschema:"Fields to select; unknown names are ignored; empty selects all fields"`
	GroupBy      []string               `json:"group_by,omitempty" jsonschema:"Fields to group by; enables the aggregations block"`
	Aggregations []AggregationParam     `json:"aggregations,omitempty" jsonschema:"Per-group summary statistics; requires group_by"`
}

// AggregationParam is one requested aggregate.
type AggregationParam struct {
	Field    string `json:"field" jsonschema:"Numeric field to aggregate"`
	Function string `json:"function,omitempty" jsonschema:"One of sum, avg, min, max, count; defaults to sum"`
}

// PreviewQueryParams drives the preview_query dry-run tool.
type PreviewQueryParams struct {
	Table string `json:"table" jsonschema:"Resolver key, e.g. monthly_imports (see list_tables)"`
	QueryToolParams
}

// ListTablesParams has no arguments.
type ListTablesParams struct{}

func (p *QueryToolParams) builderParams() gqlbuilder.Params {
	out := gqlbuilder.Params{
		First:   p.First,
		After:   p.After,
		Filter:  p.Filter,
		OrderBy: p.OrderBy,
		Fields:  p.Fields,
		GroupBy: p.GroupBy,
	}
	if len(p.Aggregations) > 0 {
		out.Aggregations = make([]gqlbuilder.Aggregation, len(p.Aggregations))
		for i, agg := range p.Aggregations {
			out.Aggregations[i] = gqlbuilder.Aggregation{Field: agg.Field, Function: agg.Function}
		}
	}
	return out
}
