// Package gqlbuilder assembles inline-literal GraphQL query text for the
// upstream trade-data gateway. The gateway forwards the query text verbatim
// and accepts no variable definitions, so every argument value is embedded
// as a literal (see ToLiteral).
package gqlbuilder

import (
	"strings"

	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"

	"tradeflow-mcp/internal/registry"
)

// Params is the caller-supplied parameter bag for one query. The builder
// never mutates it.
type Params struct {
	// First bounds the page size; After is the opaque pagination cursor.
	First *int
	After *string

	// Filter is an arbitrarily nested field -> operator-object tree, with
	// reserved "and"/"or" keys holding arrays of nested trees. It is passed
	// to the literal serializer verbatim, not validated against the registry.
	Filter map[string]interface{}

	// OrderBy maps field names to "ASC" or "DESC".
	OrderBy map[string]interface{}

	// Fields selects a subset of the resolver's fields; unknown names are
	// dropped silently. Empty means all registry fields in registry order.
	// When every requested name is unknown the full field list is also
	// used, since an empty items selection would be invalid GraphQL.
	Fields []string

	// GroupBy requests server-side grouping; unknown names drop silently.
	GroupBy []string

	// Aggregations are the per-group summary statistics. Ignored unless
	// GroupBy selects at least one known field.
	Aggregations []Aggregation
}

// Builder assembles queries against a resolver registry. It is stateless
// and safe for concurrent use.
type Builder struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Builder {
	return &Builder{reg: reg}
}

// Build assembles the query text for resolverKey. The only failure modes
// are an unknown resolver key and a non-serializable argument value;
// unknown field and group-by names are normalized away, not rejected.
func (b *Builder) Build(resolverKey string, p Params) (string, error) {
	desc, err := b.reg.Lookup(resolverKey)
	if err != nil {
		return "", err
	}

	args, err := buildArguments(p)
	if err != nil {
		return "", err
	}

	selected := intersectFields(p.Fields, desc)
	if len(selected) == 0 {
		selected = desc.Fields
	}
	groupBy := intersectFields(p.GroupBy, desc)

	var sb strings.Builder
	sb.WriteString("query {\n")
	sb.WriteString("  ")
	sb.WriteString(desc.QueryName)
	if len(args) > 0 {
		sb.WriteString("(")
		sb.WriteString(strings.Join(args, ", "))
		sb.WriteString(")")
	}
	sb.WriteString(" {\n")
	sb.WriteString("    items {\n")
	for _, field := range selected {
		sb.WriteString("      ")
		sb.WriteString(field)
		sb.WriteString("\n")
	}
	sb.WriteString("    }\n")
	// endCursor and hasNextPage are part of the gateway's fixed response
	// shape for every resolver, grouped or not.
	sb.WriteString("    endCursor\n")
	sb.WriteString("    hasNextPage\n")
	if len(groupBy) > 0 {
		writeGroupByBlock(&sb, groupBy, p.Aggregations, desc.NumericFields)
	}
	sb.WriteString("  }\n")
	sb.WriteString("}")
	return sb.String(), nil
}

// buildArguments renders the ordered inline argument list. Absent
// parameters are omitted entirely rather than passed as null.
func buildArguments(p Params) ([]string, error) {
	args := make([]string, 0, 4)
	if p.First != nil {
		lit, err := ToLiteral(*p.First)
		if err != nil {
			return nil, err
		}
		args = append(args, "first: "+lit)
	}
	if p.After != nil {
		lit, err := ToLiteral(*p.After)
		if err != nil {
			return nil, err
		}
		args = append(args, "after: "+lit)
	}
	if len(p.Filter) > 0 {
		lit, err := ToLiteral(p.Filter)
		if err != nil {
			return nil, err
		}
		args = append(args, "filter: "+lit)
	}
	if len(p.OrderBy) > 0 {
		lit, err := ToLiteral(p.OrderBy)
		if err != nil {
			return nil, err
		}
		args = append(args, "orderBy: "+lit)
	}
	return args, nil
}

func writeGroupByBlock(sb *strings.Builder, groupBy []string, aggs []Aggregation, numericFields []string) {
	sb.WriteString("    groupBy(fields: [")
	sb.WriteString(strings.Join(groupBy, ", "))
	sb.WriteString("]) {\n")
	sb.WriteString("      fields {\n")
	for _, field := range groupBy {
		sb.WriteString("        ")
		sb.WriteString(field)
		sb.WriteString("\n")
	}
	sb.WriteString("      }\n")
	for _, line := range strings.Split(BuildAggregationBlock(aggs, numericFields), "\n") {
		sb.WriteString("      ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("    }\n")
}

// intersectFields keeps requested names that the descriptor knows,
// preserving the caller's order. Unknown names drop silently.
func intersectFields(requested []string, desc registry.Descriptor) []string {
	if len(requested) == 0 {
		return nil
	}
	kept := make([]string, 0, len(requested))
	for _, name := range requested {
		if desc.HasField(name) {
			kept = append(kept, name)
		}
	}
	return kept
}

// CheckSyntax parses query with the GraphQL reference parser and returns
// the parse error, if any. Used as a pre-flight check before sending to
// the upstream gateway when upstream.validate_queries is enabled.
func CheckSyntax(query string) error {
	src := source.NewSource(&source.Source{
		Body: []byte(query),
		Name: "assembled query",
	})
	_, err := parser.Parse(parser.ParseParams{Source: src})
	return err
}
