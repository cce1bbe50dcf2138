package toolserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"tradeflow-mcp/internal/logging"
	"tradeflow-mcp/internal/registry"
)

type fakeExecutor struct {
	lastQuery string
	data      json.RawMessage
	err       error
}

func (f *fakeExecutor) Execute(_ context.Context, query string) (json.RawMessage, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func newTestServer(t *testing.T, exec *fakeExecutor) *Server {
	t.Helper()
	logger := logging.NewLogger(logging.Config{Level: "error", Format: "text"})
	return NewServer(registry.Default(), exec, logger, nil, Options{
		Name:            "tradeflow-mcp-test",
		Version:         "0.0.1",
		ValidateQueries: true,
	})
}

func resultText(t *testing.T, result *sdk.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*sdk.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestQueryToolExecutesBuiltQuery(t *testing.T) {
	exec := &fakeExecutor{data: json.RawMessage(`{"countryAreas":{"items":[{"ISO3":"IND"}]}}`)}
	s := newTestServer(t, exec)

	first := 5
	result, _, err := s.queryTool("countries")(context.Background(), nil, &QueryToolParams{
		First:  &first,
		Fields: []string{"ISO3", "NAME"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	require.Contains(t, exec.lastQuery, "countryAreas(first: 5)")
	require.Contains(t, exec.lastQuery, "ISO3")
	require.JSONEq(t, `{"countryAreas":{"items":[{"ISO3":"IND"}]}}`, resultText(t, result))
}

func TestQueryToolNilParams(t *testing.T) {
	exec := &fakeExecutor{data: json.RawMessage(`{}`)}
	s := newTestServer(t, exec)

	result, _, err := s.queryTool("commodities")(context.Background(), nil, nil)
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Contains(t, exec.lastQuery, "commodities {")
}

func TestQueryToolUpstreamErrorBecomesToolError(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("gateway exploded")}
	s := newTestServer(t, exec)

	result, _, err := s.queryTool("transactions")(context.Background(), nil, &QueryToolParams{})
	require.NoError(t, err, "transport errors must surface as tool errors, not protocol errors")
	require.True(t, result.IsError)
	require.Contains(t, resultText(t, result), "gateway exploded")
}

func TestQueryToolGroupByAggregations(t *testing.T) {
	exec := &fakeExecutor{data: json.RawMessage(`{}`)}
	s := newTestServer(t, exec)

	result, _, err := s.queryTool("monthly_imports")(context.Background(), nil, &QueryToolParams{
		GroupBy: []string{"REPORTER_ISO3"},
		Aggregations: []AggregationParam{
			{Field: "TRADE_VALUE_USD", Function: "sum"},
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Contains(t, exec.lastQuery, "groupBy(fields: [REPORTER_ISO3])")
	require.Contains(t, exec.lastQuery, "sum(field: TRADE_VALUE_USD)")
}

func TestPreviewQueryReturnsTextWithoutExecuting(t *testing.T) {
	exec := &fakeExecutor{data: json.RawMessage(`{}`)}
	s := newTestServer(t, exec)

	result, _, err := s.previewQuery(context.Background(), nil, &PreviewQueryParams{
		Table: "monthly_exports",
		QueryToolParams: QueryToolParams{
			Filter: map[string]interface{}{"YEAR": map[string]interface{}{"eq": 2023}},
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Empty(t, exec.lastQuery, "preview must not hit the upstream")

	text := resultText(t, result)
	require.Contains(t, text, "monthlyExports(filter: { YEAR: { eq: 2023 } })")
}

func TestPreviewQueryUnknownTable(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{})

	result, _, err := s.previewQuery(context.Background(), nil, &PreviewQueryParams{Table: "nope"})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, resultText(t, result), "unknown resolver")
	require.Contains(t, resultText(t, result), "monthly_imports")
}

func TestListTables(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{})

	result, _, err := s.listTables(context.Background(), nil, &ListTablesParams{})
	require.NoError(t, err)
	require.False(t, result.IsError)

	var tables []struct {
		Table         string   `json:"table"`
		QueryName     string   `json:"query_name"`
		Fields        []string `json:"fields"`
		NumericFields []string `json:"numeric_fields"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &tables))
	require.Len(t, tables, 5)

	byKey := map[string]string{}
	for _, table := range tables {
		byKey[table.Table] = table.QueryName
	}
	require.Equal(t, "countryAreas", byKey["countries"])
	require.Equal(t, "tradeTransactions", byKey["transactions"])
}

func TestToolAliasesTargetKnownResolvers(t *testing.T) {
	reg := registry.Default()
	for alias, key := range toolAliases {
		_, err := reg.Lookup(key)
		require.NoError(t, err, "alias %s points at unknown resolver %s", alias, key)
	}
}
