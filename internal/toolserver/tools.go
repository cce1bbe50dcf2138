package toolserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"tradeflow-mcp/internal/gqlbuilder"
	"tradeflow-mcp/internal/logging"
)

// toolAliases registers additional friendly names for resolver query tools.
// Both names invoke the same handler against the same resolver.
var toolAliases = map[string]string{
	"lookup_country":     "countries",
	"search_commodities": "commodities",
}

func (s *Server) registerTools() {
	for _, key := range s.registry.Keys() {
		desc, err := s.registry.Lookup(key)
		if err != nil {
			continue
		}
		sdk.AddTool(s.mcp, &sdk.Tool{
			Name:        "query_" + key,
			Description: fmt.Sprintf("Query %s from the trade-data gateway (%s)", key, desc.Description),
		}, s.queryTool(key))
	}

	for alias, key := range toolAliases {
		desc, err := s.registry.Lookup(key)
		if err != nil {
			continue
		}
		sdk.AddTool(s.mcp, &sdk.Tool{
			Name:        alias,
			Description: fmt.Sprintf("Alias for query_%s (%s)", key, desc.Description),
		}, s.queryTool(key))
	}

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_tables",
		Description: "List the queryable tables with their fields, numeric fields, and upstream type names",
	}, s.listTables)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "preview_query",
		Description: "Build and return the GraphQL query text for the given table and parameters without executing it",
	}, s.previewQuery)
}

// queryTool returns the handler for one resolver's query tool.
func (s *Server) queryTool(resolverKey string) func(context.Context, *sdk.CallToolRequest, *QueryToolParams) (*sdk.CallToolResult, any, error) {
	return func(ctx context.Context, _ *sdk.CallToolRequest, params *QueryToolParams) (*sdk.CallToolResult, any, error) {
		ctx, log := s.invocationContext(ctx, "query_"+resolverKey, resolverKey)
		done := s.metrics.Begin(ctx, "query_"+resolverKey)

		if params == nil {
			params = &QueryToolParams{}
		}
		result, err := s.runQuery(ctx, resolverKey, params.builderParams())
		done(err != nil)
		if err != nil {
			log.Warn("tool invocation failed", "error", err)
			return errorResult(err), nil, nil
		}
		return textResult(string(result)), nil, nil
	}
}

func (s *Server) runQuery(ctx context.Context, resolverKey string, params gqlbuilder.Params) (json.RawMessage, error) {
	query, err := s.builder.Build(resolverKey, params)
	if err != nil {
		return nil, err
	}
	if s.opts.ValidateQueries {
		if err := gqlbuilder.CheckSyntax(query); err != nil {
			return nil, fmt.Errorf("assembled query failed local parse: %w", err)
		}
	}
	logging.FromContext(ctx).Debug("executing upstream query", "query", query)
	return s.executor.Execute(ctx, query)
}

func (s *Server) listTables(ctx context.Context, _ *sdk.CallToolRequest, _ *ListTablesParams) (*sdk.CallToolResult, any, error) {
	ctx, _ = s.invocationContext(ctx, "list_tables", "")
	done := s.metrics.Begin(ctx, "list_tables")
	defer done(false)

	type tableInfo struct {
		Table            string   `json:"table"`
		QueryName        string   `json:"query_name"`
		Description      string   `json:"description"`
		Fields           []string `json:"fields"`
		NumericFields    []string `json:"numeric_fields"`
		FilterInputType  string   `json:"filter_input_type"`
		OrderByInputType string   `json:"order_by_input_type"`
	}

	tables := make([]tableInfo, 0, len(s.registry.Keys()))
	for _, key := range s.registry.Keys() {
		desc, err := s.registry.Lookup(key)
		if err != nil {
			continue
		}
		tables = append(tables, tableInfo{
			Table:            key,
			QueryName:        desc.QueryName,
			Description:      desc.Description,
			Fields:           desc.Fields,
			NumericFields:    desc.NumericFields,
			FilterInputType:  desc.FilterInputType,
			OrderByInputType: desc.OrderByInputType,
		})
	}

	payload, err := json.MarshalIndent(tables, "", "  ")
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(string(payload)), nil, nil
}

func (s *Server) previewQuery(ctx context.Context, _ *sdk.CallToolRequest, params *PreviewQueryParams) (*sdk.CallToolResult, any, error) {
	if params == nil {
		params = &PreviewQueryParams{}
	}
	ctx, log := s.invocationContext(ctx, "preview_query", params.Table)
	done := s.metrics.Begin(ctx, "preview_query")

	query, err := s.builder.Build(params.Table, params.builderParams())
	done(err != nil)
	if err != nil {
		log.Warn("preview failed", "error", err)
		return errorResult(err), nil, nil
	}
	return textResult(query), nil, nil
}

// invocationContext attaches a request-scoped logger to the context.
func (s *Server) invocationContext(ctx context.Context, tool, resolverKey string) (context.Context, *logging.Logger) {
	requestID := uuid.NewString()
	log := s.logger.WithRequestID(requestID).WithFields("tool", tool)
	if resolverKey != "" {
		log = log.WithFields("resolver", resolverKey)
	}
	ctx = logging.WithRequestIDContext(ctx, requestID)
	ctx = logging.WithLogger(ctx, log)
	log.Info("tool invoked")
	return ctx, log
}

func textResult(text string) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
	}
}

func errorResult(err error) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		IsError: true,
		Content: []sdk.Content{&sdk.TextContent{Text: err.Error()}},
	}
}
