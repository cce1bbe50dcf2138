// Package toolserver exposes the trade-data query tools over the Model
// Context Protocol.
package toolserver

import (
	"context"
	"encoding/json"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"tradeflow-mcp/internal/gqlbuilder"
	"tradeflow-mcp/internal/logging"
	"tradeflow-mcp/internal/observability"
	"tradeflow-mcp/internal/registry"
)

// Executor runs an assembled query against the upstream gateway.
type Executor interface {
	Execute(ctx context.Context, query string) (json.RawMessage, error)
}

// Options configures the tool server.
type Options struct {
	Name    string
	Version string

	// ValidateQueries parses assembled queries locally before sending,
	// turning gateway syntax rejections into immediate tool errors.
	ValidateQueries bool
}

// Server registers the trade-data tools on an MCP server.
type Server struct {
	registry *registry.Registry
	builder  *gqlbuilder.Builder
	executor Executor
	logger   *logging.Logger
	metrics  *observability.ToolMetrics
	opts     Options
	mcp      *sdk.Server
}

// NewServer builds the MCP server and registers all tools.
func NewServer(reg *registry.Registry, executor Executor, logger *logging.Logger, metrics *observability.ToolMetrics, opts Options) *Server {
	s := &Server{
		registry: reg,
		builder:  gqlbuilder.New(reg),
		executor: executor,
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    opts.Name,
			Version: opts.Version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves MCP over the given transport until ctx is cancelled.
func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
