// Package serverapp wires configuration, logging, metrics, the upstream
// client, and the MCP tool server into a managed lifecycle.
package serverapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"tradeflow-mcp/internal/config"
	"tradeflow-mcp/internal/gqlclient"
	"tradeflow-mcp/internal/logging"
	"tradeflow-mcp/internal/observability"
	"tradeflow-mcp/internal/registry"
	"tradeflow-mcp/internal/toolserver"
)

// App owns runtime resources for the tradeflow-mcp server lifecycle.
type App struct {
	cfg    *config.Config
	logger *logging.Logger

	metricsProvider *observability.Provider
	toolMetrics     *observability.ToolMetrics

	server     *toolserver.Server
	metricsSrv *http.Server

	runCancel context.CancelFunc

	cleanup cleanupStack

	stateMu      sync.Mutex
	initialized  bool
	started      bool
	serverErrors chan error

	shutdownOnce sync.Once
}

// New creates an App lifecycle wrapper.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &App{cfg: cfg, logger: logger}, nil
}

// Init builds the upstream client, metrics, and the tool server. It does not
// start serving.
func (a *App) Init(ctx context.Context) error {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	if a.initialized {
		return nil
	}

	if a.cfg.Observability.Metrics.Enabled {
		provider, err := observability.Init(observability.Config{
			ServiceName:    a.cfg.Observability.ServiceName,
			ServiceVersion: a.cfg.Observability.ServiceVersion,
			Environment:    a.cfg.Observability.Environment,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		a.metricsProvider = provider
		a.cleanup.push("meter provider", provider.Shutdown)

		toolMetrics, err := observability.InitToolMetrics()
		if err != nil {
			a.cleanup.run(ctx, a.logger)
			return fmt.Errorf("failed to initialize tool metrics: %w", err)
		}
		a.toolMetrics = toolMetrics

		mux := http.NewServeMux()
		mux.Handle("/metrics", provider.Handler())
		a.metricsSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", a.cfg.Observability.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		a.cleanup.push("metrics listener", a.metricsSrv.Shutdown)
	}

	client := gqlclient.New(gqlclient.Config{
		Endpoint:              a.cfg.Upstream.Endpoint,
		SubscriptionKey:       a.cfg.Upstream.SubscriptionKey,
		SubscriptionKeyHeader: a.cfg.Upstream.SubscriptionKeyHeader,
		Timeout:               a.cfg.Upstream.Timeout,
		MaxResponseBytes:      a.cfg.Upstream.MaxResponseBytes,
	})

	a.server = toolserver.NewServer(registry.Default(), client, a.logger, a.toolMetrics, toolserver.Options{
		Name:            a.cfg.Server.Name,
		Version:         a.cfg.Observability.ServiceVersion,
		ValidateQueries: a.cfg.Upstream.ValidateQueries,
	})

	a.initialized = true
	return nil
}

// Start launches the MCP stdio session and, when enabled, the metrics
// listener. It requires Init to have completed.
func (a *App) Start(ctx context.Context) (<-chan error, error) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	if !a.initialized {
		return nil, fmt.Errorf("app is not initialized")
	}
	if a.started {
		return a.serverErrors, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.runCancel = cancel
	a.cleanup.push("mcp session", func(context.Context) error {
		cancel()
		return nil
	})

	a.serverErrors = make(chan error, 2)

	a.logger.Info("starting MCP server",
		slog.String("name", a.cfg.Server.Name),
		slog.String("transport", "stdio"),
		slog.String("upstream", a.cfg.Upstream.Endpoint),
	)
	go func() {
		a.serverErrors <- a.server.Run(runCtx, &sdk.StdioTransport{})
	}()

	if a.metricsSrv != nil {
		a.logger.Info("starting metrics listener", slog.String("addr", a.metricsSrv.Addr))
		go func() {
			if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.serverErrors <- fmt.Errorf("metrics listener failed: %w", err)
			}
		}()
	}

	a.started = true
	return a.serverErrors, nil
}

// WaitForStop waits for an OS signal, a server error, or a clean client
// disconnect. A nil error on serverErrors means the MCP client closed the
// session normally.
func (a *App) WaitForStop(stop <-chan os.Signal, serverErrors <-chan error) (reason string, err error) {
	if serverErrors == nil {
		a.stateMu.Lock()
		serverErrors = a.serverErrors
		a.stateMu.Unlock()
	}

	if stop == nil && serverErrors == nil {
		return "", fmt.Errorf("both stop and serverErrors channels are nil")
	}
	if stop == nil {
		return a.serverResult(<-serverErrors)
	}
	if serverErrors == nil {
		sig := <-stop
		a.logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		return "signal", nil
	}

	select {
	case err := <-serverErrors:
		return a.serverResult(err)
	case sig := <-stop:
		a.logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		return "signal", nil
	}
}

func (a *App) serverResult(err error) (string, error) {
	if err == nil || errors.Is(err, context.Canceled) {
		a.logger.Info("MCP session closed")
		return "session_closed", nil
	}
	return "server_error", fmt.Errorf("server failed: %w", err)
}
