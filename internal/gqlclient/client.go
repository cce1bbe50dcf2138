// Package gqlclient executes assembled GraphQL queries against the upstream
// trade-data gateway over HTTPS.
package gqlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tradeflow-mcp/internal/logging"
)

// DefaultSubscriptionKeyHeader is the Azure API Management key header used
// by the upstream gateway.
const DefaultSubscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

const defaultMaxResponseBytes = 8 << 20

// Config holds the upstream connection parameters.
type Config struct {
	Endpoint              string
	SubscriptionKey       string
	SubscriptionKeyHeader string
	Timeout               time.Duration
	MaxResponseBytes      int64
}

// UpstreamError reports a transport-level failure or GraphQL errors
// returned by the gateway.
type UpstreamError struct {
	StatusCode int
	Messages   []string
}

func (e *UpstreamError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("upstream GraphQL error: %s", strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("upstream returned HTTP %d", e.StatusCode)
}

// Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// New builds a client with an otel-instrumented transport so upstream calls
// carry trace context and produce HTTP client metrics.
func New(cfg Config) *Client {
	if cfg.SubscriptionKeyHeader == "" {
		cfg.SubscriptionKeyHeader = DefaultSubscriptionKeyHeader
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = defaultMaxResponseBytes
	}
	return &Client{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		cfg: cfg,
	}
}

type requestEnvelope struct {
	Query string `json:"query"`
}

type responseEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Execute posts the query text to the gateway and returns the raw data
// payload. A non-empty upstream errors array becomes an UpstreamError.
func (c *Client) Execute(ctx context.Context, query string) (json.RawMessage, error) {
	payload, err := json.Marshal(requestEnvelope{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.SubscriptionKey != "" {
		req.Header.Set(c.cfg.SubscriptionKeyHeader, c.cfg.SubscriptionKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	logging.FromContext(ctx).Debug("upstream query executed",
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
		"response_bytes", len(body),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, gqlErr := range envelope.Errors {
			messages[i] = gqlErr.Message
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Messages: messages}
	}
	return envelope.Data, nil
}
