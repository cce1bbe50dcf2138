package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "tradeflow-mcp", cfg.Server.Name)
	require.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	require.Equal(t, int64(8<<20), cfg.Upstream.MaxResponseBytes)
	require.Equal(t, "Ocp-Apim-Subscription-Key", cfg.Upstream.SubscriptionKeyHeader)
	require.True(t, cfg.Upstream.ValidateQueries)
	require.Equal(t, "info", cfg.Observability.Logging.Level)
	require.Equal(t, "json", cfg.Observability.Logging.Format)
	require.False(t, cfg.Observability.Metrics.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TRMCP_UPSTREAM_ENDPOINT", "https://gateway.example.com/graphql")
	t.Setenv("TRMCP_UPSTREAM_SUBSCRIPTION_KEY", "from-env")
	t.Setenv("TRMCP_OBSERVABILITY_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://gateway.example.com/graphql", cfg.Upstream.Endpoint)
	require.Equal(t, "from-env", cfg.Upstream.SubscriptionKey)
	require.Equal(t, "debug", cfg.Observability.Logging.Level)
}

func TestLoadSubscriptionKeyFromFile(t *testing.T) {
	keyFile := t.TempDir() + "/key"
	require.NoError(t, os.WriteFile(keyFile, []byte("file-key\n"), 0o600))

	t.Setenv("TRMCP_UPSTREAM_SUBSCRIPTION_KEY_FILE", keyFile)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "file-key", cfg.Upstream.SubscriptionKey)
}

func TestValidateRequiresEndpoint(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Upstream.Endpoint = ""

	result := cfg.Validate()
	require.True(t, result.HasErrors())
	require.Equal(t, "upstream.endpoint", result.Errors[0].Field)
}

func TestValidateRejectsBadEndpointURL(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Upstream.Endpoint = "not a url"

	result := cfg.Validate()
	require.True(t, result.HasErrors())
}

func TestValidateWarnsOnMissingKey(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Upstream.Endpoint = "https://gateway.example.com/graphql"
	cfg.Upstream.SubscriptionKey = ""

	result := cfg.Validate()
	require.False(t, result.HasErrors())
	require.NotEmpty(t, result.Warnings)
	require.Equal(t, "upstream.subscription_key", result.Warnings[0].Field)
}

func TestValidateLoggingEnums(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Upstream.Endpoint = "https://gateway.example.com/graphql"
	cfg.Observability.Logging.Level = "loud"
	cfg.Observability.Logging.Format = "xml"

	result := cfg.Validate()
	require.Len(t, result.Errors, 2)
}
