package config

import "time"

// Config holds the application configuration.
type Config struct {
	Upstream      UpstreamConfig      `mapstructure:"upstream"`
	Server        ServerConfig        `mapstructure:"server"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// UpstreamConfig holds the trade-data gateway connection parameters.
type UpstreamConfig struct {
	// Endpoint is the gateway's GraphQL URL.
	Endpoint string `mapstructure:"endpoint"`

	// SubscriptionKey authenticates against the gateway (Azure API
	// Management style). It can be supplied literally, via a file
	// ("@-" reads stdin), or via an interactive no-echo prompt.
	SubscriptionKey       string `mapstructure:"subscription_key"`
	SubscriptionKeyFile   string `mapstructure:"subscription_key_file"`
	SubscriptionKeyPrompt bool   `mapstructure:"subscription_key_prompt"`
	// SubscriptionKeyHeader overrides the header name carrying the key.
	SubscriptionKeyHeader string `mapstructure:"subscription_key_header"`

	// Timeout bounds a single upstream HTTP call.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxResponseBytes caps how much of an upstream response is read.
	MaxResponseBytes int64 `mapstructure:"max_response_bytes"`

	// ValidateQueries parses every assembled query locally before sending.
	ValidateQueries bool `mapstructure:"validate_queries"`
}

// ServerConfig holds MCP server parameters.
type ServerConfig struct {
	Name            string        `mapstructure:"name"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging parameters.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// MetricsConfig controls the Prometheus metrics listener.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// ObservabilityConfig holds observability parameters.
type ObservabilityConfig struct {
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Environment    string        `mapstructure:"environment"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
	Logging        LoggingConfig `mapstructure:"logging"`
}
