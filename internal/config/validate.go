package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error with context.
type ValidationError struct {
	Field   string
	Message string
	Hint    string
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", e.Field, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
	Hint    string
}

// ValidationResult contains the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Validate checks the configuration and returns errors (fatal) and
// warnings (non-fatal).
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}
	c.Upstream.validate(result)
	c.Server.validate(result)
	c.Observability.validate(result)
	return result
}

func (u *UpstreamConfig) validate(result *ValidationResult) {
	if strings.TrimSpace(u.Endpoint) == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "upstream.endpoint",
			Message: "endpoint is required",
			Hint:    "set TRMCP_UPSTREAM_ENDPOINT or --upstream.endpoint",
		})
	} else {
		parsed, err := url.Parse(u.Endpoint)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "upstream.endpoint",
				Message: fmt.Sprintf("invalid endpoint URL %q", u.Endpoint),
				Hint:    "expected an absolute http(s) URL",
			})
		}
	}

	if u.SubscriptionKey == "" {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "upstream.subscription_key",
			Message: "no subscription key configured; upstream calls will be unauthenticated",
			Hint:    "set upstream.subscription_key, a key file, or --upstream.subscription_key_prompt",
		})
	}

	if u.Timeout <= 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "upstream.timeout",
			Message: "timeout must be positive",
		})
	}
	if u.MaxResponseBytes <= 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "upstream.max_response_bytes",
			Message: "max_response_bytes must be positive",
		})
	}
}

func (s *ServerConfig) validate(result *ValidationResult) {
	if strings.TrimSpace(s.Name) == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.name",
			Message: "server name cannot be empty",
		})
	}
	if s.ShutdownTimeout <= 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown_timeout must be positive",
		})
	}
}

func (o *ObservabilityConfig) validate(result *ValidationResult) {
	switch o.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "observability.logging.level",
			Message: fmt.Sprintf("invalid log level %q", o.Logging.Level),
			Hint:    "valid levels: debug, info, warn, error",
		})
	}

	switch o.Logging.Format {
	case "json", "text":
	default:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "observability.logging.format",
			Message: fmt.Sprintf("invalid log format %q", o.Logging.Format),
			Hint:    "valid formats: json, text",
		})
	}

	if o.Metrics.Enabled && (o.Metrics.Port < 1 || o.Metrics.Port > 65535) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "observability.metrics.port",
			Message: fmt.Sprintf("port %d is out of valid range (1-65535)", o.Metrics.Port),
		})
	}
}
