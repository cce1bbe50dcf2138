package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var defineFlagsOnce sync.Once

// Load loads configuration from multiple sources with the following precedence:
// 1. Explicit overrides (v.Set) – used only for key file/prompt resolution
// 2. Command line flags
// 3. Environment variables
// 4. Config file
// 5. Default values
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	defineFlags()
	if !pflag.Parsed() {
		pflag.Parse()
	}

	// --- Config file ---
	cfgPath, _ := pflag.CommandLine.GetString("config")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.SetConfigName("tradeflow-mcp")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/tradeflow-mcp/")
		v.AddConfigPath("$HOME/.tradeflow-mcp")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgPath != "" {
			return nil, fmt.Errorf("failed to read config file %q: %w", cfgPath, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// --- Environment variables ---
	// Canonical keys: dot + snake_case. Env vars: TRMCP_UPSTREAM_ENDPOINT
	v.SetEnvPrefix("TRMCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindChangedFlagsToViper(v)

	// --- Subscription key from file (explicit override) ---
	if v.GetString("upstream.subscription_key") == "" && v.GetString("upstream.subscription_key_file") != "" {
		key, err := readSecretFile(v.GetString("upstream.subscription_key_file"))
		if err != nil {
			return nil, fmt.Errorf("failed to read subscription key file: %w", err)
		}
		v.Set("upstream.subscription_key", key)
	}

	// --- Secure key input (explicit override) ---
	if v.GetString("upstream.subscription_key") == "" && v.GetBool("upstream.subscription_key_prompt") {
		key, err := promptSubscriptionKey()
		if err != nil {
			return nil, fmt.Errorf("failed to read subscription key: %w", err)
		}
		v.Set("upstream.subscription_key", key)
	}

	// --- Unmarshal (strict) ---
	var cfg Config
	if err := v.UnmarshalExact(
		&cfg,
		viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc()),
	); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// bindChangedFlagsToViper copies only explicitly-set flags into Viper,
// preserving precedence: flags > env > file > defaults.
func bindChangedFlagsToViper(v *viper.Viper) {
	pflag.CommandLine.Visit(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "version" {
			return
		}

		switch f.Value.Type() {
		case "string":
			val, _ := pflag.CommandLine.GetString(f.Name)
			v.Set(f.Name, val)
		case "int":
			val, _ := pflag.CommandLine.GetInt(f.Name)
			v.Set(f.Name, val)
		case "int64":
			val, _ := pflag.CommandLine.GetInt64(f.Name)
			v.Set(f.Name, val)
		case "bool":
			val, _ := pflag.CommandLine.GetBool(f.Name)
			v.Set(f.Name, val)
		case "duration":
			val, _ := pflag.CommandLine.GetDuration(f.Name)
			v.Set(f.Name, val)
		default:
			v.Set(f.Name, f.Value.String())
		}
	})
}

// defineFlags defines all command line flags using canonical snake_case keys.
func defineFlags() {
	defineFlagsOnce.Do(func() {
		pflag.String("upstream.endpoint", "", "Upstream trade-data gateway GraphQL URL")
		pflag.String("upstream.subscription_key", "", "Gateway subscription key")
		pflag.String("upstream.subscription_key_file", "", "Path to file containing subscription key (use @- for stdin)")
		pflag.Bool("upstream.subscription_key_prompt", false, "Prompt for subscription key securely")
		pflag.String("upstream.subscription_key_header", "", "Header name carrying the subscription key")
		pflag.Duration("upstream.timeout", 0, "Upstream request timeout (e.g. 30s)")
		pflag.Int64("upstream.max_response_bytes", 0, "Maximum upstream response size in bytes")
		pflag.Bool("upstream.validate_queries", false, "Parse assembled queries locally before sending")

		pflag.String("server.name", "", "MCP server name reported to clients")
		pflag.Duration("server.shutdown_timeout", 0, "Graceful shutdown timeout")

		pflag.String("observability.service_name", "", "Service name for observability")
		pflag.String("observability.service_version", "", "Service version for observability")
		pflag.String("observability.environment", "", "Environment name (dev, staging, prod)")
		pflag.Bool("observability.metrics.enabled", false, "Enable the Prometheus metrics listener")
		pflag.Int("observability.metrics.port", 0, "Prometheus metrics listener port")
		pflag.String("observability.logging.level", "", "Log level (debug, info, warn, error)")
		pflag.String("observability.logging.format", "", "Log format (json, text)")

		pflag.StringP("config", "c", "", "Config file path")
	})
}

// setDefaults sets default values (lowest precedence).
func setDefaults(v *viper.Viper) {
	v.SetDefault("upstream.endpoint", "")
	v.SetDefault("upstream.subscription_key", "")
	v.SetDefault("upstream.subscription_key_file", "")
	v.SetDefault("upstream.subscription_key_prompt", false)
	v.SetDefault("upstream.subscription_key_header", "Ocp-Apim-Subscription-Key")
	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("upstream.max_response_bytes", int64(8<<20))
	v.SetDefault("upstream.validate_queries", true)

	v.SetDefault("server.name", "tradeflow-mcp")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("observability.service_name", "tradeflow-mcp")
	v.SetDefault("observability.service_version", "")
	v.SetDefault("observability.environment", "development")
	v.SetDefault("observability.metrics.enabled", false)
	v.SetDefault("observability.metrics.port", 9090)
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
}

// promptSubscriptionKey prompts without echoing to the terminal.
func promptSubscriptionKey() (string, error) {
	fmt.Fprint(os.Stderr, "Enter subscription key: ")
	byteKey, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(byteKey), nil
}

func readSecretFile(path string) (string, error) {
	var data []byte
	var err error

	if path == "@-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
