package config

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"aiapi/internal/credential"
	"aiapi/internal/endpoint"
)

const (
	defaultPort        = 8080
	defaultTimeout     = 60 * time.Second
	defaultModel       = "gpt-3.5-turbo"
	defaultTemperature = 0.7
	defaultMaxTokens   = 50
	defaultN           = 1

	maxTemperature = 2.0
)

// Config represents the application configuration parsed from YAML.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Provider   ProviderConfig   `yaml:"provider"`
	Chat       ChatConfig       `yaml:"chat"`
	Completion CompletionConfig `yaml:"completion"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig defines listener configuration for the preview service.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ProviderConfig captures where requests are addressed and how they authenticate.
type ProviderConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIVersion uint          `yaml:"api_version"`
	APIKeyEnv  string        `yaml:"api_key_env"`
	Dotenv     string        `yaml:"dotenv"`
	Headers    Headers       `yaml:"headers"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Headers contains additional HTTP headers to send with every request.
type Headers map[string]string

// ChatConfig holds chat-completion defaults.
type ChatConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// CompletionConfig holds legacy completion defaults.
type CompletionConfig struct {
	MaxTokens int      `yaml:"max_tokens"`
	N         int      `yaml:"n"`
	Stop      []string `yaml:"stop"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: defaultPort},
		Provider: ProviderConfig{
			BaseURL:    endpoint.DefaultBaseURL,
			APIVersion: endpoint.DefaultVersion,
			APIKeyEnv:  credential.DefaultEnvKey,
			Timeout:    defaultTimeout,
		},
		Chat: ChatConfig{
			Model:       defaultModel,
			Temperature: defaultTemperature,
		},
		Completion: CompletionConfig{
			MaxTokens: defaultMaxTokens,
			N:         defaultN,
			Stop:      []string{"\n"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads YAML configuration from disk over the defaults and validates the result.
// An empty path yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %q: %w", absPath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %q: %w", absPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs strict sanity checks on the configuration.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid TCP port, got %d", c.Server.Port)
	}

	if err := validateProvider(c.Provider); err != nil {
		return err
	}

	if strings.TrimSpace(c.Chat.Model) == "" {
		return fmt.Errorf("chat.model must be provided")
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > maxTemperature {
		return fmt.Errorf("chat.temperature must be within [0, %g], got %g", maxTemperature, c.Chat.Temperature)
	}

	if c.Completion.MaxTokens <= 0 {
		return fmt.Errorf("completion.max_tokens must be positive, got %d", c.Completion.MaxTokens)
	}
	if c.Completion.N <= 0 {
		return fmt.Errorf("completion.n must be positive, got %d", c.Completion.N)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be one of %q or %q, got %q", "text", "json", c.Log.Format)
	}

	return nil
}

func validateProvider(provider ProviderConfig) error {
	if strings.TrimSpace(provider.BaseURL) == "" {
		return fmt.Errorf("provider.base_url must be provided")
	}
	if strings.TrimSpace(provider.APIKeyEnv) == "" {
		return fmt.Errorf("provider.api_key_env must be provided")
	}
	if provider.Timeout <= 0 {
		return fmt.Errorf("provider.timeout must be positive, got %s", provider.Timeout)
	}

	if err := provider.Headers.Validate(); err != nil {
		return fmt.Errorf("provider: %w", err)
	}

	return nil
}

// Validate rejects keys that are not valid header names, keys the request
// builder sets itself, and keys that collide once canonicalized.
func (h Headers) Validate() error {
	keys := make([]string, 0, len(h))
	for headerKey := range h {
		keys = append(keys, headerKey)
	}
	sort.Strings(keys)

	seen := make(map[string]string, len(keys))
	for _, headerKey := range keys {
		if !isCanonicalHTTPHeader(headerKey) {
			return fmt.Errorf("header %q is not a valid canonical HTTP header", headerKey)
		}
		canonical := http.CanonicalHeaderKey(headerKey)
		switch canonical {
		case "Authorization", "Content-Type":
			return fmt.Errorf("header %q is managed by the request builder", headerKey)
		}
		if prev, ok := seen[canonical]; ok {
			return fmt.Errorf("headers %q and %q both name %s", prev, headerKey, canonical)
		}
		seen[canonical] = headerKey
	}
	return nil
}

// SlogLevel maps the configured level name onto a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}

func isCanonicalHTTPHeader(header string) bool {
	if header == "" {
		return false
	}

	for _, r := range header {
		if !(r == '-' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
			return false
		}
	}
	return true
}
