// Package config manages environment variables.
//
// It reads variables from the process environment (and the `.env` file,
// when present), loads them into structured Go types and validates them
// so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the CONTACTFORM_ prefix. The prefix is removed,
	the rest is lowercased and "__" marks a nesting level:

	  CONTACTFORM_SERVER__PORT                  -> server.port
	  CONTACTFORM_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level

	A single underscore stays part of the key (read_timeout, resend_api_key).
*/

const (
	// EnvPrefix is the prefix shared by all application variables.
	EnvPrefix = "CONTACTFORM_"

	// DatabaseURLEnv is the bare connection string variable the function
	// gateway injects. CONTACTFORM_DATABASE__URL takes precedence over it.
	DatabaseURLEnv = "DATABASE_URL"

	// ServiceName tags logs and traces.
	ServiceName = "contactform"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer so partial overrides merge into
// DefaultObservabilityConfig instead of zeroing it.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database"`
	Redis         RedisConfig          `koanf:"redis"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Notification  NotificationConfig   `koanf:"notification"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout int    `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"required,min=1"`
}

// DatabaseConfig describes how a single invocation reaches PostgreSQL.
//
// URL is deliberately not required here: handlers report a missing
// connection string per invocation, the way the function gateway expects.
type DatabaseConfig struct {
	URL string `koanf:"url"`

	// ConnectTimeout bounds connection establishment, in seconds.
	ConnectTimeout int `koanf:"connect_timeout" validate:"min=1"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port"; empty disables Redis backed features.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// IntegrationConfig stores third-party API credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
}

// NotificationConfig controls e-mail notifications about new submissions.
type NotificationConfig struct {
	// Recipient receives one e-mail per stored submission.
	Recipient string `koanf:"recipient" validate:"omitempty,email"`

	// From is the sender identity, e.g. "Contact form <noreply@example.com>".
	From string `koanf:"from"`
}

// NotificationsEnabled reports whether every piece notifications need is
// configured: a queue, a provider key and somebody to notify.
func (c *Config) NotificationsEnabled() bool {
	return c.Redis.Address != "" &&
		c.Integration.ResendAPIKey != "" &&
		c.Notification.Recipient != ""
}

// Default returns the configuration used when no variable overrides it.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Database: DatabaseConfig{
			ConnectTimeout: 10,
		},
		Notification: NotificationConfig{
			From: "Contact form <onboarding@resend.dev>",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// envKey maps CONTACTFORM_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// LoadConfig loads configuration from environment variables, unmarshals it
// on top of Default() and validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	// The bare DATABASE_URL goes in first so the prefixed variable wins.
	err := k.Load(env.Provider(DatabaseURLEnv, ".", func(s string) string {
		if s != DatabaseURLEnv {
			return ""
		}
		return "database.url"
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", DatabaseURLEnv, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := Default()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Service name and environment always follow the primary config so
	// every log line and trace is tagged the same way.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
