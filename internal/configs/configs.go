/*
Package configs is responsible for loading and parsing the application's configuration settings.

Settings are read from environment variables through viper. When CONFIG_FILE names a file
(YAML, TOML or JSON), its keys provide values that the environment can still override.
*/
package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"roomtoken/internal/app/scope"
	"roomtoken/internal/app/token"
	"roomtoken/internal/pkg/errs"
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int
	LogLevel    string

	// Security Settings
	AllowedOrigins []string
	IssueRate      float64
	IssueBurst     int

	// Token Settings
	AppID         string
	SecretKey     string
	DefaultRoom   string
	TokenLifetime time.Duration
	ClockSkew     time.Duration
	SchemaVersion scope.Version
	RelayEnabled  bool
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// IssuerConfig returns the token issuer configuration derived from c.
func (c *AppConfig) IssuerConfig() token.Config {
	return token.Config{
		AppID:       c.AppID,
		Secret:      []byte(c.SecretKey),
		DefaultRoom: c.DefaultRoom,
		Window: token.Window{
			Lifetime: c.TokenLifetime,
			Skew:     c.ClockSkew,
		},
		SchemaVersion: c.SchemaVersion,
		RelayEnabled:  c.RelayEnabled,
	}
}

const (
	// MaxTokenLifetime bounds TOKEN_LIFETIME.
	MaxTokenLifetime = 7 * 24 * time.Hour

	// MaxClockSkew bounds CLOCK_SKEW.
	MaxClockSkew = time.Hour
)

func getInt(v *viper.Viper, key string) (int, error) {
	n, err := cast.ToIntE(v.Get(key))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s environment variable: %w", errs.ErrConfiguration, key, err)
	}
	return n, nil
}

func getFloat(v *viper.Viper, key string) (float64, error) {
	f, err := cast.ToFloat64E(v.Get(key))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s environment variable: %w", errs.ErrConfiguration, key, err)
	}
	return f, nil
}

func getBool(v *viper.Viper, key string) (bool, error) {
	b, err := cast.ToBoolE(v.Get(key))
	if err != nil {
		return false, fmt.Errorf("%w: invalid %s environment variable: %w", errs.ErrConfiguration, key, err)
	}
	return b, nil
}

// getSeconds reads key as a whole number of seconds in [0, limit].
func getSeconds(v *viper.Viper, key string, limit time.Duration) (time.Duration, error) {
	n, err := getInt(v, key)
	if err != nil {
		return 0, err
	}

	maxSeconds := int(limit / time.Second)
	if n < 0 || n > maxSeconds {
		return 0, fmt.Errorf("%w: %s must be between 0 and %d seconds, got %d", errs.ErrConfiguration, key, maxSeconds, n)
	}
	return time.Duration(n) * time.Second, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("ISSUE_RATE", 1.0)
	v.SetDefault("ISSUE_BURST", 10)
	v.SetDefault("APP_ID", "")
	v.SetDefault("APP_SECRET_KEY", "")
	v.SetDefault("DEFAULT_ROOM", token.DefaultRoom)
	v.SetDefault("TOKEN_LIFETIME", int(token.DefaultLifetime/time.Second))
	v.SetDefault("CLOCK_SKEW", int(token.DefaultSkew/time.Second))
	v.SetDefault("SCHEMA_VERSION", int(scope.DefaultVersion))
	v.SetDefault("RELAY_ENABLED", true)

	return v
}

// LoadConfig reads and validates the application configuration.
// Every failure wraps errs.ErrConfiguration; the caller must not start serving on error.
func LoadConfig() (*AppConfig, error) {
	v := newViper()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read config file %s: %w", errs.ErrConfiguration, file, err)
		}
	}

	cfg := &AppConfig{
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		AppID:       strings.TrimSpace(v.GetString("APP_ID")),
		SecretKey:   v.GetString("APP_SECRET_KEY"),
		DefaultRoom: strings.TrimSpace(v.GetString("DEFAULT_ROOM")),
	}

	var err error
	if cfg.Port, err = getInt(v, "PORT"); err != nil {
		return nil, err
	}
	if cfg.IssueRate, err = getFloat(v, "ISSUE_RATE"); err != nil {
		return nil, err
	}
	if cfg.IssueBurst, err = getInt(v, "ISSUE_BURST"); err != nil {
		return nil, err
	}
	if cfg.RelayEnabled, err = getBool(v, "RELAY_ENABLED"); err != nil {
		return nil, err
	}

	version, err := getInt(v, "SCHEMA_VERSION")
	if err != nil {
		return nil, err
	}
	cfg.SchemaVersion = scope.Version(version)

	for _, origin := range strings.Split(v.GetString("ALLOWED_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	if cfg.TokenLifetime, err = getSeconds(v, "TOKEN_LIFETIME", MaxTokenLifetime); err != nil {
		return nil, err
	}
	if cfg.ClockSkew, err = getSeconds(v, "CLOCK_SKEW", MaxClockSkew); err != nil {
		return nil, err
	}

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: port number %d is outside the allowed range (%d-%d)", errs.ErrConfiguration, cfg.Port, 1024, 65535)
	}

	if cfg.IssueRate <= 0 || cfg.IssueBurst <= 0 {
		return nil, fmt.Errorf("%w: ISSUE_RATE and ISSUE_BURST must be positive", errs.ErrConfiguration)
	}

	if !cfg.SchemaVersion.Known() {
		return nil, fmt.Errorf("%w: unsupported SCHEMA_VERSION %d", errs.ErrConfiguration, int(cfg.SchemaVersion))
	}

	if cfg.AppID == "" {
		return nil, fmt.Errorf("%w: APP_ID environment variable is required", errs.ErrConfiguration)
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: APP_SECRET_KEY environment variable is required", errs.ErrConfiguration)
	}

	return cfg, nil
}
