// Package config provides configuration management for labelschema.
//
// Configuration is loaded from these sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (LABELSCHEMA_ prefix), including a .env file
//  3. Config file (.labelschema.yaml)
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thenoetrevino/labelschema/internal/config/colors"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "LABELSCHEMA"

// Config represents the global configuration for labelschema.
type Config struct {
	// UpdateURL is the endpoint that receives schema updates.
	UpdateURL string `mapstructure:"update-url" yaml:"update-url" json:"updateUrl"`

	// Debounce is the quiet period after the last edit before an update is sent.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" json:"debounce"`

	// MaxRetries is the number of attempts per update for retryable failures.
	MaxRetries int `mapstructure:"max-retries" yaml:"max-retries" json:"maxRetries"`

	// RetryDelay is the base of the exponential backoff between attempts.
	RetryDelay time.Duration `mapstructure:"retry-delay" yaml:"retry-delay" json:"retryDelay"`

	// RequestTimeout bounds a single update request.
	RequestTimeout time.Duration `mapstructure:"request-timeout" yaml:"request-timeout" json:"requestTimeout"`

	// CSRFToken is sent as X-CSRFToken when set.
	CSRFToken string `mapstructure:"csrf-token" yaml:"csrf-token,omitempty" json:"-"`

	// DBPath is the local draft database. Empty means the default location.
	DBPath string `mapstructure:"db-path" yaml:"db-path,omitempty" json:"dbPath"`

	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" yaml:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" yaml:"log-format" json:"logFormat"`

	// LogFile receives log output while the terminal UI owns the screen.
	LogFile string `mapstructure:"log-file" yaml:"log-file,omitempty" json:"logFile"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" yaml:"quiet,omitempty" json:"quiet"`

	// Theme names the UI colour preset; Colors overrides single values.
	Theme  string             `mapstructure:"theme" yaml:"theme" json:"theme"`
	Colors colors.ColorScheme `mapstructure:"colors" yaml:"colors,omitempty" json:"-"`

	KeyMappings KeyMappings `mapstructure:"key-mappings" yaml:"key-mappings,omitempty" json:"-"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load(), not read from config itself.
	ConfigFile string `mapstructure:"-" yaml:"-" json:"-"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	cfg := &Config{
		Debounce:       2 * time.Second,
		MaxRetries:     3,
		RetryDelay:     500 * time.Millisecond,
		RequestTimeout: 10 * time.Second,
		LogLevel:       LogLevelInfo,
		LogFormat:      LogFormatText,
		Theme:          "default",
		KeyMappings:    DefaultKeyMappings(),
	}
	cfg.ApplyTheme()
	return cfg
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if c.UpdateURL != "" {
		u, err := url.Parse(c.UpdateURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid update url %q: must be an absolute http(s) URL", c.UpdateURL)
		}
	}

	if c.Debounce < 0 {
		return fmt.Errorf("invalid debounce %s: must not be negative", c.Debounce)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("invalid max retries %d: must be at least 1", c.MaxRetries)
	}
	if c.RetryDelay < 0 || c.RequestTimeout < 0 {
		return errors.New("retry delay and request timeout must not be negative")
	}

	if c.Theme != "" && !colors.IsPreset(c.Theme) {
		return fmt.Errorf("invalid theme %q: must be one of %s", c.Theme, strings.Join(colors.Presets, ", "))
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// ApplyTheme resolves Colors against the Theme preset and fills in
// missing key mappings.
func (c *Config) ApplyTheme() {
	if c.Colors.Preset == "" {
		c.Colors.Preset = c.Theme
	}
	c.Colors.ApplyDefaults()
	c.KeyMappings.applyDefaults()
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.ApplyTheme()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotEnv exports variables from path without overriding the real
// environment. A missing file is fine.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("update-url", "")
	v.SetDefault("debounce", d.Debounce)
	v.SetDefault("max-retries", d.MaxRetries)
	v.SetDefault("retry-delay", d.RetryDelay)
	v.SetDefault("request-timeout", d.RequestTimeout)
	v.SetDefault("csrf-token", "")
	v.SetDefault("db-path", "")
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("log-file", "")
	v.SetDefault("quiet", false)
	v.SetDefault("theme", d.Theme)
}

// configureEnv sets up environment variable support.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".labelschema")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if dir, err := UserConfigDir(); err == nil {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found is fine in auto-discovery.
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags walks from cmd up to the root and binds all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// UserConfigDir returns $XDG_CONFIG_HOME/labelschema, falling back to
// ~/.config/labelschema.
func UserConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "labelschema"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "labelschema"), nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
