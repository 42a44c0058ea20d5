package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the provider API root used when none is configured.
const DefaultBaseURL = "https://api.mail.tm"

// ProviderConfig holds settings for the mail provider API.
type ProviderConfig struct {
	// BaseURL is the root URL of the provider REST API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// RatePerSec caps outgoing requests per second. Zero disables pacing.
	RatePerSec float64 `mapstructure:"rate_per_sec" yaml:"rate_per_sec"`
}

// Timeout returns TimeoutSec as a duration.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSec) * time.Second
}

// InboxConfig controls background polling.
type InboxConfig struct {
	// PollIntervalSec is how often to refresh the inbox. Zero disables
	// automatic polling.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// PollInterval returns PollIntervalSec as a duration.
func (i InboxConfig) PollInterval() time.Duration {
	return time.Duration(i.PollIntervalSec) * time.Second
}

// StoreConfig selects the session ledger database.
type StoreConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	File        string `mapstructure:"file" yaml:"file"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// RawHTML shows sanitized markup instead of converting it to text.
	RawHTML bool `mapstructure:"raw_html" yaml:"raw_html"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Inbox    InboxConfig    `mapstructure:"inbox" yaml:"inbox"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/tempmail/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "tempmail", "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Provider: ProviderConfig{
			BaseURL:    DefaultBaseURL,
			TimeoutSec: 30,
			RatePerSec: 8,
		},
		Inbox: InboxConfig{
			PollIntervalSec: 15,
		},
		Store: StoreConfig{
			DSN: ":memory:",
		},
		Log: LogConfig{
			Level: "info",
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file yields the defaults. Environment variables prefixed with
// TEMPMAIL_ override file values (e.g. TEMPMAIL_PROVIDER_BASE_URL).
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TEMPMAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("provider.base_url", def.Provider.BaseURL)
	v.SetDefault("provider.timeout_sec", def.Provider.TimeoutSec)
	v.SetDefault("provider.rate_per_sec", def.Provider.RatePerSec)
	v.SetDefault("inbox.poll_interval_sec", def.Inbox.PollIntervalSec)
	v.SetDefault("store.dsn", def.Store.DSN)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.development", def.Log.Development)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.raw_html", def.Display.RawHTML)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Provider.BaseURL = strings.TrimRight(cfg.Provider.BaseURL, "/")
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = DefaultBaseURL
	}
	if cfg.Provider.TimeoutSec <= 0 {
		cfg.Provider.TimeoutSec = def.Provider.TimeoutSec
	}
	if cfg.Inbox.PollIntervalSec < 0 {
		cfg.Inbox.PollIntervalSec = 0
	}
	if cfg.Store.DSN == "" {
		cfg.Store.DSN = def.Store.DSN
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("provider", cfg.Provider)
	v.Set("inbox", cfg.Inbox)
	v.Set("store", cfg.Store)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
