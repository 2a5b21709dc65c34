package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API  APIConfig
	UI   UIConfig
	Log  LogConfig
	Mock MockConfig
}

// APIConfig points the client at the PHP backend.
type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	SubmitEncoding string        `mapstructure:"submit_encoding"`
	CreatePath     string        `mapstructure:"create_path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string      `mapstructure:"currency_symbol"`
	Theme          ThemeConfig `mapstructure:"theme"`
}

// ThemeConfig maps semantic roles to hex colors.
type ThemeConfig struct {
	Text    string `mapstructure:"text"`
	Muted   string `mapstructure:"muted"`
	Accent  string `mapstructure:"accent"`
	Success string `mapstructure:"success"`
	Error   string `mapstructure:"error"`
	Warning string `mapstructure:"warning"`
	Border  string `mapstructure:"border"`
}

type LogConfig struct {
	Path string `mapstructure:"path"`
}

// MockConfig configures cmd/fundadmin-mock.
type MockConfig struct {
	Addr string `mapstructure:"addr"`
}

var ErrMissingBaseURL = errors.New("api.base_url is not set (set FUNDADMIN_API_BASE_URL or add it to config.toml)")

// DefaultTheme is the Catppuccin Mocha palette.
func DefaultTheme() ThemeConfig {
	return ThemeConfig{
		Text:    "#cdd6f4",
		Muted:   "#7f849c",
		Accent:  "#f5c2e7",
		Success: "#a6e3a1",
		Error:   "#f38ba8",
		Warning: "#f9e2af",
		Border:  "#45475a",
	}
}

// Path returns the config file location. FUNDADMIN_CONFIG overrides the default.
func Path() string {
	if p := os.Getenv("FUNDADMIN_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "fundadmin", "config.toml")
}

// Load reads .env, then the TOML file, then env. Env var overrides use prefix FUNDADMIN_.
func Load() (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// default values
	theme := DefaultTheme()
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.submit_encoding", "auto")
	v.SetDefault("api.create_path", "/api/add_project.php")
	v.SetDefault("ui.currency_symbol", "₱")
	v.SetDefault("ui.theme.text", theme.Text)
	v.SetDefault("ui.theme.muted", theme.Muted)
	v.SetDefault("ui.theme.accent", theme.Accent)
	v.SetDefault("ui.theme.success", theme.Success)
	v.SetDefault("ui.theme.error", theme.Error)
	v.SetDefault("ui.theme.warning", theme.Warning)
	v.SetDefault("ui.theme.border", theme.Border)
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "fundadmin", "fundadmin.log"))
	v.SetDefault("mock.addr", ":8080")

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("FUNDADMIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil && !missingFile(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.API.BaseURL = strings.TrimSpace(c.API.BaseURL)
	return c, nil
}

func missingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Validate checks what the client needs before it can talk to the backend.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	switch strings.ToLower(c.API.SubmitEncoding) {
	case "", "auto", "json", "multipart":
	default:
		return fmt.Errorf("api.submit_encoding %q (want auto, json or multipart)", c.API.SubmitEncoding)
	}
	if !strings.HasPrefix(c.API.CreatePath, "/") {
		return fmt.Errorf("api.create_path %q must start with /", c.API.CreatePath)
	}
	return nil
}

// Save writes the provided config to Path(), creating the config directory if needed.
// cmd/fundadmin-mock uses it to write a starter file pointing at the mock.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.submit_encoding", cfg.API.SubmitEncoding)
	v.Set("api.create_path", cfg.API.CreatePath)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.theme.text", cfg.UI.Theme.Text)
	v.Set("ui.theme.muted", cfg.UI.Theme.Muted)
	v.Set("ui.theme.accent", cfg.UI.Theme.Accent)
	v.Set("ui.theme.success", cfg.UI.Theme.Success)
	v.Set("ui.theme.error", cfg.UI.Theme.Error)
	v.Set("ui.theme.warning", cfg.UI.Theme.Warning)
	v.Set("ui.theme.border", cfg.UI.Theme.Border)
	v.Set("log.path", cfg.Log.Path)
	v.Set("mock.addr", cfg.Mock.Addr)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
