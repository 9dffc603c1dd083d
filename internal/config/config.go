// Package config loads the logbook configuration: defaults, then an optional
// YAML file, then LOGBOOK_* environment variables. Command-line flags are
// applied last by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-logbook/internal/logging"
)

// Defaults.
const (
	DefaultAddr            = ":8080"
	DefaultFormTTL         = 30 * time.Minute
	DefaultSaveTimeout     = 10 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultLogLevel        = "info"
)

// Environment variables read by Load.
const (
	EnvAddr         = "LOGBOOK_ADDR"
	EnvFormTTL      = "LOGBOOK_FORM_TTL"
	EnvSaveEndpoint = "LOGBOOK_SAVE_ENDPOINT"
	EnvSaveToken    = "LOGBOOK_SAVE_TOKEN"
	EnvSaveTimeout  = "LOGBOOK_SAVE_TIMEOUT"
	EnvLogLevel     = "LOGBOOK_LOG_LEVEL"
	EnvLogFormat    = "LOGBOOK_LOG_FORMAT"
	EnvLayoutDir    = "LOGBOOK_LAYOUT_DIR"
	EnvTheme        = "LOGBOOK_THEME"
)

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Save   SaveConfig   `yaml:"save"`
	Log    LogConfig    `yaml:"log"`
	Theme  ThemeConfig  `yaml:"theme"`
	Layout LayoutConfig `yaml:"layout"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	FormTTL         time.Duration `yaml:"formTTL"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
}

// SaveConfig selects the save collaborator. An empty Endpoint keeps entries
// in memory.
type SaveConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Token    string        `yaml:"token"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LogConfig configures logging. An empty Level disables logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ThemeConfig carries the theme name, variant and token overrides handed to
// the HTML renderer.
type ThemeConfig struct {
	Name    string            `yaml:"name"`
	Variant string            `yaml:"variant"`
	Tokens  map[string]string `yaml:"tokens"`
}

// LayoutConfig points at a directory of layout documents replacing the
// bundled one.
type LayoutConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			FormTTL:         DefaultFormTTL,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Save: SaveConfig{
			Timeout: DefaultSaveTimeout,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: string(logging.FormatConsole),
		},
	}
}

// Load builds the configuration. path may be empty; getenv may be nil, in
// which case os.Getenv is used.
func Load(path string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Default()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays YAML onto cfg. Unknown keys are rejected.
func (c *Config) decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(key string, target *string) {
		if value := strings.TrimSpace(getenv(key)); value != "" {
			*target = value
		}
	}
	duration := func(key string, target *time.Duration) error {
		value := strings.TrimSpace(getenv(key))
		if value == "" {
			return nil
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*target = d
		return nil
	}

	set(EnvAddr, &c.Server.Addr)
	set(EnvSaveEndpoint, &c.Save.Endpoint)
	set(EnvSaveToken, &c.Save.Token)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvLogFormat, &c.Log.Format)
	set(EnvLayoutDir, &c.Layout.Dir)
	set(EnvTheme, &c.Theme.Name)

	if err := duration(EnvFormTTL, &c.Server.FormTTL); err != nil {
		return err
	}
	return duration(EnvSaveTimeout, &c.Save.Timeout)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Server.FormTTL <= 0 {
		return fmt.Errorf("config: server.formTTL must be positive, got %s", c.Server.FormTTL)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("config: server.shutdownTimeout must not be negative, got %s", c.Server.ShutdownTimeout)
	}
	if c.Save.Timeout < 0 {
		return fmt.Errorf("config: save.timeout must not be negative, got %s", c.Save.Timeout)
	}
	if endpoint := strings.TrimSpace(c.Save.Endpoint); endpoint != "" &&
		!strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return fmt.Errorf("config: save.endpoint %q is not an http(s) url", endpoint)
	}
	if _, _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch logging.Format(c.Log.Format) {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("config: log.format %q is not console or json", c.Log.Format)
	}
	return nil
}
