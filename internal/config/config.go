// Package config loads and saves the twin configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/Gaurav-Gosain/twin/internal/logging"
)

// Config is the user configuration stored at GetConfigPath.
type Config struct {
	Terminal TerminalConfig `toml:"terminal"`
	Log      LogConfig      `toml:"log"`
	Demo     DemoConfig     `toml:"demo"`
	Keys     KeysConfig     `toml:"keys"`
}

// TerminalConfig configures the terminal driver.
type TerminalConfig struct {
	// Readable spells control characters out, one emitted cell per line.
	Readable bool `toml:"readable"`
	// FallbackRows and FallbackColumns are used when the device size cannot
	// be queried. Zero disables the fallback.
	FallbackRows    int `toml:"fallback_rows"`
	FallbackColumns int `toml:"fallback_columns"`
	BufferSize      int `toml:"buffer_size"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DemoConfig configures the built-in demo.
type DemoConfig struct {
	FrameDelay string `toml:"frame_delay"`
	Seed       int64  `toml:"seed"`
	Boxes      int    `toml:"boxes"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Terminal: TerminalConfig{
			FallbackRows:    24,
			FallbackColumns: 80,
			BufferSize:      64 * 1024,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Demo: DemoConfig{
			FrameDelay: "100ms",
			Seed:       1,
			Boxes:      200,
		},
		Keys: DefaultKeys(),
	}
}

// FrameDelayDuration parses the demo frame delay.
func (c *Config) FrameDelayDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Demo.FrameDelay)
	if err != nil {
		return 0, fmt.Errorf("demo.frame_delay: %w", err)
	}
	return d, nil
}

// HasFallback reports whether a fallback terminal size is configured.
func (c *Config) HasFallback() bool {
	return c.Terminal.FallbackRows > 0 && c.Terminal.FallbackColumns > 0
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Terminal.FallbackRows < 0 || c.Terminal.FallbackColumns < 0 {
		errs = append(errs, fmt.Errorf("terminal fallback size %dx%d is negative",
			c.Terminal.FallbackRows, c.Terminal.FallbackColumns))
	}
	if c.Terminal.BufferSize < 0 {
		errs = append(errs, fmt.Errorf("terminal.buffer_size %d is negative", c.Terminal.BufferSize))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if d, err := c.FrameDelayDuration(); err != nil {
		errs = append(errs, err)
	} else if d < 0 {
		errs = append(errs, fmt.Errorf("demo.frame_delay %v is negative", d))
	}
	if c.Demo.Boxes < 0 {
		errs = append(errs, fmt.Errorf("demo.boxes %d is negative", c.Demo.Boxes))
	}
	if err := c.Keys.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Overrides carries command-line settings that take precedence over the file.
type Overrides struct {
	Readable        bool
	Debug           bool
	LogFile         string
	FallbackRows    int
	FallbackColumns int
}

// ApplyOverrides merges the set fields of o into cfg.
func ApplyOverrides(o Overrides, cfg *Config) {
	if o.Readable {
		cfg.Terminal.Readable = true
	}
	if o.Debug {
		cfg.Log.Level = "debug"
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	if o.FallbackRows > 0 && o.FallbackColumns > 0 {
		cfg.Terminal.FallbackRows = o.FallbackRows
		cfg.Terminal.FallbackColumns = o.FallbackColumns
	}
}

// GetConfigPath returns the configuration file path, creating its directory.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("twin", "config.toml"))
}

// DefaultLogPath returns the log file used when none is configured.
func DefaultLogPath() (string, error) {
	return xdg.StateFile(filepath.Join("twin", "twin.log"))
}

// Load reads the configuration at path. Settings missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadUserConfig loads the user's configuration, writing the defaults first
// if the file does not exist yet.
func LoadUserConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("could not determine config path: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		logging.Info("created default config", "path", path)
		return cfg, nil
	}
	return Load(path)
}

// Save writes cfg to path as TOML, preceded by a comment header.
func Save(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# twin configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# [terminal] driver settings, [log] logging, [demo] the built-in demo,\n")
	sb.WriteString("# [keys] demo key bindings.\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + path + "\n\n")
	sb.Write(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
