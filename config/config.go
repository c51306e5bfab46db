package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/maxoi/market"
	"github.com/rustyeddy/maxoi/resample"
	"github.com/rustyeddy/maxoi/ticks"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the complete maxoi configuration
type Config struct {
	Data     DataConfig      `json:"data" yaml:"data"`
	Session  SessionConfig   `json:"session" yaml:"session"`
	Overlays []OverlayConfig `json:"overlays" yaml:"overlays"`
	Journal  JournalConfig   `json:"journal" yaml:"journal"`
	Server   ServerConfig    `json:"server" yaml:"server"`
	Logging  LoggingConfig   `json:"logging" yaml:"logging"`
}

// DataConfig locates the tick dataset and describes its layout
type DataConfig struct {
	TicksFile string        `json:"ticks_file" yaml:"ticks_file"`
	Symbol    string        `json:"symbol" yaml:"symbol"`
	Location  string        `json:"location" yaml:"location"`
	Columns   ticks.Columns `json:"columns" yaml:"columns"`
}

// SessionConfig holds the session close and the candle grids
type SessionConfig struct {
	Close      string            `json:"close" yaml:"close"`
	Timeframes []TimeframeConfig `json:"timeframes" yaml:"timeframes"`
}

// TimeframeConfig is one candle grid with its own session start
type TimeframeConfig struct {
	Name    string `json:"name" yaml:"name"`
	Minutes int    `json:"minutes" yaml:"minutes"`
	Start   string `json:"start" yaml:"start"`
}

// OverlayConfig is one close-price reference band
type OverlayConfig struct {
	Label  string  `json:"label,omitempty" yaml:"label,omitempty"`
	Offset float64 `json:"offset" yaml:"offset"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// JournalConfig selects where resample runs are recorded
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "none", "csv", "parquet" or "sqlite"
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ServerConfig contains HTTP API parameters
type ServerConfig struct {
	Addr         string        `json:"addr" yaml:"addr"`
	Compress     bool          `json:"compress" yaml:"compress"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

// LoggingConfig controls the logrus logger
type LoggingConfig struct {
	Level      string `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"` // "text" or "json"
	Output     string `json:"output" yaml:"output"` // "stdout", "stderr" or a file path
	MaxAgeDays int    `json:"max_age_days,omitempty" yaml:"max_age_days,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML or JSON based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Data.Symbol == "" {
		return fmt.Errorf("data.symbol is required")
	}
	if _, err := c.Data.Loc(); err != nil {
		return fmt.Errorf("data.location: %w", err)
	}
	for _, name := range []string{
		c.Data.Columns.Date, c.Data.Columns.Time, c.Data.Columns.Symbol,
		c.Data.Columns.Type, c.Data.Columns.Strike, c.Data.Columns.OI,
		c.Data.Columns.Open, c.Data.Columns.High, c.Data.Columns.Low, c.Data.Columns.Close,
	} {
		if name == "" {
			return fmt.Errorf("data.columns must name every column")
		}
	}

	closeAt, err := market.ParseClock(c.Session.Close)
	if err != nil {
		return fmt.Errorf("session.close: %w", err)
	}
	if len(c.Session.Timeframes) == 0 {
		return fmt.Errorf("session.timeframes must not be empty")
	}
	seen := map[int]bool{}
	for i, tf := range c.Session.Timeframes {
		if tf.Minutes <= 0 {
			return fmt.Errorf("session.timeframes[%d].minutes must be positive", i)
		}
		if seen[tf.Minutes] {
			return fmt.Errorf("session.timeframes[%d]: duplicate %d minute timeframe", i, tf.Minutes)
		}
		seen[tf.Minutes] = true
		start, err := market.ParseClock(tf.Start)
		if err != nil {
			return fmt.Errorf("session.timeframes[%d].start: %w", i, err)
		}
		if start >= closeAt {
			return fmt.Errorf("session.timeframes[%d].start must be before session.close", i)
		}
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv", "parquet":
		if c.Journal.Dir == "" {
			return fmt.Errorf("journal.dir required for %s type", c.Journal.Type)
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv', 'parquet' or 'sqlite'")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be 'text' or 'json'")
	}
	return nil
}

// Loc resolves the dataset time zone
func (d DataConfig) Loc() (*time.Location, error) {
	if d.Location == "" {
		return time.Local, nil
	}
	return time.LoadLocation(d.Location)
}

// CloseClock parses the session close
func (s SessionConfig) CloseClock() (market.Clock, error) {
	return market.ParseClock(s.Close)
}

// ParseTimeframes converts the configured grids
func (s SessionConfig) ParseTimeframes() ([]market.Timeframe, error) {
	out := make([]market.Timeframe, 0, len(s.Timeframes))
	for _, tf := range s.Timeframes {
		start, err := market.ParseClock(tf.Start)
		if err != nil {
			return nil, err
		}
		out = append(out, market.Timeframe{
			Name:   tf.Name,
			Length: time.Duration(tf.Minutes) * time.Minute,
			Start:  start,
		})
	}
	return out, nil
}

// Offsets converts the overlay bands
func (c *Config) Offsets() []resample.Offset {
	out := make([]resample.Offset, 0, len(c.Overlays))
	for _, o := range c.Overlays {
		out = append(out, resample.Offset{Label: o.Label, Delta: o.Offset, Color: o.Color})
	}
	return out
}

// Env lists the environment overrides
type Env struct {
	Ticks     string `env:"MAXOI_TICKS"`
	Symbol    string `env:"MAXOI_SYMBOL"`
	Addr      string `env:"MAXOI_ADDR"`
	DBPath    string `env:"MAXOI_DB"`
	LogLevel  string `env:"MAXOI_LOG_LEVEL"`
	LogFormat string `env:"MAXOI_LOG_FORMAT"`
}

// ApplyEnv overlays any MAXOI_* variables found by lookuper onto c. A nil
// lookuper reads the process environment.
func (c *Config) ApplyEnv(ctx context.Context, lookuper envconfig.Lookuper) error {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

	var env Env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: lookuper,
	}); err != nil {
		return fmt.Errorf("process env: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Data.TicksFile, env.Ticks)
	set(&c.Data.Symbol, env.Symbol)
	set(&c.Server.Addr, env.Addr)
	if env.DBPath != "" {
		c.Journal.Type = "sqlite"
		c.Journal.DBPath = env.DBPath
	}
	set(&c.Logging.Level, env.LogLevel)
	set(&c.Logging.Format, env.LogFormat)
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	overlays := make([]OverlayConfig, 0, 4)
	for _, o := range resample.DefaultOffsets() {
		overlays = append(overlays, OverlayConfig{Label: o.Label, Offset: o.Delta, Color: o.Color})
	}

	timeframes := make([]TimeframeConfig, 0, 3)
	for _, tf := range market.DefaultTimeframes() {
		timeframes = append(timeframes, TimeframeConfig{
			Name:    tf.Name,
			Minutes: int(tf.Length / time.Minute),
			Start:   tf.Start.String(),
		})
	}

	return &Config{
		Data: DataConfig{
			TicksFile: "./banknifty_data.csv",
			Symbol:    "BANKNIFTY",
			Location:  "Asia/Kolkata",
			Columns:   ticks.DefaultColumns(),
		},
		Session: SessionConfig{
			Close:      market.DefaultSessionClose.String(),
			Timeframes: timeframes,
		},
		Overlays: overlays,
		Journal: JournalConfig{
			Type: "none",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			Compress:     true,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
