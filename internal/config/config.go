// Package config loads morphsynth settings from the environment.
//
// Command-line flags override every value loaded here.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Formats accepted by MORPHSYNTH_FORMAT and --format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds process-wide settings.
type Config struct {
	CardsDir      string        `env:"MORPHSYNTH_CARDS_DIR"      envDefault:"cards"`
	DB            string        `env:"MORPHSYNTH_DB"             envDefault:"morphsynth.db"`
	LogLevel      string        `env:"MORPHSYNTH_LOG_LEVEL"      envDefault:"info"`
	Format        string        `env:"MORPHSYNTH_FORMAT"         envDefault:"text"`
	WatchDebounce time.Duration `env:"MORPHSYNTH_WATCH_DEBOUNCE" envDefault:"250ms"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the given environment instead of the process one.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("invalid format %q: must be one of [%s %s]", c.Format, FormatText, FormatJSON)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("invalid watch debounce %s: must not be negative", c.WatchDebounce)
	}
	return nil
}

// ParseLevel parses debug, info, warn or error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// NewLogger returns a text logger writing to w at level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
