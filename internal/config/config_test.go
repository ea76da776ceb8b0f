package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, Config{
		CardsDir:      "cards",
		DB:            "morphsynth.db",
		LogLevel:      "info",
		Format:        FormatText,
		WatchDebounce: 250 * time.Millisecond,
	}, cfg)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"MORPHSYNTH_CARDS_DIR":      "/srv/cards",
		"MORPHSYNTH_DB":             "/var/lib/quality.db",
		"MORPHSYNTH_LOG_LEVEL":      "DEBUG",
		"MORPHSYNTH_FORMAT":         " JSON ",
		"MORPHSYNTH_WATCH_DEBOUNCE": "1s",
	})
	require.NoError(t, err)

	assert.Equal(t, "/srv/cards", cfg.CardsDir)
	assert.Equal(t, "/var/lib/quality.db", cfg.DB)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, time.Second, cfg.WatchDebounce)

	level, err := ParseLevel(cfg.LogLevel)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    string
	}{
		{"format", map[string]string{"MORPHSYNTH_FORMAT": "xml"}, "invalid format"},
		{"level", map[string]string{"MORPHSYNTH_LOG_LEVEL": "loud"}, "invalid log level"},
		{"duration", map[string]string{"MORPHSYNTH_WATCH_DEBOUNCE": "soon"}, "parse env"},
		{"negative debounce", map[string]string{"MORPHSYNTH_WATCH_DEBOUNCE": "-1s"}, "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", "lang", "tr")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown lang=tr")
}
