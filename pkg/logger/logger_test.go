package logger_test

import (
	"log/slog"
	"testing"

	"github.com/gnames/gnrecon/pkg/config"
	"github.com/gnames/gnrecon/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in  string
		out slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, v := range tests {
		assert.Equal(t, v.out, logger.ParseLevel(v.in), v.in)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		msg   string
		cfg   config.LogConfig
		level slog.Level
	}{
		{"text info", config.LogConfig{Format: "text", Level: "info"},
			slog.LevelInfo},
		{"json debug", config.LogConfig{Format: "json", Level: "debug"},
			slog.LevelDebug},
		{"defaults", config.LogConfig{}, slog.LevelInfo},
	}
	for _, v := range tests {
		log := logger.New(&v.cfg)
		require.NotNil(t, log, v.msg)
		assert.True(t,
			log.Enabled(t.Context(), v.level), v.msg)
		if v.level != slog.LevelDebug {
			assert.False(t,
				log.Enabled(t.Context(), slog.LevelDebug), v.msg)
		}
	}
}
