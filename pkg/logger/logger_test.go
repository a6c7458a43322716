package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_LevelMapping(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		New(Config{Level: tt.level})
		assert.Equal(t, tt.want, zerolog.GlobalLevel(), "level %q", tt.level)
	}
}

func TestNew_PrettyOutput(t *testing.T) {
	// Both output modes must produce a usable logger
	pretty := New(Config{Level: "info", Pretty: true})
	pretty.Info().Msg("pretty")
	plain := New(Config{Level: "info", Pretty: false})
	plain.Info().Msg("json")
}
