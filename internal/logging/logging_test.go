package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"  DEBUG ", zerolog.DebugLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Out: &buf})

	log.Info().Str("component", "update").Msg("check finished")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "check finished", line["message"])
	assert.Equal(t, "update", line["component"])
}

func TestNewLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "error", Format: "json", Out: &buf})

	log.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	log.Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewAutoFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	// A plain buffer is not a terminal, so auto resolves to JSON.
	log := New(Config{Format: "auto", Out: &buf})

	log.Info().Msg("hello")
	assert.True(t, json.Valid(buf.Bytes()))
}
