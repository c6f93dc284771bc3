package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestNew_WritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})

	l.Info().Str("body", "SATURN").Msg("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), `"body":"SATURN"`)
}

func TestNew_AllLogLevels(t *testing.T) {
	testCases := []struct {
		level         string
		expectedLevel zerolog.Level
		name          string
	}{
		{"debug", zerolog.DebugLevel, "debug"},
		{"info", zerolog.InfoLevel, "info"},
		{"warn", zerolog.WarnLevel, "warn"},
		{"error", zerolog.ErrorLevel, "error"},
		{"disabled", zerolog.Disabled, "disabled"},
		{"unknown", zerolog.InfoLevel, "unknown defaults to info"},
		{"", zerolog.InfoLevel, "empty defaults to info"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			New(Config{Level: tc.level, Output: &bytes.Buffer{}})
			assert.Equal(t, tc.expectedLevel, zerolog.GlobalLevel())
		})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func TestNew_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Pretty: true, Output: &buf})

	l.Info().Msg("pretty message")

	assert.Contains(t, buf.String(), "pretty message")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestNew_ErrorLevelFiltersLower(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "error", Output: &buf})
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	l.Info().Msg("should not appear")
	assert.NotContains(t, buf.String(), "should not appear")

	l.Error().Msg("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestNew_TimestampFormat(t *testing.T) {
	New(Config{Output: &bytes.Buffer{}})
	assert.Equal(t, "2006-01-02T15:04:05Z07:00", zerolog.TimeFieldFormat)
}

func TestSetGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalLogger(New(Config{Level: "info", Output: &buf}))
	defer SetGlobalLogger(zerolog.Nop())

	log.Info().Msg("global logger test")

	assert.Contains(t, buf.String(), "global logger test")
}
