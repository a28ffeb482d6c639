package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Level(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, Options{}.Level())
	assert.Equal(t, zerolog.DebugLevel, Options{Verbose: true}.Level())
	assert.Equal(t, zerolog.ErrorLevel, Options{Quiet: true}.Level())
	assert.Equal(t, zerolog.ErrorLevel, Options{Quiet: true, Verbose: true}.Level())
}

func TestSetup_JSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := Setup(Options{JSON: true, Out: &buf})
	logger.Info().Str("url", "https://example.com").Msg("fetching")
	logger.Debug().Msg("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "fetching", entry["message"])
	assert.Equal(t, "https://example.com", entry["url"])
	assert.Contains(t, entry, "time")
}

func TestSetup_ConsoleQuiet(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := Setup(Options{Quiet: true, Out: &buf})
	logger.Info().Msg("progress")
	logger.Error().Msg("boom")

	out := buf.String()
	assert.NotContains(t, out, "progress")
	assert.Contains(t, out, "boom")
}
