package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_LevelParsing(t *testing.T) {
	var buf bytes.Buffer

	build(Config{Level: "warn"}, &buf)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	build(Config{Level: "debug"}, &buf)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	// Unrecognized and empty levels fall back to info
	build(Config{Level: "nonsense"}, &buf)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	build(Config{}, &buf)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestBuild_ServiceField(t *testing.T) {
	var buf bytes.Buffer
	l := build(Config{Level: "info"}, &buf)

	l.Info().Str("component", "scorer").Msg("started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ladder-engine", entry["service"])
	assert.Equal(t, "scorer", entry["component"])
	assert.Equal(t, "started", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestBuild_PrettyOutputIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	l := build(Config{Level: "info", Pretty: true}, &buf)

	l.Info().Msg("started")

	// Console writer output is not JSON
	var entry map[string]interface{}
	assert.Error(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, buf.String(), "started")
}
