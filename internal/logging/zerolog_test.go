package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerolog(ZerologConfig{Level: "debug", Format: "json", Output: buf})

	logger.Debug("round finished", "round", 3, "mode", "simplified")

	output := buf.String()
	assert.Contains(t, output, `"level":"debug"`)
	assert.Contains(t, output, `"round":3`)
	assert.Contains(t, output, `"mode":"simplified"`)
	assert.Contains(t, output, "round finished")
}

func TestZerologLogger_LevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerolog(ZerologConfig{Level: "warn", Format: "json", Output: buf})

	logger.Info("hidden")
	logger.Warn("shown", "peer", "p1")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "shown")
	assert.Contains(t, output, `"peer":"p1"`)
}

func TestZerologLogger_ErrorsAndOddArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerolog(ZerologConfig{Format: "json", Output: buf})

	logger.Error("publish failed", "error", errors.New("boom"), "dangling")

	output := buf.String()
	assert.Contains(t, output, `"error":"boom"`)
	assert.Contains(t, output, `"dangling":"<missing>"`)
}

func TestZerologLogger_Console(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerolog(ZerologConfig{Output: buf})

	logger.Info("assignment generated", "peers", 4)

	output := buf.String()
	assert.Contains(t, output, "assignment generated")
	assert.Contains(t, output, "peers=4")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	require.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	require.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	require.Equal(t, zerolog.Disabled, ParseLevel("off"))
	require.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	require.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestNewZerologFrom(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerologFrom(zerolog.New(buf))

	logger.Info("wrapped")

	require.Contains(t, buf.String(), "wrapped")
}
