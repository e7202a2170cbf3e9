package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponentAnnotatesEntries(t *testing.T) {
	var buf bytes.Buffer
	Replace(Config{Level: "debug", Output: &buf, Service: "test"})
	t.Cleanup(func() { Replace(Config{Output: &bytes.Buffer{}}) })

	logger := WithComponent("timer")
	logger.Debug().Str(FieldEvent, "timer.transition").Msg("transitioned")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "timer", entry[FieldComponent])
	assert.Equal(t, "test", entry[FieldService])
	assert.Equal(t, "timer.transition", entry[FieldEvent])
	assert.Equal(t, "debug", entry["level"])
}

func TestLevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	Replace(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Replace(Config{Output: &bytes.Buffer{}}) })

	logger := Base()
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "shown"))
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Replace(Config{Level: "chatty", Output: &buf})
	t.Cleanup(func() { Replace(Config{Output: &bytes.Buffer{}}) })

	logger := Base()
	logger.Debug().Msg("debug")
	logger.Info().Msg("info")

	out := buf.String()
	assert.NotContains(t, out, `"message":"debug"`)
	assert.Contains(t, out, `"message":"info"`)
}
