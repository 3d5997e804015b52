package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLogger(level Level, jsonFormat bool) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(level, jsonFormat)
	l.SetOutput(&buf)
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l, &buf
}

func TestTextOutput(t *testing.T) {
	l, buf := fixedLogger(INFO, false)

	l.Info("calibration started", map[string]interface{}{"target": "f", "repeat": 3})

	assert.Equal(t, "[2026-01-02 03:04:05] INFO: calibration started repeat=3 target=f\n", buf.String())
}

func TestLevelFiltering(t *testing.T) {
	l, buf := fixedLogger(WARN, false)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestJSONOutput(t *testing.T) {
	l, buf := fixedLogger(DEBUG, true)

	l.WithField("phase", "probe").Error("target failed", map[string]interface{}{"loops": 10})

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "target failed", entry.Message)
	assert.Equal(t, "probe", entry.Fields["phase"])
	assert.Equal(t, float64(10), entry.Fields["loops"])
	assert.Equal(t, "2026-01-02T03:04:05Z", entry.Timestamp)
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	l, buf := fixedLogger(INFO, false)

	_ = l.WithField("a", 1)
	l.Info("plain")

	assert.NotContains(t, buf.String(), "a=1")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARNING"))
	assert.Equal(t, ERROR, ParseLevel("error"))
	assert.Equal(t, INFO, ParseLevel("bogus"))
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	assert.Equal(t, FATAL+1, l.Level())
}

func TestFatalLevelSilencesErrors(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(ParseLevel("fatal"), false)
	l.SetOutput(&buf)

	l.Error("suppressed")
	assert.Empty(t, buf.String())
}
