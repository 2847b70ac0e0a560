/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: formatter_test.go
Description: Tests for the custom and pipeline log formatters.
*/

package logging_test

import (
	"testing"
	"time"

	"github.com/kleascm/akaylee-ruleminer/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entryWith builds a plain info entry for formatter tests.
func entryWith(msg string, fields logrus.Fields) *logrus.Entry {
	entry := logrus.NewEntry(logrus.New())
	entry.Message = msg
	entry.Level = logrus.InfoLevel
	entry.Time = time.Date(2026, 8, 29, 12, 30, 45, 0, time.UTC)
	entry.Data = fields
	return entry
}

// TestCustomFormatterPlain verifies the uncolored layout.
func TestCustomFormatterPlain(t *testing.T) {
	f := &logging.CustomFormatter{Timestamp: true}

	out, err := f.Format(entryWith("scan complete", logrus.Fields{"count": 3}))
	require.NoError(t, err)

	line := string(out)
	assert.Contains(t, line, "2026-08-29 12:30:45.000")
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "scan complete")
	assert.Contains(t, line, "count=3")
	assert.NotContains(t, line, "\033[", "colors disabled")
}

// TestCustomFormatterColors verifies ANSI sequences appear when enabled.
func TestCustomFormatterColors(t *testing.T) {
	f := &logging.CustomFormatter{Colors: true}

	out, err := f.Format(entryWith("scan complete", nil))
	require.NoError(t, err)
	assert.Contains(t, string(out), "\033[32mINFO\033[0m")
}

// TestMinerFormatterStagePrefix verifies the per-stage message prefixes.
func TestMinerFormatterStagePrefix(t *testing.T) {
	f := &logging.MinerFormatter{}

	cases := map[string]string{
		"text regions extracted": "[REGIONS]",
		"pointer graph built":    "[POINTERS]",
		"rules segmented":        "[RULES]",
		"analysis run started":   "[RUN]",
	}
	for msg, prefix := range cases {
		out, err := f.Format(entryWith(msg, nil))
		require.NoError(t, err)
		assert.Contains(t, string(out), prefix, msg)
	}

	out, err := f.Format(entryWith("unrelated message", nil))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "[", "no prefix for unrecognized messages")
}

// TestMinerFormatterStageValues verifies key-aware field rendering.
func TestMinerFormatterStageValues(t *testing.T) {
	f := &logging.MinerFormatter{}

	out, err := f.Format(entryWith("rules segmented", logrus.Fields{
		"duration": 1500 * time.Millisecond,
	}))
	require.NoError(t, err)
	assert.Contains(t, string(out), "duration=1.5s")

	out, err = f.Format(entryWith("rules segmented", logrus.Fields{
		"offset": 4096,
	}))
	require.NoError(t, err)
	assert.Contains(t, string(out), "offset=0x1000")

	out, err = f.Format(entryWith("rules segmented", logrus.Fields{
		"confidence": 0.75,
	}))
	require.NoError(t, err)
	assert.Contains(t, string(out), "confidence=0.750")

	out, err = f.Format(entryWith("rules segmented", logrus.Fields{
		"run_id": "0123456789abcdef",
	}))
	require.NoError(t, err)
	assert.Contains(t, string(out), "run_id=01234567...")
}
