/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger_test.go
Description: Tests for logger configuration validation, file output, and the
log analysis utilities.
*/

package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/akaylee-ruleminer/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLoggerConfig builds a minimal valid configuration rooted at dir.
func testLoggerConfig(dir string) *logging.LoggerConfig {
	return &logging.LoggerConfig{
		Level:     logging.LogLevelInfo,
		Format:    logging.LogFormatCustom,
		OutputDir: dir,
		MaxFiles:  5,
		MaxSize:   1024 * 1024,
		Timestamp: true,
	}
}

// TestLoggerConfigValidate verifies each configuration rule.
func TestLoggerConfigValidate(t *testing.T) {
	assert.NoError(t, testLoggerConfig("./logs").Validate())

	bad := testLoggerConfig("")
	assert.Error(t, bad.Validate(), "empty output dir")

	bad = testLoggerConfig("./logs")
	bad.MaxFiles = 0
	assert.Error(t, bad.Validate(), "zero max files")

	bad = testLoggerConfig("./logs")
	bad.MaxSize = 0
	assert.Error(t, bad.Validate(), "zero max size")

	bad = testLoggerConfig("./logs")
	bad.Format = "xml"
	assert.Error(t, bad.Validate(), "unknown format")

	bad = testLoggerConfig("./logs")
	bad.Level = "loud"
	assert.Error(t, bad.Validate(), "unknown level")
}

// TestLoggerFileOutput verifies that pipeline events land in the log file.
func TestLoggerFileOutput(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLogger(testLoggerConfig(dir))
	require.NoError(t, err)

	logger.LogScanStart("run-1", "export.rwz", 4096, nil)
	logger.LogRegions("run-1", 12, 8, nil)
	logger.LogStage("run-1", "regions", 5*time.Millisecond, nil)
	logger.LogPointerGraph("run-1", 40, 40, 3, nil)
	logger.LogCorrelation("run-1", 2, 1, 1, nil)
	require.NoError(t, logger.Close())

	files, err := filepath.Glob(filepath.Join(dir, "akaylee-ruleminer_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Analysis run started")
	assert.Contains(t, content, "Text regions extracted")
	assert.Contains(t, content, "Pointer graph built")
	assert.Contains(t, content, "Rules correlated")
}

// TestLogAnalyzer verifies event counting over a written log file.
func TestLogAnalyzer(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLogger(testLoggerConfig(dir))
	require.NoError(t, err)

	logger.LogScanStart("run-1", "export.rwz", 4096, nil)
	logger.LogStage("run-1", "regions", time.Millisecond, nil)
	logger.LogStage("run-1", "gaps", time.Millisecond, nil)
	logger.LogRegions("run-1", 3, 2, nil)
	logger.LogCorrelation("run-1", 1, 1, 0, nil)
	require.NoError(t, logger.Close())

	analysis, err := logging.NewLogAnalyzer(dir).AnalyzeLogs()
	require.NoError(t, err)

	assert.Equal(t, 1, analysis.LogFiles)
	assert.Equal(t, int64(1), analysis.RunCount)
	assert.Equal(t, int64(2), analysis.StageCount)
	assert.Equal(t, int64(1), analysis.RegionScanCount)
	assert.Equal(t, int64(1), analysis.CorrelationCount)
	assert.Contains(t, analysis.GetLogSummary(), "Runs: 1")
}

// TestLogManagerStats verifies file statistics over the log directory.
func TestLogManagerStats(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "akaylee-ruleminer_2026-08-29_10-00-00.log")
	require.NoError(t, os.WriteFile(path, []byte("INFO hello\n"), 0o644))

	stats, err := logging.NewLogManager(dir, 5, 1024, false).GetLogStats()
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalFiles)
	assert.Equal(t, int64(11), stats.TotalSize)
	assert.Equal(t, 1, stats.UncompressedFiles)
	assert.Equal(t, 0, stats.CompressedFiles)
}

// TestLogManagerCleanup verifies retention enforcement.
func TestLogManagerCleanup(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d"} {
		path := filepath.Join(dir, "akaylee-ruleminer_"+name+".log")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	require.NoError(t, logging.NewLogManager(dir, 2, 1024, false).CleanupOldLogs())

	files, err := filepath.Glob(filepath.Join(dir, "akaylee-ruleminer_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
