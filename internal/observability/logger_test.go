// File: internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/runsettings/internal/config"
)

// -- Test Helper Functions --

// bufferSyncer adapts a bytes.Buffer to zapcore.WriteSyncer.
func bufferSyncer() (*bytes.Buffer, zapcore.WriteSyncer) {
	var buf bytes.Buffer
	return &buf, zapcore.AddSync(&buf)
}

// -- Test Cases --

func TestNewLogger(t *testing.T) {
	t.Run("console logger colorizes levels", func(t *testing.T) {
		buf, w := bufferSyncer()
		logger := NewLogger(config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "TestService",
			Colors:      config.ColorConfig{Warn: "yellow"},
		}, w)

		logger.Warn("Failed to save random seed.")
		require.NoError(t, logger.Sync())

		output := buf.String()
		assert.Contains(t, output, colorYellow+"WARN"+colorReset)
		assert.Contains(t, output, "TestService.")
		assert.Contains(t, output, "Failed to save random seed.")
	})

	t.Run("uncolored levels are plain", func(t *testing.T) {
		buf, w := bufferSyncer()
		logger := NewLogger(config.LoggerConfig{Level: "info", Format: "console"}, w)
		logger.Info("plain")
		assert.Contains(t, buf.String(), "INFO")
		assert.NotContains(t, buf.String(), colorReset)
	})

	t.Run("json logger", func(t *testing.T) {
		buf, w := bufferSyncer()
		logger := NewLogger(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "JSONTest"}, w)
		logger.Warn("This is a JSON message.", zap.String("directory", "/tmp"))

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry), "Log output should be valid JSON")
		assert.Equal(t, "WARN", logEntry["level"])
		assert.Equal(t, "JSONTest", logEntry["logger"])
		assert.Equal(t, "This is a JSON message.", logEntry["msg"])
		assert.Equal(t, "/tmp", logEntry["directory"])
	})

	t.Run("level filtering and fallback level", func(t *testing.T) {
		buf, w := bufferSyncer()
		logger := NewLogger(config.LoggerConfig{Level: "not-a-level", Format: "json"}, w)
		logger.Debug("hidden")
		assert.Empty(t, buf.String(), "invalid level falls back to info")
	})

	t.Run("writes to a log file if configured", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "runsettings.log")
		_, w := bufferSyncer()
		logger := NewLogger(config.LoggerConfig{Level: "debug", Format: "console", LogFile: logFile, MaxSize: 1}, w)
		logger.Error("This should go to the file.")
		require.NoError(t, logger.Sync())

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "This should go to the file.")
	})
}

func TestInitialize(t *testing.T) {
	t.Run("only initializes once", func(t *testing.T) {
		ResetForTest()
		defer ResetForTest()

		buf, w := bufferSyncer()
		Initialize(config.LoggerConfig{Level: "info", ServiceName: "First"}, w)
		logger1 := GetLogger()
		Initialize(config.LoggerConfig{Level: "debug", ServiceName: "Second"}, w)
		logger2 := GetLogger()

		assert.Same(t, logger1, logger2)
		logger2.Info("test")
		assert.Contains(t, buf.String(), "First")
		assert.NotContains(t, buf.String(), "Second")
	})

	t.Run("returns a no-op logger before initialization", func(t *testing.T) {
		ResetForTest()
		logger := GetLogger()
		require.NotNil(t, logger)
		assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
		assert.NotPanics(t, Sync)
	})
}
