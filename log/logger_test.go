package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
)

func TestStdLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestStdLoggerFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelDebug)

	logger.Info("uploaded %s (%d bytes)", "notes.md", 512)

	assert.Contains(t, buf.String(), "uploaded notes.md (512 bytes)")
	assert.Contains(t, buf.String(), "[docuchat]")
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelNone, "NONE"},
		{Level(42), "UNKNOWN(42)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewWriterLogger(&buf, LevelInfo))

	Info("hello from the default logger")
	Debug("filtered")

	assert.Contains(t, buf.String(), "hello from the default logger")
	assert.NotContains(t, buf.String(), "filtered")
}

func TestGologLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	glogger := golog.New()
	glogger.SetOutput(&buf)
	glogger.SetLevel("debug")

	logger := NewGologLogger(glogger)
	logger.SetLevel(LevelWarn)
	assert.Equal(t, LevelWarn, logger.GetLevel())

	logger.Info("not shown")
	logger.Warn("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "not shown"))
	assert.True(t, strings.Contains(out, "shown"))
}

func TestGologLevelMapping(t *testing.T) {
	tests := []struct {
		level Level
		want  golog.Level
	}{
		{LevelDebug, golog.DebugLevel},
		{LevelInfo, golog.InfoLevel},
		{LevelWarn, golog.WarnLevel},
		{LevelError, golog.ErrorLevel},
		{LevelNone, golog.DisableLevel},
	}

	for _, tt := range tests {
		glogger := golog.New()
		logger := NewGologLogger(glogger)
		logger.SetLevel(tt.level)
		assert.Equal(t, tt.want, glogger.Level)
	}
}

func TestNoOpLogger(t *testing.T) {
	// Must not panic and must satisfy the interface.
	var logger Logger = NoOpLogger{}
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d")
}
