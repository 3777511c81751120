package dlogger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGetLogger(t *testing.T) {
	l, err := GetLogger(LogLevelInfo)
	require.NoError(t, err)
	assert.NotNil(t, l)

	l, err = GetLogger(LogLevelNone)
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = GetLogger("not-a-level")
	assert.Error(t, err)
}

func TestLevelForVerbosity(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, LevelForVerbosity(0))
	assert.Equal(t, zapcore.InfoLevel, LevelForVerbosity(1))
	assert.Equal(t, zapcore.DebugLevel, LevelForVerbosity(2))
	assert.Equal(t, zapcore.DebugLevel, LevelForVerbosity(5))
}

func TestGetFileLogger(t *testing.T) {
	logfile := filepath.Join(t.TempDir(), "zbak.log")

	l, closeLog, err := GetFileLogger(logfile, 0)
	require.NoError(t, err)

	l.Info("snapshot created")
	_ = l.Sync() // stderr may not support sync
	closeLog()

	data, err := os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "snapshot created")
}
