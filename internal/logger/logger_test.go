package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestResolveLogFilePathDefaultDir(t *testing.T) {
	t.Chdir(t.TempDir())

	got, err := resolveLogFilePath(Options{})
	require.NoError(t, err)
	assert.Equal(t, defaultLogFilename, filepath.Base(got))
	assert.Equal(t, defaultLogDirName, filepath.Base(filepath.Dir(got)))
	_, err = os.Stat(got)
	assert.NoError(t, err)
}

func TestNewReleaseWritesJSONToFile(t *testing.T) {
	dir := t.TempDir()
	log := New("release", Options{Dir: dir, Filename: "release.log"})
	log.Info("cart_updated", zap.String("session_id", "abc"))
	log.Debug("hidden_by_default")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(dir, "release.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"message":"cart_updated"`)
	assert.Contains(t, string(content), `"session_id":"abc"`)
	assert.NotContains(t, string(content), "hidden_by_default")
}

func TestNewReleaseHonoursLevel(t *testing.T) {
	dir := t.TempDir()
	log := New("release", Options{Dir: dir, Filename: "warn.log", Level: "warn"})
	log.Info("dropped")
	log.Warn("kept")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(dir, "warn.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "dropped")
	assert.Contains(t, string(content), "kept")
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	dir := t.TempDir()
	log := New("debug", Options{Dir: dir, Filename: "debug.log"})
	log.Info("debug-log-test")
	_ = log.Sync()

	_, err := os.Stat(filepath.Join(dir, "debug.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, zap.WarnLevel)
	log.Info("hidden")
	log.Warn("visible")
	_ = log.Sync()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error", true))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("", true))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("", false))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("loud", false))
}

func TestZFallsBackBeforeInit(t *testing.T) {
	assert.NotNil(t, Z())
	assert.NotNil(t, SW("request_id", "r1"))
}
