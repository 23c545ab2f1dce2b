package logging

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDir points the package at a temp log directory and resets the
// run-scoped globals, restoring everything on cleanup.
func setupTestDir(t *testing.T) {
	t.Helper()

	tempDir := t.TempDir()

	origLogDir := logDir
	origDirErr := dirErr
	origDirOnce := dirOnce
	origRunID := runID
	origRunIDOnce := runIDOnce

	logDir = tempDir
	dirErr = nil
	dirOnce = sync.Once{}
	dirOnce.Do(func() {}) // mark initialized so initLogDir keeps tempDir
	runID = ""
	runIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDir = origLogDir
		dirErr = origDirErr
		dirOnce = origDirOnce
		runID = origRunID
		runIDOnce = origRunIDOnce
	})
}

func TestNew_WritesToRunFile(t *testing.T) {
	setupTestDir(t)

	logger, err := New("manager")
	require.NoError(t, err)
	defer logger.Close()

	logger.Infof("session opened: %s", "launch")
	logger.Errorf("navigation failed")

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "[manager]")
	assert.Contains(t, content, "[INFO] session opened: launch")
	assert.Contains(t, content, "[ERROR] navigation failed")
}

func TestNew_ComponentsShareRunFile(t *testing.T) {
	setupTestDir(t)

	first, err := New("manager")
	require.NoError(t, err)
	defer first.Close()

	second, err := New("resolver")
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, first.RunID(), second.RunID())
	assert.Equal(t, first.LogPath(), second.LogPath())
	assert.True(t, strings.HasSuffix(first.LogPath(), "-pagedrive.log"))
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger

	// None of these may panic.
	logger.Debugf("dropped")
	logger.Infof("dropped")
	logger.Warnf("dropped")
	logger.Errorf("dropped")

	assert.Equal(t, "", logger.RunID())
	assert.Equal(t, "", logger.LogPath())
	assert.NoError(t, logger.Close())
	assert.NotNil(t, logger.Writer())
}

func TestClose_Idempotent(t *testing.T) {
	setupTestDir(t)

	logger, err := New("interpreter")
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())
}
