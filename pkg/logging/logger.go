// Package logging provides structured debug logging for pagedrive
// components. Each run gets a UUID-scoped log file under
// ~/.pagedrive/logs/, shared by all component loggers of that run.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes timestamped, component-tagged log lines.
// All log methods write unconditionally; there is no level filtering.
// A nil *Logger is valid and discards everything, so library types can
// carry a logger without forcing one on the caller.
type Logger struct {
	runID     string
	component string
	file      *os.File
	logger    *log.Logger
	logPath   string
	mu        sync.Mutex
	closeOnce sync.Once
}

var (
	// runID is shared by every logger created during this process run.
	runID     string
	runIDOnce sync.Once

	logDir  string
	dirOnce sync.Once
	dirErr  error
)

func currentRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

func initLogDir() error {
	dirOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			dirErr = fmt.Errorf("failed to get home directory: %w", err)
			return
		}

		logDir = filepath.Join(home, ".pagedrive", "logs")
		if err := os.MkdirAll(logDir, 0750); err != nil {
			dirErr = fmt.Errorf("failed to create log directory: %w", err)
		}
	})
	return dirErr
}

// New creates a logger for a component, writing to
// ~/.pagedrive/logs/<run-id>-pagedrive.log. Multiple components append to
// the same file. If the file cannot be opened, a stderr logger is returned
// along with the error so callers can detect fallback mode.
func New(component string) (*Logger, error) {
	if err := initLogDir(); err != nil {
		return fallback(component, err), err
	}

	id := currentRunID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-pagedrive.log", id))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return fallback(component, err), err
	}

	return &Logger{
		runID:     id,
		component: component,
		file:      file,
		logger:    log.New(file, "", 0),
		logPath:   logPath,
	}, nil
}

func fallback(component string, cause error) *Logger {
	l := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags)
	l.Printf("WARNING: file logging unavailable, using stderr: %v", cause)

	return &Logger{
		runID:     currentRunID(),
		component: component,
		logger:    l,
	}
}

func (l *Logger) write(level, format string, v ...interface{}) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, v...)
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.write("DEBUG", format, v...)
}

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write("INFO", format, v...)
}

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write("WARN", format, v...)
}

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write("ERROR", format, v...)
}

// Writer returns the underlying log destination.
func (l *Logger) Writer() io.Writer {
	if l == nil {
		return io.Discard
	}
	if l.file != nil {
		return l.file
	}
	return os.Stderr
}

// RunID returns the run-scoped identifier shared by all loggers.
func (l *Logger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// LogPath returns the path of the log file, or "" in fallback mode.
func (l *Logger) LogPath() string {
	if l == nil {
		return ""
	}
	return l.logPath
}

// Close closes the log file. Safe to call multiple times and on nil.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}

	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
