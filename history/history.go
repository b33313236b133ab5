// Package history keeps the append-only action log shown in the application's
// history tab. The log is a constructed object with an explicit lifecycle, not
// a shared global handle.
package history

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const fileName = "app.log"

// Log writes timestamped action entries to <dir>/app.log and can read the
// full text back or clear it.
type Log struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	logger *log.Logger
}

// Open creates dir if needed and opens the log file in append mode.
func Open(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	path := filepath.Join(dir, fileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening action log: %w", err)
	}
	return &Log{
		path:   path,
		file:   file,
		logger: log.New(file, "", log.LstdFlags),
	}, nil
}

// Record appends one action entry.
func (l *Log) Record(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Printf(format, args...)
}

// Read returns the full log text.
func (l *Log) Read() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("reading action log: %w", err)
	}
	return string(data), nil
}

// Clear truncates the log and records the clearing as the first new entry.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.file.Truncate(0); err != nil {
		return fmt.Errorf("clearing action log: %w", err)
	}
	if _, err := l.file.Seek(0, 0); err != nil {
		return fmt.Errorf("clearing action log: %w", err)
	}
	l.logger.Printf("history cleared")
	return nil
}

func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
