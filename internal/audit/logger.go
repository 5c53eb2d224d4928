// Package audit provides an append-only JSONL record of every operator
// command accepted by the Command Service (component D).
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry represents a single audit record for one OperatorCommand.
type Entry struct {
	Timestamp   time.Time `json:"ts"`
	Command     string    `json:"command"`
	Value       int       `json:"value,omitempty"`
	Outcome     string    `json:"outcome"`
	MissionGo   bool      `json:"missionGo"`
	Throttle    int       `json:"throttle"`
	MissionTime float64   `json:"missionTimeS"`
}

// Logger implements append-only audit logging for the Command Service.
type Logger struct {
	mu       sync.Mutex
	filePath string
	file     *os.File
}

// NewLogger creates a new audit logger writing to <logDir>/audit.jsonl.
func NewLogger(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filePath := filepath.Join(logDir, "audit.jsonl")

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}

	return &Logger{filePath: filePath, file: file}, nil
}

// LogCommand records one processed OperatorCommand and the resulting reply.
func (l *Logger) LogCommand(_ context.Context, command string, value int, missionGo bool, throttle int, missionTimeS float64, outcome string) {
	entry := Entry{
		Timestamp:   time.Now().UTC(),
		Command:     command,
		Value:       value,
		Outcome:     outcome,
		MissionGo:   missionGo,
		Throttle:    throttle,
		MissionTime: missionTimeS,
	}
	l.writeEntry(entry)
}

func (l *Logger) writeEntry(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	jsonData, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit: failed to marshal entry: %v\n", err)
		return
	}

	if _, err := l.file.Write(append(jsonData, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "audit: failed to write entry: %v\n", err)
		return
	}

	if err := l.file.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "audit: failed to sync log: %v\n", err)
	}
}

// Close closes the audit logger and its file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// GetFilePath returns the path to the audit log file.
func (l *Logger) GetFilePath() string {
	return l.filePath
}

// Rotate rotates the audit log file, preserving the current one with a
// timestamp suffix.
func (l *Logger) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		if err := l.file.Close(); err != nil {
			return fmt.Errorf("failed to close current log file: %w", err)
		}
	}

	timestamp := time.Now().Format("20060102-150405")
	newFilePath := fmt.Sprintf("%s.%s", l.filePath, timestamp)

	if err := os.Rename(l.filePath, newFilePath); err != nil {
		return fmt.Errorf("failed to rename log file: %w", err)
	}

	file, err := os.OpenFile(l.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}

	l.file = file
	return nil
}
