// Package logger implements the application's leveled audit logger.
//
// Entries are written as JSON lines into one file per calendar day
// (logs/YYYY-MM-DD.log), which keeps the read-side queries (by date, by
// level, search, stats) free of fragile text parsing. The classic
// "[timestamp] LEVEL: message" layout is still available as an export view
// via FormatEntry.
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	fileExt        = ".log"
	dateLayout     = "2006-01-02"
	entryTimeLabel = "2006-01-02 15:04:05"
)

// Entry is one persisted log line.
type Entry struct {
	Time    time.Time      `json:"ts"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// Logger writes leveled entries to one file per day. Safe for concurrent use.
type Logger struct {
	dir string
	min Level

	mu      sync.Mutex
	file    *os.File
	fileDay string

	now func() time.Time // swapped out in tests
}

// New creates a logger writing to dir, filtering out entries less severe
// than min. The directory is created if missing.
func New(dir string, min Level) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &Logger{
		dir: dir,
		min: min,
		now: time.Now,
	}, nil
}

// Close closes the current day's file, if open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.fileDay = ""
	return err
}

// Log writes one entry if level passes the minimum-level filter.
// Placeholders of the form {key} in msg are replaced from ctx; keys used
// for interpolation are removed from the persisted context.
func (l *Logger) Log(level Level, msg string, ctx map[string]any) {
	if level > l.min {
		return
	}

	ts := l.now()
	message, residual := interpolate(msg, ctx)
	entry := Entry{
		Time:    ts,
		Level:   level.String(),
		Message: message,
		Context: residual,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: failed to encode entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.rotate(ts); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return
	}
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "logger: failed to write entry: %v\n", err)
	}
}

func (l *Logger) Emergency(msg string, ctx map[string]any) { l.Log(LevelEmergency, msg, ctx) }
func (l *Logger) Alert(msg string, ctx map[string]any)     { l.Log(LevelAlert, msg, ctx) }
func (l *Logger) Critical(msg string, ctx map[string]any)  { l.Log(LevelCritical, msg, ctx) }
func (l *Logger) Error(msg string, ctx map[string]any)     { l.Log(LevelError, msg, ctx) }
func (l *Logger) Warning(msg string, ctx map[string]any)   { l.Log(LevelWarning, msg, ctx) }
func (l *Logger) Notice(msg string, ctx map[string]any)    { l.Log(LevelNotice, msg, ctx) }
func (l *Logger) Info(msg string, ctx map[string]any)      { l.Log(LevelInfo, msg, ctx) }
func (l *Logger) Debug(msg string, ctx map[string]any)     { l.Log(LevelDebug, msg, ctx) }

// rotate opens the file for ts's calendar day, closing the previous day's
// file when the date rolls over. Caller holds l.mu.
func (l *Logger) rotate(ts time.Time) error {
	day := ts.Format(dateLayout)
	if l.file != nil && l.fileDay == day {
		return nil
	}
	if l.file != nil {
		_ = l.file.Close()
	}

	f, err := os.OpenFile(l.pathFor(day), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file for %s: %w", day, err)
	}
	l.file = f
	l.fileDay = day
	return nil
}

func (l *Logger) pathFor(day string) string {
	return filepath.Join(l.dir, day+fileExt)
}

// interpolate replaces {key} placeholders in msg with the stringified ctx
// values and returns the residual context that was not interpolated.
func interpolate(msg string, ctx map[string]any) (string, map[string]any) {
	if len(ctx) == 0 {
		return msg, nil
	}

	residual := make(map[string]any, len(ctx))
	for key, value := range ctx {
		placeholder := "{" + key + "}"
		if strings.Contains(msg, placeholder) {
			msg = strings.ReplaceAll(msg, placeholder, fmt.Sprintf("%v", value))
			continue
		}
		residual[key] = value
	}
	if len(residual) == 0 {
		residual = nil
	}
	return msg, residual
}

// FormatEntry renders an entry in the plain-text export layout:
// [2006-01-02 15:04:05] LEVEL: message
func FormatEntry(e Entry) string {
	return fmt.Sprintf("[%s] %s: %s", e.Time.Format(entryTimeLabel), e.Level, e.Message)
}
