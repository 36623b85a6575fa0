package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReadDate returns every entry logged on the given day (YYYY-MM-DD).
// A day with no log file yields an empty slice.
func (l *Logger) ReadDate(date string) ([]Entry, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	// Make sure buffered writes for the requested day are visible.
	l.mu.Lock()
	if l.file != nil && l.fileDay == date {
		_ = l.file.Sync()
	}
	l.mu.Unlock()

	f, err := os.Open(l.pathFor(date))
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			// Skip torn or foreign lines rather than failing the whole read.
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// ReadLevel returns the day's entries at exactly the given level.
func (l *Logger) ReadLevel(date string, level Level) ([]Entry, error) {
	entries, err := l.ReadDate(date)
	if err != nil {
		return nil, err
	}
	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Level == level.String() {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// Search returns the day's entries whose message contains term
// (case-insensitive).
func (l *Logger) Search(date, term string) ([]Entry, error) {
	entries, err := l.ReadDate(date)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(term)
	matched := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Message), want) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Stats returns the per-level entry counts for a day.
func (l *Logger) Stats(date string) (map[string]int, error) {
	entries, err := l.ReadDate(date)
	if err != nil {
		return nil, err
	}
	stats := make(map[string]int)
	for _, e := range entries {
		stats[e.Level]++
	}
	return stats, nil
}

// ClearOldLogs deletes log files older than daysToKeep days and returns how
// many files were removed. There is no automatic rotation beyond this.
func (l *Logger) ClearOldLogs(daysToKeep int) (int, error) {
	if daysToKeep < 1 {
		return 0, fmt.Errorf("daysToKeep must be at least 1, got %d", daysToKeep)
	}

	cutoff := l.now().AddDate(0, 0, -daysToKeep)
	names, err := filepath.Glob(filepath.Join(l.dir, "*"+fileExt))
	if err != nil {
		return 0, fmt.Errorf("failed to list log files: %w", err)
	}

	removed := 0
	for _, name := range names {
		day := strings.TrimSuffix(filepath.Base(name), fileExt)
		fileDate, err := time.Parse(dateLayout, day)
		if err != nil {
			continue // not one of ours
		}
		if fileDate.Before(cutoff) {
			if err := os.Remove(name); err != nil {
				return removed, fmt.Errorf("failed to remove %s: %w", name, err)
			}
			removed++
		}
	}
	return removed, nil
}
