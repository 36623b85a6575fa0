package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	applog "github.com/causeway-org/causeway/internal/logger"
)

// CleanupLogsTask removes daily log files older than the retention window.
type CleanupLogsTask struct {
	DaysToKeep int `json:"days_to_keep"`
}

// Config returns the queue configuration for log cleanup tasks.
func (t CleanupLogsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_logs",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupLogsProcessor creates a processor function for CleanupLogsTask.
func CleanupLogsProcessor(log *applog.Logger) backlite.QueueProcessor[CleanupLogsTask] {
	return func(ctx context.Context, task CleanupLogsTask) error {
		daysToKeep := task.DaysToKeep
		if daysToKeep <= 0 {
			daysToKeep = 30
		}

		deleted, err := log.ClearOldLogs(daysToKeep)
		if err != nil {
			return fmt.Errorf("cleanup logs: %w", err)
		}

		if deleted > 0 {
			log.Info("removed {count} log files older than {days} days", map[string]any{
				"count": deleted, "days": daysToKeep,
			})
		}
		return nil
	}
}

// NewCleanupLogsQueue creates a backlite queue for log cleanup tasks.
func NewCleanupLogsQueue(log *applog.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupLogsProcessor(log))
}
