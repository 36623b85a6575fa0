package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	applog "github.com/causeway-org/causeway/internal/logger"
)

// StatusUpdater advances date-driven record statuses to match the clock.
type StatusUpdater interface {
	UpdateStatuses(now time.Time) (int64, error)
}

// StatusSweepTask moves campaigns, events, grants and projects through
// their date-driven lifecycles.
type StatusSweepTask struct{}

// Config returns the queue configuration for status sweeps.
func (t StatusSweepTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "status_sweep",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// StatusSweepProcessor runs every registered updater. One updater failing
// does not stop the others; the first error is returned so the task retries.
func StatusSweepProcessor(updaters map[string]StatusUpdater, log *applog.Logger) backlite.QueueProcessor[StatusSweepTask] {
	return func(ctx context.Context, task StatusSweepTask) error {
		now := time.Now()
		var firstErr error

		for name, updater := range updaters {
			changed, err := updater.UpdateStatuses(now)
			if err != nil {
				log.Error("status sweep failed for {name}: {error}", map[string]any{
					"name": name, "error": err.Error(),
				})
				if firstErr == nil {
					firstErr = fmt.Errorf("status sweep %s: %w", name, err)
				}
				continue
			}
			if changed > 0 {
				log.Info("status sweep advanced {count} {name} records", map[string]any{
					"count": changed, "name": name,
				})
			}
		}
		return firstErr
	}
}

// NewStatusSweepQueue creates a backlite queue for status sweeps.
func NewStatusSweepQueue(updaters map[string]StatusUpdater, log *applog.Logger) backlite.Queue {
	return backlite.NewQueue(StatusSweepProcessor(updaters, log))
}
