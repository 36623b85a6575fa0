package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/causeway-org/causeway/internal/config"
	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/database/campaigns"
	"github.com/causeway-org/causeway/internal/database/events"
	"github.com/causeway-org/causeway/internal/database/grants"
	"github.com/causeway-org/causeway/internal/database/projects"
	applog "github.com/causeway-org/causeway/internal/logger"
	"github.com/causeway-org/causeway/internal/tasks"
)

// SweepStatusesCommand runs one status sweep synchronously, without the
// task queue. Useful when the server is down or for cron-based setups.
type SweepStatusesCommand struct {
	Verbose bool
}

// NewSweepStatusesCommand creates a new SweepStatusesCommand
func NewSweepStatusesCommand() *SweepStatusesCommand {
	return &SweepStatusesCommand{}
}

// ParseFlags parses command line flags
func (cmd *SweepStatusesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sweep-statuses", flag.ExitOnError)

	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print per-module change counts")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sweep-statuses [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Advance campaign, event, grant and project statuses to match the clock.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the sweep
func (cmd *SweepStatusesCommand) Run() error {
	cfg := config.NewConfig()

	minLevel, err := applog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, err := applog.New(cfg.Log.Dir, minLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	db, err := database.New(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	updaters := map[string]tasks.StatusUpdater{
		"campaigns": campaigns.NewRepository(db),
		"events":    events.NewRepository(db),
		"grants":    grants.NewRepository(db),
		"projects":  projects.NewRepository(db),
	}

	now := time.Now()
	var total int64
	for name, updater := range updaters {
		changed, err := updater.UpdateStatuses(now)
		if err != nil {
			return fmt.Errorf("sweep %s: %w", name, err)
		}
		total += changed
		if cmd.Verbose {
			fmt.Printf("%s: %d record(s) advanced\n", name, changed)
		}
	}

	fmt.Printf("Sweep complete: %d record(s) advanced\n", total)
	return nil
}
