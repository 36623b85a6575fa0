// Package cli implements the maintenance subcommands of the binary.
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/causeway-org/causeway/internal/auth"
	"github.com/causeway-org/causeway/internal/config"
	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	applog "github.com/causeway-org/causeway/internal/logger"
)

// SeedAdminCommand creates the first administrator account.
type SeedAdminCommand struct {
	Username string
	Email    string
	Password string
	FullName string
}

// NewSeedAdminCommand creates a new SeedAdminCommand
func NewSeedAdminCommand() *SeedAdminCommand {
	return &SeedAdminCommand{}
}

// ParseFlags parses command line flags
func (cmd *SeedAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "admin", "Username for the administrator account")
	fs.StringVar(&cmd.Email, "email", "", "Email address for the administrator account")
	fs.StringVar(&cmd.Password, "password", "", "Password (min 12 characters); falls back to ADMIN_PASSWORD")
	fs.StringVar(&cmd.FullName, "name", "Administrator", "Full name for the administrator account")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed-admin [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the first administrator account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed-admin -email admin@example.org -password 'a long passphrase'\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Password == "" {
		cmd.Password = os.Getenv("ADMIN_PASSWORD")
	}
	return nil
}

// Run executes the seed command
func (cmd *SeedAdminCommand) Run() error {
	if cmd.Email == "" {
		return fmt.Errorf("email is required")
	}
	if cmd.Password == "" {
		return fmt.Errorf("password is required (flag -password or ADMIN_PASSWORD)")
	}

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

	service := auth.NewService(db.DB, cfg.Auth, logger)
	user, err := service.CreateUser(cmd.Username, cmd.Email, cmd.Password, cmd.FullName, entities.UserRoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to create administrator: %w", err)
	}

	fmt.Printf("Created administrator %q (id %d)\n", user.Username, user.ID)
	return nil
}
