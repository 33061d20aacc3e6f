package main

import (
	"context"
	"fmt"

	"skillcheck/internal/config"
	"skillcheck/internal/database"
	"skillcheck/internal/logger"
	"skillcheck/internal/repository"
	"skillcheck/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "skillctl",
	Short:         "Skillcheck operator tool",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(tokenCmd)
}

// loadConfig reads the shared configuration and starts the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return cfg, nil
}

// openSkills connects to the relational store, applies pending migrations and
// returns the skill service over it. The caller closes the db.
func openSkills(ctx context.Context, cfg *config.Config) (service.SkillService, *sqlx.DB, error) {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(ctx, db, cfg.DB.Driver); err != nil {
		db.Close()
		return nil, nil, err
	}
	return service.NewSkillService(repository.NewSkillRepository(db)), db, nil
}
