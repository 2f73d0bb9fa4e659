package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Yekna/dj-jukebox/internal/config"
	"github.com/Yekna/dj-jukebox/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE:  runMigrateUp,
}

var migrateCreateCmd = &cobra.Command{
	Use:   "migrate-create [name]",
	Short: "Create an empty up/down migration pair",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.CreateMigration(args[0])
	},
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return database.MigrateUp(cfg.DatabaseURL())
}
