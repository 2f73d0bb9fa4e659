package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dj-jukebox",
	Short: "Collaborative queue service: rooms, song requests, live voting",
	Long:  `HTTP + WebSocket API. Commands: api, migrate, seed.`,
	RunE:  runAPI, // default: run API (same as "dj-jukebox api")
}

func init() {
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateCreateCmd)
	rootCmd.AddCommand(seedCmd)
}

// Execute runs the root command and returns the error (for main to log.Fatal).
func Execute() error {
	return rootCmd.Execute()
}
