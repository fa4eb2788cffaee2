/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"orlem/pkg/config"
	"orlem/pkg/logger"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "orlem",
	Short: "Terminal client for the Orlem meeting assistant",
	Long: `Orlem is a terminal client for the Orlem meeting assistant backend.

It keeps a realtime channel open to the backend, follows the meeting in
silence, and answers when addressed by name. Summaries, decisions, action
items and per-speaker diarization accumulate in side panels as the meeting
goes on.

Quick start:
  orlem chat              # open the meeting view
  orlem logs list         # list saved meeting logs
  orlem meetings list     # list meetings recorded by the backend`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the process logger shared by
// every subcommand.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	return cfg, log, nil
}
