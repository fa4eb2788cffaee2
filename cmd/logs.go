/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"orlem/pkg/api"

	"github.com/spf13/cobra"
)

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect saved meeting logs on the backend",
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved meeting log files",
	RunE: func(cmd *cobra.Command, args []string) error {
		hub, ctx, cancel, err := hubClient()
		if err != nil {
			return err
		}
		defer cancel()

		names, err := hub.Logs(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("Nenhum log salvo.")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var logsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print the records of one meeting log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hub, ctx, cancel, err := hubClient()
		if err != nil {
			return err
		}
		defer cancel()

		records, err := hub.LogRecords(ctx, args[0])
		if err != nil {
			return err
		}
		for _, record := range records {
			fmt.Printf("[%s] %s\n", record.Role, record.Content)
		}
		return nil
	},
}

var logsRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a saved meeting log",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		hub, ctx, cancel, err := hubClient()
		if err != nil {
			return err
		}
		defer cancel()

		name, err := hub.RenameLog(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Renomeado para %s\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsListCmd)
	logsCmd.AddCommand(logsShowCmd)
	logsCmd.AddCommand(logsRenameCmd)
}

// hubClient builds the backend API client for one-shot subcommands.
func hubClient() (*api.Client, context.Context, context.CancelFunc, error) {
	cfg, log, err := bootstrap()
	if err != nil {
		return nil, nil, nil, err
	}

	timeout := time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second
	hub, err := api.New(cfg.Server.BaseURL, timeout, log)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	return hub, ctx, cancel, nil
}
