/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"orlem/pkg/client"
	"orlem/pkg/ui/chat"

	"github.com/spf13/cobra"
)

var speakFlag bool

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive meeting view",
	Long:  "Connects to the Orlem backend, opens the realtime channel and starts the interactive meeting view with chat, side panels and microphone capture.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("speak") {
			cfg.Audio.Speak = speakFlag
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c, err := client.New(cfg, log)
		if err != nil {
			return fmt.Errorf("start client: %w", err)
		}

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		events, unsubscribe := c.Events(runCtx, 0)
		defer unsubscribe()

		channelDone := make(chan error, 1)
		go func() {
			channelDone <- c.Run(runCtx)
		}()

		uiErr := chat.Run(runCtx, c, events)
		cancel()
		<-channelDone

		return uiErr
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolVar(&speakFlag, "speak", false, "play spoken answers through the configured audio player")
}
