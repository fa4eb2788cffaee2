/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// meetingsCmd represents the meetings command
var meetingsCmd = &cobra.Command{
	Use:   "meetings",
	Short: "Inspect meetings recorded by the backend",
}

var meetingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded meetings",
	RunE: func(cmd *cobra.Command, args []string) error {
		hub, ctx, cancel, err := hubClient()
		if err != nil {
			return err
		}
		defer cancel()

		meetings, err := hub.Meetings(ctx)
		if err != nil {
			return err
		}
		if len(meetings) == 0 {
			fmt.Println("Nenhuma reunião registrada.")
			return nil
		}
		for _, meeting := range meetings {
			fmt.Printf("%d\t%s\t%s\n", meeting.ID, meeting.CreatedAt, meeting.Title)
		}
		return nil
	},
}

var meetingsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the messages of one meeting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid meeting id %q", args[0])
		}

		hub, ctx, cancel, err := hubClient()
		if err != nil {
			return err
		}
		defer cancel()

		records, err := hub.MeetingMessages(ctx, id)
		if err != nil {
			return err
		}
		for _, record := range records {
			fmt.Printf("[%s] %s\n", record.Role, record.Content)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(meetingsCmd)
	meetingsCmd.AddCommand(meetingsListCmd)
	meetingsCmd.AddCommand(meetingsShowCmd)
}
