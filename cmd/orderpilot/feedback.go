package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orderpilot/orderpilot/internal/model"
)

func feedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Record and inspect priority corrections",
	}

	cmd.AddCommand(feedbackRecordCmd())
	cmd.AddCommand(feedbackListCmd())

	return cmd
}

func feedbackRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <signal-id> <HIGH|MEDIUM|LOW>",
		Short: "Record a priority correction for a signal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier := model.Tier(strings.ToUpper(args[1]))
			switch tier {
			case model.TierHigh, model.TierMedium, model.TierLow:
			default:
				return fmt.Errorf("invalid tier %q: want HIGH, MEDIUM, or LOW", args[1])
			}

			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Record(cmd.Context(), args[0], tier); err != nil {
				return err
			}

			fmt.Println("feedback recorded")
			return nil
		},
	}
}

func feedbackListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded priority corrections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.ListFeedback(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("no feedback recorded")
				return nil
			}

			for _, entry := range entries {
				fmt.Printf("%s  %-6s  %s\n",
					entry.RecordedAt.Format("2006-01-02 15:04:05"),
					entry.Assigned,
					entry.SignalID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")

	return cmd
}
