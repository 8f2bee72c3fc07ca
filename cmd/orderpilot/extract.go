package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orderpilot/orderpilot/internal/model"
	"github.com/orderpilot/orderpilot/internal/notification"
)

// extractCmd runs the extractor once on supplied text, for debugging
// platform pattern coverage.
func extractCmd() *cobra.Command {
	var platformName, title, body string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract an order signal from notification text",
		RunE: func(_ *cobra.Command, _ []string) error {
			extractor, err := notification.NewExtractor(notification.DefaultPatterns())
			if err != nil {
				return fmt.Errorf("failed to build extractor: %w", err)
			}

			signal, ok := extractor.Extract(model.Platform(platformName), title, body, time.Now())
			if !ok {
				fmt.Println("not an order")
				return nil
			}

			fmt.Printf("platform: %s\n", signal.Platform)
			fmt.Printf("amount:   %.2f\n", signal.Amount)
			if signal.DistanceKm != nil {
				fmt.Printf("distance: %.2f km\n", *signal.DistanceKm)
			}
			if signal.TimeMinutes != nil {
				fmt.Printf("time:     %d min\n", *signal.TimeMinutes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "canonical platform id")
	cmd.Flags().StringVar(&title, "title", "", "notification title")
	cmd.Flags().StringVar(&body, "body", "", "notification body")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}
