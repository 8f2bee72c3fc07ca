package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// runCmd streams JSONL host events from stdin through the live pipeline
// until EOF or interrupt. This is the bridge mode for hosts that capture
// notification and accessibility events out-of-process.
func runCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process host events from stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			coordinator, err := buildCoordinator(store, dryRun)
			if err != nil {
				return err
			}
			defer coordinator.Close()

			slog.Info("Pipeline running, reading events from stdin", "dry_run", dryRun)

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

			for scanner.Scan() {
				select {
				case <-ctx.Done():
					return nil
				default:
				}

				line := scanner.Bytes()
				if len(line) == 0 {
					continue
				}

				var rec eventRecord
				if err := json.Unmarshal(line, &rec); err != nil {
					slog.Warn("Skipping malformed event", "error", err)
					continue
				}
				dispatchEvent(coordinator, rec)
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read events: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log accept actions without dispatching them")

	return cmd
}
