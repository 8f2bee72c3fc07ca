package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orderpilot/orderpilot/internal/classification"
	appconfig "github.com/orderpilot/orderpilot/internal/config"
	"github.com/orderpilot/orderpilot/internal/model"
	"github.com/orderpilot/orderpilot/internal/notification"
	"github.com/orderpilot/orderpilot/internal/platform"
)

// replayCmd runs a captured notification log through the extraction and
// prioritization stages offline and reports per-tier counts. No accept
// actions are dispatched; replay is a tuning aid.
func replayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <events.jsonl>",
		Short: "Replay a captured event log through the decision pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runReplay(args[0])
		},
	}

	return cmd
}

func runReplay(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer func() { _ = file.Close() }()

	lines, err := countLines(file)
	if err != nil {
		return err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to rewind event log: %w", err)
	}

	cfg := appconfig.Load(viper.GetViper())
	resolver := platform.NewResolver()
	extractor, err := notification.NewExtractor(notification.DefaultPatterns())
	if err != nil {
		return fmt.Errorf("failed to build extractor: %w", err)
	}
	classifier := classification.NewClassifier(cfg.Thresholds)
	prioritizer := classification.NewPrioritizer(cfg.Tiers, nil)

	bar := progressbar.NewOptions(lines,
		progressbar.OptionSetDescription("replaying events"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish())

	tierCounts := make(map[model.Tier]int)
	var notOrders, unsupported int

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		_ = bar.Add(1)

		var rec eventRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if rec.Type == "screen" {
			continue
		}

		p, ok := resolver.Resolve(rec.Package)
		if !ok {
			unsupported++
			continue
		}

		signal, ok := extractor.Extract(p, rec.Title, rec.Body, time.UnixMilli(rec.TimestampMillis))
		if !ok {
			notOrders++
			continue
		}

		result := classifier.Classify(signal)
		decision := prioritizer.Score(signal.ID, result, cfg.Weights)
		tierCounts[decision.Tier]++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read event log: %w", err)
	}

	fmt.Printf("\nReplay summary:\n")
	fmt.Printf("  HIGH:        %d\n", tierCounts[model.TierHigh])
	fmt.Printf("  MEDIUM:      %d\n", tierCounts[model.TierMedium])
	fmt.Printf("  LOW:         %d\n", tierCounts[model.TierLow])
	fmt.Printf("  not orders:  %d\n", notOrders)
	fmt.Printf("  unsupported: %d\n", unsupported)

	return nil
}

func countLines(file *os.File) (int, error) {
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	count := 0
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}
