package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/orderpilot/orderpilot/internal/classification"
	appconfig "github.com/orderpilot/orderpilot/internal/config"
	"github.com/orderpilot/orderpilot/internal/engine"
	"github.com/orderpilot/orderpilot/internal/model"
	"github.com/orderpilot/orderpilot/internal/notification"
	"github.com/orderpilot/orderpilot/internal/platform"
	"github.com/orderpilot/orderpilot/internal/screen"
	"github.com/orderpilot/orderpilot/internal/storage"
)

// openStore opens (and migrates) the sqlite store from configuration.
func openStore(ctx context.Context) (*storage.SQLiteStore, error) {
	cfg := appconfig.Load(viper.GetViper())

	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate storage: %w", err)
	}

	return store, nil
}

// buildCoordinator assembles the full pipeline over the given store.
// With dryRun set, accept actions are logged instead of dispatched.
func buildCoordinator(store *storage.SQLiteStore, dryRun bool) (*engine.Coordinator, error) {
	cfg := appconfig.Load(viper.GetViper())

	extractor, err := notification.NewExtractor(notification.DefaultPatterns())
	if err != nil {
		return nil, fmt.Errorf("failed to build extractor: %w", err)
	}

	deps := engine.Deps{
		Resolver:    platform.NewResolver(),
		Extractor:   extractor,
		Classifier:  classification.NewClassifier(cfg.Thresholds),
		Prioritizer: classification.NewPrioritizer(cfg.Tiers, store),
		Matcher:     screen.NewMatcher(cfg.Matcher, nil),
		Store:       store,
		Actuator:    logActuator{dryRun: dryRun},
		Launcher:    logLauncher{},
		Analytics:   store,
	}

	return engine.New(deps, cfg.Coordinator), nil
}

// logActuator stands in for the host's accessibility actuator when the
// engine runs outside a device: it logs the tap it would perform.
type logActuator struct {
	dryRun bool
}

func (a logActuator) Activate(_ context.Context, node *model.UINode) (bool, error) {
	slog.Info("Activating control",
		"text", node.Text,
		"resource_id", node.ResourceID,
		"dry_run", a.dryRun)
	return true, nil
}

// logLauncher logs foreground launches instead of performing them.
type logLauncher struct{}

func (logLauncher) Launch(_ context.Context, p model.Platform) (bool, error) {
	slog.Debug("Bringing app to foreground", "platform", p)
	return true, nil
}
