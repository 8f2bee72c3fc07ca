// Package config loads pipeline configuration through viper, with every
// tunable defaulted so a missing config file still yields a working
// engine.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/orderpilot/orderpilot/internal/classification"
	"github.com/orderpilot/orderpilot/internal/engine"
	"github.com/orderpilot/orderpilot/internal/model"
	"github.com/orderpilot/orderpilot/internal/screen"
	"github.com/orderpilot/orderpilot/internal/service"
)

// Config carries the assembled per-component configuration.
type Config struct {
	DatabasePath string
	Thresholds   classification.Thresholds
	Tiers        classification.TierThresholds
	Weights      model.UserWeights
	Matcher      screen.Config
	Coordinator  engine.Config
}

// SetDefaults installs the default value for every key. The numeric
// defaults mirror the shipped policy; changing tier cutoffs is a
// versioned decision, not a config tweak.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "~/.local/share/orderpilot/orderpilot.db")

	v.SetDefault("classifier.earning_high", 200.0)
	v.SetDefault("classifier.earning_medium", 100.0)
	v.SetDefault("classifier.low_value", 50.0)
	v.SetDefault("classifier.distance_near_km", 2.0)
	v.SetDefault("classifier.distance_far_km", 5.0)
	v.SetDefault("classifier.busy_start_hour", 18)
	v.SetDefault("classifier.busy_end_hour", 23)

	v.SetDefault("priority.tier_high", 0.7)
	v.SetDefault("priority.tier_medium", 0.4)
	v.SetDefault("priority.weight_earnings", 0.5)
	v.SetDefault("priority.weight_distance", 0.3)
	v.SetDefault("priority.weight_time", 0.2)

	v.SetDefault("matcher.cache_window", 500*time.Millisecond)
	v.SetDefault("matcher.max_traversal", 500)
	v.SetDefault("matcher.confirm_max_depth", 6)
	v.SetDefault("matcher.visual_confidence", 0.75)

	v.SetDefault("coordinator.min_interval", time.Second)
	v.SetDefault("coordinator.locate_budget", 2*time.Second)
	v.SetDefault("coordinator.confirm_budget", 3*time.Second)
	v.SetDefault("coordinator.dispatch_delay", 500*time.Millisecond)
	v.SetDefault("coordinator.screen_staleness", 2*time.Second)
	v.SetDefault("coordinator.confirm_attempts", 3)
	v.SetDefault("coordinator.retry_attempts", 3)
}

// Load assembles the typed configuration from a viper instance that has
// had SetDefaults applied and any config file merged in.
func Load(v *viper.Viper) Config {
	return Config{
		DatabasePath: ExpandPath(v.GetString("database.path")),
		Thresholds: classification.Thresholds{
			EarningHigh:   v.GetFloat64("classifier.earning_high"),
			EarningMedium: v.GetFloat64("classifier.earning_medium"),
			LowValue:      v.GetFloat64("classifier.low_value"),
			DistanceNear:  v.GetFloat64("classifier.distance_near_km"),
			DistanceFar:   v.GetFloat64("classifier.distance_far_km"),
			BusyStartHour: v.GetInt("classifier.busy_start_hour"),
			BusyEndHour:   v.GetInt("classifier.busy_end_hour"),
		},
		Tiers: classification.TierThresholds{
			High:   v.GetFloat64("priority.tier_high"),
			Medium: v.GetFloat64("priority.tier_medium"),
		},
		Weights: model.UserWeights{
			Earnings: v.GetFloat64("priority.weight_earnings"),
			Distance: v.GetFloat64("priority.weight_distance"),
			Time:     v.GetFloat64("priority.weight_time"),
		},
		Matcher: screen.Config{
			CacheWindow:      v.GetDuration("matcher.cache_window"),
			MaxTraversal:     v.GetInt("matcher.max_traversal"),
			ConfirmMaxDepth:  v.GetInt("matcher.confirm_max_depth"),
			VisualConfidence: v.GetFloat64("matcher.visual_confidence"),
		},
		Coordinator: engine.Config{
			MinInterval:     v.GetDuration("coordinator.min_interval"),
			LocateBudget:    v.GetDuration("coordinator.locate_budget"),
			ConfirmBudget:   v.GetDuration("coordinator.confirm_budget"),
			DispatchDelay:   v.GetDuration("coordinator.dispatch_delay"),
			ScreenStaleness: v.GetDuration("coordinator.screen_staleness"),
			ConfirmAttempts: v.GetInt("coordinator.confirm_attempts"),
			Retry: service.RetryOptions{
				MaxAttempts: v.GetInt("coordinator.retry_attempts"),
			},
			Weights: model.UserWeights{
				Earnings: v.GetFloat64("priority.weight_earnings"),
				Distance: v.GetFloat64("priority.weight_distance"),
				Time:     v.GetFloat64("priority.weight_time"),
			},
		},
	}
}
