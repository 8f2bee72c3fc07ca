// Package service defines the interfaces the pipeline consumes and the
// contracts its collaborators implement.
package service

import (
	"context"
	"time"

	"github.com/orderpilot/orderpilot/internal/model"
)

// PlatformStore provides per-platform configuration. Read-only from the
// pipeline's perspective; settings surfaces mutate it elsewhere.
type PlatformStore interface {
	GetProfile(ctx context.Context, platform model.Platform) (*model.PlatformProfile, error)
}

// UIActuator performs the actual click/tap equivalent on a resolved
// control. A false return means the action was dispatched but rejected.
type UIActuator interface {
	Activate(ctx context.Context, node *model.UINode) (bool, error)
}

// ForegroundLauncher brings the originating third-party app to the front.
// Best effort: a failure never invalidates an accept outcome.
type ForegroundLauncher interface {
	Launch(ctx context.Context, platform model.Platform) (bool, error)
}

// AnalyticsSink records orders the pipeline acted on.
type AnalyticsSink interface {
	RecordAcceptedOrder(ctx context.Context, platform model.Platform, amount float64, observedAt time.Time) error
}

// FeedbackLog captures user priority corrections for an external learning
// process. Durable append-only; no online weight mutation happens here.
type FeedbackLog interface {
	Record(ctx context.Context, signalID string, assigned model.Tier) error
}

// WakeLock keeps the device awake around the minimal window needed to
// complete a UI action. Release must be safe to call on every exit path.
type WakeLock interface {
	Acquire()
	Release()
}

// RetryOptions configures retry behavior for actuator dispatch.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
