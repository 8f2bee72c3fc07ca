package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/orderpilot/orderpilot/internal/common"
	"github.com/orderpilot/orderpilot/internal/model"
	"github.com/orderpilot/orderpilot/internal/service"
)

// state names the acceptance state machine's positions. Every non-idle
// state carries a wall-clock budget enforced through context deadlines.
type state string

const (
	stateIdle             state = "IDLE"
	stateSignalReceived   state = "SIGNAL_RECEIVED"
	stateGatingCheck      state = "GATING_CHECK"
	stateLocatingControl  state = "LOCATING_CONTROL"
	stateActionDispatched state = "ACTION_DISPATCHED"
	stateConfirmationWait state = "CONFIRMATION_WAIT"
	stateSucceeded        state = "SUCCEEDED"
	stateFailed           state = "FAILED"
)

// noopWakeLock is the default when no wake lock is wired.
type noopWakeLock struct{}

func (noopWakeLock) Acquire() {}
func (noopWakeLock) Release() {}

// processSignal runs one acceptance attempt end to end and returns its
// terminal outcome. Attempts never propagate errors: every failure path
// logs and lands back at idle.
func (c *Coordinator) processSignal(w *platformWorker, signal model.OrderSignal) model.AttemptOutcome {
	attempt := model.AcceptanceAttempt{
		Platform:  w.platform,
		Signal:    signal,
		Outcome:   model.OutcomePending,
		StartedAt: time.Now(),
	}
	current := stateSignalReceived

	transition := func(next state) {
		slog.Debug("Attempt transition",
			"platform", w.platform,
			"signal_id", signal.ID,
			"from", current,
			"to", next)
		current = next
	}

	// SIGNAL_RECEIVED -> GATING_CHECK, always.
	transition(stateGatingCheck)
	if err := c.gate(w, signal); err != nil {
		slog.Info("Signal gated out",
			"platform", w.platform,
			"signal_id", signal.ID,
			"last_outcome", w.lastOutcome,
			"reason", err)
		attempt.Outcome = model.OutcomeAbandoned
		transition(stateIdle)
		return attempt.Outcome
	}
	w.lastProcessed = time.Now()

	// Score the signal so the decision is recorded even when the accept
	// action later fails.
	result := c.deps.Classifier.Classify(signal)
	decision := c.deps.Prioritizer.Score(signal.ID, result, c.config.Weights)
	slog.Info("Processing order signal",
		"platform", w.platform,
		"signal_id", signal.ID,
		"amount", signal.Amount,
		"tier", decision.Tier,
		"score", decision.Score)

	// The device must stay awake from here until the attempt resolves.
	c.deps.WakeLock.Acquire()
	defer c.deps.WakeLock.Release()

	// LOCATING_CONTROL, bounded.
	transition(stateLocatingControl)
	node, err := c.locateControl(w)
	if err != nil {
		slog.Warn("No accept control located",
			"platform", w.platform,
			"signal_id", signal.ID,
			"error", err)
		attempt.Outcome = model.OutcomeFailed
		transition(stateFailed)
		transition(stateIdle)
		return attempt.Outcome
	}

	// ACTION_DISPATCHED.
	transition(stateActionDispatched)
	attempt.LastAction = time.Now()
	if err := c.dispatch(node, &attempt); err != nil {
		slog.Warn("Accept action failed",
			"platform", w.platform,
			"signal_id", signal.ID,
			"retries", attempt.Retries,
			"error", err)
		attempt.Outcome = model.OutcomeFailed
		transition(stateFailed)
		transition(stateIdle)
		return attempt.Outcome
	}

	// CONFIRMATION_WAIT, after a short pause for the UI to respond.
	transition(stateConfirmationWait)
	if err := c.resolveConfirmation(w); err != nil {
		slog.Warn("Confirmation dialog unresolved",
			"platform", w.platform,
			"signal_id", signal.ID,
			"error", err)
		attempt.Outcome = model.OutcomeFailed
		transition(stateFailed)
		transition(stateIdle)
		return attempt.Outcome
	}

	attempt.Outcome = model.OutcomeSucceeded
	transition(stateSucceeded)
	c.finishSuccess(w, &attempt)
	transition(stateIdle)
	return attempt.Outcome
}

// gate applies the checks that must pass before any UI side effect:
// profile lookup, enablement, amount threshold, deprecation, and the
// per-platform rate limit.
func (c *Coordinator) gate(w *platformWorker, signal model.OrderSignal) error {
	ctx, cancel := context.WithTimeout(c.ctx, time.Second)
	defer cancel()

	profile, err := c.deps.Store.GetProfile(ctx, w.platform)
	if err != nil || profile == nil {
		// Configuration inconsistency: treated as "do nothing".
		return &common.GateError{Reason: "no platform profile"}
	}

	switch {
	case profile.ShouldRemove:
		return &common.GateError{Reason: "platform deprecated"}
	case !profile.IsEnabled:
		return &common.GateError{Reason: "platform disabled"}
	case !profile.AutoAcceptEnabled:
		return &common.GateError{Reason: "auto-accept disabled"}
	case signal.Amount < profile.MinimumAmount:
		return &common.GateError{Reason: fmt.Sprintf("amount %.2f below minimum %.2f", signal.Amount, profile.MinimumAmount)}
	}

	if !w.lastProcessed.IsZero() && time.Since(w.lastProcessed) < c.config.MinInterval {
		return &common.GateError{Reason: "processed too recently"}
	}

	return nil
}

// locateControl waits for a usable screen snapshot and runs the matcher,
// re-running on each newer snapshot until the locate budget expires.
func (c *Coordinator) locateControl(w *platformWorker) (*model.UINode, error) {
	ctx, cancel := context.WithTimeout(c.ctx, c.config.LocateBudget)
	defer cancel()

	for {
		ev, seen, err := w.screens.await(ctx, c.config.ScreenStaleness)
		if err != nil {
			return nil, common.ErrAttemptTimeout
		}

		if node, found := c.deps.Matcher.LocateAcceptControl(ctx, ev); found {
			return node, nil
		}

		if err := w.screens.awaitNewer(ctx, seen); err != nil {
			return nil, common.ErrControlNotFound
		}
	}
}

// dispatch activates the accept control with bounded retries.
func (c *Coordinator) dispatch(node *model.UINode, attempt *model.AcceptanceAttempt) error {
	ctx, cancel := context.WithTimeout(c.ctx, c.config.LocateBudget)
	defer cancel()

	return common.WithRetry(ctx, func() error {
		attempt.Retries++
		ok, err := c.deps.Actuator.Activate(ctx, node)
		if err != nil {
			return common.NewRetryable(err)
		}
		if !ok {
			return common.NewRetryable(common.ErrActuation)
		}
		return nil
	}, c.config.Retry)
}

// resolveConfirmation handles the optional post-accept dialog. A dialog
// that appears must have its confirm control activated within the
// bounded attempt count; a dialog that never appears is an implicit
// success since the accept action had no further step.
func (c *Coordinator) resolveConfirmation(w *platformWorker) error {
	select {
	case <-time.After(c.config.DispatchDelay):
	case <-c.ctx.Done():
		return c.ctx.Err()
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.config.ConfirmBudget)
	defer cancel()

	interval := c.config.ConfirmBudget / time.Duration(c.config.ConfirmAttempts+1)
	dialogSeen := false

	for i := 0; i < c.config.ConfirmAttempts; i++ {
		ev, ok := w.screens.snapshot()
		if ok && c.deps.Matcher.DetectConfirmation(ev) {
			dialogSeen = true
			if confirm := c.deps.Matcher.FindConfirmControl(ev); confirm != nil {
				activated, err := c.deps.Actuator.Activate(ctx, confirm)
				if err == nil && activated {
					return nil
				}
			}
		}

		select {
		case <-ctx.Done():
			return common.ErrAttemptTimeout
		case <-time.After(interval):
		}
	}

	if dialogSeen {
		return errors.New("confirmation dialog present but confirm control not activated")
	}

	// No dialog ever appeared within the wait: the accept action had no
	// further step, so the attempt stands as succeeded.
	return nil
}

// finishSuccess performs the post-accept obligations: best-effort
// foreground launch and the analytics record.
func (c *Coordinator) finishSuccess(w *platformWorker, attempt *model.AcceptanceAttempt) {
	ctx, cancel := context.WithTimeout(c.ctx, time.Second)
	defer cancel()

	if _, err := c.deps.Launcher.Launch(ctx, w.platform); err != nil {
		slog.Debug("Foreground launch failed", "platform", w.platform, "error", err)
	}

	signal := attempt.Signal
	if err := c.deps.Analytics.RecordAcceptedOrder(ctx, w.platform, signal.Amount, signal.ObservedAt); err != nil {
		common.LogStageError("analytics", err, common.Fields{"platform": w.platform})
	}

	slog.Info("Order accepted",
		"platform", w.platform,
		"signal_id", signal.ID,
		"amount", signal.Amount,
		"duration", time.Since(attempt.StartedAt),
		"tap_to_confirm", time.Since(attempt.LastAction))
}

var _ service.WakeLock = noopWakeLock{}
