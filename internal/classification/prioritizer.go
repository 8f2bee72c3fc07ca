package classification

import (
	"context"
	"log/slog"

	"github.com/orderpilot/orderpilot/internal/model"
	"github.com/orderpilot/orderpilot/internal/service"
)

// TierThresholds are the score cutoffs for the priority tiers. Changing
// them is a versioned policy decision, not a silent tweak.
type TierThresholds struct {
	High   float64
	Medium float64
}

// DefaultTierThresholds returns the stock tier cutoffs.
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{High: 0.7, Medium: 0.4}
}

// lowPriorityPenalty scales the LOW_PRIORITY dampener in the score.
const lowPriorityPenalty = 0.5

// Prioritizer combines classification weights with user importance
// weights into a single priority tier. It never fails: malformed input
// degrades to a conservative MEDIUM.
type Prioritizer struct {
	feedback   service.FeedbackLog
	thresholds TierThresholds
}

// NewPrioritizer creates a prioritizer. The feedback log may be nil when
// no durable feedback capture is wired.
func NewPrioritizer(thresholds TierThresholds, feedback service.FeedbackLog) *Prioritizer {
	return &Prioritizer{thresholds: thresholds, feedback: feedback}
}

// Score computes the weighted score and maps it to a tier. Weights are
// trusted as-is; missing labels contribute zero.
func (p *Prioritizer) Score(signalID string, classification model.ClassificationResult, weights model.UserWeights) (decision model.PriorityDecision) {
	decision = model.PriorityDecision{SignalID: signalID, Tier: model.TierMedium}

	defer func() {
		if r := recover(); r != nil {
			decision = model.PriorityDecision{SignalID: signalID, Tier: model.TierMedium}
		}
	}()

	score := weights.Earnings*classification.Weight(model.LabelHighEarning) +
		weights.Distance*classification.Weight(model.LabelLowDistance) +
		weights.Time*classification.Weight(model.LabelBusyTime) -
		lowPriorityPenalty*classification.Weight(model.LabelLowPriority)

	decision.Score = score

	switch {
	case score >= p.thresholds.High:
		decision.Tier = model.TierHigh
	case score >= p.thresholds.Medium:
		decision.Tier = model.TierMedium
	default:
		decision.Tier = model.TierLow
	}

	return decision
}

// RecordFeedback captures a user priority correction for an external
// learning process. Failures are logged, never surfaced: feedback is
// best-effort observability, not part of the decision path.
func (p *Prioritizer) RecordFeedback(ctx context.Context, signalID string, assigned model.Tier) {
	if p.feedback == nil {
		return
	}
	if err := p.feedback.Record(ctx, signalID, assigned); err != nil {
		slog.Warn("Failed to record priority feedback",
			"signal_id", signalID,
			"assigned", assigned,
			"error", err)
	}
}
