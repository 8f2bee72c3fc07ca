package model

// Label is one categorical feature the classifier scores a signal against.
type Label string

// The fixed label set. STANDARD is always present as a fallback;
// LOW_PRIORITY acts as a dampener on the final score, not as a tier.
const (
	LabelHighEarning Label = "HIGH_EARNING"
	LabelLowDistance Label = "LOW_DISTANCE"
	LabelBusyTime    Label = "BUSY_TIME"
	LabelStandard    Label = "STANDARD"
	LabelLowPriority Label = "LOW_PRIORITY"
)

// ClassificationResult maps labels to confidence weights in [0,1].
type ClassificationResult struct {
	Weights map[Label]float64
}

// NewClassificationResult returns a result containing only the STANDARD
// fallback label. Classifier failures degrade to exactly this value.
func NewClassificationResult() ClassificationResult {
	return ClassificationResult{
		Weights: map[Label]float64{LabelStandard: 1.0},
	}
}

// Weight returns the confidence for a label, or 0 when absent.
func (r ClassificationResult) Weight(label Label) float64 {
	if r.Weights == nil {
		return 0
	}
	return r.Weights[label]
}

// Tier is the final priority bucket for a signal.
type Tier string

// Priority tiers, highest first.
const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// UserWeights are the caller-supplied importance weights combined with
// classification confidences. They are trusted as-is; by convention they
// sum to 1.0 but this is not enforced.
type UserWeights struct {
	Earnings float64
	Distance float64
	Time     float64
}

// DefaultUserWeights returns the stock weighting.
func DefaultUserWeights() UserWeights {
	return UserWeights{Earnings: 0.5, Distance: 0.3, Time: 0.2}
}

// PriorityDecision is the scored outcome for one signal.
type PriorityDecision struct {
	SignalID string
	Tier     Tier
	Score    float64
}
