// Package classification scores order signals against categorical
// features and turns the resulting weights into a priority decision.
package classification

import (
	"time"

	"github.com/orderpilot/orderpilot/internal/model"
)

// Thresholds configures the classifier's cutoffs. Values are currency
// units for amounts, kilometers for distances, and local hours for the
// busy window.
type Thresholds struct {
	EarningHigh   float64
	EarningMedium float64
	LowValue      float64
	DistanceNear  float64
	DistanceFar   float64
	BusyStartHour int
	BusyEndHour   int
}

// DefaultThresholds returns the stock cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EarningHigh:   200,
		EarningMedium: 100,
		LowValue:      50,
		DistanceNear:  2.0,
		DistanceFar:   5.0,
		BusyStartHour: 18,
		BusyEndHour:   23,
	}
}

// Classifier assigns confidence weights to the fixed label set for one
// signal. It never fails: any internal fault degrades to the STANDARD
// fallback result.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(thresholds Thresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// Classify scores a signal. The result always contains STANDARD; other
// labels carry weights in [0,1].
func (c *Classifier) Classify(signal model.OrderSignal) (result model.ClassificationResult) {
	result = model.NewClassificationResult()

	defer func() {
		if r := recover(); r != nil {
			result = model.NewClassificationResult()
		}
	}()

	result.Weights[model.LabelHighEarning] = c.earningWeight(signal.Amount)
	result.Weights[model.LabelLowDistance] = c.distanceWeight(signal.DistanceKm)
	result.Weights[model.LabelBusyTime] = c.busyTimeWeight(signal.ObservedAt)
	result.Weights[model.LabelLowPriority] = c.lowPriorityWeight(signal.Amount)

	return result
}

// earningWeight is a three-tier step on amount. Monotonic: a higher
// amount never yields a lower weight.
func (c *Classifier) earningWeight(amount float64) float64 {
	switch {
	case amount >= c.thresholds.EarningHigh:
		return 0.9
	case amount >= c.thresholds.EarningMedium:
		return 0.6
	default:
		return 0.3
	}
}

// distanceWeight decreases as distance grows. An unset distance gets a
// neutral default rather than an error.
func (c *Classifier) distanceWeight(distanceKm *float64) float64 {
	if distanceKm == nil {
		return 0.5
	}
	switch {
	case *distanceKm <= c.thresholds.DistanceNear:
		return 0.9
	case *distanceKm <= c.thresholds.DistanceFar:
		return 0.5
	default:
		return 0.2
	}
}

// busyTimeWeight raises BUSY_TIME during the configured evening window
// and on weekends, evaluated against the signal's capture time.
func (c *Classifier) busyTimeWeight(observedAt time.Time) float64 {
	local := observedAt.Local()
	hour := local.Hour()

	busy := hour >= c.thresholds.BusyStartHour && hour <= c.thresholds.BusyEndHour
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		busy = true
	}

	if busy {
		return 0.8
	}
	return 0.3
}

// lowPriorityWeight dampens signals below the low-value cutoff.
func (c *Classifier) lowPriorityWeight(amount float64) float64 {
	if amount < c.thresholds.LowValue {
		return 0.8
	}
	return 0
}
