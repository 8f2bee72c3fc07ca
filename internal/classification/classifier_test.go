package classification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpilot/orderpilot/internal/model"
)

func testSignal(amount float64, observedAt time.Time) model.OrderSignal {
	signal := model.NewOrderSignal(model.PlatformSwiggy, "New Order", "Pickup nearby", observedAt)
	signal.Amount = amount
	return signal
}

// A Tuesday morning, well outside the busy window.
var offPeak = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

func TestClassifier_EarningMonotonicInAmount(t *testing.T) {
	classifier := NewClassifier(DefaultThresholds())

	amounts := []float64{0, 10, 49.99, 50, 99.99, 100, 150, 199.99, 200, 500, 10000}

	previous := -1.0
	for _, amount := range amounts {
		result := classifier.Classify(testSignal(amount, offPeak))
		weight := result.Weight(model.LabelHighEarning)
		assert.GreaterOrEqual(t, weight, previous,
			"HIGH_EARNING weight must not decrease as amount grows (amount=%v)", amount)
		previous = weight
	}
}

func TestClassifier_DistanceWeights(t *testing.T) {
	classifier := NewClassifier(DefaultThresholds())
	floatPtr := func(f float64) *float64 { return &f }

	tests := []struct {
		name     string
		distance *float64
		want     float64
	}{
		{name: "near", distance: floatPtr(1.0), want: 0.9},
		{name: "medium", distance: floatPtr(3.5), want: 0.5},
		{name: "far", distance: floatPtr(10.0), want: 0.2},
		{name: "unset distance gets neutral default", distance: nil, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := testSignal(100, offPeak)
			signal.DistanceKm = tt.distance
			result := classifier.Classify(signal)
			assert.Equal(t, tt.want, result.Weight(model.LabelLowDistance))
		})
	}
}

func TestClassifier_BusyTime(t *testing.T) {
	classifier := NewClassifier(DefaultThresholds())

	// In UTC the local conversion is identity under TZ-less test runs;
	// use distinct weekday/hour combinations either side of the window.
	weekdayEvening := time.Date(2025, 6, 10, 19, 30, 0, 0, time.Local)
	weekdayMorning := time.Date(2025, 6, 10, 9, 0, 0, 0, time.Local)
	saturdayMorning := time.Date(2025, 6, 14, 9, 0, 0, 0, time.Local)

	evening := classifier.Classify(testSignal(100, weekdayEvening))
	morning := classifier.Classify(testSignal(100, weekdayMorning))
	weekend := classifier.Classify(testSignal(100, saturdayMorning))

	assert.Greater(t, evening.Weight(model.LabelBusyTime), morning.Weight(model.LabelBusyTime))
	assert.Greater(t, weekend.Weight(model.LabelBusyTime), morning.Weight(model.LabelBusyTime))
}

func TestClassifier_LowPriorityDampener(t *testing.T) {
	classifier := NewClassifier(DefaultThresholds())

	low := classifier.Classify(testSignal(20, offPeak))
	high := classifier.Classify(testSignal(300, offPeak))

	assert.Equal(t, 0.8, low.Weight(model.LabelLowPriority))
	assert.Equal(t, 0.0, high.Weight(model.LabelLowPriority))
}

func TestClassifier_AlwaysContainsStandard(t *testing.T) {
	classifier := NewClassifier(DefaultThresholds())

	result := classifier.Classify(model.OrderSignal{})
	require.NotNil(t, result.Weights)
	assert.Equal(t, 1.0, result.Weight(model.LabelStandard))
}
