package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpilot/orderpilot/internal/model"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	extractor, err := NewExtractor(DefaultPatterns())
	require.NoError(t, err)
	return extractor
}

func TestExtractor_Extract(t *testing.T) {
	extractor := newTestExtractor(t)
	observedAt := time.Date(2025, 6, 14, 19, 30, 0, 0, time.UTC)

	floatPtr := func(f float64) *float64 { return &f }
	intPtr := func(i int) *int { return &i }

	tests := []struct {
		name         string
		platform     model.Platform
		title        string
		body         string
		wantOK       bool
		wantAmount   float64
		wantDistance *float64
		wantTime     *int
	}{
		{
			name:         "swiggy order with distance and time",
			platform:     model.PlatformSwiggy,
			title:        "New Order: ₹150",
			body:         "Pickup from Restaurant A, 3.5 km away, estimated time 25 min",
			wantOK:       true,
			wantAmount:   150.0,
			wantDistance: floatPtr(3.5),
			wantTime:     intPtr(25),
		},
		{
			name:       "swiggy amount only",
			platform:   model.PlatformSwiggy,
			title:      "New order",
			body:       "Earn ₹85 on this delivery",
			wantOK:     true,
			wantAmount: 85.0,
		},
		{
			name:       "thousand separator normalized",
			platform:   model.PlatformZomato,
			title:      "Big order",
			body:       "Earnings ₹1,250.50 for this batch",
			wantOK:     true,
			wantAmount: 1250.50,
		},
		{
			name:         "ubereats dollars with miles converted to km",
			platform:     model.PlatformUberEats,
			title:        "New delivery request",
			body:         "$12.50 estimated, 2 miles away, 15 min total",
			wantOK:       true,
			wantAmount:   12.50,
			wantDistance: floatPtr(2 * 1.60934),
			wantTime:     intPtr(15),
		},
		{
			name:       "doordash guaranteed amount preferred",
			platform:   model.PlatformDoorDash,
			title:      "Order available",
			body:       "Guaranteed $9.75 for this delivery",
			wantOK:     true,
			wantAmount: 9.75,
		},
		{
			name:     "no amount means not an order",
			platform: model.PlatformSwiggy,
			title:    "Swiggy",
			body:     "Your account has been updated",
			wantOK:   false,
		},
		{
			name:     "distance and time without amount still not an order",
			platform: model.PlatformSwiggy,
			title:    "Trip summary",
			body:     "You rode 3.5 km in 25 min today",
			wantOK:   false,
		},
		{
			name:     "unknown platform short-circuits",
			platform: model.Platform("nonexistent"),
			title:    "New Order: ₹150",
			body:     "Pickup nearby",
			wantOK:   false,
		},
		{
			name:     "empty text",
			platform: model.PlatformZepto,
			title:    "",
			body:     "",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal, ok := extractor.Extract(tt.platform, tt.title, tt.body, observedAt)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}

			assert.Equal(t, tt.platform, signal.Platform)
			assert.Equal(t, tt.wantAmount, signal.Amount)
			assert.Equal(t, observedAt, signal.ObservedAt)
			assert.NotEmpty(t, signal.ID)
			assert.True(t, signal.Actionable())

			if tt.wantDistance != nil {
				require.NotNil(t, signal.DistanceKm)
				assert.InDelta(t, *tt.wantDistance, *signal.DistanceKm, 0.0001)
			} else {
				assert.Nil(t, signal.DistanceKm)
			}

			if tt.wantTime != nil {
				require.NotNil(t, signal.TimeMinutes)
				assert.Equal(t, *tt.wantTime, *signal.TimeMinutes)
			} else {
				assert.Nil(t, signal.TimeMinutes)
			}
		})
	}
}

func TestExtractor_Deterministic(t *testing.T) {
	extractor := newTestExtractor(t)
	observedAt := time.Now()

	first, ok := extractor.Extract(model.PlatformSwiggy,
		"New Order: ₹150", "Pickup from Restaurant A, 3.5 km away, estimated time 25 min", observedAt)
	require.True(t, ok)

	for i := 0; i < 10; i++ {
		signal, ok := extractor.Extract(model.PlatformSwiggy,
			"New Order: ₹150", "Pickup from Restaurant A, 3.5 km away, estimated time 25 min", observedAt)
		require.True(t, ok)
		// The whole signal, id included, must be identical call to call.
		assert.Equal(t, first, signal)
	}

	// A different notification must not collide.
	other, ok := extractor.Extract(model.PlatformSwiggy,
		"New Order: ₹151", "Pickup from Restaurant A, 3.5 km away, estimated time 25 min", observedAt)
	require.True(t, ok)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestNewExtractor_RejectsBadPattern(t *testing.T) {
	_, err := NewExtractor(map[model.Platform]PatternSet{
		model.PlatformSwiggy: {Amount: []string{`((unclosed`}},
	})
	assert.Error(t, err)
}
