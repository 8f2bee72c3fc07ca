package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpilot/orderpilot/internal/model"
)

func TestResolver_Resolve(t *testing.T) {
	resolver := NewResolver()

	tests := []struct {
		name   string
		pkg    string
		want   model.Platform
		wantOK bool
	}{
		{
			name:   "current swiggy package",
			pkg:    "in.swiggy.deliveryapp",
			want:   model.PlatformSwiggy,
			wantOK: true,
		},
		{
			name:   "legacy swiggy package resolves to same platform",
			pkg:    "in.swiggy.android.delivery",
			want:   model.PlatformSwiggy,
			wantOK: true,
		},
		{
			name:   "legacy uber eats package",
			pkg:    "com.ubercab.eats.courier",
			want:   model.PlatformUberEats,
			wantOK: true,
		},
		{
			name:   "case and whitespace normalized",
			pkg:    "  In.Swiggy.DeliveryApp ",
			want:   model.PlatformSwiggy,
			wantOK: true,
		},
		{
			name:   "unknown package",
			pkg:    "com.example.unknown",
			wantOK: false,
		},
		{
			name:   "deprecated platform is unsupported",
			pkg:    "com.dunzo.partner",
			wantOK: false,
		},
		{
			name:   "empty input",
			pkg:    "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolver.Resolve(tt.pkg)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolver_LegacyMatchesCurrent(t *testing.T) {
	resolver := NewResolver()

	// Every legacy identifier must resolve to the same platform as the
	// current one.
	for platform, pkgs := range packageIdentifiers() {
		require.NotEmpty(t, pkgs)
		for _, pkg := range pkgs {
			got, ok := resolver.Resolve(pkg)
			require.True(t, ok, "package %s should resolve", pkg)
			assert.Equal(t, platform, got)
		}
	}
}

func TestControls_FallbackForUnknownPlatform(t *testing.T) {
	set := Controls(model.Platform("nonexistent"))
	assert.NotEmpty(t, set.AcceptTexts)
	assert.NotEmpty(t, set.ConfirmTexts)
}

func TestControls_EveryPlatformHasVocabulary(t *testing.T) {
	for _, p := range model.AllPlatforms() {
		set := Controls(p)
		assert.NotEmpty(t, set.AcceptTexts, "platform %s", p)
		assert.NotEmpty(t, set.ConfirmTexts, "platform %s", p)
	}
}
