package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpilot/orderpilot/internal/common"
	"github.com/orderpilot/orderpilot/internal/model"
	"github.com/orderpilot/orderpilot/internal/platform"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "orderpilot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestSQLiteStore_ProfileRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	profile := &model.PlatformProfile{
		Platform:           model.PlatformSwiggy,
		PackageIdentifiers: []string{"in.swiggy.deliveryapp", "in.swiggy.android.delivery"},
		IsEnabled:          true,
		AutoAcceptEnabled:  true,
		MinimumAmount:      120,
		PriorityWeight:     1.5,
	}
	require.NoError(t, store.SaveProfile(ctx, profile))

	got, err := store.GetProfile(ctx, model.PlatformSwiggy)
	require.NoError(t, err)
	assert.Equal(t, profile.Platform, got.Platform)
	assert.Equal(t, profile.PackageIdentifiers, got.PackageIdentifiers)
	assert.True(t, got.IsEnabled)
	assert.True(t, got.AutoAcceptEnabled)
	assert.Equal(t, 120.0, got.MinimumAmount)
	assert.Equal(t, 1.5, got.PriorityWeight)
	assert.False(t, got.ShouldRemove)
}

func TestSQLiteStore_GetProfileMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetProfile(context.Background(), model.PlatformZepto)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSQLiteStore_SaveProfileUpdatesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	profile := &model.PlatformProfile{Platform: model.PlatformZomato, IsEnabled: true}
	require.NoError(t, store.SaveProfile(ctx, profile))

	profile.MinimumAmount = 90
	profile.AutoAcceptEnabled = true
	require.NoError(t, store.SaveProfile(ctx, profile))

	got, err := store.GetProfile(ctx, model.PlatformZomato)
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.MinimumAmount)
	assert.True(t, got.AutoAcceptEnabled)

	profiles, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestSQLiteStore_SaveProfileRejectsEmpty(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.SaveProfile(context.Background(), nil))
	assert.Error(t, store.SaveProfile(context.Background(), &model.PlatformProfile{}))
}

func TestSQLiteStore_SeedDefaultProfiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	resolver := platform.NewResolver()

	require.NoError(t, store.SeedDefaultProfiles(ctx, resolver.Packages))

	profiles, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, len(model.AllPlatforms()))

	for _, profile := range profiles {
		assert.True(t, profile.IsEnabled)
		assert.False(t, profile.AutoAcceptEnabled, "auto-accept must default off")
		assert.NotEmpty(t, profile.PackageIdentifiers)
	}

	// Seeding again must not overwrite user edits.
	edited, err := store.GetProfile(ctx, model.PlatformSwiggy)
	require.NoError(t, err)
	edited.MinimumAmount = 75
	require.NoError(t, store.SaveProfile(ctx, edited))

	require.NoError(t, store.SeedDefaultProfiles(ctx, resolver.Packages))
	got, err := store.GetProfile(ctx, model.PlatformSwiggy)
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.MinimumAmount)
}

func TestSQLiteStore_FeedbackLog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, "sig-1", model.TierHigh))
	require.NoError(t, store.Record(ctx, "sig-2", model.TierLow))

	entries, err := store.ListFeedback(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byID := make(map[string]model.Tier)
	for _, entry := range entries {
		byID[entry.SignalID] = entry.Assigned
	}
	assert.Equal(t, model.TierHigh, byID["sig-1"])
	assert.Equal(t, model.TierLow, byID["sig-2"])
}

func TestSQLiteStore_AcceptedOrderStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.RecordAcceptedOrder(ctx, model.PlatformSwiggy, 150, now))
	require.NoError(t, store.RecordAcceptedOrder(ctx, model.PlatformSwiggy, 85.5, now))
	require.NoError(t, store.RecordAcceptedOrder(ctx, model.PlatformZomato, 210, now))

	stats, err := store.AcceptedOrderStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byPlatform := make(map[model.Platform]PlatformStats)
	for _, st := range stats {
		byPlatform[st.Platform] = st
	}
	assert.Equal(t, 2, byPlatform[model.PlatformSwiggy].Count)
	assert.InDelta(t, 235.5, byPlatform[model.PlatformSwiggy].TotalAmount, 0.0001)
	assert.Equal(t, 1, byPlatform[model.PlatformZomato].Count)
}
