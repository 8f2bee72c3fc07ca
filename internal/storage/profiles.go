package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orderpilot/orderpilot/internal/common"
	"github.com/orderpilot/orderpilot/internal/model"
)

// GetProfile returns the profile for a platform, serving from the cache
// inside its TTL. A missing row returns common.ErrNotFound.
func (s *SQLiteStore) GetProfile(ctx context.Context, platform model.Platform) (*model.PlatformProfile, error) {
	s.cacheMutex.RLock()
	if time.Now().Before(s.cacheExpiry) {
		if profile, ok := s.profileCache[platform]; ok {
			s.cacheMutex.RUnlock()
			return profile, nil
		}
	}
	s.cacheMutex.RUnlock()

	profile, err := s.readProfile(ctx, platform)
	if err != nil {
		return nil, err
	}

	s.cacheMutex.Lock()
	if time.Now().After(s.cacheExpiry) {
		s.profileCache = make(map[model.Platform]*model.PlatformProfile)
		s.cacheExpiry = time.Now().Add(profileCacheTTL)
	}
	s.profileCache[platform] = profile
	s.cacheMutex.Unlock()

	return profile, nil
}

func (s *SQLiteStore) readProfile(ctx context.Context, platform model.Platform) (*model.PlatformProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT platform, package_identifiers, is_enabled, auto_accept_enabled,
		       minimum_amount, priority_weight, should_remove, updated_at
		FROM platform_profiles WHERE platform = ?`, string(platform))

	var profile model.PlatformProfile
	var pkgs string
	var p string
	err := row.Scan(&p, &pkgs, &profile.IsEnabled, &profile.AutoAcceptEnabled,
		&profile.MinimumAmount, &profile.PriorityWeight, &profile.ShouldRemove, &profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile for %s: %w", platform, err)
	}

	profile.Platform = model.Platform(p)
	if pkgs != "" {
		profile.PackageIdentifiers = strings.Split(pkgs, ",")
	}

	return &profile, nil
}

// SaveProfile inserts or replaces a profile and drops the cache.
func (s *SQLiteStore) SaveProfile(ctx context.Context, profile *model.PlatformProfile) error {
	if profile == nil || profile.Platform == "" {
		return common.ErrInvalidConfig
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_profiles
			(platform, package_identifiers, is_enabled, auto_accept_enabled,
			 minimum_amount, priority_weight, should_remove, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(platform) DO UPDATE SET
			package_identifiers = excluded.package_identifiers,
			is_enabled = excluded.is_enabled,
			auto_accept_enabled = excluded.auto_accept_enabled,
			minimum_amount = excluded.minimum_amount,
			priority_weight = excluded.priority_weight,
			should_remove = excluded.should_remove,
			updated_at = CURRENT_TIMESTAMP`,
		string(profile.Platform),
		strings.Join(profile.PackageIdentifiers, ","),
		profile.IsEnabled,
		profile.AutoAcceptEnabled,
		profile.MinimumAmount,
		profile.PriorityWeight,
		profile.ShouldRemove)
	if err != nil {
		return fmt.Errorf("failed to save profile for %s: %w", profile.Platform, err)
	}

	s.cacheMutex.Lock()
	s.profileCache = make(map[model.Platform]*model.PlatformProfile)
	s.cacheExpiry = time.Time{}
	s.cacheMutex.Unlock()

	return nil
}

// ListProfiles returns every stored profile ordered by platform.
func (s *SQLiteStore) ListProfiles(ctx context.Context) ([]model.PlatformProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT platform, package_identifiers, is_enabled, auto_accept_enabled,
		       minimum_amount, priority_weight, should_remove, updated_at
		FROM platform_profiles ORDER BY platform`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var profiles []model.PlatformProfile
	for rows.Next() {
		var profile model.PlatformProfile
		var pkgs string
		var p string
		if err := rows.Scan(&p, &pkgs, &profile.IsEnabled, &profile.AutoAcceptEnabled,
			&profile.MinimumAmount, &profile.PriorityWeight, &profile.ShouldRemove, &profile.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profile.Platform = model.Platform(p)
		if pkgs != "" {
			profile.PackageIdentifiers = strings.Split(pkgs, ",")
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

// SeedDefaultProfiles inserts a disabled default profile for every
// platform missing one, so the settings surface has rows to edit.
func (s *SQLiteStore) SeedDefaultProfiles(ctx context.Context, packages func(model.Platform) []string) error {
	for _, platform := range model.AllPlatforms() {
		_, err := s.GetProfile(ctx, platform)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		profile := &model.PlatformProfile{
			Platform:           platform,
			PackageIdentifiers: packages(platform),
			IsEnabled:          true,
			AutoAcceptEnabled:  false,
			PriorityWeight:     1.0,
		}
		if err := s.SaveProfile(ctx, profile); err != nil {
			return err
		}
	}

	return nil
}
