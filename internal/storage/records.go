package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/orderpilot/orderpilot/internal/model"
)

// Record appends one user priority correction to the feedback log.
func (s *SQLiteStore) Record(ctx context.Context, signalID string, assigned model.Tier) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (signal_id, assigned_priority) VALUES (?, ?)`,
		signalID, string(assigned))
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

// FeedbackEntry is one logged priority correction.
type FeedbackEntry struct {
	RecordedAt time.Time
	SignalID   string
	Assigned   model.Tier
}

// ListFeedback returns the most recent corrections, newest first.
func (s *SQLiteStore) ListFeedback(ctx context.Context, limit int) ([]FeedbackEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT signal_id, assigned_priority, recorded_at
		FROM feedback ORDER BY recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []FeedbackEntry
	for rows.Next() {
		var entry FeedbackEntry
		var assigned string
		if err := rows.Scan(&entry.SignalID, &assigned, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		entry.Assigned = model.Tier(assigned)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// RecordAcceptedOrder stores one acted-on order for analytics.
func (s *SQLiteStore) RecordAcceptedOrder(ctx context.Context, platform model.Platform, amount float64, observedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accepted_orders (platform, amount, observed_at) VALUES (?, ?, ?)`,
		string(platform), amount, observedAt)
	if err != nil {
		return fmt.Errorf("failed to record accepted order: %w", err)
	}
	return nil
}

// PlatformStats summarizes accepted orders for one platform.
type PlatformStats struct {
	Platform    model.Platform
	Count       int
	TotalAmount float64
}

// AcceptedOrderStats aggregates accepted orders per platform.
func (s *SQLiteStore) AcceptedOrderStats(ctx context.Context) ([]PlatformStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT platform, COUNT(*), COALESCE(SUM(amount), 0)
		FROM accepted_orders GROUP BY platform ORDER BY platform`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []PlatformStats
	for rows.Next() {
		var st PlatformStats
		var p string
		if err := rows.Scan(&p, &st.Count, &st.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		st.Platform = model.Platform(p)
		stats = append(stats, st)
	}

	return stats, rows.Err()
}
