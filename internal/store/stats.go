package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type statsRepo struct {
	q sqlx.ExtContext
}

func (r *statsRepo) Get(ctx context.Context, userID string) (*UserStats, error) {
	var st UserStats
	err := sqlx.GetContext(ctx, r.q, &st, `SELECT * FROM user_stats WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user stats %s: %w", userID, err)
	}
	return &st, nil
}

// ApplyAward upserts the stats row in one statement. Total XP grows by
// an atomic increment and the level is derived from the incremented
// value inside the database, so concurrent awards cannot lose XP.
// Streak and last-study-date are absolute values computed by the engine
// under its per-user lock.
func (r *statsRepo) ApplyAward(ctx context.Context, userID string, xpDelta, streakDays int, lastStudyDate string, now time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO user_stats
			(user_id, total_xp, current_level, streak_days, last_study_date, gear_points, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
			total_xp        = user_stats.total_xp + excluded.total_xp,
			current_level   = (user_stats.total_xp + excluded.total_xp) / 1000 + 1,
			streak_days     = excluded.streak_days,
			last_study_date = excluded.last_study_date,
			updated_at      = excluded.updated_at`,
		userID, xpDelta, xpDelta/1000+1, streakDays, lastStudyDate, now)
	if err != nil {
		return fmt.Errorf("apply award for %s: %w", userID, err)
	}
	return nil
}

func (r *statsRepo) AddGearPoints(ctx context.Context, userID string, delta int, now time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO user_stats (user_id, total_xp, current_level, streak_days, gear_points, updated_at)
		 VALUES (?, 0, 1, 0, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
			gear_points = user_stats.gear_points + excluded.gear_points,
			updated_at  = excluded.updated_at`,
		userID, delta, now)
	if err != nil {
		return fmt.Errorf("add gear points for %s: %w", userID, err)
	}
	return nil
}
