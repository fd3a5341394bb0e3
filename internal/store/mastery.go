package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type masteryRepo struct {
	q sqlx.ExtContext
}

func (r *masteryRepo) Get(ctx context.Context, userID, subjectID string) (*SubjectMastery, error) {
	var m SubjectMastery
	err := sqlx.GetContext(ctx, r.q, &m,
		`SELECT * FROM subject_mastery WHERE user_id = ? AND subject_id = ?`,
		userID, subjectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query mastery (%s, %s): %w", userID, subjectID, err)
	}
	return &m, nil
}

func (r *masteryRepo) ListByUser(ctx context.Context, userID string) ([]SubjectMastery, error) {
	var list []SubjectMastery
	err := sqlx.SelectContext(ctx, r.q, &list,
		`SELECT * FROM subject_mastery WHERE user_id = ? ORDER BY subject_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query masteries for %s: %w", userID, err)
	}
	return list, nil
}

// AddXP upserts the mastery row and increments XP in a single atomic
// statement, so two racing awards both land (no lost update).
func (r *masteryRepo) AddXP(ctx context.Context, userID, subjectID string, delta int, now time.Time) (int, error) {
	var newXP int
	err := sqlx.GetContext(ctx, r.q, &newXP,
		`INSERT INTO subject_mastery (user_id, subject_id, current_xp, rank, updated_at)
		 VALUES (?, ?, ?, 'C-', ?)
		 ON CONFLICT (user_id, subject_id) DO UPDATE SET
			current_xp = subject_mastery.current_xp + excluded.current_xp,
			updated_at = excluded.updated_at
		 RETURNING current_xp`,
		userID, subjectID, delta, now)
	if err != nil {
		return 0, fmt.Errorf("add xp (%s, %s): %w", userID, subjectID, err)
	}
	return newXP, nil
}

func (r *masteryRepo) SetRank(ctx context.Context, userID, subjectID, rank string, now time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE subject_mastery SET rank = ?, updated_at = ? WHERE user_id = ? AND subject_id = ?`,
		rank, now, userID, subjectID)
	if err != nil {
		return fmt.Errorf("set rank (%s, %s): %w", userID, subjectID, err)
	}
	return nil
}
