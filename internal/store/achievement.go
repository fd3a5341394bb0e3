package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type achievementRepo struct {
	q sqlx.ExtContext
}

func (r *achievementRepo) SeedTitle(ctx context.Context, t Title) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO titles
			(id, name, description, rarity, requirement_type,
			 requirement_subject_id, requirement_rank, requirement_value, gear_points)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, t.Rarity, t.RequirementType,
		t.RequirementSubjectID, t.RequirementRank, t.RequirementValue, t.GearPoints)
	if err != nil {
		return fmt.Errorf("seed title %s: %w", t.ID, err)
	}
	return nil
}

func (r *achievementRepo) SeedBadge(ctx context.Context, b Badge) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO badges
			(id, name, description, icon, requirement_type,
			 requirement_subject_id, requirement_rank, requirement_value, gear_points)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Description, b.Icon, b.RequirementType,
		b.RequirementSubjectID, b.RequirementRank, b.RequirementValue, b.GearPoints)
	if err != nil {
		return fmt.Errorf("seed badge %s: %w", b.ID, err)
	}
	return nil
}

func (r *achievementRepo) Titles(ctx context.Context) ([]Title, error) {
	var titles []Title
	if err := sqlx.SelectContext(ctx, r.q, &titles, `SELECT * FROM titles ORDER BY id`); err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}
	return titles, nil
}

func (r *achievementRepo) Badges(ctx context.Context) ([]Badge, error) {
	var badges []Badge
	if err := sqlx.SelectContext(ctx, r.q, &badges, `SELECT * FROM badges ORDER BY id`); err != nil {
		return nil, fmt.Errorf("query badges: %w", err)
	}
	return badges, nil
}

func (r *achievementRepo) TitleByID(ctx context.Context, id string) (*Title, error) {
	var t Title
	err := sqlx.GetContext(ctx, r.q, &t, `SELECT * FROM titles WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query title %s: %w", id, err)
	}
	return &t, nil
}

func (r *achievementRepo) TitleByRequirementType(ctx context.Context, reqType string) (*Title, error) {
	var t Title
	err := sqlx.GetContext(ctx, r.q, &t,
		`SELECT * FROM titles WHERE requirement_type = ? ORDER BY id LIMIT 1`, reqType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query title by requirement %s: %w", reqType, err)
	}
	return &t, nil
}

func (r *achievementRepo) UserTitleIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	err := sqlx.SelectContext(ctx, r.q, &ids,
		`SELECT title_id FROM user_titles WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user titles: %w", err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *achievementRepo) UserBadgeIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	err := sqlx.SelectContext(ctx, r.q, &ids,
		`SELECT badge_id FROM user_badges WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user badges: %w", err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// GrantTitle appends an unlock record. Insert-or-ignore keeps the grant
// one-shot even if two evaluation passes race.
func (r *achievementRepo) GrantTitle(ctx context.Context, userID, titleID string, at time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_titles (user_id, title_id, unlocked_at) VALUES (?, ?, ?)`,
		userID, titleID, at)
	if err != nil {
		return fmt.Errorf("grant title %s: %w", titleID, err)
	}
	return nil
}

func (r *achievementRepo) GrantBadge(ctx context.Context, userID, badgeID string, at time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_badges (user_id, badge_id, unlocked_at) VALUES (?, ?, ?)`,
		userID, badgeID, at)
	if err != nil {
		return fmt.Errorf("grant badge %s: %w", badgeID, err)
	}
	return nil
}

func (r *achievementRepo) CountTitles(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM titles`); err != nil {
		return 0, fmt.Errorf("count titles: %w", err)
	}
	return n, nil
}

func (r *achievementRepo) CountUserTitles(ctx context.Context, userID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n,
		`SELECT COUNT(*) FROM user_titles WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("count user titles: %w", err)
	}
	return n, nil
}

func (r *achievementRepo) EquippedTitle(ctx context.Context, userID string) (*Title, error) {
	var t Title
	err := sqlx.GetContext(ctx, r.q, &t,
		`SELECT t.* FROM user_equipped_title ue JOIN titles t ON ue.title_id = t.id
		 WHERE ue.user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query equipped title: %w", err)
	}
	return &t, nil
}

func (r *achievementRepo) Equip(ctx context.Context, userID, titleID string, at time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO user_equipped_title (user_id, title_id, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
			title_id   = excluded.title_id,
			updated_at = excluded.updated_at`,
		userID, titleID, at)
	if err != nil {
		return fmt.Errorf("equip title %s: %w", titleID, err)
	}
	return nil
}
