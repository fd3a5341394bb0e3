package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type reviewScheduleRepo struct {
	q sqlx.ExtContext
}

func (r *reviewScheduleRepo) CreateBatch(ctx context.Context, entries []ReviewSchedule) error {
	for _, e := range entries {
		_, err := r.q.ExecContext(ctx,
			`INSERT INTO review_schedules (id, study_event_id, review_number, scheduled_date)
			 VALUES (?, ?, ?, ?)`,
			e.ID, e.StudyEventID, e.ReviewNumber, e.ScheduledDate)
		if err != nil {
			return fmt.Errorf("create review schedule %d for event %s: %w",
				e.ReviewNumber, e.StudyEventID, err)
		}
	}
	return nil
}

func (r *reviewScheduleRepo) ByID(ctx context.Context, id string) (*ReviewSchedule, error) {
	var rs ReviewSchedule
	err := sqlx.GetContext(ctx, r.q, &rs, `SELECT * FROM review_schedules WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query review schedule %s: %w", id, err)
	}
	return &rs, nil
}

func (r *reviewScheduleRepo) ListByEvent(ctx context.Context, studyEventID string) ([]ReviewSchedule, error) {
	var entries []ReviewSchedule
	err := sqlx.SelectContext(ctx, r.q, &entries,
		`SELECT * FROM review_schedules WHERE study_event_id = ? ORDER BY review_number`,
		studyEventID)
	if err != nil {
		return nil, fmt.Errorf("query review schedules for event %s: %w", studyEventID, err)
	}
	return entries, nil
}

func (r *reviewScheduleRepo) DueQueue(ctx context.Context, userID, today string) ([]DueReview, error) {
	var queue []DueReview
	err := sqlx.SelectContext(ctx, r.q, &queue,
		`SELECT
			rs.id             AS schedule_id,
			rs.study_event_id AS study_event_id,
			rs.review_number  AS review_number,
			rs.scheduled_date AS scheduled_date,
			se.kind           AS kind,
			se.subject_id     AS subject_id,
			s.name            AS subject_name,
			c.name            AS chapter_name,
			COALESCE(t.name, pe.name, '') AS item_name
		 FROM review_schedules rs
		 JOIN study_events se ON rs.study_event_id = se.id
		 JOIN subjects s ON se.subject_id = s.id
		 LEFT JOIN topics t ON se.topic_id = t.id
		 LEFT JOIN chapters c ON t.chapter_id = c.id
		 LEFT JOIN practice_exams pe ON se.practice_exam_id = pe.id
		 WHERE se.user_id = ? AND rs.completed = 0 AND rs.scheduled_date <= ?
		 ORDER BY rs.scheduled_date, rs.review_number, rs.id`,
		userID, today)
	if err != nil {
		return nil, fmt.Errorf("query due reviews: %w", err)
	}
	return queue, nil
}

func (r *reviewScheduleRepo) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE review_schedules SET completed = 1, completed_at = ? WHERE id = ? AND completed = 0`,
		at, id)
	if err != nil {
		return fmt.Errorf("complete review schedule %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		// Distinguish missing from already-done.
		var exists int
		err := sqlx.GetContext(ctx, r.q, &exists,
			`SELECT COUNT(*) FROM review_schedules WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("check review schedule %s: %w", id, err)
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrAlreadyCompleted
	}
	return nil
}
