package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type studyEventRepo struct {
	q sqlx.ExtContext
}

func (r *studyEventRepo) Create(ctx context.Context, ev *StudyEvent) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO study_events
			(id, user_id, subject_id, kind, topic_id, practice_exam_id, study_minutes, studied_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.UserID, ev.SubjectID, ev.Kind, ev.TopicID, ev.PracticeExamID,
		ev.StudyMinutes, ev.StudiedAt)
	if err != nil {
		return fmt.Errorf("create study event: %w", err)
	}
	return nil
}

func (r *studyEventRepo) ByID(ctx context.Context, id string) (*StudyEvent, error) {
	var ev StudyEvent
	err := sqlx.GetContext(ctx, r.q, &ev, `SELECT * FROM study_events WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query study event %s: %w", id, err)
	}
	return &ev, nil
}

func (r *studyEventRepo) ListByUser(ctx context.Context, userID string) ([]StudyEvent, error) {
	var events []StudyEvent
	err := sqlx.SelectContext(ctx, r.q, &events,
		`SELECT * FROM study_events WHERE user_id = ? ORDER BY studied_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query study events: %w", err)
	}
	return events, nil
}

func (r *studyEventRepo) TotalMinutes(ctx context.Context, userID string) (int, error) {
	var total int
	err := sqlx.GetContext(ctx, r.q, &total,
		`SELECT COALESCE(SUM(study_minutes), 0) FROM study_events WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("sum study minutes: %w", err)
	}
	return total, nil
}

func (r *studyEventRepo) CountStudiedTopics(ctx context.Context, userID, subjectID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n,
		`SELECT COUNT(DISTINCT topic_id) FROM study_events
		 WHERE user_id = ? AND subject_id = ? AND kind = 'topic'`, userID, subjectID)
	if err != nil {
		return 0, fmt.Errorf("count studied topics: %w", err)
	}
	return n, nil
}

func (r *studyEventRepo) CountCompletedExams(ctx context.Context, userID, subjectID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n,
		`SELECT COUNT(DISTINCT practice_exam_id) FROM study_events
		 WHERE user_id = ? AND subject_id = ? AND kind = 'practice_exam'`, userID, subjectID)
	if err != nil {
		return 0, fmt.Errorf("count completed exams: %w", err)
	}
	return n, nil
}
