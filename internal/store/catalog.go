package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type catalogRepo struct {
	q sqlx.ExtContext
}

func (r *catalogRepo) SeedSubject(ctx context.Context, s Subject) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO subjects (id, exam_type, name, order_index) VALUES (?, ?, ?, ?)`,
		s.ID, s.ExamType, s.Name, s.OrderIndex)
	if err != nil {
		return fmt.Errorf("seed subject %s: %w", s.ID, err)
	}
	return nil
}

func (r *catalogRepo) SeedChapter(ctx context.Context, c Chapter) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO chapters (id, subject_id, name, order_index) VALUES (?, ?, ?, ?)`,
		c.ID, c.SubjectID, c.Name, c.OrderIndex)
	if err != nil {
		return fmt.Errorf("seed chapter %s: %w", c.ID, err)
	}
	return nil
}

func (r *catalogRepo) SeedTopic(ctx context.Context, t Topic) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO topics (id, chapter_id, name, order_index) VALUES (?, ?, ?, ?)`,
		t.ID, t.ChapterID, t.Name, t.OrderIndex)
	if err != nil {
		return fmt.Errorf("seed topic %s: %w", t.ID, err)
	}
	return nil
}

func (r *catalogRepo) SeedPracticeExam(ctx context.Context, e PracticeExam) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO practice_exams (id, subject_id, name, exam_number) VALUES (?, ?, ?, ?)`,
		e.ID, e.SubjectID, e.Name, e.ExamNumber)
	if err != nil {
		return fmt.Errorf("seed practice exam %s: %w", e.ID, err)
	}
	return nil
}

func (r *catalogRepo) Subjects(ctx context.Context) ([]Subject, error) {
	var subjects []Subject
	err := sqlx.SelectContext(ctx, r.q, &subjects,
		`SELECT * FROM subjects ORDER BY order_index, id`)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	return subjects, nil
}

func (r *catalogRepo) SubjectByID(ctx context.Context, id string) (*Subject, error) {
	var s Subject
	err := sqlx.GetContext(ctx, r.q, &s, `SELECT * FROM subjects WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query subject %s: %w", id, err)
	}
	return &s, nil
}

func (r *catalogRepo) TopicByID(ctx context.Context, id string) (*Topic, error) {
	var t Topic
	err := sqlx.GetContext(ctx, r.q, &t, `SELECT * FROM topics WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query topic %s: %w", id, err)
	}
	return &t, nil
}

func (r *catalogRepo) PracticeExamByID(ctx context.Context, id string) (*PracticeExam, error) {
	var e PracticeExam
	err := sqlx.GetContext(ctx, r.q, &e, `SELECT * FROM practice_exams WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query practice exam %s: %w", id, err)
	}
	return &e, nil
}

func (r *catalogRepo) SubjectIDForTopic(ctx context.Context, topicID string) (string, error) {
	var subjectID string
	err := sqlx.GetContext(ctx, r.q, &subjectID,
		`SELECT c.subject_id FROM topics t JOIN chapters c ON t.chapter_id = c.id WHERE t.id = ?`,
		topicID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve subject for topic %s: %w", topicID, err)
	}
	return subjectID, nil
}

func (r *catalogRepo) CountSubjects(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM subjects`); err != nil {
		return 0, fmt.Errorf("count subjects: %w", err)
	}
	return n, nil
}

func (r *catalogRepo) CountTopicsBySubject(ctx context.Context, subjectID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n,
		`SELECT COUNT(*) FROM topics t JOIN chapters c ON t.chapter_id = c.id WHERE c.subject_id = ?`,
		subjectID)
	if err != nil {
		return 0, fmt.Errorf("count topics for subject %s: %w", subjectID, err)
	}
	return n, nil
}

func (r *catalogRepo) CountExamsBySubject(ctx context.Context, subjectID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n,
		`SELECT COUNT(*) FROM practice_exams WHERE subject_id = ?`, subjectID)
	if err != nil {
		return 0, fmt.Errorf("count exams for subject %s: %w", subjectID, err)
	}
	return n, nil
}
