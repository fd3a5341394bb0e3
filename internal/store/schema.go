package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaDDL creates all tables. Statements are idempotent so migration
// runs unconditionally at open.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
		id          TEXT PRIMARY KEY,
		exam_type   TEXT NOT NULL,
		name        TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS chapters (
		id          TEXT PRIMARY KEY,
		subject_id  TEXT NOT NULL REFERENCES subjects(id),
		name        TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS topics (
		id          TEXT PRIMARY KEY,
		chapter_id  TEXT NOT NULL REFERENCES chapters(id),
		name        TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS practice_exams (
		id          TEXT PRIMARY KEY,
		subject_id  TEXT NOT NULL REFERENCES subjects(id),
		name        TEXT NOT NULL,
		exam_number INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS study_events (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		subject_id       TEXT NOT NULL REFERENCES subjects(id),
		kind             TEXT NOT NULL CHECK (kind IN ('topic', 'practice_exam')),
		topic_id         TEXT REFERENCES topics(id),
		practice_exam_id TEXT REFERENCES practice_exams(id),
		study_minutes    INTEGER NOT NULL DEFAULT 0,
		studied_at       TIMESTAMP NOT NULL,
		created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_study_events_user ON study_events(user_id)`,
	`CREATE TABLE IF NOT EXISTS review_schedules (
		id             TEXT PRIMARY KEY,
		study_event_id TEXT NOT NULL REFERENCES study_events(id),
		review_number  INTEGER NOT NULL CHECK (review_number BETWEEN 1 AND 5),
		scheduled_date TEXT NOT NULL,
		completed      INTEGER NOT NULL DEFAULT 0,
		completed_at   TIMESTAMP,
		created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (study_event_id, review_number)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_review_schedules_due
		ON review_schedules(scheduled_date, completed)`,
	`CREATE TABLE IF NOT EXISTS subject_mastery (
		user_id    TEXT NOT NULL,
		subject_id TEXT NOT NULL REFERENCES subjects(id),
		current_xp INTEGER NOT NULL DEFAULT 0 CHECK (current_xp >= 0),
		rank       TEXT NOT NULL DEFAULT 'C-',
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, subject_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_stats (
		user_id         TEXT PRIMARY KEY,
		total_xp        INTEGER NOT NULL DEFAULT 0 CHECK (total_xp >= 0),
		current_level   INTEGER NOT NULL DEFAULT 1,
		streak_days     INTEGER NOT NULL DEFAULT 0 CHECK (streak_days >= 0),
		last_study_date TEXT,
		gear_points     INTEGER NOT NULL DEFAULT 0 CHECK (gear_points >= 0),
		updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS titles (
		id                     TEXT PRIMARY KEY,
		name                   TEXT NOT NULL,
		description            TEXT NOT NULL DEFAULT '',
		rarity                 TEXT NOT NULL DEFAULT 'common',
		requirement_type       TEXT NOT NULL,
		requirement_subject_id TEXT,
		requirement_rank       TEXT,
		requirement_value      INTEGER,
		gear_points            INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS badges (
		id                     TEXT PRIMARY KEY,
		name                   TEXT NOT NULL,
		description            TEXT NOT NULL DEFAULT '',
		icon                   TEXT NOT NULL DEFAULT '',
		requirement_type       TEXT NOT NULL,
		requirement_subject_id TEXT,
		requirement_rank       TEXT,
		requirement_value      INTEGER,
		gear_points            INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS user_titles (
		user_id     TEXT NOT NULL,
		title_id    TEXT NOT NULL REFERENCES titles(id),
		unlocked_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, title_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_badges (
		user_id     TEXT NOT NULL,
		badge_id    TEXT NOT NULL REFERENCES badges(id),
		unlocked_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, badge_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_equipped_title (
		user_id    TEXT PRIMARY KEY,
		title_id   TEXT NOT NULL REFERENCES titles(id),
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// migrate applies the schema.
func migrate(db *sqlx.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
