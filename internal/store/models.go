package store

import "time"

// Subject is a top-level study area (e.g. Financial Accounting).
type Subject struct {
	ID         string    `db:"id"`
	ExamType   string    `db:"exam_type"`
	Name       string    `db:"name"`
	OrderIndex int       `db:"order_index"`
	CreatedAt  time.Time `db:"created_at"`
}

// Chapter groups topics within a subject.
type Chapter struct {
	ID         string    `db:"id"`
	SubjectID  string    `db:"subject_id"`
	Name       string    `db:"name"`
	OrderIndex int       `db:"order_index"`
	CreatedAt  time.Time `db:"created_at"`
}

// Topic is a single studyable unit within a chapter.
type Topic struct {
	ID         string    `db:"id"`
	ChapterID  string    `db:"chapter_id"`
	Name       string    `db:"name"`
	OrderIndex int       `db:"order_index"`
	CreatedAt  time.Time `db:"created_at"`
}

// PracticeExam is a mock exam attached to a subject.
type PracticeExam struct {
	ID         string    `db:"id"`
	SubjectID  string    `db:"subject_id"`
	Name       string    `db:"name"`
	ExamNumber int       `db:"exam_number"`
	CreatedAt  time.Time `db:"created_at"`
}

// Study event kinds.
const (
	KindTopic        = "topic"
	KindPracticeExam = "practice_exam"
)

// StudyEvent is the immutable fact that a topic or practice exam was
// completed. Never mutated, never deleted in normal operation.
type StudyEvent struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	SubjectID      string    `db:"subject_id"`
	Kind           string    `db:"kind"`
	TopicID        *string   `db:"topic_id"`
	PracticeExamID *string   `db:"practice_exam_id"`
	StudyMinutes   int       `db:"study_minutes"`
	StudiedAt      time.Time `db:"studied_at"`
	CreatedAt      time.Time `db:"created_at"`
}

// ReviewSchedule is one of the five review reminders derived from a
// study event. ScheduledDate is a YYYY-MM-DD calendar date.
type ReviewSchedule struct {
	ID            string     `db:"id"`
	StudyEventID  string     `db:"study_event_id"`
	ReviewNumber  int        `db:"review_number"`
	ScheduledDate string     `db:"scheduled_date"`
	Completed     bool       `db:"completed"`
	CompletedAt   *time.Time `db:"completed_at"`
	CreatedAt     time.Time  `db:"created_at"`
}

// DueReview is a joined row of the review queue with display names
// resolved for the caller.
type DueReview struct {
	ScheduleID    string  `db:"schedule_id"`
	StudyEventID  string  `db:"study_event_id"`
	ReviewNumber  int     `db:"review_number"`
	ScheduledDate string  `db:"scheduled_date"`
	Kind          string  `db:"kind"`
	SubjectID     string  `db:"subject_id"`
	SubjectName   string  `db:"subject_name"`
	ChapterName   *string `db:"chapter_name"`
	ItemName      string  `db:"item_name"`
}

// SubjectMastery accumulates XP and rank for one (user, subject) pair.
// Rank is derived from XP and recomputed on every change.
type SubjectMastery struct {
	UserID    string    `db:"user_id"`
	SubjectID string    `db:"subject_id"`
	CurrentXP int       `db:"current_xp"`
	Rank      string    `db:"rank"`
	UpdatedAt time.Time `db:"updated_at"`
}

// UserStats is the account-wide aggregate for one user.
// LastStudyDate is a YYYY-MM-DD calendar date, nil before the first event.
type UserStats struct {
	UserID        string    `db:"user_id"`
	TotalXP       int       `db:"total_xp"`
	CurrentLevel  int       `db:"current_level"`
	StreakDays    int       `db:"streak_days"`
	LastStudyDate *string   `db:"last_study_date"`
	GearPoints    int       `db:"gear_points"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Title is a static catalog definition for an equippable title.
type Title struct {
	ID                   string  `db:"id"`
	Name                 string  `db:"name"`
	Description          string  `db:"description"`
	Rarity               string  `db:"rarity"`
	RequirementType      string  `db:"requirement_type"`
	RequirementSubjectID *string `db:"requirement_subject_id"`
	RequirementRank      *string `db:"requirement_rank"`
	RequirementValue     *int    `db:"requirement_value"`
	GearPoints           int     `db:"gear_points"`
}

// Badge is a static catalog definition for a non-equippable badge.
type Badge struct {
	ID                   string  `db:"id"`
	Name                 string  `db:"name"`
	Description          string  `db:"description"`
	Icon                 string  `db:"icon"`
	RequirementType      string  `db:"requirement_type"`
	RequirementSubjectID *string `db:"requirement_subject_id"`
	RequirementRank      *string `db:"requirement_rank"`
	RequirementValue     *int    `db:"requirement_value"`
	GearPoints           int     `db:"gear_points"`
}

// EquippedTitle is the single equipped-title pointer per user.
// Display-only; never feeds back into XP or rank math.
type EquippedTitle struct {
	UserID    string    `db:"user_id"`
	TitleID   string    `db:"title_id"`
	UpdatedAt time.Time `db:"updated_at"`
}
