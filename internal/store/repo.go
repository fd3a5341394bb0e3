package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// CatalogRepo provides access to the static study catalog.
type CatalogRepo interface {
	// Seeding. Definitions are immutable once present: inserts are
	// insert-or-ignore and never overwrite existing rows.
	SeedSubject(ctx context.Context, s Subject) error
	SeedChapter(ctx context.Context, c Chapter) error
	SeedTopic(ctx context.Context, t Topic) error
	SeedPracticeExam(ctx context.Context, e PracticeExam) error

	Subjects(ctx context.Context) ([]Subject, error)
	SubjectByID(ctx context.Context, id string) (*Subject, error)
	TopicByID(ctx context.Context, id string) (*Topic, error)
	PracticeExamByID(ctx context.Context, id string) (*PracticeExam, error)
	// SubjectIDForTopic resolves topic -> chapter -> subject.
	SubjectIDForTopic(ctx context.Context, topicID string) (string, error)
	CountSubjects(ctx context.Context) (int, error)
	CountTopicsBySubject(ctx context.Context, subjectID string) (int, error)
	CountExamsBySubject(ctx context.Context, subjectID string) (int, error)
}

// StudyEventRepo persists immutable study completion facts.
type StudyEventRepo interface {
	Create(ctx context.Context, ev *StudyEvent) error
	ByID(ctx context.Context, id string) (*StudyEvent, error)
	ListByUser(ctx context.Context, userID string) ([]StudyEvent, error)
	// TotalMinutes sums study_minutes across all of the user's events.
	TotalMinutes(ctx context.Context, userID string) (int, error)
	CountStudiedTopics(ctx context.Context, userID, subjectID string) (int, error)
	CountCompletedExams(ctx context.Context, userID, subjectID string) (int, error)
}

// ReviewScheduleRepo persists the review calendar entries.
type ReviewScheduleRepo interface {
	CreateBatch(ctx context.Context, entries []ReviewSchedule) error
	ByID(ctx context.Context, id string) (*ReviewSchedule, error)
	ListByEvent(ctx context.Context, studyEventID string) ([]ReviewSchedule, error)
	// DueQueue returns incomplete entries scheduled on or before today
	// (YYYY-MM-DD), joined with display names. Missed reviews stay in
	// the queue until acted on.
	DueQueue(ctx context.Context, userID, today string) ([]DueReview, error)
	// MarkCompleted flips the completed flag exactly once. Returns
	// ErrAlreadyCompleted if the entry was completed before, or
	// ErrNotFound if it doesn't exist.
	MarkCompleted(ctx context.Context, id string, at time.Time) error
}

// MasteryRepo persists per-subject XP accumulators. XP mutations are
// atomic at the database level; no read-then-write across statements.
type MasteryRepo interface {
	Get(ctx context.Context, userID, subjectID string) (*SubjectMastery, error)
	ListByUser(ctx context.Context, userID string) ([]SubjectMastery, error)
	// AddXP upserts the record and atomically increments its XP,
	// returning the resulting total.
	AddXP(ctx context.Context, userID, subjectID string, delta int, now time.Time) (int, error)
	SetRank(ctx context.Context, userID, subjectID, rank string, now time.Time) error
}

// StatsRepo persists the account-wide aggregate.
type StatsRepo interface {
	Get(ctx context.Context, userID string) (*UserStats, error)
	// ApplyAward upserts the stats row: total XP and level grow by an
	// atomic increment, streak and last-study-date are set to the
	// caller-computed values.
	ApplyAward(ctx context.Context, userID string, xpDelta, streakDays int, lastStudyDate string, now time.Time) error
	// AddGearPoints atomically credits gear points, creating the stats
	// row if the user has none yet.
	AddGearPoints(ctx context.Context, userID string, delta int, now time.Time) error
}

// AchievementRepo persists title/badge definitions, unlock records and
// the equipped-title pointer.
type AchievementRepo interface {
	SeedTitle(ctx context.Context, t Title) error
	SeedBadge(ctx context.Context, b Badge) error

	Titles(ctx context.Context) ([]Title, error)
	Badges(ctx context.Context) ([]Badge, error)
	TitleByID(ctx context.Context, id string) (*Title, error)
	TitleByRequirementType(ctx context.Context, reqType string) (*Title, error)

	// Unlock records are append-only: granted once, never removed.
	UserTitleIDs(ctx context.Context, userID string) (map[string]bool, error)
	UserBadgeIDs(ctx context.Context, userID string) (map[string]bool, error)
	GrantTitle(ctx context.Context, userID, titleID string, at time.Time) error
	GrantBadge(ctx context.Context, userID, badgeID string, at time.Time) error
	CountTitles(ctx context.Context) (int, error)
	CountUserTitles(ctx context.Context, userID string) (int, error)

	EquippedTitle(ctx context.Context, userID string) (*Title, error)
	Equip(ctx context.Context, userID, titleID string, at time.Time) error
}

// Repos bundles all repositories over one querier (connection or
// transaction).
type Repos struct {
	Catalog      CatalogRepo
	Events       StudyEventRepo
	Reviews      ReviewScheduleRepo
	Mastery      MasteryRepo
	Stats        StatsRepo
	Achievements AchievementRepo
}

func newRepos(q sqlx.ExtContext) *Repos {
	return &Repos{
		Catalog:      &catalogRepo{q: q},
		Events:       &studyEventRepo{q: q},
		Reviews:      &reviewScheduleRepo{q: q},
		Mastery:      &masteryRepo{q: q},
		Stats:        &statsRepo{q: q},
		Achievements: &achievementRepo{q: q},
	}
}
