// Package tracker orchestrates study recording, the review queue and
// the player profile on top of the store and the progression engine.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hikaru/benkyo/internal/progression"
	"github.com/hikaru/benkyo/internal/schedule"
	"github.com/hikaru/benkyo/internal/store"
)

// ErrNotEarned is returned when equipping a title the user has not
// unlocked yet.
var ErrNotEarned = errors.New("title not earned")

// Service is the application-facing surface the commands talk to.
type Service struct {
	store  *store.Store
	engine *progression.Engine
	log    *zap.Logger
	now    func() time.Time
}

func New(st *store.Store, engine *progression.Engine, log *zap.Logger) *Service {
	return &Service{store: st, engine: engine, log: log, now: time.Now}
}

// Recorded reports a freshly recorded completion: the immutable event,
// its review calendar and the award outcome.
type Recorded struct {
	EventID string
	Reviews []store.ReviewSchedule
	Award   progression.Result
}

// RecordStudy records a completed topic: one immutable StudyEvent plus
// its five review calendar entries, then the XP award. Recording the
// same topic again is a new event, not an update.
func (s *Service) RecordStudy(ctx context.Context, userID, topicID string, minutes int) (*Recorded, error) {
	subjectID, err := s.store.Repos().Catalog.SubjectIDForTopic(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("resolve topic %s: %w", topicID, err)
	}
	id := topicID
	return s.record(ctx, store.StudyEvent{
		UserID:    userID,
		SubjectID: subjectID,
		Kind:      store.KindTopic,
		TopicID:   &id,
	}, progression.ActivityTopic, minutes)
}

// RecordExam records a completed practice exam.
func (s *Service) RecordExam(ctx context.Context, userID, examID string, minutes int) (*Recorded, error) {
	exam, err := s.store.Repos().Catalog.PracticeExamByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("resolve exam %s: %w", examID, err)
	}
	id := exam.ID
	return s.record(ctx, store.StudyEvent{
		UserID:         userID,
		SubjectID:      exam.SubjectID,
		Kind:           store.KindPracticeExam,
		PracticeExamID: &id,
	}, progression.ActivityPracticeExam, minutes)
}

func (s *Service) record(ctx context.Context, ev store.StudyEvent, kind progression.ActivityKind, minutes int) (*Recorded, error) {
	now := s.now()
	ev.ID = uuid.NewString()
	ev.StudyMinutes = minutes
	ev.StudiedAt = now

	planned := schedule.Reviews(now)
	entries := make([]store.ReviewSchedule, len(planned))
	for i, p := range planned {
		entries[i] = store.ReviewSchedule{
			ID:            uuid.NewString(),
			StudyEventID:  ev.ID,
			ReviewNumber:  p.ReviewNumber,
			ScheduledDate: schedule.FormatDate(p.ScheduledDate),
		}
	}

	// Event and calendar commit together. The award is its own
	// transaction inside the engine; a crash in between leaves a
	// recorded event without XP, never a dangling award.
	err := s.store.InTx(ctx, func(r *store.Repos) error {
		if err := r.Events.Create(ctx, &ev); err != nil {
			return err
		}
		return r.Reviews.CreateBatch(ctx, entries)
	})
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", ev.Kind, err)
	}

	award, err := s.engine.AwardXP(ctx, ev.UserID, ev.SubjectID, kind, minutes)
	if err != nil {
		return nil, fmt.Errorf("award for %s: %w", ev.ID, err)
	}
	return &Recorded{EventID: ev.ID, Reviews: entries, Award: award}, nil
}

// DueReviews returns the user's actionable review queue for a day:
// entries scheduled on that day plus any missed earlier ones.
func (s *Service) DueReviews(ctx context.Context, userID string, today time.Time) ([]store.DueReview, error) {
	return s.store.Repos().Reviews.DueQueue(ctx, userID, schedule.FormatDate(today))
}

// CompleteReview marks one review calendar entry done and awards the
// review XP. A second completion of the same entry returns
// store.ErrAlreadyCompleted before any XP moves, so retries are safe.
func (s *Service) CompleteReview(ctx context.Context, userID, scheduleID string) (*Recorded, error) {
	rs, err := s.store.Repos().Reviews.ByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("load review %s: %w", scheduleID, err)
	}
	ev, err := s.store.Repos().Events.ByID(ctx, rs.StudyEventID)
	if err != nil {
		return nil, fmt.Errorf("load event %s: %w", rs.StudyEventID, err)
	}
	if ev.UserID != userID {
		return nil, store.ErrNotFound
	}

	if err := s.store.Repos().Reviews.MarkCompleted(ctx, scheduleID, s.now()); err != nil {
		return nil, err
	}

	// Review XP is flat: independent of the original study duration.
	award, err := s.engine.AwardXP(ctx, userID, ev.SubjectID, progression.ActivityReview, 0)
	if err != nil {
		return nil, fmt.Errorf("award for review %s: %w", scheduleID, err)
	}
	return &Recorded{EventID: ev.ID, Award: award}, nil
}

// Profile is the player card.
type Profile struct {
	UserID        string
	Level         int
	TotalXP       int
	StreakDays    int
	GearPoints    int
	TotalMinutes  int
	EquippedTitle *store.Title
	TitlesEarned  int
	TitlesTotal   int
}

// Profile assembles the player card. On first access the default title
// is granted and equipped so the card never shows an empty slot.
func (s *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	r := s.store.Repos()
	p := &Profile{UserID: userID, Level: 1}

	stats, err := r.Stats.Get(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if stats != nil {
		p.Level = stats.CurrentLevel
		p.TotalXP = stats.TotalXP
		p.StreakDays = stats.StreakDays
		p.GearPoints = stats.GearPoints
	}

	p.TotalMinutes, err = r.Events.TotalMinutes(ctx, userID)
	if err != nil {
		return nil, err
	}

	equipped, err := r.Achievements.EquippedTitle(ctx, userID)
	switch {
	case err == nil:
		p.EquippedTitle = equipped
	case errors.Is(err, store.ErrNotFound):
		p.EquippedTitle, err = s.equipDefault(ctx, userID)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	p.TitlesEarned, err = r.Achievements.CountUserTitles(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.TitlesTotal, err = r.Achievements.CountTitles(ctx)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// equipDefault grants and equips the catalog's default title. A catalog
// without one is fine; the slot just stays empty.
func (s *Service) equipDefault(ctx context.Context, userID string) (*store.Title, error) {
	title, err := s.store.Repos().Achievements.TitleByRequirementType(ctx, "default")
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	now := s.now()
	err = s.store.InTx(ctx, func(r *store.Repos) error {
		if err := r.Achievements.GrantTitle(ctx, userID, title.ID, now); err != nil {
			return err
		}
		return r.Achievements.Equip(ctx, userID, title.ID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("equip default title: %w", err)
	}
	s.log.Info("default title equipped",
		zap.String("user", userID), zap.String("title", title.ID))
	return title, nil
}

// EquipTitle points the user's single equipped-title slot at an earned
// title. Titles never unlocked return ErrNotEarned.
func (s *Service) EquipTitle(ctx context.Context, userID, titleID string) (*store.Title, error) {
	r := s.store.Repos()
	title, err := r.Achievements.TitleByID(ctx, titleID)
	if err != nil {
		return nil, err
	}
	owned, err := r.Achievements.UserTitleIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !owned[titleID] {
		return nil, fmt.Errorf("equip %s: %w", titleID, ErrNotEarned)
	}
	if err := r.Achievements.Equip(ctx, userID, titleID, s.now()); err != nil {
		return nil, err
	}
	return title, nil
}

// SubjectProgress pairs a subject with the user's mastery in it (nil
// while the subject is untouched) and the coverage counters.
type SubjectProgress struct {
	Subject       store.Subject
	Mastery       *store.SubjectMastery
	TopicsStudied int
	TopicsTotal   int
	ExamsDone     int
	ExamsTotal    int
}

// Masteries returns per-subject progress in catalog order, including
// subjects the user has not studied yet.
func (s *Service) Masteries(ctx context.Context, userID string) ([]SubjectProgress, error) {
	r := s.store.Repos()
	subjects, err := r.Catalog.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	masteries, err := r.Mastery.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	bySubject := make(map[string]store.SubjectMastery, len(masteries))
	for _, m := range masteries {
		bySubject[m.SubjectID] = m
	}

	out := make([]SubjectProgress, 0, len(subjects))
	for _, sub := range subjects {
		sp := SubjectProgress{Subject: sub}
		if m, ok := bySubject[sub.ID]; ok {
			mm := m
			sp.Mastery = &mm
		}
		if sp.TopicsStudied, err = r.Events.CountStudiedTopics(ctx, userID, sub.ID); err != nil {
			return nil, err
		}
		if sp.TopicsTotal, err = r.Catalog.CountTopicsBySubject(ctx, sub.ID); err != nil {
			return nil, err
		}
		if sp.ExamsDone, err = r.Events.CountCompletedExams(ctx, userID, sub.ID); err != nil {
			return nil, err
		}
		if sp.ExamsTotal, err = r.Catalog.CountExamsBySubject(ctx, sub.ID); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, nil
}
