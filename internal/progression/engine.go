// Package progression turns study and review completions into XP,
// rank, level and streak updates.
package progression

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hikaru/benkyo/internal/achievement"
	"github.com/hikaru/benkyo/internal/rank"
	"github.com/hikaru/benkyo/internal/schedule"
	"github.com/hikaru/benkyo/internal/store"
)

// ActivityKind identifies what kind of completion is being rewarded.
type ActivityKind string

const (
	ActivityTopic        ActivityKind = "topic"
	ActivityPracticeExam ActivityKind = "practice_exam"
	ActivityReview       ActivityKind = "review"
)

// Base XP per activity kind.
const (
	baseTopicXP        = 50
	basePracticeExamXP = 100
	baseReviewXP       = 30
)

// streakMultiplier applies when the user has an active streak going
// into the award.
const streakMultiplier = 1.2

// BaseXP returns the flat XP for an activity kind, before minutes and
// streak bonus. Unknown kinds earn nothing.
func BaseXP(kind ActivityKind) int {
	switch kind {
	case ActivityTopic:
		return baseTopicXP
	case ActivityPracticeExam:
		return basePracticeExamXP
	case ActivityReview:
		return baseReviewXP
	}
	return 0
}

// XPFor computes the XP an activity earns: base + minutes, times the
// streak multiplier (rounded to nearest) when a streak was already
// active before this award. Pure function of its inputs.
func XPFor(kind ActivityKind, minutes int, streakActive bool) int {
	xp := BaseXP(kind) + minutes
	if streakActive {
		xp = int(math.Round(float64(xp) * streakMultiplier))
	}
	return xp
}

// Result reports the outcome of one award.
type Result struct {
	Success    bool
	XPGained   int
	SubjectXP  int // the subject's total after the award
	NewRank    rank.Rank
	RankedUp   bool
	NewLevel   int
	LeveledUp  bool
	StreakDays int
	Unlocked   []achievement.Unlock
}

// Evaluator runs the achievement pass after a committed award.
type Evaluator interface {
	Evaluate(ctx context.Context, userID string) ([]achievement.Unlock, error)
}

// Engine applies awards. Every award for a user runs under that user's
// keyed mutex and inside a single transaction, and all counter updates
// are atomic SQL increments, so concurrent awards cannot lose XP.
type Engine struct {
	store *store.Store
	log   *zap.Logger
	eval  Evaluator
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(st *store.Store, log *zap.Logger) *Engine {
	return &Engine{
		store: st,
		log:   log,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
}

// SetEvaluator wires the achievement pass. Without one, awards still
// work and simply report no unlocks.
func (e *Engine) SetEvaluator(ev Evaluator) {
	e.eval = ev
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[userID] = l
	}
	return l
}

// AwardXP applies one completed activity: subject XP and rank, then
// account totals, level, streak and last-study-date, all in one
// transaction. Calling it twice records two awards; the caller guards
// against duplicate completions (see ReviewScheduleRepo.MarkCompleted).
//
// On failure no state changes and the result carries the rank the user
// already had (the lowest rank if none).
func (e *Engine) AwardXP(ctx context.Context, userID, subjectID string, kind ActivityKind, minutes int) (Result, error) {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	now := e.now()
	today := schedule.FormatDate(now)

	res := Result{NewRank: rank.Lowest()}
	err := e.store.InTx(ctx, func(r *store.Repos) error {
		stats, err := r.Stats.Get(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		// Streak bonus keys off the state before this award.
		streakActive := stats != nil && stats.StreakDays > 0
		gained := XPFor(kind, minutes, streakActive)

		prevRank := rank.Lowest()
		if m, err := r.Mastery.Get(ctx, userID, subjectID); err == nil {
			prevRank = rank.Rank(m.Rank)
			res.NewRank = prevRank
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		subjectXP, err := r.Mastery.AddXP(ctx, userID, subjectID, gained, now)
		if err != nil {
			return err
		}
		newRank := rank.ForXP(subjectXP)
		if newRank != prevRank {
			if err := r.Mastery.SetRank(ctx, userID, subjectID, string(newRank), now); err != nil {
				return err
			}
		}

		streakDays := e.nextStreak(stats, now)

		prevTotal, prevLevel := 0, 1
		if stats != nil {
			prevTotal, prevLevel = stats.TotalXP, stats.CurrentLevel
		}
		if err := r.Stats.ApplyAward(ctx, userID, gained, streakDays, today, now); err != nil {
			return err
		}
		newLevel := (prevTotal+gained)/1000 + 1

		res = Result{
			Success:    true,
			XPGained:   gained,
			SubjectXP:  subjectXP,
			NewRank:    newRank,
			RankedUp:   rank.Ordinal(newRank) > rank.Ordinal(prevRank),
			NewLevel:   newLevel,
			LeveledUp:  newLevel > prevLevel,
			StreakDays: streakDays,
		}
		return nil
	})
	if err != nil {
		e.log.Error("award failed",
			zap.String("user", userID),
			zap.String("subject", subjectID),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return res, err
	}

	if res.RankedUp {
		e.log.Info("rank up",
			zap.String("user", userID),
			zap.String("subject", subjectID),
			zap.String("rank", string(res.NewRank)))
	}

	// Achievement evaluation runs after the award has committed and can
	// never roll it back; a failure here is logged and the award stands.
	if e.eval != nil {
		unlocks, err := e.eval.Evaluate(ctx, userID)
		if err != nil {
			e.log.Warn("achievement evaluation failed",
				zap.String("user", userID), zap.Error(err))
		} else {
			res.Unlocked = unlocks
		}
	}
	return res, nil
}

// nextStreak applies the daily streak transition: first event ever
// starts at 1, a same-day event leaves it unchanged, a consecutive day
// extends it, any gap resets to 1.
func (e *Engine) nextStreak(stats *store.UserStats, now time.Time) int {
	if stats == nil || stats.LastStudyDate == nil {
		return 1
	}
	last, err := schedule.ParseDate(*stats.LastStudyDate)
	if err != nil {
		e.log.Warn("unparseable last study date, resetting streak",
			zap.String("date", *stats.LastStudyDate))
		return 1
	}
	// Round-trip now through the storage form so both dates share a
	// location and the gap counts whole calendar days.
	today, _ := schedule.ParseDate(schedule.FormatDate(now))
	switch gap := schedule.DaysBetween(last, today); {
	case gap == 0:
		return stats.StreakDays
	case gap == 1:
		return stats.StreakDays + 1
	default:
		return 1
	}
}
