// Package achievement evaluates title and badge unlock requirements
// against persisted progress and grants unearned ones exactly once.
package achievement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hikaru/benkyo/internal/rank"
	"github.com/hikaru/benkyo/internal/store"
)

// Requirement types understood by the evaluator. Definitions carrying
// any other type never unlock.
const (
	ReqDefault      = "default"       // granted unconditionally
	ReqSubjectRank  = "subject_rank"  // rank threshold for one subject, major letter only
	ReqStreak       = "streak"        // streak_days >= value
	ReqTotalMinutes = "total_minutes" // lifetime study minutes >= value
	ReqAllSubjects  = "all_subjects"  // every subject at fine ordinal >= value
)

// Rarity tiers carried by title definitions, display metadata only.
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Unlock kinds.
const (
	KindTitle = "title"
	KindBadge = "badge"
)

// Unlock reports one freshly granted title or badge.
type Unlock struct {
	Kind       string
	ID         string
	Name       string
	GearPoints int
}

// requirement is the predicate shape shared by titles and badges.
type requirement struct {
	Type      string
	SubjectID *string
	Rank      *string
	Value     *int
}

// snapshot is the persisted state a single evaluation pass reads once
// up front. Predicates are pure over it.
type snapshot struct {
	stats        *store.UserStats // nil if the user has no stats row yet
	masteries    map[string]store.SubjectMastery
	subjects     []store.Subject
	totalMinutes int
}

// Evaluator scans the catalogs and grants whatever the user newly
// qualifies for. Grants are one-shot: an existing unlock record is
// never re-granted and gear points are never re-credited.
type Evaluator struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewEvaluator(st *store.Store, log *zap.Logger) *Evaluator {
	return &Evaluator{store: st, log: log, now: time.Now}
}

// Evaluate runs one pass for the user and returns the new unlocks in
// catalog order, titles before badges. Each grant commits in its own
// transaction together with its gear point credit, so a failure midway
// leaves earlier grants intact and later ones for the next pass.
func (e *Evaluator) Evaluate(ctx context.Context, userID string) ([]Unlock, error) {
	r := e.store.Repos()

	snap, err := e.loadSnapshot(ctx, r, userID)
	if err != nil {
		return nil, err
	}

	titles, err := r.Achievements.Titles(ctx)
	if err != nil {
		return nil, err
	}
	badges, err := r.Achievements.Badges(ctx)
	if err != nil {
		return nil, err
	}
	ownedTitles, err := r.Achievements.UserTitleIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	ownedBadges, err := r.Achievements.UserBadgeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	var unlocks []Unlock
	for _, t := range titles {
		if ownedTitles[t.ID] {
			continue
		}
		req := requirement{Type: t.RequirementType, SubjectID: t.RequirementSubjectID,
			Rank: t.RequirementRank, Value: t.RequirementValue}
		if !e.met(userID, t.ID, req, snap) {
			continue
		}
		if err := e.grant(ctx, userID, KindTitle, t.ID, t.GearPoints); err != nil {
			return unlocks, fmt.Errorf("grant title %s: %w", t.ID, err)
		}
		unlocks = append(unlocks, Unlock{Kind: KindTitle, ID: t.ID, Name: t.Name, GearPoints: t.GearPoints})
	}
	for _, b := range badges {
		if ownedBadges[b.ID] {
			continue
		}
		req := requirement{Type: b.RequirementType, SubjectID: b.RequirementSubjectID,
			Rank: b.RequirementRank, Value: b.RequirementValue}
		if !e.met(userID, b.ID, req, snap) {
			continue
		}
		if err := e.grant(ctx, userID, KindBadge, b.ID, b.GearPoints); err != nil {
			return unlocks, fmt.Errorf("grant badge %s: %w", b.ID, err)
		}
		unlocks = append(unlocks, Unlock{Kind: KindBadge, ID: b.ID, Name: b.Name, GearPoints: b.GearPoints})
	}
	return unlocks, nil
}

func (e *Evaluator) loadSnapshot(ctx context.Context, r *store.Repos, userID string) (*snapshot, error) {
	snap := &snapshot{masteries: make(map[string]store.SubjectMastery)}

	stats, err := r.Stats.Get(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	snap.stats = stats

	masteries, err := r.Mastery.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, m := range masteries {
		snap.masteries[m.SubjectID] = m
	}

	snap.subjects, err = r.Catalog.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	snap.totalMinutes, err = r.Events.TotalMinutes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// met evaluates one requirement against the snapshot. Malformed
// definitions (missing fields, unknown types, references to subjects
// not in the catalog) are logged and evaluate false rather than abort
// the pass.
func (e *Evaluator) met(userID, defID string, req requirement, snap *snapshot) bool {
	switch req.Type {
	case ReqDefault:
		return true

	case ReqSubjectRank:
		if req.SubjectID == nil || req.Rank == nil {
			e.malformed(defID, req.Type)
			return false
		}
		if !e.subjectExists(*req.SubjectID, snap) {
			e.log.Warn("achievement references unknown subject",
				zap.String("definition", defID),
				zap.String("subject", *req.SubjectID))
			return false
		}
		m, ok := snap.masteries[*req.SubjectID]
		if !ok {
			return false
		}
		// Major letter bucket only: A- counts the same as A+.
		return rank.MajorOrdinal(rank.Rank(m.Rank)) >= rank.MajorOrdinal(rank.Rank(*req.Rank))

	case ReqStreak:
		if req.Value == nil {
			e.malformed(defID, req.Type)
			return false
		}
		return snap.stats != nil && snap.stats.StreakDays >= *req.Value

	case ReqTotalMinutes:
		if req.Value == nil {
			e.malformed(defID, req.Type)
			return false
		}
		return snap.totalMinutes >= *req.Value

	case ReqAllSubjects:
		if req.Value == nil {
			e.malformed(defID, req.Type)
			return false
		}
		if len(snap.subjects) == 0 {
			return false
		}
		// Every catalog subject must have a mastery record at or above
		// the fine ordinal (sub-grades distinct, C-=0 .. S+9=19).
		for _, s := range snap.subjects {
			m, ok := snap.masteries[s.ID]
			if !ok {
				return false
			}
			if rank.Ordinal(rank.Rank(m.Rank)) < *req.Value {
				return false
			}
		}
		return true

	default:
		e.log.Warn("unknown achievement requirement type",
			zap.String("definition", defID),
			zap.String("type", req.Type),
			zap.String("user", userID))
		return false
	}
}

func (e *Evaluator) subjectExists(subjectID string, snap *snapshot) bool {
	for _, s := range snap.subjects {
		if s.ID == subjectID {
			return true
		}
	}
	return false
}

func (e *Evaluator) malformed(defID, reqType string) {
	e.log.Warn("malformed achievement definition",
		zap.String("definition", defID),
		zap.String("type", reqType))
}

// grant records the unlock and credits its gear points atomically.
func (e *Evaluator) grant(ctx context.Context, userID, kind, defID string, gearPoints int) error {
	now := e.now()
	return e.store.InTx(ctx, func(r *store.Repos) error {
		var err error
		switch kind {
		case KindTitle:
			err = r.Achievements.GrantTitle(ctx, userID, defID, now)
		case KindBadge:
			err = r.Achievements.GrantBadge(ctx, userID, defID, now)
		}
		if err != nil {
			return err
		}
		if gearPoints > 0 {
			return r.Stats.AddGearPoints(ctx, userID, gearPoints, now)
		}
		return nil
	})
}
