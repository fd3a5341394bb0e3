package achievement

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hikaru/benkyo/internal/store"
)

func newTestEvaluator(t *testing.T) (*Evaluator, *store.Store) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewEvaluator(s, zap.NewNop()), s
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func seedSubjects(t *testing.T, s *store.Store, ids ...string) {
	t.Helper()
	ctx := context.Background()
	for i, id := range ids {
		err := s.Repos().Catalog.SeedSubject(ctx, store.Subject{
			ID: id, ExamType: "tantoushiki", Name: id, OrderIndex: i,
		})
		if err != nil {
			t.Fatalf("seed subject %s: %v", id, err)
		}
	}
}

func TestDefaultTitleGrantsOnce(t *testing.T) {
	e, s := newTestEvaluator(t)
	ctx := context.Background()

	err := s.Repos().Achievements.SeedTitle(ctx, store.Title{
		ID: "novice", Name: "Novice", Rarity: RarityCommon,
		RequirementType: ReqDefault, GearPoints: 50,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	unlocks, err := e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocks) != 1 || unlocks[0].ID != "novice" || unlocks[0].Kind != KindTitle {
		t.Fatalf("unlocks = %+v", unlocks)
	}

	// Second pass grants nothing and credits nothing.
	unlocks, err = e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(unlocks) != 0 {
		t.Fatalf("second pass unlocks = %+v", unlocks)
	}
	st, err := s.Repos().Stats.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.GearPoints != 50 {
		t.Errorf("gear points = %d, want 50 (credited once)", st.GearPoints)
	}
}

func TestSubjectRankComparesMajorLetterOnly(t *testing.T) {
	e, s := newTestEvaluator(t)
	ctx := context.Background()
	seedSubjects(t, s, "fin")

	err := s.Repos().Achievements.SeedTitle(ctx, store.Title{
		ID: "fin-ace", Name: "Accounting Ace", Rarity: RarityEpic,
		RequirementType: ReqSubjectRank,
		RequirementSubjectID: strPtr("fin"), RequirementRank: strPtr("A"),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// No mastery record yet: not met.
	unlocks, err := e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocks) != 0 {
		t.Fatalf("unexpected unlocks %+v", unlocks)
	}

	// A- is in the A bucket, so it satisfies a required rank of A.
	now := time.Now()
	if _, err := s.Repos().Mastery.AddXP(ctx, "alice", "fin", 8000, now); err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if err := s.Repos().Mastery.SetRank(ctx, "alice", "fin", "A-", now); err != nil {
		t.Fatalf("set rank: %v", err)
	}
	unlocks, err = e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocks) != 1 || unlocks[0].ID != "fin-ace" {
		t.Fatalf("unlocks = %+v", unlocks)
	}
}

func TestSubjectRankBelowBucketNotMet(t *testing.T) {
	e, s := newTestEvaluator(t)
	ctx := context.Background()
	seedSubjects(t, s, "fin")

	err := s.Repos().Achievements.SeedTitle(ctx, store.Title{
		ID: "fin-ace", Name: "Accounting Ace", Rarity: RarityEpic,
		RequirementType: ReqSubjectRank,
		RequirementSubjectID: strPtr("fin"), RequirementRank: strPtr("A"),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	now := time.Now()
	if _, err := s.Repos().Mastery.AddXP(ctx, "alice", "fin", 5500, now); err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if err := s.Repos().Mastery.SetRank(ctx, "alice", "fin", "B+", now); err != nil {
		t.Fatalf("set rank: %v", err)
	}
	unlocks, err := e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocks) != 0 {
		t.Fatalf("B+ must not satisfy required rank A: %+v", unlocks)
	}
}

func TestStreakThreshold(t *testing.T) {
	e, s := newTestEvaluator(t)
	ctx := context.Background()

	err := s.Repos().Achievements.SeedBadge(ctx, store.Badge{
		ID: "week-warrior", Name: "Week Warrior", Icon: "🔥",
		RequirementType: ReqStreak, RequirementValue: intPtr(7), GearPoints: 100,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	now := time.Now()
	if err := s.Repos().Stats.ApplyAward(ctx, "alice", 100, 6, "2026-03-06", now); err != nil {
		t.Fatalf("apply award: %v", err)
	}
	unlocks, err := e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocks) != 0 {
		t.Fatalf("streak 6 must not unlock a 7-day badge: %+v", unlocks)
	}

	if err := s.Repos().Stats.ApplyAward(ctx, "alice", 100, 7, "2026-03-07", now); err != nil {
		t.Fatalf("apply award: %v", err)
	}
	unlocks, err = e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocks) != 1 || unlocks[0].ID != "week-warrior" || unlocks[0].Kind != KindBadge {
		t.Fatalf("unlocks = %+v", unlocks)
	}
}

func TestTotalMinutesThreshold(t *testing.T) {
	e, s := newTestEvaluator(t)
	ctx := context.Background()
	seedSubjects(t, s, "fin")

	err := s.Repos().Achievements.SeedTitle(ctx, store.Title{
		ID: "marathoner", Name: "Marathoner", Rarity: RarityRare,
		RequirementType: ReqTotalMinutes, RequirementValue: intPtr(60),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	mkEvent := func(id string, minutes int) {
		err := s.Repos().Events.Create(ctx, &store.StudyEvent{
			ID: id, UserID: "alice", SubjectID: "fin", Kind: store.KindTopic,
			StudyMinutes: minutes, StudiedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	mkEvent("ev-1", 30)
	unlocks, err := e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocks) != 0 {
		t.Fatalf("30 minutes must not unlock a 60-minute title: %+v", unlocks)
	}

	mkEvent("ev-2", 30)
	unlocks, err = e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocks) != 1 || unlocks[0].ID != "marathoner" {
		t.Fatalf("unlocks = %+v", unlocks)
	}
}

func TestAllSubjectsUsesFineOrdinal(t *testing.T) {
	e, s := newTestEvaluator(t)
	ctx := context.Background()
	seedSubjects(t, s, "fin", "mgmt")

	// Fine ordinal 7 = A. A- (ordinal 6) must not count.
	err := s.Repos().Achievements.SeedTitle(ctx, store.Title{
		ID: "all-rounder", Name: "All-Rounder", Rarity: RarityLegendary,
		RequirementType: ReqAllSubjects, RequirementValue: intPtr(7),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	setMastery := func(subjectID, rnk string) {
		now := time.Now()
		if _, err := s.Repos().Mastery.AddXP(ctx, "alice", subjectID, 1, now); err != nil {
			t.Fatalf("add xp: %v", err)
		}
		if err := s.Repos().Mastery.SetRank(ctx, "alice", subjectID, rnk, now); err != nil {
			t.Fatalf("set rank: %v", err)
		}
	}

	// Only one of two subjects has a record: not met.
	setMastery("fin", "S")
	unlocks, err := e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocks) != 0 {
		t.Fatalf("missing subject record must not unlock: %+v", unlocks)
	}

	// Sub-grades are distinct here: A- sits below the A threshold.
	setMastery("mgmt", "A-")
	unlocks, err = e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocks) != 0 {
		t.Fatalf("A- must not satisfy fine ordinal 7: %+v", unlocks)
	}

	setMastery("mgmt", "A")
	unlocks, err = e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocks) != 1 || unlocks[0].ID != "all-rounder" {
		t.Fatalf("unlocks = %+v", unlocks)
	}
}

func TestUnknownSubjectReferenceEvaluatesFalse(t *testing.T) {
	e, s := newTestEvaluator(t)
	ctx := context.Background()

	err := s.Repos().Achievements.SeedTitle(ctx, store.Title{
		ID: "ghost", Name: "Ghost", Rarity: RarityCommon,
		RequirementType: ReqSubjectRank,
		RequirementSubjectID: strPtr("no-such-subject"), RequirementRank: strPtr("C"),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	unlocks, err := e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate must not fail on a dangling reference: %v", err)
	}
	if len(unlocks) != 0 {
		t.Fatalf("dangling reference must evaluate false: %+v", unlocks)
	}
}

func TestMalformedDefinitionSkipped(t *testing.T) {
	e, s := newTestEvaluator(t)
	ctx := context.Background()

	for _, title := range []store.Title{
		{ID: "no-value", Name: "No Value", Rarity: RarityCommon, RequirementType: ReqStreak},
		{ID: "odd-type", Name: "Odd Type", Rarity: RarityCommon, RequirementType: "lottery"},
	} {
		if err := s.Repos().Achievements.SeedTitle(ctx, title); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	unlocks, err := e.Evaluate(ctx, "alice")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocks) != 0 {
		t.Fatalf("malformed definitions must be skipped: %+v", unlocks)
	}
}
