package tracker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hikaru/benkyo/internal/achievement"
	"github.com/hikaru/benkyo/internal/progression"
	"github.com/hikaru/benkyo/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	log := zap.NewNop()
	engine := progression.NewEngine(s, log)
	engine.SetEvaluator(achievement.NewEvaluator(s, log))
	svc := New(s, engine, log)

	ctx := context.Background()
	r := s.Repos()
	mustSeed := func(err error) {
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	mustSeed(r.Catalog.SeedSubject(ctx, store.Subject{ID: "fin", ExamType: "tantoushiki", Name: "Financial Accounting", OrderIndex: 1}))
	mustSeed(r.Catalog.SeedChapter(ctx, store.Chapter{ID: "fin-1", SubjectID: "fin", Name: "Bookkeeping Basics", OrderIndex: 1}))
	mustSeed(r.Catalog.SeedTopic(ctx, store.Topic{ID: "fin-1-1", ChapterID: "fin-1", Name: "Double-entry principles", OrderIndex: 1}))
	mustSeed(r.Catalog.SeedPracticeExam(ctx, store.PracticeExam{ID: "fin-ex1", SubjectID: "fin", Name: "Mock Exam 1", ExamNumber: 1}))
	mustSeed(r.Achievements.SeedTitle(ctx, store.Title{ID: "novice", Name: "Novice", Rarity: "common", RequirementType: "default", GearPoints: 10}))
	return svc, s
}

func fixDay(svc *Service, day string) {
	ts, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	svc.now = func() time.Time { return ts.Add(9 * time.Hour) }
}

func TestRecordStudy(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	fixDay(svc, "2026-03-01")

	rec, err := svc.RecordStudy(ctx, "alice", "fin-1-1", 25)
	if err != nil {
		t.Fatalf("record study: %v", err)
	}
	if !rec.Award.Success {
		t.Fatal("expected successful award")
	}
	if rec.Award.XPGained != 75 {
		t.Errorf("xp gained = %d, want 75", rec.Award.XPGained)
	}
	if len(rec.Reviews) != 5 {
		t.Fatalf("reviews = %d, want 5", len(rec.Reviews))
	}
	wantDates := []string{"2026-03-02", "2026-03-04", "2026-03-08", "2026-03-15", "2026-03-31"}
	for i, rs := range rec.Reviews {
		if rs.ScheduledDate != wantDates[i] {
			t.Errorf("review %d date = %s, want %s", i+1, rs.ScheduledDate, wantDates[i])
		}
	}

	ev, err := s.Repos().Events.ByID(ctx, rec.EventID)
	if err != nil {
		t.Fatalf("load event: %v", err)
	}
	if ev.Kind != store.KindTopic || ev.SubjectID != "fin" || ev.StudyMinutes != 25 {
		t.Errorf("event = %+v", ev)
	}

	// The default title unlocks on the first award.
	found := false
	for _, u := range rec.Award.Unlocked {
		if u.ID == "novice" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected novice unlock, got %+v", rec.Award.Unlocked)
	}
}

func TestRecordStudyUnknownTopic(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.RecordStudy(context.Background(), "alice", "no-such-topic", 25)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRecordSameTopicTwiceIsTwoEvents(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	fixDay(svc, "2026-03-01")

	for i := 0; i < 2; i++ {
		if _, err := svc.RecordStudy(ctx, "alice", "fin-1-1", 10); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	events, err := s.Repos().Events.ListByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("events = %d, want 2 (completions are immutable facts)", len(events))
	}
}

func TestRecordExam(t *testing.T) {
	svc, _ := newTestService(t)
	fixDay(svc, "2026-03-01")

	rec, err := svc.RecordExam(context.Background(), "alice", "fin-ex1", 60)
	if err != nil {
		t.Fatalf("record exam: %v", err)
	}
	if rec.Award.XPGained != 160 {
		t.Errorf("xp gained = %d, want 160", rec.Award.XPGained)
	}
	if len(rec.Reviews) != 5 {
		t.Errorf("reviews = %d, want 5", len(rec.Reviews))
	}
}

func TestCompleteReviewFlow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	fixDay(svc, "2026-03-01")

	rec, err := svc.RecordStudy(ctx, "alice", "fin-1-1", 20)
	if err != nil {
		t.Fatalf("record study: %v", err)
	}

	// Next day: exactly the first review is due.
	fixDay(svc, "2026-03-02")
	day2, _ := time.Parse("2006-01-02", "2026-03-02")
	due, err := svc.DueReviews(ctx, "alice", day2)
	if err != nil {
		t.Fatalf("due reviews: %v", err)
	}
	if len(due) != 1 || due[0].ReviewNumber != 1 {
		t.Fatalf("due = %+v", due)
	}
	if due[0].ItemName != "Double-entry principles" {
		t.Errorf("item name = %q", due[0].ItemName)
	}

	done, err := svc.CompleteReview(ctx, "alice", due[0].ScheduleID)
	if err != nil {
		t.Fatalf("complete review: %v", err)
	}
	// Base 30 with active streak: round(30*1.2).
	if done.Award.XPGained != 36 {
		t.Errorf("review xp = %d, want 36", done.Award.XPGained)
	}
	if done.EventID != rec.EventID {
		t.Errorf("event id = %s, want %s", done.EventID, rec.EventID)
	}

	// Retrying the same completion is refused before any XP moves.
	_, err = svc.CompleteReview(ctx, "alice", due[0].ScheduleID)
	if !errors.Is(err, store.ErrAlreadyCompleted) {
		t.Fatalf("second completion err = %v, want ErrAlreadyCompleted", err)
	}

	due, err = svc.DueReviews(ctx, "alice", day2)
	if err != nil {
		t.Fatalf("due reviews: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("queue after completion = %+v", due)
	}
}

func TestCompleteReviewWrongUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	fixDay(svc, "2026-03-01")

	rec, err := svc.RecordStudy(ctx, "alice", "fin-1-1", 20)
	if err != nil {
		t.Fatalf("record study: %v", err)
	}
	_, err = svc.CompleteReview(ctx, "mallory", rec.Reviews[0].ID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for another user's entry", err)
	}
}

func TestMissedReviewsStayDue(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	fixDay(svc, "2026-03-01")

	if _, err := svc.RecordStudy(ctx, "alice", "fin-1-1", 20); err != nil {
		t.Fatalf("record study: %v", err)
	}

	// A week later the day-1, day-3 and day-7 reviews are all pending.
	day8, _ := time.Parse("2006-01-02", "2026-03-08")
	due, err := svc.DueReviews(ctx, "alice", day8)
	if err != nil {
		t.Fatalf("due reviews: %v", err)
	}
	if len(due) != 3 {
		t.Fatalf("due = %d entries, want 3 (missed ones never vanish)", len(due))
	}
	for i, d := range due {
		if d.ReviewNumber != i+1 {
			t.Errorf("entry %d: review number = %d", i, d.ReviewNumber)
		}
	}
}

func TestProfileGrantsDefaultTitleOnFirstAccess(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	fixDay(svc, "2026-03-01")

	p, err := svc.Profile(ctx, "alice")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Level != 1 || p.TotalXP != 0 {
		t.Errorf("fresh profile = %+v", p)
	}
	if p.EquippedTitle == nil || p.EquippedTitle.ID != "novice" {
		t.Fatalf("equipped = %+v, want the default title", p.EquippedTitle)
	}
	if p.TitlesEarned != 1 || p.TitlesTotal != 1 {
		t.Errorf("titles = %d/%d", p.TitlesEarned, p.TitlesTotal)
	}
}

func TestEquipTitle(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	fixDay(svc, "2026-03-01")

	err := s.Repos().Achievements.SeedTitle(ctx, store.Title{
		ID: "warrior", Name: "Week Warrior", Rarity: "rare", RequirementType: "streak",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Not unlocked yet.
	_, err = svc.EquipTitle(ctx, "alice", "warrior")
	if !errors.Is(err, ErrNotEarned) {
		t.Fatalf("err = %v, want ErrNotEarned", err)
	}
	_, err = svc.EquipTitle(ctx, "alice", "no-such-title")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := s.Repos().Achievements.GrantTitle(ctx, "alice", "warrior", time.Now()); err != nil {
		t.Fatalf("grant: %v", err)
	}
	title, err := svc.EquipTitle(ctx, "alice", "warrior")
	if err != nil {
		t.Fatalf("equip: %v", err)
	}
	if title.ID != "warrior" {
		t.Errorf("equipped = %s", title.ID)
	}

	p, err := svc.Profile(ctx, "alice")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.EquippedTitle == nil || p.EquippedTitle.ID != "warrior" {
		t.Errorf("profile equipped = %+v", p.EquippedTitle)
	}
}

func TestMasteriesIncludeUntouchedSubjects(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	fixDay(svc, "2026-03-01")

	err := s.Repos().Catalog.SeedSubject(ctx, store.Subject{
		ID: "mgmt", ExamType: "tantoushiki", Name: "Management Accounting", OrderIndex: 2,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.RecordStudy(ctx, "alice", "fin-1-1", 20); err != nil {
		t.Fatalf("record study: %v", err)
	}

	list, err := svc.Masteries(ctx, "alice")
	if err != nil {
		t.Fatalf("masteries: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %d entries, want 2", len(list))
	}
	if list[0].Subject.ID != "fin" || list[0].Mastery == nil || list[0].Mastery.CurrentXP != 70 {
		t.Errorf("fin progress = %+v", list[0])
	}
	if list[0].TopicsStudied != 1 || list[0].TopicsTotal != 1 || list[0].ExamsDone != 0 || list[0].ExamsTotal != 1 {
		t.Errorf("fin coverage = %+v", list[0])
	}
	if list[1].Subject.ID != "mgmt" || list[1].Mastery != nil {
		t.Errorf("mgmt progress = %+v", list[1])
	}
}
