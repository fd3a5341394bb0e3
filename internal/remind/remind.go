// Package remind runs the daily review digest.
package remind

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/hikaru/benkyo/internal/tracker"
)

// Reminder prints the user's due review queue once a day at a fixed
// local time.
type Reminder struct {
	scheduler *gocron.Scheduler
	svc       *tracker.Service
	log       *zap.Logger
	userID    string
	out       io.Writer
}

func New(svc *tracker.Service, log *zap.Logger, userID string, out io.Writer) *Reminder {
	return &Reminder{
		scheduler: gocron.NewScheduler(time.Local),
		svc:       svc,
		log:       log,
		userID:    userID,
		out:       out,
	}
}

// Start schedules the daily digest at the given HH:MM local time and
// prints one immediately so starting the reminder is itself useful.
// Returns after scheduling; the job runs on the scheduler's goroutine.
func (r *Reminder) Start(at string) error {
	if _, err := time.Parse("15:04", at); err != nil {
		return fmt.Errorf("invalid reminder time %q (want HH:MM): %w", at, err)
	}
	if _, err := r.scheduler.Every(1).Day().At(at).Do(r.digest); err != nil {
		return fmt.Errorf("schedule digest: %w", err)
	}
	r.scheduler.StartAsync()
	r.digest()
	return nil
}

// Stop terminates the scheduler.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

func (r *Reminder) digest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	due, err := r.svc.DueReviews(ctx, r.userID, time.Now())
	if err != nil {
		r.log.Error("review digest failed", zap.Error(err))
		return
	}
	if len(due) == 0 {
		fmt.Fprintln(r.out, "No reviews due today. Nice and clear.")
		return
	}

	fmt.Fprintf(r.out, "%d review(s) waiting:\n", len(due))
	for _, d := range due {
		fmt.Fprintf(r.out, "  [%s] %s — %s (review %d, scheduled %s)\n",
			d.SubjectName, d.ItemName, d.Kind, d.ReviewNumber, d.ScheduledDate)
	}
}
