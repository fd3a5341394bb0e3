// Package schedule produces the fixed review calendar that follows a
// completed study event. Pure date arithmetic; no I/O.
package schedule

import "time"

// ReviewOffsets defines the forgetting-curve offsets in days from the
// study date. ReviewNumber is the 1-based index into this list.
var ReviewOffsets = []int{1, 3, 7, 14, 30}

// ReviewCount is the number of reviews scheduled per study event.
const ReviewCount = 5

// DateLayout is the calendar-date form exchanged with the store.
const DateLayout = "2006-01-02"

// PlannedReview is one entry of the review calendar for a study event.
type PlannedReview struct {
	ReviewNumber  int
	ScheduledDate time.Time
}

// Reviews returns the full review calendar for a study date: exactly
// ReviewCount entries with strictly increasing dates at the fixed
// offsets. The time-of-day component of studyDate is discarded; the
// same date always yields the same calendar.
func Reviews(studyDate time.Time) []PlannedReview {
	day := DateOnly(studyDate)
	planned := make([]PlannedReview, len(ReviewOffsets))
	for i, offset := range ReviewOffsets {
		planned[i] = PlannedReview{
			ReviewNumber:  i + 1,
			ScheduledDate: day.AddDate(0, 0, offset),
		}
	}
	return planned
}

// IsDue reports whether a schedule entry is part of today's review
// queue: scheduled for today and not yet completed. Entries missed on
// their day stay incomplete and remain actionable; callers that want
// the full backlog should compare with IsOverdue as well.
func IsDue(scheduledDate time.Time, completed bool, today time.Time) bool {
	return !completed && SameDay(scheduledDate, today)
}

// IsOverdue reports whether an incomplete entry's date has passed.
func IsOverdue(scheduledDate time.Time, completed bool, today time.Time) bool {
	return !completed && DateOnly(scheduledDate).Before(DateOnly(today))
}

// DateOnly truncates a timestamp to calendar-day granularity.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// FormatDate renders a timestamp as YYYY-MM-DD for storage.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DaysBetween returns the whole calendar days from a to b (b - a).
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
