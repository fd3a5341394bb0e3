package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hikaru/benkyo/internal/schedule"
	"github.com/hikaru/benkyo/internal/ui/theme"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List today's due reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		today := time.Now()
		due, err := a.svc.DueReviews(cmd.Context(), a.userID, today)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Println(theme.Hint.Render("Nothing due today."))
			return nil
		}

		fmt.Println(theme.Title.Render(fmt.Sprintf("%d review(s) due", len(due))))
		for _, d := range due {
			tag := ""
			if d.ScheduledDate < schedule.FormatDate(today) {
				tag = theme.Negative.Render(" overdue")
			}
			chapter := ""
			if d.ChapterName != nil {
				chapter = *d.ChapterName + " / "
			}
			fmt.Printf("  %s  [%s] %s%s (review %d/%d, %s)%s\n",
				theme.Subtitle.Render(d.ScheduleID[:8]),
				d.SubjectName, chapter, d.ItemName,
				d.ReviewNumber, schedule.ReviewCount, d.ScheduledDate, tag)
		}
		fmt.Println(theme.Hint.Render("Complete one with: benkyo review done <id>"))
		return nil
	},
}

var reviewDoneCmd = &cobra.Command{
	Use:   "done <schedule-id>",
	Short: "Complete a due review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := resolveScheduleID(cmd, a, args[0])
		if err != nil {
			return err
		}
		rec, err := a.svc.CompleteReview(cmd.Context(), a.userID, id)
		if err != nil {
			return err
		}
		fmt.Println(theme.Positive.Render("Review completed."))
		printAward(rec.Award)
		return nil
	},
}

// resolveScheduleID accepts the short prefix printed by `benkyo review`
// as well as a full schedule id.
func resolveScheduleID(cmd *cobra.Command, a *app, arg string) (string, error) {
	due, err := a.svc.DueReviews(cmd.Context(), a.userID, time.Now())
	if err != nil {
		return "", err
	}
	var match string
	for _, d := range due {
		if d.ScheduleID == arg {
			return arg, nil
		}
		if len(arg) >= 4 && len(d.ScheduleID) >= len(arg) && d.ScheduleID[:len(arg)] == arg {
			if match != "" {
				return "", fmt.Errorf("prefix %q is ambiguous", arg)
			}
			match = d.ScheduleID
		}
	}
	if match == "" {
		// Not in the due queue; let the service decide (it may be an
		// already-completed or unknown entry, each with its own error).
		return arg, nil
	}
	return match, nil
}

func init() {
	reviewCmd.AddCommand(reviewDoneCmd)
}
