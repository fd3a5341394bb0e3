package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hikaru/benkyo/internal/rank"
	"github.com/hikaru/benkyo/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-subject mastery",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.svc.Masteries(cmd.Context(), a.userID)
		if err != nil {
			return err
		}

		fmt.Println(theme.TableHeader.Render(fmt.Sprintf("%-28s %-5s %8s %10s %9s %8s %7s",
			"Subject", "Rank", "XP", "Progress", "To next", "Topics", "Exams")))
		for _, sp := range list {
			coverage := fmt.Sprintf("%5d/%-2d %4d/%-2d",
				sp.TopicsStudied, sp.TopicsTotal, sp.ExamsDone, sp.ExamsTotal)
			if sp.Mastery == nil {
				fmt.Printf("%-28s %-5s %8s %10s %9s %s\n",
					sp.Subject.Name, theme.Hint.Render("—"), "0", "", "", coverage)
				continue
			}
			r := rank.Rank(sp.Mastery.Rank)
			fmt.Printf("%-28s %s %8d %9d%% %9d %s\n",
				sp.Subject.Name,
				theme.RankStyle(r).Render(fmt.Sprintf("%-5s", r)),
				sp.Mastery.CurrentXP,
				rank.ProgressWithinRank(sp.Mastery.CurrentXP),
				rank.XPToNext(sp.Mastery.CurrentXP),
				coverage)
		}
		return nil
	},
}
