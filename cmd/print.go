package cmd

import (
	"fmt"

	"github.com/hikaru/benkyo/internal/achievement"
	"github.com/hikaru/benkyo/internal/progression"
	"github.com/hikaru/benkyo/internal/ui/theme"
)

// printAward renders the outcome of one XP award.
func printAward(res progression.Result) {
	fmt.Printf("%s %s\n",
		theme.Positive.Render(fmt.Sprintf("+%d XP", res.XPGained)),
		theme.Subtitle.Render(fmt.Sprintf("(subject total %d)", res.SubjectXP)))

	if res.RankedUp {
		fmt.Printf("%s %s\n",
			theme.Highlight.Render("RANK UP!"),
			theme.RankStyle(res.NewRank).Render(string(res.NewRank)))
	}
	if res.LeveledUp {
		fmt.Println(theme.Highlight.Render(fmt.Sprintf("Level up! Now level %d", res.NewLevel)))
	}
	if res.StreakDays > 1 {
		fmt.Println(theme.Body.Render(fmt.Sprintf("🔥 %d-day streak", res.StreakDays)))
	}
	printUnlocks(res.Unlocked)
}

func printUnlocks(unlocks []achievement.Unlock) {
	for _, u := range unlocks {
		label := "Title unlocked"
		if u.Kind == achievement.KindBadge {
			label = "Badge earned"
		}
		fmt.Printf("%s: %s (+%d gear)\n",
			theme.Highlight.Render(label), u.Name, u.GearPoints)
	}
}
