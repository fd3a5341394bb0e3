package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hikaru/benkyo/internal/ui/theme"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the player card",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.svc.Profile(cmd.Context(), a.userID)
		if err != nil {
			return err
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s\n", theme.Title.Render(p.UserID))
		if p.EquippedTitle != nil {
			fmt.Fprintf(&b, "%s\n", theme.RarityStyle(p.EquippedTitle.Rarity).Render("« "+p.EquippedTitle.Name+" »"))
		}
		fmt.Fprintf(&b, "\nLevel %d — %d XP total\n", p.Level, p.TotalXP)
		fmt.Fprintf(&b, "Streak: %d day(s)\n", p.StreakDays)
		fmt.Fprintf(&b, "Gear points: %d\n", p.GearPoints)
		fmt.Fprintf(&b, "Study time: %dh %dm\n", p.TotalMinutes/60, p.TotalMinutes%60)
		fmt.Fprintf(&b, "Titles: %d/%d", p.TitlesEarned, p.TitlesTotal)

		fmt.Println(theme.Card.Render(b.String()))
		return nil
	},
}
