package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hikaru/benkyo/internal/ui/theme"
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "List titles and badges with unlock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		r := a.store.Repos()

		titles, err := r.Achievements.Titles(ctx)
		if err != nil {
			return err
		}
		badges, err := r.Achievements.Badges(ctx)
		if err != nil {
			return err
		}
		ownedTitles, err := r.Achievements.UserTitleIDs(ctx, a.userID)
		if err != nil {
			return err
		}
		ownedBadges, err := r.Achievements.UserBadgeIDs(ctx, a.userID)
		if err != nil {
			return err
		}

		fmt.Println(theme.Title.Render("Titles"))
		for _, t := range titles {
			mark := theme.Subtitle.Render("  ")
			name := theme.Subtitle.Render(t.Name)
			if ownedTitles[t.ID] {
				mark = theme.Positive.Render("✓ ")
				name = theme.RarityStyle(t.Rarity).Render(t.Name)
			}
			fmt.Printf("%s%s  %s — %s\n", mark, t.ID, name, t.Description)
		}

		fmt.Println(theme.Title.Render("Badges"))
		for _, b := range badges {
			mark := theme.Subtitle.Render("  ")
			if ownedBadges[b.ID] {
				mark = theme.Positive.Render("✓ ")
			}
			fmt.Printf("%s%s %s — %s\n", mark, b.Icon, b.Name, b.Description)
		}
		return nil
	},
}

var titlesEquipCmd = &cobra.Command{
	Use:   "equip <title-id>",
	Short: "Equip an earned title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		title, err := a.svc.EquipTitle(cmd.Context(), a.userID, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Equipped %s\n", theme.RarityStyle(title.Rarity).Render("« "+title.Name+" »"))
		return nil
	},
}

func init() {
	titlesCmd.AddCommand(titlesEquipCmd)
}
