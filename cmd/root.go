package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hikaru/benkyo/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "benkyo",
	Short: "Terminal study tracker with spaced repetition",
	Long: "Benkyo — a terminal study tracker for exam prep: records what you studied,\n" +
		"schedules reviews along the forgetting curve, and turns consistency into\n" +
		"XP, ranks, streaks and titles.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides BENKYO_DB env var)")
	rootCmd.PersistentFlags().String("user", "", "User to track (overrides BENKYO_USER env var)")

	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(examCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(titlesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then BENKYO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
