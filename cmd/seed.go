package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hikaru/benkyo/internal/catalog"
)

var seedCmd = &cobra.Command{
	Use:   "seed [catalog.json]",
	Short: "Load a study catalog (defaults to the built-in one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		var f *catalog.File
		if len(args) == 1 {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}
			f, err = catalog.Load(data)
			if err != nil {
				return err
			}
		} else {
			f, err = catalog.Default()
			if err != nil {
				return err
			}
		}

		sum, err := catalog.Seed(cmd.Context(), a.store, f)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d subjects, %d chapters, %d topics, %d exams, %d titles, %d badges\n",
			sum.Subjects, sum.Chapters, sum.Topics, sum.Exams, sum.Titles, sum.Badges)
		return nil
	},
}
