package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var examMinutes int

var examCmd = &cobra.Command{
	Use:   "exam <exam-id>",
	Short: "Record a completed practice exam",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.svc.RecordExam(cmd.Context(), a.userID, args[0], examMinutes)
		if err != nil {
			return err
		}
		printAward(rec.Award)
		fmt.Printf("Next review: %s\n", rec.Reviews[0].ScheduledDate)
		return nil
	},
}

func init() {
	examCmd.Flags().IntVarP(&examMinutes, "minutes", "m", 0, "Minutes the exam took")
}
