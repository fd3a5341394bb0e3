package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var studyMinutes int

var studyCmd = &cobra.Command{
	Use:   "study <topic-id>",
	Short: "Record a completed topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.svc.RecordStudy(cmd.Context(), a.userID, args[0], studyMinutes)
		if err != nil {
			return err
		}
		printAward(rec.Award)
		fmt.Printf("Next review: %s\n", rec.Reviews[0].ScheduledDate)
		return nil
	},
}

func init() {
	studyCmd.Flags().IntVarP(&studyMinutes, "minutes", "m", 0, "Minutes spent studying")
}
