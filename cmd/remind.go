package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hikaru/benkyo/internal/remind"
)

var remindAt string

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the daily review digest",
	Long:  "Stays in the foreground and prints the due review queue once a day.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		at := a.cfg.RemindAt
		if remindAt != "" {
			at = remindAt
		}

		r := remind.New(a.svc, a.log, a.userID, os.Stdout)
		if err := r.Start(at); err != nil {
			return err
		}
		defer r.Stop()
		fmt.Printf("Reminding daily at %s. Ctrl-C to stop.\n", at)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return nil
	},
}

func init() {
	remindCmd.Flags().StringVar(&remindAt, "at", "", "Daily digest time, HH:MM (overrides BENKYO_REMIND_AT)")
}
