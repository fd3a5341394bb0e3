package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hikaru/benkyo/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export study history and mastery to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := export.WriteWorkbook(cmd.Context(), a.store, a.userID, args[0]); err != nil {
			return err
		}
		fmt.Println("Exported to", args[0])
		return nil
	},
}
