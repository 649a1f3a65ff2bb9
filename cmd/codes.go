package cmd

import (
	"fmt"

	"BooksApp/app/services"

	"github.com/spf13/cobra"
)

var repairCodesCmd = &cobra.Command{
	Use:   "repair-codes",
	Short: "Normalize vendor, customer and article codes",
	Long: `Re-run the business-code repair: numeric codes are padded to four
digits, rows with missing or non-numeric codes receive the next free
sequence number in ascending id order. The repair also runs automatically
on every start; this command exists for checking a store copied in from
elsewhere.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.NewSequenceService().RepairAllCodes(); err != nil {
			return err
		}
		fmt.Println("Business codes normalized.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(repairCodesCmd)
}
