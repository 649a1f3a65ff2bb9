package cmd

import (
	"fmt"

	"BooksApp/app/services"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the active invoice ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := services.NewInvoiceService().GetStatistics()
		if err != nil {
			return err
		}
		fmt.Printf("Invoices:  %d (total %s)\n", stats.TotalInvoices, stats.TotalAmount.StringFixed(2))
		fmt.Printf("  Paid:    %d (%s)\n", stats.PaidInvoices, stats.PaidAmount.StringFixed(2))
		fmt.Printf("  Unpaid:  %d (%s)\n", stats.UnpaidInvoices, stats.UnpaidAmount.StringFixed(2))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
