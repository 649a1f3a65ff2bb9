package cmd

import (
	"fmt"

	"BooksApp/app/services"

	"github.com/spf13/cobra"
)

var dueDays int

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List unpaid invoices due within the notification window",
	RunE: func(cmd *cobra.Command, args []string) error {
		days := dueDays
		if days <= 0 {
			ns, err := services.NewSettingsService().LoadNotificationSettings()
			if err != nil {
				return err
			}
			days = ns.Days
		}

		invoices, err := services.NewInvoiceService().GetDueWithin(days)
		if err != nil {
			return err
		}
		if len(invoices) == 0 {
			fmt.Printf("No invoices due within %d days\n", days)
			return nil
		}
		for _, inv := range invoices {
			fmt.Printf("#%d  due %s  %s  %s\n", inv.ID, inv.DueDate, inv.VendorName, inv.Amount.StringFixed(2))
		}
		return nil
	},
}

func init() {
	dueCmd.Flags().IntVar(&dueDays, "days", 0, "override the lookahead window in days")
	rootCmd.AddCommand(dueCmd)
}
