package cmd

import (
	"fmt"
	"os"

	"BooksApp/app/config"
	"BooksApp/app/logger"

	"github.com/spf13/cobra"
)

var appCfg *config.AppConfig

var rootCmd = &cobra.Command{
	Use:   "booksapp",
	Short: "Bookkeeping ledger maintenance commands",
	Long: `BooksApp tracks vendor invoices, proforma invoices, utility bills and
daily revenue in a single local store. This CLI covers the maintenance
operations: backups, business-code repair and ledger reports. The GUI is a
separate surface over the same store.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the CLI against an initialized store.
func Execute(cfg *config.AppConfig) {
	appCfg = cfg
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
