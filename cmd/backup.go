package cmd

import (
	"fmt"

	"BooksApp/app/database"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the store file",
	Long: `Write a timestamped copy of the whole store file into the backup
directory. Backups are plain store files; restore simply copies one back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = appCfg.BackupDir
		}
		path, err := database.Backup(dir)
		if err != nil {
			return err
		}
		fmt.Printf("Backup created: %s\n", path)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup-file>",
	Short: "Replace the store with a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Restore(args[0]); err != nil {
			return err
		}
		fmt.Printf("Store restored from %s\n", args[0])
		return nil
	},
}

func init() {
	backupCmd.Flags().String("dir", "", "Backup directory (default: configured backup dir)")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
