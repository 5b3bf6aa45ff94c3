package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Inspect and restore pre-switch backups",
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		entries, err := a.backups.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No backups.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Profile", "Files", "Created"})
		for _, e := range entries {
			table.Append([]string{
				e.ID,
				e.ProfileName,
				strconv.Itoa(len(e.Files)),
				e.Timestamp.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

var backupRestoreYes bool

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <backup-id>",
	Short: "Restore every file recorded in a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		id := args[0]
		if !backupRestoreYes {
			confirm := false
			err := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Overwrite current files with backup %s?", id)).
						Value(&confirm),
				),
			).Run()
			if err != nil {
				return err
			}
			if !confirm {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := a.backups.Restore(id); err != nil {
			return err
		}
		fmt.Printf("Restored backup %s\n", id)
		return nil
	},
}

func init() {
	backupRestoreCmd.Flags().BoolVarP(&backupRestoreYes, "yes", "y", false, "Skip confirmation")

	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
}
