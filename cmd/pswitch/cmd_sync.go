package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ruminaider/pswitch/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync [profile]",
	Short: "Reconcile stored profile content with disk state",
	Long:  "Reads the files anchored items point at and, where the anchor still matches, updates the stored content from disk. Never writes to disk. Defaults to the active profile.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		var profileID string
		if len(args) == 1 {
			p, err := a.resolveProfile(args[0])
			if err != nil {
				return err
			}
			profileID = p.ID
		} else {
			profileID, err = a.store.ActiveID()
			if err != nil {
				return err
			}
			if profileID == "" {
				return fmt.Errorf("no active profile; pass a profile name")
			}
		}

		results, err := a.sync.SyncProfile(profileID)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("Nothing to sync.")
			return nil
		}

		for _, r := range results {
			printSyncResult(r)
		}
		return nil
	},
}

func printSyncResult(r syncer.Result) {
	switch {
	case r.Synced:
		fmt.Printf("  %s %s: updated from disk\n", color.GreenString("✓"), r.ItemID)
	case r.Reason == syncer.ReasonNoChange:
		fmt.Printf("    %s: up to date\n", r.ItemID)
	case r.Reason == syncer.ReasonAnchorMismatch:
		fmt.Printf("  %s %s: anchor mismatch, left untouched\n", color.YellowString("!"), r.ItemID)
	case r.Reason == syncer.ReasonFileNotFound:
		fmt.Printf("  %s %s: file not found\n", color.YellowString("!"), r.ItemID)
	default:
		fmt.Printf("  %s %s: %s\n", color.RedString("✗"), r.ItemID, r.Error)
	}
}
