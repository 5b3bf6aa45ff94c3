package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active profile and its display data",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		activeID, err := a.store.ActiveID()
		if err != nil {
			return err
		}

		if activeID == "" {
			fmt.Println("No profile active.")
			return nil
		}

		p, err := a.store.Get(activeID)
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Printf("Active profile %q no longer exists.\n", activeID)
			return nil
		}

		fmt.Printf("Active profile: %s\n", p.Name)
		fmt.Printf("  %d item(s), %d hook(s)\n", len(p.Items), len(p.Hooks))

		data, err := a.displays.Get()
		if err != nil {
			return err
		}
		entries := data[p.ID]
		if len(entries) == 0 {
			return nil
		}

		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Println()
		for _, k := range keys {
			e := entries[k]
			label := e.Label
			if label == "" {
				label = k
			}
			if e.Status != "" {
				fmt.Printf("  %s: %s [%s]\n", label, e.Value, e.Status)
			} else {
				fmt.Printf("  %s: %s\n", label, e.Value)
			}
		}
		return nil
	},
}
