package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ruminaider/pswitch/internal/executor"
	"github.com/ruminaider/pswitch/internal/hook"
	"github.com/ruminaider/pswitch/internal/orchestrator"
)

var switchCmd = &cobra.Command{
	Use:   "switch [profile]",
	Short: "Switch the system to a profile",
	Long:  "Applies all enabled config items of the profile with backup and rollback, running switch-out hooks for the old profile and switch-in hooks for the new one. With no argument, picks interactively.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		var ref string
		if len(args) == 1 {
			ref = args[0]
		} else {
			ref, err = pickProfile(a)
			if err != nil {
				return err
			}
			if ref == "" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		p, err := a.resolveProfile(ref)
		if err != nil {
			return err
		}

		res, err := a.orch.Switch(p.ID)
		if err != nil {
			return err
		}

		printSwitchResult(p.Name, res)
		if !res.Success {
			return fmt.Errorf("switch to %q failed; file and env changes were rolled back", p.Name)
		}
		return nil
	},
}

func printSwitchResult(name string, res *orchestrator.Result) {
	if res.Success {
		fmt.Printf("Switched to %q (backup %s)\n", name, res.BackupID)
	} else {
		fmt.Printf("Switch to %q failed (backup %s)\n", name, res.BackupID)
	}

	for _, item := range res.Items {
		printItemResult(item)
	}
	for _, h := range res.Hooks {
		printHookResult(h)
	}
}

func printItemResult(item executor.Result) {
	if item.Success {
		fmt.Printf("  %s %s (%s)\n", color.GreenString("✓"), item.Label, item.Type)
		return
	}
	fmt.Printf("  %s %s (%s): %s\n", color.RedString("✗"), item.Label, item.Type, item.Error)
	if item.Stderr != "" {
		fmt.Printf("    stderr: %s\n", item.Stderr)
	}
}

func printHookResult(h hook.Result) {
	if h.Success {
		fmt.Printf("  %s hook %s\n", color.GreenString("✓"), h.HookLabel)
		return
	}
	fmt.Printf("  %s hook %s: %s\n", color.YellowString("!"), h.HookLabel, h.Error)
}
