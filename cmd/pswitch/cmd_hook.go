package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruminaider/pswitch/internal/hook"
	"github.com/ruminaider/pswitch/internal/profile"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Work with automation hooks",
}

var hookRunCmd = &cobra.Command{
	Use:   "run <profile> <hook-id>",
	Short: "Run one hook and show its parsed output",
	Long:  "Executes a single hook of the profile with a cron-style context, prints its output and any parsed display data or actions. Actions are shown but not acted on.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		p, err := a.resolveProfile(args[0])
		if err != nil {
			return err
		}

		var target *profile.Hook
		for i := range p.Hooks {
			if p.Hooks[i].ID == args[1] {
				target = &p.Hooks[i]
				break
			}
		}
		if target == nil {
			return fmt.Errorf("hook %q not found in profile %q", args[1], p.Name)
		}

		res := a.hooks.Run(*target, hook.NewContext(p, target.Type))

		if res.Success {
			fmt.Printf("Hook %q succeeded\n", target.Label)
		} else {
			fmt.Printf("Hook %q failed: %s\n", target.Label, res.Error)
		}
		if res.Stdout != "" {
			fmt.Printf("stdout:\n%s\n", res.Stdout)
		}
		if res.Stderr != "" {
			fmt.Printf("stderr:\n%s\n", res.Stderr)
		}
		if len(res.Display) > 0 {
			data, _ := json.MarshalIndent(res.Display, "", "  ")
			fmt.Printf("display:\n%s\n", data)
		}
		if res.Actions != nil {
			data, _ := json.MarshalIndent(res.Actions, "", "  ")
			fmt.Printf("actions:\n%s\n", data)
		}
		return nil
	},
}

func init() {
	hookCmd.AddCommand(hookRunCmd)
}
