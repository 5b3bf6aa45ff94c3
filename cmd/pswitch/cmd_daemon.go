package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ruminaider/pswitch/internal/syncer"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run cron hooks and periodic sync for the active profile",
	Long:  "Stays resident, running the active profile's cron hooks on their timers and, when auto-sync is enabled, periodically reconciling stored content with disk. Stops on SIGINT/SIGTERM.",
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
			return fmt.Errorf("no active profile; switch to one first")
		}

		a.orch.Cron().Start(activeID)
		defer a.orch.Cron().Stop()

		var runner *syncer.Runner
		if a.settings.AutoSync.Enabled {
			runner = syncer.NewRunner(a.sync)
			runner.Start(time.Duration(a.settings.AutoSync.IntervalMs) * time.Millisecond)
			defer runner.Stop()
		}

		fmt.Printf("pswitch daemon running (profile %s). Ctrl-C to stop.\n", activeID)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		fmt.Println("Stopping.")
		return nil
	},
}
