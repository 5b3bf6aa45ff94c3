package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruminaider/pswitch/internal/backup"
	"github.com/ruminaider/pswitch/internal/config"
	"github.com/ruminaider/pswitch/internal/display"
	"github.com/ruminaider/pswitch/internal/engine"
	"github.com/ruminaider/pswitch/internal/hook"
	"github.com/ruminaider/pswitch/internal/logging"
	"github.com/ruminaider/pswitch/internal/notify"
	"github.com/ruminaider/pswitch/internal/orchestrator"
	"github.com/ruminaider/pswitch/internal/paths"
	"github.com/ruminaider/pswitch/internal/profile"
	"github.com/ruminaider/pswitch/internal/syncer"
)

var version = "0.3.1"

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "pswitch",
	Short: "Switch system configuration between named profiles",
	Long:  "pswitch manages named profiles of config files, environment variables and commands, and atomically switches the system between them with backup, rollback and automation hooks.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbosity, paths.DataDir())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show status
		return statusCmd.RunE(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pswitch %s\n", version)
	},
}

// app bundles the wired components every command works through.
type app struct {
	settings config.Settings
	store    *profile.Store
	backups  *backup.Manager
	engine   *engine.Engine
	hooks    *hook.Executor
	sync     *syncer.Service
	displays *display.Store
	notifier *notify.Notifier
	orch     *orchestrator.Orchestrator
}

func newApp() (*app, error) {
	settings, err := config.Load(paths.ConfigFile())
	if err != nil {
		return nil, err
	}

	store := profile.NewStore(paths.DataDir())
	backups := backup.NewManager(paths.BackupsDir())
	eng := engine.New(backups)
	hooks := hook.NewExecutor(paths.HooksDir())
	sync := syncer.NewService(store)
	displays := display.NewStore(paths.DisplayFile())
	notifier := notify.New(settings.Notifications)

	return &app{
		settings: settings,
		store:    store,
		backups:  backups,
		engine:   eng,
		hooks:    hooks,
		sync:     sync,
		displays: displays,
		notifier: notifier,
		orch:     orchestrator.New(store, eng, hooks, sync, displays, notifier),
	}, nil
}

// resolveProfile accepts a profile id or name.
func (a *app) resolveProfile(ref string) (*profile.Profile, error) {
	p, err := a.store.Get(ref)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p, err = a.store.GetByName(ref)
		if err != nil {
			return nil, err
		}
	}
	if p == nil {
		return nil, fmt.Errorf("profile %q not found", ref)
	}
	return p, nil
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(daemonCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
