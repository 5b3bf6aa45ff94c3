// Package orchestrator is the entry point for a profile switch. It runs the
// fixed sequence: stop cron, old-profile switch-out hooks around a
// best-effort sync, the switch engine (the only step whose failure matters),
// then new-profile switch-in hooks, the active-pointer update and a cron
// restart. Hooks are best-effort throughout; only the engine decides overall
// success.
package orchestrator

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ruminaider/pswitch/internal/cron"
	"github.com/ruminaider/pswitch/internal/display"
	"github.com/ruminaider/pswitch/internal/engine"
	"github.com/ruminaider/pswitch/internal/hook"
	"github.com/ruminaider/pswitch/internal/logging"
	"github.com/ruminaider/pswitch/internal/notify"
	"github.com/ruminaider/pswitch/internal/profile"
	"github.com/ruminaider/pswitch/internal/syncer"
)

// autoSwitchCooldown is the minimum spacing between hook-triggered
// switches.
const autoSwitchCooldown = 30 * time.Second

// Result is the engine's result plus every hook result collected along the
// way.
type Result struct {
	engine.Result
	Hooks []hook.Result `json:"hooks,omitempty"`
}

// Orchestrator sequences hooks, sync, engine and cron into one transition.
type Orchestrator struct {
	store    *profile.Store
	engine   *engine.Engine
	hooks    *hook.Executor
	sync     *syncer.Service
	displays *display.Store
	notifier *notify.Notifier
	cron     *cron.Scheduler

	switching atomic.Bool
	cooldown  *cooldown
}

// New wires an orchestrator and its cron scheduler. The scheduler gets a
// handle to HandleActions so cron hooks can request switches without the
// two packages referencing each other.
func New(store *profile.Store, eng *engine.Engine, hooks *hook.Executor, sync *syncer.Service, displays *display.Store, notifier *notify.Notifier) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		engine:   eng,
		hooks:    hooks,
		sync:     sync,
		displays: displays,
		notifier: notifier,
		cooldown: newCooldown(autoSwitchCooldown),
	}
	o.cron = cron.NewScheduler(store, hooks, displays, notifier, o.HandleActions)
	return o
}

// Cron exposes the scheduler for daemon start/stop.
func (o *Orchestrator) Cron() *cron.Scheduler {
	return o.cron
}

// Switch transitions the system to the given profile. A second call while
// one is in flight fails immediately with engine.ErrSwitchInProgress.
func (o *Orchestrator) Switch(profileID string) (*Result, error) {
	if !o.switching.CompareAndSwap(false, true) {
		return nil, engine.ErrSwitchInProgress
	}

	res, deferred, err := o.doSwitch(profileID)
	o.switching.Store(false)
	if err != nil {
		return nil, err
	}

	// Post-switch-in hooks may request a follow-up switch; those requests
	// are evaluated only after this switch has fully concluded.
	for _, actions := range deferred {
		o.HandleActions(profile.HookPostSwitchIn, actions)
	}
	return res, nil
}

func (o *Orchestrator) doSwitch(profileID string) (*Result, []*hook.Actions, error) {
	log := logging.GetLogger("orchestrator")

	newProfile, err := o.store.Get(profileID)
	if err != nil {
		return nil, nil, err
	}
	if newProfile == nil {
		return nil, nil, fmt.Errorf("profile %q not found", profileID)
	}

	oldID, err := o.store.ActiveID()
	if err != nil {
		log.Warn().Err(err).Msg("reading active profile failed")
	}

	o.cron.Stop()

	var hookResults []hook.Result

	oldProfile := o.getProfile(oldID)
	if oldProfile != nil {
		hookResults = append(hookResults, o.runHooks(oldProfile, profile.HookPreSwitchOut)...)

		// Best-effort: capture what the outgoing account changed on disk
		// before its files are overwritten. Never aborts the switch.
		if _, err := o.sync.SyncProfile(oldID); err != nil {
			log.Warn().Err(err).Str("profile", oldID).Msg("pre-switch sync failed")
		}
		// The sync may have updated stored items; later hooks see the
		// fresh snapshot.
		if refreshed := o.getProfile(oldID); refreshed != nil {
			oldProfile = refreshed
		}

		hookResults = append(hookResults, o.runHooks(oldProfile, profile.HookPostSwitchOut)...)
	}

	engRes, err := o.engine.Switch(newProfile)
	if err != nil {
		return nil, nil, err
	}

	var deferred []*hook.Actions
	if engRes.Success {
		hookResults = append(hookResults, o.runHooks(newProfile, profile.HookPreSwitchIn)...)

		if err := o.store.SetActiveID(profileID); err != nil {
			log.Error().Err(err).Msg("updating active profile pointer failed")
		}

		postResults := o.runHooks(newProfile, profile.HookPostSwitchIn)
		hookResults = append(hookResults, postResults...)
		for _, r := range postResults {
			if r.Actions != nil {
				deferred = append(deferred, r.Actions)
			}
		}

		o.cron.Start(profileID)
	}

	return &Result{Result: *engRes, Hooks: hookResults}, deferred, nil
}

// runHooks executes every enabled hook of the given type, merging display
// output and delivering notifications. Failures are collected, not raised.
func (o *Orchestrator) runHooks(p *profile.Profile, hookType profile.HookType) []hook.Result {
	log := logging.GetLogger("orchestrator")

	var results []hook.Result
	for _, h := range p.HooksOfType(hookType) {
		res := o.hooks.Run(h, hook.NewContext(p, hookType))
		results = append(results, res)
		if !res.Success {
			log.Warn().Str("hook", h.ID).Str("type", string(hookType)).
				Str("error", res.Error).Msg("hook failed")
		}
		if len(res.Display) > 0 && o.displays != nil {
			if err := o.displays.Merge(p.ID, res.Display); err != nil {
				log.Warn().Err(err).Msg("merging hook display data failed")
			}
		}
		if res.Actions != nil && res.Actions.Notify != "" {
			o.notifier.Push(res.Actions.Notify, h.Label)
		}
	}
	return results
}

// HandleActions processes a hook's requested actions. Switch requests are
// honored only from cron and post-switch-in hooks, only while no switch is
// in flight, and at most once per cooldown window; anything else is logged
// and dropped, never queued.
func (o *Orchestrator) HandleActions(from profile.HookType, actions *hook.Actions) {
	if actions == nil {
		return
	}
	if actions.SwitchToProfile == "" && !actions.SwitchToNextProfile {
		return
	}

	log := logging.GetLogger("orchestrator")

	if from != profile.HookCron && from != profile.HookPostSwitchIn {
		log.Info().Str("from", string(from)).Msg("auto-switch request from unsupported hook type, dropped")
		return
	}
	if o.switching.Load() || o.engine.Switching() {
		log.Info().Msg("auto-switch request while a switch is in flight, dropped")
		return
	}
	if !o.cooldown.Allow() {
		log.Info().Msg("auto-switch request inside cooldown window, dropped")
		return
	}

	target := actions.SwitchToProfile
	if target == "" {
		target = o.nextProfileID()
	}
	if target == "" {
		log.Warn().Msg("auto-switch requested but no target profile resolvable")
		return
	}

	log.Info().Str("target", target).Msg("auto-switch triggered by hook")
	if _, err := o.Switch(target); err != nil {
		log.Warn().Err(err).Str("target", target).Msg("auto-switch failed")
	}
}

// nextProfileID returns the profile after the active one in list order,
// wrapping around. Empty when there is nothing to switch to.
func (o *Orchestrator) nextProfileID() string {
	all, err := o.store.List()
	if err != nil || len(all) == 0 {
		return ""
	}
	active, err := o.store.ActiveID()
	if err != nil {
		return ""
	}
	for i, p := range all {
		if p.ID == active {
			return all[(i+1)%len(all)].ID
		}
	}
	return all[0].ID
}

func (o *Orchestrator) getProfile(id string) *profile.Profile {
	if id == "" {
		return nil
	}
	p, err := o.store.Get(id)
	if err != nil {
		log := logging.GetLogger("orchestrator")
		log.Warn().Err(err).Str("profile", id).
			Msg("reading profile failed")
		return nil
	}
	return p
}
