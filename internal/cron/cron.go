// Package cron runs the enabled cron-type hooks of the active profile, each
// on its own repeating timer. Timers are independent of each other; every
// tick re-checks that its profile is still active so stale timers stop
// themselves after a switch instead of running another profile's hooks.
package cron

import (
	"sync"
	"time"

	"github.com/ruminaider/pswitch/internal/display"
	"github.com/ruminaider/pswitch/internal/hook"
	"github.com/ruminaider/pswitch/internal/logging"
	"github.com/ruminaider/pswitch/internal/notify"
	"github.com/ruminaider/pswitch/internal/profile"
)

const (
	defaultInterval = time.Minute
	minInterval     = 10 * time.Second
)

// Trigger is the orchestrator handle a hook's actions are fed into. The
// scheduler holds only this function, not the orchestrator itself.
type Trigger func(from profile.HookType, actions *hook.Actions)

// Scheduler owns the cron timers for the active profile.
type Scheduler struct {
	store    *profile.Store
	hooks    *hook.Executor
	displays *display.Store
	notifier *notify.Notifier
	trigger  Trigger

	mu    sync.Mutex
	stops map[string]chan struct{}
}

// NewScheduler returns a scheduler. trigger may be nil when hook actions
// should be ignored (e.g. one-shot CLI runs).
func NewScheduler(store *profile.Store, hooks *hook.Executor, displays *display.Store, notifier *notify.Notifier, trigger Trigger) *Scheduler {
	return &Scheduler{
		store:    store,
		hooks:    hooks,
		displays: displays,
		notifier: notifier,
		trigger:  trigger,
		stops:    make(map[string]chan struct{}),
	}
}

// Start stops any running timers, then registers one repeating timer per
// enabled cron hook of the given profile. An unknown profile id is logged
// and ignored.
func (s *Scheduler) Start(profileID string) {
	s.Stop()

	log := logging.GetLogger("cron")
	p, err := s.store.Get(profileID)
	if err != nil || p == nil {
		log.Warn().Err(err).Str("profile", profileID).Msg("cron start: profile not available")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range p.HooksOfType(profile.HookCron) {
		interval := effectiveInterval(h.CronIntervalMs)
		stop := make(chan struct{})
		s.stops[h.ID] = stop
		go s.run(profileID, h.ID, interval, stop)
		log.Info().Str("hook", h.ID).Dur("interval", interval).Msg("cron hook scheduled")
	}
}

// Stop clears every active timer. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, stop := range s.stops {
		close(stop)
		delete(s.stops, id)
	}
}

func (s *Scheduler) run(profileID, hookID string, interval time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.tick(profileID, hookID) {
				return
			}
		}
	}
}

// tick runs one cron hook invocation. It returns false when this timer
// should stop: the profile is no longer active, or the hook has since been
// disabled or removed. Execution errors never stop future ticks.
func (s *Scheduler) tick(profileID, hookID string) bool {
	log := logging.GetLogger("cron")

	active, err := s.store.ActiveID()
	if err != nil {
		log.Warn().Err(err).Msg("cron tick: reading active profile failed")
		return true
	}
	if active != profileID {
		log.Debug().Str("hook", hookID).Msg("cron tick: profile no longer active, stopping")
		return false
	}

	p, err := s.store.Get(profileID)
	if err != nil || p == nil {
		log.Warn().Err(err).Str("profile", profileID).Msg("cron tick: profile not available, stopping")
		return false
	}

	var h *profile.Hook
	for i := range p.Hooks {
		if p.Hooks[i].ID == hookID {
			h = &p.Hooks[i]
			break
		}
	}
	if h == nil || !h.Enabled || h.Type != profile.HookCron {
		log.Debug().Str("hook", hookID).Msg("cron tick: hook disabled or removed, stopping")
		return false
	}

	res := s.hooks.Run(*h, hook.NewContext(p, profile.HookCron))
	if !res.Success {
		log.Warn().Str("hook", hookID).Str("error", res.Error).Msg("cron hook failed")
	}

	if len(res.Display) > 0 && s.displays != nil {
		if err := s.displays.Merge(profileID, res.Display); err != nil {
			log.Warn().Err(err).Msg("cron tick: merging display data failed")
		}
	}
	if res.Actions != nil {
		if res.Actions.Notify != "" {
			s.notifier.Push(res.Actions.Notify, h.Label)
		}
		if s.trigger != nil {
			s.trigger(profile.HookCron, res.Actions)
		}
	}
	return true
}

func effectiveInterval(ms int64) time.Duration {
	interval := defaultInterval
	if ms > 0 {
		interval = time.Duration(ms) * time.Millisecond
	}
	if interval < minInterval {
		interval = minInterval
	}
	return interval
}
