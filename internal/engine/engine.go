// Package engine sequences the application of a profile's config items.
// Items run in three phases (file-replace, then env-var, then run-command)
// because files must be consistent before env vars are rewritten, and
// commands are the least safe thing to roll back so they go last. A failure
// in the first two phases restores the pre-switch backup; command failures
// do not, since an already-run command cannot be undone by restoring files.
package engine

import (
	"errors"
	"sync/atomic"

	"github.com/ruminaider/pswitch/internal/backup"
	"github.com/ruminaider/pswitch/internal/executor"
	"github.com/ruminaider/pswitch/internal/logging"
	"github.com/ruminaider/pswitch/internal/profile"
)

// ErrSwitchInProgress is returned when a switch is requested while another
// one is still running. The caller gets it immediately; requests are never
// queued.
var ErrSwitchInProgress = errors.New("a profile switch is already in progress")

// Result is the outcome of one switch attempt.
type Result struct {
	ProfileID string            `json:"profileId"`
	BackupID  string            `json:"backupId"`
	Items     []executor.Result `json:"items"`
	Success   bool              `json:"success"`
}

// Engine applies profiles. At most one switch runs at a time process-wide.
type Engine struct {
	backups   *backup.Manager
	switching atomic.Bool
}

// New returns an engine using the given backup manager.
func New(backups *backup.Manager) *Engine {
	return &Engine{backups: backups}
}

// Switching reports whether a switch is currently in flight.
func (e *Engine) Switching() bool {
	return e.switching.Load()
}

// Switch applies all enabled items of the profile. It backs up every file
// target first, runs the three phases in order stopping at the first
// failure, and restores the backup if a file or env phase failed.
func (e *Engine) Switch(p *profile.Profile) (*Result, error) {
	if !e.switching.CompareAndSwap(false, true) {
		return nil, ErrSwitchInProgress
	}
	defer e.switching.Store(false)

	log := logging.GetLogger("engine")
	enabled := p.EnabledItems()

	backupID, err := e.backups.Create(p, enabled)
	if err != nil {
		return nil, err
	}

	res := &Result{ProfileID: p.ID, BackupID: backupID, Success: true}

	for _, phase := range []profile.ItemType{
		profile.ItemFileReplace,
		profile.ItemEnvVar,
		profile.ItemRunCommand,
	} {
		if !res.Success {
			// A file or env phase failed; later phases are skipped.
			break
		}

		for _, item := range enabled {
			if item.Type != phase {
				continue
			}
			itemRes := executor.Apply(item)
			res.Items = append(res.Items, itemRes)
			if itemRes.Success {
				continue
			}

			res.Success = false
			log.Warn().Str("item", item.ID).Str("error", itemRes.Error).
				Msg("item failed, stopping phase")

			if phase != profile.ItemRunCommand {
				if err := e.backups.Restore(backupID); err != nil {
					log.Error().Err(err).Str("backup", backupID).
						Msg("rollback failed")
				}
			}
			break
		}
	}

	log.Info().Str("profile", p.ID).Bool("success", res.Success).
		Int("items", len(res.Items)).Msg("switch finished")
	return res, nil
}
