package syncer

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ruminaider/pswitch/internal/logging"
)

const (
	minSyncInterval = 10 * time.Second
	maxSyncInterval = time.Hour
)

// Runner periodically syncs whichever profile is active. Ticks are
// independent: one failed tick never cancels the ones after it.
type Runner struct {
	service *Service

	mu   sync.Mutex
	stop chan struct{}
}

// NewRunner returns a periodic runner over the sync service.
func NewRunner(service *Service) *Runner {
	return &Runner{service: service}
}

// Start begins periodic syncing, replacing any previous schedule. The
// interval is clamped to [10s, 1h].
func (r *Runner) Start(interval time.Duration) {
	if interval < minSyncInterval {
		interval = minSyncInterval
	}
	if interval > maxSyncInterval {
		interval = maxSyncInterval
	}

	r.Stop()

	r.mu.Lock()
	stop := make(chan struct{})
	r.stop = stop
	r.mu.Unlock()

	log := logging.GetLogger("syncer")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				r.tick(log)
			}
		}
	}()
}

// Stop halts periodic syncing. Safe to call with nothing running.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

func (r *Runner) tick(log zerolog.Logger) {
	active, err := r.service.store.ActiveID()
	if err != nil {
		log.Warn().Err(err).Msg("periodic sync: reading active profile failed")
		return
	}
	if active == "" {
		return
	}
	if _, err := r.service.SyncProfile(active); err != nil {
		log.Warn().Err(err).Str("profile", active).Msg("periodic sync failed")
	}
}
