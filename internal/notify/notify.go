// Package notify pushes one-way desktop notifications. Delivery is
// fire-and-forget: failures are logged and never surfaced to the caller.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/ruminaider/pswitch/internal/logging"
)

// Notifier sends desktop notifications. Enabled=false turns it into a
// no-op, which is also the zero value's behavior.
type Notifier struct {
	Enabled bool
}

// New returns a notifier.
func New(enabled bool) *Notifier {
	return &Notifier{Enabled: enabled}
}

// Push sends a notification attributed to a hook. hookLabel may be empty
// for system-originated messages.
func (n *Notifier) Push(message, hookLabel string) {
	if n == nil || !n.Enabled {
		return
	}
	title := "pswitch"
	if hookLabel != "" {
		title = fmt.Sprintf("pswitch - %s", hookLabel)
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		log := logging.GetLogger("notify")
		log.Warn().Err(err).Msg("notification failed")
	}
}
