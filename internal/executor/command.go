package executor

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/ruminaider/pswitch/internal/logging"
	"github.com/ruminaider/pswitch/internal/paths"
	"github.com/ruminaider/pswitch/internal/proc"
	"github.com/ruminaider/pswitch/internal/profile"
)

// defaultCommandTimeout bounds run-command items that do not set their own.
const defaultCommandTimeout = 30 * time.Second

func applyRunCommand(item profile.ConfigItem) Result {
	res := Result{ItemID: item.ID, Type: item.Type, Label: item.Label}

	if item.Command == "" {
		res.Error = "run-command item has no command"
		return res
	}

	dir := paths.ExpandHome(item.WorkingDir)
	if dir == "" {
		dir, _ = os.UserHomeDir()
	}

	timeout := defaultCommandTimeout
	if item.TimeoutMs > 0 {
		timeout = time.Duration(item.TimeoutMs) * time.Millisecond
	}

	cmd := exec.Command("sh", "-c", item.Command)
	cmd.Dir = dir

	log := logging.GetLogger("executor")
	log.Debug().
		Str("command", item.Command).Str("dir", dir).Msg("running command")

	out := proc.Run(cmd, timeout)
	res.Stdout = out.Stdout
	res.Stderr = out.Stderr

	switch {
	case out.Err != nil:
		res.Error = fmt.Sprintf("running command: %v", out.Err)
	case out.TimedOut:
		res.Error = fmt.Sprintf("command timed out after %s", timeout)
	case out.ExitCode != 0:
		res.Error = fmt.Sprintf("command exited with code %d", out.ExitCode)
	default:
		res.Success = true
	}
	return res
}
