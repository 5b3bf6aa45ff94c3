// Package hook runs external automation scripts as bounded subprocesses.
// A hook gets its invocation context as JSON, may print arbitrary output,
// and may end its stdout with a JSON object carrying display data and
// requested actions. Hook failure is always a result, never an error the
// caller has to handle: hooks are best-effort by contract.
package hook

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruminaider/pswitch/internal/logging"
	"github.com/ruminaider/pswitch/internal/proc"
	"github.com/ruminaider/pswitch/internal/profile"
)

const (
	// contextEnvVar carries the JSON context for small payloads.
	contextEnvVar = "PSWITCH_HOOK_CONTEXT"
	// contextFileEnvVar points at a temp file holding the context when the
	// payload would blow past OS limits on environment block size.
	contextFileEnvVar = "PSWITCH_HOOK_CONTEXT_FILE"
	// contextFileThreshold is the serialized size beyond which the context
	// goes through a file instead of the environment.
	contextFileThreshold = 128 * 1024

	defaultTimeout = 30 * time.Second
)

// DisplayValue is one key a hook wants shown for a profile. A nil Value is
// an explicit request to delete the key.
type DisplayValue struct {
	Value  *string `json:"value"`
	Label  string  `json:"label,omitempty"`
	Status string  `json:"status,omitempty"`
}

// Actions are the requests a hook can make of the orchestrator.
type Actions struct {
	SwitchToProfile     string `json:"switchToProfile,omitempty"`
	SwitchToNextProfile bool   `json:"switchToNextProfile,omitempty"`
	Notify              string `json:"notify,omitempty"`
}

// Result is the outcome of one hook run.
type Result struct {
	HookID    string                  `json:"hookId"`
	HookLabel string                  `json:"hookLabel"`
	Success   bool                    `json:"success"`
	Error     string                  `json:"error,omitempty"`
	Stdout    string                  `json:"stdout,omitempty"`
	Stderr    string                  `json:"stderr,omitempty"`
	Display   map[string]DisplayValue `json:"display,omitempty"`
	Actions   *Actions                `json:"actions,omitempty"`
}

// Context is what a hook script receives about its invocation.
type Context struct {
	ProfileID   string           `json:"profileId"`
	ProfileName string           `json:"profileName"`
	HookType    profile.HookType `json:"hookType"`
	Profile     *profile.Profile `json:"profile"`
}

// Executor resolves and runs hook scripts.
type Executor struct {
	hooksDir string
}

// NewExecutor returns an executor resolving relative script paths against
// hooksDir.
func NewExecutor(hooksDir string) *Executor {
	return &Executor{hooksDir: hooksDir}
}

// Resolve maps a hook's stored script path to an absolute one. Absolute
// paths pass through; everything else resolves against the hooks directory.
func (e *Executor) Resolve(scriptPath string) string {
	if filepath.IsAbs(scriptPath) {
		return scriptPath
	}
	return filepath.Join(e.hooksDir, scriptPath)
}

// NewContext builds the hook context for a profile, with file-replace item
// content stripped to keep the payload small.
func NewContext(p *profile.Profile, hookType profile.HookType) Context {
	snapshot := p.Clone()
	for i := range snapshot.Items {
		if snapshot.Items[i].Type == profile.ItemFileReplace {
			snapshot.Items[i].Content = ""
		}
	}
	return Context{
		ProfileID:   p.ID,
		ProfileName: p.Name,
		HookType:    hookType,
		Profile:     snapshot,
	}
}

// Run executes one hook to completion and returns its result. It never
// returns an error: missing scripts, non-zero exits, timeouts and output
// parse failures all land in the Result.
func (e *Executor) Run(h profile.Hook, hctx Context) Result {
	res := Result{HookID: h.ID, HookLabel: h.Label}
	log := logging.GetLogger("hook")

	script := e.Resolve(h.ScriptPath)
	if _, err := os.Stat(script); err != nil {
		res.Error = fmt.Sprintf("hook script not found: %s", script)
		return res
	}

	ctxJSON, err := json.Marshal(hctx)
	if err != nil {
		res.Error = fmt.Sprintf("encoding hook context: %v", err)
		return res
	}

	cmd := exec.Command(script)
	cmd.Env = os.Environ()

	if len(ctxJSON) > contextFileThreshold {
		tmp, err := os.CreateTemp("", "pswitch-hook-ctx-*.json")
		if err != nil {
			res.Error = fmt.Sprintf("creating context file: %v", err)
			return res
		}
		tmpName := tmp.Name()
		defer os.Remove(tmpName)

		if _, err := tmp.Write(ctxJSON); err != nil {
			tmp.Close()
			res.Error = fmt.Sprintf("writing context file: %v", err)
			return res
		}
		tmp.Close()
		cmd.Env = append(cmd.Env, contextFileEnvVar+"="+tmpName)
	} else {
		cmd.Env = append(cmd.Env, contextEnvVar+"="+string(ctxJSON))
	}

	timeout := defaultTimeout
	if h.TimeoutMs > 0 {
		timeout = time.Duration(h.TimeoutMs) * time.Millisecond
	}

	log.Debug().Str("hook", h.ID).Str("script", script).Msg("running hook")
	out := proc.Run(cmd, timeout)
	res.Stdout = out.Stdout
	res.Stderr = out.Stderr

	switch {
	case out.Err != nil:
		res.Error = fmt.Sprintf("running hook: %v", out.Err)
		return res
	case out.TimedOut:
		res.Error = fmt.Sprintf("hook timed out after %s", timeout)
		return res
	case out.ExitCode != 0:
		res.Error = fmt.Sprintf("hook exited with code %d", out.ExitCode)
		return res
	}

	res.Success = true
	parseTrailingJSON(&res)
	return res
}

// hookOutput is the structured payload a hook may leave at the end of its
// stdout.
type hookOutput struct {
	Display map[string]DisplayValue `json:"display"`
	Actions *Actions                `json:"actions"`
}

// parseTrailingJSON tries the whole trimmed stdout, then its last line, as a
// JSON object with display and/or actions keys. Non-JSON stdout is valid;
// the result is simply undecorated.
func parseTrailingJSON(res *Result) {
	trimmed := strings.TrimSpace(res.Stdout)
	if trimmed == "" {
		return
	}

	candidates := []string{trimmed}
	if i := strings.LastIndex(trimmed, "\n"); i >= 0 {
		candidates = append(candidates, strings.TrimSpace(trimmed[i+1:]))
	}

	for _, c := range candidates {
		if !strings.HasPrefix(c, "{") {
			continue
		}
		var out hookOutput
		if err := json.Unmarshal([]byte(c), &out); err != nil {
			continue
		}
		if out.Display == nil && out.Actions == nil {
			continue
		}
		res.Display = out.Display
		res.Actions = out.Actions
		return
	}
}
