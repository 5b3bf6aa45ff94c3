// Package executor applies a single config item to the system: replacing a
// file, patching an env var into a shell file, or running a one-shot
// command. Apply never returns a Go error: every failure mode is captured
// in the Result so the switch engine can decide what to do with it.
package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ruminaider/pswitch/internal/fsutil"
	"github.com/ruminaider/pswitch/internal/logging"
	"github.com/ruminaider/pswitch/internal/paths"
	"github.com/ruminaider/pswitch/internal/profile"
)

// Result is the outcome of applying one config item.
type Result struct {
	ItemID  string           `json:"itemId"`
	Type    profile.ItemType `json:"type"`
	Label   string           `json:"label"`
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`

	// run-command only.
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

var envNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Apply executes one enabled config item and returns its result.
func Apply(item profile.ConfigItem) Result {
	res := Result{ItemID: item.ID, Type: item.Type, Label: item.Label}

	switch item.Type {
	case profile.ItemFileReplace:
		if err := applyFileReplace(item); err != nil {
			res.Error = err.Error()
			return res
		}
	case profile.ItemEnvVar:
		if err := applyEnvVar(item); err != nil {
			res.Error = err.Error()
			return res
		}
	case profile.ItemRunCommand:
		return applyRunCommand(item)
	default:
		res.Error = fmt.Sprintf("unknown item type %q", item.Type)
		return res
	}

	res.Success = true
	return res
}

func applyFileReplace(item profile.ConfigItem) error {
	target := paths.ExpandHome(item.TargetPath)
	if target == "" {
		return fmt.Errorf("file-replace item has no target path")
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	if err := fsutil.WriteFileAtomic(target, []byte(item.Content), 0644); err != nil {
		return err
	}
	log := logging.GetLogger("executor")
	log.Debug().Str("path", target).Msg("replaced file")
	return nil
}

func applyEnvVar(item profile.ConfigItem) error {
	if !envNameRe.MatchString(item.Name) {
		return fmt.Errorf("invalid environment variable name %q", item.Name)
	}

	shellFile := paths.ExpandHome(item.ShellFile)
	if shellFile == "" {
		return fmt.Errorf("env-var item has no shell file")
	}

	// A missing shell file is an empty one.
	content := ""
	if data, err := os.ReadFile(shellFile); err == nil {
		content = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", shellFile, err)
	}

	updated := patchExportLine(content, item.Name, item.Value)

	if err := os.MkdirAll(filepath.Dir(shellFile), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	if err := fsutil.WriteFileAtomic(shellFile, []byte(updated), 0644); err != nil {
		return err
	}
	log := logging.GetLogger("executor")
	log.Debug().
		Str("name", item.Name).Str("file", shellFile).Msg("patched env var")
	return nil
}

// patchExportLine rewrites shell file content so that NAME is exported with
// the given value. Existing uncommented export lines for NAME are replaced
// in place. Commented-out exports are never touched: the new line is
// appended at the end of the file, leaving the comment where it was.
func patchExportLine(content, name, value string) string {
	line := fmt.Sprintf(`export %s="%s"`, name, escapeShellValue(value))

	uncommented := regexp.MustCompile(`(?m)^export ` + regexp.QuoteMeta(name) + `=.*$`)
	if uncommented.MatchString(content) {
		return uncommented.ReplaceAllString(content, line)
	}

	return appendLine(content, line)
}

// appendLine adds line to content, normalizing to exactly one trailing
// newline before the append.
func appendLine(content, line string) string {
	if content == "" {
		return line + "\n"
	}
	trimmed := strings.TrimRight(content, "\n")
	return trimmed + "\n" + line + "\n"
}

// escapeShellValue escapes the characters that are special inside a
// double-quoted shell string.
func escapeShellValue(v string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		`$`, `\$`,
		"`", "\\`",
	)
	return r.Replace(v)
}
