package profile

import (
	"fmt"
	"time"
)

// ItemType discriminates the ConfigItem union.
type ItemType string

const (
	ItemFileReplace ItemType = "file-replace"
	ItemEnvVar      ItemType = "env-var"
	ItemRunCommand  ItemType = "run-command"
)

// AnchorType discriminates the Anchor union.
type AnchorType string

const (
	AnchorJSONPath    AnchorType = "json-path"
	AnchorLineContent AnchorType = "line-content"
	AnchorEnvValue    AnchorType = "env-value"
)

// Anchor asserts that the disk content at a given location currently equals
// Value. It is used to confirm a file still belongs to the account a stored
// item expects before trusting a sync.
type Anchor struct {
	Type AnchorType `yaml:"type"`

	// json-path: dot-notation key path into a JSON document.
	Path string `yaml:"path,omitempty"`

	// line-content: 1-based line number.
	Line int `yaml:"line,omitempty"`

	// env-value: environment variable name.
	Name string `yaml:"name,omitempty"`

	Value string `yaml:"value"`
}

// ConfigItem is one unit of configuration change. Which fields are
// meaningful depends on Type; consumers switch exhaustively on it.
type ConfigItem struct {
	ID      string   `yaml:"id"`
	Type    ItemType `yaml:"type"`
	Label   string   `yaml:"label"`
	Enabled bool     `yaml:"enabled"`

	// file-replace
	TargetPath string `yaml:"target_path,omitempty"`
	Content    string `yaml:"content,omitempty"`

	// env-var
	Name      string `yaml:"name,omitempty"`
	Value     string `yaml:"value,omitempty"`
	ShellFile string `yaml:"shell_file,omitempty"`

	// run-command
	Command    string `yaml:"command,omitempty"`
	WorkingDir string `yaml:"working_dir,omitempty"`
	TimeoutMs  int64  `yaml:"timeout_ms,omitempty"`

	Anchor *Anchor `yaml:"anchor,omitempty"`
}

// HookType names the lifecycle point a hook is bound to.
type HookType string

const (
	HookPreSwitchIn   HookType = "pre-switch-in"
	HookPostSwitchIn  HookType = "post-switch-in"
	HookPreSwitchOut  HookType = "pre-switch-out"
	HookPostSwitchOut HookType = "post-switch-out"
	HookCron          HookType = "cron"
)

// Hook is an external automation script bound to a lifecycle point or, for
// type cron, a repeating timer.
type Hook struct {
	ID             string   `yaml:"id"`
	Type           HookType `yaml:"type"`
	Label          string   `yaml:"label"`
	Enabled        bool     `yaml:"enabled"`
	ScriptPath     string   `yaml:"script_path"`
	CronIntervalMs int64    `yaml:"cron_interval_ms,omitempty"`
	TimeoutMs      int64    `yaml:"timeout_ms,omitempty"`
}

// Profile is a named bundle of config items and hooks representing one
// account or environment.
type Profile struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	PresetID  string       `yaml:"preset_id,omitempty"`
	Items     []ConfigItem `yaml:"items,omitempty"`
	Hooks     []Hook       `yaml:"hooks,omitempty"`
	CreatedAt time.Time    `yaml:"created_at"`
	UpdatedAt time.Time    `yaml:"updated_at"`
}

// Clone returns a deep copy of the profile. Sync operates on copies so the
// live object is never mutated mid-iteration.
func (p *Profile) Clone() *Profile {
	out := *p
	out.Items = make([]ConfigItem, len(p.Items))
	for i, item := range p.Items {
		out.Items[i] = item
		if item.Anchor != nil {
			a := *item.Anchor
			out.Items[i].Anchor = &a
		}
	}
	out.Hooks = make([]Hook, len(p.Hooks))
	copy(out.Hooks, p.Hooks)
	return &out
}

// HooksOfType returns the enabled hooks with the given type, in list order.
func (p *Profile) HooksOfType(t HookType) []Hook {
	var out []Hook
	for _, h := range p.Hooks {
		if h.Enabled && h.Type == t {
			out = append(out, h)
		}
	}
	return out
}

// EnabledItems returns the enabled config items, in list order.
func (p *Profile) EnabledItems() []ConfigItem {
	var out []ConfigItem
	for _, item := range p.Items {
		if item.Enabled {
			out = append(out, item)
		}
	}
	return out
}

// ValidateAnchor checks that an item's anchor type is compatible with the
// item type: file-replace takes json-path or line-content, env-var takes
// env-value, run-command takes none. A nil anchor is always valid.
func ValidateAnchor(item *ConfigItem) error {
	if item.Anchor == nil {
		return nil
	}
	switch item.Type {
	case ItemFileReplace:
		if item.Anchor.Type == AnchorJSONPath || item.Anchor.Type == AnchorLineContent {
			return nil
		}
	case ItemEnvVar:
		if item.Anchor.Type == AnchorEnvValue {
			return nil
		}
	case ItemRunCommand:
		// run-command items never carry an anchor.
	default:
		return fmt.Errorf("unknown item type %q", item.Type)
	}
	return fmt.Errorf("anchor type %q is not valid for %s items", item.Anchor.Type, item.Type)
}
