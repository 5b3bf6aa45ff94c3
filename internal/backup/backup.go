// Package backup snapshots the files a switch is about to touch and
// restores them when the switch fails. Each backup is a directory named by
// its id, holding one flat-encoded copy per target file plus metadata.json.
// Backups are never pruned automatically.
package backup

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ruminaider/pswitch/internal/fsutil"
	"github.com/ruminaider/pswitch/internal/logging"
	"github.com/ruminaider/pswitch/internal/paths"
	"github.com/ruminaider/pswitch/internal/profile"
)

// ErrNotFound is returned when a restore targets a backup id with no
// readable metadata.
var ErrNotFound = errors.New("backup not found")

// Entry is the persisted metadata of one backup.
type Entry struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profileId"`
	ProfileName string    `json:"profileName"`
	Timestamp   time.Time `json:"timestamp"`
	Files       []string  `json:"files"`
}

// Manager owns the backups directory.
type Manager struct {
	dir string
}

// NewManager returns a manager rooted at dir (typically paths.BackupsDir()).
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Create snapshots every file the given items are about to mutate and
// returns the new backup id. Targets that do not exist yet are skipped;
// there is nothing to restore for a brand-new file.
func (m *Manager) Create(p *profile.Profile, items []profile.ConfigItem) (string, error) {
	now := time.Now().UTC()
	id := backupID(now, p.ID)
	dir := filepath.Join(m.dir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}

	entry := Entry{
		ID:          id,
		ProfileID:   p.ID,
		ProfileName: p.Name,
		Timestamp:   now,
	}

	for _, target := range collectTargets(items) {
		if _, err := os.Stat(target); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("checking %s: %w", target, err)
		}
		if err := fsutil.CopyFile(target, filepath.Join(dir, encodePath(target))); err != nil {
			return "", fmt.Errorf("backing up %s: %w", target, err)
		}
		entry.Files = append(entry.Files, target)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding backup metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), data, 0644); err != nil {
		return "", fmt.Errorf("writing backup metadata: %w", err)
	}

	log := logging.GetLogger("backup")
	log.Info().
		Str("backup", id).Int("files", len(entry.Files)).Msg("created backup")
	return id, nil
}

// Restore copies every file recorded in the backup back over its original
// path. Each file goes through a temp-file-plus-rename in the target's own
// directory so a crash mid-restore never leaves a partial file.
func (m *Manager) Restore(id string) error {
	entry, err := m.read(id)
	if err != nil {
		return err
	}

	dir := filepath.Join(m.dir, id)
	for _, target := range entry.Files {
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", target, err)
		}
		src := filepath.Join(dir, encodePath(target))
		if err := fsutil.CopyFileAtomic(src, target); err != nil {
			return fmt.Errorf("restoring %s: %w", target, err)
		}
	}

	log := logging.GetLogger("backup")
	log.Info().
		Str("backup", id).Int("files", len(entry.Files)).Msg("restored backup")
	return nil
}

// List returns all backups newest first. Entries whose metadata is missing
// or corrupt are skipped silently.
func (m *Manager) List() ([]Entry, error) {
	dirs, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("listing backups: %w", err)
	}

	var out []Entry
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		entry, err := m.read(d.Name())
		if err != nil {
			continue
		}
		out = append(out, *entry)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *Manager) read(id string) (*Entry, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, id, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("reading backup metadata for %s: %w", id, err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("parsing backup metadata for %s: %w", id, err)
	}
	return &entry, nil
}

// collectTargets gathers the de-duplicated absolute paths that file-replace
// and env-var items will write. run-command items touch no known file.
func collectTargets(items []profile.ConfigItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		var target string
		switch item.Type {
		case profile.ItemFileReplace:
			target = paths.ExpandHome(item.TargetPath)
		case profile.ItemEnvVar:
			target = paths.ExpandHome(item.ShellFile)
		case profile.ItemRunCommand:
			continue
		default:
			continue
		}
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		out = append(out, target)
	}
	return out
}

// backupID builds `<isoTimestamp>_<profileID>` with characters that cannot
// appear in a directory name sanitized out.
func backupID(t time.Time, profileID string) string {
	ts := t.Format("2006-01-02T15:04:05.000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return ts + "_" + profileID
}

// encodePath maps an absolute path to a flat, unique, reversible file name.
func encodePath(path string) string {
	return base64.URLEncoding.EncodeToString([]byte(path))
}
