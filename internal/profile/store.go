package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/ruminaider/pswitch/internal/fsutil"
)

// Store persists profiles as YAML files under dir/profiles/<id>.yaml plus an
// active-profile pointer file. Updates replace the whole profile object; the
// store never mutates a caller-held Profile in place.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir (typically paths.DataDir()).
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) profilesDir() string {
	return filepath.Join(s.dir, "profiles")
}

func (s *Store) profilePath(id string) string {
	return filepath.Join(s.profilesDir(), id+".yaml")
}

func (s *Store) activePath() string {
	return filepath.Join(s.dir, "active-profile")
}

// List returns all profiles sorted by name. A missing profiles directory is
// an empty store, not an error.
func (s *Store) List() ([]*Profile, error) {
	entries, err := os.ReadDir(s.profilesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []*Profile{}, nil
		}
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	var out []*Profile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		p, err := s.Get(strings.TrimSuffix(e.Name(), ".yaml"))
		if err != nil {
			return nil, err
		}
		if p != nil {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns the profile with the given id, or nil if it does not exist.
func (s *Store) Get(id string) (*Profile, error) {
	data, err := os.ReadFile(s.profilePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading profile %q: %w", id, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %q: %w", id, err)
	}
	return &p, nil
}

// GetByName returns the first profile whose name matches, or nil.
func (s *Store) GetByName(name string) (*Profile, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

// Create persists a new profile, assigning an id and timestamps.
func (s *Store) Create(name string) (*Profile, error) {
	now := time.Now().UTC()
	p := &Profile{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := os.MkdirAll(s.profilesDir(), 0755); err != nil {
		return nil, fmt.Errorf("creating profiles dir: %w", err)
	}
	if err := s.write(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the stored profile wholesale and stamps UpdatedAt. It
// errors if the id is unknown. The returned profile is the stamped copy.
func (s *Store) Update(p *Profile) (*Profile, error) {
	existing, err := s.Get(p.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("profile %q not found", p.ID)
	}

	updated := p.Clone()
	updated.UpdatedAt = time.Now().UTC()
	if err := s.write(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a profile. Deleting the active profile clears the active
// pointer. Unknown ids are an error.
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.profilePath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("profile %q not found", id)
		}
		return fmt.Errorf("deleting profile %q: %w", id, err)
	}
	if active, err := s.ActiveID(); err == nil && active == id {
		return s.SetActiveID("")
	}
	return nil
}

// ActiveID returns the id of the active profile, or "" if none is set.
func (s *Store) ActiveID() (string, error) {
	data, err := os.ReadFile(s.activePath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading active profile: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SetActiveID records the active profile id. An empty id clears it.
func (s *Store) SetActiveID(id string) error {
	if id == "" {
		err := os.Remove(s.activePath())
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clearing active profile: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := os.WriteFile(s.activePath(), []byte(id+"\n"), 0644); err != nil {
		return fmt.Errorf("writing active profile: %w", err)
	}
	return nil
}

func (s *Store) write(p *Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile %q: %w", p.ID, err)
	}
	if err := os.MkdirAll(s.profilesDir(), 0755); err != nil {
		return fmt.Errorf("creating profiles dir: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.profilePath(p.ID), data, 0644); err != nil {
		return fmt.Errorf("writing profile %q: %w", p.ID, err)
	}
	return nil
}
