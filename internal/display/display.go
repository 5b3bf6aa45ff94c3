// Package display holds the per-profile display data hooks produce (quota
// figures, account labels, health markers). The store is an explicit
// injected object rather than ambient state so tests can use a throwaway
// file.
package display

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ruminaider/pswitch/internal/fsutil"
	"github.com/ruminaider/pswitch/internal/hook"
)

// Entry is one displayed key for a profile.
type Entry struct {
	Value  string `json:"value"`
	Label  string `json:"label,omitempty"`
	Status string `json:"status,omitempty"`
}

// Store persists display data as JSON keyed by profile id, then by key.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store persisting to path (typically
// paths.DisplayFile()).
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns the full display map. A missing file is an empty map.
func (s *Store) Get() (map[string]map[string]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Merge applies a hook's display output for one profile. Only keys present
// in the update are touched; a key whose value is explicitly null is
// deleted; everything else is left as it was.
func (s *Store) Merge(profileID string, update map[string]hook.DisplayValue) error {
	if len(update) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	current := data[profileID]
	if current == nil {
		current = make(map[string]Entry)
	}

	for key, v := range update {
		if v.Value == nil {
			delete(current, key)
			continue
		}
		current[key] = Entry{Value: *v.Value, Label: v.Label, Status: v.Status}
	}

	data[profileID] = current
	return s.save(data)
}

// Clear drops all display data for a profile.
func (s *Store) Clear(profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	delete(data, profileID)
	return s.save(data)
}

func (s *Store) load() (map[string]map[string]Entry, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]map[string]Entry{}, nil
		}
		return nil, fmt.Errorf("reading display data: %w", err)
	}
	var data map[string]map[string]Entry
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing display data: %w", err)
	}
	if data == nil {
		data = map[string]map[string]Entry{}
	}
	return data, nil
}

func (s *Store) save(data map[string]map[string]Entry) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding display data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating display data dir: %w", err)
	}
	return fsutil.WriteFileAtomic(s.path, raw, 0644)
}
