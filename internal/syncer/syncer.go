// Package syncer reconciles stored item content with what is actually on
// disk, without ever writing to disk itself. An item's anchor gates the
// sync: if the anchor no longer matches, the file belongs to some other
// account and the stored value must not be touched.
package syncer

import (
	"fmt"
	"os"

	"github.com/ruminaider/pswitch/internal/anchor"
	"github.com/ruminaider/pswitch/internal/logging"
	"github.com/ruminaider/pswitch/internal/paths"
	"github.com/ruminaider/pswitch/internal/profile"
)

// Reason explains why an item did or did not sync.
type Reason string

const (
	ReasonNoChange       Reason = "no-change"
	ReasonAnchorMismatch Reason = "anchor-mismatch"
	ReasonFileNotFound   Reason = "file-not-found"
	ReasonError          Reason = "error"
)

// Result is the per-item outcome of a sync pass.
type Result struct {
	ItemID string `json:"itemId"`
	Synced bool   `json:"synced"`
	Reason Reason `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Service syncs profiles against disk state.
type Service struct {
	store *profile.Store
}

// NewService returns a sync service over the given store.
func NewService(store *profile.Store) *Service {
	return &Service{store: store}
}

// SyncItem reconciles one item in place. When it returns Synced=true the
// item's stored content has been updated from disk; persisting that update
// is the caller's job.
func (s *Service) SyncItem(item *profile.ConfigItem) Result {
	res := Result{ItemID: item.ID}

	if item.Anchor == nil {
		res.Reason = ReasonNoChange
		return res
	}
	if err := profile.ValidateAnchor(item); err != nil {
		res.Reason = ReasonError
		res.Error = err.Error()
		return res
	}

	var target string
	switch item.Type {
	case profile.ItemFileReplace:
		target = paths.ExpandHome(item.TargetPath)
	case profile.ItemEnvVar:
		target = paths.ExpandHome(item.ShellFile)
	default:
		res.Reason = ReasonError
		res.Error = fmt.Sprintf("%s items cannot be synced", item.Type)
		return res
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			res.Reason = ReasonFileNotFound
			return res
		}
		res.Reason = ReasonError
		res.Error = fmt.Sprintf("reading %s: %v", target, err)
		return res
	}
	diskContent := string(data)

	// A json-path anchor over an unparseable file is an error, distinct
	// from the anchor field simply not matching.
	if item.Anchor.Type == profile.AnchorJSONPath {
		if _, _, err := anchor.LookupJSONPath(diskContent, item.Anchor.Path); err != nil {
			res.Reason = ReasonError
			res.Error = err.Error()
			return res
		}
	}

	if !anchor.Check(item.Anchor, diskContent) {
		res.Reason = ReasonAnchorMismatch
		return res
	}

	switch item.Type {
	case profile.ItemFileReplace:
		if item.Content == diskContent {
			res.Reason = ReasonNoChange
			return res
		}
		item.Content = diskContent
	case profile.ItemEnvVar:
		diskValue, ok := anchor.ExtractEnvValue(diskContent, item.Name)
		if !ok || diskValue == item.Value {
			res.Reason = ReasonNoChange
			return res
		}
		item.Value = diskValue
	}

	res.Synced = true
	return res
}

// SyncProfile runs SyncItem over every file-replace and env-var item of the
// profile, operating on a deep copy. If anything synced, the updated item
// list is persisted as a single atomic profile update.
func (s *Service) SyncProfile(profileID string) ([]Result, error) {
	p, err := s.store.Get(profileID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("profile %q not found", profileID)
	}

	working := p.Clone()

	var results []Result
	synced := false
	for i := range working.Items {
		item := &working.Items[i]
		if item.Type != profile.ItemFileReplace && item.Type != profile.ItemEnvVar {
			continue
		}
		res := s.SyncItem(item)
		results = append(results, res)
		if res.Synced {
			synced = true
		}
	}

	if synced {
		if _, err := s.store.Update(working); err != nil {
			return results, fmt.Errorf("persisting synced profile: %w", err)
		}
		log := logging.GetLogger("syncer")
		log.Info().
			Str("profile", profileID).Msg("profile synced from disk")
	}

	return results, nil
}
