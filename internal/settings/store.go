// Package settings manages the configurable option lists (hazard levels,
// hazard types, industries, unit types) that pre-fill report form fields.
//
// The whole document lives under one fixed key in its kv namespace. Add and
// Remove follow the store-wide commit discipline: stage, persist, and only
// then update the in-memory snapshot. Duplicate or blank additions return
// false without error; that is the intended fail-quiet behavior for the
// editing surface, not a swallowed fault.
package settings

import (
	"context"
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"hazreport/internal/kv"
	"hazreport/internal/model"
)

// settingsKey is the single document key within the namespace.
const settingsKey = "settings"

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults returns the seed option lists.
func Defaults() (model.OptionSets, error) {
	var out model.OptionSets
	if err := yaml.Unmarshal(defaultsYAML, &out); err != nil {
		return model.OptionSets{}, fmt.Errorf("decode default settings: %w", err)
	}
	return out, nil
}

// Store owns the in-memory option lists. All mutating methods serialize on
// one mutex for the full read-modify-persist cycle.
type Store struct {
	ns *kv.Namespace

	mu   sync.Mutex
	sets model.OptionSets
}

// Open loads the settings document, seeding and persisting the defaults
// when no document exists yet.
func Open(ctx context.Context, ns *kv.Namespace) (*Store, error) {
	s := &Store{ns: ns}

	ok, err := ns.GetJSON(settingsKey, &s.sets)
	if err != nil {
		return nil, err
	}
	if !ok {
		defaults, err := Defaults()
		if err != nil {
			return nil, err
		}
		if err := s.persist(ctx, defaults); err != nil {
			return nil, err
		}
		s.sets = defaults
	}
	return s, nil
}

// Sets returns a deep copy of all option lists.
func (s *Store) Sets() model.OptionSets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets.Clone()
}

// List returns a copy of the entries for one kind.
func (s *Store) List(kind model.OptionKind) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sets.List(kind))
}

// Add appends a new entry to the kind's list. Returns false (without error)
// when the trimmed value is empty or already present; persistence failures
// are returned as errors with the snapshot untouched.
func (s *Store) Add(ctx context.Context, kind model.OptionKind, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := model.CanonicalName(value)
	if trimmed == "" {
		return false, nil
	}
	if slices.Contains(s.sets.List(kind), trimmed) {
		return false, nil
	}

	next := s.sets.Clone()
	next.SetList(kind, append(next.List(kind), trimmed))
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.sets = next
	return true, nil
}

// Remove filters the entry out of the kind's list. Removing an absent entry
// is a no-op success.
func (s *Store) Remove(ctx context.Context, kind model.OptionKind, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.sets.List(kind)
	if !slices.Contains(current, value) {
		return false, nil
	}

	next := s.sets.Clone()
	kept := make([]string, 0, len(current)-1)
	for _, v := range current {
		if v != value {
			kept = append(kept, v)
		}
	}
	next.SetList(kind, kept)
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.sets = next
	return true, nil
}

// Reset overwrites every list with the seed set.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults, err := Defaults()
	if err != nil {
		return err
	}
	if err := s.persist(ctx, defaults); err != nil {
		return err
	}
	s.sets = defaults
	return nil
}

func (s *Store) persist(ctx context.Context, sets model.OptionSets) error {
	if err := s.ns.SetJSON(settingsKey, sets); err != nil {
		return err
	}
	return s.ns.Persist(ctx)
}
