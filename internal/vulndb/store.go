// Package vulndb manages the name-keyed vulnerability knowledge base used to
// pre-fill report description and remediation fields.
//
// The whole entry list lives under one fixed key in its kv namespace, so
// every mutation (including Rename) is a single read-modify-write committed
// by one Persist. The pre-fill relationship to reports is advisory only:
// callers look entries up by name, nothing here references reports.
package vulndb

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"hazreport/internal/kv"
	"hazreport/internal/model"
)

// dbKey is the single document key within the namespace.
const dbKey = "vulnDB"

//go:embed defaults.yaml
var defaultsYAML []byte

type defaultsDoc struct {
	Entries []model.VulnEntry `yaml:"entries"`
}

// Defaults returns the seed knowledge base.
func Defaults() ([]model.VulnEntry, error) {
	var doc defaultsDoc
	if err := yaml.Unmarshal(defaultsYAML, &doc); err != nil {
		return nil, fmt.Errorf("decode default vuln db: %w", err)
	}
	return doc.Entries, nil
}

// Store owns the in-memory entry list. All mutating methods serialize on one
// mutex for the full read-modify-persist cycle.
type Store struct {
	ns *kv.Namespace

	mu      sync.Mutex
	entries []model.VulnEntry
}

// Open loads the knowledge base, seeding and persisting the defaults when no
// document exists yet.
func Open(ctx context.Context, ns *kv.Namespace) (*Store, error) {
	s := &Store{ns: ns}

	ok, err := ns.GetJSON(dbKey, &s.entries)
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
		s.entries = defaults
	}
	return s, nil
}

// Entries returns a copy of all entries in stored order.
func (s *Store) Entries() []model.VulnEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.VulnEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry with the given name (case-sensitive exact match).
func (s *Store) Get(name string) (model.VulnEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.VulName == name {
			return e, true
		}
	}
	return model.VulnEntry{}, false
}

// Names returns all entry names in stored order.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.VulName
	}
	return out
}

// Add appends a new entry. Returns false (without error) when the trimmed
// name is empty or already taken; use Upsert to replace.
func (s *Store) Add(ctx context.Context, entry model.VulnEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.VulName = model.CanonicalName(entry.VulName)
	if entry.VulName == "" {
		return false, nil
	}
	if s.indexOf(entry.VulName) >= 0 {
		return false, nil
	}

	next := append(s.copyEntries(), entry)
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.entries = next
	return true, nil
}

// Upsert replaces the entry with the same name entirely, or appends when
// the name is new. The bool reports whether an existing entry was replaced;
// a blank name is a no-op that reports false without error.
func (s *Store) Upsert(ctx context.Context, entry model.VulnEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.VulName = model.CanonicalName(entry.VulName)
	if entry.VulName == "" {
		return false, nil
	}

	next := s.copyEntries()
	replaced := false
	if i := s.indexOf(entry.VulName); i >= 0 {
		next[i] = entry
		replaced = true
	} else {
		next = append(next, entry)
	}
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.entries = next
	return replaced, nil
}

// Remove filters the named entry out. Removing an absent name reports false.
func (s *Store) Remove(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(name)
	if i < 0 {
		return false, nil
	}

	next := append(s.copyEntries()[:i], s.entries[i+1:]...)
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.entries = next
	return true, nil
}

// Rename replaces the entry stored under oldName with the given record (whose
// name may differ). Both the removal and the insert land in one persisted
// write, so an interrupted rename can never lose the record.
func (s *Store) Rename(ctx context.Context, oldName string, entry model.VulnEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.VulName = model.CanonicalName(entry.VulName)
	if entry.VulName == "" {
		return false, nil
	}
	i := s.indexOf(oldName)
	if i < 0 {
		return false, nil
	}
	if entry.VulName != oldName && s.indexOf(entry.VulName) >= 0 {
		return false, nil
	}

	next := s.copyEntries()
	next[i] = entry
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.entries = next
	return true, nil
}

// Reset overwrites the knowledge base with the seed set.
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
	s.entries = defaults
	return nil
}

// indexOf returns the position of the named entry, or -1. Callers hold s.mu.
func (s *Store) indexOf(name string) int {
	for i, e := range s.entries {
		if e.VulName == name {
			return i
		}
	}
	return -1
}

func (s *Store) copyEntries() []model.VulnEntry {
	out := make([]model.VulnEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) persist(ctx context.Context, entries []model.VulnEntry) error {
	if err := s.ns.SetJSON(dbKey, entries); err != nil {
		return err
	}
	return s.ns.Persist(ctx)
}
