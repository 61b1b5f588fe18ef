// Package project implements the project/report store: CRUD and invariant
// enforcement over named projects and their ordered report lists, backed by
// one kv namespace (key = project name, value = whole project document).
//
// Commit discipline: every mutation stages the full project document in the
// kv working copy, calls Persist, and only updates the in-memory snapshot
// after Persist succeeds. A failed persist therefore leaves readers seeing
// the prior state. All mutating methods hold one mutex for the whole
// read-modify-persist cycle, so concurrent callers are serialized rather
// than racing on the snapshot.
package project

import (
	"context"
	"log/slog"
	"sync"

	"hazreport/internal/kv"
	"hazreport/internal/model"
)

// Renderer is the document-generation capability Generate delegates to.
// The store does not interpret the returned summary beyond surfacing it.
type Renderer interface {
	Generate(ctx context.Context, projectName string, reports []model.Report) (string, error)
}

// Store owns the in-memory snapshot of all projects and the current
// selection. Create one per process with Open; pass the handle explicitly
// to consumers.
type Store struct {
	ns *kv.Namespace

	mu       sync.Mutex
	projects []model.Project
	current  string
}

// Open loads every project document from the namespace. Documents that fail
// to decode are skipped with a warning rather than aborting the load, so one
// corrupt entry does not take down the whole collection. The first project
// (key order) becomes the current selection.
func Open(ns *kv.Namespace) (*Store, error) {
	s := &Store{ns: ns}
	for _, key := range ns.Keys() {
		var p model.Project
		ok, err := ns.GetJSON(key, &p)
		if err != nil {
			slog.Warn("skipping undecodable project document", "key", key, "error", err)
			continue
		}
		if !ok || p.ProjectName == "" {
			slog.Warn("skipping malformed project document", "key", key)
			continue
		}
		s.projects = append(s.projects, p)
	}
	if len(s.projects) > 0 {
		s.current = s.projects[0].ProjectName
	}
	return s, nil
}

// List returns deep copies of all projects in load/creation order.
func (s *Store) List() []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = p.Clone()
	}
	return out
}

// Get returns a deep copy of the named project.
func (s *Store) Get(name string) (model.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.find(name); p != nil {
		return p.Clone(), true
	}
	return model.Project{}, false
}

// Current returns a deep copy of the currently selected project, if any.
func (s *Store) Current() (model.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == "" {
		return model.Project{}, false
	}
	if p := s.find(s.current); p != nil {
		return p.Clone(), true
	}
	return model.Project{}, false
}

// SetCurrent selects the named project.
func (s *Store) SetCurrent(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(name) == nil {
		return newProjectNotFound(name)
	}
	s.current = name
	return nil
}

// Create adds an empty project under the trimmed name, persists it, and on
// success selects it as current.
func (s *Store) Create(ctx context.Context, name string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := model.CanonicalName(name)
	if trimmed == "" {
		return model.Project{}, newEmptyName("project name must not be empty")
	}
	if s.find(trimmed) != nil {
		return model.Project{}, newDuplicateName(trimmed)
	}

	p := model.Project{ProjectName: trimmed, ReportList: []model.Report{}}
	if err := s.persistProject(ctx, p); err != nil {
		return model.Project{}, err
	}

	s.projects = append(s.projects, p)
	s.current = trimmed
	return p.Clone(), nil
}

// Delete removes the project and all its reports. If the deleted project was
// current, the first remaining project (or none) becomes current.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(name) == nil {
		return newProjectNotFound(name)
	}

	s.ns.Delete(name)
	if err := s.ns.Persist(ctx); err != nil {
		return err
	}

	kept := s.projects[:0]
	for _, p := range s.projects {
		if p.ProjectName != name {
			kept = append(kept, p)
		}
	}
	s.projects = kept

	if s.current == name {
		if len(s.projects) > 0 {
			s.current = s.projects[0].ProjectName
		} else {
			s.current = ""
		}
	}
	return nil
}

// Rename moves the project document to the new key. Both halves of the move
// are staged before one Persist, so the on-disk state never holds both keys
// or neither. Renaming a project to its own name is a no-op success.
func (s *Store) Rename(ctx context.Context, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := model.CanonicalName(newName)
	if trimmed == "" {
		return newEmptyName("project name must not be empty")
	}
	if trimmed == oldName {
		return nil
	}
	if s.find(trimmed) != nil {
		return newDuplicateName(trimmed)
	}
	p := s.find(oldName)
	if p == nil {
		return newProjectNotFound(oldName)
	}

	renamed := p.Clone()
	renamed.ProjectName = trimmed

	if err := s.ns.SetJSON(trimmed, renamed); err != nil {
		return err
	}
	s.ns.Delete(oldName)
	if err := s.ns.Persist(ctx); err != nil {
		return err
	}

	*p = renamed
	if s.current == oldName {
		s.current = trimmed
	}
	return nil
}

// AddReport appends a report to the named project. The report's internal id
// is always freshly assigned here; any id on the input is ignored. Fails on
// a duplicate report number within the project.
func (s *Store) AddReport(ctx context.Context, projectName string, r model.Report) (model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(projectName)
	if p == nil {
		return model.Report{}, newProjectNotFound(projectName)
	}
	if model.CanonicalName(r.ReportID) == "" {
		return model.Report{}, newEmptyName("report number must not be empty")
	}
	for _, existing := range p.ReportList {
		if existing.ReportID == r.ReportID {
			return model.Report{}, newDuplicateReportID(projectName, r.ReportID)
		}
	}

	stored := r.Clone()
	stored.InternalID = model.NewInternalID()

	updated := p.Clone()
	updated.ReportList = append(updated.ReportList, stored)
	if err := s.persistProject(ctx, updated); err != nil {
		return model.Report{}, err
	}

	*p = updated
	return stored.Clone(), nil
}

// UpdateReport replaces the report identified by internalID. The stored
// internal id is preserved even when the incoming record carries a different
// one. When the report number changed, uniqueness is re-checked against all
// other reports in the project.
func (s *Store) UpdateReport(ctx context.Context, projectName, internalID string, r model.Report) (model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(projectName)
	if p == nil {
		return model.Report{}, newProjectNotFound(projectName)
	}
	existing := p.FindReport(internalID)
	if existing == nil {
		return model.Report{}, newReportNotFound(projectName, internalID)
	}
	if model.CanonicalName(r.ReportID) == "" {
		return model.Report{}, newEmptyName("report number must not be empty")
	}
	if existing.ReportID != r.ReportID {
		for _, other := range p.ReportList {
			if other.InternalID != internalID && other.ReportID == r.ReportID {
				return model.Report{}, newDuplicateReportID(projectName, r.ReportID)
			}
		}
	}

	stored := r.Clone()
	stored.InternalID = internalID

	updated := p.Clone()
	for i := range updated.ReportList {
		if updated.ReportList[i].InternalID == internalID {
			updated.ReportList[i] = stored
		}
	}
	if err := s.persistProject(ctx, updated); err != nil {
		return model.Report{}, err
	}

	*p = updated
	return stored.Clone(), nil
}

// DeleteReport removes the report with the given internal id. Deleting an
// absent id is a no-op success, so repeated deletes are safe.
func (s *Store) DeleteReport(ctx context.Context, projectName, internalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(projectName)
	if p == nil {
		return newProjectNotFound(projectName)
	}
	if p.FindReport(internalID) == nil {
		return nil
	}

	updated := p.Clone()
	kept := updated.ReportList[:0]
	for _, r := range updated.ReportList {
		if r.InternalID != internalID {
			kept = append(kept, r)
		}
	}
	updated.ReportList = kept
	if err := s.persistProject(ctx, updated); err != nil {
		return err
	}

	*p = updated
	return nil
}

// Generate delegates the project's full report list to the renderer and
// returns its summary verbatim. It has no side effect on the store.
func (s *Store) Generate(ctx context.Context, projectName string, renderer Renderer) (string, error) {
	s.mu.Lock()
	p := s.find(projectName)
	if p == nil {
		s.mu.Unlock()
		return "", newProjectNotFound(projectName)
	}
	if len(p.ReportList) == 0 {
		s.mu.Unlock()
		return "", newEmptyReportList(projectName)
	}
	snapshot := p.Clone()
	s.mu.Unlock()

	// Renderer runs outside the lock: generation may be slow and must not
	// block store reads.
	return renderer.Generate(ctx, snapshot.ProjectName, snapshot.ReportList)
}

// find returns the live snapshot entry. Callers hold s.mu.
func (s *Store) find(name string) *model.Project {
	for i := range s.projects {
		if s.projects[i].ProjectName == name {
			return &s.projects[i]
		}
	}
	return nil
}

// persistProject stages the whole project document and flushes it. Write
// granularity is the full document: per-report deltas do not exist.
func (s *Store) persistProject(ctx context.Context, p model.Project) error {
	if err := s.ns.SetJSON(p.ProjectName, p); err != nil {
		return err
	}
	return s.ns.Persist(ctx)
}
