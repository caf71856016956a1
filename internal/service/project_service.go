package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"atelier/internal/domain"
	"atelier/internal/engine"
)

// ─────────────────────────────────────────────────────────────
// Project Service — project lifecycle and event-log persistence
// ─────────────────────────────────────────────────────────────

// ErrNoOpenProject is returned by operations that need an open project.
var ErrNoOpenProject = errors.New("no open project")

// OpenProject is one project loaded into memory: its engine store, the
// interaction session bound to it, and the project record.
type OpenProject struct {
	Project *domain.Project
	Store   *engine.Store
	Session *engine.Session
}

// ProjectService owns the open project and keeps its durable event log in
// step with the in-memory one. One project is open at a time; opening
// another clears the previous engine.
type ProjectService struct {
	projects domain.ProjectStore
	events   domain.EventStore
	snaps    domain.SnapshotStore
	opts     engine.Options
	dataDir  string
	emitter  EventEmitter

	// mu guards open and persisting. The watcher goroutine re-imports
	// linked files, so these are touched from more than one goroutine.
	// Never held across store calls that fire the persistence hook.
	mu   sync.Mutex
	open *OpenProject
	// Suppresses the persistence hook while a teardown clears history.
	persisting bool
}

// NewProjectService creates a ProjectService.
func NewProjectService(
	projects domain.ProjectStore,
	events domain.EventStore,
	snaps domain.SnapshotStore,
	opts engine.Options,
	dataDir string,
	emitter EventEmitter,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		events:   events,
		snaps:    snaps,
		opts:     opts,
		dataDir:  dataDir,
		emitter:  emitter,
	}
}

// ListProjects returns all project records.
func (s *ProjectService) ListProjects() ([]domain.Project, error) {
	return s.projects.ListProjects()
}

// CreateProject creates an empty project and returns its record.
func (s *ProjectService) CreateProject(name string) (*domain.Project, error) {
	p := &domain.Project{ID: uuid.New().String(), Name: name}
	if err := s.projects.CreateProject(p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// RenameProject renames a project record.
func (s *ProjectService) RenameProject(id, name string) error {
	return s.projects.RenameProject(id, name)
}

// DeleteProject removes the project, its event log, and its snapshots.
// Deleting the open project closes it first.
func (s *ProjectService) DeleteProject(id string) error {
	if open := s.Open(); open != nil && open.Project.ID == id {
		s.CloseProject()
	}
	if err := s.events.DeleteEvents(id); err != nil {
		return err
	}
	if err := s.snaps.DeleteSnapshots(id); err != nil {
		return err
	}
	return s.projects.DeleteProject(id)
}

// Open returns the currently open project, or nil.
func (s *ProjectService) Open() *OpenProject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// OpenProject loads a project: its stored events replay through the
// engine's append path, the persisted cursor is restored by undoing back
// to it, and from then on every log mutation is mirrored to storage.
func (s *ProjectService) OpenProject(ctx context.Context, id string) (*OpenProject, error) {
	record, err := s.projects.GetProject(id)
	if err != nil {
		return nil, err
	}
	events, err := s.events.LoadEvents(id)
	if err != nil {
		return nil, fmt.Errorf("open project %s: %w", id, err)
	}
	cursor, err := s.events.LoadCursor(id)
	if err != nil {
		return nil, fmt.Errorf("open project %s: %w", id, err)
	}

	store := engine.NewStore(s.opts)
	if err := store.LoadEvents(events); err != nil {
		return nil, fmt.Errorf("open project %s: %w", id, err)
	}
	// Walk the cursor back to where it was persisted. These steps happen
	// before the persistence hook attaches, so they don't write anything.
	for store.Cursor() > cursor {
		if !store.Undo() {
			break
		}
	}

	store.HookLog(func(op engine.LogOp) { s.persist(id, op) })

	if prev := s.Open(); prev != nil {
		prev.Store.Clear()
	}
	open := &OpenProject{
		Project: record,
		Store:   store,
		Session: engine.NewSession(store),
	}
	s.mu.Lock()
	s.open = open
	s.mu.Unlock()
	s.emitter.Emit(ctx, "project:opened", record)
	return open, nil
}

// CloseProject clears the open engine.
func (s *ProjectService) CloseProject() {
	s.mu.Lock()
	open := s.open
	if open == nil {
		s.mu.Unlock()
		return
	}
	s.persisting = true
	s.mu.Unlock()

	open.Store.Clear()

	s.mu.Lock()
	s.persisting = false
	s.open = nil
	s.mu.Unlock()
}

// persist mirrors one log mutation to the durable event log.
func (s *ProjectService) persist(projectID string, op engine.LogOp) {
	s.mu.Lock()
	skip := s.persisting
	s.mu.Unlock()
	if skip {
		return
	}
	switch op.Kind {
	case engine.LogAppend:
		if op.TruncatedFrom >= 0 {
			if err := s.events.TruncateEvents(projectID, op.TruncatedFrom); err != nil {
				s.emitter.Emit(context.Background(), "project:persist-error", err.Error())
				return
			}
		}
		if err := s.events.AppendEvent(projectID, op.Seq, *op.Event); err != nil {
			s.emitter.Emit(context.Background(), "project:persist-error", err.Error())
			return
		}
		s.saveCursor(projectID, op.Cursor)
		s.projects.Touch(projectID)
	case engine.LogUndo, engine.LogRedo:
		s.saveCursor(projectID, op.Cursor)
	case engine.LogClear:
		// Switching projects; the durable log stays.
	}
}

func (s *ProjectService) saveCursor(projectID string, cursor int) {
	if err := s.events.SaveCursor(projectID, cursor); err != nil {
		s.emitter.Emit(context.Background(), "project:persist-error", err.Error())
	}
}

// ── snapshots ──────────────────────────────────────────────

// snapshotKeep bounds how many snapshots a project accumulates.
const snapshotKeep = 20

// Snapshot serializes the open project's state and stores it at the
// current cursor, pruning old snapshots.
func (s *ProjectService) Snapshot(ctx context.Context) error {
	open := s.Open()
	if open == nil {
		return ErrNoOpenProject
	}
	state := open.Store.State()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	id := open.Project.ID
	cursor := open.Store.Cursor()
	if err := s.snaps.SaveSnapshot(id, cursor, string(data)); err != nil {
		return err
	}
	if err := s.snaps.PruneSnapshots(id, snapshotKeep); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "project:snapshot", map[string]any{
		"projectId": id,
		"cursor":    cursor,
	})
	return nil
}

// ── export / import ────────────────────────────────────────

// ExportPath returns the default export location for a project.
func (s *ProjectService) ExportPath(projectID string) string {
	return filepath.Join(s.dataDir, projectID+".json")
}

// ExportProject writes the open project's ordered event array to path.
// An empty path exports to the default location. Returns the written
// path.
func (s *ProjectService) ExportProject(path string) (string, error) {
	open := s.Open()
	if open == nil {
		return "", ErrNoOpenProject
	}
	if path == "" {
		path = s.ExportPath(open.Project.ID)
	}
	data, err := open.Store.ExportJSON()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}

// ImportProject replaces the open project's history with the event array
// read from path. The file replays through the engine's validated load
// path, so payloads and timestamps survive the round trip verbatim and a
// malformed event aborts with its index. The durable log is rewritten
// only once the whole file is accepted.
func (s *ProjectService) ImportProject(ctx context.Context, path string) error {
	open := s.Open()
	if open == nil {
		return ErrNoOpenProject
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	id := open.Project.ID
	if err := open.Store.ImportJSON(data); err != nil {
		// A rejected load resets the store; rebuild it from the durable
		// log so the open project is not left empty.
		s.restore(id, open.Store)
		return fmt.Errorf("import: %w", err)
	}

	if err := s.events.TruncateEvents(id, 0); err != nil {
		return err
	}
	events := open.Store.Events()
	for i, ev := range events {
		if err := s.events.AppendEvent(id, i, ev); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	s.saveCursor(id, open.Store.Cursor())

	s.emitter.Emit(ctx, "project:imported", map[string]any{
		"projectId": id,
		"events":    len(events),
	})
	return nil
}

// restore reloads a store from the durable event log and walks the cursor
// back to its persisted position. Load errors are swallowed: this runs on
// a path that is already reporting a failure.
func (s *ProjectService) restore(id string, st *engine.Store) {
	stored, err := s.events.LoadEvents(id)
	if err != nil {
		return
	}
	if err := st.LoadEvents(stored); err != nil {
		return
	}
	cursor, err := s.events.LoadCursor(id)
	if err != nil {
		return
	}
	for st.Cursor() > cursor {
		if !st.Undo() {
			break
		}
	}
}
