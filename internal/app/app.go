package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"atelier/internal/domain"
	"atelier/internal/engine"
	"atelier/internal/service"
	"atelier/internal/storage"
)

// App is the per-process context object owning the database, the project
// service, and the open project's engine. The UI layer holds one App per
// open workspace and drives everything through it; there is no package-
// level state.
type App struct {
	ctx context.Context

	cfg      Config
	db       *storage.DB
	projects *service.ProjectService
	autosave *service.Autosave
	watcher  *projectWatcher
	emitter  service.EventEmitter

	unsubscribe func()
}

// Config tunes the App. Zero-value fields fall back to defaults.
type Config struct {
	// DataDir is where the database and export files live. Defaults to
	// ~/.local/share/atelier.
	DataDir string
	// Engine is the design-engine tuning; zero value means defaults.
	Engine *engine.Options
	// AutosaveSpec is a cron descriptor for periodic snapshots; empty
	// disables autosave.
	AutosaveSpec string
	// Emitter receives frontend events; nil means discard.
	Emitter service.EventEmitter
}

// New creates an App. Call Startup before use.
func New(cfg Config) *App {
	if cfg.DataDir == "" {
		homeDir, _ := os.UserHomeDir()
		cfg.DataDir = filepath.Join(homeDir, ".local", "share", "atelier")
	}
	if cfg.Emitter == nil {
		cfg.Emitter = service.NoopEmitter{}
	}
	return &App{cfg: cfg, emitter: cfg.Emitter}
}

// Startup opens storage and wires the services.
func (a *App) Startup(ctx context.Context) error {
	a.ctx = ctx

	dbPath := filepath.Join(a.cfg.DataDir, "atelier.db")
	db, err := storage.New(dbPath, filepath.Join(a.cfg.DataDir, "projects"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.db = db

	opts := engine.DefaultOptions()
	if a.cfg.Engine != nil {
		opts = *a.cfg.Engine
	}

	projectStore := storage.NewProjectStore(db)
	a.projects = service.NewProjectService(
		projectStore,
		storage.NewEventStore(db),
		storage.NewSnapshotStore(db),
		opts,
		db.DataDir(),
		a.emitter,
	)

	a.autosave = service.NewAutosave(a.projects)
	if a.cfg.AutosaveSpec != "" {
		if err := a.autosave.Start(a.cfg.AutosaveSpec); err != nil {
			return err
		}
	}

	watcher, err := newProjectWatcher(ctx, a.projects, projectStore, a.emitter)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	a.watcher = watcher

	return nil
}

// Shutdown stops background work and closes storage.
func (a *App) Shutdown(context.Context) {
	if a.autosave != nil {
		a.autosave.Stop()
	}
	if a.watcher != nil {
		a.watcher.Close()
	}
	a.closeOpenProject()
	if a.db != nil {
		a.db.Close()
	}
}

// Projects exposes the project service for callers such as the MCP layer.
func (a *App) Projects() *service.ProjectService { return a.projects }

// ============================================================
// Project lifecycle
// ============================================================

func (a *App) ListProjects() ([]domain.Project, error) {
	return a.projects.ListProjects()
}

func (a *App) CreateProject(name string) (*domain.Project, error) {
	return a.projects.CreateProject(name)
}

func (a *App) RenameProject(id, name string) error {
	return a.projects.RenameProject(id, name)
}

func (a *App) DeleteProject(id string) error {
	return a.projects.DeleteProject(id)
}

// OpenProject opens a project and re-wires the state subscription so the
// frontend receives a design:state emission on every history change.
func (a *App) OpenProject(id string) (*domain.Project, error) {
	a.closeOpenProject()
	open, err := a.projects.OpenProject(a.ctx, id)
	if err != nil {
		return nil, err
	}
	a.unsubscribe = open.Store.Subscribe(func(st *engine.State) {
		a.emitter.Emit(a.ctx, "design:state", st)
	})
	a.watcher.SetProject(open.Project.ID)
	return open.Project, nil
}

func (a *App) closeOpenProject() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.projects != nil {
		a.projects.CloseProject()
	}
}

// CloseProject closes the open project.
func (a *App) CloseProject() { a.closeOpenProject() }

// ExportProject writes the open project's event array; empty path means
// the default export location.
func (a *App) ExportProject(path string) (string, error) {
	return a.projects.ExportProject(path)
}

// ImportProject replaces the open project's history from a file.
func (a *App) ImportProject(path string) error {
	return a.projects.ImportProject(a.ctx, path)
}

// LinkExportFile associates the open project with an export file that is
// watched for external edits; saving the file re-imports the history.
func (a *App) LinkExportFile(path string) error {
	open := a.projects.Open()
	if open == nil {
		return service.ErrNoOpenProject
	}
	return a.watcher.Watch(open.Project.ID, path)
}

// Snapshot takes a state snapshot of the open project now.
func (a *App) Snapshot() error {
	return a.projects.Snapshot(a.ctx)
}

// ============================================================
// Design state and history
// ============================================================

func (a *App) store() (*engine.Store, error) {
	open := a.projects.Open()
	if open == nil {
		return nil, service.ErrNoOpenProject
	}
	return open.Store, nil
}

func (a *App) session() (*engine.Session, error) {
	open := a.projects.Open()
	if open == nil {
		return nil, service.ErrNoOpenProject
	}
	return open.Session, nil
}

// State returns the open project's current design state.
func (a *App) State() (*engine.State, error) {
	st, err := a.store()
	if err != nil {
		return nil, err
	}
	return st.State(), nil
}

// Undo steps history back; false means the bound was hit or no project is
// open.
func (a *App) Undo() bool {
	st, err := a.store()
	if err != nil {
		return false
	}
	return st.Undo()
}

// Redo steps history forward.
func (a *App) Redo() bool {
	st, err := a.store()
	if err != nil {
		return false
	}
	return st.Redo()
}

func (a *App) CanUndo() bool {
	st, err := a.store()
	return err == nil && st.CanUndo()
}

func (a *App) CanRedo() bool {
	st, err := a.store()
	return err == nil && st.CanRedo()
}

// HistoryInfo describes the open project's log position.
type HistoryInfo struct {
	Events  int  `json:"events"`
	Cursor  int  `json:"cursor"`
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

// History returns the open project's event count and cursor position.
func (a *App) History() (HistoryInfo, error) {
	st, err := a.store()
	if err != nil {
		return HistoryInfo{}, err
	}
	return HistoryInfo{
		Events:  st.EventCount(),
		Cursor:  st.Cursor(),
		CanUndo: st.CanUndo(),
		CanRedo: st.CanRedo(),
	}, nil
}

// ============================================================
// Pointer entry points
// ============================================================

// emitInteraction publishes the interaction snapshot after every pointer
// call so the renderer can draw pending geometry.
func (a *App) emitInteraction(sess *engine.Session) {
	a.emitter.Emit(a.ctx, "design:interaction", sess.Snapshot())
}

func (a *App) BeginDrag(elementID string, screen domain.Point) error {
	sess, err := a.session()
	if err != nil {
		return err
	}
	if err := sess.BeginDrag(elementID, screen); err != nil {
		return err
	}
	a.emitInteraction(sess)
	return nil
}

func (a *App) BeginResize(elementID string, handle domain.Handle, screen domain.Point) error {
	sess, err := a.session()
	if err != nil {
		return err
	}
	if err := sess.BeginResize(elementID, handle, screen); err != nil {
		return err
	}
	a.emitInteraction(sess)
	return nil
}

func (a *App) BeginMarquee(screen domain.Point) error {
	sess, err := a.session()
	if err != nil {
		return err
	}
	if err := sess.BeginMarquee(screen); err != nil {
		return err
	}
	a.emitInteraction(sess)
	return nil
}

func (a *App) UpdatePointer(screen domain.Point) error {
	sess, err := a.session()
	if err != nil {
		return err
	}
	sess.UpdatePointer(screen)
	a.emitInteraction(sess)
	return nil
}

func (a *App) EndPointer() error {
	sess, err := a.session()
	if err != nil {
		return err
	}
	if err := sess.EndPointer(); err != nil {
		return err
	}
	a.emitInteraction(sess)
	return nil
}

// CancelPointer discards the in-progress gesture, e.g. on focus loss.
func (a *App) CancelPointer() error {
	sess, err := a.session()
	if err != nil {
		return err
	}
	sess.Cancel()
	a.emitInteraction(sess)
	return nil
}

// Interaction returns the current interaction snapshot.
func (a *App) Interaction() (engine.SessionSnapshot, error) {
	sess, err := a.session()
	if err != nil {
		return engine.SessionSnapshot{}, err
	}
	return sess.Snapshot(), nil
}
