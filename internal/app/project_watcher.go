package app

import (
	"context"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"atelier/internal/service"
	"atelier/internal/storage"
)

// projectWatcher watches linked export files for external edits (another
// process, a text editor, a sync tool) and re-imports the event log when
// the file is written. Only the open project's link is acted on.
type projectWatcher struct {
	ctx      context.Context
	projects *service.ProjectService
	links    *storage.ProjectStore
	emitter  service.EventEmitter
	watcher  *fsnotify.Watcher

	mu        sync.Mutex
	projectID string
	watching  map[string]string // absolute file path -> project id
}

func newProjectWatcher(ctx context.Context, projects *service.ProjectService, links *storage.ProjectStore, emitter service.EventEmitter) (*projectWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &projectWatcher{
		ctx:      ctx,
		projects: projects,
		links:    links,
		emitter:  emitter,
		watcher:  fsw,
		watching: map[string]string{},
	}
	go w.watchLoop()
	return w, nil
}

// SetProject switches which project's link fires imports. An existing
// link for the project is re-armed from storage.
func (w *projectWatcher) SetProject(projectID string) {
	w.mu.Lock()
	w.projectID = projectID
	w.mu.Unlock()

	path, err := w.links.GetLink(projectID)
	if err != nil || path == "" {
		return
	}
	if err := w.Watch(projectID, path); err != nil {
		log.Printf("watcher: re-arm link for %s: %v", projectID, err)
	}
}

// Watch links a project to an export file and starts watching it.
func (w *projectWatcher) Watch(projectID, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.links.SetLink(projectID, absPath); err != nil {
		return err
	}

	w.mu.Lock()
	w.watching[absPath] = projectID
	w.mu.Unlock()

	// fsnotify watches directories for file events
	return w.watcher.Add(filepath.Dir(absPath))
}

// Close stops the watcher.
func (w *projectWatcher) Close() error {
	return w.watcher.Close()
}

func (w *projectWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			absPath, _ := filepath.Abs(event.Name)
			w.mu.Lock()
			projectID, watched := w.watching[absPath]
			active := watched && projectID == w.projectID
			w.mu.Unlock()
			if !active {
				continue
			}
			if err := w.projects.ImportProject(w.ctx, absPath); err != nil {
				log.Printf("watcher: import %s: %v", absPath, err)
				continue
			}
			w.emitter.Emit(w.ctx, "project:reloaded", map[string]string{
				"projectId": projectID,
				"path":      absPath,
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher: %v", err)
		}
	}
}
