package engine

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"atelier/internal/domain"
)

// Observer is notified with the freshly derived state after every
// append, undo, redo, and clear.
type Observer func(*State)

// LogOpKind tags a log mutation for hooks that mirror the log elsewhere.
type LogOpKind string

const (
	LogAppend LogOpKind = "append"
	LogUndo   LogOpKind = "undo"
	LogRedo   LogOpKind = "redo"
	LogClear  LogOpKind = "clear"
)

// LogOp describes one log mutation. For appends, Event and Seq are set and
// TruncatedFrom is the index the redo branch was dropped from (-1 when
// nothing was dropped).
type LogOp struct {
	Kind          LogOpKind
	Event         *domain.Event
	Seq           int
	TruncatedFrom int
	Cursor        int
}

// LogHook observes log mutations; the persistence layer uses it to keep
// the durable event log in step with the in-memory one.
type LogHook func(LogOp)

// Store composes the event log and the reducer behind an imperative action
// API. Every action appends exactly one event; batch actions append one
// event carrying the whole id list, which is what makes a multi-element
// drag a single undo step. The materialized state is re-derived by full
// replay after every history change.
type Store struct {
	mu        sync.Mutex
	log       *Log
	state     *State
	opts      Options
	observers map[int]Observer
	nextObs   int
	logHooks  []LogHook
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	return &Store{
		log:       NewLog(),
		state:     NewState(),
		opts:      opts,
		observers: map[int]Observer{},
	}
}

// Options returns the engine tuning the store was built with.
func (s *Store) Options() Options { return s.opts }

// State returns the current snapshot. Treat it as read-only; it is
// replaced wholesale on the next history change.
func (s *Store) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers an observer and returns an unsubscribe func. The
// observer is called immediately with the current state.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	st := s.state
	s.mu.Unlock()

	fn(st)
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// HookLog registers a log-mutation hook. Hooks cannot be removed; they
// live as long as the store.
func (s *Store) HookLog(h LogHook) {
	s.mu.Lock()
	s.logHooks = append(s.logHooks, h)
	s.mu.Unlock()
}

// append journals one event, re-derives state, and fans out to hooks and
// observers. Caller must not hold the lock.
func (s *Store) append(p domain.Payload) error {
	s.mu.Lock()
	ev := domain.NewEvent(p)
	seq, truncatedFrom, err := s.log.Append(ev)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	stored := s.log.All()[seq]
	s.state = Reduce(NewState(), s.log.Active())
	st := s.state
	hooks := append([]LogHook(nil), s.logHooks...)
	obs := s.snapshotObservers()
	op := LogOp{Kind: LogAppend, Event: &stored, Seq: seq, TruncatedFrom: truncatedFrom, Cursor: s.log.Cursor()}
	s.mu.Unlock()

	for _, h := range hooks {
		h(op)
	}
	for _, fn := range obs {
		fn(st)
	}
	return nil
}

func (s *Store) snapshotObservers() []Observer {
	obs := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		obs = append(obs, fn)
	}
	return obs
}

// ── element actions ────────────────────────────────────────

// AddElement journals an element-added event. A blank id is filled in with
// a fresh uuid; the generated id is returned synchronously.
func (s *Store) AddElement(el domain.Element) (string, error) {
	if el.ID == "" {
		el.ID = uuid.New().String()
	}
	if el.Opacity == 0 {
		el.Opacity = 1
	}
	if err := s.append(domain.ElementAdded{Element: el}); err != nil {
		return "", fmt.Errorf("add element: %w", err)
	}
	return el.ID, nil
}

// MoveElement journals an absolute move of a single element.
func (s *Store) MoveElement(id string, x, y float64) error {
	return s.append(domain.ElementMoved{ID: id, X: x, Y: y})
}

// ResizeElement journals a new geometry for a single element.
func (s *Store) ResizeElement(id string, rect domain.Rect) error {
	return s.append(domain.ElementResized{ID: id, Rect: rect})
}

// UpdateElement journals a patch of non-geometry fields.
func (s *Store) UpdateElement(patch domain.ElementUpdated) error {
	return s.append(patch)
}

// MoveElements journals one batch move: a shared delta applied to every
// id. Ids that no longer exist are skipped by the reducer.
func (s *Store) MoveElements(ids []string, dx, dy float64) error {
	return s.append(domain.ElementsMoved{IDs: ids, DX: dx, DY: dy})
}

// DeleteElements journals one batch delete. Each element's subtree is
// removed along with it.
func (s *Store) DeleteElements(ids ...string) error {
	return s.append(domain.ElementsDeleted{IDs: ids})
}

// SetSelection journals a selection replacement. Selection changes are
// always journaled, so select/undo restores the prior selection.
func (s *Store) SetSelection(ids []string) error {
	return s.append(domain.SelectionChanged{IDs: ids})
}

// ── page actions ───────────────────────────────────────────

// AddPage journals a page-added event, deriving an id when blank.
func (s *Store) AddPage(page domain.Page) (string, error) {
	if page.ID == "" {
		page.ID = uuid.New().String()
	}
	if page.Viewport.Zoom == 0 {
		page.Viewport.Zoom = 1
	}
	if err := s.append(domain.PageAdded{Page: page}); err != nil {
		return "", fmt.Errorf("add page: %w", err)
	}
	return page.ID, nil
}

// UpdatePage journals a patch of page metadata.
func (s *Store) UpdatePage(patch domain.PageUpdated) error {
	return s.append(patch)
}

// MovePage journals an absolute move of an artboard.
func (s *Store) MovePage(id string, x, y float64) error {
	return s.append(domain.PageMoved{ID: id, X: x, Y: y})
}

// ResizePage journals new artboard dimensions.
func (s *Store) ResizePage(id string, width, height float64) error {
	return s.append(domain.PageResized{ID: id, Width: width, Height: height})
}

// DeletePage journals a page delete; the reducer cascades to every element
// the page owns.
func (s *Store) DeletePage(id string) error {
	return s.append(domain.PageDeleted{ID: id})
}

// ActivatePage journals a current-page switch.
func (s *Store) ActivatePage(id string) error {
	return s.append(domain.PageActivated{ID: id})
}

// ── history ────────────────────────────────────────────────

// Undo steps the cursor back and re-derives state. Reports whether a step
// occurred; at the bound it is a no-op and nobody is notified.
func (s *Store) Undo() bool { return s.step(LogUndo) }

// Redo steps the cursor forward and re-derives state.
func (s *Store) Redo() bool { return s.step(LogRedo) }

func (s *Store) step(kind LogOpKind) bool {
	s.mu.Lock()
	var ok bool
	if kind == LogUndo {
		ok = s.log.Undo()
	} else {
		ok = s.log.Redo()
	}
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.state = Reduce(NewState(), s.log.Active())
	st := s.state
	hooks := append([]LogHook(nil), s.logHooks...)
	obs := s.snapshotObservers()
	op := LogOp{Kind: kind, Seq: -1, TruncatedFrom: -1, Cursor: s.log.Cursor()}
	s.mu.Unlock()

	for _, h := range hooks {
		h(op)
	}
	for _, fn := range obs {
		fn(st)
	}
	return true
}

// CanUndo reports whether an undo step is available.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.CanRedo()
}

// Cursor returns the log cursor.
func (s *Store) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Cursor()
}

// EventCount returns the total number of journaled events, redo branch
// included.
func (s *Store) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Len()
}

// Clear resets the log and state. Used when switching projects.
func (s *Store) Clear() {
	s.mu.Lock()
	s.log.Clear()
	s.state = NewState()
	st := s.state
	hooks := append([]LogHook(nil), s.logHooks...)
	obs := s.snapshotObservers()
	op := LogOp{Kind: LogClear, Seq: -1, TruncatedFrom: -1, Cursor: -1}
	s.mu.Unlock()

	for _, h := range hooks {
		h(op)
	}
	for _, fn := range obs {
		fn(st)
	}
}

// ── load / export / import ─────────────────────────────────

// LoadEvents rebuilds the log by replaying a stored event list through
// Append, so every event passes the same validation as a live mutation.
// Log hooks are intentionally not fired during a load. Events that fail
// validation abort the load and reset the store to empty; observers are
// notified either way.
func (s *Store) LoadEvents(events []domain.Event) error {
	s.mu.Lock()
	s.log.Clear()
	for i, ev := range events {
		if _, _, err := s.log.Append(ev); err != nil {
			s.log.Clear()
			s.state = NewState()
			st := s.state
			obs := s.snapshotObservers()
			s.mu.Unlock()
			for _, fn := range obs {
				fn(st)
			}
			return fmt.Errorf("load event %d: %w", i, err)
		}
	}
	s.state = Reduce(NewState(), s.log.Active())
	st := s.state
	obs := s.snapshotObservers()
	s.mu.Unlock()

	for _, fn := range obs {
		fn(st)
	}
	return nil
}

// ExportJSON serializes the ordered event array, discriminant tags and
// payloads preserved verbatim.
func (s *Store) ExportJSON() ([]byte, error) {
	s.mu.Lock()
	events := append([]domain.Event(nil), s.log.All()...)
	s.mu.Unlock()

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export events: %w", err)
	}
	return data, nil
}

// ImportJSON replaces the history with a decoded event array. The blob is
// never trusted blindly: decoding rejects unknown discriminants and every
// event re-validates on its way into the log.
func (s *Store) ImportJSON(data []byte) error {
	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("import events: %w", err)
	}
	return s.LoadEvents(events)
}

// Events returns a copy of the full event list for persistence or
// inspection.
func (s *Store) Events() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event(nil), s.log.All()...)
}
