package engine

import (
	"fmt"
	"math"
	"sync"

	"atelier/internal/domain"
)

// Mode is the interaction state machine's current state.
type Mode string

const (
	ModeIdle    Mode = "idle"
	ModeDrag    Mode = "dragging"
	ModeResize  Mode = "resizing"
	ModeMarquee Mode = "marqueeSelecting"
)

// Session is the live gesture tracker. It is session-scoped and never
// journaled: pointer deltas become pending geometry for preview, and a
// release commits at most one event to the store. Created per open
// project, next to its Store.
type Session struct {
	mu    sync.Mutex
	store *Store
	opts  Options

	mode   Mode
	ids    []string
	handle domain.Handle

	originScreen domain.Point
	lastScreen   domain.Point
	scale        float64
	travel       float64

	// Pre-gesture geometry per active element, keyed by id.
	origin  map[string]domain.Rect
	pending map[string]domain.Rect

	marqueeAnchor domain.Point
	marquee       domain.Rect
}

// SessionSnapshot is the read-only view handed to the rendering layer.
// While Mode is non-idle the renderer must prefer Pending geometry over
// the committed state for the ids listed here.
type SessionSnapshot struct {
	Mode    Mode                   `json:"mode"`
	IDs     []string               `json:"ids,omitempty"`
	Handle  domain.Handle          `json:"handle,omitempty"`
	Pending map[string]domain.Rect `json:"pending,omitempty"`
	Marquee *domain.Rect           `json:"marquee,omitempty"`
}

// NewSession creates an idle session bound to a store.
func NewSession(store *Store) *Session {
	return &Session{
		store: store,
		opts:  store.Options(),
		mode:  ModeIdle,
		scale: 1,
	}
}

// Mode returns the current state.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Snapshot returns the current interaction view for the renderer.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := SessionSnapshot{Mode: s.mode}
	if s.mode == ModeIdle {
		return snap
	}
	snap.IDs = append([]string(nil), s.ids...)
	snap.Handle = s.handle
	if len(s.pending) > 0 {
		snap.Pending = make(map[string]domain.Rect, len(s.pending))
		for id, r := range s.pending {
			snap.Pending[id] = r
		}
	}
	if s.mode == ModeMarquee {
		m := s.marquee
		snap.Marquee = &m
	}
	return snap
}

// PendingRect returns the pending geometry for an element, if the session
// is previewing one for it.
func (s *Session) PendingRect(id string) (domain.Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.pending[id]
	return r, ok
}

// BeginDrag enters the dragging state. If the grabbed element is part of
// the current selection the whole selection drags together and commits as
// one batch event. Re-entrant gestures are rejected: the pointer must be
// released first.
func (s *Session) BeginDrag(elementID string, screen domain.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeIdle {
		return fmt.Errorf("begin drag: gesture already in progress (%s)", s.mode)
	}
	st := s.store.State()
	el := st.Element(elementID)
	if el == nil {
		return fmt.Errorf("begin drag: unknown element %q", elementID)
	}

	ids := []string{elementID}
	if st.Selected(elementID) && len(st.Selection) > 1 {
		ids = st.SelectedIDs()
	}

	s.mode = ModeDrag
	s.ids = ids
	s.beginCommon(st, screen)
	for _, id := range ids {
		if e := st.Element(id); e != nil {
			s.origin[id] = e.Rect
			s.pending[id] = e.Rect
		}
	}
	return nil
}

// BeginResize enters the resizing state for a single element, recording
// which of the eight compass handles was grabbed.
func (s *Session) BeginResize(elementID string, handle domain.Handle, screen domain.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeIdle {
		return fmt.Errorf("begin resize: gesture already in progress (%s)", s.mode)
	}
	if !handle.Valid() {
		return fmt.Errorf("begin resize: unknown handle %q", handle)
	}
	st := s.store.State()
	el := st.Element(elementID)
	if el == nil {
		return fmt.Errorf("begin resize: unknown element %q", elementID)
	}

	s.mode = ModeResize
	s.ids = []string{elementID}
	s.handle = handle
	s.beginCommon(st, screen)
	s.origin[elementID] = el.Rect
	s.pending[elementID] = el.Rect
	return nil
}

// BeginMarquee enters the marquee-selecting state anchored at the given
// screen point on empty canvas.
func (s *Session) BeginMarquee(screen domain.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeIdle {
		return fmt.Errorf("begin marquee: gesture already in progress (%s)", s.mode)
	}
	st := s.store.State()
	s.mode = ModeMarquee
	s.ids = nil
	s.beginCommon(st, screen)
	s.marqueeAnchor = s.toModel(screen)
	s.marquee = domain.Rect{X: s.marqueeAnchor.X, Y: s.marqueeAnchor.Y}
	return nil
}

// beginCommon captures shared gesture origin state. Caller holds the lock.
func (s *Session) beginCommon(st *State, screen domain.Point) {
	s.originScreen = screen
	s.lastScreen = screen
	s.travel = 0
	s.origin = map[string]domain.Rect{}
	s.pending = map[string]domain.Rect{}
	s.scale = 1
	if page := st.CurrentPage(); page != nil && page.Viewport.Zoom > 0 {
		s.scale = page.Viewport.Zoom
	}
}

// UpdatePointer recomputes pending geometry from the accumulated screen
// delta. A no-op while idle.
func (s *Session) UpdatePointer(screen domain.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeIdle {
		return
	}
	s.lastScreen = screen
	dxScreen := screen.X - s.originScreen.X
	dyScreen := screen.Y - s.originScreen.Y
	s.travel = math.Max(s.travel, math.Hypot(dxScreen, dyScreen))

	// Screen deltas convert to model space by dividing by the viewport
	// scale captured at gesture start.
	dx := dxScreen / s.scale
	dy := dyScreen / s.scale

	switch s.mode {
	case ModeDrag:
		dx, dy = s.snapDelta(dx, dy)
		for id, orig := range s.origin {
			s.pending[id] = domain.Rect{X: orig.X + dx, Y: orig.Y + dy, Width: orig.Width, Height: orig.Height}
		}
	case ModeResize:
		id := s.ids[0]
		orig := s.origin[id]
		raw := s.handle.Resize(orig, dx, dy)
		s.pending[id] = s.clampRect(orig, raw)
	case ModeMarquee:
		cur := s.toModel(screen)
		s.marquee = domain.Rect{
			X:      s.marqueeAnchor.X,
			Y:      s.marqueeAnchor.Y,
			Width:  cur.X - s.marqueeAnchor.X,
			Height: cur.Y - s.marqueeAnchor.Y,
		}.Normalized()
	}
}

// snapDelta applies baseline snapping to the vertical delta when the
// gesture's lead element resolves snapping on. The shared delta keeps a
// multi-element drag rigid: relative positions never change mid-gesture.
func (s *Session) snapDelta(dx, dy float64) (float64, float64) {
	if len(s.ids) == 0 || s.opts.SnapUnit <= 0 {
		return dx, dy
	}
	lead := s.ids[0]
	el := s.store.State().Element(lead)
	if el == nil || !el.Snap.Resolve(s.opts.BaselineSnap) {
		return dx, dy
	}
	orig, ok := s.origin[lead]
	if !ok {
		return dx, dy
	}
	snapped := domain.Snap(orig.Y+dy, s.opts.SnapUnit)
	return dx, snapped - orig.Y
}

// clampRect enforces the minimum-size floor, then normalizes so a handle
// dragged past the opposite edge flips the rectangle instead of pinning
// it at zero. When a north or west edge is the moving one, flooring a
// dimension re-derives the position from the fixed opposite edge of the
// pre-gesture rect, so the anchor never drifts in the clamped regime.
func (s *Session) clampRect(orig, r domain.Rect) domain.Rect {
	min := s.opts.MinSize
	if min > 0 {
		north, _, _, west := s.handle.Moves()
		if math.Abs(r.Width) < min {
			if r.Width < 0 {
				r.Width = -min
			} else {
				r.Width = min
			}
			if west {
				r.X = orig.X + orig.Width - r.Width
			}
		}
		if math.Abs(r.Height) < min {
			if r.Height < 0 {
				r.Height = -min
			} else {
				r.Height = min
			}
			if north {
				r.Y = orig.Y + orig.Height - r.Height
			}
		}
	}
	return r.Normalized()
}

// toModel converts a screen point to model space using the viewport
// captured at gesture start.
func (s *Session) toModel(screen domain.Point) domain.Point {
	st := s.store.State()
	var vp domain.Viewport
	if page := st.CurrentPage(); page != nil {
		vp = page.Viewport
	}
	return domain.Point{
		X: vp.X + screen.X/s.scale,
		Y: vp.Y + screen.Y/s.scale,
	}
}

// EndPointer releases the gesture. If accumulated travel clears the drag
// threshold it commits exactly one event through the store; otherwise the
// release was a plain click and nothing is journaled. Either way the
// session returns to idle and the pending state is discarded.
func (s *Session) EndPointer() error {
	s.mu.Lock()
	mode := s.mode
	ids := s.ids
	pending := s.pending
	origin := s.origin
	marquee := s.marquee
	travel := s.travel
	s.reset()
	s.mu.Unlock()

	if mode == ModeIdle || travel < s.opts.DragThreshold {
		return nil
	}

	switch mode {
	case ModeDrag:
		if len(ids) == 1 {
			r := pending[ids[0]]
			return s.store.MoveElement(ids[0], r.X, r.Y)
		}
		lead := ids[0]
		dx := pending[lead].X - origin[lead].X
		dy := pending[lead].Y - origin[lead].Y
		return s.store.MoveElements(ids, dx, dy)
	case ModeResize:
		return s.store.ResizeElement(ids[0], pending[ids[0]])
	case ModeMarquee:
		return s.store.SetSelection(s.marqueeHits(marquee))
	}
	return nil
}

// Cancel unconditionally discards the gesture without committing.
func (s *Session) Cancel() {
	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
}

// reset returns the session to idle. Caller holds the lock.
func (s *Session) reset() {
	s.mode = ModeIdle
	s.ids = nil
	s.handle = ""
	s.origin = nil
	s.pending = nil
	s.marquee = domain.Rect{}
	s.travel = 0
}

// marqueeHits returns every element on the current page whose bounds
// intersect the marquee rect, in page z-order. Touching edges count.
func (s *Session) marqueeHits(marquee domain.Rect) []string {
	st := s.store.State()
	var hits []string
	for _, id := range st.PageElementIDs(st.CurrentPageID) {
		el := st.Element(id)
		if el != nil && el.Rect.Normalized().Intersects(marquee) {
			hits = append(hits, id)
		}
	}
	return hits
}
