package domain

// Point is a position in either screen or model space; which one is
// determined by context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in model space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Normalized returns the rect with non-negative dimensions. A rect whose
// width or height went negative (a resize handle dragged past the opposite
// edge) is flipped in place rather than clamped to zero.
func (r Rect) Normalized() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Intersects reports whether two rects overlap. Touching edges count as
// intersecting.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.Width &&
		o.X <= r.X+r.Width &&
		r.Y <= o.Y+o.Height &&
		o.Y <= r.Y+r.Height
}

// Handle identifies one of the eight resize handles by compass direction.
type Handle string

const (
	HandleN  Handle = "n"
	HandleNE Handle = "ne"
	HandleE  Handle = "e"
	HandleSE Handle = "se"
	HandleS  Handle = "s"
	HandleSW Handle = "sw"
	HandleW  Handle = "w"
	HandleNW Handle = "nw"
)

// Valid reports whether h is one of the eight compass handles.
func (h Handle) Valid() bool {
	switch h {
	case HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW, HandleNW:
		return true
	}
	return false
}

// Moves reports which edges the handle drags. A handle on the north or
// west edge moves position together with size so the opposite edge stays
// fixed.
func (h Handle) Moves() (north, south, east, west bool) {
	switch h {
	case HandleN:
		north = true
	case HandleNE:
		north, east = true, true
	case HandleE:
		east = true
	case HandleSE:
		south, east = true, true
	case HandleS:
		south = true
	case HandleSW:
		south, west = true, true
	case HandleW:
		west = true
	case HandleNW:
		north, west = true, true
	}
	return
}

// Resize applies a model-space pointer delta to the rect according to the
// handle. The returned rect is not normalized; callers that need
// non-negative dimensions normalize afterwards so flips behave correctly.
func (h Handle) Resize(r Rect, dx, dy float64) Rect {
	north, south, east, west := h.Moves()
	if north {
		r.Y += dy
		r.Height -= dy
	}
	if south {
		r.Height += dy
	}
	if east {
		r.Width += dx
	}
	if west {
		r.X += dx
		r.Width -= dx
	}
	return r
}
