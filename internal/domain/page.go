package domain

// Page is a fixed-size artboard on the canvas. Root elements belong to
// exactly one page; nested elements reach their page through the parent
// chain.
type Page struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background string  `json:"background,omitempty"`

	ShowGrid     bool `json:"showGrid"`
	ShowBaseline bool `json:"showBaseline"`
	Publish      bool `json:"publish"`

	// Ordered root element ids; order is z-order within the page.
	Roots []string `json:"roots,omitempty"`

	Viewport Viewport `json:"viewport"`
}

// Viewport is the last pan/zoom applied to a page. Zoom doubles as the
// screen-to-model scale during pointer gestures.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Rect returns the page's artboard rectangle.
func (p *Page) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// Clone returns a deep copy of the page.
func (p *Page) Clone() *Page {
	c := *p
	c.Roots = append([]string(nil), p.Roots...)
	return &c
}
