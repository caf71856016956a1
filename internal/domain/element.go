package domain

// ElementType is the closed set of node kinds that can appear on a page.
type ElementType string

const (
	ElementBox       ElementType = "box"
	ElementContainer ElementType = "container"
	ElementHeading   ElementType = "heading"
	ElementParagraph ElementType = "paragraph"
	ElementText      ElementType = "text"
	ElementImage     ElementType = "image"
	ElementLink      ElementType = "link"
	ElementButton    ElementType = "button"
	ElementInput     ElementType = "input"
)

// Valid reports whether t belongs to the closed element-type set.
func (t ElementType) Valid() bool {
	switch t {
	case ElementBox, ElementContainer, ElementHeading, ElementParagraph,
		ElementText, ElementImage, ElementLink, ElementButton, ElementInput:
		return true
	}
	return false
}

// Element is a positionable node on a page. Exactly one of ParentID or
// PageID anchors it: root elements carry a PageID and an empty ParentID,
// nested elements the reverse.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	PageID   string      `json:"pageId,omitempty"`
	ParentID string      `json:"parentId,omitempty"`
	Children []string    `json:"children,omitempty"`

	Rect     Rect    `json:"rect"`
	Rotation float64 `json:"rotation,omitempty"`
	Opacity  float64 `json:"opacity"`

	Style      map[string]string `json:"style,omitempty"`
	Typography map[string]string `json:"typography,omitempty"`
	Spacing    map[string]string `json:"spacing,omitempty"`

	Content string `json:"content,omitempty"`

	// Baseline-snap override; SnapInherit defers to the page/global toggle.
	Snap SnapMode `json:"snap,omitempty"`
}

// Clone returns a deep copy so reducer output never aliases log payloads.
func (e *Element) Clone() *Element {
	c := *e
	c.Children = append([]string(nil), e.Children...)
	c.Style = cloneMap(e.Style)
	c.Typography = cloneMap(e.Typography)
	c.Spacing = cloneMap(e.Spacing)
	return &c
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
