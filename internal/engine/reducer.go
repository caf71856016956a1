package engine

import "atelier/internal/domain"

// Reduce folds an ordered list of events into a state snapshot. It is
// pure: the initial state is deep-copied before any transition runs, and
// the same inputs always produce a structurally identical result.
//
// The reducer is total over every declared payload shape. An event that
// references an id which no longer exists — legitimate after undo pruned
// the branch that created it — is a silent no-op, never an error.
func Reduce(initial *State, events []domain.Event) *State {
	st := cloneState(initial)
	for _, ev := range events {
		apply(st, ev)
	}
	return st
}

func cloneState(s *State) *State {
	c := NewState()
	if s == nil {
		return c
	}
	for id, el := range s.Elements {
		c.Elements[id] = el.Clone()
	}
	for id, p := range s.Pages {
		c.Pages[id] = p.Clone()
	}
	c.PageOrder = append([]string(nil), s.PageOrder...)
	c.CurrentPageID = s.CurrentPageID
	for id := range s.Selection {
		c.Selection[id] = struct{}{}
	}
	return c
}

func apply(st *State, ev domain.Event) {
	switch p := ev.Payload.(type) {
	case domain.ElementAdded:
		applyElementAdded(st, p)
	case domain.ElementMoved:
		if el := st.Elements[p.ID]; el != nil {
			el.Rect.X = p.X
			el.Rect.Y = p.Y
		}
	case domain.ElementResized:
		if el := st.Elements[p.ID]; el != nil {
			el.Rect = p.Rect
		}
	case domain.ElementUpdated:
		applyElementUpdated(st, p)
	case domain.ElementsMoved:
		for _, id := range p.IDs {
			if el := st.Elements[id]; el != nil {
				el.Rect.X += p.DX
				el.Rect.Y += p.DY
			}
		}
	case domain.ElementsDeleted:
		for _, id := range p.IDs {
			deleteElement(st, id)
		}
	case domain.PageAdded:
		applyPageAdded(st, p)
	case domain.PageUpdated:
		applyPageUpdated(st, p)
	case domain.PageMoved:
		if page := st.Pages[p.ID]; page != nil {
			page.X = p.X
			page.Y = p.Y
		}
	case domain.PageResized:
		if page := st.Pages[p.ID]; page != nil {
			page.Width = p.Width
			page.Height = p.Height
		}
	case domain.PageDeleted:
		deletePage(st, p.ID)
	case domain.PageActivated:
		if st.Pages[p.ID] != nil {
			st.CurrentPageID = p.ID
		}
	case domain.SelectionChanged:
		st.Selection = map[string]struct{}{}
		for _, id := range p.IDs {
			if st.Elements[id] != nil {
				st.Selection[id] = struct{}{}
			}
		}
	}
}

func applyElementAdded(st *State, p domain.ElementAdded) {
	el := p.Element
	if st.Elements[el.ID] != nil {
		return
	}
	// The owner must exist; an add whose parent or page has since been
	// deleted is a dangling reference.
	if el.ParentID != "" {
		parent := st.Elements[el.ParentID]
		if parent == nil {
			return
		}
		st.Elements[el.ID] = el.Clone()
		parent.Children = append(parent.Children, el.ID)
		return
	}
	page := st.Pages[el.PageID]
	if page == nil {
		return
	}
	st.Elements[el.ID] = el.Clone()
	page.Roots = append(page.Roots, el.ID)
}

func applyElementUpdated(st *State, p domain.ElementUpdated) {
	el := st.Elements[p.ID]
	if el == nil {
		return
	}
	if p.Content != nil {
		el.Content = *p.Content
	}
	if p.Rotation != nil {
		el.Rotation = *p.Rotation
	}
	if p.Opacity != nil {
		el.Opacity = *p.Opacity
	}
	if p.Snap != nil {
		el.Snap = *p.Snap
	}
	if p.Style != nil {
		el.Style = p.Style
	}
	if p.Typography != nil {
		el.Typography = p.Typography
	}
	if p.Spacing != nil {
		el.Spacing = p.Spacing
	}
}

// deleteElement removes the element and its whole subtree, unlinks it from
// its owner, and drops the removed ids from the selection set.
func deleteElement(st *State, id string) {
	el := st.Elements[id]
	if el == nil {
		return
	}
	for _, child := range append([]string(nil), el.Children...) {
		deleteElement(st, child)
	}
	if el.ParentID != "" {
		if parent := st.Elements[el.ParentID]; parent != nil {
			parent.Children = removeID(parent.Children, id)
		}
	} else if page := st.Pages[el.PageID]; page != nil {
		page.Roots = removeID(page.Roots, id)
	}
	delete(st.Elements, id)
	delete(st.Selection, id)
}

func applyPageAdded(st *State, p domain.PageAdded) {
	page := p.Page
	if st.Pages[page.ID] != nil {
		return
	}
	if page.Viewport.Zoom == 0 {
		page.Viewport.Zoom = 1
	}
	st.Pages[page.ID] = page.Clone()
	st.PageOrder = append(st.PageOrder, page.ID)
	if st.CurrentPageID == "" {
		st.CurrentPageID = page.ID
	}
}

func applyPageUpdated(st *State, p domain.PageUpdated) {
	page := st.Pages[p.ID]
	if page == nil {
		return
	}
	if p.Name != nil {
		page.Name = *p.Name
	}
	if p.Slug != nil {
		page.Slug = *p.Slug
	}
	if p.Background != nil {
		page.Background = *p.Background
	}
	if p.ShowGrid != nil {
		page.ShowGrid = *p.ShowGrid
	}
	if p.ShowBaseline != nil {
		page.ShowBaseline = *p.ShowBaseline
	}
	if p.Publish != nil {
		page.Publish = *p.Publish
	}
	if p.Viewport != nil {
		page.Viewport = *p.Viewport
	}
}

// deletePage cascades to every element the page owns before removing the
// page itself.
func deletePage(st *State, id string) {
	page := st.Pages[id]
	if page == nil {
		return
	}
	for _, root := range append([]string(nil), page.Roots...) {
		deleteElement(st, root)
	}
	delete(st.Pages, id)
	st.PageOrder = removeID(st.PageOrder, id)
	if st.CurrentPageID == id {
		st.CurrentPageID = ""
		if len(st.PageOrder) > 0 {
			st.CurrentPageID = st.PageOrder[0]
		}
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
