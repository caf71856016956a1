package engine

import (
	"sort"

	"atelier/internal/domain"
)

// State is the materialized design state: everything the renderer needs,
// derived from the event log by replay. A State is rebuilt from scratch on
// every history change and must be treated as read-only by consumers.
type State struct {
	Elements map[string]*domain.Element `json:"elements"`
	Pages    map[string]*domain.Page    `json:"pages"`

	// PageOrder is the display order of pages; CurrentPageID points at the
	// page gestures operate on.
	PageOrder     []string `json:"pageOrder"`
	CurrentPageID string   `json:"currentPageId,omitempty"`

	Selection map[string]struct{} `json:"-"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		Elements:  map[string]*domain.Element{},
		Pages:     map[string]*domain.Page{},
		Selection: map[string]struct{}{},
	}
}

// Element returns the element with the given id, or nil.
func (s *State) Element(id string) *domain.Element {
	return s.Elements[id]
}

// Page returns the page with the given id, or nil.
func (s *State) Page(id string) *domain.Page {
	return s.Pages[id]
}

// CurrentPage returns the active page, or nil when no page exists.
func (s *State) CurrentPage() *domain.Page {
	return s.Pages[s.CurrentPageID]
}

// Selected reports whether the element id is in the selection set.
func (s *State) Selected(id string) bool {
	_, ok := s.Selection[id]
	return ok
}

// SelectedIDs returns the selection as a sorted slice, so callers get a
// deterministic order out of the set.
func (s *State) SelectedIDs() []string {
	ids := make([]string, 0, len(s.Selection))
	for id := range s.Selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PageElementIDs returns every element owned by the page — roots and all
// their descendants, depth-first in z-order.
func (s *State) PageElementIDs(pageID string) []string {
	page := s.Pages[pageID]
	if page == nil {
		return nil
	}
	var out []string
	var walk func(id string)
	walk = func(id string) {
		el := s.Elements[id]
		if el == nil {
			return
		}
		out = append(out, id)
		for _, child := range el.Children {
			walk(child)
		}
	}
	for _, root := range page.Roots {
		walk(root)
	}
	return out
}

// DescendantIDs returns the element's subtree ids, the element itself
// excluded.
func (s *State) DescendantIDs(id string) []string {
	el := s.Elements[id]
	if el == nil {
		return nil
	}
	var out []string
	for _, child := range el.Children {
		if s.Elements[child] == nil {
			continue
		}
		out = append(out, child)
		out = append(out, s.DescendantIDs(child)...)
	}
	return out
}

// PageOf resolves the page an element ultimately belongs to by walking the
// parent chain. Returns "" for dangling chains.
func (s *State) PageOf(elementID string) string {
	seen := map[string]bool{}
	id := elementID
	for {
		el := s.Elements[id]
		if el == nil || seen[id] {
			return ""
		}
		seen[id] = true
		if el.PageID != "" {
			return el.PageID
		}
		if el.ParentID == "" {
			return ""
		}
		id = el.ParentID
	}
}
