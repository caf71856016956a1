package app

import (
	"fmt"

	"atelier/internal/domain"
)

// ============================================================
// Elements
// ============================================================

// AddElement appends an element to the open project and returns its id.
// A blank id is filled in by the store.
func (a *App) AddElement(el domain.Element) (string, error) {
	st, err := a.store()
	if err != nil {
		return "", err
	}
	return st.AddElement(el)
}

// GetElement returns an element from the current derived state.
func (a *App) GetElement(id string) (*domain.Element, error) {
	state, err := a.State()
	if err != nil {
		return nil, err
	}
	el := state.Element(id)
	if el == nil {
		return nil, fmt.Errorf("element %s not found", id)
	}
	return el, nil
}

// ListElements returns a page's elements in z-order, containers before
// their children.
func (a *App) ListElements(pageID string) ([]domain.Element, error) {
	state, err := a.State()
	if err != nil {
		return nil, err
	}
	if pageID == "" {
		pageID = state.CurrentPageID
	}
	var out []domain.Element
	for _, id := range state.PageElementIDs(pageID) {
		if el := state.Element(id); el != nil {
			out = append(out, *el)
		}
	}
	return out, nil
}

func (a *App) MoveElement(id string, x, y float64) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	return st.MoveElement(id, x, y)
}

func (a *App) ResizeElement(id string, rect domain.Rect) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	return st.ResizeElement(id, rect)
}

func (a *App) UpdateElement(patch domain.ElementUpdated) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	return st.UpdateElement(patch)
}

// MoveElements shifts a batch of elements by one shared delta. The whole
// batch lands as a single history entry.
func (a *App) MoveElements(ids []string, dx, dy float64) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	return st.MoveElements(ids, dx, dy)
}

// DeleteElements removes elements and their descendants as one history
// entry.
func (a *App) DeleteElements(ids ...string) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	return st.DeleteElements(ids...)
}

// ── selection ──────────────────────────────────────────────

// SetSelection replaces the selection set. Selection changes are journaled
// like any other mutation, so they participate in undo/redo.
func (a *App) SetSelection(ids []string) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	return st.SetSelection(ids)
}

// ClearSelection empties the selection set.
func (a *App) ClearSelection() error {
	return a.SetSelection(nil)
}

// Selection returns the selected ids in stable order.
func (a *App) Selection() ([]string, error) {
	state, err := a.State()
	if err != nil {
		return nil, err
	}
	return state.SelectedIDs(), nil
}
