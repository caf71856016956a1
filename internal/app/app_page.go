package app

import (
	"fmt"

	"atelier/internal/domain"
)

// ============================================================
// Pages
// ============================================================

// AddPage appends a page to the open project and returns its id.
func (a *App) AddPage(page domain.Page) (string, error) {
	st, err := a.store()
	if err != nil {
		return "", err
	}
	return st.AddPage(page)
}

// GetPage returns a page from the current derived state.
func (a *App) GetPage(id string) (*domain.Page, error) {
	state, err := a.State()
	if err != nil {
		return nil, err
	}
	pg := state.Page(id)
	if pg == nil {
		return nil, fmt.Errorf("page %s not found", id)
	}
	return pg, nil
}

// ListPages returns the open project's pages in creation order.
func (a *App) ListPages() ([]domain.Page, error) {
	state, err := a.State()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Page, 0, len(state.PageOrder))
	for _, id := range state.PageOrder {
		if pg := state.Page(id); pg != nil {
			out = append(out, *pg)
		}
	}
	return out, nil
}

func (a *App) UpdatePage(patch domain.PageUpdated) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	return st.UpdatePage(patch)
}

func (a *App) MovePage(id string, x, y float64) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	return st.MovePage(id, x, y)
}

func (a *App) ResizePage(id string, width, height float64) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	return st.ResizePage(id, width, height)
}

// DeletePage removes a page and every element on it as one history entry.
func (a *App) DeletePage(id string) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	return st.DeletePage(id)
}

// ActivatePage switches the current page.
func (a *App) ActivatePage(id string) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	return st.ActivatePage(id)
}

// SetViewport journals a pan/zoom change for a page. The viewport zoom is
// what pointer gestures use to convert screen deltas to model deltas.
func (a *App) SetViewport(pageID string, vp domain.Viewport) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	return st.UpdatePage(domain.PageUpdated{ID: pageID, Viewport: &vp})
}
