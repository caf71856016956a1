package app_test

import (
	"context"
	"testing"

	"atelier/internal/app"
	"atelier/internal/domain"
	"atelier/internal/engine"
	"atelier/internal/service"
)

// ─────────────────────────────────────────────────────────────
// App tests — full stack, headless, real SQLite under t.TempDir
// ─────────────────────────────────────────────────────────────

func newApp(t *testing.T) (*app.App, *service.MockEmitter) {
	t.Helper()
	emitter := &service.MockEmitter{}
	a := app.New(app.Config{
		DataDir: t.TempDir(),
		Emitter: emitter,
	})
	if err := a.Startup(context.Background()); err != nil {
		t.Fatalf("startup: %v", err)
	}
	t.Cleanup(func() { a.Shutdown(context.Background()) })
	return a, emitter
}

func openProject(t *testing.T, a *app.App) string {
	t.Helper()
	p, err := a.CreateProject("Site")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := a.OpenProject(p.ID); err != nil {
		t.Fatalf("open project: %v", err)
	}
	return p.ID
}

func addPageAndBox(t *testing.T, a *app.App) (pageID, elID string) {
	t.Helper()
	pageID, err := a.AddPage(domain.Page{Name: "Home", Width: 1440, Height: 900})
	if err != nil {
		t.Fatalf("add page: %v", err)
	}
	elID, err = a.AddElement(domain.Element{
		Type: domain.ElementBox, PageID: pageID,
		Rect: domain.Rect{X: 100, Y: 100, Width: 200, Height: 150},
	})
	if err != nil {
		t.Fatalf("add element: %v", err)
	}
	return pageID, elID
}

func TestApp_RequiresOpenProject(t *testing.T) {
	a, _ := newApp(t)

	if _, err := a.State(); err != service.ErrNoOpenProject {
		t.Errorf("State error = %v, want ErrNoOpenProject", err)
	}
	if err := a.MoveElement("el", 0, 0); err != service.ErrNoOpenProject {
		t.Errorf("MoveElement error = %v, want ErrNoOpenProject", err)
	}
	if a.Undo() {
		t.Error("Undo reported success with no project open")
	}
}

func TestApp_ElementLifecycle(t *testing.T) {
	a, _ := newApp(t)
	openProject(t, a)
	pageID, elID := addPageAndBox(t, a)

	if err := a.MoveElement(elID, 300, 200); err != nil {
		t.Fatalf("move: %v", err)
	}
	el, err := a.GetElement(elID)
	if err != nil {
		t.Fatalf("get element: %v", err)
	}
	if el.Rect.X != 300 || el.Rect.Y != 200 {
		t.Errorf("element at (%v,%v), want (300,200)", el.Rect.X, el.Rect.Y)
	}

	elements, err := a.ListElements(pageID)
	if err != nil {
		t.Fatalf("list elements: %v", err)
	}
	if len(elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(elements))
	}

	if err := a.DeleteElements(elID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := a.GetElement(elID); err == nil {
		t.Error("deleted element still retrievable")
	}
}

func TestApp_HistoryRoundTrip(t *testing.T) {
	a, _ := newApp(t)
	openProject(t, a)
	_, elID := addPageAndBox(t, a)

	a.MoveElement(elID, 500, 500)
	info, err := a.History()
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if info.Events != 3 || info.Cursor != 2 {
		t.Errorf("history = %+v, want 3 events at cursor 2", info)
	}

	if !a.Undo() {
		t.Fatal("undo failed")
	}
	el, _ := a.GetElement(elID)
	if el.Rect.X != 100 {
		t.Errorf("x = %v after undo, want 100", el.Rect.X)
	}
	if !a.CanRedo() {
		t.Error("CanRedo false after undo")
	}
	if !a.Redo() {
		t.Fatal("redo failed")
	}
	el, _ = a.GetElement(elID)
	if el.Rect.X != 500 {
		t.Errorf("x = %v after redo, want 500", el.Rect.X)
	}
}

func TestApp_DragGestureEmitsInteraction(t *testing.T) {
	a, emitter := newApp(t)
	openProject(t, a)
	_, elID := addPageAndBox(t, a)

	if err := a.BeginDrag(elID, domain.Point{X: 150, Y: 150}); err != nil {
		t.Fatalf("begin drag: %v", err)
	}
	if err := a.UpdatePointer(domain.Point{X: 250, Y: 190}); err != nil {
		t.Fatalf("update pointer: %v", err)
	}

	snap, err := a.Interaction()
	if err != nil {
		t.Fatalf("interaction: %v", err)
	}
	if snap.Mode != engine.ModeDrag {
		t.Errorf("mode = %q, want dragging", snap.Mode)
	}
	if _, ok := snap.Pending[elID]; !ok {
		t.Error("no pending rect for dragged element")
	}

	if err := a.EndPointer(); err != nil {
		t.Fatalf("end pointer: %v", err)
	}
	el, _ := a.GetElement(elID)
	if el.Rect.X != 200 || el.Rect.Y != 140 {
		t.Errorf("element at (%v,%v) after drag, want (200,140)", el.Rect.X, el.Rect.Y)
	}

	var sawInteraction bool
	for _, ev := range emitter.Events {
		if ev.Event == "design:interaction" {
			sawInteraction = true
		}
	}
	if !sawInteraction {
		t.Error("no design:interaction emission during gesture")
	}
}

func TestApp_StateEmissionOnMutation(t *testing.T) {
	a, emitter := newApp(t)
	openProject(t, a)
	addPageAndBox(t, a)

	var stateEmissions int
	for _, ev := range emitter.Events {
		if ev.Event == "design:state" {
			stateEmissions++
		}
	}
	// One on subscribe plus one per mutation (page + element).
	if stateEmissions < 3 {
		t.Errorf("got %d design:state emissions, want at least 3", stateEmissions)
	}
}

func TestApp_ExportImportRoundTrip(t *testing.T) {
	a, _ := newApp(t)
	openProject(t, a)
	_, elID := addPageAndBox(t, a)
	a.MoveElement(elID, 42, 42)

	path, err := a.ExportProject("")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	a.MoveElement(elID, 999, 999)

	if err := a.ImportProject(path); err != nil {
		t.Fatalf("import: %v", err)
	}
	el, err := a.GetElement(elID)
	if err != nil {
		t.Fatalf("element lost across import: %v", err)
	}
	if el.Rect.X != 42 {
		t.Errorf("x = %v after import, want 42", el.Rect.X)
	}
}
