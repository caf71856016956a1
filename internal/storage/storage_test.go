package storage_test

import (
	"errors"
	"path/filepath"
	"testing"

	"atelier/internal/domain"
	"atelier/internal/storage"
)

func testDB(t *testing.T) *storage.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "atelier.db"), filepath.Join(dir, "projects"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestProjectStore_CRUD(t *testing.T) {
	db := testDB(t)
	store := storage.NewProjectStore(db)

	p := &domain.Project{ID: "proj-1", Name: "Site"}
	if err := store.CreateProject(p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetProject("proj-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Site" {
		t.Errorf("name = %q", got.Name)
	}

	if err := store.RenameProject("proj-1", "Portfolio"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, _ = store.GetProject("proj-1")
	if got.Name != "Portfolio" {
		t.Errorf("name after rename = %q", got.Name)
	}

	list, err := store.ListProjects()
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, %v", list, err)
	}

	if err := store.DeleteProject("proj-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetProject("proj-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestProjectStore_RenameMissing(t *testing.T) {
	db := testDB(t)
	store := storage.NewProjectStore(db)
	if err := store.RenameProject("ghost", "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("rename missing = %v, want ErrNotFound", err)
	}
}

func TestProjectStore_Links(t *testing.T) {
	db := testDB(t)
	store := storage.NewProjectStore(db)
	store.CreateProject(&domain.Project{ID: "p1", Name: "Site"})

	path, err := store.GetLink("p1")
	if err != nil || path != "" {
		t.Fatalf("unset link = %q, %v", path, err)
	}
	if err := store.SetLink("p1", "/tmp/site.json"); err != nil {
		t.Fatalf("set link: %v", err)
	}
	if err := store.SetLink("p1", "/tmp/site2.json"); err != nil {
		t.Fatalf("re-set link: %v", err)
	}
	path, _ = store.GetLink("p1")
	if path != "/tmp/site2.json" {
		t.Errorf("link = %q", path)
	}
}

func TestEventStore_AppendLoadRoundTrip(t *testing.T) {
	db := testDB(t)
	projects := storage.NewProjectStore(db)
	events := storage.NewEventStore(db)
	projects.CreateProject(&domain.Project{ID: "p1", Name: "Site"})

	in := []domain.Event{
		domain.NewEvent(domain.PageAdded{Page: domain.Page{ID: "page-1", Name: "Home", Width: 1440, Height: 900}}),
		domain.NewEvent(domain.ElementAdded{Element: domain.Element{
			ID: "e1", Type: domain.ElementBox, PageID: "page-1",
			Rect: domain.Rect{X: 8, Y: 16, Width: 320, Height: 200}, Opacity: 1,
		}}),
		domain.NewEvent(domain.ElementMoved{ID: "e1", X: 24, Y: 48}),
	}
	for i := range in {
		in[i].ID = int64(i + 1)
		if err := events.AppendEvent("p1", i, in[i]); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	out, err := events.LoadEvents("p1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("loaded %d events", len(out))
	}
	for i := range out {
		if out[i].Type != in[i].Type || out[i].ID != in[i].ID {
			t.Errorf("event %d: got %s/%d want %s/%d", i, out[i].Type, out[i].ID, in[i].Type, in[i].ID)
		}
	}
	moved, ok := out[2].Payload.(domain.ElementMoved)
	if !ok || moved.X != 24 {
		t.Errorf("payload round trip failed: %#v", out[2].Payload)
	}
}

func TestEventStore_TruncateMirrorsRedoPrune(t *testing.T) {
	db := testDB(t)
	events := storage.NewEventStore(db)
	storage.NewProjectStore(db).CreateProject(&domain.Project{ID: "p1", Name: "Site"})

	for i := 0; i < 4; i++ {
		ev := domain.NewEvent(domain.ElementMoved{ID: "e1", X: float64(i)})
		ev.ID = int64(i + 1)
		events.AppendEvent("p1", i, ev)
	}
	if err := events.TruncateEvents("p1", 2); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	out, _ := events.LoadEvents("p1")
	if len(out) != 2 {
		t.Errorf("after truncate: %d events, want 2", len(out))
	}
}

func TestEventStore_Cursor(t *testing.T) {
	db := testDB(t)
	events := storage.NewEventStore(db)
	storage.NewProjectStore(db).CreateProject(&domain.Project{ID: "p1", Name: "Site"})

	ev := domain.NewEvent(domain.ElementMoved{ID: "e1", X: 1})
	ev.ID = 1
	events.AppendEvent("p1", 0, ev)

	// No saved cursor: defaults to the log tip.
	cursor, err := events.LoadCursor("p1")
	if err != nil || cursor != 0 {
		t.Fatalf("default cursor = %d, %v, want 0", cursor, err)
	}

	if err := events.SaveCursor("p1", -1); err != nil {
		t.Fatalf("save cursor: %v", err)
	}
	cursor, _ = events.LoadCursor("p1")
	if cursor != -1 {
		t.Errorf("cursor = %d, want -1", cursor)
	}
}

func TestSnapshotStore_SaveLatestPrune(t *testing.T) {
	db := testDB(t)
	snaps := storage.NewSnapshotStore(db)
	storage.NewProjectStore(db).CreateProject(&domain.Project{ID: "p1", Name: "Site"})

	if _, _, err := snaps.LatestSnapshot("p1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("empty latest = %v, want ErrNotFound", err)
	}

	for i := 0; i < 5; i++ {
		if err := snaps.SaveSnapshot("p1", i, `{"n":`+string(rune('0'+i))+`}`); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	cursor, state, err := snaps.LatestSnapshot("p1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if cursor != 4 || state != `{"n":4}` {
		t.Errorf("latest = %d %q", cursor, state)
	}

	if err := snaps.PruneSnapshots("p1", 2); err != nil {
		t.Fatalf("prune: %v", err)
	}
	// Latest survives pruning.
	cursor, _, err = snaps.LatestSnapshot("p1")
	if err != nil || cursor != 4 {
		t.Errorf("latest after prune = %d, %v", cursor, err)
	}

	if err := snaps.DeleteSnapshots("p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := snaps.LatestSnapshot("p1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("latest after delete = %v, want ErrNotFound", err)
	}
}
