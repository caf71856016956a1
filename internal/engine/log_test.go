package engine_test

import (
	"errors"
	"testing"

	"atelier/internal/domain"
	"atelier/internal/engine"
)

func moveEvent(id string, x, y float64) domain.Event {
	return domain.NewEvent(domain.ElementMoved{ID: id, X: x, Y: y})
}

func TestLog_AppendAdvancesCursor(t *testing.T) {
	l := engine.NewLog()
	if l.Cursor() != -1 || l.Len() != 0 {
		t.Fatalf("fresh log cursor=%d len=%d", l.Cursor(), l.Len())
	}

	for i := 0; i < 3; i++ {
		seq, truncated, err := l.Append(moveEvent("e1", float64(i), 0))
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if seq != i || truncated != -1 {
			t.Errorf("append %d: seq=%d truncated=%d", i, seq, truncated)
		}
	}
	if l.Cursor() != 2 || l.Len() != 3 {
		t.Errorf("cursor=%d len=%d, want 2 and 3", l.Cursor(), l.Len())
	}
}

func TestLog_MonotonicIDs(t *testing.T) {
	l := engine.NewLog()
	for i := 0; i < 3; i++ {
		l.Append(moveEvent("e1", 0, 0))
	}
	all := l.All()
	for i := 1; i < len(all); i++ {
		if all[i].ID <= all[i-1].ID {
			t.Errorf("event ids not monotonic: %d then %d", all[i-1].ID, all[i].ID)
		}
	}
}

func TestLog_UndoRedoBounds(t *testing.T) {
	l := engine.NewLog()
	if l.Undo() {
		t.Error("undo on empty log should be a no-op")
	}
	if l.Redo() {
		t.Error("redo on empty log should be a no-op")
	}

	l.Append(moveEvent("e1", 0, 0))
	if !l.Undo() {
		t.Error("undo should step")
	}
	if l.Undo() {
		t.Error("second undo should hit the lower bound")
	}
	if !l.Redo() {
		t.Error("redo should step")
	}
	if l.Redo() {
		t.Error("second redo should hit the upper bound")
	}
}

// Scenario from the history contract: 3 events, undo twice to cursor 0,
// then append — the redo branch is dropped before the new event lands.
func TestLog_TruncateOnAppend(t *testing.T) {
	l := engine.NewLog()
	for i := 0; i < 3; i++ {
		l.Append(moveEvent("e1", float64(i), 0))
	}
	l.Undo()
	l.Undo()
	if l.Cursor() != 0 {
		t.Fatalf("cursor=%d after two undos, want 0", l.Cursor())
	}

	newEv := moveEvent("e1", 99, 99)
	seq, truncatedFrom, err := l.Append(newEv)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if l.Len() != 2 || l.Cursor() != 1 {
		t.Errorf("len=%d cursor=%d, want 2 and 1", l.Len(), l.Cursor())
	}
	if seq != 1 || truncatedFrom != 1 {
		t.Errorf("seq=%d truncatedFrom=%d, want 1 and 1", seq, truncatedFrom)
	}
	got := l.All()[1].Payload.(domain.ElementMoved)
	if got.X != 99 {
		t.Errorf("events[1] is not the new event: %+v", got)
	}
	if l.Redo() {
		t.Error("redo after truncating append should be a no-op")
	}
}

func TestLog_RejectsMalformed(t *testing.T) {
	l := engine.NewLog()
	_, _, err := l.Append(domain.NewEvent(domain.ElementMoved{X: 1}))
	if !errors.Is(err, domain.ErrMalformedEvent) {
		t.Errorf("append = %v, want ErrMalformedEvent", err)
	}
	if l.Len() != 0 {
		t.Error("rejected event must not enter the log")
	}
}

func TestLog_Clear(t *testing.T) {
	l := engine.NewLog()
	l.Append(moveEvent("e1", 0, 0))
	l.Clear()
	if l.Len() != 0 || l.Cursor() != -1 || l.CanUndo() || l.CanRedo() {
		t.Errorf("clear left state behind: len=%d cursor=%d", l.Len(), l.Cursor())
	}
}

func TestLog_ActiveFollowsCursor(t *testing.T) {
	l := engine.NewLog()
	for i := 0; i < 3; i++ {
		l.Append(moveEvent("e1", float64(i), 0))
	}
	l.Undo()
	if len(l.Active()) != 2 {
		t.Errorf("active=%d after one undo, want 2", len(l.Active()))
	}
	if len(l.All()) != 3 {
		t.Errorf("all=%d, want 3", len(l.All()))
	}
}
