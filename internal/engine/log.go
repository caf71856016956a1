package engine

import (
	"fmt"

	"atelier/internal/domain"
)

// Log is the append-only event history plus a cursor. The cursor is the
// index of the last applied event; -1 means "before the first event".
// Events are never mutated or reordered once appended — the only
// history-editing operation is truncating the redo branch on append.
type Log struct {
	events []domain.Event
	cursor int
	nextID int64
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{cursor: -1, nextID: 1}
}

// Append validates the event, prunes any redo branch past the cursor,
// assigns the next monotonic id, and pushes the event. This is the only
// way events enter the log, which keeps the history linear.
// Returns the sequence index the event was stored at, and the index the
// redo branch was truncated from (-1 if nothing was discarded).
func (l *Log) Append(ev domain.Event) (seq, truncatedFrom int, err error) {
	if err := ev.Validate(); err != nil {
		return 0, -1, fmt.Errorf("append: %w", err)
	}
	truncatedFrom = -1
	if l.cursor < len(l.events)-1 {
		truncatedFrom = l.cursor + 1
		l.events = l.events[:l.cursor+1]
	}
	ev.ID = l.nextID
	l.nextID++
	l.events = append(l.events, ev)
	l.cursor = len(l.events) - 1
	return l.cursor, truncatedFrom, nil
}

// Undo steps the cursor back one event. Reports whether a step occurred;
// at the lower bound it is a no-op.
func (l *Log) Undo() bool {
	if l.cursor <= -1 {
		return false
	}
	l.cursor--
	return true
}

// Redo steps the cursor forward one event. Reports whether a step
// occurred; at the upper bound it is a no-op.
func (l *Log) Redo() bool {
	if l.cursor >= len(l.events)-1 {
		return false
	}
	l.cursor++
	return true
}

// CanUndo reports whether Undo would step.
func (l *Log) CanUndo() bool { return l.cursor > -1 }

// CanRedo reports whether Redo would step.
func (l *Log) CanRedo() bool { return l.cursor < len(l.events)-1 }

// Clear resets to the empty log. Used only when switching projects.
func (l *Log) Clear() {
	l.events = nil
	l.cursor = -1
	l.nextID = 1
}

// Active returns the events up to and including the cursor — the slice
// the reducer folds to produce current state.
func (l *Log) Active() []domain.Event {
	return l.events[:l.cursor+1]
}

// All returns every event in the log, including any redo branch past the
// cursor.
func (l *Log) All() []domain.Event {
	return l.events
}

// Cursor returns the current cursor index.
func (l *Log) Cursor() int { return l.cursor }

// Len returns the total number of events in the log.
func (l *Log) Len() int { return len(l.events) }
