package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"atelier/internal/domain"
)

// EventStore mirrors the in-memory event log in SQLite: one row per
// journaled event ordered by sequence, plus the cursor position. Row order
// by seq is authoritative when loading.
type EventStore struct {
	db *DB
}

func NewEventStore(db *DB) *EventStore {
	return &EventStore{db: db}
}

// AppendEvent stores one event at the given sequence index.
func (s *EventStore) AppendEvent(projectID string, seq int, ev domain.Event) error {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO events (project_id, seq, event_id, type, time, payload_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		projectID, seq, ev.ID, string(ev.Type), ev.Time, string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// LoadEvents returns the project's events ordered by sequence.
func (s *EventStore) LoadEvents(projectID string) ([]domain.Event, error) {
	rows, err := s.db.Conn().Query(
		`SELECT event_id, type, time, payload_json FROM events
		 WHERE project_id = ? ORDER BY seq ASC`, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			id      int64
			typ     string
			ts      time.Time
			payload string
		)
		if err := rows.Scan(&id, &typ, &ts, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		// Re-assemble the envelope and decode through the same tagged-union
		// path imports use, so stored rows get the same validation.
		blob, err := json.Marshal(struct {
			ID      int64           `json:"id"`
			Type    string          `json:"type"`
			Time    time.Time       `json:"time"`
			Payload json.RawMessage `json:"payload"`
		}{id, typ, ts, json.RawMessage(payload)})
		if err != nil {
			return nil, fmt.Errorf("assemble event: %w", err)
		}
		var ev domain.Event
		if err := json.Unmarshal(blob, &ev); err != nil {
			return nil, fmt.Errorf("decode stored event %d: %w", id, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// TruncateEvents drops every event at or past fromSeq — the durable twin
// of the in-memory redo-branch prune.
func (s *EventStore) TruncateEvents(projectID string, fromSeq int) error {
	_, err := s.db.Conn().Exec(
		`DELETE FROM events WHERE project_id = ? AND seq >= ?`, projectID, fromSeq,
	)
	if err != nil {
		return fmt.Errorf("truncate events: %w", err)
	}
	return nil
}

// DeleteEvents removes the whole log for a project.
func (s *EventStore) DeleteEvents(projectID string) error {
	_, _ = s.db.Conn().Exec(`DELETE FROM cursors WHERE project_id = ?`, projectID)
	_, err := s.db.Conn().Exec(`DELETE FROM events WHERE project_id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	return nil
}

// SaveCursor persists the cursor position.
func (s *EventStore) SaveCursor(projectID string, cursor int) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO cursors (project_id, cursor) VALUES (?, ?)
		 ON CONFLICT(project_id) DO UPDATE SET cursor = excluded.cursor`,
		projectID, cursor,
	)
	if err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}
	return nil
}

// LoadCursor returns the persisted cursor, defaulting to the log tip when
// none was saved (signalled by returning the stored event count - 1).
func (s *EventStore) LoadCursor(projectID string) (int, error) {
	var cursor int
	err := s.db.Conn().QueryRow(
		`SELECT cursor FROM cursors WHERE project_id = ?`, projectID,
	).Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		var count int
		if err := s.db.Conn().QueryRow(
			`SELECT COUNT(*) FROM events WHERE project_id = ?`, projectID,
		).Scan(&count); err != nil {
			return -1, fmt.Errorf("count events: %w", err)
		}
		return count - 1, nil
	}
	if err != nil {
		return -1, fmt.Errorf("load cursor: %w", err)
	}
	return cursor, nil
}
