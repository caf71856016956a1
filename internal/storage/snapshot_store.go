package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// SnapshotStore persists whole-state snapshots per project. Snapshots
// exist so a large history doesn't have to be replayed cold; the event
// log remains the source of truth and a snapshot can always be discarded.
type SnapshotStore struct {
	db *DB
}

func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// SaveSnapshot stores a state snapshot taken at the given cursor.
func (s *SnapshotStore) SaveSnapshot(projectID string, cursor int, stateJSON string) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO snapshots (project_id, cursor, state_json) VALUES (?, ?, ?)`,
		projectID, cursor, stateJSON,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot for a project.
func (s *SnapshotStore) LatestSnapshot(projectID string) (int, string, error) {
	var (
		cursor    int
		stateJSON string
	)
	err := s.db.Conn().QueryRow(
		`SELECT cursor, state_json FROM snapshots
		 WHERE project_id = ? ORDER BY id DESC LIMIT 1`, projectID,
	).Scan(&cursor, &stateJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return -1, "", fmt.Errorf("snapshot for %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return -1, "", fmt.Errorf("latest snapshot: %w", err)
	}
	return cursor, stateJSON, nil
}

// PruneSnapshots removes the oldest snapshots past the keep count.
func (s *SnapshotStore) PruneSnapshots(projectID string, keep int) error {
	var count int
	if err := s.db.Conn().QueryRow(
		`SELECT COUNT(*) FROM snapshots WHERE project_id = ?`, projectID,
	).Scan(&count); err != nil {
		return fmt.Errorf("count snapshots: %w", err)
	}
	if count <= keep {
		return nil
	}
	_, err := s.db.Conn().Exec(
		`DELETE FROM snapshots WHERE project_id = ? AND id IN (
			SELECT id FROM snapshots WHERE project_id = ? ORDER BY id ASC LIMIT ?
		)`, projectID, projectID, count-keep,
	)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// DeleteSnapshots removes all snapshots for a project.
func (s *SnapshotStore) DeleteSnapshots(projectID string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM snapshots WHERE project_id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	return nil
}
