package domain

import "time"

// Project owns one event history. It is the unit the persistence layer
// loads and saves; opening a project replays its stored events.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProjectStore interface {
	CreateProject(p *Project) error
	GetProject(id string) (*Project, error)
	ListProjects() ([]Project, error)
	RenameProject(id, name string) error
	DeleteProject(id string) error
	// Touch bumps a project's updated-at stamp.
	Touch(id string) error
}

// EventStore is the durable side of the event log: an ordered sequence of
// events per project, truncatable from a sequence number onward. The
// cursor is persisted separately so an undone-but-not-pruned history
// survives a restart.
type EventStore interface {
	AppendEvent(projectID string, seq int, ev Event) error
	LoadEvents(projectID string) ([]Event, error)
	TruncateEvents(projectID string, fromSeq int) error
	DeleteEvents(projectID string) error
	SaveCursor(projectID string, cursor int) error
	LoadCursor(projectID string) (int, error)
}

// SnapshotStore persists periodic whole-state snapshots. Snapshots are an
// optimization for cold-start and inspection; replayed events remain the
// source of truth.
type SnapshotStore interface {
	SaveSnapshot(projectID string, cursor int, stateJSON string) error
	LatestSnapshot(projectID string) (cursor int, stateJSON string, err error)
	PruneSnapshots(projectID string, keep int) error
	DeleteSnapshots(projectID string) error
}
