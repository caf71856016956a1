package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"atelier/internal/domain"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ProjectStore persists project records in SQLite.
type ProjectStore struct {
	db *DB
}

func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) CreateProject(p *domain.Project) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.db.Conn().Exec(
		`INSERT INTO projects (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *ProjectStore) GetProject(id string) (*domain.Project, error) {
	var p domain.Project
	err := s.db.Conn().QueryRow(
		`SELECT id, name, created_at, updated_at FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (s *ProjectStore) ListProjects() ([]domain.Project, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, created_at, updated_at FROM projects ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *ProjectStore) RenameProject(id, name string) error {
	res, err := s.db.Conn().Exec(
		`UPDATE projects SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("rename project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *ProjectStore) DeleteProject(id string) error {
	_, _ = s.db.Conn().Exec(`DELETE FROM project_links WHERE project_id = ?`, id)
	_, err := s.db.Conn().Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// Touch bumps the project's updated_at; called after every committed
// mutation so lists sort sensibly.
func (s *ProjectStore) Touch(id string) error {
	_, err := s.db.Conn().Exec(`UPDATE projects SET updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// ── linked export files ────────────────────────────────────

// SetLink associates a project with an on-disk export file.
func (s *ProjectStore) SetLink(projectID, filePath string) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO project_links (project_id, file_path) VALUES (?, ?)
		 ON CONFLICT(project_id) DO UPDATE SET file_path = excluded.file_path`,
		projectID, filePath,
	)
	return err
}

// GetLink returns the linked file path, or "" when none is set.
func (s *ProjectStore) GetLink(projectID string) (string, error) {
	var path string
	err := s.db.Conn().QueryRow(
		`SELECT file_path FROM project_links WHERE project_id = ?`, projectID,
	).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return path, err
}
