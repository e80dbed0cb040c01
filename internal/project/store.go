package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/routemap/internal/db"
)

// Store provides CRUD operations for project files.
type Store struct {
	db *db.DB
}

// NewStore creates a new project file store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// CreateFile inserts a new file. It fails with ErrFileExists when the
// project already has a file with that name.
func (s *Store) CreateFile(ctx context.Context, f *ProjectFile) error {
	if _, err := s.GetFile(ctx, f.ProjectID, f.Name); err == nil {
		return ErrFileExists
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.LastUpdate = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO project_files (id, project_id, name, type, code, last_update)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.ProjectID, f.Name, f.Type, f.Code, f.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	return nil
}

// SaveFile inserts f or replaces the content of the file with the same name.
func (s *Store) SaveFile(ctx context.Context, f *ProjectFile) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.LastUpdate = time.Now().UTC()

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO project_files (id, project_id, name, type, code, last_update)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(project_id, name) DO UPDATE SET
		   code = excluded.code,
		   type = CASE WHEN excluded.type = '' THEN project_files.type ELSE excluded.type END,
		   last_update = excluded.last_update
		 RETURNING id, type`,
		f.ID, f.ProjectID, f.Name, f.Type, f.Code, f.LastUpdate,
	).Scan(&f.ID, &f.Type)
	if err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	return nil
}

// GetFile retrieves a file by project and name.
func (s *Store) GetFile(ctx context.Context, projectID, name string) (*ProjectFile, error) {
	f := &ProjectFile{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, type, code, last_update
		 FROM project_files WHERE project_id = ? AND name = ?`, projectID, name,
	).Scan(&f.ID, &f.ProjectID, &f.Name, &f.Type, &f.Code, &f.LastUpdate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting file: %w", err)
	}
	return f, nil
}

// ListFiles returns every file of a project ordered by name.
func (s *Store) ListFiles(ctx context.Context, projectID string) ([]ProjectFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, name, type, code, last_update
		 FROM project_files WHERE project_id = ? ORDER BY name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	var result []ProjectFile
	for rows.Next() {
		var f ProjectFile
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Name, &f.Type, &f.Code, &f.LastUpdate); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// DeleteFile removes a file by project and name.
func (s *Store) DeleteFile(ctx context.Context, projectID, name string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM project_files WHERE project_id = ? AND name = ?`, projectID, name)
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
