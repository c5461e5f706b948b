package postgres

import (
	"context"
	"database/sql"
	"time"

	"snipdesk/internal/model"
	"snipdesk/internal/repository"
)

// SnipPostgres is a PostgreSQL implementation of repository.SnipRepository.
type SnipPostgres struct {
	db *sql.DB
}

// NewSnipPostgres creates a new SnipPostgres repository.
func NewSnipPostgres(db *sql.DB) *SnipPostgres {
	return &SnipPostgres{db: db}
}

var _ repository.SnipRepository = (*SnipPostgres)(nil)

const snipSelect = `
	SELECT s.id, s.folder_id, f.name, s.title, s.description, s.captured_at,
	       s.filename, s.storage_path, s.created_at
	FROM snips s
	JOIN folders f ON f.id = s.folder_id
`

func scanSnip(row rowScanner) (*model.Snip, error) {
	var (
		s          model.Snip
		capturedAt time.Time
	)
	if err := row.Scan(
		&s.ID,
		&s.FolderID,
		&s.Folder,
		&s.Title,
		&s.Description,
		&capturedAt,
		&s.Filename,
		&s.StoragePath,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.Timestamp = model.FormatTimestamp(capturedAt)
	return &s, nil
}

// Create inserts a snip row; created_at comes from the column default.
func (r *SnipPostgres) Create(ctx context.Context, n repository.NewSnip) (*model.Snip, error) {
	const q = `
		WITH s AS (
			INSERT INTO snips (id, folder_id, title, description, captured_at, filename, storage_path)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, folder_id, title, description, captured_at, filename, storage_path, created_at
		)
		SELECT s.id, s.folder_id, f.name, s.title, s.description, s.captured_at,
		       s.filename, s.storage_path, s.created_at
		FROM s
		JOIN folders f ON f.id = s.folder_id
	`
	row := r.db.QueryRowContext(ctx, q,
		n.ID,
		n.FolderID,
		n.Title,
		n.Description,
		n.CapturedAt,
		n.Filename,
		n.StoragePath,
	)
	s, err := scanSnip(row)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return s, nil
}

// FindByID fetches a single snip by its ID.
func (r *SnipPostgres) FindByID(ctx context.Context, id string) (*model.Snip, error) {
	return scanSnip(r.db.QueryRowContext(ctx, snipSelect+` WHERE s.id = $1`, id))
}

// FindByFilename fetches a snip by its stored image name within a folder.
func (r *SnipPostgres) FindByFilename(ctx context.Context, folderID, filename string) (*model.Snip, error) {
	return scanSnip(r.db.QueryRowContext(ctx, snipSelect+` WHERE s.folder_id = $1 AND s.filename = $2`, folderID, filename))
}

// ListByFolder returns a folder's snips, newest first.
func (r *SnipPostgres) ListByFolder(ctx context.Context, folderID string) ([]model.Snip, error) {
	rows, err := r.db.QueryContext(ctx, snipSelect+` WHERE s.folder_id = $1 ORDER BY s.created_at DESC, s.id DESC`, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Snip, 0)
	for rows.Next() {
		s, err := scanSnip(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a snip by ID. It does not return an error if the row does not exist.
func (r *SnipPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM snips WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
