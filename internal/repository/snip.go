package repository

import (
	"context"
	"time"

	"snipdesk/internal/model"
)

// NewSnip holds the columns a caller may set when inserting a snip.
// created_at is deliberately absent: the database assigns it.
type NewSnip struct {
	ID          string
	FolderID    string
	Title       string
	Description string
	CapturedAt  time.Time
	Filename    string
	StoragePath string
}

// SnipRepository persists snip metadata.
type SnipRepository interface {
	Create(ctx context.Context, s NewSnip) (*model.Snip, error)

	// FindByID returns sql.ErrNoRows when the snip does not exist.
	FindByID(ctx context.Context, id string) (*model.Snip, error)

	// FindByFilename returns sql.ErrNoRows when the folder has no such snip image.
	FindByFilename(ctx context.Context, folderID, filename string) (*model.Snip, error)

	// ListByFolder returns a folder's snips, newest created_at first.
	ListByFolder(ctx context.Context, folderID string) ([]model.Snip, error)

	// Delete removes a snip by ID. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}
