package repository

import (
	"context"

	"snipdesk/internal/model"
)

// FolderRepository persists folders. FileCount is always derived from stored PDFs.
type FolderRepository interface {
	// Create inserts the folder and its PDFs in one transaction.
	// A live folder with the same name yields ErrConflict.
	Create(ctx context.Context, folder *model.Folder, pdfs []model.PDF) (*model.Folder, error)

	// FindByID returns sql.ErrNoRows when the folder does not exist.
	FindByID(ctx context.Context, id string) (*model.Folder, error)

	// FindByName returns sql.ErrNoRows when no live folder has that name.
	FindByName(ctx context.Context, name string) (*model.Folder, error)

	// List returns all folders, newest upload first.
	List(ctx context.Context) ([]model.Folder, error)

	// Delete removes the folder row and the highlights on pdfURLs in one transaction.
	// Contained pdf and snip rows go with the folder. It reports the highlights removed.
	Delete(ctx context.Context, id string, pdfURLs []string) (int64, error)
}
