package repository

import (
	"context"

	"snipdesk/internal/model"
)

// PDFRepository persists PDF metadata. Rows carry their folder's name for URL building.
type PDFRepository interface {
	Create(ctx context.Context, pdf *model.PDF) (*model.PDF, error)

	// ListByFolder lists a folder's PDFs by filename. An empty folderID lists every PDF.
	ListByFolder(ctx context.Context, folderID string) ([]model.PDF, error)

	// FindByFilename returns sql.ErrNoRows when the folder has no such file.
	FindByFilename(ctx context.Context, folderID, filename string) (*model.PDF, error)
}
