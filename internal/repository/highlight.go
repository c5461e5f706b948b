package repository

import (
	"context"

	"snipdesk/internal/model"
)

// HighlightRepository persists highlights keyed by PDF url.
type HighlightRepository interface {
	// CreateBatch inserts all highlights atomically.
	CreateBatch(ctx context.Context, highlights []model.Highlight) error

	// ListByPDF returns highlights for one PDF in insertion order.
	ListByPDF(ctx context.Context, pdfURL string) ([]model.Highlight, error)
}
