package postgres

import (
	"context"
	"database/sql"

	"snipdesk/internal/database"
	"snipdesk/internal/model"
	"snipdesk/internal/repository"
)

// HighlightPostgres is a PostgreSQL implementation of repository.HighlightRepository.
type HighlightPostgres struct {
	db *sql.DB
}

// NewHighlightPostgres creates a new HighlightPostgres repository.
func NewHighlightPostgres(db *sql.DB) *HighlightPostgres {
	return &HighlightPostgres{db: db}
}

var _ repository.HighlightRepository = (*HighlightPostgres)(nil)

// CreateBatch inserts every highlight with one prepared statement in a single transaction.
func (r *HighlightPostgres) CreateBatch(ctx context.Context, highlights []model.Highlight) error {
	const q = `
		INSERT INTO highlights (pdf_url, text, start_x, start_y, end_x, end_y)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, q)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, h := range highlights {
			if _, err := stmt.ExecContext(ctx, h.PDF, h.Text, h.Start.X, h.Start.Y, h.End.X, h.End.Y); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByPDF returns the highlights stored for one PDF url in insertion order.
func (r *HighlightPostgres) ListByPDF(ctx context.Context, pdfURL string) ([]model.Highlight, error) {
	const q = `
		SELECT pdf_url, text, start_x, start_y, end_x, end_y
		FROM highlights
		WHERE pdf_url = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, q, pdfURL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Highlight, 0)
	for rows.Next() {
		var h model.Highlight
		if err := rows.Scan(&h.PDF, &h.Text, &h.Start.X, &h.Start.Y, &h.End.X, &h.End.Y); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
