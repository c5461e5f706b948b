package postgres

import (
	"context"
	"database/sql"

	"snipdesk/internal/model"
	"snipdesk/internal/repository"
)

// PDFPostgres is a PostgreSQL implementation of repository.PDFRepository.
type PDFPostgres struct {
	db *sql.DB
}

// NewPDFPostgres creates a new PDFPostgres repository.
func NewPDFPostgres(db *sql.DB) *PDFPostgres {
	return &PDFPostgres{db: db}
}

var _ repository.PDFRepository = (*PDFPostgres)(nil)

const pdfSelect = `
	SELECT p.id, p.folder_id, f.name, p.filename, p.storage_path, p.size, p.created_at
	FROM pdfs p
	JOIN folders f ON f.id = p.folder_id
`

func scanPDF(row rowScanner) (*model.PDF, error) {
	var p model.PDF
	if err := row.Scan(&p.ID, &p.FolderID, &p.FolderName, &p.Filename, &p.StoragePath, &p.Size, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a pdf row and returns the stored record.
func (r *PDFPostgres) Create(ctx context.Context, pdf *model.PDF) (*model.PDF, error) {
	const q = `
		INSERT INTO pdfs (id, folder_id, filename, storage_path, size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, folder_id, filename, storage_path, size, created_at
	`
	out := model.PDF{FolderName: pdf.FolderName}
	row := r.db.QueryRowContext(ctx, q, pdf.ID, pdf.FolderID, pdf.Filename, pdf.StoragePath, pdf.Size)
	if err := row.Scan(&out.ID, &out.FolderID, &out.Filename, &out.StoragePath, &out.Size, &out.CreatedAt); err != nil {
		return nil, mapWriteError(err)
	}
	return &out, nil
}

// ListByFolder returns the PDFs of one folder, or of all folders when folderID is empty.
func (r *PDFPostgres) ListByFolder(ctx context.Context, folderID string) ([]model.PDF, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if folderID == "" {
		rows, err = r.db.QueryContext(ctx, pdfSelect+` ORDER BY f.name, p.filename`)
	} else {
		rows, err = r.db.QueryContext(ctx, pdfSelect+` WHERE p.folder_id = $1 ORDER BY p.filename`, folderID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PDF, 0)
	for rows.Next() {
		p, err := scanPDF(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByFilename fetches one PDF of a folder.
func (r *PDFPostgres) FindByFilename(ctx context.Context, folderID, filename string) (*model.PDF, error) {
	row := r.db.QueryRowContext(ctx, pdfSelect+` WHERE p.folder_id = $1 AND p.filename = $2`, folderID, filename)
	return scanPDF(row)
}
