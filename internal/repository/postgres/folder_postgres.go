package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"snipdesk/internal/database"
	"snipdesk/internal/model"
	"snipdesk/internal/repository"
)

// FolderPostgres is a PostgreSQL implementation of repository.FolderRepository.
type FolderPostgres struct {
	db *sql.DB
}

// NewFolderPostgres creates a new FolderPostgres repository.
func NewFolderPostgres(db *sql.DB) *FolderPostgres {
	return &FolderPostgres{db: db}
}

var _ repository.FolderRepository = (*FolderPostgres)(nil)

const folderSelect = `
	SELECT f.id, f.name, f.path, f.upload_date,
	       (SELECT COUNT(*) FROM pdfs p WHERE p.folder_id = f.id) AS file_count
	FROM folders f
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (*model.Folder, error) {
	var f model.Folder
	if err := row.Scan(&f.ID, &f.Name, &f.Path, &f.UploadDate, &f.FileCount); err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts the folder row and one pdf row per document inside a transaction.
func (r *FolderPostgres) Create(ctx context.Context, folder *model.Folder, pdfs []model.PDF) (*model.Folder, error) {
	const qFolder = `
		INSERT INTO folders (id, name, path)
		VALUES ($1, $2, $3)
		RETURNING id, name, path, upload_date
	`
	const qPDF = `
		INSERT INTO pdfs (id, folder_id, filename, storage_path, size)
		VALUES ($1, $2, $3, $4, $5)
	`

	var out model.Folder
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, qFolder, folder.ID, folder.Name, folder.Path)
		if err := row.Scan(&out.ID, &out.Name, &out.Path, &out.UploadDate); err != nil {
			return mapWriteError(err)
		}
		for _, p := range pdfs {
			if _, err := tx.ExecContext(ctx, qPDF, p.ID, out.ID, p.Filename, p.StoragePath, p.Size); err != nil {
				return mapWriteError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.FileCount = len(pdfs)
	return &out, nil
}

// FindByID fetches a single folder by its ID.
func (r *FolderPostgres) FindByID(ctx context.Context, id string) (*model.Folder, error) {
	return scanFolder(r.db.QueryRowContext(ctx, folderSelect+` WHERE f.id = $1`, id))
}

// FindByName fetches the live folder with the given name.
func (r *FolderPostgres) FindByName(ctx context.Context, name string) (*model.Folder, error) {
	return scanFolder(r.db.QueryRowContext(ctx, folderSelect+` WHERE f.name = $1`, name))
}

// List returns all folders ordered by upload date, newest first.
func (r *FolderPostgres) List(ctx context.Context) ([]model.Folder, error) {
	rows, err := r.db.QueryContext(ctx, folderSelect+` ORDER BY f.upload_date DESC, f.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Folder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes the highlights of pdfURLs and then the folder row inside one transaction.
// A missing folder row is not an error.
func (r *FolderPostgres) Delete(ctx context.Context, id string, pdfURLs []string) (int64, error) {
	const qFolder = `DELETE FROM folders WHERE id = $1`

	var removed int64
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if len(pdfURLs) > 0 {
			q := `DELETE FROM highlights WHERE pdf_url IN (` + placeholders(1, len(pdfURLs)) + `)`
			args := make([]any, len(pdfURLs))
			for i, u := range pdfURLs {
				args[i] = u
			}
			res, err := tx.ExecContext(ctx, q, args...)
			if err != nil {
				return fmt.Errorf("delete highlights: %w", err)
			}
			if removed, err = res.RowsAffected(); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, qFolder, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
