package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"snipdesk/internal/apperr"
	"snipdesk/internal/cache"
	"snipdesk/internal/events"
	"snipdesk/internal/model"
	"snipdesk/internal/storage"
)

// DefaultFolder receives single PDF uploads that name no folder.
const DefaultFolder = "Unsorted"

// PDFService lists, uploads and serves PDFs.
type PDFService interface {
	// List returns the PDFs of a folder, or of every folder when folder is empty.
	// An unknown folder has no PDFs.
	List(ctx context.Context, folder string) ([]model.PDF, error)

	// Upload stores one PDF, creating the folder when it does not exist yet.
	// Uploading an existing filename replaces its content.
	Upload(ctx context.Context, folder string, f File) (*model.PDF, error)

	// Open streams a stored PDF.
	Open(ctx context.Context, folder, filename string) (io.ReadCloser, storage.ObjectInfo, error)
}

type pdfService struct {
	store   storage.Storage
	repos   Repos
	folders FolderService
	links   Links
	cache   cache.FolderCache
	pub     events.Publisher
	log     zerolog.Logger
}

func NewPDFService(store storage.Storage, repos Repos, folders FolderService, links Links, c cache.FolderCache, pub events.Publisher, log zerolog.Logger) PDFService {
	return &pdfService{
		store:   store,
		repos:   repos,
		folders: folders,
		links:   links,
		cache:   c,
		pub:     pub,
		log:     log.With().Str("component", "pdf_service").Logger(),
	}
}

func (s *pdfService) List(ctx context.Context, folder string) ([]model.PDF, error) {
	folderID := ""
	if strings.TrimSpace(folder) != "" {
		f, err := s.folders.Resolve(ctx, folder)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return []model.PDF{}, nil
			}
			return nil, err
		}
		folderID = f.ID
	}

	pdfs, err := s.repos.PDFs.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	for i := range pdfs {
		pdfs[i].URL = s.links.PDF(pdfs[i].FolderName, pdfs[i].Filename)
	}
	return pdfs, nil
}

func (s *pdfService) Upload(ctx context.Context, folder string, f File) (*model.PDF, error) {
	if f.Body == nil {
		return nil, ErrNoFiles
	}
	filename := baseName(f.Filename)
	if filename == "" {
		return nil, ErrNoFiles
	}
	if !isPDF(filename) {
		return nil, &apperr.ValidationError{Field: "pdf", Reason: "must be a .pdf file"}
	}
	folder = strings.TrimSpace(folder)
	if folder == "" {
		folder = DefaultFolder
	}

	target, err := s.folders.Resolve(ctx, folder)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		target = nil
	default:
		return nil, err
	}

	if target != nil {
		existing, err := s.repos.PDFs.FindByFilename(ctx, target.ID, filename)
		if err == nil {
			if _, err := s.put(ctx, existing.StoragePath, f, target.ID); err != nil {
				return nil, err
			}
			existing.URL = s.links.PDF(target.Name, existing.Filename)
			return existing, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	created := target == nil
	if created {
		id := uuid.New().String()
		target = &model.Folder{ID: id, Name: folder, Path: "folders/" + id}
	}

	key := target.Path + "/pdfs/" + filename
	info, err := s.put(ctx, key, f, target.ID)
	if err != nil {
		return nil, err
	}
	pdf := model.PDF{
		ID:          uuid.New().String(),
		FolderID:    target.ID,
		FolderName:  target.Name,
		Filename:    filename,
		StoragePath: info.Key,
		Size:        info.Size,
	}

	var stored *model.PDF
	if created {
		_, err = s.repos.Folders.Create(ctx, target, []model.PDF{pdf})
		stored = &pdf
	} else {
		stored, err = s.repos.PDFs.Create(ctx, &pdf)
	}
	if err != nil {
		return nil, saveFailed(err, s.store.Delete(ctx, key))
	}

	if err := s.cache.InvalidateFolders(ctx); err != nil {
		s.log.Warn().Str("event", "cache_invalidate_failed").Err(err).Send()
	}
	if created {
		broadcast(ctx, s.pub, s.log, events.Event{Type: events.FolderCreated, ResourceID: target.ID, Folder: target.Name, Count: 1})
	}
	stored.URL = s.links.PDF(target.Name, stored.Filename)
	return stored, nil
}

func (s *pdfService) put(ctx context.Context, key string, f File, folderID string) (storage.ObjectInfo, error) {
	info, err := s.store.Put(ctx, key, f.Body, storage.PutObjectOptions{
		Size:        f.Size,
		ContentType: "application/pdf",
		Metadata:    map[string]string{"folder-id": folderID},
	})
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("upload to storage: %w", err)
	}
	return info, nil
}

func (s *pdfService) Open(ctx context.Context, folder, filename string) (io.ReadCloser, storage.ObjectInfo, error) {
	f, err := s.folders.Resolve(ctx, folder)
	if err != nil {
		if errors.Is(err, ErrNoFolderSelected) {
			return nil, storage.ObjectInfo{}, fmt.Errorf("folder: %w", ErrNotFound)
		}
		return nil, storage.ObjectInfo{}, err
	}
	pdf, err := s.repos.PDFs.FindByFilename(ctx, f.ID, filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ObjectInfo{}, fmt.Errorf("pdf %q: %w", filename, ErrNotFound)
		}
		return nil, storage.ObjectInfo{}, err
	}
	return openObject(ctx, s.store, pdf.StoragePath)
}

// openObject maps a missing object to ErrNotFound.
func openObject(ctx context.Context, store storage.Storage, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	rc, info, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ObjectInfo{}, fmt.Errorf("object %q: %w", key, ErrNotFound)
		}
		return nil, storage.ObjectInfo{}, err
	}
	return rc, info, nil
}
