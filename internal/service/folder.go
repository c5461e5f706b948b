package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"snipdesk/internal/apperr"
	"snipdesk/internal/cache"
	"snipdesk/internal/events"
	"snipdesk/internal/model"
	"snipdesk/internal/repository"
	"snipdesk/internal/storage"
)

// FolderService manages folders and everything stored under them.
type FolderService interface {
	// List returns every folder with its PDF count, newest first.
	List(ctx context.Context) ([]model.Folder, error)

	// Upload creates a folder from a batch of files. Only .pdf files are kept.
	Upload(ctx context.Context, name string, files []File) (*model.Folder, error)

	// Delete removes the folder, its PDFs and snips (rows and objects),
	// its unfetched staged captures and the highlights recorded on its PDFs.
	Delete(ctx context.Context, id string) error

	// Resolve finds a live folder by id or name.
	Resolve(ctx context.Context, ref string) (*model.Folder, error)
}

type folderService struct {
	store storage.Storage
	repos Repos
	links Links
	cache cache.FolderCache
	pub   events.Publisher
	log   zerolog.Logger
}

// NewFolderService constructs a FolderService. Use cache.Nop and events.Nop when those are not configured.
func NewFolderService(store storage.Storage, repos Repos, links Links, c cache.FolderCache, pub events.Publisher, log zerolog.Logger) FolderService {
	return &folderService{
		store: store,
		repos: repos,
		links: links,
		cache: c,
		pub:   pub,
		log:   log.With().Str("component", "folder_service").Logger(),
	}
}

func (s *folderService) List(ctx context.Context) ([]model.Folder, error) {
	cached, version, ok, cacheErr := s.cache.GetFolders(ctx)
	if cacheErr != nil {
		s.log.Warn().Str("event", "cache_read_failed").Err(cacheErr).Send()
	} else if ok {
		return cached, nil
	}

	folders, err := s.repos.Folders.List(ctx)
	if err != nil {
		return nil, err
	}
	// Without a version from the read there is nothing safe to write under.
	if cacheErr == nil {
		if err := s.cache.SetFolders(ctx, version, folders); err != nil {
			s.log.Warn().Str("event", "cache_write_failed").Err(err).Send()
		}
	}
	return folders, nil
}

func (s *folderService) Upload(ctx context.Context, name string, files []File) (*model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &apperr.ValidationError{Field: "folderName", Reason: "is required"}
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	if _, err := s.repos.Folders.FindByName(ctx, name); err == nil {
		return nil, ErrFolderExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	id := uuid.New().String()
	folder := &model.Folder{ID: id, Name: name, Path: "folders/" + id}

	var (
		pdfs []model.PDF
		keys []string
	)
	seen := make(map[string]bool)
	for _, f := range files {
		filename := baseName(f.Filename)
		if filename == "" || !isPDF(filename) || seen[filename] {
			continue
		}
		seen[filename] = true

		key := folder.Path + "/pdfs/" + filename
		info, err := s.store.Put(ctx, key, f.Body, storage.PutObjectOptions{
			Size:        f.Size,
			ContentType: "application/pdf",
			Metadata:    map[string]string{"folder-id": id},
		})
		if err != nil {
			if rbErr := rollback(ctx, s.store, keys); rbErr != nil {
				return nil, fmt.Errorf("upload to storage: %v; rollback delete failed: %v", err, rbErr)
			}
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
		keys = append(keys, key)
		pdfs = append(pdfs, model.PDF{
			ID:          uuid.New().String(),
			FolderID:    id,
			FolderName:  name,
			Filename:    filename,
			StoragePath: info.Key,
			Size:        info.Size,
		})
	}

	stored, err := s.repos.Folders.Create(ctx, folder, pdfs)
	if err != nil {
		rbErr := rollback(ctx, s.store, keys)
		if errors.Is(err, repository.ErrConflict) && rbErr == nil {
			return nil, ErrFolderExists
		}
		return nil, saveFailed(err, rbErr)
	}

	s.invalidate(ctx)
	broadcast(ctx, s.pub, s.log, events.Event{
		Type:       events.FolderCreated,
		ResourceID: stored.ID,
		Folder:     stored.Name,
		Count:      stored.FileCount,
	})
	s.log.Info().
		Str("event", "folder_uploaded").
		Str("folder_id", stored.ID).
		Int("files_received", len(files)).
		Int("pdfs_stored", stored.FileCount).
		Send()
	return stored, nil
}

func (s *folderService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	folder, err := s.repos.Folders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("folder %q: %w", id, ErrNotFound)
		}
		return err
	}

	pdfs, err := s.repos.PDFs.ListByFolder(ctx, id)
	if err != nil {
		return err
	}
	snips, err := s.repos.Snips.ListByFolder(ctx, id)
	if err != nil {
		return err
	}
	staged, err := s.store.List(ctx, stagedPrefix(id))
	if err != nil {
		return fmt.Errorf("list captures: %w", err)
	}

	// Objects go first; on failure the rows still point at whatever is left.
	for _, p := range pdfs {
		if err := s.store.Delete(ctx, p.StoragePath); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	for _, sn := range snips {
		if err := s.store.Delete(ctx, sn.StoragePath); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	for _, o := range staged {
		if err := s.store.Delete(ctx, o.Key); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}

	urls := make([]string, 0, len(pdfs))
	for _, p := range pdfs {
		urls = append(urls, s.links.PDF(folder.Name, p.Filename))
	}
	removed, err := s.repos.Folders.Delete(ctx, id, urls)
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	broadcast(ctx, s.pub, s.log, events.Event{Type: events.FolderDeleted, ResourceID: id, Folder: folder.Name})
	s.log.Info().
		Str("event", "folder_deleted").
		Str("folder_id", id).
		Int("pdfs", len(pdfs)).
		Int("snips", len(snips)).
		Int("staged_captures", len(staged)).
		Int64("highlights", removed).
		Send()
	return nil
}

func (s *folderService) Resolve(ctx context.Context, ref string) (*model.Folder, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNoFolderSelected
	}
	if _, err := uuid.Parse(ref); err == nil {
		f, err := s.repos.Folders.FindByID(ctx, ref)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	f, err := s.repos.Folders.FindByName(ctx, ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("folder %q: %w", ref, ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

func (s *folderService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateFolders(ctx); err != nil {
		s.log.Warn().Str("event", "cache_invalidate_failed").Err(err).Send()
	}
}
