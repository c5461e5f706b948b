package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"snipdesk/internal/apperr"
	"snipdesk/internal/events"
	"snipdesk/internal/model"
	"snipdesk/internal/repository"
	"snipdesk/internal/storage"
)

// SnipUpload is a snip as submitted by the client. There is no created_at:
// the store assigns it.
type SnipUpload struct {
	Folder      string
	Title       string
	Description string
	Timestamp   string
	Image       File
}

// SnipService persists screenshots annotated with a title, description and timestamp.
type SnipService interface {
	Save(ctx context.Context, u SnipUpload) (*model.Snip, error)

	// List returns a folder's snips, newest first. An unknown folder has no snips.
	List(ctx context.Context, folder string) ([]model.Snip, error)

	// Delete removes the image object, then the row.
	Delete(ctx context.Context, id string) error

	// Open streams a snip image.
	Open(ctx context.Context, folder, filename string) (io.ReadCloser, storage.ObjectInfo, error)
}

type snipService struct {
	store   storage.Storage
	snips   repository.SnipRepository
	folders FolderService
	links   Links
	pub     events.Publisher
	log     zerolog.Logger
}

func NewSnipService(store storage.Storage, snips repository.SnipRepository, folders FolderService, links Links, pub events.Publisher, log zerolog.Logger) SnipService {
	return &snipService{
		store:   store,
		snips:   snips,
		folders: folders,
		links:   links,
		pub:     pub,
		log:     log.With().Str("component", "snip_service").Logger(),
	}
}

// ValidateSnip checks the fields a user types. It returns the parsed timestamp.
func ValidateSnip(title, timestamp string) (time.Time, error) {
	if strings.TrimSpace(title) == "" {
		return time.Time{}, &apperr.ValidationError{Field: "title", Reason: "is required"}
	}
	t, err := model.ParseTimestamp(timestamp)
	if err != nil {
		return time.Time{}, &apperr.ValidationError{Field: "timestamp", Reason: err.Error()}
	}
	return t, nil
}

func (s *snipService) Save(ctx context.Context, u SnipUpload) (*model.Snip, error) {
	if strings.TrimSpace(u.Folder) == "" {
		return nil, ErrNoFolderSelected
	}
	capturedAt, err := ValidateSnip(u.Title, u.Timestamp)
	if err != nil {
		return nil, err
	}
	if u.Image.Body == nil {
		return nil, ErrNoFiles
	}

	folder, err := s.folders.Resolve(ctx, u.Folder)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(baseName(u.Image.Filename)))
	if ext == "" {
		ext = ".png"
	}
	contentType := u.Image.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	id := uuid.New().String()
	filename := id + ext
	key := folder.Path + "/snips/" + filename
	info, err := s.store.Put(ctx, key, u.Image.Body, storage.PutObjectOptions{
		Size:        u.Image.Size,
		ContentType: contentType,
		Metadata:    map[string]string{"folder-id": folder.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	stored, err := s.snips.Create(ctx, repository.NewSnip{
		ID:          id,
		FolderID:    folder.ID,
		Title:       strings.TrimSpace(u.Title),
		Description: u.Description,
		CapturedAt:  capturedAt,
		Filename:    filename,
		StoragePath: info.Key,
	})
	if err != nil {
		return nil, saveFailed(err, s.store.Delete(ctx, key))
	}
	stored.URL = s.links.Snip(stored.Folder, stored.Filename)

	broadcast(ctx, s.pub, s.log, events.Event{Type: events.SnipCreated, ResourceID: stored.ID, Folder: stored.Folder})
	return stored, nil
}

func (s *snipService) List(ctx context.Context, folder string) ([]model.Snip, error) {
	f, err := s.folders.Resolve(ctx, folder)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []model.Snip{}, nil
		}
		return nil, err
	}
	snips, err := s.snips.ListByFolder(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	for i := range snips {
		snips[i].URL = s.links.Snip(snips[i].Folder, snips[i].Filename)
	}
	return snips, nil
}

func (s *snipService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	snip, err := s.snips.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("snip %q: %w", id, ErrNotFound)
		}
		return err
	}
	if err := s.store.Delete(ctx, snip.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.snips.Delete(ctx, id); err != nil {
		return err
	}
	broadcast(ctx, s.pub, s.log, events.Event{Type: events.SnipDeleted, ResourceID: id, Folder: snip.Folder})
	return nil
}

func (s *snipService) Open(ctx context.Context, folder, filename string) (io.ReadCloser, storage.ObjectInfo, error) {
	f, err := s.folders.Resolve(ctx, folder)
	if err != nil {
		if errors.Is(err, ErrNoFolderSelected) {
			return nil, storage.ObjectInfo{}, fmt.Errorf("folder: %w", ErrNotFound)
		}
		return nil, storage.ObjectInfo{}, err
	}
	snip, err := s.snips.FindByFilename(ctx, f.ID, filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ObjectInfo{}, fmt.Errorf("snip %q: %w", filename, ErrNotFound)
		}
		return nil, storage.ObjectInfo{}, err
	}
	return openObject(ctx, s.store, snip.StoragePath)
}
