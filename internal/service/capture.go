package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"snipdesk/internal/apperr"
	"snipdesk/internal/capture"
	"snipdesk/internal/storage"
)

const capturePrefix = "captures/"

// stagedPrefix is the key prefix of every capture staged for folderID.
func stagedPrefix(folderID string) string {
	return capturePrefix + folderID + "."
}

// CaptureService takes a screenshot on the server host and stages it for the client.
type CaptureService interface {
	// Start blocks until the user finished the screenshot or the backend gave up.
	// It returns the url of the staged image.
	Start(ctx context.Context, folder string) (string, error)

	// Open streams a staged capture. A capture is served once: the object is
	// deleted when the returned reader is closed after a complete read.
	Open(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error)

	// Sweep deletes staged captures older than maxAge and reports how many went.
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}

type captureService struct {
	backend capture.Backend
	store   storage.Storage
	folders FolderService
	links   Links
	log     zerolog.Logger
	now     func() time.Time
}

// NewCaptureService constructs a CaptureService. A nil backend makes Start report ErrCaptureUnavailable.
func NewCaptureService(backend capture.Backend, store storage.Storage, folders FolderService, links Links, log zerolog.Logger) CaptureService {
	return &captureService{
		backend: backend,
		store:   store,
		folders: folders,
		links:   links,
		log:     log.With().Str("component", "capture_service").Logger(),
		now:     time.Now,
	}
}

func (s *captureService) Start(ctx context.Context, folder string) (string, error) {
	if strings.TrimSpace(folder) == "" {
		return "", ErrNoFolderSelected
	}
	f, err := s.folders.Resolve(ctx, folder)
	if err != nil {
		return "", err
	}
	if s.backend == nil {
		return "", ErrCaptureUnavailable
	}

	img, err := s.backend.Grab(ctx)
	if err != nil {
		s.log.Warn().Str("event", "capture_failed").Str("folder_id", f.ID).Err(err).Send()
		if errors.Is(err, capture.ErrUnavailable) {
			return "", fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
		}
		return "", &apperr.CaptureError{Kind: apperr.CaptureFailed, Reason: err.Error(), Err: err}
	}

	key := stagedPrefix(f.ID) + uuid.New().String() + img.Ext
	name := strings.TrimPrefix(key, capturePrefix)
	if _, err := s.store.Put(ctx, key, bytes.NewReader(img.Data), storage.PutObjectOptions{
		Size:        int64(len(img.Data)),
		ContentType: img.ContentType,
		Metadata:    map[string]string{"folder-id": f.ID, "original-filename": img.Name},
	}); err != nil {
		return "", fmt.Errorf("stage capture: %w", err)
	}

	s.log.Info().Str("event", "capture_staged").Str("folder_id", f.ID).Str("name", name).Send()
	return s.links.Capture(name), nil
}

func (s *captureService) Open(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error) {
	if name == "" || baseName(name) != name {
		return nil, storage.ObjectInfo{}, fmt.Errorf("capture %q: %w", name, ErrNotFound)
	}
	key := capturePrefix + name
	rc, info, err := openObject(ctx, s.store, key)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	return &stagedReader{
		ReadCloser: rc,
		size:       info.Size,
		release: func() {
			// The request context is gone once the body has been streamed.
			if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
				s.log.Warn().Str("event", "capture_release_failed").Str("name", name).Err(err).Send()
				return
			}
			s.log.Debug().Str("event", "capture_released").Str("name", name).Send()
		},
	}, info, nil
}

func (s *captureService) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	objs, err := s.store.List(ctx, capturePrefix)
	if err != nil {
		return 0, fmt.Errorf("list captures: %w", err)
	}
	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, o := range objs {
		if !o.LastModified.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, o.Key); err != nil {
			return removed, fmt.Errorf("delete capture: %w", err)
		}
		removed++
	}
	if removed > 0 {
		s.log.Info().Str("event", "captures_swept").Int("removed", removed).Dur("max_age", maxAge).Send()
	}
	return removed, nil
}

// stagedReader calls release on Close once the whole object has been read.
type stagedReader struct {
	io.ReadCloser
	size    int64
	read    int64
	eof     bool
	release func()
}

func (r *stagedReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	r.read += int64(n)
	if errors.Is(err, io.EOF) {
		r.eof = true
	}
	return n, err
}

func (r *stagedReader) Close() error {
	err := r.ReadCloser.Close()
	if r.release != nil && (r.eof || (r.size > 0 && r.read >= r.size)) {
		r.release()
		r.release = nil
	}
	return err
}
