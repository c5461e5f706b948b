// Package service implements the folder, PDF, snip, highlight and capture use cases
// on top of the repositories and object storage.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"snipdesk/internal/events"
	"snipdesk/internal/repository"
	"snipdesk/internal/storage"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("not found")
	ErrFolderExists       = errors.New("a folder with this name already exists")
	ErrNoFiles            = errors.New("at least one file is required")
	ErrNothingToSave      = errors.New("nothing to save")
	ErrNoFolderSelected   = errors.New("no folder selected")
	ErrCaptureUnavailable = errors.New("screen capture is not available on this host")
)

// File is one uploaded file. Body is read exactly once.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Repos bundles the repositories the services share.
type Repos struct {
	Folders    repository.FolderRepository
	PDFs       repository.PDFRepository
	Snips      repository.SnipRepository
	Highlights repository.HighlightRepository
}

// Links renders the public URLs of stored objects.
type Links struct {
	base string
}

func NewLinks(publicBaseURL string) Links {
	return Links{base: strings.TrimRight(publicBaseURL, "/")}
}

// PDF is the url of a folder's PDF. Highlights are keyed by it.
func (l Links) PDF(folder, filename string) string {
	return l.base + "/uploads/" + url.PathEscape(folder) + "/" + url.PathEscape(filename)
}

func (l Links) Snip(folder, filename string) string {
	return l.base + "/uploads/" + url.PathEscape(folder) + "/snips/" + url.PathEscape(filename)
}

func (l Links) Capture(name string) string {
	return l.base + "/captures/" + url.PathEscape(name)
}

// baseName strips any client supplied directory, including Windows separators.
func baseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

func isPDF(filename string) bool {
	return strings.EqualFold(path.Ext(filename), ".pdf")
}

// rollback removes objects put before a failed write. It reports the first removal error.
func rollback(ctx context.Context, store storage.Storage, keys []string) error {
	var first error
	for _, k := range keys {
		if err := store.Delete(ctx, k); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// saveFailed wraps a persistence error and any rollback failure.
func saveFailed(err, rbErr error) error {
	if rbErr != nil {
		return fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, rbErr)
	}
	return fmt.Errorf("db save failed: %w", err)
}

// broadcast publishes e. A failed publish is logged and never fails the caller.
func broadcast(ctx context.Context, pub events.Publisher, log zerolog.Logger, e events.Event) {
	if err := pub.Publish(ctx, e); err != nil {
		log.Warn().
			Str("event", "publish_failed").
			Str("event_type", e.Type).
			Str("resource_id", e.ResourceID).
			Err(err).
			Send()
	}
}
