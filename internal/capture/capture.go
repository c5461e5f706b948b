// Package capture arms an OS screenshot utility and collects the image it produces.
package capture

import (
	"context"
	"errors"
	"mime"
	"path/filepath"
	"strings"
)

var (
	// ErrNoImage is returned when no new screenshot appeared before the timeout.
	ErrNoImage = errors.New("no new snip detected")
	// ErrCancelled is returned when the user dismissed the screenshot dialog.
	ErrCancelled = errors.New("capture cancelled")
	// ErrUnavailable is returned when the backend cannot run on this host.
	ErrUnavailable = errors.New("capture backend unavailable")
)

// Image is a screenshot taken by a Backend.
type Image struct {
	Name        string
	Ext         string
	ContentType string
	Data        []byte
}

// Backend takes one interactive screenshot.
type Backend interface {
	Grab(ctx context.Context) (*Image, error)
}

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

func isImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

func newImage(name string, data []byte) *Image {
	ext := strings.ToLower(filepath.Ext(name))
	ct := mime.TypeByExtension(ext)
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &Image{Name: filepath.Base(name), Ext: ext, ContentType: ct, Data: data}
}
