// Package snip acquires screenshots and carries them through one annotation session
// until they are saved against a folder.
package snip

import (
	"context"
	"errors"
	"strings"

	"snipdesk/internal/apperr"
	"snipdesk/internal/client"
)

// ErrNoFolderSelected is returned by Capture before any external call when no folder is given.
var ErrNoFolderSelected = &apperr.CaptureError{Kind: apperr.NoFolderSelected, Reason: "select a folder before capturing"}

// ArmMessage is shown through Capturer.Notify while the OS utility waits for a selection.
const ArmMessage = "Select the area to capture. The snip is picked up once the screenshot is saved."

// Source arms the server-side capture and fetches its result.
type Source interface {
	StartCapture(ctx context.Context, folder string) (string, error)
	FetchImage(ctx context.Context, locator string) (client.File, error)
}

// ImageHandle is an acquired image that is not yet a snip.
type ImageHandle struct {
	Folder  string
	Locator string
	Image   client.File
}

type Capturer struct {
	src Source

	// Notify, when set, receives user instructions before the capture is armed.
	Notify func(msg string)
}

func NewCapturer(src Source) *Capturer {
	return &Capturer{src: src}
}

// Capture takes one screenshot for folder. It is never retried.
func (c *Capturer) Capture(ctx context.Context, folder string) (*ImageHandle, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return nil, ErrNoFolderSelected
	}

	if c.Notify != nil {
		c.Notify(ArmMessage)
	}

	locator, err := c.src.StartCapture(ctx, folder)
	if err != nil {
		return nil, asCaptureError(err, apperr.CaptureFailed)
	}

	img, err := c.src.FetchImage(ctx, locator)
	if err != nil {
		return nil, asCaptureError(err, apperr.ImageRetrievalFailed)
	}
	if len(img.Data) == 0 {
		return nil, &apperr.CaptureError{Kind: apperr.ImageRetrievalFailed, Reason: "empty image"}
	}

	return &ImageHandle{Folder: folder, Locator: locator, Image: img}, nil
}

func asCaptureError(err error, kind apperr.CaptureKind) error {
	var cerr *apperr.CaptureError
	if errors.As(err, &cerr) {
		return err
	}
	return &apperr.CaptureError{Kind: kind, Err: err}
}
