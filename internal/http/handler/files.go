package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"snipdesk/internal/service"
	"snipdesk/internal/storage"
)

// openFiles opens every uploaded part. The returned closer must be called once the
// service is done reading.
func openFiles(headers []*multipart.FileHeader) ([]service.File, func(), error) {
	var (
		files   []service.File
		closers []io.Closer
	)
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, f)
		files = append(files, service.File{
			Filename:    fh.Filename,
			ContentType: contentType(fh),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return files, closeAll, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get(fiber.HeaderContentType); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// pathParam returns a route parameter with percent escapes decoded.
func pathParam(c *fiber.Ctx, key string) string {
	v := c.Params(key)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

// sendObject streams a stored object. The body is closed once fasthttp has sent it.
func sendObject(c *fiber.Ctx, rc io.ReadCloser, info storage.ObjectInfo) error {
	if info.ContentType != "" {
		c.Set(fiber.HeaderContentType, info.ContentType)
	}
	if !info.LastModified.IsZero() {
		c.Set(fiber.HeaderLastModified, info.LastModified.UTC().Format(http.TimeFormat))
	}
	size := -1
	if info.Size > 0 {
		size = int(info.Size)
	}
	return c.SendStream(rc, size)
}
