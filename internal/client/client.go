// Package client talks to the snipdesk API on behalf of the desktop side.
// Client implements both AssociationStore and Registry.
package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"snipdesk/internal/apperr"
	"snipdesk/internal/model"
)

const (
	DefaultTimeout        = 30 * time.Second
	DefaultCaptureTimeout = 60 * time.Second
)

// AssociationStore persists snips and highlights.
type AssociationStore interface {
	ListSnips(ctx context.Context, folder string) ([]model.Snip, error)
	SaveSnip(ctx context.Context, u SnipUpload) (*model.Snip, error)
	DeleteSnip(ctx context.Context, id string) error
	ListHighlights(ctx context.Context, pdf string) ([]model.Highlight, error)
	SaveHighlights(ctx context.Context, highlights []model.Highlight) error
}

// Registry resolves folders and enumerates their PDFs.
type Registry interface {
	ListFolders(ctx context.Context) ([]model.Folder, error)
	UploadFolder(ctx context.Context, name string, files []File) (*model.Folder, error)
	DeleteFolder(ctx context.Context, id string) error
	ListPDFs(ctx context.Context, folder string) ([]model.PDF, error)
}

var (
	_ AssociationStore = (*Client)(nil)
	_ Registry         = (*Client)(nil)
)

// File is an in-memory upload. Bodies are buffered so a retried request resends them intact.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// SnipUpload is what a committed annotation session sends. There is no created_at.
type SnipUpload struct {
	Folder      string
	Title       string
	Description string
	Timestamp   string
	Image       File
}

// Config configures a Client. Retries above 1 are clamped to 1.
type Config struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	CaptureTimeout time.Duration
	Retries        int
	Log            zerolog.Logger
}

type Client struct {
	http    *resty.Client
	capture *resty.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CaptureTimeout <= 0 {
		cfg.CaptureTimeout = DefaultCaptureTimeout
	}
	retries := cfg.Retries
	if retries > 1 {
		retries = 1
	}
	if retries < 0 {
		retries = 0
	}
	return &Client{
		http: newResty(cfg, cfg.Timeout, retries),
		// A capture waits on the user and is never repeated behind their back.
		capture: newResty(cfg, cfg.CaptureTimeout, 0),
	}
}

func newResty(cfg Config, timeout time.Duration, retries int) *resty.Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetTimeout(timeout).
		SetLogger(restyLogger{cfg.Log.With().Str("component", "client").Logger()}).
		SetHeader("Accept", "application/json").
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(transient)
	if cfg.Token != "" {
		c.SetAuthToken(cfg.Token)
	}
	return c
}

// transient reports transport failures and gateway errors.
func transient(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	switch r.StatusCode() {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (c *Client) ListFolders(ctx context.Context) ([]model.Folder, error) {
	var out []model.Folder
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).SetError(&errorResponse{}).Get("/get-folders")
	if err := check("list folders", "folder", "", resp, err); err != nil {
		return nil, err
	}
	return orEmpty(out), nil
}

func (c *Client) UploadFolder(ctx context.Context, name string, files []File) (*model.Folder, error) {
	parts := make([]part, 0, len(files))
	for _, f := range files {
		parts = append(parts, part{field: "files[]", file: f})
	}
	body, contentType, err := multipartBody(map[string]string{"folderName": name}, parts)
	if err != nil {
		return nil, &apperr.PersistError{Op: "upload folder", Err: err}
	}

	var out model.Folder
	resp, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(body).
		SetResult(&out).SetError(&errorResponse{}).
		Post("/upload-folder")
	if err := check("upload folder", "folder", name, resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("id", id).
		SetError(&errorResponse{}).
		Delete("/delete-folder/{id}")
	return check("delete folder", "folder", id, resp, err)
}

func (c *Client) ListPDFs(ctx context.Context, folder string) ([]model.PDF, error) {
	var out []model.PDF
	req := c.http.R().SetContext(ctx).SetResult(&out).SetError(&errorResponse{})
	if folder != "" {
		req.SetQueryParam("folder", folder)
	}
	resp, err := req.Get("/get-pdfs")
	if err := check("list pdfs", "folder", folder, resp, err); err != nil {
		return nil, err
	}
	return orEmpty(out), nil
}

// UploadPDF stores a single PDF. An empty folder lands in the server's default folder.
func (c *Client) UploadPDF(ctx context.Context, folder string, f File) (*model.PDF, error) {
	fields := map[string]string{}
	if folder != "" {
		fields["folder"] = folder
	}
	body, contentType, err := multipartBody(fields, []part{{field: "pdf", file: f}})
	if err != nil {
		return nil, &apperr.PersistError{Op: "upload pdf", Err: err}
	}

	var out model.PDF
	resp, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(body).
		SetResult(&out).SetError(&errorResponse{}).
		Post("/upload-pdf")
	if err := check("upload pdf", "folder", folder, resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSnips(ctx context.Context, folder string) ([]model.Snip, error) {
	var out []model.Snip
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("folder", folder).
		SetResult(&out).SetError(&errorResponse{}).
		Get("/get-snips")
	if err := check("list snips", "folder", folder, resp, err); err != nil {
		return nil, err
	}
	return orEmpty(out), nil
}

func (c *Client) SaveSnip(ctx context.Context, u SnipUpload) (*model.Snip, error) {
	img := u.Image
	if img.Name == "" {
		img.Name = "snip.png"
	}
	body, contentType, err := multipartBody(map[string]string{
		"folder":      u.Folder,
		"title":       u.Title,
		"description": u.Description,
		"timestamp":   u.Timestamp,
	}, []part{{field: "snip", file: img}})
	if err != nil {
		return nil, &apperr.PersistError{Op: "save snip", Err: err}
	}

	var out model.Snip
	resp, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(body).
		SetResult(&out).SetError(&errorResponse{}).
		Post("/save-snip")
	if err := check("save snip", "folder", u.Folder, resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSnip(ctx context.Context, id string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("id", id).
		SetError(&errorResponse{}).
		Delete("/delete-snip/{id}")
	return check("delete snip", "snip", id, resp, err)
}

func (c *Client) ListHighlights(ctx context.Context, pdf string) ([]model.Highlight, error) {
	var out []model.Highlight
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("pdf", pdf).
		SetResult(&out).SetError(&errorResponse{}).
		Get("/get-highlights")
	if err := check("list highlights", "pdf", pdf, resp, err); err != nil {
		return nil, err
	}
	return orEmpty(out), nil
}

func (c *Client) SaveHighlights(ctx context.Context, highlights []model.Highlight) error {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]any{"highlights": highlights}).
		SetError(&errorResponse{}).
		Post("/save-highlight")
	return check("save highlights", "pdf", "", resp, err)
}

// StartCapture asks the server to take a screenshot and returns the locator of the image.
// It is sent once; any failure is a CaptureFailed CaptureError.
func (c *Client) StartCapture(ctx context.Context, folder string) (string, error) {
	var out struct {
		FilePath string `json:"file_path"`
	}
	resp, err := c.capture.R().SetContext(ctx).
		SetMultipartFormData(map[string]string{"folder": folder}).
		SetResult(&out).SetError(&errorResponse{}).
		Post("/start-snip")
	if err != nil {
		return "", &apperr.CaptureError{Kind: apperr.CaptureFailed, Reason: "capture request failed", Err: err}
	}
	if !resp.IsSuccess() {
		msg := resp.Status()
		if e, ok := resp.Error().(*errorResponse); ok && e.Error.Message != "" {
			msg = e.Error.Message
		}
		return "", &apperr.CaptureError{Kind: apperr.CaptureFailed, Reason: msg}
	}
	if out.FilePath == "" {
		return "", &apperr.CaptureError{Kind: apperr.CaptureFailed, Reason: "server returned no image locator"}
	}
	return out.FilePath, nil
}

// FetchImage downloads the image behind a locator returned by StartCapture.
func (c *Client) FetchImage(ctx context.Context, locator string) (File, error) {
	resp, err := c.http.R().SetContext(ctx).
		SetHeader("Accept", "image/*").
		Get(locator)
	if err != nil {
		return File{}, &apperr.CaptureError{Kind: apperr.ImageRetrievalFailed, Err: err}
	}
	if !resp.IsSuccess() {
		return File{}, &apperr.CaptureError{Kind: apperr.ImageRetrievalFailed, Reason: resp.Status()}
	}
	return File{
		Name:        locatorName(locator),
		ContentType: resp.Header().Get("Content-Type"),
		Data:        resp.Body(),
	}, nil
}

// WhoAmI returns the caller as the server resolved it from the token.
func (c *Client) WhoAmI(ctx context.Context) (model.User, error) {
	var out struct {
		Type  string `json:"type"`
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).SetError(&errorResponse{}).Get("/whoami")
	if err := check("whoami", "user", "", resp, err); err != nil {
		return model.Anonymous{}, err
	}
	if out.Type == "authenticated" {
		return model.Authenticated{ID: out.ID, Email: out.Email}, nil
	}
	return model.Anonymous{}, nil
}

func locatorName(locator string) string {
	if u, err := url.Parse(locator); err == nil && u.Path != "" {
		if name, err := url.PathUnescape(path.Base(u.Path)); err == nil {
			return name
		}
	}
	return "snip.png"
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type part struct {
	field string
	file  File
}

// multipartBody encodes fields and files in memory.
func multipartBody(fields map[string]string, parts []part) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.file.Name))
		ct := p.file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		fw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(p.file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
