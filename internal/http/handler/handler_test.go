package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"snipdesk/internal/apperr"
	"snipdesk/internal/auth"
	"snipdesk/internal/http/middleware"
	"snipdesk/internal/model"
	"snipdesk/internal/service"
	serviceMocks "snipdesk/internal/service/mocks"
	"snipdesk/internal/storage"
)

var nopLog = zerolog.Nop()

type formFile struct {
	field, name string
	data        []byte
}

func multipartBody(t *testing.T, values map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListFolders(t *testing.T) {
	mockSvc := new(serviceMocks.MockFolderService)
	app := fiber.New()
	app.Get("/get-folders", ListFolders(mockSvc, nopLog))

	t.Run("success", func(t *testing.T) {
		folders := []model.Folder{{ID: uuid.NewString(), Name: "ReportsQ1", FileCount: 3}}
		mockSvc.On("List", mock.Anything).Return(folders, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/get-folders", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result []model.Folder
		json.NewDecoder(resp.Body).Decode(&result)
		require.Len(t, result, 1)
		assert.Equal(t, 3, result[0].FileCount)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty is an array", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return(nil, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/get-folders", nil))

		raw, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "[]", string(raw))
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/get-folders", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
	})
}

func TestUploadFolder(t *testing.T) {
	tests := []struct {
		name       string
		values     map[string]string
		files      []formFile
		raw        bool
		setupMocks func(m *serviceMocks.MockFolderService)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "success",
			values: map[string]string{"folderName": "ReportsQ1"},
			files: []formFile{
				{field: "files[]", name: "a.pdf", data: []byte("%PDF-a")},
				{field: "files[]", name: "b.pdf", data: []byte("%PDF-b")},
			},
			setupMocks: func(m *serviceMocks.MockFolderService) {
				m.On("Upload", mock.Anything, "ReportsQ1", mock.MatchedBy(func(files []service.File) bool {
					return len(files) == 2 && files[0].Filename == "a.pdf" && files[1].Filename == "b.pdf"
				})).Return(&model.Folder{ID: uuid.NewString(), Name: "ReportsQ1", FileCount: 2}, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "not multipart",
			raw:        true,
			setupMocks: func(m *serviceMocks.MockFolderService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "FILE_REQUIRED",
		},
		{
			name:   "name clash",
			values: map[string]string{"folderName": "ReportsQ1"},
			files:  []formFile{{field: "files[]", name: "a.pdf", data: []byte("x")}},
			setupMocks: func(m *serviceMocks.MockFolderService) {
				m.On("Upload", mock.Anything, "ReportsQ1", mock.Anything).Return(nil, service.ErrFolderExists).Once()
			},
			wantStatus: http.StatusConflict,
			wantCode:   "FOLDER_EXISTS",
		},
		{
			name:  "missing name",
			files: []formFile{{field: "files", name: "a.pdf", data: []byte("x")}},
			setupMocks: func(m *serviceMocks.MockFolderService) {
				m.On("Upload", mock.Anything, "", mock.Anything).
					Return(nil, &apperr.ValidationError{Field: "folderName", Reason: "is required"}).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:   "no files",
			values: map[string]string{"folderName": "Empty"},
			setupMocks: func(m *serviceMocks.MockFolderService) {
				m.On("Upload", mock.Anything, "Empty", mock.Anything).Return(nil, service.ErrNoFiles).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "FILE_REQUIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockFolderService)
			tt.setupMocks(mockSvc)

			app := fiber.New()
			app.Post("/upload-folder", UploadFolder(mockSvc, nopLog))

			var req *http.Request
			if tt.raw {
				req = httptest.NewRequest(http.MethodPost, "/upload-folder", nil)
			} else {
				body, ct := multipartBody(t, tt.values, tt.files...)
				req = httptest.NewRequest(http.MethodPost, "/upload-folder", body)
				req.Header.Set("Content-Type", ct)
			}
			resp, _ := app.Test(req)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestDeleteFolder(t *testing.T) {
	mockSvc := new(serviceMocks.MockFolderService)
	app := fiber.New()
	app.Delete("/delete-folder/:id", DeleteFolder(mockSvc, nopLog))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/delete-folder/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "deleted", body["status"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Delete", mock.Anything, id).Return(fmt.Errorf("folder %s: %w", id, service.ErrNotFound)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/delete-folder/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/delete-folder/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})
}

func TestListPDFs(t *testing.T) {
	mockSvc := new(serviceMocks.MockPDFService)
	app := fiber.New()
	app.Get("/get-pdfs", ListPDFs(mockSvc, nopLog))

	pdfs := []model.PDF{{Filename: "a.pdf", URL: "http://127.0.0.1:5000/uploads/ReportsQ1/a.pdf"}}
	mockSvc.On("List", mock.Anything, "ReportsQ1").Return(pdfs, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/get-pdfs?folder=ReportsQ1", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var result []map[string]any
	json.NewDecoder(resp.Body).Decode(&result)
	require.Len(t, result, 1)
	assert.Equal(t, map[string]any{"filename": "a.pdf", "url": pdfs[0].URL}, result[0])
	mockSvc.AssertExpectations(t)
}

func TestUploadPDF(t *testing.T) {
	mockSvc := new(serviceMocks.MockPDFService)
	app := fiber.New()
	app.Post("/upload-pdf", UploadPDF(mockSvc, nopLog))
	app.Post("/save-edited-pdf", UploadPDF(mockSvc, nopLog))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"folder": "Inbox"}, formFile{field: "pdf", name: "paper.pdf", data: []byte("%PDF")})
		mockSvc.On("Upload", mock.Anything, "Inbox", mock.MatchedBy(func(f service.File) bool {
			return f.Filename == "paper.pdf" && f.Size == 4
		})).Return(&model.PDF{Filename: "paper.pdf", URL: "http://127.0.0.1:5000/uploads/Inbox/paper.pdf"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/upload-pdf", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.PDF
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "http://127.0.0.1:5000/uploads/Inbox/paper.pdf", result.URL)
		mockSvc.AssertExpectations(t)
	})

	t.Run("edited copy replaces the named pdf", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"folder": "ReportsQ1", "filename": " report.pdf "}, formFile{field: "file", name: "blob", data: []byte("%PDF-2")})
		mockSvc.On("Upload", mock.Anything, "ReportsQ1", mock.MatchedBy(func(f service.File) bool {
			return f.Filename == "report.pdf" && f.Size == 6
		})).Return(&model.PDF{Filename: "report.pdf", URL: "http://127.0.0.1:5000/uploads/ReportsQ1/report.pdf"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/save-edited-pdf", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"folder": "Inbox"})
		req := httptest.NewRequest(http.MethodPost, "/upload-pdf", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})
}

func TestServePDF(t *testing.T) {
	mockSvc := new(serviceMocks.MockPDFService)
	app := fiber.New()
	app.Get("/uploads/:folder/:filename", ServePDF(mockSvc, nopLog))

	t.Run("streams object", func(t *testing.T) {
		info := storage.ObjectInfo{Size: 4, ContentType: "application/pdf", LastModified: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
		mockSvc.On("Open", mock.Anything, "Reports Q1", "a.pdf").
			Return(io.NopCloser(strings.NewReader("%PDF")), info, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/Reports%20Q1/a.pdf", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Equal(t, "Mon, 01 Jan 2024 10:00:00 GMT", resp.Header.Get("Last-Modified"))
		raw, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF", string(raw))
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing object", func(t *testing.T) {
		mockSvc.On("Open", mock.Anything, "Inbox", "gone.pdf").Return(nil, nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/Inbox/gone.pdf", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSaveSnip(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}

	tests := []struct {
		name       string
		values     map[string]string
		files      []formFile
		setupMocks func(m *serviceMocks.MockSnipService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "success ignores client created_at",
			values: map[string]string{
				"folder": "ReportsQ1", "title": "Cover Page", "description": "first page",
				"timestamp": "2024-01-01 10:00:00", "created_at": "1999-01-01 00:00:00",
			},
			files: []formFile{{field: "snip", name: "shot.png", data: png}},
			setupMocks: func(m *serviceMocks.MockSnipService) {
				m.On("Save", mock.Anything, mock.MatchedBy(func(u service.SnipUpload) bool {
					return u.Folder == "ReportsQ1" && u.Title == "Cover Page" && u.Description == "first page" &&
						u.Timestamp == "2024-01-01 10:00:00" && u.Image.Body != nil && u.Image.Filename == "shot.png"
				})).Return(&model.Snip{
					ID: uuid.NewString(), Title: "Cover Page", Timestamp: "2024-01-01 10:00:00",
					Folder: "ReportsQ1", CreatedAt: time.Now().UTC(),
				}, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "empty title",
			values: map[string]string{"folder": "ReportsQ1", "timestamp": "2024-01-01 10:00:00"},
			files:  []formFile{{field: "snip", name: "shot.png", data: png}},
			setupMocks: func(m *serviceMocks.MockSnipService) {
				m.On("Save", mock.Anything, mock.Anything).
					Return(nil, &apperr.ValidationError{Field: "title", Reason: "must not be empty"}).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:   "no folder",
			values: map[string]string{"title": "x", "timestamp": "2024-01-01 10:00:00"},
			setupMocks: func(m *serviceMocks.MockSnipService) {
				m.On("Save", mock.Anything, mock.Anything).Return(nil, service.ErrNoFolderSelected).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "NO_FOLDER_SELECTED",
		},
		{
			name:   "missing image reaches the service",
			values: map[string]string{"folder": "ReportsQ1", "title": "x", "timestamp": "2024-01-01 10:00:00"},
			setupMocks: func(m *serviceMocks.MockSnipService) {
				m.On("Save", mock.Anything, mock.MatchedBy(func(u service.SnipUpload) bool {
					return u.Image.Body == nil
				})).Return(nil, service.ErrNoFiles).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "FILE_REQUIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockSnipService)
			tt.setupMocks(mockSvc)

			app := fiber.New()
			app.Post("/save-snip", SaveSnip(mockSvc, nopLog))

			body, ct := multipartBody(t, tt.values, tt.files...)
			req := httptest.NewRequest(http.MethodPost, "/save-snip", body)
			req.Header.Set("Content-Type", ct)
			resp, _ := app.Test(req)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestListAndDeleteSnips(t *testing.T) {
	mockSvc := new(serviceMocks.MockSnipService)
	app := fiber.New()
	app.Get("/get-snips", ListSnips(mockSvc, nopLog))
	app.Delete("/delete-snip/:id", DeleteSnip(mockSvc, nopLog))

	id := uuid.NewString()
	mockSvc.On("List", mock.Anything, "ReportsQ1").
		Return([]model.Snip{{ID: id, Title: "Cover Page", Timestamp: "2024-01-01 10:00:00"}}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/get-snips?folder=ReportsQ1", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var snips []model.Snip
	json.NewDecoder(resp.Body).Decode(&snips)
	require.Len(t, snips, 1)
	assert.Equal(t, "Cover Page", snips[0].Title)

	mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()
	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/delete-snip/"+id, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mockSvc.On("Delete", mock.Anything, id).Return(service.ErrNotFound).Once()
	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/delete-snip/"+id, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/delete-snip/42", nil))
	assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)

	mockSvc.AssertExpectations(t)
}

func TestSaveHighlights(t *testing.T) {
	mockSvc := new(serviceMocks.MockHighlightService)
	app := fiber.New()
	app.Post("/save-highlight", SaveHighlights(mockSvc, nopLog))

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/save-highlight", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		pdf := "http://127.0.0.1:5000/uploads/ReportsQ1/a.pdf"
		mockSvc.On("SaveBatch", mock.Anything, []model.Highlight{{
			Text: "revenue", Start: model.Point{X: 10, Y: 520}, End: model.Point{X: 90, Y: 540}, PDF: pdf,
		}}).Return(1, nil).Once()

		resp := post(`{"highlights":[{"text":"revenue","start":{"x":10,"y":520},"end":{"x":90,"y":540},"pdf":"` + pdf + `"}]}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body saveHighlightsResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, 1, body.Saved)
	})

	t.Run("empty batch", func(t *testing.T) {
		mockSvc.On("SaveBatch", mock.Anything, mock.Anything).Return(0, service.ErrNothingToSave).Once()

		resp := post(`{"highlights":[]}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "NOTHING_TO_SAVE", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		resp := post(`{"highlights":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "BAD_REQUEST", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestListHighlights(t *testing.T) {
	mockSvc := new(serviceMocks.MockHighlightService)
	app := fiber.New()
	app.Get("/get-highlights", ListHighlights(mockSvc, nopLog))

	mockSvc.On("List", mock.Anything, "").
		Return(nil, &apperr.ValidationError{Field: "pdf", Reason: "is required"}).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/get-highlights", nil))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	mockSvc.AssertExpectations(t)
}

func TestStartSnip(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "no image", err: &apperr.CaptureError{Kind: apperr.CaptureFailed, Reason: "no new snip detected"}, wantStatus: http.StatusInternalServerError, wantCode: "CAPTURE_FAILED"},
		{name: "unavailable", err: service.ErrCaptureUnavailable, wantStatus: http.StatusServiceUnavailable, wantCode: "CAPTURE_UNAVAILABLE"},
		{name: "unknown folder", err: service.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockCaptureService)
			loc := ""
			if tt.err == nil {
				loc = "http://127.0.0.1:5000/captures/abc.png"
			}
			mockSvc.On("Start", mock.Anything, "ReportsQ1").Return(loc, tt.err).Once()

			app := fiber.New()
			app.Post("/start-snip", StartSnip(mockSvc, nopLog))

			body, ct := multipartBody(t, map[string]string{"folder": "ReportsQ1"})
			req := httptest.NewRequest(http.MethodPost, "/start-snip", body)
			req.Header.Set("Content-Type", ct)
			resp, _ := app.Test(req)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				res := decodeError(t, resp)
				assert.Equal(t, tt.wantCode, res.Error.Code)
			} else {
				var out startSnipResponse
				json.NewDecoder(resp.Body).Decode(&out)
				assert.Equal(t, loc, out.FilePath)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestWhoAmI(t *testing.T) {
	v := auth.NewVerifier("secret")
	token, err := v.Issue(model.Authenticated{ID: "u-7", Email: "lee@example.com"}, time.Minute)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.Auth(v))
	app.Get("/whoami", WhoAmI())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	var who whoAmIResponse
	json.NewDecoder(resp.Body).Decode(&who)
	assert.Equal(t, whoAmIResponse{Type: "authenticated", ID: "u-7", Email: "lee@example.com"}, who)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	json.NewDecoder(resp.Body).Decode(&who)
	assert.Equal(t, "anonymous", who.Type)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer forged")
	resp, _ = app.Test(req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
}

func TestRespondErrorRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondError(c, nopLog, errors.New("secret internal detail"))
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(middleware.RequestIDHeader, "rid-1")
	resp, _ := app.Test(req)

	res := decodeError(t, resp)
	assert.Equal(t, "rid-1", res.RequestID)
	assert.Equal(t, "internal server error", res.Error.Message)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	RegisterRoutes(app, Deps{
		Folders:    new(serviceMocks.MockFolderService),
		PDFs:       new(serviceMocks.MockPDFService),
		Snips:      new(serviceMocks.MockSnipService),
		Highlights: new(serviceMocks.MockHighlightService),
		Capture:    new(serviceMocks.MockCaptureService),
		Gatherer:   prometheus.NewRegistry(),
		Log:        nopLog,
	})

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
