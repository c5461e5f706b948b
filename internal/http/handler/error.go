package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"snipdesk/internal/apperr"
	"snipdesk/internal/http/middleware"
	"snipdesk/internal/service"
	"snipdesk/internal/storage"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// respondError translates a service error into the closed set of error codes.
// Validation and capture messages are safe to show; anything unexpected becomes INTERNAL_ERROR.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var (
		verr *apperr.ValidationError
		cerr *apperr.CaptureError
	)
	switch {
	case errors.As(err, &verr):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", verr.Error())
	case errors.Is(err, service.ErrNothingToSave):
		return writeError(c, fiber.StatusBadRequest, "NOTHING_TO_SAVE", "nothing to save")
	case errors.Is(err, service.ErrNoFolderSelected):
		return writeError(c, fiber.StatusBadRequest, "NO_FOLDER_SELECTED", "no folder selected")
	case errors.Is(err, service.ErrNoFiles):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrFolderExists):
		return writeError(c, fiber.StatusConflict, "FOLDER_EXISTS", "a folder with this name already exists")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrCaptureUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "CAPTURE_UNAVAILABLE", "screen capture is not available")
	case errors.As(err, &cerr):
		msg := cerr.Reason
		if msg == "" {
			msg = "capture failed"
		}
		return writeError(c, fiber.StatusInternalServerError, "CAPTURE_FAILED", msg)
	}

	log.Error().
		Str("event", "request_failed").
		Str("request_id", requestIDFromCtx(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Err(err).
		Send()
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "invalid or expired token")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "BAD_REQUEST", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
