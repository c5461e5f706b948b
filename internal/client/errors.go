package client

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"snipdesk/internal/apperr"
)

// errorResponse is the server's error envelope.
type errorResponse struct {
	RequestID string `json:"request_id"`
	Error     struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// check maps a finished request onto the apperr taxonomy.
func check(op, resource, id string, resp *resty.Response, err error) error {
	if err != nil {
		return &apperr.PersistError{Op: op, Err: err}
	}
	if resp.IsSuccess() {
		return nil
	}

	var env errorResponse
	if e, ok := resp.Error().(*errorResponse); ok && e != nil {
		env = *e
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return &apperr.NotFoundError{Resource: resource, ID: id}
	case resp.StatusCode() == http.StatusBadRequest && env.Error.Code == "VALIDATION_ERROR":
		return parseValidation(env.Error.Message)
	}

	msg := env.Error.Message
	if msg == "" {
		msg = strings.TrimSpace(string(resp.Body()))
	}
	code := env.Error.Code
	if code == "" {
		code = http.StatusText(resp.StatusCode())
	}
	return &apperr.PersistError{Op: op, Code: code, Err: fmt.Errorf("%s: %s", resp.Status(), msg)}
}

// parseValidation reverses ValidationError.Error so the field survives the round trip.
func parseValidation(msg string) *apperr.ValidationError {
	rest := strings.TrimPrefix(msg, "validation: ")
	if field, reason, ok := strings.Cut(rest, ": "); ok {
		return &apperr.ValidationError{Field: field, Reason: reason}
	}
	return &apperr.ValidationError{Reason: rest}
}

// restyLogger routes resty's own diagnostics (retries, parse errors) into zerolog.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.log.Error().Str("event", "http_client").Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.log.Warn().Str("event", "http_client").Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.log.Debug().Str("event", "http_client").Msgf(strings.TrimSpace(format), v...)
}
