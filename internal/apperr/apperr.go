// Package apperr is the closed error taxonomy shared by the API and the desktop client.
// Every failure that reaches a user is one of these types.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports user input that was rejected before any external call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// CaptureKind classifies a CaptureError.
type CaptureKind string

const (
	NoFolderSelected     CaptureKind = "NO_FOLDER_SELECTED"
	CaptureFailed        CaptureKind = "CAPTURE_FAILED"
	ImageRetrievalFailed CaptureKind = "IMAGE_RETRIEVAL_FAILED"
)

// CaptureError is returned when no image could be acquired.
type CaptureError struct {
	Kind   CaptureKind
	Reason string
	Err    error
}

func (e *CaptureError) Error() string {
	msg := "capture: " + string(e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CaptureError) Unwrap() error { return e.Err }

// PersistError is returned when the store was unreachable or rejected a write.
// Code carries the server's error code when there is one.
type PersistError struct {
	Op   string
	Code string
	Err  error
}

func (e *PersistError) Error() string {
	msg := "persist " + e.Op
	if e.Code != "" {
		msg += " [" + e.Code + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PersistError) Unwrap() error { return e.Err }

// NotFoundError is returned for operations on a folder, snip or file that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

// CaptureKindOf returns the kind of a wrapped *CaptureError, or "" if err is not one.
func CaptureKindOf(err error) CaptureKind {
	var v *CaptureError
	if errors.As(err, &v) {
		return v.Kind
	}
	return ""
}
