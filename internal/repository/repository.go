// Package repository defines data access for folders, PDFs, snips and highlights.
// Implementations live in subpackages and contain no business logic.
package repository

import "errors"

// ErrConflict is returned when a write violates a uniqueness constraint.
var ErrConflict = errors.New("conflicting record exists")
