// Package apperr holds the sentinel errors shared by the service and
// transport layers.
package apperr

import "errors"

var (
	// ErrNotFound marks a missing notebook or page identity on a read
	// path; mutation paths treat absence as a silent no-op instead.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an If-Match checksum mismatch on a text update.
	ErrConflict = errors.New("conflict")
	// ErrAlreadyExists marks a create with a duplicate identity.
	ErrAlreadyExists = errors.New("already exists")
)
