package domain

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 400 Bad Request.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write collides with existing state: an
// overlapping booking, a second review of the same spot, or a storage
// serialization failure that survived the retry.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when the caller does not own the resource it is
// trying to change. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrState is returned when a booking is edited or deleted outside the window
// its dates allow. Handlers should map this to HTTP 403.
var ErrState = errors.New("forbidden by state")

// ErrLimitReached is returned when a resource already holds the maximum number
// of children (e.g. images per review). Handlers should map this to HTTP 403.
var ErrLimitReached = errors.New("maximum number of images for this resource was reached")

// FieldErrors maps a request field name to a human-readable message.
// It is the error form of the {"errors": {...}} response envelope and always
// matches domain.ErrValidation under errors.Is.
type FieldErrors map[string]string

// Error joins the field messages in key order so output is deterministic.
func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is(err, domain.ErrValidation) succeed.
func (e FieldErrors) Unwrap() error { return ErrValidation }
