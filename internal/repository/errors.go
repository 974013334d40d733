// Package repository implements the MySQL persistence layer.  This
// file defines error values shared across repositories.  Domain errors
// that the booking core understands live in the booking package;
// the sentinels here cover ownership and structural conflicts the
// handlers translate directly into HTTP responses.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as deleting a space that still has upcoming
// reservations or registering a duplicate space name. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by user creation when the email is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// isDuplicateKey reports whether err is a MySQL duplicate-key error
// (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
