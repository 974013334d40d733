// Package booking implements the reservation core of the venue-booking
// service: interval parsing and conflict detection, reservation
// lifecycle transitions, cost calculation and monthly availability
// reporting.  The package holds no SQL; persistence is reached through
// the small interfaces declared in detector.go and lifecycle.go so the
// core can be exercised against in-memory fakes.
package booking

import (
    "errors"
    "fmt"
)

// Sentinel errors returned by the booking core.  Handlers translate
// these into HTTP status codes: not-found values map to 404, forbidden
// to 403, slot/state conflicts to 409 and the remaining domain rules
// to 400.
var (
    // ErrSpaceNotFound is returned when the referenced space does not exist.
    ErrSpaceNotFound = errors.New("space not found")

    // ErrReservationNotFound is returned when the referenced reservation
    // does not exist.
    ErrReservationNotFound = errors.New("reservation not found")

    // ErrSpaceUnavailable is returned when the space exists but its
    // status is not 'approved', so it cannot take bookings.
    ErrSpaceUnavailable = errors.New("space is not available for booking")

    // ErrSelfBookingForbidden is returned when a user tries to reserve
    // a space they own.
    ErrSelfBookingForbidden = errors.New("owners cannot book their own space")

    // ErrCapacityExceeded is returned when the estimated capacity is
    // larger than the space's maximum capacity.
    ErrCapacityExceeded = errors.New("estimated capacity exceeds the space's maximum capacity")

    // ErrSlotUnavailable is returned when the requested interval
    // overlaps an active reservation, cleanup buffer included.
    ErrSlotUnavailable = errors.New("space is not available for the selected dates")

    // ErrAmbiguousTimezone is returned when a timestamp arrives without
    // an explicit UTC offset and no default offset is configured.
    ErrAmbiguousTimezone = errors.New("timestamp lacks an explicit UTC offset")

    // ErrForbidden is returned when the actor lacks the role or the
    // ownership required for the requested operation.
    ErrForbidden = errors.New("forbidden")
)

// ValidationError reports malformed or semantically invalid input.  It
// names the offending field so handlers can return a precise message.
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError reports an attempt to accept or reject a reservation that
// is no longer pending.  Current carries the status found at the time
// of the write so the message can name it.
type StateError struct {
    Current string
}

func (e *StateError) Error() string {
    return fmt.Sprintf("reservation is already '%s' and cannot be modified", e.Current)
}
