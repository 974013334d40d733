package booking

import (
    "context"
    "time"

    "github.com/evently/venue-booking/internal/model"
)

// DefaultCleanupBuffer is the turnaround time appended after every
// reservation's end before the space is considered free again.
const DefaultCleanupBuffer = time.Hour

// SpaceDirectory is the read-only space lookup the booking core
// depends on.  Implementations return ErrSpaceNotFound when no space
// with the given ID exists.
type SpaceDirectory interface {
    GetSpace(ctx context.Context, id uint64) (*model.Space, error)
}

// ReservationSource supplies conflict candidates.  ListActiveInRange
// returns pending and confirmed reservations of a space whose stored
// interval intersects [fromMs, toMs) in epoch milliseconds.  The range
// filter is a coarse pre-selection only; the detector re-checks every
// candidate precisely in-process and never trusts the query as the
// source of truth for overlap.
type ReservationSource interface {
    ListActiveInRange(ctx context.Context, spaceID uint64, fromMs, toMs int64) ([]model.Reservation, error)
}

// Detector answers whether a candidate interval collides with existing
// active reservations of a space, cleanup buffer included.
type Detector struct {
    Spaces       SpaceDirectory
    Reservations ReservationSource
    Buffer       time.Duration
}

// NewDetector builds a Detector.  A non-positive buffer falls back to
// DefaultCleanupBuffer.
func NewDetector(spaces SpaceDirectory, reservations ReservationSource, buffer time.Duration) *Detector {
    if buffer <= 0 {
        buffer = DefaultCleanupBuffer
    }
    return &Detector{Spaces: spaces, Reservations: reservations, Buffer: buffer}
}

// FindConflicts looks up the space, verifies it is approved and
// returns every active reservation whose buffered interval overlaps
// iv.  The returned slice is empty when the interval is free.
func (d *Detector) FindConflicts(ctx context.Context, spaceID uint64, iv Interval) ([]model.Reservation, error) {
    space, err := d.Spaces.GetSpace(ctx, spaceID)
    if err != nil {
        return nil, err
    }
    return d.FindConflictsForSpace(ctx, space, iv)
}

// FindConflictsForSpace is FindConflicts for callers that already hold
// the space record and have validated its existence.
func (d *Detector) FindConflictsForSpace(ctx context.Context, space *model.Space, iv Interval) ([]model.Reservation, error) {
    if space.Status != model.SpaceStatusApproved {
        return nil, ErrSpaceUnavailable
    }
    qStart := iv.Start.UnixMilli()
    qEnd := iv.End.UnixMilli()
    bufMs := d.Buffer.Milliseconds()

    // Coarse fetch widened by the buffer on both sides: anything
    // starting before qEnd+buffer and ending after qStart-buffer can
    // still collide once the buffer is applied.
    candidates, err := d.Reservations.ListActiveInRange(ctx, space.ID, qStart-bufMs, qEnd+bufMs)
    if err != nil {
        return nil, err
    }
    var conflicts []model.Reservation
    for _, r := range candidates {
        if OverlapsMillis(qStart, qEnd, r.StartTS, r.EndTS, bufMs) {
            conflicts = append(conflicts, r)
        }
    }
    return conflicts, nil
}

// HasConflict reports whether iv collides with any active reservation
// of the space.
func (d *Detector) HasConflict(ctx context.Context, spaceID uint64, iv Interval) (bool, error) {
    conflicts, err := d.FindConflicts(ctx, spaceID, iv)
    if err != nil {
        return false, err
    }
    return len(conflicts) > 0, nil
}
