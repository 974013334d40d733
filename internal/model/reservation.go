package model

import "time"

// Reservation status values as stored in reservations.status.  A
// reservation is created pending and is decided exactly once by the
// space owner (or a superadmin): confirmed on accept, rejected on
// reject.  Both outcomes are terminal.
const (
    ReservationStatusPending   = "pending"
    ReservationStatusConfirmed = "confirmed"
    ReservationStatusRejected  = "rejected"
)

// Reservation records a user's request to occupy a space for a time
// interval.  The interval is persisted twice: StartDate/EndDate keep
// the RFC3339 strings exactly as the client sent them, UTC offset
// included, so reads return the stored instant bit for bit; StartTS
// and EndTS are the same instants as epoch milliseconds and are what
// every range query and conflict check operates on.
//
// Fields:
//  ID                – primary key identifier.
//  SpaceID           – space being reserved.
//  UserID            – user who made the reservation.
//  StartDate         – interval start, verbatim RFC3339 with offset.
//  EndDate           – interval end, verbatim RFC3339 with offset.
//  StartTS           – interval start as epoch milliseconds.
//  EndTS             – interval end as epoch milliseconds.
//  EstimatedCapacity – expected attendee count (≤ space.MaxCapacity).
//  Status            – lifecycle state (pending, confirmed, rejected).
//  RejectionReason   – optional reason recorded on reject.
//  CreatedAt         – creation timestamp.
type Reservation struct {
    ID                uint64    // reservations.id
    SpaceID           uint64    // reservations.space_id
    UserID            uint64    // reservations.user_id
    StartDate         string    // reservations.start_date
    EndDate           string    // reservations.end_date
    StartTS           int64     // reservations.start_ts
    EndTS             int64     // reservations.end_ts
    EstimatedCapacity uint32    // reservations.estimated_capacity
    Status            string    // reservations.status
    RejectionReason   *string   // reservations.rejection_reason (nullable)
    CreatedAt         time.Time // reservations.created_at
}
