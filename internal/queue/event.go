// Package queue defines the notification payloads exchanged over the
// message broker and the background consumer that turns them into
// transactional emails.
package queue

// Event kinds published by the reservation lifecycle.
const (
	KindReservationCreated  = "reservation.created"
	KindReservationAccepted = "reservation.accepted"
	KindReservationRejected = "reservation.rejected"
)

// Audience values select who a notification addresses.
const (
	AudienceOwner = "owner"
	AudienceUser  = "user"
)

// NotificationEvent is published once per recipient when a reservation
// is created, accepted or rejected. It carries enough information for
// the consumer to compose and deliver an email without re-reading the
// reservation, so a delayed delivery still describes the state at the
// time of the transition.
type NotificationEvent struct {
	ID                string  `json:"id"`
	Kind              string  `json:"kind"`
	Audience          string  `json:"audience"`
	ReservationID     uint64  `json:"reservation_id"`
	SpaceID           uint64  `json:"space_id"`
	SpaceName         string  `json:"space_name"`
	OwnerID           uint64  `json:"owner_id"`
	UserID            uint64  `json:"user_id"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	EstimatedCapacity uint32  `json:"estimated_capacity"`
	DurationHours     float64 `json:"duration_hours"`
	AmountCents       int64   `json:"amount_cents"`
	AmountFormatted   string  `json:"amount_formatted"`
	Reason            string  `json:"reason,omitempty"`
	OccurredAt        string  `json:"occurred_at"`
}
