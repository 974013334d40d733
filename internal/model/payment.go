package model

import "time"

// Payment status values as stored in payments.status.  A payment is
// created pending together with its reservation and flipped to failed
// when the reservation is rejected.  Capture of a pending payment is
// handled by an external processor and never happens in this service.
const (
    PaymentStatusPending = "pending"
    PaymentStatusFailed  = "failed"
)

// Payment is the 1:1 financial record derived from a reservation.  The
// amount is fixed at creation time from the space's hourly price and
// the reserved duration.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – reservation this payment belongs to (unique).
//  AmountCents   – total amount in minor currency units.
//  Status        – payment state (pending, failed).
//  Method        – payment method label (defaults to "card").
//  Reference     – external reference handed to the processor.
//  PaymentDate   – timestamp when the record was created.
type Payment struct {
    ID            uint64    // payments.id
    ReservationID uint64    // payments.reservation_id
    AmountCents   int64     // payments.amount_cents
    Status        string    // payments.status
    Method        string    // payments.method
    Reference     string    // payments.reference
    PaymentDate   time.Time // payments.payment_date
}
