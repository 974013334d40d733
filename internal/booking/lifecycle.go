package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/evently/venue-booking/internal/model"
	"github.com/evently/venue-booking/internal/queue"
)

// Identity carries the authenticated actor into lifecycle operations.
type Identity struct {
	UserID uint64
	Role   string
}

// CreateRequest is the validated-by-Lifecycle input for a new
// reservation.  StartDate and EndDate are RFC3339 strings as sent by
// the client.
type CreateRequest struct {
	SpaceID           uint64
	StartDate         string
	EndDate           string
	EstimatedCapacity uint32
}

// CreateResult is everything Create produces: the persisted
// reservation and its pending payment, the space it targets, the cost
// breakdown and the delivery flags of the two best-effort
// notifications.
type CreateResult struct {
	Reservation   *model.Reservation
	Payment       *model.Payment
	Space         *model.Space
	Cost          CostBreakdown
	OwnerNotified bool
	UserNotified  bool
}

// DecisionResult is the outcome of an accept or reject.
type DecisionResult struct {
	Reservation  *model.Reservation
	Payment      *model.Payment
	Space        *model.Space
	UserNotified bool
}

// ReservationStore is the persistence surface the lifecycle writes
// through.  CreateWithPayment must re-check the interval for conflicts
// inside its transaction (holding a lock on the space row) and return
// ErrSlotUnavailable when a concurrent booking won the race; the
// detector's pre-check alone is not authoritative.  Decide must update
// the status conditionally on the row still being pending and return a
// *StateError carrying the actual status when it is not; on a reject
// it also flips the reservation's payment to failed in the same
// transaction.
type ReservationStore interface {
	ReservationSource
	CreateWithPayment(ctx context.Context, res *model.Reservation, pay *model.Payment, buffer time.Duration) error
	GetReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	Decide(ctx context.Context, id uint64, status string, reason *string) (*model.Reservation, *model.Payment, error)
	GetPaymentByReservation(ctx context.Context, reservationID uint64) (*model.Payment, error)
}

// Notifier publishes notification events.  Delivery is best effort: a
// publish error never fails the operation that triggered it, it only
// clears the corresponding *Notified flag in the result.
type Notifier interface {
	Publish(ctx context.Context, ev queue.NotificationEvent) error
}

// Lifecycle implements reservation creation and the owner's
// accept/reject decisions on top of the conflict detector.
type Lifecycle struct {
	Spaces   SpaceDirectory
	Store    ReservationStore
	Detector *Detector
	Notifier Notifier

	// Now is the clock used for the start-must-be-future check;
	// defaults to time.Now.
	Now func() time.Time

	// Fallback, when non-nil, resolves offset-less timestamps instead
	// of refusing them with ErrAmbiguousTimezone.
	Fallback *time.Location
}

// NewLifecycle wires a Lifecycle over a store and a detector.
func NewLifecycle(spaces SpaceDirectory, store ReservationStore, detector *Detector, notifier Notifier) *Lifecycle {
	return &Lifecycle{
		Spaces:   spaces,
		Store:    store,
		Detector: detector,
		Notifier: notifier,
		Now:      time.Now,
	}
}

// Create validates the request, checks the slot for conflicts, prices
// the reservation and persists it (status pending) together with its
// pending payment, then notifies the space owner and the requesting
// user.  Validation order: field presence, interval parse, start in
// the future, end after start, space exists and is approved, actor is
// not the owner, capacity within the space's ceiling, slot free.
func (l *Lifecycle) Create(ctx context.Context, actor Identity, req CreateRequest) (*CreateResult, error) {
	if req.SpaceID == 0 {
		return nil, &ValidationError{Field: "space_id", Reason: "must be provided"}
	}
	if req.EstimatedCapacity == 0 {
		return nil, &ValidationError{Field: "estimated_capacity", Reason: "must be a positive integer"}
	}
	iv, err := ParseInterval(req.StartDate, req.EndDate, l.Fallback)
	if err != nil {
		return nil, err
	}
	now := l.now()
	if !iv.Start.After(now) {
		return nil, &ValidationError{Field: "start_date", Reason: "must be in the future"}
	}
	if !iv.End.After(iv.Start) {
		return nil, &ValidationError{Field: "end_date", Reason: "must be after start_date"}
	}

	space, err := l.Spaces.GetSpace(ctx, req.SpaceID)
	if err != nil {
		return nil, err
	}
	if space.OwnerID == actor.UserID {
		return nil, ErrSelfBookingForbidden
	}
	if req.EstimatedCapacity > space.MaxCapacity {
		return nil, ErrCapacityExceeded
	}
	conflicts, err := l.Detector.FindConflictsForSpace(ctx, space, iv)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, ErrSlotUnavailable
	}

	cost := Breakdown(space.PricePerHourCents, iv)
	res := &model.Reservation{
		SpaceID:           space.ID,
		UserID:            actor.UserID,
		StartDate:         iv.StartRaw,
		EndDate:           iv.EndRaw,
		StartTS:           iv.Start.UnixMilli(),
		EndTS:             iv.End.UnixMilli(),
		EstimatedCapacity: req.EstimatedCapacity,
		Status:            model.ReservationStatusPending,
		CreatedAt:         now,
	}
	pay := &model.Payment{
		AmountCents: cost.TotalCents,
		Status:      model.PaymentStatusPending,
		Method:      "card",
		Reference:   uuid.NewString(),
		PaymentDate: now,
	}
	if err := l.Store.CreateWithPayment(ctx, res, pay, l.buffer()); err != nil {
		return nil, err
	}

	result := &CreateResult{Reservation: res, Payment: pay, Space: space, Cost: cost}
	result.OwnerNotified = l.notify(ctx, queue.KindReservationCreated, queue.AudienceOwner, res, pay, space, cost, nil)
	result.UserNotified = l.notify(ctx, queue.KindReservationCreated, queue.AudienceUser, res, pay, space, cost, nil)
	return result, nil
}

// Accept confirms a pending reservation.  Only the owner of the
// reserved space or a superadmin may decide.
func (l *Lifecycle) Accept(ctx context.Context, actor Identity, reservationID uint64) (*DecisionResult, error) {
	return l.decide(ctx, actor, reservationID, model.ReservationStatusConfirmed, nil)
}

// Reject declines a pending reservation, recording an optional reason
// and failing its payment.
func (l *Lifecycle) Reject(ctx context.Context, actor Identity, reservationID uint64, reason string) (*DecisionResult, error) {
	var r *string
	if s := strings.TrimSpace(reason); s != "" {
		r = &s
	}
	return l.decide(ctx, actor, reservationID, model.ReservationStatusRejected, r)
}

func (l *Lifecycle) decide(ctx context.Context, actor Identity, reservationID uint64, status string, reason *string) (*DecisionResult, error) {
	if reservationID == 0 {
		return nil, &ValidationError{Field: "reservation_id", Reason: "must be provided"}
	}
	res, err := l.Store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	space, err := l.Spaces.GetSpace(ctx, res.SpaceID)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleSuperadmin && space.OwnerID != actor.UserID {
		return nil, ErrForbidden
	}
	if res.Status != model.ReservationStatusPending {
		return nil, &StateError{Current: res.Status}
	}

	// Decide re-checks the pending status under the write so a
	// concurrent decision loses cleanly instead of overwriting.
	updated, pay, err := l.Store.Decide(ctx, reservationID, status, reason)
	if err != nil {
		return nil, err
	}
	if pay == nil {
		pay, err = l.Store.GetPaymentByReservation(ctx, reservationID)
		if err != nil {
			return nil, err
		}
	}

	kind := queue.KindReservationAccepted
	if status == model.ReservationStatusRejected {
		kind = queue.KindReservationRejected
	}
	cost := CostBreakdown{}
	if pay != nil {
		cost = CostBreakdown{
			DurationHours:     roundTo2(float64(updated.EndTS-updated.StartTS) / float64(millisPerHour)),
			PricePerHourCents: space.PricePerHourCents,
			TotalCents:        pay.AmountCents,
			Formatted:         FormatCents(pay.AmountCents),
		}
	}
	result := &DecisionResult{Reservation: updated, Payment: pay, Space: space}
	result.UserNotified = l.notify(ctx, kind, queue.AudienceUser, updated, pay, space, cost, reason)
	return result, nil
}

func (l *Lifecycle) notify(ctx context.Context, kind, audience string, res *model.Reservation, pay *model.Payment, space *model.Space, cost CostBreakdown, reason *string) bool {
	if l.Notifier == nil {
		return false
	}
	ev := queue.NotificationEvent{
		ID:                uuid.NewString(),
		Kind:              kind,
		Audience:          audience,
		ReservationID:     res.ID,
		SpaceID:           space.ID,
		SpaceName:         space.Name,
		OwnerID:           space.OwnerID,
		UserID:            res.UserID,
		StartDate:         res.StartDate,
		EndDate:           res.EndDate,
		EstimatedCapacity: res.EstimatedCapacity,
		DurationHours:     cost.DurationHours,
		AmountCents:       cost.TotalCents,
		AmountFormatted:   cost.Formatted,
		OccurredAt:        l.now().UTC().Format(time.RFC3339),
	}
	if reason != nil {
		ev.Reason = *reason
	}
	return l.Notifier.Publish(ctx, ev) == nil
}

func (l *Lifecycle) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Lifecycle) buffer() time.Duration {
	if l.Detector != nil && l.Detector.Buffer > 0 {
		return l.Detector.Buffer
	}
	return DefaultCleanupBuffer
}
