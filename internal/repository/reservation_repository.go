package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/evently/venue-booking/internal/booking"
	"github.com/evently/venue-booking/internal/model"
)

// ReservationRepo provides data access to the reservations and
// payments tables.  It implements booking.ReservationStore: the
// write path re-validates the interval inside a transaction that locks
// the space row, so two concurrent requests for the same slot cannot
// both commit even though the MySQL schema has no exclusion
// constraint.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, space_id, user_id, start_date, end_date, start_ts, end_ts, estimated_capacity, status, rejection_reason, created_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var reason sql.NullString
	err := row.Scan(&res.ID, &res.SpaceID, &res.UserID, &res.StartDate, &res.EndDate,
		&res.StartTS, &res.EndTS, &res.EstimatedCapacity, &res.Status, &reason, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		v := reason.String
		res.RejectionReason = &v
	}
	return &res, nil
}

// ListActiveInRange returns the pending and confirmed reservations of
// a space whose [start_ts, end_ts) interval intersects [fromMs, toMs).
// Callers apply the precise buffered overlap check themselves.
func (r *ReservationRepo) ListActiveInRange(ctx context.Context, spaceID uint64, fromMs, toMs int64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE space_id = ? AND status IN ('pending','confirmed') AND start_ts < ? AND end_ts > ?
		 ORDER BY start_ts ASC`,
		spaceID, toMs, fromMs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// CreateWithPayment inserts a reservation and its pending payment in
// one transaction.  It locks the space row first so concurrent creates
// for the same space serialize, then re-runs the conflict check
// against committed rows; a hit returns booking.ErrSlotUnavailable and
// nothing is written.
func (r *ReservationRepo) CreateWithPayment(ctx context.Context, res *model.Reservation, pay *model.Payment, buffer time.Duration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Serialize competing creates on the same space.
	var spaceID uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM spaces WHERE id = ? FOR UPDATE`, res.SpaceID).Scan(&spaceID)
	if err == sql.ErrNoRows {
		return booking.ErrSpaceNotFound
	}
	if err != nil {
		return err
	}

	// Same order-independent buffered-overlap rule as
	// booking.OverlapsMillis: the new interval must clear existing
	// turnarounds and leave room for its own.
	bufMs := buffer.Milliseconds()
	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE space_id = ? AND status IN ('pending','confirmed') AND start_ts < ? AND end_ts + ? > ?`,
		res.SpaceID, res.EndTS+bufMs, bufMs, res.StartTS).Scan(&conflicts)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return booking.ErrSlotUnavailable
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (space_id, user_id, start_date, end_date, start_ts, end_ts, estimated_capacity, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.SpaceID, res.UserID, res.StartDate, res.EndDate, res.StartTS, res.EndTS,
		res.EstimatedCapacity, model.ReservationStatusPending)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.Status = model.ReservationStatusPending

	payResult, err := tx.ExecContext(ctx,
		`INSERT INTO payments (reservation_id, amount_cents, status, method, reference)
		 VALUES (?, ?, ?, ?, ?)`,
		res.ID, pay.AmountCents, model.PaymentStatusPending, pay.Method, pay.Reference)
	if err != nil {
		return err
	}
	payID, err := payResult.LastInsertId()
	if err != nil {
		return err
	}
	pay.ID = uint64(payID)
	pay.ReservationID = res.ID
	pay.Status = model.PaymentStatusPending

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetReservation fetches one reservation by ID.
func (r *ReservationRepo) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ? LIMIT 1`, id)
	res, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, booking.ErrReservationNotFound
	}
	return res, err
}

// Decide moves a pending reservation to its terminal status.  The
// UPDATE is conditional on status still being 'pending'; when zero
// rows change, the current status is read back and returned inside a
// *booking.StateError so a lost race reports the winner's decision.
// A reject also flips the payment to failed in the same transaction.
func (r *ReservationRepo) Decide(ctx context.Context, id uint64, status string, reason *string) (*model.Reservation, *model.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, rejection_reason = ? WHERE id = ? AND status = 'pending'`,
		status, reason, id)
	if err != nil {
		return nil, nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, nil, err
	}
	if affected == 0 {
		var current string
		err = tx.QueryRowContext(ctx, `SELECT status FROM reservations WHERE id = ?`, id).Scan(&current)
		if err == sql.ErrNoRows {
			return nil, nil, booking.ErrReservationNotFound
		}
		if err != nil {
			return nil, nil, err
		}
		return nil, nil, &booking.StateError{Current: current}
	}

	if status == model.ReservationStatusRejected {
		_, err = tx.ExecContext(ctx,
			`UPDATE payments SET status = ? WHERE reservation_id = ?`,
			model.PaymentStatusFailed, id)
		if err != nil {
			return nil, nil, err
		}
	}

	res, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id))
	if err != nil {
		return nil, nil, err
	}
	pay, err := scanPayment(tx.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE reservation_id = ? LIMIT 1`, id))
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, nil, err
		}
		pay = nil
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	committed = true
	return res, pay, nil
}

const paymentColumns = `id, reservation_id, amount_cents, status, method, reference, payment_date`

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.ReservationID, &p.AmountCents, &p.Status, &p.Method, &p.Reference, &p.PaymentDate)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPaymentByReservation fetches the payment attached to a reservation.
func (r *ReservationRepo) GetPaymentByReservation(ctx context.Context, reservationID uint64) (*model.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE reservation_id = ? LIMIT 1`, reservationID)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, booking.ErrReservationNotFound
	}
	return p, err
}

// ReservationDetail joins a reservation with its space name and
// payment for list endpoints.
type ReservationDetail struct {
	Reservation model.Reservation `json:"reservation"`
	SpaceName   string            `json:"space_name"`
	Payment     *model.Payment    `json:"payment,omitempty"`
}

func (r *ReservationRepo) listDetails(ctx context.Context, cond string, args ...any) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.space_id, r.user_id, r.start_date, r.end_date, r.start_ts, r.end_ts,
		        r.estimated_capacity, r.status, r.rejection_reason, r.created_at,
		        s.name,
		        p.id, p.amount_cents, p.status, p.method, p.reference, p.payment_date
		 FROM reservations r
		 JOIN spaces s        ON s.id = r.space_id
		 LEFT JOIN payments p ON p.reservation_id = r.id
		 WHERE `+cond+`
		 ORDER BY r.start_ts DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ReservationDetail
	for rows.Next() {
		var d ReservationDetail
		var reason sql.NullString
		var payID, amount sql.NullInt64
		var payStatus, method, reference sql.NullString
		var payDate sql.NullTime
		err := rows.Scan(
			&d.Reservation.ID, &d.Reservation.SpaceID, &d.Reservation.UserID,
			&d.Reservation.StartDate, &d.Reservation.EndDate,
			&d.Reservation.StartTS, &d.Reservation.EndTS,
			&d.Reservation.EstimatedCapacity, &d.Reservation.Status, &reason, &d.Reservation.CreatedAt,
			&d.SpaceName,
			&payID, &amount, &payStatus, &method, &reference, &payDate)
		if err != nil {
			return nil, err
		}
		if reason.Valid {
			v := reason.String
			d.Reservation.RejectionReason = &v
		}
		if payID.Valid {
			d.Payment = &model.Payment{
				ID:            uint64(payID.Int64),
				ReservationID: d.Reservation.ID,
				AmountCents:   amount.Int64,
				Status:        payStatus.String,
				Method:        method.String,
				Reference:     reference.String,
				PaymentDate:   payDate.Time,
			}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByUser returns a user's reservations, newest interval first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	return r.listDetails(ctx, `r.user_id = ?`, userID)
}

// ListForOwner returns every reservation targeting any space owned by
// ownerID, optionally narrowed to one status.
func (r *ReservationRepo) ListForOwner(ctx context.Context, ownerID uint64, status string) ([]ReservationDetail, error) {
	if status != "" {
		return r.listDetails(ctx, `s.owner_id = ? AND r.status = ?`, ownerID, status)
	}
	return r.listDetails(ctx, `s.owner_id = ?`, ownerID)
}

// RejectAllPendingForUserTx rejects every pending reservation a user
// has and fails the attached payments.  Used by the account delete
// cascade; runs in the caller's transaction.
func (r *ReservationRepo) RejectAllPendingForUserTx(ctx context.Context, tx *sql.Tx, userID uint64, reason string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE payments p JOIN reservations r ON r.id = p.reservation_id
		 SET p.status = ? WHERE r.user_id = ? AND r.status = 'pending'`,
		model.PaymentStatusFailed, userID)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, rejection_reason = ? WHERE user_id = ? AND status = 'pending'`,
		model.ReservationStatusRejected, reason, userID)
	return err
}
