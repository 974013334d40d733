package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/evently/venue-booking/internal/booking"
	"github.com/evently/venue-booking/internal/model"
)

// SpaceRepo provides CRUD operations for the spaces table.  Reads used
// by the booking core go through GetSpace, which satisfies
// booking.SpaceDirectory.
type SpaceRepo struct {
	db *sql.DB
}

// NewSpaceRepo returns a SpaceRepo bound to the given database.
func NewSpaceRepo(db *sql.DB) *SpaceRepo { return &SpaceRepo{db: db} }

const spaceColumns = `id, owner_id, name, description, location, status, price_per_hour_cents, max_capacity, created_at, updated_at`

func scanSpace(row interface{ Scan(...any) error }) (*model.Space, error) {
	var s model.Space
	var desc sql.NullString
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &desc, &s.Location, &s.Status,
		&s.PricePerHourCents, &s.MaxCapacity, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		s.Description = &d
	}
	return &s, nil
}

// GetSpace fetches one space by ID.  Missing rows surface as
// booking.ErrSpaceNotFound so the core never sees sql.ErrNoRows.
func (r *SpaceRepo) GetSpace(ctx context.Context, id uint64) (*model.Space, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+spaceColumns+` FROM spaces WHERE id = ? LIMIT 1`, id)
	s, err := scanSpace(row)
	if err == sql.ErrNoRows {
		return nil, booking.ErrSpaceNotFound
	}
	return s, err
}

// Create inserts a new space owned by ownerID.  New spaces always
// start pending; approval happens out of band.  It populates the
// generated ID and timestamps on the provided record.
func (r *SpaceRepo) Create(ctx context.Context, s *model.Space) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO spaces (owner_id, name, description, location, status, price_per_hour_cents, max_capacity)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.OwnerID, s.Name, s.Description, s.Location, model.SpaceStatusPending, s.PricePerHourCents, s.MaxCapacity)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.Status = model.SpaceStatusPending
	row := r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM spaces WHERE id = ?`, s.ID)
	return row.Scan(&s.CreatedAt, &s.UpdatedAt)
}

// Update rewrites the mutable columns of a space.  Only the owner may
// update; a mismatch returns ErrForbidden.  Edits reset the status to
// pending so changed listings go through review again.
func (r *SpaceRepo) Update(ctx context.Context, ownerID uint64, s *model.Space) error {
	existing, err := r.GetSpace(ctx, s.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE spaces SET name = ?, description = ?, location = ?, price_per_hour_cents = ?, max_capacity = ?, status = ?
		 WHERE id = ? AND owner_id = ?`,
		s.Name, s.Description, s.Location, s.PricePerHourCents, s.MaxCapacity, model.SpaceStatusPending,
		s.ID, ownerID)
	return err
}

// Delete removes a space.  Only the owner may delete, and spaces with
// pending or confirmed reservations in the future cannot be removed.
func (r *SpaceRepo) Delete(ctx context.Context, ownerID, spaceID uint64, nowMs int64) error {
	existing, err := r.GetSpace(ctx, spaceID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return ErrForbidden
	}
	var n int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE space_id = ? AND status IN ('pending','confirmed') AND end_ts > ?`,
		spaceID, nowMs).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM spaces WHERE id = ? AND owner_id = ?`, spaceID, ownerID)
	return err
}

// ListByOwner returns every space of an owner regardless of status.
func (r *SpaceRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Space, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+spaceColumns+` FROM spaces WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Space
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
