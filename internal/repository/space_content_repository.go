package repository

import (
	"context"
	"database/sql"

	"github.com/evently/venue-booking/internal/model"
)

// SpaceContentRepo reads and writes the satellite tables of a space:
// amenities, photo metadata and reviews.  Grouped in one repo because
// they are always fetched together for the catalog detail view.
type SpaceContentRepo struct {
	db *sql.DB
}

func NewSpaceContentRepo(db *sql.DB) *SpaceContentRepo { return &SpaceContentRepo{db: db} }

// ReplaceAmenities swaps the full amenity list of a space.  Owners
// submit the complete list on every edit, so delete-then-insert keeps
// the table consistent without diffing.
func (r *SpaceContentRepo) ReplaceAmenities(ctx context.Context, spaceID uint64, amenities []model.Amenity) error {
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
	if _, err := tx.ExecContext(ctx, `DELETE FROM space_amenities WHERE space_id = ?`, spaceID); err != nil {
		return err
	}
	if len(amenities) > 0 {
		query := `INSERT INTO space_amenities (space_id, name, category) VALUES `
		args := make([]any, 0, len(amenities)*3)
		for i, a := range amenities {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?)"
			category := a.Category
			if category == "" {
				category = "general"
			}
			args = append(args, spaceID, a.Name, category)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListAmenities returns the amenities of a space in insertion order.
func (r *SpaceContentRepo) ListAmenities(ctx context.Context, spaceID uint64) ([]model.Amenity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, space_id, name, category FROM space_amenities WHERE space_id = ? ORDER BY id ASC`, spaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Amenity
	for rows.Next() {
		var a model.Amenity
		if err := rows.Scan(&a.ID, &a.SpaceID, &a.Name, &a.Category); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ReplacePhotos swaps the photo metadata of a space, preserving the
// submitted order as the gallery position.
func (r *SpaceContentRepo) ReplacePhotos(ctx context.Context, spaceID uint64, urls []string) error {
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
	if _, err := tx.ExecContext(ctx, `DELETE FROM space_photos WHERE space_id = ?`, spaceID); err != nil {
		return err
	}
	if len(urls) > 0 {
		query := `INSERT INTO space_photos (space_id, url, position) VALUES `
		args := make([]any, 0, len(urls)*3)
		for i, u := range urls {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?)"
			args = append(args, spaceID, u, i)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListPhotos returns the photo URLs of a space in gallery order.
func (r *SpaceContentRepo) ListPhotos(ctx context.Context, spaceID uint64) ([]model.Photo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, space_id, url, position FROM space_photos WHERE space_id = ? ORDER BY position ASC`, spaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Photo
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.ID, &p.SpaceID, &p.URL, &p.Position); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddReview records a rating for a space.  A user may review a space
// at most once; a repeat hits the unique key and returns ErrConflict.
func (r *SpaceContentRepo) AddReview(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO space_reviews (space_id, user_id, rating, comment) VALUES (?, ?, ?, ?)`,
		rv.SpaceID, rv.UserID, rv.Rating, rv.Comment)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// ListReviews returns the reviews of a space, newest first.
func (r *SpaceContentRepo) ListReviews(ctx context.Context, spaceID uint64) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, space_id, user_id, rating, comment, created_at
		 FROM space_reviews WHERE space_id = ? ORDER BY created_at DESC`, spaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Review
	for rows.Next() {
		var rv model.Review
		var comment sql.NullString
		if err := rows.Scan(&rv.ID, &rv.SpaceID, &rv.UserID, &rv.Rating, &comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		if comment.Valid {
			c := comment.String
			rv.Comment = &c
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// RatingSummary returns the average rating and count for a space.
func (r *SpaceContentRepo) RatingSummary(ctx context.Context, spaceID uint64) (float64, int64, error) {
	var avg sql.NullFloat64
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(rating), COUNT(*) FROM space_reviews WHERE space_id = ?`, spaceID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, count, nil
}
