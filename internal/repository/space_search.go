package repository

import (
	"context"
	"strings"
)

// SpaceSearchQuery defines filters & pagination for the public catalog.
type SpaceSearchQuery struct {
	Name        string
	Location    string
	MinCapacity uint32
	MaxPrice    int64
	Page        int
	PageSize    int
}

// PublicSpaceRow is one approved space as listed in the catalog,
// joined with its review summary.
type PublicSpaceRow struct {
	ID                uint64  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Location          string  `json:"location"`
	PricePerHourCents int64   `json:"price_per_hour_cents"`
	MaxCapacity       uint32  `json:"max_capacity"`
	AverageRating     float64 `json:"average_rating"`
	ReviewCount       int64   `json:"review_count"`
	PhotoURL          string  `json:"photo_url"`
}

// SearchApproved lists approved spaces matching the filters, newest
// first, plus the total match count for pagination.
func (r *SpaceRepo) SearchApproved(ctx context.Context, q SpaceSearchQuery) ([]PublicSpaceRow, int64, error) {
	where := []string{"s.status = 'approved'"}
	args := []any{}

	if q.Name != "" {
		where = append(where, "LOWER(s.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Location != "" {
		where = append(where, "LOWER(s.location) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Location)+"%")
	}
	if q.MinCapacity > 0 {
		where = append(where, "s.max_capacity >= ?")
		args = append(args, q.MinCapacity)
	}
	if q.MaxPrice > 0 {
		where = append(where, "s.price_per_hour_cents <= ?")
		args = append(args, q.MaxPrice)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*) FROM spaces s WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	if limit <= 0 {
		limit = 20
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	dataSQL := `SELECT
			s.id,
			s.name,
			COALESCE(s.description, ''),
			s.location,
			s.price_per_hour_cents,
			s.max_capacity,
			COALESCE(AVG(rv.rating), 0)  AS average_rating,
			COUNT(rv.id)                 AS review_count,
			COALESCE(MIN(p.url), '')     AS photo_url
		FROM spaces s
		LEFT JOIN space_reviews rv ON rv.space_id = s.id
		LEFT JOIN space_photos p   ON p.space_id = s.id AND p.position = 0
		WHERE ` + cond + `
		GROUP BY s.id
		ORDER BY s.created_at DESC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)
	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicSpaceRow, 0, limit)
	for rows.Next() {
		var d PublicSpaceRow
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Description,
			&d.Location,
			&d.PricePerHourCents,
			&d.MaxCapacity,
			&d.AverageRating,
			&d.ReviewCount,
			&d.PhotoURL,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
