package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/model"
	"github.com/evently/venue-booking/internal/repository"
)

// Response shapes shared by the reservation endpoints.  Dates go out
// exactly as stored; no timezone coercion happens at the edge.

func reservationPart(r *model.Reservation) echo.Map {
	m := echo.Map{
		"id":                 r.ID,
		"space_id":           r.SpaceID,
		"user_id":            r.UserID,
		"start_date":         r.StartDate,
		"end_date":           r.EndDate,
		"estimated_capacity": r.EstimatedCapacity,
		"status":             r.Status,
		"created_at":         r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.RejectionReason != nil {
		m["rejection_reason"] = *r.RejectionReason
	}
	return m
}

func paymentPart(p *model.Payment) echo.Map {
	if p == nil {
		return nil
	}
	return echo.Map{
		"id":           p.ID,
		"amount_cents": p.AmountCents,
		"status":       p.Status,
		"method":       p.Method,
		"reference":    p.Reference,
	}
}

func detailParts(items []repository.ReservationDetail) []echo.Map {
	out := make([]echo.Map, 0, len(items))
	for i := range items {
		d := &items[i]
		m := reservationPart(&d.Reservation)
		m["space_name"] = d.SpaceName
		m["payment"] = paymentPart(d.Payment)
		out = append(out, m)
	}
	return out
}
