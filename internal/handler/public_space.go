package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/booking"
	"github.com/evently/venue-booking/internal/model"
	"github.com/evently/venue-booking/internal/repository"
)

// PublicSpaceHandler serves the unauthenticated catalog: searchable
// listing plus a detail view joining amenities, photos and reviews.
type PublicSpaceHandler struct {
	Spaces  *repository.SpaceRepo
	Content *repository.SpaceContentRepo
}

func NewPublicSpaceHandler(spaces *repository.SpaceRepo, content *repository.SpaceContentRepo) *PublicSpaceHandler {
	return &PublicSpaceHandler{Spaces: spaces, Content: content}
}

// Search handles GET /v1/spaces with optional name, location,
// min_capacity, max_price_cents, page and page_size query params.
func (h *PublicSpaceHandler) Search(c echo.Context) error {
	q := repository.SpaceSearchQuery{
		Name:     c.QueryParam("name"),
		Location: c.QueryParam("location"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if v := queryInt(c, "min_capacity", 0); v > 0 {
		q.MinCapacity = uint32(v)
	}
	if v := queryInt(c, "max_price_cents", 0); v > 0 {
		q.MaxPrice = int64(v)
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}

	items, total, err := h.Spaces.SearchApproved(c.Request().Context(), q)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"spaces":    items,
		"total":     total,
		"page":      q.Page,
		"page_size": q.PageSize,
	})
}

// Detail handles GET /v1/spaces/:id.  Only approved spaces are
// exposed publicly; pending and rejected listings 404 here even though
// their owner can still see them.
func (h *PublicSpaceHandler) Detail(c echo.Context) error {
	spaceID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}
	ctx := c.Request().Context()

	space, err := h.Spaces.GetSpace(ctx, spaceID)
	if err != nil {
		return writeDomainError(c, err)
	}
	if space.Status != model.SpaceStatusApproved {
		return c.JSON(http.StatusNotFound, echo.Map{"error": booking.ErrSpaceNotFound.Error()})
	}

	amenities, err := h.Content.ListAmenities(ctx, spaceID)
	if err != nil {
		return writeDomainError(c, err)
	}
	photos, err := h.Content.ListPhotos(ctx, spaceID)
	if err != nil {
		return writeDomainError(c, err)
	}
	reviews, err := h.Content.ListReviews(ctx, spaceID)
	if err != nil {
		return writeDomainError(c, err)
	}
	avg, count, err := h.Content.RatingSummary(ctx, spaceID)
	if err != nil {
		return writeDomainError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"space":     spacePart(space),
		"amenities": amenities,
		"photos":    photos,
		"reviews":   reviews,
		"rating":    echo.Map{"average": avg, "count": count},
	})
}

// AddReview handles POST /v1/spaces/:id/reviews (authenticated).
func (h *PublicSpaceHandler) AddReview(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	spaceID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}
	var req struct {
		Rating  uint8  `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}
	ctx := c.Request().Context()

	space, err := h.Spaces.GetSpace(ctx, spaceID)
	if err != nil {
		return writeDomainError(c, err)
	}
	if space.Status != model.SpaceStatusApproved {
		return c.JSON(http.StatusNotFound, echo.Map{"error": booking.ErrSpaceNotFound.Error()})
	}

	rv := &model.Review{SpaceID: spaceID, UserID: id.UserID, Rating: req.Rating}
	if req.Comment != "" {
		rv.Comment = &req.Comment
	}
	if err := h.Content.AddReview(ctx, rv); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "space already reviewed"})
		}
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"review": rv})
}

func spacePart(s *model.Space) echo.Map {
	m := echo.Map{
		"id":                   s.ID,
		"name":                 s.Name,
		"location":             s.Location,
		"status":               s.Status,
		"price_per_hour_cents": s.PricePerHourCents,
		"max_capacity":         s.MaxCapacity,
	}
	if s.Description != nil {
		m["description"] = *s.Description
	}
	return m
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
