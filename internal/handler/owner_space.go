package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/model"
	"github.com/evently/venue-booking/internal/repository"
)

// OwnerSpaceHandler lets owners manage their listings.  Every write
// puts the space back into pending review.
type OwnerSpaceHandler struct {
	Spaces  *repository.SpaceRepo
	Content *repository.SpaceContentRepo
}

func NewOwnerSpaceHandler(spaces *repository.SpaceRepo, content *repository.SpaceContentRepo) *OwnerSpaceHandler {
	return &OwnerSpaceHandler{Spaces: spaces, Content: content}
}

type spaceReq struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Location          string   `json:"location"`
	PricePerHourCents int64    `json:"price_per_hour_cents"`
	MaxCapacity       uint32   `json:"max_capacity"`
	Amenities         []string `json:"amenities"`
	PhotoURLs         []string `json:"photo_urls"`
}

func (r *spaceReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name required"
	}
	if strings.TrimSpace(r.Location) == "" {
		return "location required"
	}
	if r.PricePerHourCents <= 0 {
		return "price_per_hour_cents must be positive"
	}
	if r.MaxCapacity == 0 {
		return "max_capacity must be positive"
	}
	return ""
}

// Create handles POST /v1/owner/spaces.
func (h *OwnerSpaceHandler) Create(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req spaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	space := &model.Space{
		OwnerID:           id.UserID,
		Name:              strings.TrimSpace(req.Name),
		Location:          strings.TrimSpace(req.Location),
		PricePerHourCents: req.PricePerHourCents,
		MaxCapacity:       req.MaxCapacity,
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		space.Description = &d
	}
	ctx := c.Request().Context()
	if err := h.Spaces.Create(ctx, space); err != nil {
		return writeDomainError(c, err)
	}
	if err := h.applyContent(c, space.ID, req); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"space": spacePart(space)})
}

// Update handles PUT /v1/owner/spaces/:id.
func (h *OwnerSpaceHandler) Update(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	spaceID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}
	var req spaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	space := &model.Space{
		ID:                spaceID,
		Name:              strings.TrimSpace(req.Name),
		Location:          strings.TrimSpace(req.Location),
		PricePerHourCents: req.PricePerHourCents,
		MaxCapacity:       req.MaxCapacity,
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		space.Description = &d
	}
	ctx := c.Request().Context()
	if err := h.Spaces.Update(ctx, id.UserID, space); err != nil {
		return writeDomainError(c, err)
	}
	if err := h.applyContent(c, spaceID, req); err != nil {
		return err
	}
	updated, err := h.Spaces.GetSpace(ctx, spaceID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"space": spacePart(updated)})
}

// Delete handles DELETE /v1/owner/spaces/:id.  Spaces with upcoming
// active reservations cannot be deleted.
func (h *OwnerSpaceHandler) Delete(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	spaceID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}
	if err := h.Spaces.Delete(c.Request().Context(), id.UserID, spaceID, time.Now().UnixMilli()); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "space has upcoming reservations"})
		}
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "space deleted"})
}

// List handles GET /v1/owner/spaces: every listing of the owner, all
// statuses included.
func (h *OwnerSpaceHandler) List(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	spaces, err := h.Spaces.ListByOwner(c.Request().Context(), id.UserID)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]echo.Map, 0, len(spaces))
	for i := range spaces {
		out = append(out, spacePart(&spaces[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"spaces": out})
}

func (h *OwnerSpaceHandler) applyContent(c echo.Context, spaceID uint64, req spaceReq) error {
	ctx := c.Request().Context()
	if req.Amenities != nil {
		amenities := make([]model.Amenity, 0, len(req.Amenities))
		for _, name := range req.Amenities {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			amenities = append(amenities, model.Amenity{Name: name, Category: amenityCategory(name)})
		}
		if err := h.Content.ReplaceAmenities(ctx, spaceID, amenities); err != nil {
			return writeDomainError(c, err)
		}
	}
	if req.PhotoURLs != nil {
		if err := h.Content.ReplacePhotos(ctx, spaceID, req.PhotoURLs); err != nil {
			return writeDomainError(c, err)
		}
	}
	return nil
}

// amenityCategory buckets free-form amenity names for catalog display.
func amenityCategory(name string) string {
	switch strings.ToLower(name) {
	case "wifi", "ethernet":
		return "connectivity"
	case "projector", "screen", "sound system", "microphone":
		return "equipment"
	case "air conditioning", "heating", "kitchen", "restrooms":
		return "comfort"
	}
	return "general"
}
