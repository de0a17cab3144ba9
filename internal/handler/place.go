package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skelly37/Rentigo/internal/booking"
	"github.com/skelly37/Rentigo/internal/model"
	"github.com/skelly37/Rentigo/internal/permission"
	"github.com/skelly37/Rentigo/internal/repository"
)

// PlaceHandler serves host place management plus the public place detail
// and availability probe. Booking is needed only for the availability
// check; everything else goes straight to the repository.
type PlaceHandler struct {
	Places  *repository.PlaceRepo
	Booking *booking.Service
}

func NewPlaceHandler(places *repository.PlaceRepo, bookingSvc *booking.Service) *PlaceHandler {
	if places == nil || bookingSvc == nil {
		panic("nil dependency passed to NewPlaceHandler")
	}
	return &PlaceHandler{Places: places, Booking: bookingSvc}
}

type createPlaceReq struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	PricePerNightCents int64  `json:"price_per_night_cents"`
	CleaningFeeCents   int64  `json:"cleaning_fee_cents"`
	MaxGuests          int    `json:"max_guests"`
	MinStay            *int   `json:"min_stay"`
	MaxStay            *int   `json:"max_stay"`
}

type placeResp struct {
	ID                 uint64  `json:"id"`
	OwnerID            uint64  `json:"owner_id"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	PricePerNightCents int64   `json:"price_per_night_cents"`
	CleaningFeeCents   int64   `json:"cleaning_fee_cents"`
	MaxGuests          int     `json:"max_guests"`
	MinStay            *int    `json:"min_stay,omitempty"`
	MaxStay            *int    `json:"max_stay,omitempty"`
	Rating             float64 `json:"rating"`
	ReviewCount        int     `json:"review_count"`
	Status             string  `json:"status"`
}

func toPlaceResp(p model.Place) placeResp {
	return placeResp{
		ID:                 p.ID,
		OwnerID:            p.OwnerID,
		Name:               p.Name,
		Description:        p.Description,
		PricePerNightCents: p.PricePerNightCents,
		CleaningFeeCents:   p.CleaningFeeCents,
		MaxGuests:          p.MaxGuests,
		MinStay:            p.MinStay,
		MaxStay:            p.MaxStay,
		Rating:             p.Rating,
		ReviewCount:        p.ReviewCount,
		Status:             p.Status,
	}
}

// Create handles POST /v1/host/places. New places start in DRAFT and must
// be activated explicitly before they accept reservations.
func (h *PlaceHandler) Create(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPlaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.PricePerNightCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_night_cents must be positive"})
	}
	if req.CleaningFeeCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cleaning_fee_cents cannot be negative"})
	}
	if req.MaxGuests <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_guests must be positive"})
	}
	if req.MinStay != nil && *req.MinStay < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "min_stay must be at least 1"})
	}
	if req.MinStay != nil && req.MaxStay != nil && *req.MaxStay > 0 && *req.MaxStay < *req.MinStay {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_stay cannot be below min_stay"})
	}

	p := model.Place{
		OwnerID:            act.ID,
		Name:               req.Name,
		Description:        req.Description,
		PricePerNightCents: req.PricePerNightCents,
		CleaningFeeCents:   req.CleaningFeeCents,
		MaxGuests:          req.MaxGuests,
		MinStay:            req.MinStay,
		MaxStay:            req.MaxStay,
		Status:             model.PlaceStatusDraft,
	}
	if err := h.Places.Create(c.Request().Context(), &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create place failed"})
	}
	return c.JSON(http.StatusCreated, toPlaceResp(p))
}

type placeStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/host/places/:id/status. Only the owner
// or an admin may change a place's status.
func (h *PlaceHandler) UpdateStatus(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid place id"})
	}
	var req placeStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	switch status {
	case model.PlaceStatusDraft, model.PlaceStatusActive, model.PlaceStatusInactive:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx := c.Request().Context()
	place, err := h.Places.GetByID(ctx, id)
	if err != nil {
		return domainError(c, err)
	}
	if err := permission.CanManagePlace(act, place); err != nil {
		return domainError(c, err)
	}
	if err := h.Places.UpdateStatus(ctx, id, status); err != nil {
		return domainError(c, err)
	}
	place.Status = status
	return c.JSON(http.StatusOK, toPlaceResp(place))
}

// ListMine handles GET /v1/host/places.
func (h *PlaceHandler) ListMine(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	places, err := h.Places.ListByOwner(c.Request().Context(), act.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]placeResp, 0, len(places))
	for _, p := range places {
		out = append(out, toPlaceResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"places": out})
}

// Get handles GET /v1/places/:id. The public detail shows ACTIVE places
// only; drafts and deactivated places read as missing.
func (h *PlaceHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid place id"})
	}
	place, err := h.Places.GetByID(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	if place.Status != model.PlaceStatusActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusOK, toPlaceResp(place))
}

// Availability handles GET /v1/places/:id/availability. It answers
// whether the half-open range [check_in, check_out) is free of PENDING
// and CONFIRMED reservations. The answer is advisory: creation re-checks
// inside its transaction.
func (h *PlaceHandler) Availability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid place id"})
	}
	checkIn, err := parseDate(c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
	}
	checkOut, err := parseDate(c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	if _, err := h.Places.GetByID(ctx, id); err != nil {
		return domainError(c, err)
	}
	conflict, err := h.Booking.HasConflict(ctx, id, checkIn, checkOut)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"place_id":  id,
		"check_in":  checkIn.Format(dateLayout),
		"check_out": checkOut.Format(dateLayout),
		"available": !conflict,
	})
}
