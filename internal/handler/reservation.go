package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skelly37/Rentigo/internal/booking"
	"github.com/skelly37/Rentigo/internal/model"
	"github.com/skelly37/Rentigo/internal/repository"
)

// ReservationHandler serves the guest-facing reservation endpoints. The
// lifecycle goes through the booking service; listings read the
// repository directly because they need no permission checks beyond the
// authenticated user.
type ReservationHandler struct {
	Booking      *booking.Service
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(bookingSvc *booking.Service, reservations *repository.ReservationRepo) *ReservationHandler {
	if bookingSvc == nil || reservations == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Booking: bookingSvc, Reservations: reservations}
}

type createReservationReq struct {
	PlaceID  uint64 `json:"place_id"`
	CheckIn  string `json:"check_in"`  // YYYY-MM-DD
	CheckOut string `json:"check_out"` // YYYY-MM-DD
	Guests   int    `json:"guests"`
}

type reservationResp struct {
	ID               uint64 `json:"id"`
	Number           string `json:"reservation_number"`
	PlaceID          uint64 `json:"place_id"`
	UserID           uint64 `json:"user_id"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	Nights           int    `json:"nights"`
	Guests           int    `json:"guests"`
	NightsPriceCents int64  `json:"nights_price_cents"`
	CleaningFeeCents int64  `json:"cleaning_fee_cents"`
	ServiceFeeCents  int64  `json:"service_fee_cents"`
	TotalPriceCents  int64  `json:"total_price_cents"`
	Status           string `json:"status"`
}

func toReservationResp(r model.Reservation) reservationResp {
	return reservationResp{
		ID:               r.ID,
		Number:           r.Number,
		PlaceID:          r.PlaceID,
		UserID:           r.UserID,
		CheckIn:          r.CheckIn.Format(dateLayout),
		CheckOut:         r.CheckOut.Format(dateLayout),
		Nights:           r.Nights(),
		Guests:           r.Guests,
		NightsPriceCents: r.NightsPriceCents,
		CleaningFeeCents: r.CleaningFeeCents,
		ServiceFeeCents:  r.ServiceFeeCents,
		TotalPriceCents:  r.TotalPriceCents,
		Status:           r.Status,
	}
}

func toReservationList(rs []model.Reservation) []reservationResp {
	out := make([]reservationResp, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReservationResp(r))
	}
	return out
}

// Create handles POST /v1/reservations. The reservation is created in
// PENDING; price components are computed server-side from the place.
func (h *ReservationHandler) Create(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PlaceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "place_id is required"})
	}
	if req.Guests <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests must be positive"})
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
	}

	res, err := h.Booking.CreateReservation(c.Request().Context(), act, booking.CreateInput{
		PlaceID:  req.PlaceID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   req.Guests,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// ListMine handles GET /v1/reservations. The optional ?filter= query
// narrows the listing to upcoming, past or cancelled reservations.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	var list []model.Reservation
	switch strings.ToLower(c.QueryParam("filter")) {
	case "", "all":
		list, err = h.Reservations.ListByUser(ctx, act.ID)
	case "upcoming":
		list, err = h.Reservations.ListUpcomingByUser(ctx, act.ID)
	case "past":
		list, err = h.Reservations.ListPastByUser(ctx, act.ID)
	case "cancelled":
		list, err = h.Reservations.ListCancelledByUser(ctx, act.ID)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "filter must be upcoming, past or cancelled"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": toReservationList(list)})
}

// Get handles GET /v1/reservations/:id. Visible to the guest, the place
// owner and admins.
func (h *ReservationHandler) Get(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Booking.GetReservation(c.Request().Context(), act, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Cancel handles POST /v1/reservations/:id/cancel. Guests and place
// owners may cancel PENDING or CONFIRMED reservations; terminal ones
// report a conflict.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Booking.CancelReservation(c.Request().Context(), act, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Delete handles DELETE /v1/admin/reservations/:id, the administrative
// correction path. It removes the record regardless of status.
func (h *ReservationHandler) Delete(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Booking.DeleteReservation(c.Request().Context(), act, id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
