package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skelly37/Rentigo/internal/booking"
	"github.com/skelly37/Rentigo/internal/permission"
	"github.com/skelly37/Rentigo/internal/repository"
)

// HostHandler serves the host side of the reservation lifecycle:
// confirmation, reservation listings across owned places and the monthly
// activity stats.
type HostHandler struct {
	Booking      *booking.Service
	Reservations *repository.ReservationRepo
	Places       *repository.PlaceRepo
}

func NewHostHandler(bookingSvc *booking.Service, reservations *repository.ReservationRepo, places *repository.PlaceRepo) *HostHandler {
	if bookingSvc == nil || reservations == nil || places == nil {
		panic("nil dependency passed to NewHostHandler")
	}
	return &HostHandler{Booking: bookingSvc, Reservations: reservations, Places: places}
}

// Confirm handles POST /v1/host/reservations/:id/confirm. Only the place
// owner may confirm, and only from PENDING.
func (h *HostHandler) Confirm(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Booking.ConfirmReservation(c.Request().Context(), act, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// ListReservations handles GET /v1/host/reservations: every reservation
// across the host's places, newest first.
func (h *HostHandler) ListReservations(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Reservations.ListByHost(c.Request().Context(), act.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": toReservationList(list)})
}

// ListPlaceReservations handles GET /v1/host/places/:id/reservations.
// The place must belong to the caller (admins see any place).
func (h *HostHandler) ListPlaceReservations(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid place id"})
	}
	ctx := c.Request().Context()
	place, err := h.Places.GetByID(ctx, id)
	if err != nil {
		return domainError(c, err)
	}
	if err := permission.CanManagePlace(act, place); err != nil {
		return domainError(c, err)
	}
	list, err := h.Reservations.ListByPlace(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": toReservationList(list)})
}

// startOfMonth returns midnight UTC on the first day of t's month.
func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Stats handles GET /v1/host/stats. The window defaults to the start of
// the current month; ?since=YYYY-MM-DD moves the start. Revenue counts
// CONFIRMED and COMPLETED reservations only.
func (h *HostHandler) Stats(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	since := startOfMonth(time.Now())
	if raw := c.QueryParam("since"); raw != "" {
		since, err = parseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "since must be YYYY-MM-DD"})
		}
	}
	count, revenue, err := h.Reservations.HostStats(c.Request().Context(), act.ID, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"since":             since.Format(dateLayout),
		"reservation_count": count,
		"revenue_cents":     revenue,
	})
}
