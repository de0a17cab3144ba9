package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skelly37/Rentigo/internal/booking"
	"github.com/skelly37/Rentigo/internal/model"
	"github.com/skelly37/Rentigo/internal/permission"
	"github.com/skelly37/Rentigo/internal/rating"
)

// dateLayout is the wire format for check-in/check-out dates.
const dateLayout = "2006-01-02"

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// actor builds the permission actor from the claims JWTAuth stored in the
// context.
func actor(c echo.Context) (permission.Actor, error) {
	uid, err := getUserID(c)
	if err != nil {
		return permission.Actor{}, err
	}
	role, _ := c.Get("role").(string)
	return permission.Actor{ID: uid, Role: role}, nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// parseDate parses a YYYY-MM-DD value into a UTC date.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// domainError maps service sentinels onto HTTP responses so every
// handler reports the same status for the same failure.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, permission.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrPlaceUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "place is not accepting reservations"})
	case errors.Is(err, booking.ErrDatesUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "dates are not available"})
	case errors.Is(err, booking.ErrGuestCountExceeded):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest count exceeds place capacity"})
	case errors.Is(err, booking.ErrInvalidDateRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	case errors.Is(err, booking.ErrMinStayViolation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stay is shorter than the minimum"})
	case errors.Is(err, booking.ErrMaxStayViolation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stay is longer than the maximum"})
	case errors.Is(err, booking.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
	case errors.Is(err, rating.ErrNotEligible):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no finished reservation for this place"})
	case errors.Is(err, rating.ErrDuplicateReview):
		return c.JSON(http.StatusConflict, echo.Map{"error": "review already exists"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
