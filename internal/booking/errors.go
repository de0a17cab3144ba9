// Package booking implements the reservation lifecycle: availability
// checking, validation, pricing and the status state machine. All domain
// failures are sentinel errors so that handlers can map them to HTTP
// statuses with errors.Is; anything else bubbling out of the package is
// an infrastructure error.
package booking

import "errors"

var (
	// ErrPlaceUnavailable is returned when the place is not ACTIVE.
	ErrPlaceUnavailable = errors.New("place not available for booking")

	// ErrGuestCountExceeded is returned when the requested guest count
	// exceeds the place's maximum.
	ErrGuestCountExceeded = errors.New("guest count exceeds place maximum")

	// ErrInvalidDateRange is returned when check-out is not strictly
	// after check-in.
	ErrInvalidDateRange = errors.New("check-out must be after check-in")

	// ErrMinStayViolation is returned when the stay is shorter than the
	// place's minimum number of nights.
	ErrMinStayViolation = errors.New("stay shorter than minimum")

	// ErrMaxStayViolation is returned when the stay is longer than the
	// place's maximum number of nights.
	ErrMaxStayViolation = errors.New("stay longer than maximum")

	// ErrDatesUnavailable is returned when the requested range overlaps
	// an existing PENDING or CONFIRMED reservation.
	ErrDatesUnavailable = errors.New("dates already reserved")

	// ErrInvalidTransition is returned when the reservation's current
	// status does not permit the requested transition.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNumberTaken is returned by stores when the generated
	// reservation number collides with an existing one; the service
	// retries with a fresh number.
	ErrNumberTaken = errors.New("reservation number already taken")
)
