// Package permission centralizes capability checks. Every check is a pure
// function taking the acting user and the resource and returning nil or
// ErrForbidden; handlers and services never inspect roles directly.
package permission

import (
	"errors"

	"github.com/skelly37/Rentigo/internal/model"
)

// ErrForbidden is returned when the actor lacks the capability for an
// operation. Handlers translate it into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// Actor identifies the authenticated user performing an operation. It is
// built by handlers from the JWT claims injected by the auth middleware.
type Actor struct {
	ID   uint64
	Role string
}

// IsAdmin reports whether the actor holds the elevated capability.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// CanManagePlace allows the place owner and admins.
func CanManagePlace(actor Actor, place model.Place) error {
	if actor.ID == place.OwnerID || actor.IsAdmin() {
		return nil
	}
	return ErrForbidden
}

// CanConfirmReservation allows only the owner of the reserved place.
func CanConfirmReservation(actor Actor, place model.Place) error {
	if actor.ID == place.OwnerID {
		return nil
	}
	return ErrForbidden
}

// CanCancelReservation allows the guest who booked and the place owner.
func CanCancelReservation(actor Actor, res model.Reservation, place model.Place) error {
	if actor.ID == res.UserID || actor.ID == place.OwnerID {
		return nil
	}
	return ErrForbidden
}

// CanViewReservation allows the guest, the place owner and admins.
func CanViewReservation(actor Actor, res model.Reservation, place model.Place) error {
	if actor.ID == res.UserID || actor.ID == place.OwnerID || actor.IsAdmin() {
		return nil
	}
	return ErrForbidden
}

// CanDeleteReservation allows admins only. Deleting a reservation is an
// out-of-band correction path, not part of the normal lifecycle.
func CanDeleteReservation(actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	return ErrForbidden
}

// CanDeleteReview allows the review author and admins.
func CanDeleteReview(actor Actor, review model.Review) error {
	if actor.ID == review.UserID || actor.IsAdmin() {
		return nil
	}
	return ErrForbidden
}
