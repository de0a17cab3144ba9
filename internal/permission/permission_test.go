package permission

import (
	"testing"

	"github.com/skelly37/Rentigo/internal/model"
)

var (
	host  = Actor{ID: 10, Role: model.RoleHost}
	guest = Actor{ID: 20, Role: model.RoleUser}
	other = Actor{ID: 30, Role: model.RoleUser}
	admin = Actor{ID: 99, Role: model.RoleAdmin}

	place       = model.Place{ID: 1, OwnerID: 10}
	reservation = model.Reservation{ID: 5, PlaceID: 1, UserID: 20}
	review      = model.Review{ID: 7, PlaceID: 1, UserID: 20}
)

func TestCanManagePlace(t *testing.T) {
	if err := CanManagePlace(host, place); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if err := CanManagePlace(admin, place); err != nil {
		t.Fatalf("admin: %v", err)
	}
	if err := CanManagePlace(guest, place); err != ErrForbidden {
		t.Fatalf("guest: err = %v, want ErrForbidden", err)
	}
}

func TestCanConfirmReservation(t *testing.T) {
	if err := CanConfirmReservation(host, place); err != nil {
		t.Fatalf("owner: %v", err)
	}
	// Confirmation is a host decision; not even admins confirm on their behalf.
	if err := CanConfirmReservation(admin, place); err != ErrForbidden {
		t.Fatalf("admin: err = %v, want ErrForbidden", err)
	}
	if err := CanConfirmReservation(guest, place); err != ErrForbidden {
		t.Fatalf("guest: err = %v, want ErrForbidden", err)
	}
}

func TestCanCancelReservation(t *testing.T) {
	if err := CanCancelReservation(guest, reservation, place); err != nil {
		t.Fatalf("guest: %v", err)
	}
	if err := CanCancelReservation(host, reservation, place); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if err := CanCancelReservation(other, reservation, place); err != ErrForbidden {
		t.Fatalf("stranger: err = %v, want ErrForbidden", err)
	}
}

func TestCanViewReservation(t *testing.T) {
	for _, a := range []Actor{guest, host, admin} {
		if err := CanViewReservation(a, reservation, place); err != nil {
			t.Fatalf("actor %d: %v", a.ID, err)
		}
	}
	if err := CanViewReservation(other, reservation, place); err != ErrForbidden {
		t.Fatalf("stranger: err = %v, want ErrForbidden", err)
	}
}

func TestCanDeleteReservation(t *testing.T) {
	if err := CanDeleteReservation(admin); err != nil {
		t.Fatalf("admin: %v", err)
	}
	if err := CanDeleteReservation(host); err != ErrForbidden {
		t.Fatalf("host: err = %v, want ErrForbidden", err)
	}
	if err := CanDeleteReservation(guest); err != ErrForbidden {
		t.Fatalf("guest: err = %v, want ErrForbidden", err)
	}
}

func TestCanDeleteReview(t *testing.T) {
	if err := CanDeleteReview(guest, review); err != nil {
		t.Fatalf("author: %v", err)
	}
	if err := CanDeleteReview(admin, review); err != nil {
		t.Fatalf("admin: %v", err)
	}
	if err := CanDeleteReview(host, review); err != ErrForbidden {
		t.Fatalf("place owner: err = %v, want ErrForbidden", err)
	}
}
