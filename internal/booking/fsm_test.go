package booking

import (
	"testing"

	"github.com/skelly37/Rentigo/internal/model"
)

func TestCanTransition(t *testing.T) {
	if !CanTransition(model.ReservationStatusPending, model.ReservationStatusConfirmed) {
		t.Fatal("expected PENDING -> CONFIRMED to be allowed")
	}
	if !CanTransition(model.ReservationStatusPending, model.ReservationStatusCancelled) {
		t.Fatal("expected PENDING -> CANCELLED to be allowed")
	}
	if !CanTransition(model.ReservationStatusConfirmed, model.ReservationStatusCancelled) {
		t.Fatal("expected CONFIRMED -> CANCELLED to be allowed")
	}
	if !CanTransition(model.ReservationStatusConfirmed, model.ReservationStatusCompleted) {
		t.Fatal("expected CONFIRMED -> COMPLETED to be allowed")
	}
	if CanTransition(model.ReservationStatusPending, model.ReservationStatusCompleted) {
		t.Fatal("unexpected PENDING -> COMPLETED allowed")
	}
	if CanTransition(model.ReservationStatusCancelled, model.ReservationStatusConfirmed) {
		t.Fatal("unexpected transition out of CANCELLED allowed")
	}
	if CanTransition(model.ReservationStatusCompleted, model.ReservationStatusCancelled) {
		t.Fatal("unexpected transition out of COMPLETED allowed")
	}
	if CanTransition(model.ReservationStatusCancelled, model.ReservationStatusCancelled) {
		t.Fatal("re-cancelling a cancelled reservation must not be allowed")
	}
	if CanTransition("UNKNOWN", model.ReservationStatusConfirmed) {
		t.Fatal("unknown source status must not transition")
	}
}
