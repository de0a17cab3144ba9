package booking

import "github.com/skelly37/Rentigo/internal/model"

// transitions encodes the reservation state machine. A missing entry or
// empty set means the state is terminal. COMPLETED appears only as a
// target: the transition is applied by an external batch process after
// checkout, but the table still has to accept it as a valid successor of
// CONFIRMED so that status values read back from the store validate.
var transitions = map[string]map[string]struct{}{
	model.ReservationStatusPending: {
		model.ReservationStatusConfirmed: {},
		model.ReservationStatusCancelled: {},
	},
	model.ReservationStatusConfirmed: {
		model.ReservationStatusCancelled: {},
		model.ReservationStatusCompleted: {},
	},
	model.ReservationStatusCancelled: {},
	model.ReservationStatusCompleted: {},
}

// CanTransition returns whether a reservation may move from one status
// to another. Unlike some state machines, a same-state "transition" is
// not allowed: re-cancelling a CANCELLED reservation is an error.
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}
