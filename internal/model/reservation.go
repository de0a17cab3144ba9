package model

import "time"

// Reservation statuses. CANCELLED and COMPLETED are terminal; the
// transition to COMPLETED is performed by an external batch process
// after checkout, never by this service.
const (
	ReservationStatusPending   = "PENDING"
	ReservationStatusConfirmed = "CONFIRMED"
	ReservationStatusCancelled = "CANCELLED"
	ReservationStatusCompleted = "COMPLETED"
)

// Reservation records a guest's booking of a place for a half-open date
// range [CheckIn, CheckOut). Price components are integer cents and
// TotalPriceCents is always the sum of the other three.
//
// Fields:
//  ID               – primary key identifier.
//  Number           – unique human-readable reservation number.
//  PlaceID          – place being booked.
//  UserID           – guest who made the reservation.
//  CheckIn          – first night (inclusive), date at UTC midnight.
//  CheckOut         – checkout date (exclusive), date at UTC midnight.
//  Guests           – number of guests.
//  NightsPriceCents – nightly price × nights.
//  CleaningFeeCents – copied from the place at booking time.
//  ServiceFeeCents  – 5% of the nights price, rounded half-up.
//  TotalPriceCents  – sum of the three components.
//  Status           – PENDING, CONFIRMED, CANCELLED or COMPLETED.
//  CreatedAt        – creation timestamp.
type Reservation struct {
	ID               uint64    // reservations.id
	Number           string    // reservations.reservation_number
	PlaceID          uint64    // reservations.place_id
	UserID           uint64    // reservations.user_id
	CheckIn          time.Time // reservations.check_in DATE
	CheckOut         time.Time // reservations.check_out DATE
	Guests           int       // reservations.guests
	NightsPriceCents int64     // reservations.nights_price_cents
	CleaningFeeCents int64     // reservations.cleaning_fee_cents
	ServiceFeeCents  int64     // reservations.service_fee_cents
	TotalPriceCents  int64     // reservations.total_price_cents
	Status           string    // reservations.status
	CreatedAt        time.Time // reservations.created_at
}

// Nights returns the length of the stay in nights.
func (r Reservation) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// ReservationTerminal reports whether a status permits no further
// transitions.
func ReservationTerminal(status string) bool {
	return status == ReservationStatusCancelled || status == ReservationStatusCompleted
}
