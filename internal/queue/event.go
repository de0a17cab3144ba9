// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into notifications.
package queue

// ReservationEvents is the durable queue reservation events travel on.
const ReservationEvents = "reservation.events"

// Reservation event kinds published by the booking lifecycle.
const (
	EventReservationCreated   = "RESERVATION_CREATED"
	EventReservationConfirmed = "RESERVATION_CONFIRMED"
	EventReservationCancelled = "RESERVATION_CANCELLED"
)

// ReservationEvent is published whenever a reservation is created,
// confirmed or cancelled. It carries enough information for downstream
// consumers to notify both parties without querying the primary
// database. Publishing is best-effort: a failed publish is logged and
// never rolls back the booking operation that produced it.
type ReservationEvent struct {
	Kind            string `json:"kind"`
	ReservationID   uint64 `json:"reservation_id"`
	Number          string `json:"reservation_number"`
	PlaceID         uint64 `json:"place_id"`
	PlaceName       string `json:"place_name"`
	GuestID         uint64 `json:"guest_id"`
	HostID          uint64 `json:"host_id"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	TotalPriceCents int64  `json:"total_price_cents"`
	OccurredAt      string `json:"occurred_at"`
}
