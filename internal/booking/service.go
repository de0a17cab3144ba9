package booking

import (
	"context"
	"log"
	"time"

	"github.com/skelly37/Rentigo/internal/model"
	"github.com/skelly37/Rentigo/internal/permission"
	"github.com/skelly37/Rentigo/internal/queue"
)

// PlaceStore is the subset of place persistence the lifecycle needs.
// Implementations return model.ErrNotFound when the place does not exist.
type PlaceStore interface {
	GetByID(ctx context.Context, id uint64) (model.Place, error)
}

// ReservationStore persists reservations. CreateIfAvailable must run the
// conflict re-check and the insert as one atomic unit of work against
// the store (serializable transaction or equivalent) so that two
// concurrent creates for overlapping dates cannot both succeed; it
// returns ErrDatesUnavailable on overlap and ErrNumberTaken when the
// reservation number collides. UpdateStatus performs a compare-and-set
// on the current status and returns ErrInvalidTransition when the row
// was concurrently moved out of the expected status.
type ReservationStore interface {
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	FindConflicting(ctx context.Context, placeID uint64, checkIn, checkOut time.Time) ([]model.Reservation, error)
	CreateIfAvailable(ctx context.Context, res *model.Reservation) error
	UpdateStatus(ctx context.Context, id uint64, from, to string) error
	Delete(ctx context.Context, id uint64) error
}

// Notifier publishes reservation events to the message broker. Errors
// are returned so the caller can log them, but the lifecycle never fails
// an operation because of a publish failure.
type Notifier interface {
	PublishReservationEvent(ctx context.Context, ev queue.ReservationEvent) error
}

// Service orchestrates the reservation lifecycle: creation with
// validation, availability check and pricing, plus the confirm, cancel
// and delete transitions.
type Service struct {
	Places       PlaceStore
	Reservations ReservationStore
	Notifier     Notifier
}

// NewService constructs a lifecycle Service. The notifier may be nil, in
// which case events are silently dropped (used in tests).
func NewService(places PlaceStore, reservations ReservationStore, notifier Notifier) *Service {
	if places == nil || reservations == nil {
		panic("nil store passed to booking.NewService")
	}
	return &Service{Places: places, Reservations: reservations, Notifier: notifier}
}

// CreateInput carries the caller-supplied fields of a booking request.
// CheckIn and CheckOut are normalized to UTC midnight by the service.
type CreateInput struct {
	PlaceID  uint64
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// numberAttempts bounds regeneration when a reservation number collides.
const numberAttempts = 3

// CreateReservation validates a booking request, checks availability,
// computes the price breakdown and persists a PENDING reservation.
// Validation failures are reported in a fixed order: place status, guest
// count, date range, min stay, max stay, availability. A "reservation
// created" event is dispatched best-effort after the commit.
func (s *Service) CreateReservation(ctx context.Context, actor permission.Actor, in CreateInput) (model.Reservation, error) {
	place, err := s.Places.GetByID(ctx, in.PlaceID)
	if err != nil {
		return model.Reservation{}, err
	}
	if place.Status != model.PlaceStatusActive {
		return model.Reservation{}, ErrPlaceUnavailable
	}
	if in.Guests > place.MaxGuests {
		return model.Reservation{}, ErrGuestCountExceeded
	}

	checkIn := Day(in.CheckIn)
	checkOut := Day(in.CheckOut)
	if !checkOut.After(checkIn) {
		return model.Reservation{}, ErrInvalidDateRange
	}
	nights := Nights(checkIn, checkOut)
	if place.MinStay != nil && nights < *place.MinStay {
		return model.Reservation{}, ErrMinStayViolation
	}
	if place.MaxStay != nil && *place.MaxStay > 0 && nights > *place.MaxStay {
		return model.Reservation{}, ErrMaxStayViolation
	}

	price := Quote(place.PricePerNightCents, place.CleaningFeeCents, nights)
	res := model.Reservation{
		PlaceID:          place.ID,
		UserID:           actor.ID,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		Guests:           in.Guests,
		NightsPriceCents: price.NightsCents,
		CleaningFeeCents: price.CleaningFeeCents,
		ServiceFeeCents:  price.ServiceFeeCents,
		TotalPriceCents:  price.TotalCents,
		Status:           model.ReservationStatusPending,
	}

	now := time.Now().UTC()
	for attempt := 0; ; attempt++ {
		res.Number = NewReservationNumber(now)
		err = s.Reservations.CreateIfAvailable(ctx, &res)
		if err == ErrNumberTaken && attempt+1 < numberAttempts {
			continue
		}
		break
	}
	if err != nil {
		return model.Reservation{}, err
	}

	s.notify(ctx, queue.EventReservationCreated, res, place)
	return res, nil
}

// HasConflict reports whether any PENDING or CONFIRMED reservation for
// the place overlaps the half-open candidate range. It is read-only.
func (s *Service) HasConflict(ctx context.Context, placeID uint64, checkIn, checkOut time.Time) (bool, error) {
	checkIn, checkOut = Day(checkIn), Day(checkOut)
	if !checkOut.After(checkIn) {
		return false, ErrInvalidDateRange
	}
	conflicts, err := s.Reservations.FindConflicting(ctx, placeID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// ConfirmReservation moves a PENDING reservation to CONFIRMED. Only the
// place owner may confirm.
func (s *Service) ConfirmReservation(ctx context.Context, actor permission.Actor, id uint64) (model.Reservation, error) {
	res, place, err := s.load(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if err := permission.CanConfirmReservation(actor, place); err != nil {
		return model.Reservation{}, err
	}
	if !CanTransition(res.Status, model.ReservationStatusConfirmed) {
		return model.Reservation{}, ErrInvalidTransition
	}
	if err := s.Reservations.UpdateStatus(ctx, res.ID, res.Status, model.ReservationStatusConfirmed); err != nil {
		return model.Reservation{}, err
	}
	res.Status = model.ReservationStatusConfirmed
	s.notify(ctx, queue.EventReservationConfirmed, res, place)
	return res, nil
}

// CancelReservation moves a PENDING or CONFIRMED reservation to
// CANCELLED. The guest and the place owner may cancel; terminal
// reservations cannot be re-cancelled.
func (s *Service) CancelReservation(ctx context.Context, actor permission.Actor, id uint64) (model.Reservation, error) {
	res, place, err := s.load(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if err := permission.CanCancelReservation(actor, res, place); err != nil {
		return model.Reservation{}, err
	}
	if !CanTransition(res.Status, model.ReservationStatusCancelled) {
		return model.Reservation{}, ErrInvalidTransition
	}
	if err := s.Reservations.UpdateStatus(ctx, res.ID, res.Status, model.ReservationStatusCancelled); err != nil {
		return model.Reservation{}, err
	}
	res.Status = model.ReservationStatusCancelled
	s.notify(ctx, queue.EventReservationCancelled, res, place)
	return res, nil
}

// DeleteReservation unconditionally removes a reservation record. This
// is an administrative correction path, not a lifecycle transition.
func (s *Service) DeleteReservation(ctx context.Context, actor permission.Actor, id uint64) error {
	if err := permission.CanDeleteReservation(actor); err != nil {
		return err
	}
	if _, err := s.Reservations.GetByID(ctx, id); err != nil {
		return err
	}
	return s.Reservations.Delete(ctx, id)
}

// GetReservation returns a reservation visible to the actor (guest,
// place owner or admin).
func (s *Service) GetReservation(ctx context.Context, actor permission.Actor, id uint64) (model.Reservation, error) {
	res, place, err := s.load(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if err := permission.CanViewReservation(actor, res, place); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

func (s *Service) load(ctx context.Context, id uint64) (model.Reservation, model.Place, error) {
	res, err := s.Reservations.GetByID(ctx, id)
	if err != nil {
		return model.Reservation{}, model.Place{}, err
	}
	place, err := s.Places.GetByID(ctx, res.PlaceID)
	if err != nil {
		return model.Reservation{}, model.Place{}, err
	}
	return res, place, nil
}

// notify dispatches a reservation event. Failures are logged and
// swallowed: notification delivery must never affect the outcome of the
// lifecycle operation that triggered it.
func (s *Service) notify(ctx context.Context, kind string, res model.Reservation, place model.Place) {
	if s.Notifier == nil {
		return
	}
	ev := queue.ReservationEvent{
		Kind:            kind,
		ReservationID:   res.ID,
		Number:          res.Number,
		PlaceID:         place.ID,
		PlaceName:       place.Name,
		GuestID:         res.UserID,
		HostID:          place.OwnerID,
		CheckIn:         res.CheckIn.Format("2006-01-02"),
		CheckOut:        res.CheckOut.Format("2006-01-02"),
		TotalPriceCents: res.TotalPriceCents,
		OccurredAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Notifier.PublishReservationEvent(ctx, ev); err != nil {
		log.Printf("booking: publish %s for %s failed: %v", kind, res.Number, err)
	}
}
