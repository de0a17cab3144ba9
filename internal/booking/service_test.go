package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skelly37/Rentigo/internal/model"
	"github.com/skelly37/Rentigo/internal/permission"
	"github.com/skelly37/Rentigo/internal/queue"
)

type fakePlaceStore struct {
	places map[uint64]model.Place
}

func (f *fakePlaceStore) GetByID(_ context.Context, id uint64) (model.Place, error) {
	p, ok := f.places[id]
	if !ok {
		return model.Place{}, model.ErrNotFound
	}
	return p, nil
}

type fakeReservationStore struct {
	reservations map[uint64]model.Reservation
	nextID       uint64
	numberFails  int // simulated reservation number collisions
	numberTries  int
}

func (f *fakeReservationStore) GetByID(_ context.Context, id uint64) (model.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return model.Reservation{}, model.ErrNotFound
	}
	return r, nil
}

func (f *fakeReservationStore) FindConflicting(_ context.Context, placeID uint64, checkIn, checkOut time.Time) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range f.reservations {
		if r.PlaceID != placeID {
			continue
		}
		if r.Status != model.ReservationStatusPending && r.Status != model.ReservationStatusConfirmed {
			continue
		}
		if Overlaps(r.CheckIn, r.CheckOut, checkIn, checkOut) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) CreateIfAvailable(ctx context.Context, res *model.Reservation) error {
	conflicts, _ := f.FindConflicting(ctx, res.PlaceID, res.CheckIn, res.CheckOut)
	if len(conflicts) > 0 {
		return ErrDatesUnavailable
	}
	f.numberTries++
	if f.numberFails > 0 {
		f.numberFails--
		return ErrNumberTaken
	}
	f.nextID++
	res.ID = f.nextID
	res.CreatedAt = time.Now().UTC()
	if f.reservations == nil {
		f.reservations = map[uint64]model.Reservation{}
	}
	f.reservations[res.ID] = *res
	return nil
}

func (f *fakeReservationStore) UpdateStatus(_ context.Context, id uint64, from, to string) error {
	r, ok := f.reservations[id]
	if !ok || r.Status != from {
		return ErrInvalidTransition
	}
	r.Status = to
	f.reservations[id] = r
	return nil
}

func (f *fakeReservationStore) Delete(_ context.Context, id uint64) error {
	if _, ok := f.reservations[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.reservations, id)
	return nil
}

type capturedEvent struct{ kind string }

type fakeNotifier struct {
	events []capturedEvent
	err    error
}

func (f *fakeNotifier) PublishReservationEvent(_ context.Context, ev queue.ReservationEvent) error {
	f.events = append(f.events, capturedEvent{kind: ev.Kind})
	return f.err
}

func intPtr(v int) *int { return &v }

func testPlace() model.Place {
	return model.Place{
		ID:                 1,
		OwnerID:            10,
		Name:               "Seaside flat",
		PricePerNightCents: 10000,
		CleaningFeeCents:   5000,
		MaxGuests:          4,
		MinStay:            intPtr(2),
		Status:             model.PlaceStatusActive,
	}
}

func newTestService(place model.Place) (*Service, *fakeReservationStore, *fakeNotifier) {
	places := &fakePlaceStore{places: map[uint64]model.Place{place.ID: place}}
	reservations := &fakeReservationStore{reservations: map[uint64]model.Reservation{}}
	notifier := &fakeNotifier{}
	return NewService(places, reservations, notifier), reservations, notifier
}

var (
	guest    = permission.Actor{ID: 20, Role: model.RoleUser}
	owner    = permission.Actor{ID: 10, Role: model.RoleHost}
	stranger = permission.Actor{ID: 30, Role: model.RoleUser}
	admin    = permission.Actor{ID: 99, Role: model.RoleAdmin}
)

func TestCreateReservationHappyPath(t *testing.T) {
	svc, _, notifier := newTestService(testPlace())

	res, err := svc.CreateReservation(context.Background(), guest, CreateInput{
		PlaceID:  1,
		CheckIn:  date(2026, 6, 10),
		CheckOut: date(2026, 6, 14),
		Guests:   2,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if res.Status != model.ReservationStatusPending {
		t.Fatalf("status = %s, want PENDING", res.Status)
	}
	if res.NightsPriceCents != 40000 || res.ServiceFeeCents != 2000 || res.TotalPriceCents != 47000 {
		t.Fatalf("unexpected price breakdown: %+v", res)
	}
	if res.Number == "" {
		t.Fatal("reservation number not assigned")
	}
	if len(notifier.events) != 1 || notifier.events[0].kind != queue.EventReservationCreated {
		t.Fatalf("expected one created event, got %+v", notifier.events)
	}
}

func TestCreateReservationValidation(t *testing.T) {
	inactive := testPlace()
	inactive.Status = model.PlaceStatusInactive
	svc, _, _ := newTestService(inactive)
	if _, err := svc.CreateReservation(context.Background(), guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 14), Guests: 2,
	}); !errors.Is(err, ErrPlaceUnavailable) {
		t.Fatalf("inactive place: err = %v, want ErrPlaceUnavailable", err)
	}

	svc, _, _ = newTestService(testPlace())
	ctx := context.Background()

	if _, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 14), Guests: 5,
	}); !errors.Is(err, ErrGuestCountExceeded) {
		t.Fatalf("too many guests: err = %v, want ErrGuestCountExceeded", err)
	}
	if _, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 14), CheckOut: date(2026, 6, 10), Guests: 2,
	}); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("inverted range: err = %v, want ErrInvalidDateRange", err)
	}
	if _, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 10), Guests: 2,
	}); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("zero nights: err = %v, want ErrInvalidDateRange", err)
	}
	if _, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 11), Guests: 2,
	}); !errors.Is(err, ErrMinStayViolation) {
		t.Fatalf("below min stay: err = %v, want ErrMinStayViolation", err)
	}

	capped := testPlace()
	capped.MaxStay = intPtr(5)
	svc, _, _ = newTestService(capped)
	if _, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 20), Guests: 2,
	}); !errors.Is(err, ErrMaxStayViolation) {
		t.Fatalf("above max stay: err = %v, want ErrMaxStayViolation", err)
	}
}

func TestCreateReservationOverlapRejected(t *testing.T) {
	svc, _, _ := newTestService(testPlace())
	ctx := context.Background()

	if _, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 15), Guests: 2,
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := svc.CreateReservation(ctx, stranger, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 12), CheckOut: date(2026, 6, 16), Guests: 2,
	}); !errors.Is(err, ErrDatesUnavailable) {
		t.Fatalf("overlap: err = %v, want ErrDatesUnavailable", err)
	}
}

func TestCreateReservationBackToBackAllowed(t *testing.T) {
	svc, _, _ := newTestService(testPlace())
	ctx := context.Background()

	if _, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 15), Guests: 2,
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	// Checking in the day the previous stay checks out is legal.
	if _, err := svc.CreateReservation(ctx, stranger, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 15), CheckOut: date(2026, 6, 18), Guests: 2,
	}); err != nil {
		t.Fatalf("back-to-back booking rejected: %v", err)
	}
}

func TestCreateReservationRetriesNumberCollision(t *testing.T) {
	svc, store, _ := newTestService(testPlace())
	store.numberFails = 2

	if _, err := svc.CreateReservation(context.Background(), guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 14), Guests: 2,
	}); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if store.numberTries != 3 {
		t.Fatalf("create attempts = %d, want 3", store.numberTries)
	}

	svc, store, _ = newTestService(testPlace())
	store.numberFails = 3
	if _, err := svc.CreateReservation(context.Background(), guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 14), Guests: 2,
	}); !errors.Is(err, ErrNumberTaken) {
		t.Fatalf("exhausted retries: err = %v, want ErrNumberTaken", err)
	}
}

func TestConfirmReservation(t *testing.T) {
	svc, _, notifier := newTestService(testPlace())
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 14), Guests: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.ConfirmReservation(ctx, guest, res.ID); !errors.Is(err, permission.ErrForbidden) {
		t.Fatalf("guest confirm: err = %v, want ErrForbidden", err)
	}
	confirmed, err := svc.ConfirmReservation(ctx, owner, res.ID)
	if err != nil {
		t.Fatalf("owner confirm: %v", err)
	}
	if confirmed.Status != model.ReservationStatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", confirmed.Status)
	}
	// Confirming twice is an invalid transition.
	if _, err := svc.ConfirmReservation(ctx, owner, res.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double confirm: err = %v, want ErrInvalidTransition", err)
	}
	if len(notifier.events) != 2 || notifier.events[1].kind != queue.EventReservationConfirmed {
		t.Fatalf("expected confirmed event, got %+v", notifier.events)
	}
}

func TestNotifyFailureDoesNotFailOperation(t *testing.T) {
	svc, store, notifier := newTestService(testPlace())
	notifier.err = errors.New("broker unreachable")
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 14), Guests: 2,
	})
	if err != nil {
		t.Fatalf("create with failing notifier: %v", err)
	}
	if _, ok := store.reservations[res.ID]; !ok {
		t.Fatalf("reservation %d not persisted", res.ID)
	}

	confirmed, err := svc.ConfirmReservation(ctx, owner, res.ID)
	if err != nil {
		t.Fatalf("confirm with failing notifier: %v", err)
	}
	if confirmed.Status != model.ReservationStatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", confirmed.Status)
	}

	if _, err := svc.CancelReservation(ctx, guest, res.ID); err != nil {
		t.Fatalf("cancel with failing notifier: %v", err)
	}
	// Publishing was still attempted for every transition.
	if len(notifier.events) != 3 {
		t.Fatalf("got %d publish attempts, want 3", len(notifier.events))
	}
}

func TestCancelReservation(t *testing.T) {
	svc, _, _ := newTestService(testPlace())
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 14), Guests: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.CancelReservation(ctx, stranger, res.ID); !errors.Is(err, permission.ErrForbidden) {
		t.Fatalf("stranger cancel: err = %v, want ErrForbidden", err)
	}
	cancelled, err := svc.CancelReservation(ctx, guest, res.ID)
	if err != nil {
		t.Fatalf("guest cancel: %v", err)
	}
	if cancelled.Status != model.ReservationStatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", cancelled.Status)
	}
	if _, err := svc.CancelReservation(ctx, guest, res.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("re-cancel: err = %v, want ErrInvalidTransition", err)
	}
}

func TestOwnerCanCancelConfirmed(t *testing.T) {
	svc, _, _ := newTestService(testPlace())
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 14), Guests: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ConfirmReservation(ctx, owner, res.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.CancelReservation(ctx, owner, res.ID); err != nil {
		t.Fatalf("owner cancel of confirmed: %v", err)
	}
}

func TestDeleteReservation(t *testing.T) {
	svc, store, _ := newTestService(testPlace())
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 14), Guests: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteReservation(ctx, guest, res.ID); !errors.Is(err, permission.ErrForbidden) {
		t.Fatalf("guest delete: err = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteReservation(ctx, admin, res.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if len(store.reservations) != 0 {
		t.Fatal("reservation still present after delete")
	}
	if err := svc.DeleteReservation(ctx, admin, res.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("delete missing: err = %v, want ErrNotFound", err)
	}
}

func TestGetReservationVisibility(t *testing.T) {
	svc, _, _ := newTestService(testPlace())
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 14), Guests: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, act := range []permission.Actor{guest, owner, admin} {
		if _, err := svc.GetReservation(ctx, act, res.ID); err != nil {
			t.Fatalf("actor %d should see the reservation: %v", act.ID, err)
		}
	}
	if _, err := svc.GetReservation(ctx, stranger, res.ID); !errors.Is(err, permission.ErrForbidden) {
		t.Fatalf("stranger get: err = %v, want ErrForbidden", err)
	}
}

func TestHasConflict(t *testing.T) {
	svc, _, _ := newTestService(testPlace())
	ctx := context.Background()

	if _, err := svc.CreateReservation(ctx, guest, CreateInput{
		PlaceID: 1, CheckIn: date(2026, 6, 10), CheckOut: date(2026, 6, 15), Guests: 2,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	conflict, err := svc.HasConflict(ctx, 1, date(2026, 6, 14), date(2026, 6, 16))
	if err != nil {
		t.Fatalf("HasConflict: %v", err)
	}
	if !conflict {
		t.Fatal("expected conflict on overlapping range")
	}
	conflict, err = svc.HasConflict(ctx, 1, date(2026, 6, 15), date(2026, 6, 16))
	if err != nil {
		t.Fatalf("HasConflict: %v", err)
	}
	if conflict {
		t.Fatal("back-to-back range must not conflict")
	}
	if _, err := svc.HasConflict(ctx, 1, date(2026, 6, 16), date(2026, 6, 16)); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("empty range: err = %v, want ErrInvalidDateRange", err)
	}
}
