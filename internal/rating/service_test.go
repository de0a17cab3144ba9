package rating

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/skelly37/Rentigo/internal/model"
	"github.com/skelly37/Rentigo/internal/permission"
)

// fakeStore keeps reviews in memory and mirrors the transactional
// recompute contract: every review mutation updates the cached rating.
type fakeStore struct {
	places       map[uint64]model.Place
	reviews      map[uint64]model.Review
	nextReviewID uint64
	terminal     map[[2]uint64]bool // (placeID, userID) -> has finished reservation
	recomputes   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		places:   map[uint64]model.Place{1: {ID: 1, OwnerID: 10, Name: "Loft", Status: model.PlaceStatusActive}},
		reviews:  map[uint64]model.Review{},
		terminal: map[[2]uint64]bool{},
	}
}

func (f *fakeStore) GetPlace(_ context.Context, id uint64) (model.Place, error) {
	p, ok := f.places[id]
	if !ok {
		return model.Place{}, model.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) GetReview(_ context.Context, id uint64) (model.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return model.Review{}, model.ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) ReviewExists(_ context.Context, placeID, userID uint64) (bool, error) {
	for _, r := range f.reviews {
		if r.PlaceID == placeID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) HasTerminalReservation(_ context.Context, placeID, userID uint64) (bool, error) {
	return f.terminal[[2]uint64{placeID, userID}], nil
}

func (f *fakeStore) ListByPlace(_ context.Context, placeID uint64) ([]model.Review, error) {
	var out []model.Review
	for _, r := range f.reviews {
		if r.PlaceID == placeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) Summary(_ context.Context, placeID uint64) (model.ReviewSummary, error) {
	var s model.ReviewSummary
	for _, r := range f.reviews {
		if r.PlaceID != placeID {
			continue
		}
		s.AverageRating += r.Rating
		s.CleanlinessRating += r.CleanlinessRating
		s.LocationRating += r.LocationRating
		s.CommunicationRating += r.CommunicationRating
		s.ValueRating += r.ValueRating
		s.ReviewCount++
	}
	if s.ReviewCount > 0 {
		n := float64(s.ReviewCount)
		s.AverageRating = round2(s.AverageRating / n)
		s.CleanlinessRating = round2(s.CleanlinessRating / n)
		s.LocationRating = round2(s.LocationRating / n)
		s.CommunicationRating = round2(s.CommunicationRating / n)
		s.ValueRating = round2(s.ValueRating / n)
	}
	return s, nil
}

func (f *fakeStore) CreateReviewAndRecompute(ctx context.Context, review *model.Review) error {
	for _, r := range f.reviews {
		if r.PlaceID == review.PlaceID && r.UserID == review.UserID {
			return ErrDuplicateReview
		}
	}
	f.nextReviewID++
	review.ID = f.nextReviewID
	f.reviews[review.ID] = *review
	_, _, err := f.Recompute(ctx, review.PlaceID)
	return err
}

func (f *fakeStore) DeleteReviewAndRecompute(ctx context.Context, reviewID, placeID uint64) error {
	if _, ok := f.reviews[reviewID]; !ok {
		return model.ErrNotFound
	}
	delete(f.reviews, reviewID)
	_, _, err := f.Recompute(ctx, placeID)
	return err
}

func (f *fakeStore) Recompute(_ context.Context, placeID uint64) (float64, int, error) {
	f.recomputes++
	var sum float64
	count := 0
	for _, r := range f.reviews {
		if r.PlaceID == placeID {
			sum += r.Rating
			count++
		}
	}
	avg := 0.0
	if count > 0 {
		avg = round2(sum / float64(count))
	}
	p := f.places[placeID]
	p.Rating = avg
	p.ReviewCount = count
	f.places[placeID] = p
	return avg, count, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

var (
	reviewer = permission.Actor{ID: 20, Role: model.RoleUser}
	another  = permission.Actor{ID: 30, Role: model.RoleUser}
	admin    = permission.Actor{ID: 99, Role: model.RoleAdmin}
)

func allowReview(f *fakeStore, userID uint64) {
	f.terminal[[2]uint64{1, userID}] = true
}

func input(rating float64) CreateInput {
	return CreateInput{
		PlaceID:             1,
		Rating:              rating,
		CleanlinessRating:   rating,
		LocationRating:      rating,
		CommunicationRating: rating,
		ValueRating:         rating,
		Comment:             "nice stay",
	}
}

func TestCreateReviewRequiresFinishedReservation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	if _, err := svc.CreateReview(context.Background(), reviewer, input(8.0)); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("err = %v, want ErrNotEligible", err)
	}

	allowReview(store, reviewer.ID)
	review, err := svc.CreateReview(context.Background(), reviewer, input(8.0))
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if review.ID == 0 {
		t.Fatal("review ID not assigned")
	}
	if store.places[1].Rating != 8.0 || store.places[1].ReviewCount != 1 {
		t.Fatalf("rating cache = %.2f/%d, want 8.00/1", store.places[1].Rating, store.places[1].ReviewCount)
	}
}

func TestCreateReviewRejectsDuplicate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	allowReview(store, reviewer.ID)

	if _, err := svc.CreateReview(context.Background(), reviewer, input(8.0)); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := svc.CreateReview(context.Background(), reviewer, input(9.0)); !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("second review: err = %v, want ErrDuplicateReview", err)
	}
}

func TestCreateReviewUnknownPlace(t *testing.T) {
	svc := NewService(newFakeStore())
	in := input(8.0)
	in.PlaceID = 42
	if _, err := svc.CreateReview(context.Background(), reviewer, in); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRatingAveragesAcrossReviews(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	allowReview(store, reviewer.ID)
	allowReview(store, another.ID)

	if _, err := svc.CreateReview(context.Background(), reviewer, input(7.0)); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := svc.CreateReview(context.Background(), another, input(8.5)); err != nil {
		t.Fatalf("second review: %v", err)
	}
	if got := store.places[1].Rating; got != 7.75 {
		t.Fatalf("cached rating = %.2f, want 7.75", got)
	}
	if got := store.places[1].ReviewCount; got != 2 {
		t.Fatalf("cached count = %d, want 2", got)
	}
}

func TestDeleteReviewPermissionsAndRecompute(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	allowReview(store, reviewer.ID)

	review, err := svc.CreateReview(context.Background(), reviewer, input(8.0))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteReview(context.Background(), another, review.ID); !errors.Is(err, permission.ErrForbidden) {
		t.Fatalf("non-author delete: err = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteReview(context.Background(), admin, review.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	// With the last review gone the cache resets to zero.
	if store.places[1].Rating != 0 || store.places[1].ReviewCount != 0 {
		t.Fatalf("rating cache = %.2f/%d, want 0/0", store.places[1].Rating, store.places[1].ReviewCount)
	}
	if err := svc.DeleteReview(context.Background(), admin, review.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("delete missing: err = %v, want ErrNotFound", err)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	allowReview(store, reviewer.ID)

	if _, err := svc.CreateReview(context.Background(), reviewer, input(8.0)); err != nil {
		t.Fatalf("create: %v", err)
	}
	avg1, count1, err := svc.Recompute(context.Background(), 1)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	avg2, count2, err := svc.Recompute(context.Background(), 1)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if avg1 != avg2 || count1 != count2 {
		t.Fatalf("recompute not idempotent: %.2f/%d then %.2f/%d", avg1, count1, avg2, count2)
	}
	if _, _, err := svc.Recompute(context.Background(), 42); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("recompute unknown place: err = %v, want ErrNotFound", err)
	}
}

func TestPlaceSummary(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	allowReview(store, reviewer.ID)
	allowReview(store, another.ID)

	summary, err := svc.PlaceSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.ReviewCount != 0 || summary.AverageRating != 0 {
		t.Fatalf("empty summary = %+v, want zeros", summary)
	}

	if _, err := svc.CreateReview(context.Background(), reviewer, input(7.0)); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := svc.CreateReview(context.Background(), another, input(8.0)); err != nil {
		t.Fatalf("second review: %v", err)
	}
	summary, err = svc.PlaceSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.ReviewCount != 2 || summary.AverageRating != 7.5 {
		t.Fatalf("summary = %+v, want count 2 average 7.50", summary)
	}
}
