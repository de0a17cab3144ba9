// Package rating manages reviews and the denormalized rating cache on
// places. The cached average and count are never updated incrementally:
// every review mutation recomputes them from scratch inside the same
// transaction, so the cache can drift only if bypassed.
package rating

import (
	"context"
	"errors"

	"github.com/skelly37/Rentigo/internal/model"
	"github.com/skelly37/Rentigo/internal/permission"
)

var (
	// ErrNotEligible is returned when the user has no COMPLETED or
	// CANCELLED reservation for the place.
	ErrNotEligible = errors.New("no finished reservation for this place")

	// ErrDuplicateReview is returned when the user already reviewed the
	// place.
	ErrDuplicateReview = errors.New("review already exists for this place")
)

// Store is the persistence surface the review service needs. The
// compound operations pair the review write with the rating recompute in
// a single transaction; Recompute alone re-derives the cache and is
// idempotent.
type Store interface {
	GetPlace(ctx context.Context, id uint64) (model.Place, error)
	GetReview(ctx context.Context, id uint64) (model.Review, error)
	ReviewExists(ctx context.Context, placeID, userID uint64) (bool, error)
	HasTerminalReservation(ctx context.Context, placeID, userID uint64) (bool, error)
	ListByPlace(ctx context.Context, placeID uint64) ([]model.Review, error)
	Summary(ctx context.Context, placeID uint64) (model.ReviewSummary, error)
	CreateReviewAndRecompute(ctx context.Context, review *model.Review) error
	DeleteReviewAndRecompute(ctx context.Context, reviewID, placeID uint64) error
	Recompute(ctx context.Context, placeID uint64) (rating float64, count int, err error)
}

// Service implements review creation and deletion with the eligibility
// and duplicate guards, and exposes the recompute operation directly.
type Service struct {
	Store Store
}

// NewService constructs a review Service.
func NewService(store Store) *Service {
	if store == nil {
		panic("nil store passed to rating.NewService")
	}
	return &Service{Store: store}
}

// CreateInput carries the caller-supplied fields of a review.
type CreateInput struct {
	PlaceID             uint64
	Rating              float64
	CleanlinessRating   float64
	LocationRating      float64
	CommunicationRating float64
	ValueRating         float64
	Comment             string
}

// CreateReview persists a review for the actor after verifying that a
// terminal (COMPLETED or CANCELLED) reservation exists between the actor
// and the place and that no prior review exists. The place's rating
// cache is recomputed in the same transaction as the insert.
func (s *Service) CreateReview(ctx context.Context, actor permission.Actor, in CreateInput) (model.Review, error) {
	place, err := s.Store.GetPlace(ctx, in.PlaceID)
	if err != nil {
		return model.Review{}, err
	}
	eligible, err := s.Store.HasTerminalReservation(ctx, place.ID, actor.ID)
	if err != nil {
		return model.Review{}, err
	}
	if !eligible {
		return model.Review{}, ErrNotEligible
	}
	exists, err := s.Store.ReviewExists(ctx, place.ID, actor.ID)
	if err != nil {
		return model.Review{}, err
	}
	if exists {
		return model.Review{}, ErrDuplicateReview
	}

	review := model.Review{
		PlaceID:             place.ID,
		UserID:              actor.ID,
		Rating:              in.Rating,
		CleanlinessRating:   in.CleanlinessRating,
		LocationRating:      in.LocationRating,
		CommunicationRating: in.CommunicationRating,
		ValueRating:         in.ValueRating,
		Comment:             in.Comment,
	}
	if err := s.Store.CreateReviewAndRecompute(ctx, &review); err != nil {
		return model.Review{}, err
	}
	return review, nil
}

// DeleteReview removes a review. Only the author and admins may delete;
// the rating cache is recomputed in the same transaction as the delete.
func (s *Service) DeleteReview(ctx context.Context, actor permission.Actor, id uint64) error {
	review, err := s.Store.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if err := permission.CanDeleteReview(actor, review); err != nil {
		return err
	}
	return s.Store.DeleteReviewAndRecompute(ctx, review.ID, review.PlaceID)
}

// Recompute re-derives the place's cached rating and review count from
// its reviews. With no intervening review changes it is idempotent; with
// zero reviews both values reset to 0.
func (s *Service) Recompute(ctx context.Context, placeID uint64) (float64, int, error) {
	if _, err := s.Store.GetPlace(ctx, placeID); err != nil {
		return 0, 0, err
	}
	return s.Store.Recompute(ctx, placeID)
}

// PlaceReviews lists a place's reviews, newest first.
func (s *Service) PlaceReviews(ctx context.Context, placeID uint64) ([]model.Review, error) {
	if _, err := s.Store.GetPlace(ctx, placeID); err != nil {
		return nil, err
	}
	return s.Store.ListByPlace(ctx, placeID)
}

// PlaceSummary returns the per-category rating averages for a place.
func (s *Service) PlaceSummary(ctx context.Context, placeID uint64) (model.ReviewSummary, error) {
	if _, err := s.Store.GetPlace(ctx, placeID); err != nil {
		return model.ReviewSummary{}, err
	}
	return s.Store.Summary(ctx, placeID)
}
