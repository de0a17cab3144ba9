package model

import "time"

// Review is feedback left by a guest for a place after a terminal
// reservation. Each (place, user) pair may hold at most one review,
// enforced by a unique key on (place_id, user_id). Ratings are decimals
// in [1,10] with one fractional digit.
type Review struct {
	ID                  uint64    // reviews.id
	PlaceID             uint64    // reviews.place_id
	UserID              uint64    // reviews.user_id
	Rating              float64   // reviews.rating (overall)
	CleanlinessRating   float64   // reviews.cleanliness_rating
	LocationRating      float64   // reviews.location_rating
	CommunicationRating float64   // reviews.communication_rating
	ValueRating         float64   // reviews.value_rating
	Comment             string    // reviews.comment
	CreatedAt           time.Time // reviews.created_at
}

// ReviewSummary aggregates per-category averages for a place. Averages
// are rounded half-up to two decimals; all zeros when no reviews exist.
type ReviewSummary struct {
	AverageRating       float64 `json:"average_rating"`
	CleanlinessRating   float64 `json:"cleanliness_rating"`
	LocationRating      float64 `json:"location_rating"`
	CommunicationRating float64 `json:"communication_rating"`
	ValueRating         float64 `json:"value_rating"`
	ReviewCount         int     `json:"review_count"`
}
