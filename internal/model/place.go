package model

import "time"

// Place lifecycle statuses. Only ACTIVE places accept reservations.
const (
	PlaceStatusDraft    = "DRAFT"
	PlaceStatusActive   = "ACTIVE"
	PlaceStatusInactive = "INACTIVE"
)

// Place is a rentable unit owned by a host. Monetary amounts are stored
// as integer cents. Rating and ReviewCount are a denormalized cache over
// the place's reviews: they are recomputed transactionally on every
// review mutation and must never be updated incrementally.
//
// Fields:
//  ID                 – primary key identifier.
//  OwnerID            – host who owns the place; immutable after creation.
//  Name               – display name.
//  Description        – free-text description.
//  PricePerNightCents – nightly price in cents.
//  CleaningFeeCents   – one-off cleaning fee in cents (0 when none).
//  MaxGuests          – maximum guest count per reservation.
//  MinStay            – minimum stay in nights (nil when unset).
//  MaxStay            – maximum stay in nights (nil or 0 when unset).
//  Rating             – cached average of review overall ratings, [0,10].
//  ReviewCount        – cached number of reviews.
//  Status             – DRAFT, ACTIVE or INACTIVE.
//  CreatedAt          – creation timestamp.
type Place struct {
	ID                 uint64    // places.id
	OwnerID            uint64    // places.owner_id
	Name               string    // places.name
	Description        string    // places.description
	PricePerNightCents int64     // places.price_per_night_cents
	CleaningFeeCents   int64     // places.cleaning_fee_cents
	MaxGuests          int       // places.max_guests
	MinStay            *int      // places.min_stay (nullable)
	MaxStay            *int      // places.max_stay (nullable)
	Rating             float64   // places.rating DECIMAL(4,2)
	ReviewCount        int       // places.review_count
	Status             string    // places.status
	CreatedAt          time.Time // places.created_at
}
