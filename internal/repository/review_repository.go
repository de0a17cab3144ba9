package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/skelly37/Rentigo/internal/model"
	"github.com/skelly37/Rentigo/internal/rating"
)

// ReviewRepo provides persistence for reviews and owns the denormalized
// rating cache on places: every review write recomputes the place's
// average rating and review count inside the same transaction, so a
// read following the write can never observe a stale cache. It
// implements rating.Store.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

var _ rating.Store = (*ReviewRepo)(nil)

const reviewColumns = `id, place_id, user_id, rating, cleanliness_rating,
	location_rating, communication_rating, value_rating, comment, created_at`

func scanReview(row interface{ Scan(...any) error }) (model.Review, error) {
	var rv model.Review
	var comment sql.NullString
	err := row.Scan(
		&rv.ID, &rv.PlaceID, &rv.UserID, &rv.Rating, &rv.CleanlinessRating,
		&rv.LocationRating, &rv.CommunicationRating, &rv.ValueRating,
		&comment, &rv.CreatedAt,
	)
	rv.Comment = comment.String
	return rv, err
}

// GetPlace loads the reviewed place. Shared with rating.Service so the
// review flow resolves existence without a second repository.
func (r *ReviewRepo) GetPlace(ctx context.Context, id uint64) (model.Place, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+placeColumns+` FROM places WHERE id = ?`, id)
	p, err := scanPlace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Place{}, model.ErrNotFound
	}
	return p, err
}

// GetReview loads a review. It returns model.ErrNotFound when no row
// exists.
func (r *ReviewRepo) GetReview(ctx context.Context, id uint64) (model.Review, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id)
	rv, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Review{}, model.ErrNotFound
	}
	return rv, err
}

// ReviewExists reports whether the user has already reviewed the place.
func (r *ReviewRepo) ReviewExists(ctx context.Context, placeID, userID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE place_id = ? AND user_id = ?`,
		placeID, userID).Scan(&n)
	return n > 0, err
}

// HasTerminalReservation reports whether the user holds a COMPLETED or
// CANCELLED reservation for the place, which is what makes them
// eligible to review it.
func (r *ReviewRepo) HasTerminalReservation(ctx context.Context, placeID, userID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE place_id = ? AND user_id = ?
		   AND status IN ('COMPLETED', 'CANCELLED')`,
		placeID, userID).Scan(&n)
	return n > 0, err
}

// ListByPlace returns a place's reviews, newest first.
func (r *ReviewRepo) ListByPlace(ctx context.Context, placeID uint64) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews
		 WHERE place_id = ? ORDER BY created_at DESC`, placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// Summary returns the per-category average ratings and the review count
// for a place. Averages are rounded half-up to two decimals by the
// database; with zero reviews every value is 0.
func (r *ReviewRepo) Summary(ctx context.Context, placeID uint64) (model.ReviewSummary, error) {
	var s model.ReviewSummary
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(ROUND(AVG(rating), 2), 0),
		        COALESCE(ROUND(AVG(cleanliness_rating), 2), 0),
		        COALESCE(ROUND(AVG(location_rating), 2), 0),
		        COALESCE(ROUND(AVG(communication_rating), 2), 0),
		        COALESCE(ROUND(AVG(value_rating), 2), 0),
		        COUNT(*)
		 FROM reviews WHERE place_id = ?`, placeID).Scan(
		&s.AverageRating, &s.CleanlinessRating, &s.LocationRating,
		&s.CommunicationRating, &s.ValueRating, &s.ReviewCount)
	return s, err
}

// recomputeTx re-derives the place's cached rating and review count
// from its reviews within the given transaction. MySQL's ROUND is
// half-up for positive values, matching the documented rounding rule.
func (r *ReviewRepo) recomputeTx(ctx context.Context, tx *sql.Tx, placeID uint64) (float64, int, error) {
	var avg float64
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(ROUND(AVG(rating), 2), 0), COUNT(*)
		 FROM reviews WHERE place_id = ?`, placeID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE places SET rating = ?, review_count = ? WHERE id = ?`,
		avg, count, placeID)
	return avg, count, err
}

// CreateReviewAndRecompute inserts a review and recomputes the place's
// rating cache in one transaction. A duplicate (place, user) pair is
// reported as rating.ErrDuplicateReview via the unique key, covering
// the race the service-level existence check cannot.
func (r *ReviewRepo) CreateReviewAndRecompute(ctx context.Context, review *model.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (place_id, user_id, rating, cleanliness_rating,
		 location_rating, communication_rating, value_rating, comment)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		review.PlaceID, review.UserID, review.Rating, review.CleanlinessRating,
		review.LocationRating, review.CommunicationRating, review.ValueRating,
		review.Comment)
	if err != nil {
		if isDuplicate(err) {
			return rating.ErrDuplicateReview
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	review.ID = uint64(id)
	if _, _, err := r.recomputeTx(ctx, tx, review.PlaceID); err != nil {
		return err
	}
	full, err := scanReview(tx.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, review.ID))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*review = full
	return nil
}

// DeleteReviewAndRecompute removes a review and recomputes the place's
// rating cache in one transaction. With the last review gone the cache
// resets to 0/0.
func (r *ReviewRepo) DeleteReviewAndRecompute(ctx context.Context, reviewID, placeID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, reviewID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.ErrNotFound
	}
	if _, _, err := r.recomputeTx(ctx, tx, placeID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Recompute re-derives the rating cache outside of a review write. It
// is idempotent and exists as a repair path.
func (r *ReviewRepo) Recompute(ctx context.Context, placeID uint64) (float64, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	avg, count, err := r.recomputeTx(ctx, tx, placeID)
	if err != nil {
		return 0, 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	committed = true
	return avg, count, nil
}
