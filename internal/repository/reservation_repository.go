package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/skelly37/Rentigo/internal/booking"
	"github.com/skelly37/Rentigo/internal/model"
)

// ReservationRepo provides persistence for reservations. Creation runs
// the availability re-check and the insert inside one serializable
// transaction so that two concurrent requests for overlapping dates on
// the same place can never both commit; status changes are
// compare-and-set on the current status. All dates are DATE columns in
// UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given
// database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying sql.DB.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, reservation_number, place_id, user_id, check_in,
	check_out, guests, nights_price_cents, cleaning_fee_cents,
	service_fee_cents, total_price_cents, status, created_at`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(
		&res.ID, &res.Number, &res.PlaceID, &res.UserID, &res.CheckIn,
		&res.CheckOut, &res.Guests, &res.NightsPriceCents, &res.CleaningFeeCents,
		&res.ServiceFeeCents, &res.TotalPriceCents, &res.Status, &res.CreatedAt,
	)
	return res, err
}

// GetByID loads a reservation. It returns model.ErrNotFound when no row
// exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, model.ErrNotFound
	}
	return res, err
}

// conflictWhere selects reservations whose half-open [check_in,
// check_out) range overlaps the candidate range and whose status still
// blocks the calendar. Two half-open intervals [a,b) and [c,d) overlap
// iff a < d AND c < b, so a stay ending exactly on another's check-in
// day does not conflict.
const conflictWhere = `place_id = ?
	AND status IN ('PENDING', 'CONFIRMED')
	AND check_in < ? AND check_out > ?`

// FindConflicting returns the non-terminal reservations for a place
// overlapping the candidate range. Read-only; callers validate that
// checkOut is after checkIn.
func (r *ReservationRepo) FindConflicting(ctx context.Context, placeID uint64, checkIn, checkOut time.Time) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE `+conflictWhere+
			` ORDER BY check_in`,
		placeID, checkOut, checkIn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// CreateIfAvailable inserts a reservation unless a conflicting one
// exists. The conflict check and the insert execute in a single
// serializable transaction, which is what makes the availability
// guarantee hold under concurrency: a second transaction for the same
// range either sees the first insert or is forced to retry by the
// isolation level. On overlap it returns booking.ErrDatesUnavailable; a
// duplicate reservation number yields booking.ErrNumberTaken so the
// caller can regenerate.
func (r *ReservationRepo) CreateIfAvailable(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE `+conflictWhere,
		res.PlaceID, res.CheckOut, res.CheckIn).Scan(&conflicts)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return booking.ErrDatesUnavailable
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (reservation_number, place_id, user_id,
		 check_in, check_out, guests, nights_price_cents, cleaning_fee_cents,
		 service_fee_cents, total_price_cents, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Number, res.PlaceID, res.UserID, res.CheckIn, res.CheckOut,
		res.Guests, res.NightsPriceCents, res.CleaningFeeCents,
		res.ServiceFeeCents, res.TotalPriceCents, res.Status)
	if err != nil {
		if isDuplicate(err) {
			return booking.ErrNumberTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the row to populate the creation timestamp.
	full, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, res.ID))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*res = full
	return nil
}

// UpdateStatus moves a reservation from one status to another using an
// optimistic WHERE on the expected current status. When no row matches,
// the reservation either does not exist or was concurrently moved to a
// different status; both cases surface as booking.ErrInvalidTransition
// since the caller has already resolved existence.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, from, to string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ? AND status = ?`,
		to, id, from)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return booking.ErrInvalidTransition
	}
	return nil
}

// Delete removes a reservation record.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
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
	return nil
}

// list runs a reservation query and scans all rows.
func (r *ReservationRepo) list(ctx context.Context, query string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ListByUser returns all reservations made by a guest, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.list(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

// ListUpcomingByUser returns the guest's non-terminal reservations whose
// check-in is today or later.
func (r *ReservationRepo) ListUpcomingByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.list(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE user_id = ? AND check_in >= CURDATE()
		   AND status IN ('PENDING', 'CONFIRMED')
		 ORDER BY check_in`, userID)
}

// ListPastByUser returns the guest's reservations whose check-out date
// has passed.
func (r *ReservationRepo) ListPastByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.list(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE user_id = ? AND check_out < CURDATE()
		 ORDER BY check_out DESC`, userID)
}

// ListCancelledByUser returns the guest's cancelled reservations.
func (r *ReservationRepo) ListCancelledByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.list(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE user_id = ? AND status = 'CANCELLED'
		 ORDER BY created_at DESC`, userID)
}

// ListByPlace returns all reservations for a place, newest first.
// Ownership of the place is enforced by the caller.
func (r *ReservationRepo) ListByPlace(ctx context.Context, placeID uint64) ([]model.Reservation, error) {
	return r.list(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE place_id = ? ORDER BY created_at DESC`, placeID)
}

// ListByHost returns reservations across all places owned by a host,
// newest first.
func (r *ReservationRepo) ListByHost(ctx context.Context, hostID uint64) ([]model.Reservation, error) {
	return r.list(ctx,
		`SELECT r.id, r.reservation_number, r.place_id, r.user_id, r.check_in,
		        r.check_out, r.guests, r.nights_price_cents, r.cleaning_fee_cents,
		        r.service_fee_cents, r.total_price_cents, r.status, r.created_at
		 FROM reservations r
		 JOIN places p ON p.id = r.place_id
		 WHERE p.owner_id = ?
		 ORDER BY r.created_at DESC`, hostID)
}

// HostStats aggregates a host's reservation count and revenue since the
// given time. Revenue counts CONFIRMED and COMPLETED reservations only.
func (r *ReservationRepo) HostStats(ctx context.Context, hostID uint64, since time.Time) (count int64, revenueCents int64, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN r.status IN ('CONFIRMED', 'COMPLETED')
		                          THEN r.total_price_cents ELSE 0 END), 0)
		 FROM reservations r
		 JOIN places p ON p.id = r.place_id
		 WHERE p.owner_id = ? AND r.created_at >= ?`,
		hostID, since).Scan(&count, &revenueCents)
	return count, revenueCents, err
}
