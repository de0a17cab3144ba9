package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/skelly37/Rentigo/internal/model"
)

// PlaceRepo provides CRUD operations for places. The rating and
// review_count columns are a cache maintained by ReviewRepo inside its
// review transactions; PlaceRepo never writes them.
type PlaceRepo struct {
	db *sql.DB
}

// NewPlaceRepo returns a new PlaceRepo bound to the given database.
func NewPlaceRepo(db *sql.DB) *PlaceRepo { return &PlaceRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *PlaceRepo) DB() *sql.DB { return r.db }

const placeColumns = `id, owner_id, name, description, price_per_night_cents,
	cleaning_fee_cents, max_guests, min_stay, max_stay, rating, review_count,
	status, created_at`

func scanPlace(row interface{ Scan(...any) error }) (model.Place, error) {
	var p model.Place
	var minStay, maxStay sql.NullInt64
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.PricePerNightCents,
		&p.CleaningFeeCents, &p.MaxGuests, &minStay, &maxStay, &p.Rating,
		&p.ReviewCount, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		return model.Place{}, err
	}
	if minStay.Valid {
		v := int(minStay.Int64)
		p.MinStay = &v
	}
	if maxStay.Valid {
		v := int(maxStay.Int64)
		p.MaxStay = &v
	}
	return p, nil
}

// GetByID loads a place. It returns model.ErrNotFound when no row
// exists.
func (r *PlaceRepo) GetByID(ctx context.Context, id uint64) (model.Place, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+placeColumns+` FROM places WHERE id = ?`, id)
	p, err := scanPlace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Place{}, model.ErrNotFound
	}
	return p, err
}

// Create inserts a new place and populates the generated ID and the
// DB-default fields on the given record.
func (r *PlaceRepo) Create(ctx context.Context, p *model.Place) error {
	var minStay, maxStay any
	if p.MinStay != nil {
		minStay = *p.MinStay
	}
	if p.MaxStay != nil {
		maxStay = *p.MaxStay
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO places (owner_id, name, description, price_per_night_cents,
		 cleaning_fee_cents, max_guests, min_stay, max_stay, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.OwnerID, p.Name, p.Description, p.PricePerNightCents,
		p.CleaningFeeCents, p.MaxGuests, minStay, maxStay, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	// Query back the full row to populate defaults and timestamps.
	row := r.db.QueryRowContext(ctx,
		`SELECT `+placeColumns+` FROM places WHERE id = ?`, p.ID)
	full, err := scanPlace(row)
	if err != nil {
		return err
	}
	*p = full
	return nil
}

// UpdateStatus sets the lifecycle status of a place. Ownership is
// enforced by the caller through the permission package.
func (r *PlaceRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE places SET status = ? WHERE id = ?`, status, id)
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

// ListByOwner returns all places owned by a host, newest first.
func (r *PlaceRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Place, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+placeColumns+` FROM places WHERE owner_id = ? ORDER BY created_at DESC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	places := make([]model.Place, 0)
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}
