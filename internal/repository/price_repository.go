package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adilhz/travelhub-server/internal/pricing"
)

// PriceRepo is the SQL implementation of pricing.Store backed by the
// hotel_prices table. The UNIQUE (kind, external_id) key is what makes the
// ensure-or-create workflow safe across replicas: two first-time callers
// may both attempt the insert, the database admits exactly one, and the
// loser surfaces here as pricing.ErrDuplicate.
//
// There is intentionally no update or delete method. A venue's price is
// permanent once minted, and display_name is written only by the insert
// that wins.
type PriceRepo struct {
	db *sql.DB
}

func NewPriceRepo(db *sql.DB) *PriceRepo { return &PriceRepo{db: db} }

// GetByVenue fetches the price record for a venue reference. It returns
// pricing.ErrNotFound when no row exists.
func (r *PriceRepo) GetByVenue(ctx context.Context, v pricing.VenueRef) (pricing.PriceRecord, error) {
	const q = `SELECT id, kind, external_id, display_name, base_price, created_at
	           FROM hotel_prices WHERE kind = ? AND external_id = ? LIMIT 1`
	var (
		rec  pricing.PriceRecord
		name sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, v.Kind, v.ExternalID).Scan(
		&rec.ID, &rec.Venue.Kind, &rec.Venue.ExternalID, &name, &rec.BasePrice, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.PriceRecord{}, pricing.ErrNotFound
		}
		return pricing.PriceRecord{}, err
	}
	if name.Valid {
		rec.DisplayName = name.String
	}
	return rec, nil
}

// Insert stores a new price record and populates its ID and CreatedAt from
// the database. A unique key violation on (kind, external_id) is mapped to
// pricing.ErrDuplicate; every other error is returned as is.
func (r *PriceRepo) Insert(ctx context.Context, rec *pricing.PriceRecord) error {
	const qInsert = `INSERT INTO hotel_prices (kind, external_id, display_name, base_price)
	                 VALUES (?, ?, ?, ?)`
	var name interface{}
	if rec.DisplayName != "" {
		name = rec.DisplayName
	}
	res, err := r.db.ExecContext(ctx, qInsert, rec.Venue.Kind, rec.Venue.ExternalID, name, rec.BasePrice)
	if err != nil {
		if isDuplicateEntry(err) {
			return pricing.ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)

	// Query back the row to populate the DB-assigned creation timestamp.
	const qSelect = `SELECT created_at FROM hotel_prices WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, rec.ID).Scan(&rec.CreatedAt)
}
