// This file defines the POI model and repository. A POI (point of
// interest) is a bookable service from the activities catalog: museums,
// tours, day trips and similar, listed with an entry fee in minor units.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// POI represents a point-of-interest row.
type POI struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	City          string    `json:"city"`
	Description   string    `json:"description"`
	EntryFeeCents int64     `json:"entry_fee_cents"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var ErrPOINotFound = errors.New("poi not found")

type POIRepo struct {
	db *sql.DB
}

func NewPOIRepo(db *sql.DB) *POIRepo { return &POIRepo{db: db} }

const poiCols = "id, name, category, city, description, entry_fee_cents, created_at, updated_at"

func scanPOI(row interface{ Scan(...any) error }, p *POI) error {
	return row.Scan(&p.ID, &p.Name, &p.Category, &p.City, &p.Description,
		&p.EntryFeeCents, &p.CreatedAt, &p.UpdatedAt)
}

// Create inserts a POI and queries back DB-assigned fields.
func (r *POIRepo) Create(ctx context.Context, p *POI) error {
	const q = `INSERT INTO pois (name, category, city, description, entry_fee_cents)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.Category, p.City, p.Description, p.EntryFeeCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return scanPOI(r.db.QueryRowContext(ctx, "SELECT "+poiCols+" FROM pois WHERE id = ?", p.ID), p)
}

// GetByID returns ErrPOINotFound when absent.
func (r *POIRepo) GetByID(ctx context.Context, id uint64) (*POI, error) {
	var p POI
	err := scanPOI(r.db.QueryRowContext(ctx, "SELECT "+poiCols+" FROM pois WHERE id = ?", id), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPOINotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns POIs matching optional city/category equality filters.
func (r *POIRepo) List(ctx context.Context, city, category string) ([]*POI, error) {
	q := "SELECT " + poiCols + " FROM pois WHERE 1=1"
	args := []any{}
	if city != "" {
		q += " AND city = ?"
		args = append(args, city)
	}
	if category != "" {
		q += " AND category = ?"
		args = append(args, category)
	}
	q += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*POI
	for rows.Next() {
		p := new(POI)
		if err := scanPOI(rows, p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// POIUpdate carries optional replacement values for a partial update.
type POIUpdate struct {
	Name          *string `json:"name"`
	Category      *string `json:"category"`
	City          *string `json:"city"`
	Description   *string `json:"description"`
	EntryFeeCents *int64  `json:"entry_fee_cents"`
}

// Update applies the supplied fields. ErrPOINotFound when the target is
// absent, sql.ErrNoRows when no field was supplied.
func (r *POIRepo) Update(ctx context.Context, id uint64, u POIUpdate) error {
	set, args := buildSet(map[string]any{
		"name":            ptrVal(u.Name),
		"category":        ptrVal(u.Category),
		"city":            ptrVal(u.City),
		"description":     ptrVal(u.Description),
		"entry_fee_cents": ptrVal(u.EntryFeeCents),
	})
	if set == "" {
		return sql.ErrNoRows
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	args = append(args, id)
	_, err := r.db.ExecContext(ctx, "UPDATE pois SET "+set+" WHERE id = ?", args...)
	return err
}

// Delete removes a POI. Returns ErrPOINotFound if nothing was deleted.
func (r *POIRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM pois WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPOINotFound
	}
	return nil
}
