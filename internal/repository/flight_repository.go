// This file defines the Flight model and repository methods for CRUD and
// filtered listing. A Flight is an inventory row describing a scheduled
// leg; seats sell at a single cabin price in minor units.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Flight represents a flight entity persisted in the database.
type Flight struct {
	ID             uint64    `json:"id"`
	Airline        string    `json:"airline"`
	FlightNumber   string    `json:"flight_number"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartsAt      time.Time `json:"departs_at"`
	ArrivesAt      time.Time `json:"arrives_at"`
	SeatPriceCents int64     `json:"seat_price_cents"`
	SeatsTotal     uint32    `json:"seats_total"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ErrFlightNotFound is returned when a flight cannot be found in the DB.
var ErrFlightNotFound = errors.New("flight not found")

// FlightRepo encapsulates all database queries related to flights.
type FlightRepo struct {
	db *sql.DB
}

func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

const flightCols = "id, airline, flight_number, origin, destination, departs_at, arrives_at, seat_price_cents, seats_total, created_at, updated_at"

func scanFlight(row interface{ Scan(...any) error }, f *Flight) error {
	return row.Scan(&f.ID, &f.Airline, &f.FlightNumber, &f.Origin, &f.Destination,
		&f.DepartsAt, &f.ArrivesAt, &f.SeatPriceCents, &f.SeatsTotal, &f.CreatedAt, &f.UpdatedAt)
}

// Create inserts a new flight. On success the ID, CreatedAt and UpdatedAt
// fields are populated from the database.
func (r *FlightRepo) Create(ctx context.Context, f *Flight) error {
	const q = `INSERT INTO flights (airline, flight_number, origin, destination, departs_at, arrives_at, seat_price_cents, seats_total)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		f.Airline, f.FlightNumber, f.Origin, f.Destination, f.DepartsAt, f.ArrivesAt, f.SeatPriceCents, f.SeatsTotal)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return scanFlight(r.db.QueryRowContext(ctx, "SELECT "+flightCols+" FROM flights WHERE id = ?", f.ID), f)
}

// GetByID fetches a flight by its ID. Returns ErrFlightNotFound if absent.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*Flight, error) {
	var f Flight
	err := scanFlight(r.db.QueryRowContext(ctx, "SELECT "+flightCols+" FROM flights WHERE id = ?", id), &f)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

// List returns flights matching the given equality filters. Empty filter
// values are ignored. Results are ordered by departure time.
func (r *FlightRepo) List(ctx context.Context, origin, destination, airline string) ([]*Flight, error) {
	q := "SELECT " + flightCols + " FROM flights WHERE 1=1"
	args := []any{}
	if origin != "" {
		q += " AND origin = ?"
		args = append(args, origin)
	}
	if destination != "" {
		q += " AND destination = ?"
		args = append(args, destination)
	}
	if airline != "" {
		q += " AND airline = ?"
		args = append(args, airline)
	}
	q += " ORDER BY departs_at"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Flight
	for rows.Next() {
		f := new(Flight)
		if err := scanFlight(rows, f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FlightUpdate carries optional replacement values for a partial update.
// Nil pointers leave the column untouched.
type FlightUpdate struct {
	Airline        *string    `json:"airline"`
	FlightNumber   *string    `json:"flight_number"`
	Origin         *string    `json:"origin"`
	Destination    *string    `json:"destination"`
	DepartsAt      *time.Time `json:"departs_at"`
	ArrivesAt      *time.Time `json:"arrives_at"`
	SeatPriceCents *int64     `json:"seat_price_cents"`
	SeatsTotal     *uint32    `json:"seats_total"`
}

// Update applies the supplied fields to a flight. It returns
// ErrFlightNotFound when the target row does not exist and sql.ErrNoRows
// when no field was supplied.
func (r *FlightRepo) Update(ctx context.Context, id uint64, u FlightUpdate) error {
	set, args := buildSet(map[string]any{
		"airline":          ptrVal(u.Airline),
		"flight_number":    ptrVal(u.FlightNumber),
		"origin":           ptrVal(u.Origin),
		"destination":      ptrVal(u.Destination),
		"departs_at":       ptrVal(u.DepartsAt),
		"arrives_at":       ptrVal(u.ArrivesAt),
		"seat_price_cents": ptrVal(u.SeatPriceCents),
		"seats_total":      ptrVal(u.SeatsTotal),
	})
	if set == "" {
		return sql.ErrNoRows
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	args = append(args, id)
	_, err := r.db.ExecContext(ctx, "UPDATE flights SET "+set+" WHERE id = ?", args...)
	return err
}

// Delete removes a flight. Returns ErrFlightNotFound if nothing was deleted.
func (r *FlightRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM flights WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFlightNotFound
	}
	return nil
}
