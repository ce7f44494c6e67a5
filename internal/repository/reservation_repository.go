package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Reservation status values stored in the reservations.status enum.
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
)

// Product kinds a reservation can refer to.
const (
	ProductFlight  = "FLIGHT"
	ProductLodging = "LODGING"
	ProductVehicle = "VEHICLE"
)

var ErrReservationNotFound = errors.New("reservation not found")

// Reservation mirrors the reservations table. TotalCents is computed once
// from the unit price, duration and party size at creation and then
// frozen; no update path touches the price columns. ProductRef holds the
// flight/vehicle id, or the venue canonical string for lodging.
type Reservation struct {
	ID          uint64     `json:"id"`
	UserID      uint64     `json:"user_id"`
	ProductType string     `json:"product_type"`
	ProductRef  string     `json:"product_ref"`
	StartsOn    *time.Time `json:"starts_on,omitempty"`
	EndsOn      *time.Time `json:"ends_on,omitempty"`
	Guests      uint32     `json:"guests"`
	UnitCents   int64      `json:"unit_cents"`
	ExtrasCents int64      `json:"extras_cents"`
	TotalCents  int64      `json:"total_cents"`
	Status      string     `json:"status"`
	PaymentRef  *string    `json:"payment_ref,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ReservationRepo provides persistence for reservations. All timestamp
// fields are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationCols = "id, user_id, product_type, product_ref, starts_on, ends_on, guests, unit_cents, extras_cents, total_cents, status, payment_ref, created_at, updated_at"

func scanReservation(row interface{ Scan(...any) error }, res *Reservation) error {
	var (
		starts, ends sql.NullTime
		payRef       sql.NullString
	)
	err := row.Scan(&res.ID, &res.UserID, &res.ProductType, &res.ProductRef,
		&starts, &ends, &res.Guests, &res.UnitCents, &res.ExtrasCents,
		&res.TotalCents, &res.Status, &payRef, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return err
	}
	if starts.Valid {
		t := starts.Time
		res.StartsOn = &t
	}
	if ends.Valid {
		t := ends.Time
		res.EndsOn = &t
	}
	if payRef.Valid {
		s := payRef.String
		res.PaymentRef = &s
	}
	return nil
}

// Create inserts a reservation with its frozen total and populates the
// generated ID and DB timestamps on the provided record.
func (r *ReservationRepo) Create(ctx context.Context, res *Reservation) error {
	const q = `INSERT INTO reservations
	           (user_id, product_type, product_ref, starts_on, ends_on, guests, unit_cents, extras_cents, total_cents, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.UserID, res.ProductType, res.ProductRef, res.StartsOn, res.EndsOn,
		res.Guests, res.UnitCents, res.ExtrasCents, res.TotalCents, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return scanReservation(
		r.db.QueryRowContext(ctx, "SELECT "+reservationCols+" FROM reservations WHERE id = ?", res.ID), res)
}

// GetByIDForUser returns a single reservation owned by the given user.
// Ownership is enforced in the query; rows of other users are invisible.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*Reservation, error) {
	var res Reservation
	err := scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE id = ? AND user_id = ?", id, userID), &res)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// ListByUser returns all reservations of a user, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]*Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE user_id = ? ORDER BY id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Reservation
	for rows.Next() {
		res := new(Reservation)
		if err := scanReservation(rows, res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus changes the status of a user's reservation. Price columns
// are deliberately not updatable here or anywhere else.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id, userID uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET status = ? WHERE id = ? AND user_id = ?", status, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByIDForUser(ctx, id, userID); err != nil {
			return err
		}
	}
	return nil
}

// CapturePayment records an external payment reference and confirms the
// reservation. Only pending reservations can be captured.
func (r *ReservationRepo) CapturePayment(ctx context.Context, id, userID uint64, paymentRef string) (*Reservation, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET status = ?, payment_ref = ? WHERE id = ? AND user_id = ? AND status = ?",
		ReservationConfirmed, paymentRef, id, userID, ReservationPending)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Distinguish "not found" from "not pending".
		existing, err := r.GetByIDForUser(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		return existing, ErrConflict
	}
	return r.GetByIDForUser(ctx, id, userID)
}

// Delete removes a user's reservation. A reservation owned by someone
// else yields ErrForbidden rather than ErrReservationNotFound so callers
// can tell the cases apart.
func (r *ReservationRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM reservations WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var owner uint64
		err := r.db.QueryRowContext(ctx,
			"SELECT user_id FROM reservations WHERE id = ?", id).Scan(&owner)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrReservationNotFound
		case err != nil:
			return err
		default:
			return ErrForbidden
		}
	}
	return nil
}
