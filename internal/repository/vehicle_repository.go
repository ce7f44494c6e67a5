package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Vehicle represents a rentable vehicle row. DailyRateCents is the
// pre-tax rate per rental day in minor units.
type Vehicle struct {
	ID             uint64    `json:"id"`
	Make           string    `json:"make"`
	Model          string    `json:"model"`
	VehicleType    string    `json:"vehicle_type"`
	City           string    `json:"city"`
	DailyRateCents int64     `json:"daily_rate_cents"`
	Seats          uint32    `json:"seats"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var ErrVehicleNotFound = errors.New("vehicle not found")

type VehicleRepo struct {
	db *sql.DB
}

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{db: db} }

const vehicleCols = "id, make, model, vehicle_type, city, daily_rate_cents, seats, created_at, updated_at"

func scanVehicle(row interface{ Scan(...any) error }, v *Vehicle) error {
	return row.Scan(&v.ID, &v.Make, &v.Model, &v.VehicleType, &v.City,
		&v.DailyRateCents, &v.Seats, &v.CreatedAt, &v.UpdatedAt)
}

// Create inserts a vehicle and queries back DB-assigned fields.
func (r *VehicleRepo) Create(ctx context.Context, v *Vehicle) error {
	const q = `INSERT INTO vehicles (make, model, vehicle_type, city, daily_rate_cents, seats)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Make, v.Model, v.VehicleType, v.City, v.DailyRateCents, v.Seats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return scanVehicle(r.db.QueryRowContext(ctx, "SELECT "+vehicleCols+" FROM vehicles WHERE id = ?", v.ID), v)
}

// GetByID returns ErrVehicleNotFound when absent.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (*Vehicle, error) {
	var v Vehicle
	err := scanVehicle(r.db.QueryRowContext(ctx, "SELECT "+vehicleCols+" FROM vehicles WHERE id = ?", id), &v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

// List returns vehicles matching optional city/type equality filters.
func (r *VehicleRepo) List(ctx context.Context, city, vehicleType string) ([]*Vehicle, error) {
	q := "SELECT " + vehicleCols + " FROM vehicles WHERE 1=1"
	args := []any{}
	if city != "" {
		q += " AND city = ?"
		args = append(args, city)
	}
	if vehicleType != "" {
		q += " AND vehicle_type = ?"
		args = append(args, vehicleType)
	}
	q += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Vehicle
	for rows.Next() {
		v := new(Vehicle)
		if err := scanVehicle(rows, v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// VehicleUpdate carries optional replacement values for a partial update.
type VehicleUpdate struct {
	Make           *string `json:"make"`
	Model          *string `json:"model"`
	VehicleType    *string `json:"vehicle_type"`
	City           *string `json:"city"`
	DailyRateCents *int64  `json:"daily_rate_cents"`
	Seats          *uint32 `json:"seats"`
}

// Update applies the supplied fields. ErrVehicleNotFound when the target
// is absent, sql.ErrNoRows when no field was supplied.
func (r *VehicleRepo) Update(ctx context.Context, id uint64, u VehicleUpdate) error {
	set, args := buildSet(map[string]any{
		"make":             ptrVal(u.Make),
		"model":            ptrVal(u.Model),
		"vehicle_type":     ptrVal(u.VehicleType),
		"city":             ptrVal(u.City),
		"daily_rate_cents": ptrVal(u.DailyRateCents),
		"seats":            ptrVal(u.Seats),
	})
	if set == "" {
		return sql.ErrNoRows
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	args = append(args, id)
	_, err := r.db.ExecContext(ctx, "UPDATE vehicles SET "+set+" WHERE id = ?", args...)
	return err
}

// Delete removes a vehicle. Returns ErrVehicleNotFound if nothing was deleted.
func (r *VehicleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM vehicles WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVehicleNotFound
	}
	return nil
}
