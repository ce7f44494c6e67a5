package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adilhz/travelhub-server/internal/pricing"
	"github.com/adilhz/travelhub-server/internal/queue"
	"github.com/adilhz/travelhub-server/internal/repository"
	queue_publisher "github.com/adilhz/travelhub-server/internal/service"
)

// ReservationHandler creates and manages bookings on behalf of the
// authenticated customer. Totals are computed exactly once at creation
// from the product's unit price, the duration and the party size, and are
// never recomputed; later changes to inventory prices leave existing
// reservations untouched.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Flights      *repository.FlightRepo
	Vehicles     *repository.VehicleRepo
	Prices       *pricing.Service
}

func NewReservationHandler(res *repository.ReservationRepo, fl *repository.FlightRepo, ve *repository.VehicleRepo, pr *pricing.Service) *ReservationHandler {
	if res == nil || fl == nil || ve == nil || pr == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: res, Flights: fl, Vehicles: ve, Prices: pr}
}

type reservationCreateReq struct {
	ProductType string `json:"product_type"` // FLIGHT | LODGING | VEHICLE

	// Flight and vehicle bookings reference inventory rows by id.
	FlightID  uint64 `json:"flight_id"`
	VehicleID uint64 `json:"vehicle_id"`

	// Lodging bookings reference the external catalog venue directly.
	Kind        string `json:"kind"`
	ExternalID  uint64 `json:"external_id"`
	DisplayName string `json:"display_name"`

	StartsOn   *time.Time `json:"starts_on"`
	EndsOn     *time.Time `json:"ends_on"`
	Guests     uint32     `json:"guests"`
	Passengers uint32     `json:"passengers"`

	ExtrasCents int64 `json:"extras_cents"`
}

// Create handles POST /v1/reservations. The request shape depends on
// product_type; in every case the total is derived server side and
// frozen into the stored row.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	var res *repository.Reservation
	switch strings.ToUpper(strings.TrimSpace(req.ProductType)) {
	case repository.ProductFlight:
		res, err = h.buildFlight(ctx, userID, req)
	case repository.ProductLodging:
		res, err = h.buildLodging(ctx, userID, req)
	case repository.ProductVehicle:
		res, err = h.buildVehicle(ctx, userID, req)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_type must be FLIGHT, LODGING or VEHICLE"})
	}
	if err != nil {
		return reservationError(c, err)
	}

	if err := h.Reservations.Create(ctx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create reservation"})
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *ReservationHandler) buildFlight(ctx context.Context, userID uint64, req reservationCreateReq) (*repository.Reservation, error) {
	if req.FlightID == 0 || req.Passengers == 0 {
		return nil, errValidation("flight_id and passengers are required")
	}
	f, err := h.Flights.GetByID(ctx, req.FlightID)
	if err != nil {
		return nil, err
	}
	return &repository.Reservation{
		UserID:      userID,
		ProductType: repository.ProductFlight,
		ProductRef:  strconv.FormatUint(f.ID, 10),
		StartsOn:    &f.DepartsAt,
		EndsOn:      &f.ArrivesAt,
		Guests:      req.Passengers,
		UnitCents:   f.SeatPriceCents,
		TotalCents:  pricing.FlightTotal(f.SeatPriceCents, int64(req.Passengers)),
		Status:      repository.ReservationPending,
	}, nil
}

func (h *ReservationHandler) buildLodging(ctx context.Context, userID uint64, req reservationCreateReq) (*repository.Reservation, error) {
	if req.Kind == "" || req.ExternalID == 0 {
		return nil, errValidation("kind and external_id are required")
	}
	if req.StartsOn == nil || req.EndsOn == nil || !req.EndsOn.After(*req.StartsOn) {
		return nil, errValidation("starts_on and ends_on must form a positive stay")
	}
	if req.Guests == 0 {
		return nil, errValidation("guests is required")
	}
	nights := int64(req.EndsOn.Sub(*req.StartsOn).Hours() / 24)
	if nights < 1 {
		return nil, errValidation("stay must cover at least one night")
	}

	// The ensure-or-create workflow is the pricing source for lodging: a
	// venue booked for the first time mints its permanent price here.
	ref := pricing.VenueRef{Kind: req.Kind, ExternalID: req.ExternalID}
	ens, err := h.Prices.Ensure(ctx, ref, req.DisplayName)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidVenue) {
			return nil, errValidation("kind and external_id are required")
		}
		return nil, err
	}
	return &repository.Reservation{
		UserID:      userID,
		ProductType: repository.ProductLodging,
		ProductRef:  ref.Canonical(),
		StartsOn:    req.StartsOn,
		EndsOn:      req.EndsOn,
		Guests:      req.Guests,
		UnitCents:   ens.Record.BasePrice,
		TotalCents:  pricing.LodgingTotal(ens.Record.BasePrice, nights, int64(req.Guests)),
		Status:      repository.ReservationPending,
	}, nil
}

func (h *ReservationHandler) buildVehicle(ctx context.Context, userID uint64, req reservationCreateReq) (*repository.Reservation, error) {
	if req.VehicleID == 0 {
		return nil, errValidation("vehicle_id is required")
	}
	if req.StartsOn == nil || req.EndsOn == nil || !req.EndsOn.After(*req.StartsOn) {
		return nil, errValidation("starts_on and ends_on must form a positive rental period")
	}
	if req.ExtrasCents < 0 {
		return nil, errValidation("extras_cents must not be negative")
	}
	days := int64(req.EndsOn.Sub(*req.StartsOn).Hours() / 24)
	if days < 1 {
		days = 1 // same-day rentals bill one day
	}
	v, err := h.Vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	guests := req.Guests
	if guests == 0 {
		guests = 1
	}
	return &repository.Reservation{
		UserID:      userID,
		ProductType: repository.ProductVehicle,
		ProductRef:  strconv.FormatUint(v.ID, 10),
		StartsOn:    req.StartsOn,
		EndsOn:      req.EndsOn,
		Guests:      guests,
		UnitCents:   v.DailyRateCents,
		ExtrasCents: req.ExtrasCents,
		TotalCents:  pricing.ReservationTotal(v.DailyRateCents, days, req.ExtrasCents, pricing.VehicleTaxPercent),
		Status:      repository.ReservationPending,
	}, nil
}

// validationError carries a caller-facing message for 400 responses.
type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

func errValidation(msg string) error { return validationError{msg: msg} }

func reservationError(c echo.Context, err error) error {
	var ve validationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.msg})
	case errors.Is(err, repository.ErrFlightNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
	case errors.Is(err, repository.ErrVehicleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// List handles GET /v1/reservations and returns the caller's bookings.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	items, err := h.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/reservations/:id, restricted to the owner.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, res)
}

// UpdateStatus handles PATCH /v1/reservations/:id. Only the status field
// is mutable; price fields are frozen at creation.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if status != repository.ReservationPending && status != repository.ReservationCancelled {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be PENDING or CANCELLED"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Reservations.UpdateStatus(ctx, id, userID, status); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	res, err := h.Reservations.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, res)
}

// CapturePayment handles POST /v1/reservations/:id/payment. It records an
// external payment reference, confirms the reservation and publishes a
// confirmation event for downstream consumers. No payment processor is
// contacted; the reference is supplied by the payment form.
func (h *ReservationHandler) CapturePayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		PaymentRef string `json:"payment_ref"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	payRef := strings.TrimSpace(body.PaymentRef)
	if payRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_ref is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	res, err := h.Reservations.CapturePayment(ctx, id, userID, payRef)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not pending"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "capture failed"})
		}
	}

	// Publish best-effort; a broker outage must not fail the booking.
	event := queue.ReservationConfirmedEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		ProductType:   res.ProductType,
		ProductRef:    res.ProductRef,
		TotalCents:    res.TotalCents,
		PaymentRef:    payRef,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		if err := queue_publisher.PublishReservationConfirmed(pubCtx, event); err != nil {
			log.Printf("reservation %d: confirmation event not published: %v", res.ID, err)
		}
	}()

	return c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /v1/reservations/:id, restricted to the owner.
func (h *ReservationHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Reservations.Delete(ctx, id, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your reservation"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
