package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adilhz/travelhub-server/internal/repository"
)

// FlightHandler exposes public browsing and admin CRUD for flights.
type FlightHandler struct {
	Flights *repository.FlightRepo
}

func NewFlightHandler(repo *repository.FlightRepo) *FlightHandler {
	if repo == nil {
		panic("nil repository passed to NewFlightHandler")
	}
	return &FlightHandler{Flights: repo}
}

// List handles GET /v1/flights with optional origin/destination/airline
// equality filters.
func (h *FlightHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	items, err := h.Flights.List(ctx,
		c.QueryParam("origin"), c.QueryParam("destination"), c.QueryParam("airline"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/flights/:id.
func (h *FlightHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	f, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, f)
}

type flightCreateReq struct {
	Airline        string    `json:"airline"`
	FlightNumber   string    `json:"flight_number"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartsAt      time.Time `json:"departs_at"`
	ArrivesAt      time.Time `json:"arrives_at"`
	SeatPriceCents int64     `json:"seat_price_cents"`
	SeatsTotal     uint32    `json:"seats_total"`
}

// Create handles POST /v1/flights (admin only).
func (h *FlightHandler) Create(c echo.Context) error {
	var req flightCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Airline == "" || req.FlightNumber == "" || req.Origin == "" || req.Destination == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "airline, flight_number, origin and destination are required"})
	}
	if req.SeatPriceCents <= 0 || req.SeatsTotal == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_price_cents and seats_total must be positive"})
	}
	if !req.ArrivesAt.After(req.DepartsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrives_at must be after departs_at"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	f := &repository.Flight{
		Airline:        req.Airline,
		FlightNumber:   req.FlightNumber,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartsAt:      req.DepartsAt,
		ArrivesAt:      req.ArrivesAt,
		SeatPriceCents: req.SeatPriceCents,
		SeatsTotal:     req.SeatsTotal,
	}
	if err := h.Flights.Create(ctx, f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create flight"})
	}
	return c.JSON(http.StatusCreated, f)
}

// Update handles PATCH /v1/flights/:id (admin only). Only the supplied
// fields are replaced.
func (h *FlightHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var u repository.FlightUpdate
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Flights.Update(ctx, id, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrFlightNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	f, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, f)
}

// Delete handles DELETE /v1/flights/:id (admin only).
func (h *FlightHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Flights.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
