package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adilhz/travelhub-server/internal/repository"
)

// VehicleHandler exposes public browsing and admin CRUD for rental
// vehicles.
type VehicleHandler struct {
	Vehicles *repository.VehicleRepo
}

func NewVehicleHandler(repo *repository.VehicleRepo) *VehicleHandler {
	if repo == nil {
		panic("nil repository passed to NewVehicleHandler")
	}
	return &VehicleHandler{Vehicles: repo}
}

// List handles GET /v1/vehicles with optional city/type filters.
func (h *VehicleHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	items, err := h.Vehicles.List(ctx, c.QueryParam("city"), c.QueryParam("type"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/vehicles/:id.
func (h *VehicleHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	v, err := h.Vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, v)
}

// Create handles POST /v1/vehicles (admin only).
func (h *VehicleHandler) Create(c echo.Context) error {
	var body struct {
		Make           string `json:"make"`
		Model          string `json:"model"`
		VehicleType    string `json:"vehicle_type"`
		City           string `json:"city"`
		DailyRateCents int64  `json:"daily_rate_cents"`
		Seats          uint32 `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Make) == "" || strings.TrimSpace(body.Model) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "make and model are required"})
	}
	if body.DailyRateCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "daily_rate_cents must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	v := &repository.Vehicle{
		Make:           strings.TrimSpace(body.Make),
		Model:          strings.TrimSpace(body.Model),
		VehicleType:    strings.TrimSpace(body.VehicleType),
		City:           strings.TrimSpace(body.City),
		DailyRateCents: body.DailyRateCents,
		Seats:          body.Seats,
	}
	if err := h.Vehicles.Create(ctx, v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create vehicle"})
	}
	return c.JSON(http.StatusCreated, v)
}

// Update handles PATCH /v1/vehicles/:id (admin only).
func (h *VehicleHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var u repository.VehicleUpdate
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Vehicles.Update(ctx, id, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrVehicleNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	v, err := h.Vehicles.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, v)
}

// Delete handles DELETE /v1/vehicles/:id (admin only).
func (h *VehicleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Vehicles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
