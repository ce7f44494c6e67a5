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

// POIHandler exposes public browsing and admin CRUD for points of
// interest (the bookable services catalog).
type POIHandler struct {
	POIs *repository.POIRepo
}

func NewPOIHandler(repo *repository.POIRepo) *POIHandler {
	if repo == nil {
		panic("nil repository passed to NewPOIHandler")
	}
	return &POIHandler{POIs: repo}
}

// List handles GET /v1/pois with optional city/category filters.
func (h *POIHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	items, err := h.POIs.List(ctx, c.QueryParam("city"), c.QueryParam("category"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/pois/:id.
func (h *POIHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	p, err := h.POIs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPOINotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "poi not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /v1/pois (admin only).
func (h *POIHandler) Create(c echo.Context) error {
	var body struct {
		Name          string `json:"name"`
		Category      string `json:"category"`
		City          string `json:"city"`
		Description   string `json:"description"`
		EntryFeeCents int64  `json:"entry_fee_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" || strings.TrimSpace(body.City) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
	}
	if body.EntryFeeCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "entry_fee_cents must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	p := &repository.POI{
		Name:          name,
		Category:      strings.TrimSpace(body.Category),
		City:          strings.TrimSpace(body.City),
		Description:   body.Description,
		EntryFeeCents: body.EntryFeeCents,
	}
	if err := h.POIs.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create poi"})
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PATCH /v1/pois/:id (admin only).
func (h *POIHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var u repository.POIUpdate
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.POIs.Update(ctx, id, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrPOINotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "poi not found"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	p, err := h.POIs.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/pois/:id (admin only).
func (h *POIHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.POIs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPOINotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "poi not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
