package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adilhz/travelhub-server/internal/pricing"
)

// PriceHandler exposes the lodging price endpoints. Prices for hotels are
// not stored in any upstream catalog; they are minted deterministically on
// first request and permanent afterwards, so the ensure endpoint is
// idempotent and safe to retry.
type PriceHandler struct {
	Prices *pricing.Service
}

func NewPriceHandler(svc *pricing.Service) *PriceHandler {
	if svc == nil {
		panic("nil pricing service passed to NewPriceHandler")
	}
	return &PriceHandler{Prices: svc}
}

type ensurePriceReq struct {
	Kind        string  `json:"kind"`
	ExternalID  *uint64 `json:"externalId"`
	DisplayName string  `json:"displayName"`
}

type priceResp struct {
	BasePrice int64 `json:"basePrice"`
	Created   bool  `json:"created"`
}

// EnsurePrice handles POST /ensure-price. It returns the venue's base
// price, creating the record exactly once; concurrent first-time requests
// for the same venue all succeed and agree on the price.
func (h *PriceHandler) EnsurePrice(c echo.Context) error {
	var req ensurePriceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Kind == "" || req.ExternalID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind and externalId are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	ref := pricing.VenueRef{Kind: req.Kind, ExternalID: *req.ExternalID}
	res, err := h.Prices.Ensure(ctx, ref, req.DisplayName)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidVenue) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind and externalId are required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ensure price failed"})
	}
	return c.JSON(http.StatusOK, priceResp{BasePrice: res.Record.BasePrice, Created: res.Created})
}

// GetPrice handles GET /price?kind=&externalId=. It never creates a
// record: a venue that was never ensured yields 404 so that display-only
// reads stay free of side effects.
func (h *PriceHandler) GetPrice(c echo.Context) error {
	kind := c.QueryParam("kind")
	extRaw := c.QueryParam("externalId")
	if kind == "" || extRaw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind and externalId are required"})
	}
	extID, err := strconv.ParseUint(extRaw, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "externalId must be a positive integer"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	rec, err := h.Prices.Lookup(ctx, pricing.VenueRef{Kind: kind, ExternalID: extID})
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidVenue):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind and externalId are required"})
		case errors.Is(err, pricing.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no price for venue"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"basePrice": rec.BasePrice})
}
