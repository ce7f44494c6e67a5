package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adilhz/travelhub-server/internal/pricing"
)

// stubStore is an in-memory pricing.Store with the same error contract as
// the SQL repository, so handler tests run without a database.
type stubStore struct {
	mu   sync.Mutex
	rows map[pricing.VenueRef]pricing.PriceRecord
}

func newStubStore() *stubStore {
	return &stubStore{rows: map[pricing.VenueRef]pricing.PriceRecord{}}
}

func (s *stubStore) GetByVenue(_ context.Context, v pricing.VenueRef) (pricing.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[v]
	if !ok {
		return pricing.PriceRecord{}, pricing.ErrNotFound
	}
	return rec, nil
}

func (s *stubStore) Insert(_ context.Context, rec *pricing.PriceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[rec.Venue]; ok {
		return pricing.ErrDuplicate
	}
	rec.ID = uint64(len(s.rows) + 1)
	rec.CreatedAt = time.Now().UTC()
	s.rows[rec.Venue] = *rec
	return nil
}

func newPriceHandler() *PriceHandler {
	return NewPriceHandler(pricing.NewService(newStubStore()))
}

func doEnsure(t *testing.T, h *PriceHandler, body string) (*httptest.ResponseRecorder, priceResp) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/ensure-price", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.EnsurePrice(e.NewContext(req, rec)); err != nil {
		t.Fatalf("EnsurePrice returned error: %v", err)
	}
	var out priceResp
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
	}
	return rec, out
}

func TestEnsurePriceFirstThenExisting(t *testing.T) {
	h := newPriceHandler()

	rec, first := doEnsure(t, h, `{"kind":"node","externalId":12345,"displayName":"Hotel Aurora"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first ensure status = %d, want 200", rec.Code)
	}
	if !first.Created {
		t.Errorf("first ensure created = false, want true")
	}
	if first.BasePrice < pricing.PriceMin || first.BasePrice >= pricing.PriceMax {
		t.Errorf("price %d out of range", first.BasePrice)
	}

	rec, second := doEnsure(t, h, `{"kind":"node","externalId":12345}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("second ensure status = %d, want 200", rec.Code)
	}
	if second.Created {
		t.Errorf("second ensure created = true, want false")
	}
	if second.BasePrice != first.BasePrice {
		t.Errorf("second ensure price %d, want %d", second.BasePrice, first.BasePrice)
	}
}

func TestEnsurePriceMissingFields(t *testing.T) {
	h := newPriceHandler()
	for _, body := range []string{
		`{}`,
		`{"kind":"node"}`,
		`{"externalId":7}`,
		`not json`,
	} {
		rec, _ := doEnsure(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestGetPriceBeforeEnsure(t *testing.T) {
	h := newPriceHandler()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/price?kind=node&externalId=1", nil)
	rec := httptest.NewRecorder()
	if err := h.GetPrice(e.NewContext(req, rec)); err != nil {
		t.Fatalf("GetPrice returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 before any ensure call", rec.Code)
	}
}

func TestGetPriceAfterEnsure(t *testing.T) {
	h := newPriceHandler()
	_, ensured := doEnsure(t, h, `{"kind":"way","externalId":999}`)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/price?kind=way&externalId=999", nil)
	rec := httptest.NewRecorder()
	if err := h.GetPrice(e.NewContext(req, rec)); err != nil {
		t.Fatalf("GetPrice returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out struct {
		BasePrice int64 `json:"basePrice"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.BasePrice != ensured.BasePrice {
		t.Errorf("lookup price %d, want ensured %d", out.BasePrice, ensured.BasePrice)
	}
}

func TestGetPriceBadQuery(t *testing.T) {
	h := newPriceHandler()
	for _, q := range []string{"", "kind=node", "externalId=5", "kind=node&externalId=abc"} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/price?"+q, nil)
		rec := httptest.NewRecorder()
		if err := h.GetPrice(e.NewContext(req, rec)); err != nil {
			t.Fatalf("GetPrice returned error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", q, rec.Code)
		}
	}
}
