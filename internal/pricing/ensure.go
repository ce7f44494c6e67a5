package pricing

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors shared between the pricing service and its stores.
// Handlers translate these into status codes; everything else coming out
// of a store is treated as a persistence failure.
var (
	// ErrInvalidVenue marks a reference missing its kind or id.
	ErrInvalidVenue = errors.New("invalid venue reference")
	// ErrNotFound is returned by read-only lookups when no price record
	// exists for the venue yet.
	ErrNotFound = errors.New("price record not found")
	// ErrDuplicate is returned by Store.Insert when a record for the same
	// venue already exists. Inside Ensure it is the expected losing branch
	// of the creation race, not a failure.
	ErrDuplicate = errors.New("price record already exists")
)

// Store is the persistence capability the workflow needs: a point read by
// venue and an insert that reports a uniqueness violation as ErrDuplicate.
// The production implementation is repository.PriceRepo backed by the
// hotel_prices UNIQUE(kind, external_id) key; tests substitute an
// in-memory store.
type Store interface {
	GetByVenue(ctx context.Context, v VenueRef) (PriceRecord, error)
	Insert(ctx context.Context, rec *PriceRecord) error
}

// EnsureResult is the outcome of an ensure-or-create call. Created is true
// only for the single caller whose insert won; every other caller, then
// and forever, observes the stored record with Created false.
type EnsureResult struct {
	Record  PriceRecord
	Created bool
}

// Service answers price questions for venue references.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	if store == nil {
		panic("nil store passed to pricing.NewService")
	}
	return &Service{store: store}
}

// Ensure returns the price record for v, creating it if this is the first
// time the venue has been asked about. Safe under concurrent callers and
// across replicas: correctness rests on the store's uniqueness constraint,
// not on any in-process lock. A duplicate-key conflict during insert means
// another caller created the row first; the stored row is authoritative,
// so Ensure re-reads it rather than returning the locally derived value.
func (s *Service) Ensure(ctx context.Context, v VenueRef, displayName string) (EnsureResult, error) {
	if err := v.Validate(); err != nil {
		return EnsureResult{}, err
	}

	rec, err := s.store.GetByVenue(ctx, v)
	if err == nil {
		return EnsureResult{Record: rec, Created: false}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return EnsureResult{}, fmt.Errorf("lookup price: %w", err)
	}

	rec = PriceRecord{
		Venue:       v,
		DisplayName: displayName,
		BasePrice:   DerivePrice(v),
	}
	err = s.store.Insert(ctx, &rec)
	if err == nil {
		return EnsureResult{Record: rec, Created: true}, nil
	}
	if !errors.Is(err, ErrDuplicate) {
		return EnsureResult{}, fmt.Errorf("insert price: %w", err)
	}

	// Lost the race. The winner's value equals ours today because the
	// deriver is deterministic, but read it back anyway so a future change
	// to the derivation can never make two callers disagree.
	rec, err = s.store.GetByVenue(ctx, v)
	if err != nil {
		return EnsureResult{}, fmt.Errorf("re-read after conflict: %w", err)
	}
	return EnsureResult{Record: rec, Created: false}, nil
}

// Lookup returns the stored price record for v without ever creating one.
// Callers that want creation-on-demand must use Ensure; the separation
// keeps display-only reads free of side effects.
func (s *Service) Lookup(ctx context.Context, v VenueRef) (PriceRecord, error) {
	if err := v.Validate(); err != nil {
		return PriceRecord{}, err
	}
	return s.store.GetByVenue(ctx, v)
}
