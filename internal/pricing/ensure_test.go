package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// memStore is an in-memory Store with the same contract as the SQL
// implementation: reads miss with ErrNotFound and inserts collide with
// ErrDuplicate under a lock, mimicking the unique key on hotel_prices.
type memStore struct {
	mu   sync.Mutex
	rows map[VenueRef]PriceRecord
}

func newMemStore() *memStore {
	return &memStore{rows: map[VenueRef]PriceRecord{}}
}

func (m *memStore) GetByVenue(_ context.Context, v VenueRef) (PriceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rows[v]
	if !ok {
		return PriceRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *memStore) Insert(_ context.Context, rec *PriceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[rec.Venue]; ok {
		return ErrDuplicate
	}
	rec.ID = uint64(len(m.rows) + 1)
	rec.CreatedAt = time.Now().UTC()
	m.rows[rec.Venue] = *rec
	return nil
}

// failStore wraps memStore and fails every call with a fixed error, for
// exercising the persistence-failure branches.
type failStore struct{ err error }

func (f failStore) GetByVenue(context.Context, VenueRef) (PriceRecord, error) {
	return PriceRecord{}, f.err
}
func (f failStore) Insert(context.Context, *PriceRecord) error { return f.err }

func TestEnsureIdempotent(t *testing.T) {
	svc := NewService(newMemStore())
	ref := VenueRef{Kind: "node", ExternalID: 12345}

	first, err := svc.Ensure(context.Background(), ref, "Hotel Aurora")
	if err != nil {
		t.Fatalf("first Ensure: %v", err)
	}
	if !first.Created {
		t.Errorf("first Ensure: created = false, want true")
	}
	if p := first.Record.BasePrice; p < PriceMin || p >= PriceMax {
		t.Errorf("first Ensure: price %d out of range", p)
	}
	if first.Record.DisplayName != "Hotel Aurora" {
		t.Errorf("display name not stored: %q", first.Record.DisplayName)
	}

	for i := 0; i < 5; i++ {
		res, err := svc.Ensure(context.Background(), ref, "Another Name")
		if err != nil {
			t.Fatalf("Ensure #%d: %v", i+2, err)
		}
		if res.Created {
			t.Errorf("Ensure #%d: created = true, want false", i+2)
		}
		if res.Record.BasePrice != first.Record.BasePrice {
			t.Errorf("Ensure #%d: price %d, want %d", i+2, res.Record.BasePrice, first.Record.BasePrice)
		}
		if res.Record.DisplayName != "Hotel Aurora" {
			t.Errorf("Ensure #%d: display name overwritten to %q", i+2, res.Record.DisplayName)
		}
	}
}

func TestEnsureConcurrentRace(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ref := VenueRef{Kind: "way", ExternalID: 999}

	const callers = 32
	results := make([]EnsureResult, callers)
	errs := make([]error, callers)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer done.Done()
			start.Wait() // maximize overlap
			results[i], errs[i] = svc.Ensure(context.Background(), ref, "")
		}(i)
	}
	start.Done()
	done.Wait()

	created := 0
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i].Created {
			created++
		}
		if results[i].Record.BasePrice != results[0].Record.BasePrice {
			t.Errorf("caller %d price %d differs from %d",
				i, results[i].Record.BasePrice, results[0].Record.BasePrice)
		}
	}
	if created != 1 {
		t.Errorf("created observed %d times, want exactly 1", created)
	}
	if n := len(store.rows); n != 1 {
		t.Errorf("store holds %d rows, want 1", n)
	}
}

func TestEnsureConflictReadsStoredValue(t *testing.T) {
	// Pre-seed a row whose price deliberately differs from what today's
	// deriver would produce, then force the insert path by wrapping the
	// store so the initial read misses once. The conflict recovery must
	// return the stored value, not the locally derived one.
	store := newMemStore()
	ref := VenueRef{Kind: "node", ExternalID: 777}
	stored := PriceRecord{Venue: ref, BasePrice: PriceMin + 1}

	raced := &racingStore{inner: store, seed: stored}
	res, err := NewService(raced).Ensure(context.Background(), ref, "")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if res.Created {
		t.Errorf("created = true after losing the race")
	}
	if res.Record.BasePrice != stored.BasePrice {
		t.Errorf("price %d, want stored %d", res.Record.BasePrice, stored.BasePrice)
	}
}

// racingStore simulates losing the creation race: the first read misses,
// the insert hits a duplicate because a competitor committed seed in the
// meantime, and subsequent reads observe the competitor's row.
type racingStore struct {
	inner *memStore
	seed  PriceRecord
	reads int
}

func (r *racingStore) GetByVenue(ctx context.Context, v VenueRef) (PriceRecord, error) {
	r.reads++
	if r.reads == 1 {
		return PriceRecord{}, ErrNotFound
	}
	return r.inner.GetByVenue(ctx, v)
}

func (r *racingStore) Insert(ctx context.Context, rec *PriceRecord) error {
	seed := r.seed
	_ = r.inner.Insert(ctx, &seed) // competitor wins just before us
	return ErrDuplicate
}

func TestEnsureInvalidVenue(t *testing.T) {
	svc := NewService(newMemStore())
	for _, ref := range []VenueRef{
		{Kind: "", ExternalID: 5},
		{Kind: "   ", ExternalID: 5},
		{Kind: "node", ExternalID: 0},
	} {
		if _, err := svc.Ensure(context.Background(), ref, ""); !errors.Is(err, ErrInvalidVenue) {
			t.Errorf("Ensure(%v) err = %v, want ErrInvalidVenue", ref, err)
		}
	}
}

func TestEnsurePersistenceFailure(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewService(failStore{err: boom}).Ensure(
		context.Background(), VenueRef{Kind: "node", ExternalID: 1}, "")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
		t.Errorf("persistence failure mapped onto a workflow sentinel: %v", err)
	}
}

func TestLookupNeverCreates(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ref := VenueRef{Kind: "node", ExternalID: 1}

	if _, err := svc.Lookup(context.Background(), ref); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Lookup on empty store: err = %v, want ErrNotFound", err)
	}
	if len(store.rows) != 0 {
		t.Fatalf("Lookup minted a record")
	}

	if _, err := svc.Ensure(context.Background(), ref, ""); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	rec, err := svc.Lookup(context.Background(), ref)
	if err != nil {
		t.Fatalf("Lookup after Ensure: %v", err)
	}
	if rec.BasePrice != DerivePrice(ref) {
		t.Errorf("Lookup price %d, want %d", rec.BasePrice, DerivePrice(ref))
	}
}
