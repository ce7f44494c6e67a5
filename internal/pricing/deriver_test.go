package pricing

import "testing"

func TestDerivePriceDeterministic(t *testing.T) {
	refs := []VenueRef{
		{Kind: "node", ExternalID: 12345},
		{Kind: "way", ExternalID: 999},
		{Kind: "relation", ExternalID: 1},
		{Kind: "node", ExternalID: 18446744073709551615}, // max uint64 id still works
	}
	for _, v := range refs {
		a := DerivePrice(v)
		b := DerivePrice(v)
		if a != b {
			t.Errorf("DerivePrice(%v) not stable: %d vs %d", v, a, b)
		}
	}
}

func TestDerivePriceRange(t *testing.T) {
	for id := uint64(1); id <= 5000; id++ {
		p := DerivePrice(VenueRef{Kind: "node", ExternalID: id})
		if p < PriceMin || p >= PriceMax {
			t.Fatalf("DerivePrice(node-%d) = %d, want in [%d,%d)", id, p, PriceMin, PriceMax)
		}
	}
}

func TestDerivePriceKindMatters(t *testing.T) {
	// Same id under different kinds should not collide for these refs;
	// a collision here would mean the kind is not part of the hash input.
	node := DerivePrice(VenueRef{Kind: "node", ExternalID: 42})
	way := DerivePrice(VenueRef{Kind: "way", ExternalID: 42})
	rel := DerivePrice(VenueRef{Kind: "relation", ExternalID: 42})
	if node == way && way == rel {
		t.Errorf("kinds node/way/relation all derive %d for id 42", node)
	}
}

func TestDerivePriceCaseInsensitiveKind(t *testing.T) {
	a := DerivePrice(VenueRef{Kind: "Node", ExternalID: 7})
	b := DerivePrice(VenueRef{Kind: "node", ExternalID: 7})
	if a != b {
		t.Errorf("kind casing changed the price: %d vs %d", a, b)
	}
}

// TestDerivePriceKnownVectors pins concrete outputs. These values are
// permanent: stored prices were minted with this exact arithmetic, so any
// change to the hash, prefix width or range must fail this test.
func TestDerivePriceKnownVectors(t *testing.T) {
	vectors := []struct {
		ref  VenueRef
		want int64
	}{
		{VenueRef{Kind: "node", ExternalID: 12345}, 298815},
		{VenueRef{Kind: "way", ExternalID: 999}, 159810},
		{VenueRef{Kind: "relation", ExternalID: 1}, 271836},
		{VenueRef{Kind: "node", ExternalID: 1}, 104842},
	}
	for _, tc := range vectors {
		if got := DerivePrice(tc.ref); got != tc.want {
			t.Errorf("DerivePrice(%v) = %d, want %d", tc.ref, got, tc.want)
		}
	}
}
