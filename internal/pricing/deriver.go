package pricing

import (
	"crypto/sha256"
	"encoding/binary"
)

// Price bounds in currency minor units. The derived price falls in the
// half-open range [PriceMin, PriceMax): the modulo below makes PriceMax
// itself unreachable. Do not widen the range to include PriceMax; derived
// prices are permanent once stored, and changing the arithmetic would
// reassign every venue that has not been minted yet while contradicting
// the ones that have.
const (
	PriceMin = 90000
	PriceMax = 340000
)

// DerivePrice maps a venue reference to a stable base price. It is a pure
// function of the reference: no time, randomness or mutable state is
// consulted, so independent replicas computing it concurrently agree. It
// cannot fail; the hash accepts canonical strings of any length.
func DerivePrice(v VenueRef) int64 {
	sum := sha256.Sum256([]byte(v.Canonical()))
	d := binary.BigEndian.Uint64(sum[:8])
	return PriceMin + int64(d%uint64(PriceMax-PriceMin))
}
