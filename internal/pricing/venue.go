// Package pricing implements deterministic base prices for lodging venues
// referenced by an external map catalog, and the workflow that mints each
// price exactly once. A venue is identified by a catalog element kind
// ("node", "way", "relation") plus the catalog's numeric element id; the
// service never generates these identifiers itself.
package pricing

import (
	"fmt"
	"strings"
	"time"
)

// VenueRef is the composite key of an externally cataloged place. It is
// supplied by the caller and treated as opaque: any non-empty kind and any
// non-zero id form a valid reference.
type VenueRef struct {
	Kind       string
	ExternalID uint64
}

// Validate reports whether the reference carries both identifying parts.
func (v VenueRef) Validate() error {
	if strings.TrimSpace(v.Kind) == "" {
		return ErrInvalidVenue
	}
	if v.ExternalID == 0 {
		return ErrInvalidVenue
	}
	return nil
}

// Canonical returns the string form "{kind}-{id}" that the price deriver
// hashes. Kind is lowercased so "Node" and "node" name the same venue.
func (v VenueRef) Canonical() string {
	return fmt.Sprintf("%s-%d", strings.ToLower(strings.TrimSpace(v.Kind)), v.ExternalID)
}

// PriceRecord mirrors the hotel_prices table. BasePrice is in currency
// minor units. DisplayName is set at most once, by the insert that wins
// the creation race, and is never overwritten afterwards.
type PriceRecord struct {
	ID          uint64
	Venue       VenueRef
	DisplayName string
	BasePrice   int64
	CreatedAt   time.Time
}
