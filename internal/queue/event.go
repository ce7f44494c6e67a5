// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when payment is captured for a
// reservation. It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	ProductType   string `json:"product_type"`
	ProductRef    string `json:"product_ref"`
	TotalCents    int64  `json:"total_cents"`
	PaymentRef    string `json:"payment_ref"`
	ConfirmedAt   string `json:"confirmed_at"`
}
