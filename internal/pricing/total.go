package pricing

// VehicleTaxPercent is applied to the base rental amount (daily rate times
// days) when a vehicle reservation total is computed. Extras are not taxed.
const VehicleTaxPercent = 12

// ReservationTotal computes a frozen booking total in minor units:
// unit price times duration, plus extras, plus taxPercent of the base
// amount. It is evaluated exactly once when a reservation is created;
// later changes to the nominal unit price never touch stored totals.
func ReservationTotal(unitCents, duration, extrasCents, taxPercent int64) int64 {
	base := unitCents * duration
	return base + extrasCents + base*taxPercent/100
}

// LodgingTotal prices a stay: nightly base price times nights times guests.
func LodgingTotal(nightlyCents, nights, guests int64) int64 {
	return nightlyCents * nights * guests
}

// FlightTotal prices a flight booking: seat price times passenger count.
func FlightTotal(seatCents, passengers int64) int64 {
	return seatCents * passengers
}
