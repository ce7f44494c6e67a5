package pricing

import "testing"

func TestReservationTotal(t *testing.T) {
	cases := []struct {
		name                           string
		unit, duration, extras, taxPct int64
		want                           int64
	}{
		{"vehicle with extras and tax", 100, 3, 10, 12, 346}, // 300 + 10 + 36
		{"no tax no extras", 250, 2, 0, 0, 500},
		{"tax rounds down", 101, 1, 0, 12, 113}, // 101 + 12.12 -> 12
		{"zero duration", 100, 0, 25, 12, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReservationTotal(tc.unit, tc.duration, tc.extras, tc.taxPct); got != tc.want {
				t.Errorf("ReservationTotal(%d,%d,%d,%d) = %d, want %d",
					tc.unit, tc.duration, tc.extras, tc.taxPct, got, tc.want)
			}
		})
	}
}

func TestLodgingTotal(t *testing.T) {
	if got := LodgingTotal(120000, 3, 2); got != 720000 {
		t.Errorf("LodgingTotal = %d, want 720000", got)
	}
}

func TestFlightTotal(t *testing.T) {
	if got := FlightTotal(45000, 4); got != 180000 {
		t.Errorf("FlightTotal = %d, want 180000", got)
	}
}
