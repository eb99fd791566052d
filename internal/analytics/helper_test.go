package analytics

import "time"

var day0 = time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

// series builds a PriceSeries on consecutive days starting at day0.
func series(closes ...float64) PriceSeries {
	out := make(PriceSeries, len(closes))
	for i, c := range closes {
		out[i] = PricePoint{Date: day0.AddDate(0, 0, i), Close: c}
	}
	return out
}

// seriesOn builds a PriceSeries on the given day offsets from day0.
func seriesOn(offsets []int, closes ...float64) PriceSeries {
	out := make(PriceSeries, len(closes))
	for i, c := range closes {
		out[i] = PricePoint{Date: day0.AddDate(0, 0, offsets[i]), Close: c}
	}
	return out
}

func yield(v float64) *float64 { return &v }
