package analytics

import "fmt"

// Performance summarizes holding one share over a price series
type Performance struct {
	Symbol     string
	Initial    float64
	Final      float64
	Gain       float64 // Final - Initial, per share
	GainPct    float64 // Gain as percentage of Initial
	CAGR       float64 // Percent, over the elapsed span
	Years      float64
	PositiveUp bool // Final above Initial
}

// SharePerformance computes the one-share performance of s.
func SharePerformance(symbol string, s PriceSeries) (Performance, error) {
	if len(s) == 0 {
		return Performance{}, fmt.Errorf("%w: no data found for ticker %s", ErrMissingData, symbol)
	}
	if len(s) < 2 {
		return Performance{}, fmt.Errorf("%w: %s has a single price", ErrInsufficientHistory, symbol)
	}
	initial, final := s.First(), s.Last()
	years := Years(s[0].Date, s[len(s)-1].Date)
	gain := final - initial
	return Performance{
		Symbol:     symbol,
		Initial:    initial,
		Final:      final,
		Gain:       gain,
		GainPct:    gain / initial * 100,
		CAGR:       cagr(initial, final, years),
		Years:      years,
		PositiveUp: final > initial,
	}, nil
}
