package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// commonDates returns the dates present in every listed series, ascending.
func commonDates(prices PriceStore, symbols []string) []time.Time {
	count := map[time.Time]int{}
	for _, sym := range symbols {
		for _, p := range prices[sym] {
			count[p.Date]++
		}
	}
	common := make([]time.Time, 0, len(count))
	for d, c := range count {
		if c == len(symbols) {
			common = append(common, d)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i].Before(common[j]) })
	return common
}

// BuildPortfolioValue converts prices, weights and an investment into the
// portfolio value series, one point per date every held ticker traded.
//
// Each ticker buys investment*weight worth of shares at its close on the first
// common date, so the series starts at investment. When more than one ticker is
// held the weighted average raw price series is returned as well.
func BuildPortfolioValue(prices PriceStore, w Weighting, investment float64) (ValueSeries, ValueSeries, error) {
	if investment <= 0 || math.IsNaN(investment) || math.IsInf(investment, 0) {
		return nil, nil, fmt.Errorf("%w: %f", ErrInvalidInvestment, investment)
	}
	if len(w) == 0 {
		return nil, nil, fmt.Errorf("%w: no assets", ErrInvalidWeights)
	}
	for _, a := range w {
		if len(prices[a.Symbol]) == 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingData, a.Symbol)
		}
	}

	symbols := w.Symbols()
	dates := commonDates(prices, symbols)
	if len(dates) == 0 {
		return nil, nil, fmt.Errorf("%w: no date common to %v", ErrInsufficientHistory, symbols)
	}

	lookups := make([]map[time.Time]float64, len(w))
	shares := make([]float64, len(w))
	for i, a := range w {
		lookups[i] = prices[a.Symbol].byDate()
		shares[i] = investment * a.Weight / lookups[i][dates[0]]
	}

	value := make(ValueSeries, len(dates))
	var weighted ValueSeries
	if len(w) > 1 {
		weighted = make(ValueSeries, len(dates))
	}
	for di, d := range dates {
		v, avg := 0.0, 0.0
		for i, a := range w {
			price := lookups[i][d]
			v += shares[i] * price
			avg += a.Weight * price
		}
		value[di] = ValuePoint{Date: d, Value: v}
		if weighted != nil {
			weighted[di] = ValuePoint{Date: d, Value: avg}
		}
	}
	return value, weighted, nil
}
