package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func returnsOf(values ...float64) ReturnSeries {
	out := make(ReturnSeries, len(values))
	for i, v := range values {
		out[i] = ReturnPoint{Date: day0.AddDate(0, 0, i+1), Return: v}
	}
	return out
}

func TestPositivePeriodRatio(t *testing.T) {
	assert.Equal(t, 0.0, PositivePeriodRatio(nil))
	assert.Equal(t, 0.0, PositivePeriodRatio(returnsOf(-0.01, 0, -0.02)))
	assert.Equal(t, 1.0, PositivePeriodRatio(returnsOf(0.01, 0.02)))

	r := PositivePeriodRatio(returnsOf(0.01, -0.01, 0, 0.03))
	assert.InDelta(t, 0.5, r, 1e-12)
	assert.GreaterOrEqual(t, r, 0.0)
	assert.LessOrEqual(t, r, 1.0)
}

func TestGainLossRatio(t *testing.T) {
	tests := []struct {
		name    string
		returns ReturnSeries
		want    float64
	}{
		{"mixed", returnsOf(0.02, 0.04, -0.01, -0.03), 0.03 / 0.02},
		{"no losses", returnsOf(0.01, 0, 0.02), math.Inf(1)},
		{"no gains", returnsOf(-0.01, -0.02), 0},
		{"all zero", returnsOf(0, 0, 0), 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GainLossRatio(tt.returns)
			if math.IsInf(tt.want, 1) {
				assert.True(t, math.IsInf(got, 1))
				return
			}
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestCAGR_DoublingOverTwoYears(t *testing.T) {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	v := ValueSeries{
		{Date: start, Value: 100},
		{Date: start.AddDate(1, 0, 0), Value: 150},
		{Date: start.Add(time.Duration(2*365.25*24) * time.Hour), Value: 200},
	}
	assert.InDelta(t, (math.Sqrt2-1)*100, CAGR(v), 1e-9)
	assert.InDelta(t, 41.42, CAGR(v), 0.01)
}

func TestCAGR_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, CAGR(nil))
	assert.Equal(t, 0.0, CAGR(ValueSeries{{Date: day0, Value: 100}}))
	assert.Equal(t, 0.0, CAGR(ValueSeries{{Date: day0, Value: 100}, {Date: day0, Value: 120}}))
	assert.Equal(t, 0.0, CAGR(ValueSeries{{Date: day0, Value: 0}, {Date: day0.AddDate(1, 0, 0), Value: 120}}))
}

func TestTickerBeta(t *testing.T) {
	bench := series(100, 102, 99, 103, 101)
	// ticker moves exactly twice the benchmark's daily returns
	br := DailyReturns(bench)
	closes := []float64{50}
	for _, r := range br {
		closes = append(closes, closes[len(closes)-1]*(1+2*r.Return))
	}
	assert.InDelta(t, 2.0, TickerBeta(series(closes...), bench), 1e-9)
}

func TestTickerBeta_FlatBenchmark(t *testing.T) {
	b := TickerBeta(series(10, 11, 12, 11), series(100, 100, 100, 100))
	assert.True(t, math.IsNaN(b))
}

func TestTickerBeta_TooFewObservations(t *testing.T) {
	assert.True(t, math.IsNaN(TickerBeta(series(10, 11), series(100, 101))))
	// no overlapping dates at all
	assert.True(t, math.IsNaN(TickerBeta(seriesOn([]int{10, 11, 12}, 1, 2, 3), series(100, 101, 102))))
}

func TestBeta_Weighted(t *testing.T) {
	bench := series(100, 102, 99, 103, 101)
	br := DailyReturns(bench)
	closes := []float64{50}
	for _, r := range br {
		closes = append(closes, closes[len(closes)-1]*(1+2*r.Return))
	}
	prices := PriceStore{"SPY": bench, "LEV": series(closes...)}
	w := Weighting{{Symbol: "LEV", Weight: 0.5}, {Symbol: "SPY", Weight: 0.5}}

	b, warnings := Beta(w, prices, "SPY")
	assert.InDelta(t, 0.5*2+0.5*1, b, 1e-9)
	assert.Empty(t, warnings)
}

func TestBeta_ZeroWeightHoldingIgnored(t *testing.T) {
	bench := series(100, 102, 99, 103, 101)
	prices := PriceStore{"SPY": bench, "AAPL": series(50, 51, 49, 52, 50), "NEW": series(10)}

	want := TickerBeta(prices["AAPL"], bench)
	require.False(t, math.IsNaN(want))

	b, warnings := Beta(Weighting{{Symbol: "AAPL", Weight: 1}, {Symbol: "NEW", Weight: 0}}, prices, "SPY")
	assert.InDelta(t, want, b, 1e-12)
	assert.Empty(t, warnings)
}

func TestBeta_FlatBenchmarkIsNaN(t *testing.T) {
	prices := PriceStore{"SPY": series(100, 100, 100), "AAPL": series(10, 11, 12)}
	b, warnings := Beta(Weighting{{Symbol: "AAPL", Weight: 1}}, prices, "SPY")
	assert.True(t, math.IsNaN(b))
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnUndefinedBeta, warnings[0].Kind)
	assert.Equal(t, "AAPL", warnings[0].Symbol)
}

func TestDividendYield(t *testing.T) {
	w := Weighting{{Symbol: "A", Weight: 0.5}, {Symbol: "B", Weight: 0.3}, {Symbol: "C", Weight: 0.2}}
	meta := map[string]Metadata{
		"A": {Symbol: "A", DividendYield: yield(0.02)},
		"B": {Symbol: "B", DividendYield: yield(0)},
	}

	dy, warnings := DividendYield(w, meta)
	assert.InDelta(t, 1.0, dy, 1e-12)
	require.Len(t, warnings, 2)
	assert.Equal(t, "B", warnings[0].Symbol)
	assert.Equal(t, "C", warnings[1].Symbol)
	for _, w := range warnings {
		assert.Equal(t, WarnMissingDividendYield, w.Kind)
	}
}

func TestMaxDrawdownAndTotalReturn(t *testing.T) {
	v := ValueSeries{
		{Date: day0, Value: 100},
		{Date: day0.AddDate(0, 0, 1), Value: 120},
		{Date: day0.AddDate(0, 0, 2), Value: 90},
		{Date: day0.AddDate(0, 0, 3), Value: 110},
	}
	assert.InDelta(t, 25.0, MaxDrawdown(v), 1e-9)
	assert.InDelta(t, 10.0, TotalReturn(v), 1e-9)
	assert.Equal(t, 0.0, MaxDrawdown(v[:1]))
}
