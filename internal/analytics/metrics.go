package analytics

import (
	"fmt"
	"math"
	"time"
)

// daysPerYear converts elapsed calendar days into years for CAGR
const daysPerYear = 365.25

// DividendYield returns the weighted average trailing dividend yield in percent.
// A ticker with a missing or zero yield contributes 0 and is flagged for manual checking.
func DividendYield(w Weighting, meta map[string]Metadata) (float64, []Warning) {
	var warnings []Warning
	total := 0.0
	for _, a := range w {
		m, ok := meta[a.Symbol]
		if !ok || m.DividendYield == nil || *m.DividendYield == 0 || math.IsNaN(*m.DividendYield) {
			warnings = append(warnings, Warning{
				Kind:    WarnMissingDividendYield,
				Symbol:  a.Symbol,
				Message: "dividend yield is missing or zero, please check manually",
			})
			continue
		}
		total += a.Weight * *m.DividendYield * 100
	}
	return total, warnings
}

// TickerBeta returns cov(ticker, benchmark) / var(benchmark) over the dates
// both return series share. NaN when fewer than 2 aligned observations exist
// or the benchmark variance is 0.
func TickerBeta(ticker, benchmark PriceSeries) float64 {
	tr := DailyReturns(ticker)
	br := DailyReturns(benchmark).byDate()

	xs := make([]float64, 0, len(tr))
	ys := make([]float64, 0, len(tr))
	for _, p := range tr {
		if b, ok := br[p.Date]; ok {
			xs = append(xs, p.Return)
			ys = append(ys, b)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	mx, my := mean(xs), mean(ys)
	cov, variance := 0.0, 0.0
	for i := range xs {
		dy := ys[i] - my
		cov += (xs[i] - mx) * dy
		variance += dy * dy
	}
	n := float64(len(xs) - 1)
	cov /= n
	variance /= n
	if variance == 0 {
		return math.NaN()
	}
	return cov / variance
}

// Beta returns the weighted portfolio beta against benchmark.
// The benchmark's own beta is 1. Zero-weight holdings are skipped; any other
// undefined ticker beta makes the result NaN.
func Beta(w Weighting, prices PriceStore, benchmark string) (float64, []Warning) {
	var warnings []Warning
	bench := prices[benchmark]
	total := 0.0
	for _, a := range w {
		if a.Weight == 0 {
			continue
		}
		if a.Symbol == benchmark {
			total += a.Weight
			continue
		}
		b := TickerBeta(prices[a.Symbol], bench)
		if math.IsNaN(b) {
			warnings = append(warnings, Warning{
				Kind:    WarnUndefinedBeta,
				Symbol:  a.Symbol,
				Message: fmt.Sprintf("beta relative to %s is undefined (flat benchmark or too few common dates)", benchmark),
			})
		}
		total += a.Weight * b
	}
	return total, warnings
}

// PositivePeriodRatio is the fraction of strictly positive returns; 0 for an empty series.
func PositivePeriodRatio(r ReturnSeries) float64 {
	if len(r) == 0 {
		return 0
	}
	positive := 0
	for _, p := range r {
		if p.Return > 0 {
			positive++
		}
	}
	return float64(positive) / float64(len(r))
}

// GainLossRatio is the mean positive return over the absolute mean negative return.
// +Inf when there are gains but no losses; 0 when there are no gains at all.
func GainLossRatio(r ReturnSeries) float64 {
	var gains, losses []float64
	for _, p := range r {
		switch {
		case p.Return > 0:
			gains = append(gains, p.Return)
		case p.Return < 0:
			losses = append(losses, p.Return)
		}
	}
	if len(gains) == 0 {
		return 0
	}
	if len(losses) == 0 {
		return math.Inf(1)
	}
	return mean(gains) / math.Abs(mean(losses))
}

// Years returns the elapsed time between two dates in years of 365.25 days.
func Years(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24 / daysPerYear
}

// CAGR returns the compound annual growth rate of v in percent.
// 0 when the span is not positive or the start value is not positive.
func CAGR(v ValueSeries) float64 {
	if len(v) < 2 {
		return 0
	}
	start, end := v[0], v[len(v)-1]
	return cagr(start.Value, end.Value, Years(start.Date, end.Date))
}

func cagr(initial, final, years float64) float64 {
	if initial <= 0 || years <= 0 {
		return 0
	}
	return (math.Pow(final/initial, 1/years) - 1) * 100
}

// TotalReturn returns (last-first)/first in percent; 0 when undefined.
func TotalReturn(v ValueSeries) float64 {
	if len(v) < 2 || v[0].Value <= 0 {
		return 0
	}
	return (v[len(v)-1].Value - v[0].Value) / v[0].Value * 100
}

// MaxDrawdown returns the largest peak-to-trough decline of v in percent.
func MaxDrawdown(v ValueSeries) float64 {
	if len(v) < 2 {
		return 0
	}
	maxDrawdown := 0.0
	peak := 0.0
	for _, p := range v {
		if p.Value > peak {
			peak = p.Value
		}
		if peak > 0 && p.Value >= 0 {
			if dd := (peak - p.Value) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}
	return maxDrawdown * 100
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
