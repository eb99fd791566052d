package analytics

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultBenchmark is the broad-market index used for beta
const DefaultBenchmark = "SPY"

// Input is everything one analysis run needs; it is never modified.
type Input struct {
	Assets     []WeightedAsset
	Prices     PriceStore
	Metadata   map[string]Metadata
	Benchmark  string
	Investment float64
	Align      AlignPolicy
}

// Stat is one named, formatted statistic
type Stat struct {
	Name  string
	Value string
}

// Report is the immutable result of one analysis run.
type Report struct {
	id         uuid.UUID
	weighting  Weighting
	benchmark  string
	investment float64
	align      AlignPolicy

	dividendYield   float64
	beta            float64
	positivePeriods float64
	gainLoss        float64
	cagr            float64
	totalReturn     float64
	maxDrawdown     float64

	value    ValueSeries
	weighted ValueSeries
	returns  ReturnSeries
	warnings []Warning
}

// Analyze runs the whole pipeline: weights, returns, metrics, valuation.
// Missing price data aborts the run before any metric is computed.
func Analyze(in Input) (*Report, error) {
	benchmark := in.Benchmark
	if benchmark == "" {
		benchmark = DefaultBenchmark
	}
	if in.Investment <= 0 {
		return nil, fmt.Errorf("%w: %.2f", ErrInvalidInvestment, in.Investment)
	}

	w, warnings, err := NormalizeWeights(in.Assets)
	if err != nil {
		return nil, err
	}
	for _, sym := range append(w.Symbols(), benchmark) {
		if len(in.Prices[sym]) == 0 {
			return nil, fmt.Errorf("%w: no price history for %s", ErrMissingData, sym)
		}
		if err := in.Prices[sym].Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMissingData, sym, err)
		}
	}

	perTicker := make(map[string]ReturnSeries, len(w))
	for _, a := range w {
		perTicker[a.Symbol] = DailyReturns(in.Prices[a.Symbol])
	}
	returns := PortfolioReturns(perTicker, w, in.Align)
	if len(returns) == 0 {
		return nil, fmt.Errorf("%w: no portfolio returns for %v", ErrInsufficientHistory, w.Symbols())
	}

	value, weighted, err := BuildPortfolioValue(in.Prices, w, in.Investment)
	if err != nil {
		return nil, err
	}

	dy, dyWarnings := DividendYield(w, in.Metadata)
	beta, betaWarnings := Beta(w, in.Prices, benchmark)
	warnings = append(warnings, dyWarnings...)
	warnings = append(warnings, betaWarnings...)

	return &Report{
		id:              uuid.New(),
		weighting:       w,
		benchmark:       benchmark,
		investment:      in.Investment,
		align:           in.Align,
		dividendYield:   dy,
		beta:            beta,
		positivePeriods: PositivePeriodRatio(returns),
		gainLoss:        GainLossRatio(returns),
		cagr:            CAGR(value),
		totalReturn:     TotalReturn(value),
		maxDrawdown:     MaxDrawdown(value),
		value:           value,
		weighted:        weighted,
		returns:         returns,
		warnings:        warnings,
	}, nil
}

func (r *Report) ID() uuid.UUID          { return r.id }
func (r *Report) Benchmark() string      { return r.benchmark }
func (r *Report) Investment() float64    { return r.investment }
func (r *Report) Align() AlignPolicy     { return r.align }
func (r *Report) DividendYield() float64 { return r.dividendYield }
func (r *Report) Beta() float64          { return r.beta }
func (r *Report) PositivePeriods() float64 {
	return r.positivePeriods
}
func (r *Report) GainLossRatio() float64 { return r.gainLoss }
func (r *Report) CAGR() float64          { return r.cagr }
func (r *Report) TotalReturn() float64   { return r.totalReturn }
func (r *Report) MaxDrawdown() float64   { return r.maxDrawdown }

// Weighting returns a copy of the normalized weighting.
func (r *Report) Weighting() Weighting { return append(Weighting(nil), r.weighting...) }

// Value returns a copy of the portfolio value series.
func (r *Report) Value() ValueSeries { return append(ValueSeries(nil), r.value...) }

// WeightedPrice returns a copy of the weighted average price series; nil for a single ticker.
func (r *Report) WeightedPrice() ValueSeries {
	if r.weighted == nil {
		return nil
	}
	return append(ValueSeries(nil), r.weighted...)
}

// Returns returns a copy of the portfolio daily return series.
func (r *Report) Returns() ReturnSeries { return append(ReturnSeries(nil), r.returns...) }

// Warnings returns the warnings collected during the run, in order.
func (r *Report) Warnings() []Warning { return append([]Warning(nil), r.warnings...) }

// Start is the first valuation date.
func (r *Report) Start() time.Time { return r.value[0].Date }

// End is the last valuation date.
func (r *Report) End() time.Time { return r.value[len(r.value)-1].Date }

// InitialValue is the first portfolio value.
func (r *Report) InitialValue() float64 { return r.value[0].Value }

// FinalValue is the last portfolio value.
func (r *Report) FinalValue() float64 { return r.value[len(r.value)-1].Value }

// Trend reports whether the portfolio ended above where it started.
func (r *Report) Trend() bool { return r.FinalValue() > r.InitialValue() }

// Stats returns the statistics table rows in display order.
func (r *Report) Stats() []Stat {
	return []Stat{
		{Name: "Weighted Dividend Yield", Value: FormatPercent(r.dividendYield)},
		{Name: fmt.Sprintf("Weighted Beta (Relative to %s)", r.benchmark), Value: FormatRatio(r.beta)},
		{Name: "Positive Periods", Value: FormatRatio(r.positivePeriods)},
		{Name: "Gain/Loss Ratio", Value: FormatRatio(r.gainLoss)},
		{Name: "CAGR (Compound Annual Growth Rate)", Value: FormatPercent(r.cagr)},
	}
}

// StatsMap returns Stats keyed by name.
func (r *Report) StatsMap() map[string]string {
	out := make(map[string]string, 5)
	for _, s := range r.Stats() {
		out[s.Name] = s.Value
	}
	return out
}

// Sample picks every len/rows-th point of the value series for the value table.
func (r *Report) Sample(rows int) ValueSeries {
	return SampleSeries(r.value, rows)
}

// SampleSeries picks every len(v)/rows-th point starting with the first.
func SampleSeries(v ValueSeries, rows int) ValueSeries {
	if rows <= 0 || len(v) == 0 {
		return nil
	}
	step := len(v) / rows
	if step < 1 {
		step = 1
	}
	out := make(ValueSeries, 0, rows+1)
	for i := 0; i < len(v); i += step {
		out = append(out, v[i])
	}
	return out
}
