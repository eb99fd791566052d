package analytics

import (
	"fmt"
	"math"
	"time"
)

// PricePoint is one daily close
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds daily closes ordered by strictly increasing date
type PriceSeries []PricePoint

// PriceStore maps a ticker symbol to its daily price series (benchmark included)
type PriceStore map[string]PriceSeries

// ReturnPoint is one fractional daily return
type ReturnPoint struct {
	Date   time.Time
	Return float64
}

// ReturnSeries holds daily returns ordered by date
type ReturnSeries []ReturnPoint

// ValuePoint is one dated value (portfolio USD value or weighted price)
type ValuePoint struct {
	Date  time.Time
	Value float64
}

// ValueSeries holds dated values ordered by date
type ValueSeries []ValuePoint

// Metadata is the issuer record returned by the data provider.
// DividendYield is the trailing yield as a fraction; nil when the provider has none.
type Metadata struct {
	Symbol        string
	Name          string
	DividendYield *float64
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate checks ordering, duplicates and price sanity.
func (s PriceSeries) Validate() error {
	for i, p := range s {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) || p.Close <= 0 {
			return fmt.Errorf("invalid close %f on %s", p.Close, p.Date.Format("2006-01-02"))
		}
		if i > 0 && !p.Date.After(s[i-1].Date) {
			return fmt.Errorf("dates not strictly increasing at %s", p.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// First returns the first close, or 0 for an empty series.
func (s PriceSeries) First() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[0].Close
}

// Last returns the last close, or 0 for an empty series.
func (s PriceSeries) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

func (s PriceSeries) byDate() map[time.Time]float64 {
	m := make(map[time.Time]float64, len(s))
	for _, p := range s {
		m[p.Date] = p.Close
	}
	return m
}

func (r ReturnSeries) byDate() map[time.Time]float64 {
	m := make(map[time.Time]float64, len(r))
	for _, p := range r {
		m[p.Date] = p.Return
	}
	return m
}

// Values returns the bare return values.
func (r ReturnSeries) Values() []float64 {
	out := make([]float64, len(r))
	for i, p := range r {
		out[i] = p.Return
	}
	return out
}

// Values returns the bare values.
func (v ValueSeries) Values() []float64 {
	out := make([]float64, len(v))
	for i, p := range v {
		out[i] = p.Value
	}
	return out
}

// Dates returns the dates of the series.
func (v ValueSeries) Dates() []time.Time {
	out := make([]time.Time, len(v))
	for i, p := range v {
		out[i] = p.Date
	}
	return out
}
