package analytics

import "time"

// AlignPolicy selects how ticker calendars are merged into one portfolio return series.
type AlignPolicy int

const (
	// AlignZeroFill keys the portfolio on the first ticker's dates; a ticker
	// without a return on one of those dates contributes 0.
	AlignZeroFill AlignPolicy = iota
	// AlignInnerJoin keeps only dates on which every ticker has a return.
	AlignInnerJoin
)

func (p AlignPolicy) String() string {
	if p == AlignInnerJoin {
		return "inner"
	}
	return "zerofill"
}

// ParseAlignPolicy maps "inner" / "zerofill" (or "") to a policy.
func ParseAlignPolicy(s string) (AlignPolicy, bool) {
	switch s {
	case "", "zerofill", "zero":
		return AlignZeroFill, true
	case "inner", "join":
		return AlignInnerJoin, true
	}
	return AlignZeroFill, false
}

// DailyReturns computes simple daily returns for adjacent closes.
// The first date has no entry; fewer than 2 points yields an empty series.
func DailyReturns(s PriceSeries) ReturnSeries {
	if len(s) < 2 {
		return ReturnSeries{}
	}
	out := make(ReturnSeries, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Close
		out = append(out, ReturnPoint{Date: s[i].Date, Return: (s[i].Close - prev) / prev})
	}
	return out
}

// PortfolioReturns combines per-ticker returns into one weighted series.
// The calendar comes from the first asset of w, so the result depends on asset order.
func PortfolioReturns(perTicker map[string]ReturnSeries, w Weighting, policy AlignPolicy) ReturnSeries {
	if len(w) == 0 {
		return ReturnSeries{}
	}
	lookups := make([]map[time.Time]float64, len(w))
	for i, a := range w {
		lookups[i] = perTicker[a.Symbol].byDate()
	}

	ref := perTicker[w[0].Symbol]
	out := make(ReturnSeries, 0, len(ref))
	for _, p := range ref {
		sum, ok := weightedSum(p.Date, w, lookups, policy)
		if !ok {
			continue
		}
		out = append(out, ReturnPoint{Date: p.Date, Return: sum})
	}
	return out
}

func weightedSum(d time.Time, w Weighting, lookups []map[time.Time]float64, policy AlignPolicy) (float64, bool) {
	sum := 0.0
	for i, a := range w {
		r, ok := lookups[i][d]
		if !ok {
			if policy == AlignInnerJoin {
				return 0, false
			}
			continue
		}
		sum += a.Weight * r
	}
	return sum, true
}
