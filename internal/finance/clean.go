package finance

import (
	"math"
	"time"

	"portfolioStatsBot/internal/analytics"
)

// toDailySeries converts Yahoo bars into a clean daily price series.
//
// Timestamps are shifted by the exchange gmtoffset before taking the calendar
// day, so a bar opening 09:30 New York lands on its own trading date. Null,
// non-positive and non-finite closes are dropped, never zero-filled; when two
// bars fall on the same day the later one wins.
func toDailySeries(ts []int64, cl []*float64, gmtOffset int) analytics.PriceSeries {
	if len(ts) != len(cl) {
		n := len(ts)
		if len(cl) < n {
			n = len(cl)
		}
		ts = ts[:n]
		cl = cl[:n]
	}
	out := make(analytics.PriceSeries, 0, len(ts))
	for i := 0; i < len(ts); i++ {
		if cl[i] == nil {
			continue
		}
		v := *cl[i]
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		d := analytics.Day(time.Unix(ts[i]+int64(gmtOffset), 0).UTC())
		if n := len(out); n > 0 {
			last := out[n-1].Date
			if d.Equal(last) {
				out[n-1].Close = v
				continue
			}
			if d.Before(last) {
				continue
			}
		}
		out = append(out, analytics.PricePoint{Date: d, Close: v})
	}
	return out
}
