package finance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fp(v float64) *float64 { return &v }

func TestToDailySeries(t *testing.T) {
	open := func(d int) int64 { return day0.AddDate(0, 0, d).Add(13*time.Hour + 30*time.Minute).Unix() }
	ts := []int64{open(0), open(1), open(2), open(3), open(4), open(4) + 3600, open(3), open(5)}
	cl := []*float64{fp(10), nil, fp(-1), fp(math.NaN()), fp(11), fp(12), fp(99), fp(13)}

	s := toDailySeries(ts, cl, -14400)
	assert.Len(t, s, 3)
	assert.Equal(t, day0, s[0].Date)
	assert.Equal(t, 10.0, s[0].Close)
	// two bars on day 4: the later one wins
	assert.Equal(t, day0.AddDate(0, 0, 4), s[1].Date)
	assert.Equal(t, 12.0, s[1].Close)
	// out-of-order bar skipped
	assert.Equal(t, day0.AddDate(0, 0, 5), s[2].Date)
	assert.NoError(t, s.Validate())
}

func TestToDailySeriesOffsetKeepsTradingDay(t *testing.T) {
	// 20:00 New York close is already the next day in UTC
	late := day0.Add(24 * time.Hour).Unix()
	s := toDailySeries([]int64{late}, []*float64{fp(5)}, -14400)
	assert.Equal(t, day0, s[0].Date)
}

func TestToDailySeriesMismatchedLengths(t *testing.T) {
	s := toDailySeries([]int64{day0.Unix(), day0.AddDate(0, 0, 1).Unix()}, []*float64{fp(1)}, 0)
	assert.Len(t, s, 1)
}
