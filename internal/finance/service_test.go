package finance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioStatsBot/internal/analytics"
)

func newTestAnalyzer(t *testing.T, fy *fakeYahoo) *Analyzer {
	t.Helper()
	a := NewAnalyzer(newTestProvider(t, fy), "spy")
	a.now = func() time.Time { return day0.AddDate(0, 0, 30) }
	return a
}

func marketFixture(t *testing.T) *fakeYahoo {
	return &fakeYahoo{
		charts: map[string]string{
			"AAPL": chartBody(t, "AAPL", 100, 102, 101, 104, 106),
			"MSFT": chartBody(t, "MSFT", 200, 202, 204, 203, 206),
			"SPY":  chartBody(t, "SPY", 400, 404, 402, 406, 410),
		},
		quotes: map[string]string{"AAPL": quoteBody("Apple Inc.", 0.005)},
		hits:   map[string]int{},
	}
}

func TestAnalyzerRun(t *testing.T) {
	a := newTestAnalyzer(t, marketFixture(t))
	assert.Equal(t, "SPY", a.Benchmark())

	req, err := ParseWeightedPortfolio("/perf 02012024 AAPL 0.5 MSFT 0.5 10000")
	require.NoError(t, err)

	res, err := a.Run(context.Background(), req)
	require.NoError(t, err)
	r := res.Report
	assert.Equal(t, []string{"AAPL", "MSFT"}, r.Weighting().Symbols())
	assert.InDelta(t, 10000, r.InitialValue(), 1e-9)
	assert.InDelta(t, 50*106+25*206, r.FinalValue(), 1e-9)
	assert.InDelta(t, 0.25, r.DividendYield(), 1e-12)
	assert.Len(t, res.Prices, 3)
	assert.NotEmpty(t, res.Chart)
	assert.NotEmpty(t, res.StatsTable)
	assert.NotEmpty(t, res.ValueTable)

	var kinds []analytics.WarningKind
	for _, w := range r.Warnings() {
		kinds = append(kinds, w.Kind)
		if w.Kind == analytics.WarnMissingDividendYield {
			assert.Equal(t, "MSFT", w.Symbol)
		}
	}
	assert.Contains(t, kinds, analytics.WarnMissingDividendYield)
}

func TestAnalyzerRunErrors(t *testing.T) {
	a := newTestAnalyzer(t, marketFixture(t))

	req, err := ParseWeightedPortfolio("/perf 02012024 AAPL 0.5 NOPE 0.5 10000")
	require.NoError(t, err)
	_, err = a.Run(context.Background(), req)
	assert.ErrorIs(t, err, analytics.ErrMissingData)

	req, err = ParseWeightedPortfolio("/perf 02012024 AAPL -1 MSFT 0 10000")
	require.NoError(t, err)
	_, err = a.Run(context.Background(), req)
	assert.ErrorIs(t, err, analytics.ErrInvalidWeights)

	req, err = ParseWeightedPortfolio("/perf 02012030 AAPL 10000")
	require.NoError(t, err)
	_, err = a.Run(context.Background(), req)
	assert.Error(t, err)
}

func TestAnalyzerStock(t *testing.T) {
	fy := &fakeYahoo{
		charts: map[string]string{"KO": chartBody(t, "KO", 50, 49, 51, 52)},
		hits:   map[string]int{},
	}
	a := newTestAnalyzer(t, fy)

	res, err := a.Stock(context.Background(), " ko ")
	require.NoError(t, err)
	assert.Equal(t, "KO", res.Performance.Symbol)
	assert.Equal(t, 50.0, res.Performance.Initial)
	assert.Equal(t, 52.0, res.Performance.Final)
	assert.True(t, res.Performance.PositiveUp)
	assert.Len(t, res.Prices, 4)
	assert.NotEmpty(t, res.Chart)

	again, err := a.Stock(context.Background(), "KO")
	require.NoError(t, err)
	assert.Equal(t, res.Chart, again.Chart)

	_, err = a.Stock(context.Background(), "NOPE")
	assert.ErrorIs(t, err, analytics.ErrMissingData)
}
