package finance

import (
	"fmt"
	"strings"

	"github.com/vicanso/go-charts/v2"

	"portfolioStatsBot/internal/analytics"
)

// MakeStockChart renders one ticker's closing prices, green when the last
// close is above the first and red otherwise.
func MakeStockChart(symbol string, s analytics.PriceSeries, perf analytics.Performance) ([]byte, error) {
	if len(s) < 2 {
		return nil, fmt.Errorf("not enough data points")
	}
	x := make([]string, len(s))
	cl := make([]float64, len(s))
	for i, p := range s {
		x[i] = p.Date.Format("2006-01-02")
		cl[i] = p.Close
	}
	yMin, yMax := padRange(cl)

	sym := strings.ToUpper(symbol)
	seriesList := charts.NewSeriesListDataFromValues([][]float64{cl}, charts.ChartTypeLine)
	seriesList[0].Name = sym + " Closing Price"

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(sym+" Stock Performance Over the Past Year",
			fmt.Sprintf("%s → %s (%+.2f%%) • CAGR %s", analytics.FormatUSD(perf.Initial), analytics.FormatUSD(perf.Final), perf.GainPct, analytics.FormatPercent(perf.CAGR))),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: x, BoundaryGap: charts.FalseFlag(), SplitNumber: splitNumber(len(s))}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: []string{seriesList[0].Name}, Top: charts.PositionTop}),
		charts.ThemeOptionFunc(trendTheme(perf.PositiveUp)),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// StockText summarizes one-share performance the way the chat and CLI print it.
func StockText(perf analytics.Performance) string {
	return fmt.Sprintf("Performance of one share of %s over the past year:\n"+
		"Initial Price: %s\n"+
		"Final Price: %s\n"+
		"Gain/Loss: %s (%.2f%%)\n"+
		"CAGR: %s",
		perf.Symbol, analytics.FormatUSD(perf.Initial), analytics.FormatUSD(perf.Final),
		signedUSD(perf.Gain), perf.GainPct, analytics.FormatPercent(perf.CAGR))
}

func signedUSD(v float64) string {
	if v < 0 {
		return "-" + analytics.FormatUSD(-v)
	}
	return analytics.FormatUSD(v)
}
