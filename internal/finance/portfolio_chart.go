package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/vicanso/go-charts/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"portfolioStatsBot/internal/analytics"
)

// Themes whose first series colour follows the portfolio trend
const (
	themeTrendUp   = "trend-up"
	themeTrendDown = "trend-down"
)

var (
	colorGreen = drawing.Color{R: 34, G: 139, B: 34, A: 255}
	colorRed   = drawing.Color{R: 200, G: 40, B: 40, A: 255}
	colorBlack = drawing.Color{R: 20, G: 20, B: 20, A: 255}
	// remaining series (one per ticker)
	tickerColors = []drawing.Color{
		{R: 84, G: 112, B: 198, A: 255},
		{R: 250, G: 200, B: 88, A: 255},
		{R: 115, G: 192, B: 222, A: 255},
		{R: 154, G: 96, B: 180, A: 255},
		{R: 252, G: 132, B: 82, A: 255},
		{R: 59, G: 162, B: 114, A: 255},
		{R: 234, G: 124, B: 204, A: 255},
	}
)

func init() {
	for name, first := range map[string]drawing.Color{themeTrendUp: colorGreen, themeTrendDown: colorRed} {
		colors := append([]drawing.Color{first, colorBlack}, tickerColors...)
		charts.AddTheme(name, charts.ThemeOption{
			IsDarkMode:         false,
			AxisStrokeColor:    drawing.Color{R: 110, G: 112, B: 121, A: 255},
			AxisSplitLineColor: drawing.Color{R: 224, G: 230, B: 242, A: 255},
			BackgroundColor:    drawing.ColorWhite,
			TextColor:          drawing.Color{R: 70, G: 70, B: 70, A: 255},
			SeriesColors:       colors,
		})
	}
}

func trendTheme(up bool) string {
	if up {
		return themeTrendUp
	}
	return themeTrendDown
}

// dateLabels formats x-axis labels based on data range
func dateLabels(dates []time.Time) []string {
	labels := make([]string, len(dates))
	for i, d := range dates {
		if len(dates) <= 60 {
			labels[i] = d.Format("Jan 02")
		} else {
			labels[i] = d.Format("Jan '06")
		}
	}
	return labels
}

// splitNumber determines split number for x-axis based on data points
func splitNumber(n int) int {
	splitNum := 6
	if n <= 30 {
		splitNum = n / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}
	return splitNum
}

// padRange returns a y-axis range with 5% padding
func padRange(values ...[]float64) (float64, float64) {
	first := true
	var minVal, maxVal float64
	for _, vs := range values {
		for _, v := range vs {
			if first {
				minVal, maxVal = v, v
				first = false
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = maxVal * 0.05
	}
	yMin := minVal - padding
	if yMin < 0 {
		yMin = 0
	}
	return yMin, maxVal + padding
}

// MakePortfolioChart renders the portfolio value (left axis, trend coloured),
// the weighted average price when several tickers are held, and every
// ticker's closing price (right axis).
func MakePortfolioChart(r *analytics.Report, prices analytics.PriceStore) ([]byte, error) {
	value := r.Value()
	dates := value.Dates()
	if len(dates) < 2 {
		return nil, fmt.Errorf("not enough data points")
	}

	values := [][]float64{value.Values()}
	names := []string{"Portfolio Value"}
	axes := []int{0}

	var priceSeries [][]float64
	if wp := r.WeightedPrice(); wp != nil {
		values = append(values, wp.Values())
		names = append(names, "Weighted Average Price")
		axes = append(axes, 1)
		priceSeries = append(priceSeries, wp.Values())
	}
	for _, a := range r.Weighting() {
		lookup := make(map[time.Time]float64, len(prices[a.Symbol]))
		for _, p := range prices[a.Symbol] {
			lookup[p.Date] = p.Close
		}
		closes := make([]float64, len(dates))
		for i, d := range dates {
			closes[i] = lookup[d]
		}
		values = append(values, closes)
		names = append(names, a.Symbol+" Closing Price")
		axes = append(axes, 1)
		priceSeries = append(priceSeries, closes)
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
		seriesList[i].AxisIndex = axes[i]
	}

	leftMin, leftMax := padRange(value.Values())
	rightMin, rightMax := padRange(priceSeries...)

	title := fmt.Sprintf("Portfolio (%s)", composition(r.Weighting()))
	subtitle := fmt.Sprintf("%s → %s | %s → %s",
		r.Start().Format("2006-01-02"), r.End().Format("2006-01-02"),
		analytics.FormatUSD(r.InitialValue()), analytics.FormatUSD(r.FinalValue()))

	p, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        dateLabels(dates),
			SplitNumber: splitNumber(len(dates)),
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(
			charts.YAxisOption{Min: &leftMin, Max: &leftMax, DivideCount: 5},
			charts.YAxisOption{Min: &rightMin, Max: &rightMax, DivideCount: 5, Position: charts.PositionRight},
		),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Top: charts.PositionTop}),
		charts.ThemeOptionFunc(trendTheme(r.Trend())),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// composition describes the weighting, e.g. "AAPL 55.6%, MSFT 44.4%"
func composition(w analytics.Weighting) string {
	parts := make([]string, 0, len(w))
	for _, a := range w {
		parts = append(parts, fmt.Sprintf("%s %.1f%%", a.Symbol, a.Weight*100))
	}
	return strings.Join(parts, ", ")
}
