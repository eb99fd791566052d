package finance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vicanso/go-charts/v2"

	"portfolioStatsBot/internal/storage"
)

// Usage categories recorded per command
const (
	CategoryPortfolio = "portfolio"
	CategoryStock     = "stock"
	CategoryUsage     = "usage"
	CategoryHelp      = "help"
)

// UsageBucket picks the time-series slot width for a lookback of days.
func UsageBucket(days int) time.Duration {
	if days <= 2 {
		return time.Hour
	}
	return 24 * time.Hour
}

func sortedCategories[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MakeUsageChart renders the share of commands per category as a pie chart.
func MakeUsageChart(stats map[string]*storage.UsageStats, days int) ([]byte, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("no usage data available")
	}
	categories := sortedCategories(stats)
	total := 0
	for _, c := range categories {
		total += stats[c].Count
	}
	values := make([]float64, len(categories))
	labels := make([]string, len(categories))
	for i, c := range categories {
		values[i] = float64(stats[c].Count)
		labels[i] = fmt.Sprintf("%s (%.1f%%)", categoryLabel(c), values[i]/float64(total)*100)
	}

	p, err := charts.PieRender(values,
		charts.TitleTextOptionFunc(fmt.Sprintf("Command Usage Distribution (%d days)", days)),
		charts.LegendOptionFunc(charts.LegendOption{Data: labels, Top: charts.PositionTop}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}

// MakeUsageTimeSeriesChart renders one line per category over the bucketed slots.
func MakeUsageTimeSeriesChart(series map[string][]storage.TimeSeriesPoint, days int) ([]byte, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no time series data available")
	}

	seen := map[int64]bool{}
	var slots []int64
	for _, points := range series {
		for _, pt := range points {
			if !seen[pt.Timestamp] {
				seen[pt.Timestamp] = true
				slots = append(slots, pt.Timestamp)
			}
		}
	}
	if len(slots) < 2 {
		return nil, fmt.Errorf("not enough data points")
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	layout := "01/02"
	if UsageBucket(days) < 24*time.Hour {
		layout = "Mon 15:04"
	}
	x := make([]string, len(slots))
	for i, ts := range slots {
		x[i] = time.Unix(ts, 0).UTC().Format(layout)
	}

	categories := sortedCategories(series)
	values := make([][]float64, 0, len(categories))
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		counts := map[int64]int{}
		for _, pt := range series[c] {
			counts[pt.Timestamp] = pt.Count
		}
		row := make([]float64, len(slots))
		for i, ts := range slots {
			row[i] = float64(counts[ts])
		}
		values = append(values, row)
		names = append(names, categoryLabel(c))
	}

	p, err := charts.LineRender(values,
		charts.XAxisOptionFunc(charts.XAxisOption{Data: x}),
		charts.TitleTextOptionFunc(fmt.Sprintf("Command Usage Over Time (%d days)", days)),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Top: charts.PositionTop}),
		charts.YAxisOptionFunc(charts.YAxisOption{}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}

// FormatUsageStatsText lists each category with its top five commands.
func FormatUsageStatsText(stats map[string]*storage.UsageStats, days int) string {
	if len(stats) == 0 {
		return "No usage data available for the specified period."
	}
	categories := sortedCategories(stats)
	total := 0
	for _, c := range categories {
		total += stats[c].Count
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Usage over the last %d days\nTotal commands: %d\n\n", days, total)
	for _, c := range categories {
		st := stats[c]
		fmt.Fprintf(&b, "%s: %d (%.1f%%)\n", categoryLabel(c), st.Count, float64(st.Count)/float64(total)*100)

		cmds := sortedCategories(st.Commands)
		sort.SliceStable(cmds, func(i, j int) bool { return st.Commands[cmds[i]] > st.Commands[cmds[j]] })
		for i, cmd := range cmds {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "  • %s: %d\n", cmd, st.Commands[cmd])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func categoryLabel(category string) string {
	switch category {
	case CategoryPortfolio:
		return "Portfolio Reports"
	case CategoryStock:
		return "Stock Charts"
	case CategoryUsage:
		return "Usage Stats"
	case CategoryHelp:
		return "Help"
	default:
		return category
	}
}
