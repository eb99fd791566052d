package finance

import (
	"fmt"
	"strings"

	"github.com/vicanso/go-charts/v2"

	"portfolioStatsBot/internal/analytics"
)

// valueTableRows is the number of evenly spaced rows in the value table
const valueTableRows = 5

func statsRows(r *analytics.Report) [][]string {
	stats := r.Stats()
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{s.Name, s.Value})
	}
	return rows
}

func valueRows(r *analytics.Report) [][]string {
	sample := r.Sample(valueTableRows)
	rows := make([][]string, 0, len(sample))
	for _, p := range sample {
		rows = append(rows, []string{p.Date.Format("2006-01-02"), analytics.FormatUSD(p.Value)})
	}
	return rows
}

func renderTable(header []string, rows [][]string) ([]byte, error) {
	p, err := charts.TableRender(header, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to render table: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate table bytes: %w", err)
	}
	return buf, nil
}

// MakeStatsTable renders the statistics table as PNG.
func MakeStatsTable(r *analytics.Report) ([]byte, error) {
	return renderTable([]string{"Statistic", "Value"}, statsRows(r))
}

// MakeValueTable renders the sampled date/value table as PNG.
func MakeValueTable(r *analytics.Report) ([]byte, error) {
	return renderTable([]string{"Date", "Portfolio Value"}, valueRows(r))
}

func markdownTable(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return b.String()
}

// ReportMarkdown renders the report as markdown: statistics, value table, warnings.
func ReportMarkdown(r *analytics.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio (%s)\n\n", composition(r.Weighting()))
	fmt.Fprintf(&b, "%s to %s, %s invested, now %s.\n\n",
		r.Start().Format("2006-01-02"), r.End().Format("2006-01-02"),
		analytics.FormatUSD(r.Investment()), analytics.FormatUSD(r.FinalValue()))
	b.WriteString("## Statistics\n\n")
	b.WriteString(markdownTable([]string{"Statistic", "Value"}, statsRows(r)))
	b.WriteString("\n## Portfolio Value\n\n")
	b.WriteString(markdownTable([]string{"Date", "Portfolio Value"}, valueRows(r)))
	if ws := r.Warnings(); len(ws) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range ws {
			b.WriteString("- " + w.String() + "\n")
		}
	}
	return b.String()
}

// ReportText is the plain-text caption used in chat.
func ReportText(r *analytics.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s → %s\n", composition(r.Weighting()), r.Start().Format("2006-01-02"), r.End().Format("2006-01-02"))
	for _, s := range r.Stats() {
		fmt.Fprintf(&b, "%s: %s\n", s.Name, s.Value)
	}
	fmt.Fprintf(&b, "Value: %s → %s", analytics.FormatUSD(r.InitialValue()), analytics.FormatUSD(r.FinalValue()))
	return b.String()
}
