package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"portfolioStatsBot/internal/analytics"
)

// Result is everything a front end needs to show one portfolio run.
type Result struct {
	Report     *analytics.Report
	Prices     analytics.PriceStore
	Chart      []byte
	StatsTable []byte
	ValueTable []byte
}

// StockResult is the one-year single-share report.
type StockResult struct {
	Performance analytics.Performance
	Prices      analytics.PriceSeries
	Chart       []byte
}

// eastern returns America/New_York, falling back to fixed EST if tzdata is missing.
func eastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}

// Analyzer wires the provider, the analytics core and the renderer.
type Analyzer struct {
	provider  *Provider
	benchmark string
	now       func() time.Time
}

// NewAnalyzer returns an analyzer using benchmark for beta (SPY when empty).
func NewAnalyzer(p *Provider, benchmark string) *Analyzer {
	if benchmark == "" {
		benchmark = analytics.DefaultBenchmark
	}
	loc := eastern()
	return &Analyzer{
		provider:  p,
		benchmark: strings.ToUpper(benchmark),
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

// Benchmark is the symbol beta is measured against.
func (a *Analyzer) Benchmark() string { return a.benchmark }

// Run fetches market data, analyzes the portfolio and renders chart and tables.
func (a *Analyzer) Run(ctx context.Context, req PortfolioRequest) (*Result, error) {
	end := a.now()
	if !req.Start.Before(end) {
		return nil, fmt.Errorf("start date %s is not in the past", req.Start.Format("2006-01-02"))
	}
	symbols := make([]string, len(req.Assets))
	for i, asset := range req.Assets {
		symbols[i] = asset.Symbol
	}

	log := zap.L().With(zap.Strings("symbols", symbols), zap.Time("start", req.Start))
	data, err := a.provider.fetchPortfolioAssets(ctx, symbols, a.benchmark, req.Start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assets: %w", err)
	}

	report, err := analytics.Analyze(analytics.Input{
		Assets:     req.Assets,
		Prices:     data.Prices,
		Metadata:   data.Metadata,
		Benchmark:  a.benchmark,
		Investment: req.Investment,
		Align:      req.Align,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze portfolio: %w", err)
	}
	log.Info("portfolio: analyzed",
		zap.String("report_id", report.ID().String()),
		zap.Float64("cagr", report.CAGR()),
		zap.Int("warnings", len(report.Warnings())))

	res := &Result{Report: report, Prices: data.Prices}
	key := req.CacheKey() + "|" + report.End().Format("2006-01-02")
	if img, ok := cacheGet(key + "|chart"); ok {
		res.Chart = img
	} else {
		if res.Chart, err = MakePortfolioChart(report, data.Prices); err != nil {
			return nil, err
		}
		cacheSet(key+"|chart", res.Chart)
	}
	if res.StatsTable, err = MakeStatsTable(report); err != nil {
		return nil, err
	}
	if res.ValueTable, err = MakeValueTable(report); err != nil {
		return nil, err
	}
	return res, nil
}

// Stock reports one share of symbol over the past year.
func (a *Analyzer) Stock(ctx context.Context, symbol string) (*StockResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	end := a.now()
	start := end.AddDate(-1, 0, 0)

	s, err := a.provider.FetchDaily(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", symbol, err)
	}
	perf, err := analytics.SharePerformance(symbol, s)
	if err != nil {
		return nil, err
	}

	key := "stock-" + symbol + "-" + s[len(s)-1].Date.Format("2006-01-02")
	img, ok := cacheGet(key)
	if !ok {
		if img, err = MakeStockChart(symbol, s, perf); err != nil {
			return nil, fmt.Errorf("failed to render chart: %w", err)
		}
		cacheSet(key, img)
	}
	return &StockResult{Performance: perf, Prices: s, Chart: img}, nil
}
