package cli

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioStatsBot/internal/analytics"
	"portfolioStatsBot/internal/finance"
)

type fakeAnalyzer struct {
	benchmark string
	req       finance.PortfolioRequest
	result    *finance.Result
	stock     *finance.StockResult
	err       error
}

func (f *fakeAnalyzer) Run(_ context.Context, req finance.PortfolioRequest) (*finance.Result, error) {
	f.req = req
	return f.result, f.err
}

func (f *fakeAnalyzer) Stock(context.Context, string) (*finance.StockResult, error) {
	return f.stock, f.err
}

func useFake(t *testing.T, fa *fakeAnalyzer) {
	t.Helper()
	orig := newAnalyzer
	newAnalyzer = func(benchmark string) analyzer {
		fa.benchmark = benchmark
		return fa
	}
	t.Cleanup(func() { newAnalyzer = orig })
	t.Setenv("BENCHMARK_SYMBOL", "spy")
	t.Setenv("LOG_LEVEL", "error")
}

var day0 = time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

func prices(closes ...float64) analytics.PriceSeries {
	out := make(analytics.PriceSeries, len(closes))
	for i, c := range closes {
		out[i] = analytics.PricePoint{Date: day0.AddDate(0, 0, i), Close: c}
	}
	return out
}

func run(t *testing.T, cmd subcommands.Command, args ...string) (subcommands.ExitStatus, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	switch c := cmd.(type) {
	case *reportCmd:
		c.stdout, c.stderr = &stdout, &stderr
	case *stockCmd:
		c.stdout, c.stderr = &stdout, &stderr
	}
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	status := cmd.Execute(context.Background(), fs)
	return status, stdout.String(), stderr.String()
}

func TestReport(t *testing.T) {
	r, err := analytics.Analyze(analytics.Input{
		Assets: []analytics.WeightedAsset{{Symbol: "AAPL", Weight: 0.6}, {Symbol: "MSFT", Weight: 0.4}},
		Prices: analytics.PriceStore{
			"AAPL": prices(100, 102, 101),
			"MSFT": prices(200, 202, 204),
			"SPY":  prices(400, 404, 402),
		},
		Investment: 1000,
	})
	require.NoError(t, err)
	fa := &fakeAnalyzer{result: &finance.Result{Report: r, Chart: []byte("png")}}
	useFake(t, fa)

	out := filepath.Join(t.TempDir(), "chart.png")
	status, stdout, stderr := run(t, &reportCmd{}, "-start", "02012024", "-amount", "1,000", "-align", "inner", "-raw", "-o", out, "aapl=0.6", "MSFT=0.4")
	require.Equal(t, subcommands.ExitSuccess, status, stderr)

	assert.Equal(t, "SPY", fa.benchmark)
	assert.Equal(t, analytics.AlignInnerJoin, fa.req.Align)
	assert.Equal(t, 1000.0, fa.req.Investment)
	assert.Contains(t, stdout, "## Statistics")
	assert.Contains(t, stderr, "Warning (AAPL): dividend yield is missing or zero")
	assert.Contains(t, stderr, "chart written to "+out)

	img, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), img)
}

func TestReportBenchmarkFlag(t *testing.T) {
	fa := &fakeAnalyzer{err: analytics.ErrMissingData}
	useFake(t, fa)

	status, _, stderr := run(t, &reportCmd{}, "-start", "02012024", "-amount", "1000", "-benchmark", "QQQ", "AAPL")
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Equal(t, "QQQ", fa.benchmark)
	assert.Contains(t, stderr, "missing price data")
}

func TestReportUsageErrors(t *testing.T) {
	useFake(t, &fakeAnalyzer{})
	tests := map[string][]string{
		"no amount":      {"-start", "02012024", "AAPL"},
		"bad align":      {"-start", "02012024", "-amount", "10", "-align", "outer", "AAPL"},
		"no symbols":     {"-start", "02012024", "-amount", "10"},
		"missing weight": {"-start", "02012024", "-amount", "10", "AAPL", "MSFT=1"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			status, _, stderr := run(t, &reportCmd{}, args...)
			assert.Equal(t, subcommands.ExitUsageError, status)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestStock(t *testing.T) {
	perf, err := analytics.SharePerformance("KO", prices(60, 66))
	require.NoError(t, err)
	useFake(t, &fakeAnalyzer{stock: &finance.StockResult{Performance: perf}})

	status, stdout, _ := run(t, &stockCmd{}, "-raw", "KO")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, stdout, "# KO")
	assert.Contains(t, stdout, "Final Price: $66.00")

	status, _, _ = run(t, &stockCmd{}, "KO", "PEP")
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestPrintMarkdownRendered(t *testing.T) {
	var buf bytes.Buffer
	o := &output{stdout: &buf}
	o.printMarkdown("# Title\n\nbody\n")
	assert.Contains(t, buf.String(), "body")
}
