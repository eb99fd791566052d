package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"portfolioStatsBot/internal/analytics"
	"portfolioStatsBot/internal/finance"
)

type reportCmd struct {
	output
	start     string
	amount    string
	align     string
	benchmark string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "backtest a buy-and-hold portfolio" }
func (*reportCmd) Usage() string {
	return `perf report -start <DDMMYYYY> -amount <n> [-align zerofill|inner] [-benchmark SPY] [-o chart.png] [-raw] SYM[=WEIGHT] ...

  Buys the weighted portfolio at the first common close after the start date
  and reports its value and statistics up to today. A single symbol needs no weight.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.output.setFlags(f)
	f.StringVar(&c.start, "start", "", "start date, DDMMYYYY or YYYY-MM-DD")
	f.StringVar(&c.amount, "amount", "", "amount invested in dollars")
	f.StringVar(&c.align, "align", "zerofill", "date alignment between tickers: zerofill or inner")
	f.StringVar(&c.benchmark, "benchmark", "", "benchmark for beta (default $BENCHMARK_SYMBOL or SPY)")
}

func (c *reportCmd) request(args []string) (finance.PortfolioRequest, error) {
	var req finance.PortfolioRequest
	if c.start == "" || c.amount == "" {
		return req, fmt.Errorf("-start and -amount are required")
	}
	start, err := finance.ParseStartDate(c.start)
	if err != nil {
		return req, err
	}
	amount, err := finance.ParseAmount(c.amount)
	if err != nil {
		return req, err
	}
	assets, err := finance.ParseAssetArgs(args)
	if err != nil {
		return req, err
	}
	align, ok := analytics.ParseAlignPolicy(c.align)
	if !ok {
		return req, fmt.Errorf("unknown alignment %q: use zerofill or inner", c.align)
	}
	return finance.PortfolioRequest{Start: start, Assets: assets, Investment: amount, Align: align}, nil
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := setup()
	req, err := c.request(f.Args())
	if err != nil {
		return c.fail(subcommands.ExitUsageError, err)
	}
	benchmark := c.benchmark
	if benchmark == "" {
		benchmark = cfg.Benchmark
	}

	res, err := newAnalyzer(benchmark).Run(ctx, req)
	if err != nil {
		return c.fail(subcommands.ExitFailure, err)
	}
	for _, w := range res.Report.Warnings() {
		fmt.Fprintln(c.errw(), w.String())
	}
	c.printMarkdown(finance.ReportMarkdown(res.Report))
	if err := c.writeChart(res.Chart); err != nil {
		return c.fail(subcommands.ExitFailure, err)
	}
	return subcommands.ExitSuccess
}
