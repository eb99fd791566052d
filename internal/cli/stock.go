package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"portfolioStatsBot/internal/finance"
)

type stockCmd struct {
	output
}

func (*stockCmd) Name() string     { return "stock" }
func (*stockCmd) Synopsis() string { return "one share of a stock over the past year" }
func (*stockCmd) Usage() string {
	return `perf stock [-o chart.png] [-raw] SYM

  Shows the initial and final price, gain and CAGR of one share over the past year.
`
}

func (c *stockCmd) SetFlags(f *flag.FlagSet) { c.output.setFlags(f) }

func (c *stockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := setup()
	if f.NArg() != 1 {
		return c.fail(subcommands.ExitUsageError, fmt.Errorf("expected exactly one symbol"))
	}
	res, err := newAnalyzer(cfg.Benchmark).Stock(ctx, f.Arg(0))
	if err != nil {
		return c.fail(subcommands.ExitFailure, err)
	}
	c.printMarkdown(fmt.Sprintf("# %s\n\n```\n%s\n```\n", res.Performance.Symbol, finance.StockText(res.Performance)))
	if err := c.writeChart(res.Chart); err != nil {
		return c.fail(subcommands.ExitFailure, err)
	}
	return subcommands.ExitSuccess
}
