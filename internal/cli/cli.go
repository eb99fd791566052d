// Package cli holds the subcommands of the perf command line tool.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"portfolioStatsBot/internal/config"
	"portfolioStatsBot/internal/finance"
	"portfolioStatsBot/internal/logging"
)

// Commands lists every subcommand of the perf tool.
var Commands = []subcommands.Command{
	&reportCmd{},
	&stockCmd{},
}

type analyzer interface {
	Run(ctx context.Context, req finance.PortfolioRequest) (*finance.Result, error)
	Stock(ctx context.Context, symbol string) (*finance.StockResult, error)
}

// newAnalyzer builds the Yahoo-backed analyzer; tests replace it.
var newAnalyzer = func(benchmark string) analyzer {
	return finance.NewAnalyzer(finance.NewProvider(nil), benchmark)
}

// output carries the streams and shared flags of a subcommand.
type output struct {
	stdout io.Writer
	stderr io.Writer
	raw    bool
	chart  string
}

func (o *output) setFlags(f *flag.FlagSet) {
	f.BoolVar(&o.raw, "raw", false, "print plain markdown instead of rendering it")
	f.StringVar(&o.chart, "o", "", "write the chart PNG to this file")
}

func (o *output) out() io.Writer {
	if o.stdout == nil {
		return os.Stdout
	}
	return o.stdout
}

func (o *output) errw() io.Writer {
	if o.stderr == nil {
		return os.Stderr
	}
	return o.stderr
}

func (o *output) fail(status subcommands.ExitStatus, err error) subcommands.ExitStatus {
	fmt.Fprintf(o.errw(), "Error: %v\n", err)
	return status
}

func (o *output) printMarkdown(md string) {
	if o.raw {
		fmt.Fprint(o.out(), md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var rendered string
		if rendered, err = r.Render(md); err == nil {
			fmt.Fprint(o.out(), rendered)
			return
		}
	}
	zap.L().Debug("cli: markdown rendering failed", zap.Error(err))
	fmt.Fprint(o.out(), md)
}

func (o *output) writeChart(img []byte) error {
	if o.chart == "" {
		return nil
	}
	if err := os.WriteFile(o.chart, img, 0o644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	fmt.Fprintf(o.errw(), "chart written to %s\n", o.chart)
	return nil
}

// setup installs the console logger and returns the configuration.
func setup() config.Config {
	cfg := config.LoadCLI()
	if logger, err := logging.NewConsole(cfg.LogLevel); err == nil {
		zap.ReplaceGlobals(logger)
	}
	return cfg
}
