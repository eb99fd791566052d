package analytics

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingData means a requested ticker or the benchmark has no price history.
	ErrMissingData = errors.New("missing price data")
	// ErrInsufficientHistory means too few points to build the portfolio return series.
	ErrInsufficientHistory = errors.New("insufficient price history")
	// ErrInvalidWeights means the weighting cannot be normalized.
	ErrInvalidWeights = errors.New("invalid weights")
	// ErrInvalidInvestment means the investment amount is not positive.
	ErrInvalidInvestment = errors.New("investment amount must be positive")
)

// WarningKind classifies non-fatal conditions.
type WarningKind string

const (
	WarnWeightsAdjusted      WarningKind = "weights_adjusted"
	WarnInvalidWeight        WarningKind = "invalid_weight"
	WarnMissingDividendYield WarningKind = "missing_dividend_yield"
	WarnUndefinedBeta        WarningKind = "undefined_beta"
)

// Warning is a non-fatal condition surfaced alongside the report
type Warning struct {
	Kind    WarningKind
	Symbol  string // empty when the warning concerns the whole portfolio
	Message string
}

func (w Warning) String() string {
	if w.Symbol == "" {
		return "Warning: " + w.Message
	}
	return fmt.Sprintf("Warning (%s): %s", w.Symbol, w.Message)
}
