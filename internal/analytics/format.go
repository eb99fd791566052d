package analytics

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatUSD renders an amount as US dollars, e.g. "$12,100.00".
func FormatUSD(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "n/a"
	}
	cents := decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0)
	return money.New(cents.IntPart(), money.USD).Display()
}

// FormatPercent renders a percentage value with two decimals.
func FormatPercent(v float64) string {
	if s, ok := special(v); ok {
		return s
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatRatio renders a plain ratio with two decimals.
func FormatRatio(v float64) string {
	if s, ok := special(v); ok {
		return s
	}
	return fmt.Sprintf("%.2f", v)
}

func special(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "n/a", true
	case math.IsInf(v, 1):
		return "∞", true
	case math.IsInf(v, -1):
		return "-∞", true
	}
	return "", false
}
