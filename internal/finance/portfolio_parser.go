package finance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"portfolioStatsBot/internal/analytics"
)

// startDateLayout is DDMMYYYY, e.g. 02122024
const startDateLayout = "02012006"

// PortfolioRequest is a fully-formed analysis request.
type PortfolioRequest struct {
	Start      time.Time
	Assets     []analytics.WeightedAsset
	Investment float64
	Align      analytics.AlignPolicy
}

// CacheKey identifies the request for the chart cache.
func (r PortfolioRequest) CacheKey() string {
	parts := make([]string, 0, len(r.Assets))
	for _, a := range r.Assets {
		parts = append(parts, fmt.Sprintf("%s:%.4f", a.Symbol, a.Weight))
	}
	return fmt.Sprintf("perf-%s-%s-%.2f-%s", r.Start.Format("2006-01-02"), strings.Join(parts, ","), r.Investment, r.Align)
}

// ParseStartDate accepts DDMMYYYY or YYYY-MM-DD.
func ParseStartDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(startDateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date format %q: use DDMMYYYY, e.g. 02122024", s)
}

// ParseAmount parses a positive investment amount such as 10000 or 1,234.56.
func ParseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", ""))
	if err != nil {
		return 0, fmt.Errorf("invalid investment amount '%s': %w", s, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("investment amount must be positive, got %s", d.String())
	}
	return d.Round(2).InexactFloat64(), nil
}

// ParseWeightedPortfolio parses a portfolio command string
// Format: /perf 02122024 AAPL 0.5 MSFT 0.5 10000
// or, for one ticker: /perf 02122024 AAPL 10000
func ParseWeightedPortfolio(input string) (PortfolioRequest, error) {
	// Remove command prefix and clean input
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "/perf") {
		input = strings.TrimSpace(input[5:])
		// drop a @botname suffix
		if strings.HasPrefix(input, "@") {
			if i := strings.IndexByte(input, ' '); i > 0 {
				input = input[i:]
			} else {
				input = ""
			}
		}
	}

	parts := strings.Fields(input)
	if len(parts) < 3 {
		return PortfolioRequest{}, fmt.Errorf("insufficient arguments: need at least start date, symbol and amount")
	}

	start, err := ParseStartDate(parts[0])
	if err != nil {
		return PortfolioRequest{}, err
	}
	amount, err := ParseAmount(parts[len(parts)-1])
	if err != nil {
		return PortfolioRequest{}, err
	}
	parts = parts[1 : len(parts)-1]

	if len(parts) == 1 {
		sym := strings.ToUpper(strings.TrimSpace(parts[0]))
		return PortfolioRequest{
			Start:      start,
			Assets:     []analytics.WeightedAsset{{Symbol: sym, Weight: 1}},
			Investment: amount,
		}, nil
	}

	// Remaining parts should be pairs of symbol weight
	if len(parts)%2 != 0 {
		return PortfolioRequest{}, fmt.Errorf("invalid format: each symbol must have a weight")
	}

	var assets []analytics.WeightedAsset
	seen := make(map[string]bool)
	for i := 0; i < len(parts); i += 2 {
		symbol := strings.ToUpper(strings.TrimSpace(parts[i]))
		weightStr := strings.TrimSpace(parts[i+1])

		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return PortfolioRequest{}, fmt.Errorf("invalid weight '%s' for symbol %s: %w", weightStr, symbol, err)
		}
		if seen[symbol] {
			return PortfolioRequest{}, fmt.Errorf("duplicate symbol: %s", symbol)
		}
		seen[symbol] = true
		assets = append(assets, analytics.WeightedAsset{Symbol: symbol, Weight: weight})
	}

	return PortfolioRequest{Start: start, Assets: assets, Investment: amount}, nil
}

// ParseAssetArgs parses CLI arguments of the form SYM or SYM=WEIGHT.
func ParseAssetArgs(args []string) ([]analytics.WeightedAsset, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no symbols provided")
	}
	assets := make([]analytics.WeightedAsset, 0, len(args))
	for _, arg := range args {
		sym, w, hasWeight := strings.Cut(arg, "=")
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			return nil, fmt.Errorf("empty symbol in %q", arg)
		}
		weight := 1.0
		if hasWeight {
			v, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid weight '%s' for symbol %s: %w", w, sym, err)
			}
			weight = v
		} else if len(args) > 1 {
			return nil, fmt.Errorf("symbol %s needs a weight (SYM=0.5) when tracking several stocks", sym)
		}
		assets = append(assets, analytics.WeightedAsset{Symbol: sym, Weight: weight})
	}
	return assets, nil
}
