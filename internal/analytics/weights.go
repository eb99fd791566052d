package analytics

import (
	"fmt"
	"strings"
)

// WeightedAsset represents an asset with its target weight in the portfolio
type WeightedAsset struct {
	Symbol string
	Weight float64 // Target weight (0.0 to 1.0)
}

// Weighting is the ordered list of portfolio assets; the first asset defines
// the reference calendar for portfolio returns.
type Weighting []WeightedAsset

// Symbols returns the asset symbols in order.
func (w Weighting) Symbols() []string {
	out := make([]string, len(w))
	for i, a := range w {
		out[i] = a.Symbol
	}
	return out
}

// Weights returns the weights in order.
func (w Weighting) Weights() []float64 {
	out := make([]float64, len(w))
	for i, a := range w {
		out[i] = a.Weight
	}
	return out
}

// Sum returns the total weight.
func (w Weighting) Sum() float64 {
	total := 0.0
	for _, a := range w {
		total += a.Weight
	}
	return total
}

// Has reports whether symbol is held.
func (w Weighting) Has(symbol string) bool {
	for _, a := range w {
		if a.Symbol == symbol {
			return true
		}
	}
	return false
}

// NormalizeWeights validates the weighting and rescales it to sum to 1.
//
// A single asset always gets weight 1. With several assets, negative weights
// are clamped to 0 and weights above 1 are kept; then, if the total is not
// exactly 1, every weight is multiplied by 1/total. Each adjustment is
// reported as a warning.
func NormalizeWeights(assets []WeightedAsset) (Weighting, []Warning, error) {
	if len(assets) == 0 {
		return nil, nil, fmt.Errorf("%w: no assets", ErrInvalidWeights)
	}

	seen := make(map[string]bool, len(assets))
	for i, a := range assets {
		if strings.TrimSpace(a.Symbol) == "" {
			return nil, nil, fmt.Errorf("%w: empty symbol at position %d", ErrInvalidWeights, i+1)
		}
		if seen[a.Symbol] {
			return nil, nil, fmt.Errorf("%w: duplicate symbol %s", ErrInvalidWeights, a.Symbol)
		}
		seen[a.Symbol] = true
	}

	if len(assets) == 1 {
		return Weighting{{Symbol: assets[0].Symbol, Weight: 1}}, nil, nil
	}

	var warnings []Warning
	out := make(Weighting, len(assets))
	for i, a := range assets {
		w := a.Weight
		switch {
		case w < 0:
			warnings = append(warnings, Warning{
				Kind:    WarnInvalidWeight,
				Symbol:  a.Symbol,
				Message: fmt.Sprintf("weight %.4f is below 0, using 0", w),
			})
			w = 0
		case w > 1:
			warnings = append(warnings, Warning{
				Kind:    WarnInvalidWeight,
				Symbol:  a.Symbol,
				Message: fmt.Sprintf("weight %.4f is above 1", w),
			})
		}
		out[i] = WeightedAsset{Symbol: a.Symbol, Weight: w}
	}

	total := out.Sum()
	if total <= 0 {
		return nil, warnings, fmt.Errorf("%w: weights sum to %.4f", ErrInvalidWeights, total)
	}
	if total != 1 {
		factor := 1 / total
		for i := range out {
			out[i].Weight *= factor
		}
		warnings = append(warnings, Warning{
			Kind:    WarnWeightsAdjusted,
			Message: fmt.Sprintf("the sum of weightings is %.4f, not 1; adjusted to sum to 1", total),
		})
	}
	return out, warnings, nil
}
