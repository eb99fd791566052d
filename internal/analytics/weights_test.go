package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWeights_Renormalizes(t *testing.T) {
	w, warnings, err := NormalizeWeights([]WeightedAsset{{"AAPL", 0.5}, {"MSFT", 0.4}})
	require.NoError(t, err)

	assert.InDelta(t, 0.5556, w[0].Weight, 1e-4)
	assert.InDelta(t, 0.4444, w[1].Weight, 1e-4)
	assert.InDelta(t, 1.0, w.Sum(), 1e-12)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnWeightsAdjusted, warnings[0].Kind)
}

func TestNormalizeWeights_AlreadyNormalized(t *testing.T) {
	w, warnings, err := NormalizeWeights([]WeightedAsset{{"AAPL", 0.6}, {"MSFT", 0.4}})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []float64{0.6, 0.4}, w.Weights())
}

func TestNormalizeWeights_Idempotent(t *testing.T) {
	once, _, err := NormalizeWeights([]WeightedAsset{{"A", 0.3}, {"B", 0.3}, {"C", 0.1}})
	require.NoError(t, err)
	twice, _, err := NormalizeWeights(once)
	require.NoError(t, err)

	for i := range once {
		assert.Equal(t, once[i].Symbol, twice[i].Symbol)
		assert.InDelta(t, once[i].Weight, twice[i].Weight, 1e-12)
	}
}

func TestNormalizeWeights_SingleTickerFixedToOne(t *testing.T) {
	w, warnings, err := NormalizeWeights([]WeightedAsset{{"AAPL", 0.3}})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, Weighting{{Symbol: "AAPL", Weight: 1}}, w)
}

func TestNormalizeWeights_OutOfRange(t *testing.T) {
	w, warnings, err := NormalizeWeights([]WeightedAsset{{"A", -0.2}, {"B", 1.5}, {"C", 0.5}})
	require.NoError(t, err)

	assert.Equal(t, 0.0, w[0].Weight)
	assert.InDelta(t, 0.75, w[1].Weight, 1e-12)
	assert.InDelta(t, 0.25, w[2].Weight, 1e-12)

	kinds := make([]WarningKind, len(warnings))
	for i, warn := range warnings {
		kinds[i] = warn.Kind
	}
	assert.Equal(t, []WarningKind{WarnInvalidWeight, WarnInvalidWeight, WarnWeightsAdjusted}, kinds)
}

func TestNormalizeWeights_Errors(t *testing.T) {
	tests := []struct {
		name   string
		assets []WeightedAsset
	}{
		{"empty", nil},
		{"zero sum", []WeightedAsset{{"A", 0}, {"B", 0}}},
		{"duplicate", []WeightedAsset{{"A", 0.5}, {"A", 0.5}}},
		{"blank symbol", []WeightedAsset{{" ", 0.5}, {"B", 0.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NormalizeWeights(tt.assets)
			assert.ErrorIs(t, err, ErrInvalidWeights)
		})
	}
}
