package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKpiKind(t *testing.T) {
	for _, kind := range KpiKinds {
		parsed, err := ParseKpiKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseKpiKind("sharpe_ratio")
	assert.Error(t, err)
	_, err = ParseKpiKind("")
	assert.Error(t, err)
}

func TestKpiGridValue(t *testing.T) {
	grid := &KpiGrid{
		Dates: []string{"2023-01-01"},
		Values: map[KpiKind]map[string]float64{
			KpiNetValue: {
				GridKey("2023-01-01", "a1"): 42.5,
			},
		},
	}

	assert.Equal(t, 42.5, grid.Value("2023-01-01", "a1", KpiNetValue))
	assert.Equal(t, 0.0, grid.Value("2023-01-01", "a2", KpiNetValue), "missing asset defaults to zero")
	assert.Equal(t, 0.0, grid.Value("2023-01-02", "a1", KpiNetValue), "missing date defaults to zero")
	assert.Equal(t, 0.0, grid.Value("2023-01-01", "a1", KpiProfitLoss), "missing kind defaults to zero")
}
