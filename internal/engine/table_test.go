package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelgate/wheelgate/internal/config"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
)

func TestTablesFromConfig_Override(t *testing.T) {
	tables, err := TablesFromConfig(map[string][]config.TableEntry{
		"High": {
			{Multiplier: 0, Probability: 0.5},
			{Multiplier: 2.5, Probability: 0.5},
		},
	})
	require.NoError(t, err)

	e, err := New(tables)
	require.NoError(t, err)

	high, ok := e.Table(model.RiskHigh)
	require.True(t, ok)
	require.Len(t, high, 2)
	assert.True(t, high[0].Multiplier.IsZero())
	assert.True(t, high[1].Multiplier.Equal(decimal.RequireFromString("2.5")))

	low, _ := e.Table(model.RiskLow)
	assert.Len(t, low, 5, "untouched tiers keep their defaults")
}

func TestTablesFromConfig_UnknownTier(t *testing.T) {
	_, err := TablesFromConfig(map[string][]config.TableEntry{
		"extreme": {{Multiplier: 1, Probability: 1}},
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidConfiguration))
}

func TestEngineTableIsCopy(t *testing.T) {
	e := Default()
	table, _ := e.Table(model.RiskLow)
	table[0].Probability = 0.99

	again, _ := e.Table(model.RiskLow)
	assert.Equal(t, 0.45, again[0].Probability)
}
