package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLinearPart_PrecomputesEffectiveLength(t *testing.T) {
	p := NewLinearPart("Beam", "HEA 100", 2000, 3, 3.5)
	assert.Equal(t, 2003.5, p.EffectiveLength)
	assert.Equal(t, 3, p.Quantity)
}

func TestStockLayout_Metrics(t *testing.T) {
	layout := StockLayout{
		StockLength: 6000,
		RawMaterial: "HEA 100",
		Cuts: []CutInstance{
			{InstanceID: "a-1", EffectiveLength: 2000},
			{InstanceID: "a-2", EffectiveLength: 2000},
			{InstanceID: "b-1", EffectiveLength: 1000},
		},
	}

	assert.InDelta(t, 5000.0, layout.UsedLength(), 0.001)
	assert.InDelta(t, 1000.0, layout.WasteLength(), 0.001)
	assert.InDelta(t, 100.0/6.0, layout.WastePercentage(), 0.001)
}

func TestStockLayout_WastePercentageZeroLength(t *testing.T) {
	assert.Equal(t, 0.0, StockLayout{}.WastePercentage())
}

func TestLinearNestingResult_Totals(t *testing.T) {
	result := LinearNestingResult{
		Layouts: []StockLayout{
			{StockLength: 6000, Cuts: []CutInstance{{EffectiveLength: 5500}}},
			{StockLength: 6000, Cuts: []CutInstance{{EffectiveLength: 4500}}},
		},
		StocksUsed: 2,
	}

	assert.InDelta(t, 2000.0, result.TotalWaste(), 0.001)
	assert.InDelta(t, 100.0/6.0, result.TotalWastePercentage(), 0.001)
}

func TestLinearSettings_UsableLength(t *testing.T) {
	s := LinearSettings{StockLength: 6000, LeftAllowance: 25, RightAllowance: 15}
	assert.Equal(t, 5960.0, s.UsableLength())
}

func TestLinearSettings_TrialCountFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultLinearTrials, LinearSettings{}.TrialCount())
	assert.Equal(t, 10, LinearSettings{Trials: 10}.TrialCount())
}
