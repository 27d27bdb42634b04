package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPart_GeneratesStableIDs(t *testing.T) {
	p := NewPart("Bracket", 200, 100, 5, "S235", 3)

	require.NotEmpty(t, p.ID)
	assert.Equal(t, p.ID, p.OriginalID, "fresh rows are their own origin")
	assert.Len(t, p.ID, 8)
}

func TestPlacedPart_ExtentsSwapOnRotation(t *testing.T) {
	part := NewPart("Plate", 400, 300, 5, "S235", 1)

	normal := PlacedPart{Part: part}
	assert.Equal(t, 300.0, normal.ExtentH())
	assert.Equal(t, 400.0, normal.ExtentV())

	rotated := PlacedPart{Part: part, Rotated: true}
	assert.Equal(t, 400.0, rotated.ExtentH())
	assert.Equal(t, 300.0, rotated.ExtentV())
}

func TestSheetLayout_Metrics(t *testing.T) {
	sheet := NewSheetCapacity("Sheet", 1000, 500, 5, "S235", 1)
	layout := SheetLayout{
		Sheet: sheet,
		Parts: []PlacedPart{
			{Part: NewPart("A", 400, 300, 5, "S235", 1)},
			{Part: NewPart("B", 200, 100, 5, "S235", 1)},
		},
	}

	assert.InDelta(t, 140000.0, layout.UsedArea(), 0.001)
	assert.InDelta(t, 360000.0, layout.WasteArea(), 0.001)
	assert.InDelta(t, 72.0, layout.WastePercentage(), 0.001)
}

func TestSheetLayout_WastePercentageZeroAreaSheet(t *testing.T) {
	layout := SheetLayout{}
	assert.Equal(t, 0.0, layout.WastePercentage())
}

func TestAreaWeight(t *testing.T) {
	// 1 square meter of 10mm steel: 1e6 sq mm * 10 mm * 7850 kg/m3 = 78.5 kg
	assert.InDelta(t, 78.5, AreaWeight(1e6, 10, 7850), 0.001)
}

func TestSheetNestingResult_Totals(t *testing.T) {
	sheet := NewSheetCapacity("Sheet", 1000, 500, 10, "S235", 2)
	result := SheetNestingResult{
		Layouts: []SheetLayout{
			{Sheet: sheet, Parts: []PlacedPart{{Part: NewPart("A", 500, 400, 10, "S235", 1)}}},
			{Sheet: sheet, Parts: []PlacedPart{{Part: NewPart("B", 250, 200, 10, "S235", 1)}}},
		},
	}

	assert.InDelta(t, 250000.0, result.TotalUsedArea(), 0.001)
	assert.InDelta(t, 750000.0, result.TotalWasteArea(), 0.001)
	assert.InDelta(t, 75.0, result.TotalWastePercentage(), 0.001)

	densities := DefaultDensityTable()
	// 250000 sq mm * 10 mm * 7850 kg/m3 = 19.625 kg
	assert.InDelta(t, 19.625, result.TotalUsedWeight(densities), 0.001)
}

func TestSheetCapacity_Unbounded(t *testing.T) {
	assert.True(t, SheetCapacity{Quantity: 0}.Unbounded())
	assert.True(t, SheetCapacity{Quantity: -1}.Unbounded())
	assert.False(t, SheetCapacity{Quantity: 3}.Unbounded())
}
