package engine

import (
	"testing"

	"github.com/fabworks/nestcut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPosition_EmptySheetUsesOrigin(t *testing.T) {
	settings := model.SheetSettings{EdgeClearance: 10, PartClearance: 5}
	sheet := testSheet("Sheet", 1000, 500, 1)

	pos := FindPosition(testPart("A", 200, 100, 1), nil, sheet, settings)

	require.NotNil(t, pos)
	assert.Equal(t, 10.0, pos.X, "origin is offset by the edge clearance")
	assert.Equal(t, 10.0, pos.Y)
	assert.False(t, pos.Rotated)
}

func TestFindPosition_PrefersLowestThenLeftmost(t *testing.T) {
	settings := model.SheetSettings{EdgeClearance: 0, PartClearance: 0}
	sheet := testSheet("Sheet", 1000, 500, 1)

	placed := []model.PlacedPart{
		{Part: testPart("First", 400, 200, 1), X: 0, Y: 0},
	}

	// Both shelf corners are feasible; the right-of corner shares y=0 and
	// must win over the below corner at y=400.
	pos := FindPosition(testPart("Next", 300, 200, 1), placed, sheet, settings)

	require.NotNil(t, pos)
	assert.Equal(t, 200.0, pos.X)
	assert.Equal(t, 0.0, pos.Y)
}

func TestFindPosition_PartClearanceSeparatesParts(t *testing.T) {
	settings := model.SheetSettings{EdgeClearance: 0, PartClearance: 10}
	sheet := testSheet("Sheet", 1000, 500, 1)

	placed := []model.PlacedPart{
		{Part: testPart("First", 400, 200, 1), X: 0, Y: 0},
	}

	pos := FindPosition(testPart("Next", 400, 200, 1), placed, sheet, settings)

	require.NotNil(t, pos)
	assert.Equal(t, 210.0, pos.X, "candidate sits one clearance right of the neighbor")
	assert.Equal(t, 0.0, pos.Y)
}

func TestFindPosition_TieBreakKeepsUnrotated(t *testing.T) {
	// A square-ish sheet where both orientations fit at the origin: the
	// unrotated orientation is evaluated first and must win the tie.
	settings := model.SheetSettings{EdgeClearance: 0, PartClearance: 0, AllowRotation: true}
	sheet := testSheet("Sheet", 500, 500, 1)

	pos := FindPosition(testPart("A", 300, 200, 1), nil, sheet, settings)

	require.NotNil(t, pos)
	assert.False(t, pos.Rotated, "ties at equal (y, x) favor the unrotated orientation")
}

func TestFindPosition_RotationUnlocksPlacement(t *testing.T) {
	settings := model.SheetSettings{EdgeClearance: 0, PartClearance: 0, AllowRotation: true}
	sheet := testSheet("Sheet", 300, 500, 1)

	pos := FindPosition(testPart("Strip", 450, 100, 1), nil, sheet, settings)

	require.NotNil(t, pos)
	assert.True(t, pos.Rotated)
}

func TestFindPosition_NoFeasiblePoint(t *testing.T) {
	settings := model.SheetSettings{EdgeClearance: 0, PartClearance: 0, AllowRotation: true}
	sheet := testSheet("Sheet", 300, 300, 1)

	pos := FindPosition(testPart("Huge", 400, 400, 1), nil, sheet, settings)

	assert.Nil(t, pos)
}

func TestFindPosition_EdgeClearanceShrinksSheet(t *testing.T) {
	settings := model.SheetSettings{EdgeClearance: 30, PartClearance: 0}
	sheet := testSheet("Sheet", 300, 300, 1)

	// 250x250 fits the raw sheet but not the 240x240 clearance-shrunk one.
	pos := FindPosition(testPart("Plate", 250, 250, 1), nil, sheet, settings)
	assert.Nil(t, pos)

	pos = FindPosition(testPart("Smaller", 240, 240, 1), nil, sheet, settings)
	require.NotNil(t, pos)
	assert.Equal(t, 30.0, pos.X)
	assert.Equal(t, 30.0, pos.Y)
}
