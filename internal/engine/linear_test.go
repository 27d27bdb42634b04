package engine

import (
	"fmt"
	"testing"

	"github.com/fabworks/nestcut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLinearSettings() model.LinearSettings {
	// Simplify for testing: no allowances, no kerf, deterministic FFD
	return model.LinearSettings{
		StockLength: 6000,
		Goal:        model.GoalSpeed,
	}
}

func testBar(label string, length float64, qty int) model.LinearPart {
	return model.NewLinearPart(label, "HEA 100", length, qty, 0)
}

func TestLinearPack_ExactBaseline(t *testing.T) {
	// Two 2000s and one 1000 fill a single 6000 bar with 1000 waste.
	packer := NewLinearPacker(testLinearSettings(), 1)

	result, err := packer.Pack([]model.LinearPart{
		testBar("Beam", 2000, 2),
		testBar("Post", 1000, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.StocksUsed)
	require.Len(t, result.Layouts, 1)
	require.Len(t, result.Layouts[0].Cuts, 3)
	assert.InDelta(t, 5000.0, result.Layouts[0].UsedLength(), 0.001)
	assert.InDelta(t, 1000.0, result.Layouts[0].WasteLength(), 0.001)
	assert.Len(t, result.UnplacedParts, 0)
}

func TestLinearPack_ImmediateRejection(t *testing.T) {
	// A part longer than the usable bar can never fit and is reported
	// unplaced without producing any layout.
	settings := testLinearSettings()
	settings.StockLength = 1000
	packer := NewLinearPacker(settings, 1)

	result, err := packer.Pack([]model.LinearPart{testBar("TooLong", 1200, 1)})
	require.NoError(t, err)

	assert.Len(t, result.Layouts, 0)
	assert.Equal(t, 0, result.StocksUsed)
	require.Len(t, result.UnplacedParts, 1)
	assert.Equal(t, 1, result.UnplacedParts[0].Quantity)
	assert.Equal(t, "TooLong", result.UnplacedParts[0].ID)
}

func TestLinearPack_AllowancesShrinkUsableLength(t *testing.T) {
	settings := testLinearSettings()
	settings.LeftAllowance = 100
	settings.RightAllowance = 100
	packer := NewLinearPacker(settings, 1)

	// 5900 exceeds the 5800 usable length even though the bar is 6000.
	result, err := packer.Pack([]model.LinearPart{testBar("Long", 5900, 1)})
	require.NoError(t, err)

	assert.Len(t, result.Layouts, 0)
	require.Len(t, result.UnplacedParts, 1)
}

func TestLinearPack_KerfInflatesEffectiveLength(t *testing.T) {
	settings := testLinearSettings()
	settings.StockLength = 1000
	settings.Kerf = 5
	packer := NewLinearPacker(settings, 1)

	// Two 500 cuts at 505 effective each exceed one bar.
	parts := []model.LinearPart{model.NewLinearPart("Half", "Flat 40x5", 500, 2, settings.Kerf)}
	result, err := packer.Pack(parts)
	require.NoError(t, err)

	assert.Equal(t, 2, result.StocksUsed)
	assert.Len(t, result.UnplacedParts, 0)
}

func TestLinearPack_Conservation(t *testing.T) {
	packer := NewLinearPacker(testLinearSettings(), 1)

	parts := []model.LinearPart{
		testBar("A", 2500, 5),
		testBar("B", 1800, 4),
		testBar("C", 7000, 2), // never fits
	}
	result, err := packer.Pack(parts)
	require.NoError(t, err)

	placed := make(map[string]int)
	for _, l := range result.Layouts {
		for _, c := range l.Cuts {
			placed[c.ID]++
		}
	}
	unplaced := make(map[string]int)
	for _, u := range result.UnplacedParts {
		unplaced[u.ID] = u.Quantity
	}
	for _, p := range parts {
		assert.Equal(t, p.Quantity, placed[p.ID]+unplaced[p.ID],
			"conservation violated for %s", p.ID)
	}
}

func TestLinearPack_BarCapacity(t *testing.T) {
	settings := testLinearSettings()
	settings.LeftAllowance = 50
	settings.RightAllowance = 50
	settings.Goal = model.GoalWaste
	packer := NewLinearPacker(settings, 7)

	result, err := packer.Pack([]model.LinearPart{
		testBar("A", 2100, 6),
		testBar("B", 950, 7),
		testBar("C", 430, 9),
	})
	require.NoError(t, err)

	usable := settings.UsableLength()
	for _, l := range result.Layouts {
		assert.LessOrEqual(t, l.UsedLength(), usable+placeEpsilon,
			"bar must not exceed usable length")
	}
}

func TestLinearPack_MaterialGrouping(t *testing.T) {
	packer := NewLinearPacker(testLinearSettings(), 1)

	hea := model.NewLinearPart("Col", "HEA 100", 3000, 1, 0)
	ipe := model.NewLinearPart("Rafter", "IPE 200", 2800, 1, 0)

	result, err := packer.Pack([]model.LinearPart{hea, ipe})
	require.NoError(t, err)

	require.Len(t, result.Layouts, 2, "different materials cannot share a bar")
	assert.Equal(t, "HEA 100", result.Layouts[0].RawMaterial)
	assert.Equal(t, "IPE 200", result.Layouts[1].RawMaterial)
	for _, l := range result.Layouts {
		for _, c := range l.Cuts {
			assert.Equal(t, l.RawMaterial, c.RawMaterial)
		}
	}
}

func TestLinearPack_SpeedModeDeterministic(t *testing.T) {
	parts := []model.LinearPart{
		testBar("A", 2500, 4),
		testBar("B", 1400, 6),
	}

	first, err := NewLinearPacker(testLinearSettings(), 1).Pack(parts)
	require.NoError(t, err)
	second, err := NewLinearPacker(testLinearSettings(), 99).Pack(parts)
	require.NoError(t, err)

	// Speed mode never touches the random source, so even different
	// seeds produce identical output.
	assert.Equal(t, first, second)
}

func TestLinearPack_WasteModeReproducibleForFixedSeed(t *testing.T) {
	settings := testLinearSettings()
	settings.Goal = model.GoalWaste
	parts := []model.LinearPart{
		testBar("A", 2100, 5),
		testBar("B", 1700, 5),
		testBar("C", 900, 5),
	}

	first, err := NewLinearPacker(settings, 42).Pack(parts)
	require.NoError(t, err)
	second, err := NewLinearPacker(settings, 42).Pack(parts)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same seed must reproduce the same layouts")
}

func TestBestBar_NeverWorseThanBaseline(t *testing.T) {
	// The randomized search starts from the FFD incumbent and replaces it
	// only on strict improvement, so its waste is bounded by the baseline.
	settings := testLinearSettings()
	settings.StockLength = 10
	settings.Goal = model.GoalWaste
	packer := NewLinearPacker(settings, 3)

	var pool []model.CutInstance
	for i, length := range []float64{6, 5, 5, 4, 3, 2} {
		pool = append(pool, model.CutInstance{
			ID:              fmt.Sprintf("p%d", i),
			InstanceID:      fmt.Sprintf("p%d-1", i),
			RawMaterial:     "HEA 100",
			Length:          length,
			EffectiveLength: length,
		})
	}

	usable := settings.UsableLength()
	baseline, baseUsed := fillBar(pool, usable)
	require.NotEmpty(t, baseline)

	best := packer.bestBar(pool, usable)
	var bestUsed float64
	for _, c := range best {
		bestUsed += c.EffectiveLength
	}
	assert.GreaterOrEqual(t, bestUsed, baseUsed-placeEpsilon,
		"waste mode must never be worse than the FFD baseline")
}

func TestLinearPack_TrialCountConfigurable(t *testing.T) {
	settings := testLinearSettings()
	settings.Goal = model.GoalWaste
	settings.Trials = 5
	packer := NewLinearPacker(settings, 11)

	result, err := packer.Pack([]model.LinearPart{testBar("A", 1500, 8)})
	require.NoError(t, err)
	assert.Len(t, result.UnplacedParts, 0)
	assert.Equal(t, 2, result.StocksUsed)
}

func TestLinearPack_MalformedInput(t *testing.T) {
	packer := NewLinearPacker(testLinearSettings(), 1)

	_, err := packer.Pack([]model.LinearPart{testBar("Bad", 0, 1)})
	assert.Error(t, err, "non-positive length must fail fast")

	negative := testBar("Neg", 1000, 1)
	negative.Quantity = -2
	_, err = packer.Pack([]model.LinearPart{negative})
	assert.Error(t, err, "negative quantity must fail fast")
}

func TestLinearPack_ZeroQuantityRowsSkipped(t *testing.T) {
	packer := NewLinearPacker(testLinearSettings(), 1)

	result, err := packer.Pack([]model.LinearPart{testBar("None", 1000, 0)})
	require.NoError(t, err)
	assert.Len(t, result.Layouts, 0)
	assert.Len(t, result.UnplacedParts, 0)
}

func TestLinearUnplacedSet_LeftoverInstancesKeepLabel(t *testing.T) {
	// Leftover instances consolidate back into rows that keep the
	// caller's label even when it differs from the part id.
	part := model.NewLinearPart("Brace", "HEA 100", 2000, 2, 3)
	part.ID = "row-1"

	instances := expandLinearPart(part, map[string]int{})
	require.Len(t, instances, 2)
	assert.Equal(t, "Brace", instances[0].Label)

	set := newLinearUnplacedSet()
	for _, inst := range instances {
		set.addInstance(inst)
	}

	rows := set.consolidated()
	require.Len(t, rows, 1)
	assert.Equal(t, "Brace", rows[0].Label)
	assert.Equal(t, 2, rows[0].Quantity)
}
