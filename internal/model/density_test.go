package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDensityTable_Lookup(t *testing.T) {
	table := DefaultDensityTable()

	assert.Equal(t, 7850.0, table.Lookup("S235"))
	assert.Equal(t, 2660.0, table.Lookup("AlMg3"))
}

func TestDensityTable_UnknownGradeFallsBack(t *testing.T) {
	table := DefaultDensityTable()
	assert.Equal(t, DefaultDensity, table.Lookup("Unobtainium"))

	custom := DensityTable{Fallback: 1234}
	assert.Equal(t, 1234.0, custom.Lookup("anything"))
}

func TestDensityTable_ZeroValueStillYieldsDefault(t *testing.T) {
	var table DensityTable
	assert.Equal(t, DefaultDensity, table.Lookup("S355"))
}
