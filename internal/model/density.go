package model

// DefaultDensity is used for weight metrics when a grade has no entry in
// the density table. It matches structural carbon steel in kg/m3.
const DefaultDensity = 7850.0

// DensityTable maps material grades to densities in kg/m3. Weight metrics
// never fail on an unknown grade; the fallback keeps results finite.
type DensityTable struct {
	Densities map[string]float64 `json:"densities"`
	Fallback  float64            `json:"fallback"`
}

// DefaultDensityTable returns densities for the common shop materials.
func DefaultDensityTable() DensityTable {
	return DensityTable{
		Densities: map[string]float64{
			"S235":   7850,
			"S355":   7850,
			"1.4301": 7900, // 304 stainless
			"1.4404": 8000, // 316L stainless
			"AlMg3":  2660,
			"Cu":     8960,
		},
		Fallback: DefaultDensity,
	}
}

// Lookup returns the density for a grade, or the fallback when the grade
// is unknown. A zero-value table still yields DefaultDensity.
func (t DensityTable) Lookup(grade string) float64 {
	if d, ok := t.Densities[grade]; ok && d > 0 {
		return d
	}
	if t.Fallback > 0 {
		return t.Fallback
	}
	return DefaultDensity
}
