package model

// OptimizeGoal selects the strategy for the linear packer.
type OptimizeGoal string

const (
	GoalSpeed OptimizeGoal = "speed" // first-fit-decreasing only, deterministic
	GoalWaste OptimizeGoal = "waste" // FFD baseline plus randomized-restart search
)

// LinearPart represents a required length to be cut from bar stock.
// EffectiveLength is the space the cut consumes on the bar: the nominal
// length plus the kerf lost to the saw blade.
type LinearPart struct {
	ID              string  `json:"id"`
	Label           string  `json:"label"`
	RawMaterial     string  `json:"raw_material"` // e.g. profile designation "HEA 100"
	Length          float64 `json:"length"`       // mm
	Quantity        int     `json:"quantity"`
	EffectiveLength float64 `json:"effective_length"` // mm, length + kerf
}

// NewLinearPart creates a LinearPart with its effective length precomputed
// from the given kerf.
func NewLinearPart(label, rawMaterial string, length float64, qty int, kerf float64) LinearPart {
	return LinearPart{
		ID:              label,
		Label:           label,
		RawMaterial:     rawMaterial,
		Length:          length,
		Quantity:        qty,
		EffectiveLength: length + kerf,
	}
}

// CutInstance is one unit of a LinearPart during packing. InstanceID
// disambiguates otherwise-identical units so consumed instances can be
// removed from the working pool exactly once.
type CutInstance struct {
	ID              string  `json:"id"`
	InstanceID      string  `json:"instance_id"`
	Label           string  `json:"label"`
	RawMaterial     string  `json:"raw_material"`
	Length          float64 `json:"length"`
	EffectiveLength float64 `json:"effective_length"`
}

// StockLayout is one bar with the cuts assigned to it.
type StockLayout struct {
	StockLength float64       `json:"stock_length"` // mm, nominal bar length
	RawMaterial string        `json:"raw_material"`
	Cuts        []CutInstance `json:"cuts"`
}

// UsedLength returns the total effective length consumed on this bar.
func (l StockLayout) UsedLength() float64 {
	var total float64
	for _, c := range l.Cuts {
		total += c.EffectiveLength
	}
	return total
}

// WasteLength returns the unused length of the bar.
func (l StockLayout) WasteLength() float64 {
	return l.StockLength - l.UsedLength()
}

// WastePercentage returns the waste share of the bar length, 0..100.
func (l StockLayout) WastePercentage() float64 {
	if l.StockLength == 0 {
		return 0
	}
	return l.WasteLength() / l.StockLength * 100.0
}

// LinearNestingResult holds the full 1D cutting-stock solution.
type LinearNestingResult struct {
	Layouts       []StockLayout `json:"layouts"`
	UnplacedParts []LinearPart  `json:"unplaced_parts"`
	StocksUsed    int           `json:"stocks_used"`
}

// TotalWaste returns the summed waste length across all bars in mm.
func (r LinearNestingResult) TotalWaste() float64 {
	var total float64
	for _, l := range r.Layouts {
		total += l.WasteLength()
	}
	return total
}

// TotalWastePercentage returns overall waste share of all bar length, 0..100.
func (r LinearNestingResult) TotalWastePercentage() float64 {
	var stockLength float64
	for _, l := range r.Layouts {
		stockLength += l.StockLength
	}
	if stockLength == 0 {
		return 0
	}
	return r.TotalWaste() / stockLength * 100.0
}

// DefaultLinearTrials is the number of randomized restarts used by the
// waste-minimization search when no trial count is configured.
const DefaultLinearTrials = 50

// LinearSettings holds the constraints and strategy for the linear packer.
type LinearSettings struct {
	StockLength    float64      `json:"stock_length"`    // mm, nominal bar length
	LeftAllowance  float64      `json:"left_allowance"`  // mm clamped/trimmed at the left bar end
	RightAllowance float64      `json:"right_allowance"` // mm clamped/trimmed at the right bar end
	Kerf           float64      `json:"kerf"`            // mm lost per cut
	Goal           OptimizeGoal `json:"goal"`
	Trials         int          `json:"trials"` // randomized restarts in waste mode; 0 means DefaultLinearTrials
}

// UsableLength returns the bar length available for cuts.
func (s LinearSettings) UsableLength() float64 {
	return s.StockLength - s.LeftAllowance - s.RightAllowance
}

// TrialCount returns the configured trial count, falling back to the default.
func (s LinearSettings) TrialCount() int {
	if s.Trials <= 0 {
		return DefaultLinearTrials
	}
	return s.Trials
}

func DefaultLinearSettings() LinearSettings {
	return LinearSettings{
		StockLength:    6000.0,
		LeftAllowance:  10.0,
		RightAllowance: 10.0,
		Kerf:           3.0,
		Goal:           GoalWaste,
		Trials:         DefaultLinearTrials,
	}
}
