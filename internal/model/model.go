package model

import "github.com/google/uuid"

// Part represents a required rectangular piece to be cut from sheet stock.
// Duplicate input rows share an OriginalID so results can be consolidated
// back to the caller's line items.
type Part struct {
	ID         string  `json:"id"`
	OriginalID string  `json:"original_id"`
	Label      string  `json:"label"`
	Length     float64 `json:"length"`    // mm
	Width      float64 `json:"width"`     // mm
	Thickness  float64 `json:"thickness"` // mm
	Grade      string  `json:"grade"`     // material grade, e.g. "S235"
	Quantity   int     `json:"quantity"`
}

func NewPart(label string, length, width, thickness float64, grade string, qty int) Part {
	id := uuid.New().String()[:8]
	return Part{
		ID:         id,
		OriginalID: id,
		Label:      label,
		Length:     length,
		Width:      width,
		Thickness:  thickness,
		Grade:      grade,
		Quantity:   qty,
	}
}

// Area returns the area of a single unit of this part in square mm.
func (p Part) Area() float64 {
	return p.Length * p.Width
}

// SheetCapacity represents one purchasable sheet type. Quantity is the
// supply cap; zero or negative means unbounded supply.
type SheetCapacity struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Length    float64 `json:"length"`    // mm
	Width     float64 `json:"width"`     // mm
	Thickness float64 `json:"thickness"` // mm
	Grade     string  `json:"grade"`
	Quantity  int     `json:"quantity"`
}

func NewSheetCapacity(label string, length, width, thickness float64, grade string, qty int) SheetCapacity {
	return SheetCapacity{
		ID:        uuid.New().String()[:8],
		Label:     label,
		Length:    length,
		Width:     width,
		Thickness: thickness,
		Grade:     grade,
		Quantity:  qty,
	}
}

// Area returns the sheet area in square mm.
func (s SheetCapacity) Area() float64 {
	return s.Length * s.Width
}

// Unbounded reports whether this capacity has no supply cap.
func (s SheetCapacity) Unbounded() bool {
	return s.Quantity <= 0
}

// PlacedPart is a single part instance committed to a position on a sheet.
// X and Y locate the top-left corner in sheet coordinates. Rotated swaps
// the horizontal and vertical extents.
type PlacedPart struct {
	Part    Part    `json:"part"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Rotated bool    `json:"rotated"`
}

// ExtentH returns the horizontal footprint considering rotation.
func (p PlacedPart) ExtentH() float64 {
	if p.Rotated {
		return p.Part.Length
	}
	return p.Part.Width
}

// ExtentV returns the vertical footprint considering rotation.
func (p PlacedPart) ExtentV() float64 {
	if p.Rotated {
		return p.Part.Width
	}
	return p.Part.Length
}

// SheetLayout is one physical sheet instance with its placed parts.
type SheetLayout struct {
	Sheet SheetCapacity `json:"sheet"`
	Parts []PlacedPart  `json:"parts"`
}

// UsedArea returns the total area occupied by placed parts in square mm.
func (l SheetLayout) UsedArea() float64 {
	var total float64
	for _, p := range l.Parts {
		total += p.Part.Area()
	}
	return total
}

// WasteArea returns the sheet area not covered by parts.
func (l SheetLayout) WasteArea() float64 {
	return l.Sheet.Area() - l.UsedArea()
}

// WastePercentage returns the waste share of the sheet area, 0..100.
func (l SheetLayout) WastePercentage() float64 {
	area := l.Sheet.Area()
	if area == 0 {
		return 0
	}
	return l.WasteArea() / area * 100.0
}

// UsedWeight returns the weight in kg of the placed parts for the given
// material density in kg/m3.
func (l SheetLayout) UsedWeight(density float64) float64 {
	return AreaWeight(l.UsedArea(), l.Sheet.Thickness, density)
}

// WasteWeight returns the weight in kg of the wasted sheet area for the
// given material density in kg/m3.
func (l SheetLayout) WasteWeight(density float64) float64 {
	return AreaWeight(l.WasteArea(), l.Sheet.Thickness, density)
}

// AreaWeight converts an area in square mm and a thickness in mm into a
// weight in kg: (area / 1e6) m2 * thickness mm * density kg/m3 / 1000.
func AreaWeight(areaMM2, thicknessMM, density float64) float64 {
	return areaMM2 / 1e6 * thicknessMM * density / 1000.0
}

// SheetUsage counts how many layouts were cut from one capacity definition.
type SheetUsage struct {
	Sheet SheetCapacity `json:"sheet"`
	Count int           `json:"count"`
}

// SheetNestingResult holds the full 2D nesting solution.
type SheetNestingResult struct {
	Layouts       []SheetLayout `json:"layouts"`
	UnplacedParts []Part        `json:"unplaced_parts"`
	SheetUsage    []SheetUsage  `json:"sheet_usage"`
}

// TotalUsedArea returns the placed area across all layouts in square mm.
func (r SheetNestingResult) TotalUsedArea() float64 {
	var total float64
	for _, l := range r.Layouts {
		total += l.UsedArea()
	}
	return total
}

// TotalWasteArea returns the wasted area across all layouts in square mm.
func (r SheetNestingResult) TotalWasteArea() float64 {
	var total float64
	for _, l := range r.Layouts {
		total += l.WasteArea()
	}
	return total
}

// TotalWastePercentage returns overall waste share of all sheet area, 0..100.
func (r SheetNestingResult) TotalWastePercentage() float64 {
	var sheetArea float64
	for _, l := range r.Layouts {
		sheetArea += l.Sheet.Area()
	}
	if sheetArea == 0 {
		return 0
	}
	return r.TotalWasteArea() / sheetArea * 100.0
}

// TotalUsedWeight returns the placed weight in kg using per-grade densities.
func (r SheetNestingResult) TotalUsedWeight(densities DensityTable) float64 {
	var total float64
	for _, l := range r.Layouts {
		total += l.UsedWeight(densities.Lookup(l.Sheet.Grade))
	}
	return total
}

// TotalWasteWeight returns the wasted weight in kg using per-grade densities.
func (r SheetNestingResult) TotalWasteWeight(densities DensityTable) float64 {
	var total float64
	for _, l := range r.Layouts {
		total += l.WasteWeight(densities.Lookup(l.Sheet.Grade))
	}
	return total
}

// SheetSettings holds the placement constraints for the sheet packer.
type SheetSettings struct {
	EdgeClearance float64 `json:"edge_clearance"` // gap between parts and the sheet boundary, mm
	PartClearance float64 `json:"part_clearance"` // gap between any two parts, mm
	AllowRotation bool    `json:"allow_rotation"` // permit 90 degree rotation
}

func DefaultSheetSettings() SheetSettings {
	return SheetSettings{
		EdgeClearance: 10.0,
		PartClearance: 5.0,
		AllowRotation: true,
	}
}
