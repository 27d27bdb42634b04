package model

import "math"

// PurchaseEstimate holds the results of a stock purchasing calculation.
// It is a quick pre-nesting estimate: area-based for sheets, length-based
// for bars, before any layout has been computed.
type PurchaseEstimate struct {
	TotalDemand    float64 `json:"total_demand"`     // sq mm for sheets, mm for bars
	UnitCapacity   float64 `json:"unit_capacity"`    // capacity of one sheet/bar
	UnitsExact     float64 `json:"units_exact"`      // exact fractional unit count
	UnitsMin       int     `json:"units_min"`        // ceiling of exact
	UnitsWithWaste int     `json:"units_with_waste"` // recommended units including waste factor
	WastePercent   float64 `json:"waste_percent"`    // waste factor applied, e.g. 15 for 15%
	EstimatedCost  float64 `json:"estimated_cost"`   // total cost if unit pricing available
	PricePerUnit   float64 `json:"price_per_unit"`
}

// EstimateSheets computes how many sheets of one capacity to buy for a cut
// list. Each part is inflated by the part clearance on both dimensions so
// the estimate stays on the safe side of the nesting result.
func EstimateSheets(parts []Part, sheet SheetCapacity, clearance, wastePercent, pricePerSheet float64) PurchaseEstimate {
	var demand float64
	for _, p := range parts {
		demand += (p.Length + clearance) * (p.Width + clearance) * float64(p.Quantity)
	}
	return estimateUnits(demand, sheet.Area(), wastePercent, pricePerSheet)
}

// EstimateBars computes how many stock bars to buy for a linear cut list,
// using the effective (kerf-inflated) lengths against the usable bar length.
func EstimateBars(parts []LinearPart, settings LinearSettings, wastePercent, pricePerBar float64) PurchaseEstimate {
	var demand float64
	for _, p := range parts {
		demand += p.EffectiveLength * float64(p.Quantity)
	}
	return estimateUnits(demand, settings.UsableLength(), wastePercent, pricePerBar)
}

func estimateUnits(demand, unitCapacity, wastePercent, pricePerUnit float64) PurchaseEstimate {
	if unitCapacity <= 0 {
		return PurchaseEstimate{
			TotalDemand:  demand,
			WastePercent: wastePercent,
			PricePerUnit: pricePerUnit,
		}
	}

	exact := demand / unitCapacity
	minUnits := int(math.Ceil(exact))

	wasteFactor := 1.0 + wastePercent/100.0
	withWaste := int(math.Ceil(exact * wasteFactor))
	if withWaste < minUnits {
		withWaste = minUnits
	}

	return PurchaseEstimate{
		TotalDemand:    demand,
		UnitCapacity:   unitCapacity,
		UnitsExact:     exact,
		UnitsMin:       minUnits,
		UnitsWithWaste: withWaste,
		WastePercent:   wastePercent,
		EstimatedCost:  float64(withWaste) * pricePerUnit,
		PricePerUnit:   pricePerUnit,
	}
}
