package engine

import "github.com/fabworks/nestcut/internal/model"

// FillLeftover places secondary filler parts into the space remaining on
// an already-built layout, reusing the same position finder and clearance
// rules as the sheet packer. The input layout is not modified; the
// returned layout carries the extra placements and the returned slice the
// consolidated remainder that did not fit. Fillers whose grade or
// thickness differ from the layout's sheet are skipped entirely.
func FillLeftover(layout model.SheetLayout, fillers []model.Part, settings model.SheetSettings) (model.SheetLayout, []model.Part) {
	filled := model.SheetLayout{Sheet: layout.Sheet}
	filled.Parts = append(filled.Parts, layout.Parts...)

	unplaced := newUnplacedSet()

	var compatible []model.Part
	for _, f := range fillers {
		if f.Quantity == 0 {
			continue
		}
		if f.Grade != layout.Sheet.Grade || f.Thickness != layout.Sheet.Thickness {
			unplaced.addN(f, f.Quantity)
			continue
		}
		compatible = append(compatible, f)
	}

	pool := expandParts(compatible)
	sortByAreaDesc(pool)

	for _, inst := range pool {
		pos := FindPosition(inst, filled.Parts, filled.Sheet, settings)
		if pos == nil {
			unplaced.add(inst)
			continue
		}
		filled.Parts = append(filled.Parts, model.PlacedPart{
			Part: inst, X: pos.X, Y: pos.Y, Rotated: pos.Rotated,
		})
	}

	return filled, unplaced.consolidated()
}
