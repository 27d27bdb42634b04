// Package engine implements the nesting optimizers: a bottom-left
// corner-candidate packer for rectangular sheet parts and a greedy
// first-fit-decreasing packer with randomized restarts for bar stock.
package engine

import "github.com/fabworks/nestcut/internal/model"

// placeEpsilon absorbs floating-point noise in fit and overlap tests.
const placeEpsilon = 0.001

// Position is a feasible placement found for a part on a sheet.
type Position struct {
	X       float64
	Y       float64
	Rotated bool
}

// orientation is one of the up to two axis-aligned footprints of a part.
type orientation struct {
	extentH float64
	extentV float64
	rotated bool
}

// FindPosition locates the bottom-left-most feasible position for a part
// among the parts already placed on a sheet, or nil when the part cannot
// be placed. Candidate anchor points are the sheet origin (offset by the
// edge clearance) plus the two shelf corners spawned by every existing
// placement: right of it and below it. Among all feasible candidates the
// smallest y wins, ties broken by smallest x. When rotation is allowed
// both orientations are evaluated, unrotated first, so a tie at equal
// (y, x) keeps the unrotated orientation.
func FindPosition(part model.Part, placed []model.PlacedPart, sheet model.SheetCapacity, settings model.SheetSettings) *Position {
	edge := settings.EdgeClearance
	gap := settings.PartClearance

	orientations := []orientation{{extentH: part.Width, extentV: part.Length}}
	if settings.AllowRotation && part.Length != part.Width {
		orientations = append(orientations, orientation{extentH: part.Length, extentV: part.Width, rotated: true})
	}

	type point struct{ x, y float64 }
	candidates := make([]point, 0, 1+2*len(placed))
	candidates = append(candidates, point{edge, edge})
	for _, p := range placed {
		candidates = append(candidates,
			point{p.X + p.ExtentH() + gap, p.Y},
			point{p.X, p.Y + p.ExtentV() + gap},
		)
	}

	var best *Position
	for _, o := range orientations {
		for _, c := range candidates {
			if !fits(c.x, c.y, o, placed, sheet, settings) {
				continue
			}
			if best == nil || betterPosition(c.x, c.y, best.X, best.Y) {
				best = &Position{X: c.x, Y: c.y, Rotated: o.rotated}
			}
		}
	}
	return best
}

// betterPosition reports whether (x, y) is strictly lower, or equally low
// and strictly further left, than the incumbent. Strictness is what makes
// the unrotated-first evaluation order a reproducible tie-break.
func betterPosition(x, y, bestX, bestY float64) bool {
	if y < bestY-placeEpsilon {
		return true
	}
	if y > bestY+placeEpsilon {
		return false
	}
	return x < bestX-placeEpsilon
}

// fits reports whether a footprint anchored at (x, y) stays inside the
// clearance-shrunk sheet and keeps the part clearance to every placement.
func fits(x, y float64, o orientation, placed []model.PlacedPart, sheet model.SheetCapacity, settings model.SheetSettings) bool {
	edge := settings.EdgeClearance
	gap := settings.PartClearance

	if x < edge-placeEpsilon || y < edge-placeEpsilon {
		return false
	}
	if x+o.extentH > sheet.Width-edge+placeEpsilon {
		return false
	}
	if y+o.extentV > sheet.Length-edge+placeEpsilon {
		return false
	}

	for _, p := range placed {
		overlapH := x < p.X+p.ExtentH()+gap-placeEpsilon && p.X < x+o.extentH+gap-placeEpsilon
		overlapV := y < p.Y+p.ExtentV()+gap-placeEpsilon && p.Y < y+o.extentV+gap-placeEpsilon
		if overlapH && overlapV {
			return false
		}
	}
	return true
}
