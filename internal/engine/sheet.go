package engine

import (
	"fmt"
	"sort"

	"github.com/fabworks/nestcut/internal/model"
)

// SheetPacker runs the 2D nesting algorithm. It is stateless between
// calls: every Pack call owns its working set exclusively.
type SheetPacker struct {
	Settings model.SheetSettings
}

func NewSheetPacker(settings model.SheetSettings) *SheetPacker {
	return &SheetPacker{Settings: settings}
}

// sheetGroup keys compatibility between parts and capacities: a part can
// only be cut from a sheet of the same grade and thickness.
type sheetGroup struct {
	grade     string
	thickness float64
}

// boundedCapacity pairs a capacity definition with its index in the
// caller-supplied list, so usage counts survive grouping.
type boundedCapacity struct {
	capacity model.SheetCapacity
	index    int
}

// Pack places parts onto the offered sheet capacities. Parts are grouped
// by (grade, thickness) and each group is nested independently against
// the matching capacities in caller-supplied order. Groups with no
// matching capacity are reported unplaced, never dropped. An error is
// returned only for malformed input; an unsatisfiable cut list is a
// normal result with a populated UnplacedParts list.
func (sp *SheetPacker) Pack(parts []model.Part, capacities []model.SheetCapacity) (model.SheetNestingResult, error) {
	if err := validateParts(parts); err != nil {
		return model.SheetNestingResult{}, err
	}
	if err := validateCapacities(capacities); err != nil {
		return model.SheetNestingResult{}, err
	}

	groups, order := groupParts(parts)

	result := model.SheetNestingResult{}
	usage := make(map[int]int)
	unplacedByID := newUnplacedSet()

	for _, key := range order {
		pool := expandParts(groups[key])
		sortByAreaDesc(pool)

		for _, bc := range matchCapacities(capacities, key) {
			sheet := bc.capacity
			used := usage[bc.index]

			for len(pool) > 0 && (sheet.Unbounded() || used < sheet.Quantity) {
				layout := model.SheetLayout{Sheet: sheet}
				var deferred []model.Part

				for _, inst := range pool {
					pos := FindPosition(inst, layout.Parts, sheet, sp.Settings)
					if pos == nil {
						deferred = append(deferred, inst)
						continue
					}
					layout.Parts = append(layout.Parts, model.PlacedPart{
						Part: inst, X: pos.X, Y: pos.Y, Rotated: pos.Rotated,
					})
				}

				if len(layout.Parts) == 0 {
					// No progress possible with this sheet type; try the
					// next capacity without consuming supply.
					break
				}

				result.Layouts = append(result.Layouts, layout)
				used++
				pool = deferred
				sortByAreaDesc(pool)
			}

			usage[bc.index] = used
			if len(pool) == 0 {
				break
			}
		}

		for _, inst := range pool {
			unplacedByID.add(inst)
		}
	}

	result.UnplacedParts = unplacedByID.consolidated()
	for i, c := range capacities {
		if usage[i] > 0 {
			result.SheetUsage = append(result.SheetUsage, model.SheetUsage{Sheet: c, Count: usage[i]})
		}
	}
	return result, nil
}

func validateParts(parts []model.Part) error {
	for _, p := range parts {
		if p.Length <= 0 || p.Width <= 0 || p.Thickness <= 0 {
			return fmt.Errorf("part %q: non-positive dimensions %gx%gx%g", partName(p), p.Length, p.Width, p.Thickness)
		}
		if p.Quantity < 0 {
			return fmt.Errorf("part %q: negative quantity %d", partName(p), p.Quantity)
		}
	}
	return nil
}

func validateCapacities(capacities []model.SheetCapacity) error {
	for _, c := range capacities {
		if c.Length <= 0 || c.Width <= 0 || c.Thickness <= 0 {
			return fmt.Errorf("sheet %q: non-positive dimensions %gx%gx%g", c.Label, c.Length, c.Width, c.Thickness)
		}
	}
	return nil
}

func partName(p model.Part) string {
	if p.Label != "" {
		return p.Label
	}
	return p.ID
}

// groupParts partitions parts by compatibility key, preserving first-seen
// group order so output ordering stays stable.
func groupParts(parts []model.Part) (map[sheetGroup][]model.Part, []sheetGroup) {
	groups := make(map[sheetGroup][]model.Part)
	var order []sheetGroup
	for _, p := range parts {
		if p.Quantity == 0 {
			continue
		}
		key := sheetGroup{grade: p.Grade, thickness: p.Thickness}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}
	return groups, order
}

func matchCapacities(capacities []model.SheetCapacity, key sheetGroup) []boundedCapacity {
	var matched []boundedCapacity
	for i, c := range capacities {
		if c.Grade == key.grade && c.Thickness == key.thickness {
			matched = append(matched, boundedCapacity{capacity: c, index: i})
		}
	}
	return matched
}

// expandParts turns quantity rows into unit instances. Each instance gets
// a synthetic sub-id derived from its source row so instances stay
// distinguishable when consumed from the pool.
func expandParts(parts []model.Part) []model.Part {
	var expanded []model.Part
	for _, p := range parts {
		origin := p.OriginalID
		if origin == "" {
			origin = p.ID
		}
		for i := 0; i < p.Quantity; i++ {
			inst := p
			inst.ID = fmt.Sprintf("%s-%d", p.ID, i+1)
			inst.OriginalID = origin
			inst.Quantity = 1
			expanded = append(expanded, inst)
		}
	}
	return expanded
}

// sortByAreaDesc orders a pool largest-first. The stable sort keeps
// equal-area instances in arrival order so packing stays deterministic.
func sortByAreaDesc(pool []model.Part) {
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Area() > pool[j].Area()
	})
}

// unplacedSet consolidates unit instances back into per-row remainders.
type unplacedSet struct {
	counts    map[string]int
	templates map[string]model.Part
	order     []string
}

func newUnplacedSet() *unplacedSet {
	return &unplacedSet{
		counts:    make(map[string]int),
		templates: make(map[string]model.Part),
	}
}

func (u *unplacedSet) add(inst model.Part) {
	u.addN(inst, 1)
}

func (u *unplacedSet) addN(inst model.Part, qty int) {
	id := inst.OriginalID
	if id == "" {
		id = inst.ID
	}
	if _, seen := u.counts[id]; !seen {
		u.order = append(u.order, id)
		tpl := inst
		tpl.ID = id
		tpl.OriginalID = id
		u.templates[id] = tpl
	}
	u.counts[id] += qty
}

func (u *unplacedSet) consolidated() []model.Part {
	var out []model.Part
	for _, id := range u.order {
		p := u.templates[id]
		p.Quantity = u.counts[id]
		out = append(out, p)
	}
	return out
}
