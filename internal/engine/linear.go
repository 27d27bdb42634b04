package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/fabworks/nestcut/internal/model"
)

// LinearPacker runs the 1D cutting-stock algorithm. The randomized
// waste-minimization search draws from the packer's own seeded source,
// never from ambient global state, so a fixed seed reproduces the exact
// same layouts.
type LinearPacker struct {
	Settings model.LinearSettings
	rng      *rand.Rand
}

func NewLinearPacker(settings model.LinearSettings, seed int64) *LinearPacker {
	return &LinearPacker{
		Settings: settings,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Pack assigns cut lengths to stock bars. Parts are grouped by raw
// material; every group is packed bar by bar. Each bar starts from a
// first-fit-decreasing baseline; in waste mode a fixed number of
// shuffled greedy trials may replace it when they strictly reduce waste,
// so the final waste never exceeds the FFD baseline. Parts that cannot
// fit on an empty bar are rejected up front. An error is returned only
// for malformed input.
func (lp *LinearPacker) Pack(parts []model.LinearPart) (model.LinearNestingResult, error) {
	if err := validateLinearParts(parts); err != nil {
		return model.LinearNestingResult{}, err
	}

	usable := lp.Settings.UsableLength()

	groups, order := groupLinearParts(parts, lp.Settings.Kerf)

	result := model.LinearNestingResult{}
	unplaced := newLinearUnplacedSet()

	for _, material := range order {
		var pool []model.CutInstance
		counters := make(map[string]int)
		for _, p := range groups[material] {
			if p.EffectiveLength > usable {
				// Can never fit regardless of companions.
				unplaced.addPart(p, p.Quantity)
				continue
			}
			pool = append(pool, expandLinearPart(p, counters)...)
		}

		for len(pool) > 0 {
			cuts := lp.bestBar(pool, usable)
			if len(cuts) == 0 {
				// Nothing fits even alone; report the remainder instead
				// of looping forever.
				for _, inst := range pool {
					unplaced.addInstance(inst)
				}
				break
			}

			result.Layouts = append(result.Layouts, model.StockLayout{
				StockLength: lp.Settings.StockLength,
				RawMaterial: material,
				Cuts:        cuts,
			})
			pool = removeInstances(pool, cuts)
		}
	}

	result.StocksUsed = len(result.Layouts)
	result.UnplacedParts = unplaced.consolidated()
	return result, nil
}

// bestBar selects the cut set for the next bar. The FFD baseline is the
// incumbent; randomized trials only replace it on strict improvement, so
// the earliest-found minimum wins ties.
func (lp *LinearPacker) bestBar(pool []model.CutInstance, usable float64) []model.CutInstance {
	sorted := make([]model.CutInstance, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].EffectiveLength != sorted[j].EffectiveLength {
			return sorted[i].EffectiveLength > sorted[j].EffectiveLength
		}
		return sorted[i].InstanceID < sorted[j].InstanceID
	})

	best, used := fillBar(sorted, usable)
	bestWaste := usable - used

	if lp.Settings.Goal == model.GoalWaste && len(pool) > 1 {
		shuffled := make([]model.CutInstance, len(pool))
		for trial := 0; trial < lp.Settings.TrialCount(); trial++ {
			copy(shuffled, pool)
			lp.rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			cuts, u := fillBar(shuffled, usable)
			if waste := usable - u; waste < bestWaste {
				best = cuts
				bestWaste = waste
			}
		}
	}
	return best
}

// fillBar greedily accumulates cuts in the given order while the running
// sum stays within the usable length.
func fillBar(order []model.CutInstance, usable float64) ([]model.CutInstance, float64) {
	var cuts []model.CutInstance
	var used float64
	for _, inst := range order {
		if used+inst.EffectiveLength <= usable+placeEpsilon {
			cuts = append(cuts, inst)
			used += inst.EffectiveLength
		}
	}
	return cuts, used
}

func validateLinearParts(parts []model.LinearPart) error {
	for _, p := range parts {
		if p.Length <= 0 {
			return fmt.Errorf("part %q: non-positive length %g", p.ID, p.Length)
		}
		if p.Quantity < 0 {
			return fmt.Errorf("part %q: negative quantity %d", p.ID, p.Quantity)
		}
	}
	return nil
}

// groupLinearParts partitions parts by raw material in first-seen order.
// Rows without a precomputed effective length get one from the kerf.
func groupLinearParts(parts []model.LinearPart, kerf float64) (map[string][]model.LinearPart, []string) {
	groups := make(map[string][]model.LinearPart)
	var order []string
	for _, p := range parts {
		if p.Quantity == 0 {
			continue
		}
		if p.EffectiveLength <= 0 {
			p.EffectiveLength = p.Length + kerf
		}
		if _, seen := groups[p.RawMaterial]; !seen {
			order = append(order, p.RawMaterial)
		}
		groups[p.RawMaterial] = append(groups[p.RawMaterial], p)
	}
	return groups, order
}

// expandLinearPart turns a quantity row into unit instances with unique
// instance ids for exact pool removal. The shared counter map keeps ids
// unique even when several rows carry the same part id.
func expandLinearPart(p model.LinearPart, counters map[string]int) []model.CutInstance {
	instances := make([]model.CutInstance, 0, p.Quantity)
	for i := 0; i < p.Quantity; i++ {
		counters[p.ID]++
		instances = append(instances, model.CutInstance{
			ID:              p.ID,
			InstanceID:      fmt.Sprintf("%s-%d", p.ID, counters[p.ID]),
			Label:           p.Label,
			RawMaterial:     p.RawMaterial,
			Length:          p.Length,
			EffectiveLength: p.EffectiveLength,
		})
	}
	return instances
}

func removeInstances(pool, consumed []model.CutInstance) []model.CutInstance {
	taken := make(map[string]bool, len(consumed))
	for _, c := range consumed {
		taken[c.InstanceID] = true
	}
	remaining := pool[:0]
	for _, inst := range pool {
		if !taken[inst.InstanceID] {
			remaining = append(remaining, inst)
		}
	}
	return remaining
}

// linearUnplacedSet consolidates rejected rows and leftover instances by
// part id, preserving first-seen order.
type linearUnplacedSet struct {
	counts    map[string]int
	templates map[string]model.LinearPart
	order     []string
}

func newLinearUnplacedSet() *linearUnplacedSet {
	return &linearUnplacedSet{
		counts:    make(map[string]int),
		templates: make(map[string]model.LinearPart),
	}
}

func (u *linearUnplacedSet) addPart(p model.LinearPart, qty int) {
	if _, seen := u.counts[p.ID]; !seen {
		u.order = append(u.order, p.ID)
		u.templates[p.ID] = p
	}
	u.counts[p.ID] += qty
}

func (u *linearUnplacedSet) addInstance(inst model.CutInstance) {
	if _, seen := u.counts[inst.ID]; !seen {
		label := inst.Label
		if label == "" {
			label = inst.ID
		}
		u.order = append(u.order, inst.ID)
		u.templates[inst.ID] = model.LinearPart{
			ID:              inst.ID,
			Label:           label,
			RawMaterial:     inst.RawMaterial,
			Length:          inst.Length,
			EffectiveLength: inst.EffectiveLength,
		}
	}
	u.counts[inst.ID]++
}

func (u *linearUnplacedSet) consolidated() []model.LinearPart {
	var out []model.LinearPart
	for _, id := range u.order {
		p := u.templates[id]
		p.Quantity = u.counts[id]
		out = append(out, p)
	}
	return out
}
