package manufacturing

import (
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// ProcessValue is the settlement's economic gain from running a recipe once:
// output value minus input value, both priced by the settlement demand tables.
func ProcessValue(spec ProcessSpec, v goods.Valuer) float64 {
	return goods.QuantityValue(v, spec.Outputs) - goods.QuantityValue(v, spec.Inputs)
}

// CanRun reports whether the recipe is satisfiable right now by a worker
// of the given skill: tech level, skill level and stocked inputs.
func (w *Workshop) CanRun(spec ProcessSpec, skill int, inv *goods.Inventory) bool {
	return spec.TechLevel <= w.techLevel &&
		spec.SkillLevel <= skill &&
		inv.HasAll(spec.Inputs)
}

// WeightedRecipes lists the recipes a worker could start, weighted by their
// value. Recipes with a non-positive value are left out.
func (w *Workshop) WeightedRecipes(skill int, inv *goods.Inventory, v goods.Valuer) []shared.Weighted[ProcessSpec] {
	var out []shared.Weighted[ProcessSpec]
	for _, spec := range w.catalog {
		if !w.CanRun(spec, skill, inv) {
			continue
		}
		value := ProcessValue(spec, v)
		if value <= 0 {
			continue
		}
		out = append(out, shared.Weighted[ProcessSpec]{Item: spec, Weight: value})
	}
	return out
}

// BestRecipeValue returns the highest value among startable recipes
func (w *Workshop) BestRecipeValue(skill int, inv *goods.Inventory, v goods.Valuer) float64 {
	best := 0.0
	for _, r := range w.WeightedRecipes(skill, inv, v) {
		if r.Weight > best {
			best = r.Weight
		}
	}
	return best
}
