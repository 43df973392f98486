// Package cooking prepares desserts from settlement stock
package cooking

import (
	"math"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// DessertsPerPersonPerSol is how many servings each colonist eats a sol
const DessertsPerPersonPerSol = 1.0

// DessertSpec is an immutable dessert recipe
type DessertSpec struct {
	Name       string           `mapstructure:"name" validate:"required"`
	Ingredient goods.ResourceID `mapstructure:"ingredient" validate:"required"`
	DryMass    float64          `mapstructure:"dry_mass" validate:"gt=0"`
	PrepWork   float64          `mapstructure:"prep_work" validate:"gt=0"`
}

// Kitchen is the dessert-making side of a cooking function
type Kitchen struct {
	desserts []DessertSpec
	servings map[string]int
	current  *DessertSpec
	progress float64
	appetite float64
}

// NewKitchen creates a kitchen that knows the given recipes
func NewKitchen(desserts []DessertSpec) *Kitchen {
	return &Kitchen{
		desserts: append([]DessertSpec(nil), desserts...),
		servings: make(map[string]int),
	}
}

// Recipes returns the known desserts
func (k *Kitchen) Recipes() []DessertSpec {
	return append([]DessertSpec(nil), k.desserts...)
}

// Servings returns the total servings on hand
func (k *Kitchen) Servings() int {
	n := 0
	for _, s := range k.servings {
		n += s
	}
	return n
}

// ServingsOf returns servings on hand of one dessert
func (k *Kitchen) ServingsOf(name string) int {
	return k.servings[name]
}

// DessertDeficit is how many servings are missing for the population
func (k *Kitchen) DessertDeficit(population int) int {
	return max(0, population-k.Servings())
}

// NeedsDesserts reports whether there are fewer servings than colonists
func (k *Kitchen) NeedsDesserts(population int) bool {
	return k.DessertDeficit(population) > 0
}

// AvailableDesserts lists recipes whose ingredient is in stock
func (k *Kitchen) AvailableDesserts(inv *goods.Inventory) []DessertSpec {
	var out []DessertSpec
	for _, d := range k.desserts {
		if inv.Amount(d.Ingredient)+1e-9 >= d.DryMass {
			out = append(out, d)
		}
	}
	return out
}

// InProgress returns the dessert currently being made
func (k *Kitchen) InProgress() (string, float64, bool) {
	if k.current == nil {
		return "", 0, false
	}
	return k.current.Name, k.progress, true
}

// AddWork puts preparation work into the current dessert, picking the least
// stocked available one when nothing is in progress. The ingredient is
// drawn when the serving is finished; the finished dessert's name is
// returned. The bool is false when nothing can be made.
func (k *Kitchen) AddWork(work float64, inv *goods.Inventory) (prepared string, ok bool) {
	if k.current == nil {
		avail := k.AvailableDesserts(inv)
		if len(avail) == 0 {
			return "", false
		}
		pick := avail[0]
		for _, d := range avail[1:] {
			if k.servings[d.Name] < k.servings[pick.Name] {
				pick = d
			}
		}
		k.current = &pick
		k.progress = 0
	}
	k.progress += math.Max(0, work)
	if k.progress < k.current.PrepWork {
		return "", true
	}
	d := *k.current
	k.current = nil
	k.progress = 0
	if err := inv.Retrieve(d.Ingredient, d.DryMass); err != nil {
		return "", false
	}
	k.servings[d.Name]++
	return d.Name, true
}

// TimePassing lets the population eat servings, taking from the recipes
// in the order the kitchen knows them
func (k *Kitchen) TimePassing(pulse float64, population int) {
	k.appetite += DessertsPerPersonPerSol * float64(population) * pulse / shared.MillisolsPerSol
	for k.appetite >= 1 && k.Servings() > 0 {
		for _, d := range k.desserts {
			if k.servings[d.Name] > 0 {
				k.servings[d.Name]--
				break
			}
		}
		k.appetite--
	}
	if k.Servings() == 0 {
		k.appetite = math.Min(k.appetite, 1)
	}
}
