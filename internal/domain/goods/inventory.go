// Package goods models settlement stock and the economic value tables used
// as the scoring currency for facility processes.
package goods

import (
	"math"
	"sort"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// ResourceID identifies an amount resource (oxygen, water, regolith, ...)
type ResourceID string

// Common resources referenced directly by engines
const (
	Water         ResourceID = "water"
	Oxygen        ResourceID = "oxygen"
	Hydrogen      ResourceID = "hydrogen"
	Methane       ResourceID = "methane"
	CarbonDioxide ResourceID = "carbon dioxide"
	Spirulina     ResourceID = "spirulina"
	FoodWaste     ResourceID = "food waste"
	GreyWater     ResourceID = "grey water"
	Fertilizer    ResourceID = "fertilizer"
	Sugar         ResourceID = "sugar"
	Soymilk       ResourceID = "soymilk"
)

// Quantity is an amount of a resource in kg
type Quantity struct {
	Resource ResourceID `mapstructure:"resource" validate:"required"`
	Amount   float64    `mapstructure:"amount" validate:"gt=0"`
}

// Inventory is a settlement's shared stock of amount resources.
// A zero capacity means unlimited.
type Inventory struct {
	amounts  map[ResourceID]float64
	capacity map[ResourceID]float64
}

// NewInventory creates an empty inventory
func NewInventory() *Inventory {
	return &Inventory{
		amounts:  make(map[ResourceID]float64),
		capacity: make(map[ResourceID]float64),
	}
}

// Amount returns the stored kg of a resource
func (inv *Inventory) Amount(r ResourceID) float64 {
	return inv.amounts[r]
}

// SetCapacity limits how much of a resource can be stored
func (inv *Inventory) SetCapacity(r ResourceID, kg float64) {
	inv.capacity[r] = kg
}

// RemainingCapacity returns how much more of a resource fits
func (inv *Inventory) RemainingCapacity(r ResourceID) float64 {
	c, ok := inv.capacity[r]
	if !ok || c <= 0 {
		return math.Inf(1)
	}
	return math.Max(0, c-inv.amounts[r])
}

// Store adds up to amount kg, returning the excess that did not fit
func (inv *Inventory) Store(r ResourceID, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	room := inv.RemainingCapacity(r)
	stored := math.Min(room, amount)
	inv.amounts[r] += stored
	return amount - stored
}

// Retrieve removes exactly amount kg or nothing at all
func (inv *Inventory) Retrieve(r ResourceID, amount float64) error {
	if amount <= 0 {
		return nil
	}
	have := inv.amounts[r]
	if have+1e-9 < amount {
		return shared.NewInsufficientResourceError(string(r), amount, have)
	}
	inv.amounts[r] = math.Max(0, have-amount)
	return nil
}

// RetrieveUpTo removes as much as possible up to amount, returning the kg taken
func (inv *Inventory) RetrieveUpTo(r ResourceID, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	taken := math.Min(amount, inv.amounts[r])
	inv.amounts[r] -= taken
	return taken
}

// HasAll reports whether every quantity is available
func (inv *Inventory) HasAll(items []Quantity) bool {
	for _, q := range items {
		if inv.amounts[q.Resource]+1e-9 < q.Amount {
			return false
		}
	}
	return true
}

// Resources returns the stocked resource ids in a stable order
func (inv *Inventory) Resources() []ResourceID {
	ids := make([]ResourceID, 0, len(inv.amounts))
	for r, a := range inv.amounts {
		if a > 0 {
			ids = append(ids, r)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
