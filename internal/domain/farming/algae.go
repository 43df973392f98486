package farming

import (
	"math"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/housekeeping"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// Algae pond constants
const (
	// HarvestRate is kg of spirulina collected per millisol of effective work
	HarvestRate = 0.05

	// AlgaeGrowthRate is the daily relative growth at full nutrients
	AlgaeGrowthRate = 0.2

	// AlgaeTendingWork is millisols of care the pond asks for per sol
	AlgaeTendingWork = 40.0
)

// AlgaeFarm is the algae pond function of a building
type AlgaeFarm struct {
	mass             float64
	maxMass          float64
	minMass          float64
	nutrients        float64
	tendWorkRequired float64
	harvested        float64
	houseKeeping     *housekeeping.HouseKeeping
}

// NewAlgaeFarm creates a pond. Harvests never take the mass below minMass,
// the stock culture kept for regrowth.
func NewAlgaeFarm(mass, minMass, maxMass float64, hk *housekeeping.HouseKeeping) *AlgaeFarm {
	return &AlgaeFarm{
		mass:         mass,
		minMass:      minMass,
		maxMass:      maxMass,
		nutrients:    1,
		houseKeeping: hk,
	}
}

func (a *AlgaeFarm) Mass() float64                            { return a.mass }
func (a *AlgaeFarm) Nutrients() float64                       { return a.nutrients }
func (a *AlgaeFarm) TendWorkRequired() float64                { return a.tendWorkRequired }
func (a *AlgaeFarm) Harvested() float64                       { return a.harvested }
func (a *AlgaeFarm) HouseKeeping() *housekeeping.HouseKeeping { return a.houseKeeping }

// HarvestableMass is the algae above the stock culture
func (a *AlgaeFarm) HarvestableMass() float64 {
	return math.Max(0, a.mass-a.minMass)
}

// NeedsTending reports whether the pond is owed care
func (a *AlgaeFarm) NeedsTending() bool {
	return a.tendWorkRequired > tendingThreshold
}

// Tend applies care work, restoring nutrients. Returns the unused time.
func (a *AlgaeFarm) Tend(work float64) float64 {
	if work <= 0 {
		return 0
	}
	used := math.Min(work, a.tendWorkRequired)
	a.tendWorkRequired -= used
	a.nutrients = math.Min(1, a.nutrients+used/AlgaeTendingWork)
	return work - used
}

// Harvest converts work into collected spirulina and returns the kg taken.
// Zero means the pond is exhausted.
func (a *AlgaeFarm) Harvest(work float64, inv *goods.Inventory) float64 {
	if work <= 0 {
		return 0
	}
	kg := math.Min(work*HarvestRate, a.HarvestableMass())
	if kg <= 0 {
		return 0
	}
	a.mass -= kg
	inv.Store(goods.Spirulina, kg)
	a.harvested += kg
	return kg
}

// TimePassing grows the algae and depletes nutrients
func (a *AlgaeFarm) TimePassing(pulse float64) {
	if pulse <= 0 {
		return
	}
	fraction := pulse / shared.MillisolsPerSol
	a.mass = math.Min(a.maxMass, a.mass*(1+AlgaeGrowthRate*a.nutrients*fraction))
	a.nutrients = math.Max(0, a.nutrients-0.5*fraction)
	a.tendWorkRequired += AlgaeTendingWork * fraction
}
