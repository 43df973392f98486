package settlement

import (
	"sort"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/computing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/cooking"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/farming"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/housekeeping"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/manufacturing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/power"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/processing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/science"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

// FunctionType names a capability a building can expose
type FunctionType string

const (
	FunctionManufacture        FunctionType = "MANUFACTURE"
	FunctionFoodProduction     FunctionType = "FOOD_PRODUCTION"
	FunctionResourceProcessing FunctionType = "RESOURCE_PROCESSING"
	FunctionWasteProcessing    FunctionType = "WASTE_PROCESSING"
	FunctionPowerGeneration    FunctionType = "POWER_GENERATION"
	FunctionFarming            FunctionType = "FARMING"
	FunctionAlgaeFarming       FunctionType = "ALGAE_FARMING"
	FunctionCooking            FunctionType = "COOKING"
	FunctionAstronomy          FunctionType = "ASTRONOMICAL_OBSERVATION"
	FunctionComputation        FunctionType = "COMPUTATION"
	FunctionLifeSupport        FunctionType = "LIFE_SUPPORT"
)

// Building is a settlement building with its function slots. A nil slot
// means the building lacks that function.
type Building struct {
	id           string
	name         string
	spots        int
	lifeSupport  bool
	occupants    map[string]worker.Worker
	malfunctions *MalfunctionManager
	houseKeeping *housekeeping.HouseKeeping
	manufacture  *manufacturing.Workshop
	foodProd     *manufacturing.Workshop
	resource     *processing.Function
	waste        *processing.Function
	generation   *power.Generation
	farm         *farming.Farm
	algae        *farming.AlgaeFarm
	kitchen      *cooking.Kitchen
	observatory  *science.Observatory
	computation  *computing.Computation
}

// NewBuilding creates a building with the given number of activity spots
func NewBuilding(id, name string, spots int) *Building {
	return &Building{
		id:           id,
		name:         name,
		spots:        spots,
		occupants:    make(map[string]worker.Worker),
		malfunctions: NewMalfunctionManager(1),
	}
}

func (b *Building) ID() string                        { return b.id }
func (b *Building) Name() string                      { return b.name }
func (b *Building) Capacity() int                     { return b.spots }
func (b *Building) HasLifeSupport() bool              { return b.lifeSupport }
func (b *Building) Malfunctions() *MalfunctionManager { return b.malfunctions }

// HasMalfunction reports whether the building has an outstanding fault
func (b *Building) HasMalfunction() bool {
	return b.malfunctions.HasMalfunction()
}

// SetLifeSupport marks the building as (not) providing life support
func (b *Building) SetLifeSupport(on bool) *Building {
	b.lifeSupport = on
	return b
}

// SetMalfunctionManager replaces the default malfunction manager
func (b *Building) SetMalfunctionManager(m *MalfunctionManager) *Building {
	b.malfunctions = m
	return b
}

// SetHouseKeeping attaches a general housekeeping tracker
func (b *Building) SetHouseKeeping(hk *housekeeping.HouseKeeping) *Building {
	b.houseKeeping = hk
	return b
}

// SetWorkshop attaches a manufacture or food-production workshop
func (b *Building) SetWorkshop(w *manufacturing.Workshop) *Building {
	if w.Kind() == manufacturing.KindFoodProduction {
		b.foodProd = w
	} else {
		b.manufacture = w
	}
	return b
}

// SetProcessing attaches a resource or waste processing function
func (b *Building) SetProcessing(f *processing.Function) *Building {
	if f.IsWaste() {
		b.waste = f
	} else {
		b.resource = f
	}
	return b
}

func (b *Building) SetGeneration(g *power.Generation) *Building {
	b.generation = g
	return b
}

func (b *Building) SetFarm(f *farming.Farm) *Building {
	b.farm = f
	return b
}

func (b *Building) SetAlgaeFarm(a *farming.AlgaeFarm) *Building {
	b.algae = a
	return b
}

func (b *Building) SetKitchen(k *cooking.Kitchen) *Building {
	b.kitchen = k
	return b
}

func (b *Building) SetObservatory(o *science.Observatory) *Building {
	b.observatory = o
	return b
}

func (b *Building) SetComputation(c *computing.Computation) *Building {
	b.computation = c
	return b
}

func (b *Building) HouseKeeping() *housekeeping.HouseKeeping { return b.houseKeeping }
func (b *Building) Manufacture() *manufacturing.Workshop     { return b.manufacture }
func (b *Building) FoodProduction() *manufacturing.Workshop  { return b.foodProd }
func (b *Building) ResourceProcessing() *processing.Function { return b.resource }
func (b *Building) WasteProcessing() *processing.Function    { return b.waste }
func (b *Building) Generation() *power.Generation            { return b.generation }
func (b *Building) Farm() *farming.Farm                      { return b.farm }
func (b *Building) AlgaeFarm() *farming.AlgaeFarm            { return b.algae }
func (b *Building) Kitchen() *cooking.Kitchen                { return b.kitchen }
func (b *Building) Observatory() *science.Observatory        { return b.observatory }
func (b *Building) Computation() *computing.Computation      { return b.computation }

// HasFunction reports whether the building exposes a function
func (b *Building) HasFunction(f FunctionType) bool {
	switch f {
	case FunctionManufacture:
		return b.manufacture != nil
	case FunctionFoodProduction:
		return b.foodProd != nil
	case FunctionResourceProcessing:
		return b.resource != nil
	case FunctionWasteProcessing:
		return b.waste != nil
	case FunctionPowerGeneration:
		return b.generation != nil
	case FunctionFarming:
		return b.farm != nil
	case FunctionAlgaeFarming:
		return b.algae != nil
	case FunctionCooking:
		return b.kitchen != nil
	case FunctionAstronomy:
		return b.observatory != nil
	case FunctionComputation:
		return b.computation != nil
	case FunctionLifeSupport:
		return b.lifeSupport
	}
	return false
}

// Functions lists the functions the building exposes
func (b *Building) Functions() []FunctionType {
	all := []FunctionType{
		FunctionManufacture, FunctionFoodProduction, FunctionResourceProcessing,
		FunctionWasteProcessing, FunctionPowerGeneration, FunctionFarming,
		FunctionAlgaeFarming, FunctionCooking, FunctionAstronomy,
		FunctionComputation, FunctionLifeSupport,
	}
	var out []FunctionType
	for _, f := range all {
		if b.HasFunction(f) {
			out = append(out, f)
		}
	}
	return out
}

// HasFreeSpot reports whether another worker can take an activity spot
func (b *Building) HasFreeSpot() bool {
	return len(b.occupants) < b.spots
}

// Enter gives the worker an activity spot. A worker already inside keeps
// their spot.
func (b *Building) Enter(w worker.Worker) bool {
	if _, ok := b.occupants[w.ID()]; ok {
		return true
	}
	if !b.HasFreeSpot() {
		return false
	}
	b.occupants[w.ID()] = w
	return true
}

// Leave releases the worker's activity spot
func (b *Building) Leave(workerID string) {
	delete(b.occupants, workerID)
}

// IsOccupant reports whether the worker holds a spot here
func (b *Building) IsOccupant(workerID string) bool {
	_, ok := b.occupants[workerID]
	return ok
}

// OccupantCount returns the number of workers holding a spot
func (b *Building) OccupantCount() int {
	return len(b.occupants)
}

// Occupants returns the workers inside, ordered by id
func (b *Building) Occupants() []worker.Worker {
	out := make([]worker.Worker, 0, len(b.occupants))
	for _, w := range b.occupants {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
