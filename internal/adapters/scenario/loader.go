// Package scenario builds settlements from YAML scenario documents.
package scenario

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/computing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/cooking"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/farming"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/housekeeping"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/manufacturing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/power"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/processing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/science"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
	"github.com/mars-sim/mars-sim-sub055/internal/infrastructure/config"
)

// LoadFile reads and validates a scenario file. The format follows the
// file extension (yaml, json or toml).
func LoadFile(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return decode(v)
}

// Parse reads and validates a scenario document of the given format
func Parse(r io.Reader, format string) (*File, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*File, error) {
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := config.NewValidator().Validate(&f); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &f, nil
}

// Build creates the settlements. Workshops and their processes are timed
// by clock.
func (f *File) Build(clock shared.SimClock) ([]*settlement.Settlement, error) {
	out := make([]*settlement.Settlement, 0, len(f.Settlements))
	seen := make(map[string]bool)
	for _, spec := range f.Settlements {
		if seen[spec.ID] {
			return nil, shared.NewValidationError("settlement", fmt.Sprintf("duplicate id %s", spec.ID))
		}
		seen[spec.ID] = true

		s, err := buildSettlement(spec, clock)
		if err != nil {
			return nil, fmt.Errorf("settlement %s: %w", spec.ID, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func buildSettlement(spec SettlementSpec, clock shared.SimClock) (*settlement.Settlement, error) {
	values := goods.NewValueTable(spec.PowerValue)
	for r, v := range spec.Values {
		values.SetResourceValue(goods.ResourceID(r), v)
	}
	for c, factor := range spec.Commerce {
		values.SetCommerceFactor(goods.CommerceType(c), factor)
	}

	inv := goods.NewInventory()
	for r, kg := range spec.Capacity {
		inv.SetCapacity(goods.ResourceID(r), kg)
	}
	for r, kg := range spec.Inventory {
		inv.Store(goods.ResourceID(r), kg)
	}

	s := settlement.NewSettlement(spec.ID, spec.Name,
		shared.Coordinates{Latitude: spec.Latitude, Longitude: spec.Longitude}, inv, values)
	for _, o := range spec.Overrides {
		s.SetOverride(settlement.Override(o), true)
	}

	for _, bs := range spec.Buildings {
		b, err := buildBuilding(bs, clock)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", bs.ID, err)
		}
		if err := s.AddBuilding(b); err != nil {
			return nil, err
		}
	}

	for _, ps := range spec.People {
		if s.Building(ps.Building) == nil {
			return nil, shared.NewValidationError("building", fmt.Sprintf("%s of %s not found", ps.Building, ps.ID))
		}
		p := worker.NewPerson(worker.PersonProfile{
			ID:       ps.ID,
			Name:     ps.Name,
			Job:      worker.Job(strings.ToUpper(ps.Job)),
			Role:     worker.Role(strings.ToUpper(ps.Role)),
			Favorite: worker.Favorite(strings.ToUpper(ps.Favorite)),
			Traits:   traits(ps.Traits),
			Skills:   skills(ps.Skills),
		})
		if ps.Performance != nil {
			p.SetPerformance(*ps.Performance)
		}
		p.SetBuildingID(ps.Building)
		s.AddWorker(p)
	}

	for _, rs := range spec.Robots {
		if s.Building(rs.Building) == nil {
			return nil, shared.NewValidationError("building", fmt.Sprintf("%s of %s not found", rs.Building, rs.ID))
		}
		r := worker.NewRobot(rs.ID, rs.Name, worker.RobotType(rs.Type), skills(rs.Skills))
		r.SetBuildingID(rs.Building)
		s.AddWorker(r)
	}
	return s, nil
}

func buildBuilding(spec BuildingSpec, clock shared.SimClock) (*settlement.Building, error) {
	b := settlement.NewBuilding(spec.ID, spec.Name, spec.Spots).SetLifeSupport(spec.LifeSupport)
	if spec.Susceptibility > 0 {
		b.SetMalfunctionManager(settlement.NewMalfunctionManager(spec.Susceptibility))
	}

	var hk *housekeeping.HouseKeeping
	if len(spec.Housekeeping) > 0 {
		hk = housekeeping.NewHouseKeeping(spec.Housekeeping)
		b.SetHouseKeeping(hk)
	}

	if w := spec.Manufacture; w != nil {
		b.SetWorkshop(manufacturing.NewWorkshop(manufacturing.KindManufacture, w.TechLevel, w.Printers, w.Catalog, clock))
	}
	if w := spec.FoodProduction; w != nil {
		b.SetWorkshop(manufacturing.NewWorkshop(manufacturing.KindFoodProduction, w.TechLevel, w.Printers, w.Catalog, clock))
	}
	if p := spec.ResourceProcessing; p != nil {
		b.SetProcessing(processing.NewFunction(false, p.Modules, p.Processes))
	}
	if p := spec.WasteProcessing; p != nil {
		b.SetProcessing(processing.NewFunction(true, p.Modules, p.Processes))
	}

	if len(spec.Generators) > 0 {
		fuel := make([]power.FuelSpec, len(spec.Generators))
		for i, g := range spec.Generators {
			fuel[i] = g.FuelSpec
		}
		gen := power.NewGeneration(fuel)
		for i, src := range gen.Sources() {
			src.SetOn(spec.Generators[i].On)
		}
		b.SetGeneration(gen)
	}

	if fs := spec.Farm; fs != nil {
		farm := farming.NewFarm(fs.Beds, fs.Crops, hk)
		for _, name := range fs.Planted {
			crop, ok := findCrop(fs.Crops, name)
			if !ok {
				return nil, shared.NewValidationError("planted", fmt.Sprintf("crop %s not in catalog", name))
			}
			if _, ok := farm.Plant(crop); !ok {
				return nil, shared.NewValidationError("planted", "more crops than beds")
			}
		}
		b.SetFarm(farm)
	}
	if a := spec.AlgaePond; a != nil {
		b.SetAlgaeFarm(farming.NewAlgaeFarm(a.Mass, a.MinMass, a.MaxMass, hk))
	}
	if k := spec.Kitchen; k != nil {
		b.SetKitchen(cooking.NewKitchen(k.Desserts))
	}
	if o := spec.Observatory; o != nil {
		obs := science.NewObservatory(o.Capacity, o.TechLevel)
		for _, st := range o.Studies {
			obs.AddStudy(science.NewStudy(st.Name, st.Work))
		}
		b.SetObservatory(obs)
	}
	if c := spec.Computation; c != nil {
		node := computing.NewComputation(c.PeakCU, c.EntropyRate)
		node.SetEntropy(c.Entropy)
		b.SetComputation(node)
	}
	return b, nil
}

func findCrop(catalog []farming.CropSpec, name string) (farming.CropSpec, bool) {
	for _, c := range catalog {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return farming.CropSpec{}, false
}

// viper lowercases map keys, skill names are restored here
func skills(in map[string]int) map[worker.SkillType]int {
	if len(in) == 0 {
		return nil
	}
	out := make(map[worker.SkillType]int, len(in))
	for k, v := range in {
		out[worker.SkillType(strings.ToUpper(k))] = v
	}
	return out
}

func traits(in []string) []worker.Trait {
	out := make([]worker.Trait, len(in))
	for i, t := range in {
		out[i] = worker.Trait(strings.ToUpper(t))
	}
	return out
}
