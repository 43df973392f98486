// Package power models fuel-burning power sources and decides which of them
// is worth switching on or off.
package power

import (
	"math"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// EmptyFuelBonus is the score for shutting down a source with no fuel left
const EmptyFuelBonus = 50.0

// FuelSpec describes a fuel power source. ConsumptionRate is kg per sol at
// full output.
type FuelSpec struct {
	Name            string           `mapstructure:"name" validate:"required"`
	Fuel            goods.ResourceID `mapstructure:"fuel" validate:"required"`
	ConsumptionRate float64          `mapstructure:"consumption_rate" validate:"gt=0"`
	MaxPower        float64          `mapstructure:"max_power" validate:"gt=0"`
	ToggleWorkTime  float64          `mapstructure:"toggle_work_time" validate:"gt=0"`
}

// FuelPowerSource is a generator that burns fuel from the settlement stock
type FuelPowerSource struct {
	spec                FuelSpec
	on                  bool
	toggleWorkRemaining float64
}

// NewFuelPowerSource creates a switched-off source
func NewFuelPowerSource(spec FuelSpec) *FuelPowerSource {
	return &FuelPowerSource{spec: spec, toggleWorkRemaining: spec.ToggleWorkTime}
}

func (s *FuelPowerSource) Name() string                 { return s.spec.Name }
func (s *FuelPowerSource) Spec() FuelSpec               { return s.spec }
func (s *FuelPowerSource) IsOn() bool                   { return s.on }
func (s *FuelPowerSource) ToggleWorkRemaining() float64 { return s.toggleWorkRemaining }

// SetOn switches the source without any work, for scenario setup
func (s *FuelPowerSource) SetOn(on bool) {
	s.on = on
}

// AddToggleWork applies work toward flipping the source and returns the
// time left over once it flips.
func (s *FuelPowerSource) AddToggleWork(t float64) (leftover float64, toggled bool) {
	if t <= 0 {
		return 0, false
	}
	used := math.Min(t, math.Max(0, s.toggleWorkRemaining))
	s.toggleWorkRemaining -= t
	if s.toggleWorkRemaining > 0 {
		return 0, false
	}
	s.on = !s.on
	s.toggleWorkRemaining = s.spec.ToggleWorkTime
	return t - used, true
}

// NetValue is the value of a sol of output minus the fuel it burns
func (s *FuelPowerSource) NetValue(v goods.Valuer) float64 {
	return v.PowerValue()*s.spec.MaxPower - v.ResourceValue(s.spec.Fuel)*s.spec.ConsumptionRate
}

// Generation is the fuel power function of a building
type Generation struct {
	sources []*FuelPowerSource
}

// NewGeneration creates a function with the given sources, all off
func NewGeneration(specs []FuelSpec) *Generation {
	g := &Generation{}
	for _, s := range specs {
		g.sources = append(g.sources, NewFuelPowerSource(s))
	}
	return g
}

// Sources returns the sources in declaration order
func (g *Generation) Sources() []*FuelPowerSource {
	return append([]*FuelPowerSource(nil), g.sources...)
}

// TimePassing burns fuel for every running source and returns the energy
// generated in kW·sol. A source that runs dry stays on, producing nothing,
// until a worker shuts it down.
func (g *Generation) TimePassing(pulse float64, inv *goods.Inventory) float64 {
	fraction := pulse / shared.MillisolsPerSol
	generated := 0.0
	for _, s := range g.sources {
		if !s.on {
			continue
		}
		need := s.spec.ConsumptionRate * fraction
		got := inv.RetrieveUpTo(s.spec.Fuel, need)
		if need > 0 {
			generated += s.spec.MaxPower * fraction * (got / need)
		}
	}
	return generated
}

// ToggleScore rates flipping one source. sunSetting and lifeSupport drive
// the dusk guard: a building without life support keeps its generator on
// through dusk because solar power will not return overnight.
func ToggleScore(s *FuelPowerSource, inv *goods.Inventory, v goods.Valuer, lifeSupport, sunSetting bool) float64 {
	net := s.NetValue(v)
	if !s.on {
		if inv.Amount(s.spec.Fuel) <= 0 || net <= 0 {
			return 0
		}
		return net
	}
	if inv.Amount(s.spec.Fuel) <= 0 {
		return EmptyFuelBonus
	}
	if net >= 0 {
		return 0
	}
	if sunSetting && !lifeSupport {
		return 0
	}
	return -net
}

// BestToggle returns the source with the highest toggle score
func (g *Generation) BestToggle(inv *goods.Inventory, v goods.Valuer, lifeSupport, sunSetting bool) (*FuelPowerSource, float64) {
	var best *FuelPowerSource
	bestScore := 0.0
	for _, s := range g.sources {
		score := ToggleScore(s, inv, v, lifeSupport, sunSetting)
		if score > bestScore {
			best, bestScore = s, score
		}
	}
	return best, bestScore
}
