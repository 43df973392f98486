// Package settlement is the read-mostly snapshot of a settlement that the
// scheduling engine scores against: buildings and their functions, the
// resident workers, shared stock, demand tables and override flags.
package settlement

import (
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

// Override is a settlement-level switch that stops new processes of one
// family from being started
type Override string

const (
	OverrideManufacture     Override = "manufacture"
	OverrideFoodProduction  Override = "food-production"
	OverrideResourceProcess Override = "resource-process"
	OverrideWasteProcess    Override = "waste-process"
)

// Economy is the demand side of a settlement: resource and power values plus
// commerce multipliers
type Economy interface {
	goods.Valuer
	CommerceFactor(c goods.CommerceType) float64
}

// Settlement aggregates buildings, workers and stock
type Settlement struct {
	id        string
	name      string
	location  shared.Coordinates
	buildings []*Building
	byID      map[string]*Building
	workers   []worker.Worker
	inventory *goods.Inventory
	economy   Economy
	overrides map[Override]bool
}

// NewSettlement creates an empty settlement
func NewSettlement(id, name string, location shared.Coordinates, inv *goods.Inventory, economy Economy) *Settlement {
	if inv == nil {
		inv = goods.NewInventory()
	}
	if economy == nil {
		economy = goods.NewValueTable(0)
	}
	return &Settlement{
		id:        id,
		name:      name,
		location:  location,
		byID:      make(map[string]*Building),
		inventory: inv,
		economy:   economy,
		overrides: make(map[Override]bool),
	}
}

func (s *Settlement) ID() string                   { return s.id }
func (s *Settlement) Name() string                 { return s.name }
func (s *Settlement) Location() shared.Coordinates { return s.location }
func (s *Settlement) Inventory() *goods.Inventory  { return s.inventory }
func (s *Settlement) Economy() Economy             { return s.economy }

// AddBuilding registers a building; ids must be unique
func (s *Settlement) AddBuilding(b *Building) error {
	if _, exists := s.byID[b.ID()]; exists {
		return shared.NewValidationError("building", fmt.Sprintf("duplicate id %s", b.ID()))
	}
	s.buildings = append(s.buildings, b)
	s.byID[b.ID()] = b
	return nil
}

// Building looks a building up by id
func (s *Settlement) Building(id string) *Building {
	return s.byID[id]
}

// Buildings returns the buildings in registration order
func (s *Settlement) Buildings() []*Building {
	return append([]*Building(nil), s.buildings...)
}

// BuildingsWith returns the buildings exposing a function
func (s *Settlement) BuildingsWith(f FunctionType) []*Building {
	var out []*Building
	for _, b := range s.buildings {
		if b.HasFunction(f) {
			out = append(out, b)
		}
	}
	return out
}

// AddWorker makes a worker a resident
func (s *Settlement) AddWorker(w worker.Worker) {
	s.workers = append(s.workers, w)
}

// Workers returns the residents in registration order
func (s *Settlement) Workers() []worker.Worker {
	return append([]worker.Worker(nil), s.workers...)
}

// Worker looks a resident up by id
func (s *Settlement) Worker(id string) worker.Worker {
	for _, w := range s.workers {
		if w.ID() == id {
			return w
		}
	}
	return nil
}

// Population counts resident colonists
func (s *Settlement) Population() int {
	n := 0
	for _, w := range s.workers {
		if w.Kind() == worker.KindPerson {
			n++
		}
	}
	return n
}

// HighestSkill is the best level of a skill among fit residents
func (s *Settlement) HighestSkill(skill worker.SkillType) int {
	best := 0
	for _, w := range s.workers {
		if w.IsFit() && w.Skill(skill) > best {
			best = w.Skill(skill)
		}
	}
	return best
}

// SetOverride turns an override flag on or off
func (s *Settlement) SetOverride(o Override, on bool) {
	s.overrides[o] = on
}

// Override reports whether an override flag is on
func (s *Settlement) Override(o Override) bool {
	return s.overrides[o]
}

// LocateWorker returns the building the worker is in
func (s *Settlement) LocateWorker(w worker.Worker) *Building {
	if w.BuildingID() == "" {
		return nil
	}
	return s.byID[w.BuildingID()]
}
