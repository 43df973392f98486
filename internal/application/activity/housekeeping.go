package activity

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/housekeeping"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/metatask"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/rating"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

const (
	PhaseInspecting task.Phase = "INSPECTING"
	PhaseCleaning   task.Phase = "CLEANING"
)

const (
	housekeepingStress = -0.002

	// housekeepingWindow is how long a part stays serviced, in millisols
	housekeepingWindow = 1000.0

	// overduePartWeight is the base per part not serviced in the window
	overduePartWeight = 5.0
)

// servicing returns the handler that drives a housekeeping service to
// completion and then ends the activity
func (f *facilityTask) servicing(svc *housekeeping.Service) task.PhaseHandler {
	return func(ctx context.Context, time float64) float64 {
		if f.broken(ctx) {
			return time
		}
		leftover, done := svc.Step(time, f.Env().Now())
		if done {
			common.LoggerFromContext(ctx).Log(common.LevelDebug,
				fmt.Sprintf("%s finished %s %s in %s", f.Worker().Name(), serviceVerb(svc.Mode()), svc.Target(), f.building.Name()),
				map[string]interface{}{"worker": f.Worker().ID(), "building": f.building.ID(), "target": svc.Target()})
			f.EndTask()
		}
		return leftover
	}
}

func serviceVerb(m housekeeping.Mode) string {
	if m == housekeeping.ModeInspect {
		return "inspecting"
	}
	return "cleaning"
}

func servicePhase(m housekeeping.Mode) task.Phase {
	if m == housekeeping.ModeInspect {
		return PhaseInspecting
	}
	return PhaseCleaning
}

// TendHousekeeping inspects or cleans a part of a building that has no
// dedicated tending activity
type TendHousekeeping struct {
	*facilityTask
	service *housekeeping.Service
}

// NewTendHousekeeping picks inspection or cleaning, whichever is due the
// longest, and the least recently serviced part. Returns nil when the
// building has nothing to service or no free spot.
func NewTendHousekeeping(w worker.Worker, s *settlement.Settlement, b *settlement.Building, env *sim.Env) *TendHousekeeping {
	if w == nil || s == nil || b == nil || b.HouseKeeping() == nil || b.HasMalfunction() {
		return nil
	}
	mode := dueMode(b.HouseKeeping(), env)
	svc, ok := housekeeping.NewService(b.HouseKeeping(), mode)
	if !ok {
		return nil
	}
	a := &TendHousekeeping{
		facilityTask: newFacilityTask("Tend Housekeeping", fmt.Sprintf("%s %s in %s", serviceVerb(mode), svc.Target(), b.Name()), w, s, b, env),
		service:      svc,
	}
	a.SetStressModifier(housekeepingStress)
	a.AddPhase(servicePhase(mode), a.servicing(svc))
	a.SetPhase(servicePhase(mode))
	if !a.occupy() {
		return nil
	}
	return a
}

func (a *TendHousekeeping) Service() *housekeeping.Service { return a.service }

// dueMode compares the least recently inspected and cleaned parts and
// favours whichever service is further behind. Ties are drawn at random.
func dueMode(hk *housekeeping.HouseKeeping, env *sim.Env) housekeeping.Mode {
	inspect, _ := hk.LeastInspected()
	clean, _ := hk.LeastCleaned()
	ia, iok := hk.LastInspected(inspect)
	ca, cok := hk.LastCleaned(clean)
	switch {
	case !iok && cok:
		return housekeeping.ModeInspect
	case iok && !cok:
		return housekeeping.ModeClean
	case iok && cok && ia != ca:
		if ia < ca {
			return housekeeping.ModeInspect
		}
		return housekeeping.ModeClean
	}
	if shared.Chance(env.Rand, 0.5) {
		return housekeeping.ModeInspect
	}
	return housekeeping.ModeClean
}

// tendHousekeepingMeta proposes buildings with overdue upkeep. Greenhouses
// and algae ponds keep their own records and are tended by their own
// activities.
type tendHousekeepingMeta struct {
	*metatask.MetaTask
}

// NewTendHousekeepingMeta creates the housekeeping generator
func NewTendHousekeepingMeta(env *sim.Env) metatask.SettlementMetaTask {
	m := &tendHousekeepingMeta{MetaTask: metatask.NewMetaTask("tend-housekeeping", "Tend Housekeeping", env)}
	m.AddTraitModifier(worker.TraitConscientious, 1.5).
		AddTraitModifier(worker.TraitLazy, 0.5).
		AddRobotTypes(worker.RobotRepairbot, worker.RobotDeliverybot)
	return m
}

func (m *tendHousekeepingMeta) GetSettlementTasks(s *settlement.Settlement) []*metatask.SettlementTask {
	now := m.Env().Now()
	var out []*metatask.SettlementTask
	for _, b := range s.Buildings() {
		hk := b.HouseKeeping()
		if hk == nil || b.HasMalfunction() || tendedElsewhere(b, hk) {
			continue
		}
		overdue := hk.Overdue(now, housekeepingWindow)
		if overdue == 0 {
			continue
		}
		score := rating.NewNamedScore("overdue", overduePartWeight*float64(overdue))
		t := metatask.NewSettlementTask(m, m.Name(), metatask.FocusKey(b.ID()+"/housekeeping"), b, score).
			SetSettlement(s).
			SetDemand(overdue)
		out = append(out, t)
	}
	return out
}

func tendedElsewhere(b *settlement.Building, hk *housekeeping.HouseKeeping) bool {
	if f := b.Farm(); f != nil && f.HouseKeeping() == hk {
		return true
	}
	if a := b.AlgaeFarm(); a != nil && a.HouseKeeping() == hk {
		return true
	}
	return false
}

func (m *tendHousekeepingMeta) CreateTask(w worker.Worker, t *metatask.SettlementTask) task.Activity {
	s := t.Settlement()
	if s == nil || w == nil {
		return nil
	}
	if a := NewTendHousekeeping(w, s, buildingOf(s, t.Building()), m.Env()); a != nil {
		return a
	}
	return nil
}
