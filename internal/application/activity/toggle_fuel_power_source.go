package activity

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/adapters/metrics"
	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/metatask"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/power"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/rating"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

// ToggleFuelPowerSource switches a fuel-burning generator on or off
type ToggleFuelPowerSource struct {
	*facilityTask
	source *power.FuelPowerSource
	turnOn bool
}

// NewToggleFuelPowerSource sends the worker to flip the source. Returns nil
// when the building is broken or full.
func NewToggleFuelPowerSource(w worker.Worker, s *settlement.Settlement, b *settlement.Building, src *power.FuelPowerSource, env *sim.Env) *ToggleFuelPowerSource {
	if w == nil || s == nil || b == nil || src == nil || b.HasMalfunction() {
		return nil
	}
	a := &ToggleFuelPowerSource{source: src, turnOn: !src.IsOn()}
	a.facilityTask = newFacilityTask("Toggle Fuel Power Source",
		fmt.Sprintf("Turning %s %s in %s", src.Name(), onOff(a.turnOn), b.Name()), w, s, b, env)
	a.SetExperience(defaultExperienceRatio, worker.SkillMechanics)
	a.SetStressModifier(toggleStress)
	a.AddPhase(PhaseToggling, a.toggling)
	a.SetPhase(PhaseToggling)
	if !a.occupy() {
		return nil
	}
	return a
}

func (a *ToggleFuelPowerSource) Source() *power.FuelPowerSource { return a.source }
func (a *ToggleFuelPowerSource) TurnOn() bool                   { return a.turnOn }

func (a *ToggleFuelPowerSource) toggling(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	if a.source.IsOn() == a.turnOn {
		a.EndTask()
		return time
	}

	skill := a.Worker().Skill(worker.SkillMechanics)
	effective := shared.SkillWorkTime(time, skill, shared.DefaultSkillFactor)
	left, toggled := a.source.AddToggleWork(effective)
	leftover := rawLeftover(time, effective, left)
	if !toggled {
		a.accident(ctx, time-leftover, skill)
		return leftover
	}

	metrics.RecordToggle("power-generation", a.source.Name(), a.source.IsOn())
	common.LoggerFromContext(ctx).Log(common.LevelInfo,
		fmt.Sprintf("%s turned %s %s", a.Worker().Name(), a.source.Name(), onOff(a.source.IsOn())),
		map[string]interface{}{"worker": a.Worker().ID(), "building": a.building.ID(), "source": a.source.Name()})
	a.EndTask()
	return leftover
}

// toggleFuelPowerMeta proposes the most toggle-worthy source per building
type toggleFuelPowerMeta struct {
	*metatask.MetaTask
}

// NewToggleFuelPowerSourceMeta creates the fuel power toggle generator
func NewToggleFuelPowerSourceMeta(env *sim.Env) metatask.SettlementMetaTask {
	m := &toggleFuelPowerMeta{MetaTask: metatask.NewMetaTask("toggle-fuel-power-source", "Toggle Fuel Power Source", env)}
	m.AddPreferredJobs(worker.JobTechnician, worker.JobEngineer).
		AddPreferredRoles(worker.RoleChiefOfEngineering, worker.RoleResourceSpecialist).
		SetFavorite(worker.FavoriteOperations).
		AddRobotTypes(worker.RobotRepairbot)
	return m
}

func (m *toggleFuelPowerMeta) GetSettlementTasks(s *settlement.Settlement) []*metatask.SettlementTask {
	sunSetting := m.Env().Solar.IsSunSetting(s.Location())
	var out []*metatask.SettlementTask
	for _, b := range s.BuildingsWith(settlement.FunctionPowerGeneration) {
		if b.HasMalfunction() {
			continue
		}
		src, value := b.Generation().BestToggle(s.Inventory(), s.Economy(), b.HasLifeSupport(), sunSetting)
		if src == nil || value <= 0 {
			continue
		}
		score := rating.NewNamedScore("toggle", value)
		score.ApplyRange(0, maxToggleScore)
		t := metatask.NewSettlementTask(m, fmt.Sprintf("Turn %s %s", src.Name(), onOff(!src.IsOn())),
			metatask.FocusKey(b.ID()+"/power-generation"), b, score).
			SetSettlement(s).
			SetPayload(src)
		out = append(out, t)
	}
	return out
}

func (m *toggleFuelPowerMeta) CreateTask(w worker.Worker, t *metatask.SettlementTask) task.Activity {
	s := t.Settlement()
	if s == nil || w == nil {
		return nil
	}
	b := buildingOf(s, t.Building())
	src, _ := t.Payload().(*power.FuelPowerSource)
	if b == nil || src == nil || b.Generation() == nil {
		return nil
	}
	for _, owned := range b.Generation().Sources() {
		if owned == src {
			if a := NewToggleFuelPowerSource(w, s, b, src, m.Env()); a != nil {
				return a
			}
			return nil
		}
	}
	return nil
}
