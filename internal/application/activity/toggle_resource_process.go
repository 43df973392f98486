package activity

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/adapters/metrics"
	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/metatask"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/processing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/rating"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

// PhaseToggling is the only phase of the toggle activities
const PhaseToggling task.Phase = "TOGGLING"

const (
	toggleStress   = 0.002
	maxToggleScore = 1000.0
)

// ToggleResourceProcess switches a resource or waste process on or off
type ToggleResourceProcess struct {
	*facilityTask
	function *processing.Function
	process  *processing.Process
	turnOn   bool
}

// NewToggleResourceProcess sends the worker to flip the process. Returns nil
// when the building is broken or full, or when turning the process on is
// overridden.
func NewToggleResourceProcess(w worker.Worker, s *settlement.Settlement, b *settlement.Building, fn *processing.Function, p *processing.Process, env *sim.Env) *ToggleResourceProcess {
	if w == nil || s == nil || b == nil || fn == nil || p == nil || b.HasMalfunction() {
		return nil
	}
	a := &ToggleResourceProcess{
		function: fn,
		process:  p,
		turnOn:   !p.IsRunning(),
	}
	if a.turnOn && s.Override(processOverride(fn)) {
		return nil
	}
	name := "Toggle Resource Process"
	if fn.IsWaste() {
		name = "Toggle Waste Process"
	}
	a.facilityTask = newFacilityTask(name, fmt.Sprintf("Turning %s %s in %s", p.Name(), onOff(a.turnOn), b.Name()), w, s, b, env)
	a.SetExperience(defaultExperienceRatio, worker.SkillMechanics)
	a.SetStressModifier(toggleStress)
	a.AddPhase(PhaseToggling, a.toggling)
	a.SetPhase(PhaseToggling)
	if !a.occupy() {
		return nil
	}
	return a
}

func (a *ToggleResourceProcess) Process() *processing.Process { return a.process }
func (a *ToggleResourceProcess) TurnOn() bool                  { return a.turnOn }

func (a *ToggleResourceProcess) toggling(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	// somebody else already flipped it
	if a.process.IsRunning() == a.turnOn {
		a.EndTask()
		return time
	}
	if a.turnOn && a.settlement.Override(processOverride(a.function)) {
		a.EndTask()
		return time
	}

	skill := a.Worker().Skill(worker.SkillMechanics)
	effective := shared.SkillWorkTime(time, skill, shared.DefaultSkillFactor)
	left, toggled := a.process.AddToggleWork(effective, a.Env().Now())
	leftover := rawLeftover(time, effective, left)
	if !toggled {
		a.accident(ctx, time-leftover, skill)
		return leftover
	}

	metrics.RecordToggle(facilityLabel(a.function), a.process.Name(), a.process.IsRunning())
	common.LoggerFromContext(ctx).Log(common.LevelInfo,
		fmt.Sprintf("%s turned %s %s", a.Worker().Name(), a.process.Name(), onOff(a.process.IsRunning())),
		map[string]interface{}{"worker": a.Worker().ID(), "building": a.building.ID(), "process": a.process.Name()})
	a.EndTask()
	return leftover
}

func processOverride(fn *processing.Function) settlement.Override {
	if fn.IsWaste() {
		return settlement.OverrideWasteProcess
	}
	return settlement.OverrideResourceProcess
}

func facilityLabel(fn *processing.Function) string {
	if fn.IsWaste() {
		return "waste-processing"
	}
	return "resource-processing"
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// toggleResourceMeta proposes the single most toggle-worthy process of
// every resource and waste processing function
type toggleResourceMeta struct {
	*metatask.MetaTask
}

// NewToggleResourceProcessMeta creates the resource toggle generator
func NewToggleResourceProcessMeta(env *sim.Env) metatask.SettlementMetaTask {
	m := &toggleResourceMeta{MetaTask: metatask.NewMetaTask("toggle-resource-process", "Toggle Resource Process", env)}
	m.AddPreferredJobs(worker.JobTechnician, worker.JobEngineer, worker.JobChemist).
		AddPreferredRoles(worker.RoleResourceSpecialist, worker.RoleChiefOfSupply).
		SetFavorite(worker.FavoriteOperations).
		AddRobotTypes(worker.RobotRepairbot)
	return m
}

func (m *toggleResourceMeta) GetSettlementTasks(s *settlement.Settlement) []*metatask.SettlementTask {
	var out []*metatask.SettlementTask
	for _, b := range s.Buildings() {
		if b.HasMalfunction() {
			continue
		}
		for _, fn := range []*processing.Function{b.ResourceProcessing(), b.WasteProcessing()} {
			if t := m.candidate(s, b, fn); t != nil {
				out = append(out, t)
			}
		}
	}
	return out
}

func (m *toggleResourceMeta) candidate(s *settlement.Settlement, b *settlement.Building, fn *processing.Function) *metatask.SettlementTask {
	if fn == nil || s.Override(processOverride(fn)) {
		return nil
	}
	p, value := fn.BestToggle(s.Inventory(), s.Economy(), m.Env().Now(), m.Env().Tuning.ToggleCooldown)
	if p == nil || value <= 0 {
		return nil
	}
	score := rating.NewNamedScore("toggle", value)
	score.ApplyRange(0, maxToggleScore)
	focus := metatask.FocusKey(fmt.Sprintf("%s/%s", b.ID(), facilityLabel(fn)))
	return metatask.NewSettlementTask(m, fmt.Sprintf("Turn %s %s", p.Name(), onOff(!p.IsRunning())), focus, b, score).
		SetSettlement(s).
		SetPayload(p)
}

func (m *toggleResourceMeta) CreateTask(w worker.Worker, t *metatask.SettlementTask) task.Activity {
	s := t.Settlement()
	if s == nil || w == nil {
		return nil
	}
	b := buildingOf(s, t.Building())
	p, _ := t.Payload().(*processing.Process)
	if b == nil || p == nil {
		return nil
	}
	for _, fn := range []*processing.Function{b.ResourceProcessing(), b.WasteProcessing()} {
		if fn != nil && fn.Process(p.Name()) == p {
			if a := NewToggleResourceProcess(w, s, b, fn, p, m.Env()); a != nil {
				return a
			}
			return nil
		}
	}
	return nil
}
