package activity

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/farming"
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
	pondTendingWeight = 20.0
	pondHarvestWeight = 10.0
)

// TendAlgaePond inspects, cleans, feeds or harvests an algae pond
type TendAlgaePond struct {
	*facilityTask
	pond      *farming.AlgaeFarm
	action    farming.Action
	harvested float64
}

// NewTendAlgaePond draws an action for the building's pond and sends the
// worker there. Returns nil when the pond is missing, broken or full.
func NewTendAlgaePond(w worker.Worker, s *settlement.Settlement, b *settlement.Building, env *sim.Env) *TendAlgaePond {
	if w == nil || s == nil || b == nil || b.AlgaeFarm() == nil || b.HasMalfunction() {
		return nil
	}
	pond := b.AlgaeFarm()
	action := farming.ChooseAlgaeAction(env.Rand, pond.NeedsTending(), pond.HarvestableMass() > 0)

	a := &TendAlgaePond{
		facilityTask: newFacilityTask("Tend Algae Pond", "", w, s, b, env),
		pond:         pond,
		action:       action,
	}
	a.SetExperience(tendingExperienceRatio, worker.SkillBotany)
	switch action {
	case farming.ActionInspect, farming.ActionClean:
		mode := housekeeping.ModeInspect
		if action == farming.ActionClean {
			mode = housekeeping.ModeClean
		}
		svc, ok := housekeeping.NewService(pond.HouseKeeping(), mode)
		if !ok {
			return nil
		}
		a.SetStressModifier(housekeepingStress)
		a.SetDescription(fmt.Sprintf("%s %s in %s", serviceVerb(mode), svc.Target(), b.Name()))
		a.AddPhase(servicePhase(mode), a.servicing(svc))
		a.SetPhase(servicePhase(mode))
	case farming.ActionTend:
		a.SetDescription(fmt.Sprintf("Tending the algae in %s", b.Name()))
		a.SetDuration(farming.MaxTendingTime)
		a.AddPhase(PhaseTending, a.tending)
		a.SetPhase(PhaseTending)
	case farming.ActionHarvest:
		a.SetDescription(fmt.Sprintf("Harvesting algae in %s", b.Name()))
		a.SetDuration(farming.MaxTendingTime)
		a.AddPhase(PhaseHarvesting, a.harvesting)
		a.SetPhase(PhaseHarvesting)
	default:
		return nil
	}
	if !a.occupy() {
		return nil
	}
	return a
}

func (a *TendAlgaePond) Action() farming.Action { return a.action }
func (a *TendAlgaePond) Harvested() float64     { return a.harvested }

func (a *TendAlgaePond) tending(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	if !a.pond.NeedsTending() {
		a.EndTask()
		return time
	}
	skill := a.Worker().Skill(worker.SkillBotany)
	effective := shared.SkillWorkTime(time, skill, shared.DefaultSkillFactor)
	leftover := rawLeftover(time, effective, a.pond.Tend(effective))
	if a.accident(ctx, time-leftover, skill) {
		return leftover
	}
	if !a.pond.NeedsTending() {
		a.EndTask()
	}
	return leftover
}

// harvesting collects algae until the pond has none to spare or the time
// cap ends the activity
func (a *TendAlgaePond) harvesting(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	skill := a.Worker().Skill(worker.SkillBotany)
	effective := shared.SkillWorkTime(time, skill, shared.DefaultSkillFactor)
	kg := a.pond.Harvest(effective, a.settlement.Inventory())
	if kg <= 0 {
		a.finishHarvest(ctx)
		return time
	}
	a.harvested += kg
	usedEffective := min(effective, kg/farming.HarvestRate)
	leftover := rawLeftover(time, effective, effective-usedEffective)
	if a.accident(ctx, time-leftover, skill) {
		return leftover
	}
	if a.pond.HarvestableMass() <= 0 {
		a.finishHarvest(ctx)
	}
	return leftover
}

func (a *TendAlgaePond) finishHarvest(ctx context.Context) {
	if a.harvested > 0 {
		common.LoggerFromContext(ctx).Log(common.LevelInfo,
			fmt.Sprintf("%s harvested %.2f kg of algae", a.Worker().Name(), a.harvested),
			map[string]interface{}{"worker": a.Worker().ID(), "building": a.building.ID()})
	}
	a.EndTask()
}

// tendAlgaePondMeta proposes ponds owed care or holding spare algae
type tendAlgaePondMeta struct {
	*metatask.MetaTask
}

// NewTendAlgaePondMeta creates the algae pond generator
func NewTendAlgaePondMeta(env *sim.Env) metatask.SettlementMetaTask {
	m := &tendAlgaePondMeta{MetaTask: metatask.NewMetaTask("tend-algae-pond", "Tend Algae Pond", env)}
	m.AddPreferredJobs(worker.JobBotanist, worker.JobChef).
		AddPreferredRoles(worker.RoleAgricultureSpecialist).
		SetFavorite(worker.FavoriteTending).
		AddRobotTypes(worker.RobotGardenbot)
	return m
}

func (m *tendAlgaePondMeta) GetSettlementTasks(s *settlement.Settlement) []*metatask.SettlementTask {
	now := m.Env().Now()
	var out []*metatask.SettlementTask
	for _, b := range s.BuildingsWith(settlement.FunctionAlgaeFarming) {
		if b.HasMalfunction() {
			continue
		}
		pond := b.AlgaeFarm()
		score := rating.NewNamedScore("tending", pondTendingWeight*pond.TendWorkRequired()/farming.AlgaeTendingWork)
		if pond.HarvestableMass() > 0 {
			score.AddBase("harvest", pondHarvestWeight)
		}
		if hk := pond.HouseKeeping(); hk != nil {
			score.AddBase("upkeep", overduePartWeight*float64(hk.Overdue(now, housekeepingWindow)))
		}
		if score.Base() <= 0 {
			continue
		}
		t := metatask.NewSettlementTask(m, m.Name(), metatask.FocusKey(b.ID()+"/algae"), b, score).
			SetSettlement(s)
		out = append(out, t)
	}
	return out
}

func (m *tendAlgaePondMeta) CreateTask(w worker.Worker, t *metatask.SettlementTask) task.Activity {
	s := t.Settlement()
	if s == nil || w == nil {
		return nil
	}
	if a := NewTendAlgaePond(w, s, buildingOf(s, t.Building()), m.Env()); a != nil {
		return a
	}
	return nil
}
