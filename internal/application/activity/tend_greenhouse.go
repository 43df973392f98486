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
	PhaseTending       task.Phase = "TENDING"
	PhaseTransferring  task.Phase = "TRANSFERRING"
	PhaseSampling      task.Phase = "SAMPLING"
	PhaseGrowingTissue task.Phase = "GROWING_TISSUE"
	PhaseHarvesting    task.Phase = "HARVESTING"
)

const (
	transferWork = 20.0
	sampleWork   = 20.0
	tissueTime   = 50.0

	// needyCropWeight is the base per crop owed care
	needyCropWeight = 15.0
	seedlingWeight  = 10.0
	harvestWeight   = 20.0
)

// TendGreenhouse performs one greenhouse action drawn at creation
type TendGreenhouse struct {
	*facilityTask
	farm   *farming.Farm
	action farming.Action
	crop   *farming.Crop
	spent  float64
}

// NewTendGreenhouse draws an action for the building's farm and sends the
// worker there. Returns nil when the farm is missing, broken or full, or
// the drawn action has nothing to act on.
func NewTendGreenhouse(w worker.Worker, s *settlement.Settlement, b *settlement.Building, env *sim.Env) *TendGreenhouse {
	if w == nil || s == nil || b == nil || b.Farm() == nil || b.HasMalfunction() {
		return nil
	}
	farm := b.Farm()
	action := farming.ChooseAction(env.Rand, len(farm.CropsNeedingTending()),
		farm.HasSeedling() && farm.HasFreeBed(), farm.HasHarvest())

	a := &TendGreenhouse{
		facilityTask: newFacilityTask("Tend Greenhouse", "", w, s, b, env),
		farm:         farm,
		action:       action,
	}
	a.SetExperience(tendingExperienceRatio, worker.SkillBotany)
	switch action {
	case farming.ActionInspect, farming.ActionClean:
		mode := housekeeping.ModeInspect
		if action == farming.ActionClean {
			mode = housekeeping.ModeClean
		}
		svc, ok := housekeeping.NewService(farm.HouseKeeping(), mode)
		if !ok {
			return nil
		}
		a.SetStressModifier(housekeepingStress)
		a.SetDescription(fmt.Sprintf("%s %s in %s", serviceVerb(mode), svc.Target(), b.Name()))
		a.AddPhase(servicePhase(mode), a.servicing(svc))
		a.SetPhase(servicePhase(mode))
	case farming.ActionTend:
		a.crop = farm.MostWorkStarvedCrop()
		if a.crop == nil {
			return nil
		}
		a.SetDescription(fmt.Sprintf("Tending %s in %s", a.crop.Name(), b.Name()))
		a.AddPhase(PhaseTending, a.tending)
		a.SetPhase(PhaseTending)
	case farming.ActionTransfer:
		a.SetDescription(fmt.Sprintf("Transferring a seedling in %s", b.Name()))
		a.AddPhase(PhaseTransferring, a.transferring)
		a.SetPhase(PhaseTransferring)
	case farming.ActionSample:
		a.SetDescription(fmt.Sprintf("Sampling crops in %s", b.Name()))
		a.AddPhase(PhaseSampling, a.sampling)
		a.SetPhase(PhaseSampling)
	case farming.ActionGrowTissue:
		a.SetDescription(fmt.Sprintf("Growing tissue cultures in %s", b.Name()))
		a.SetDuration(tissueTime)
		a.AddPhase(PhaseGrowingTissue, a.growingTissue)
		a.SetPhase(PhaseGrowingTissue)
	case farming.ActionHarvest:
		a.SetDescription(fmt.Sprintf("Harvesting crops in %s", b.Name()))
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

func (a *TendGreenhouse) Action() farming.Action { return a.action }
func (a *TendGreenhouse) Crop() *farming.Crop    { return a.crop }

func (a *TendGreenhouse) skill() int {
	return a.Worker().Skill(worker.SkillBotany)
}

// tending works the most starved crop until its need is met or the tending
// cap is reached
func (a *TendGreenhouse) tending(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	if !a.crop.NeedsTending() {
		a.EndTask()
		return time
	}
	raw := min(time, farming.MaxTendingTime-a.spent)
	effective := shared.SkillWorkTime(raw, a.skill(), shared.DefaultSkillFactor)
	used := raw - rawLeftover(raw, effective, a.crop.AddWork(effective))
	a.spent += used
	if a.accident(ctx, used, a.skill()) {
		return time - used
	}
	if !a.crop.NeedsTending() || a.spent >= farming.MaxTendingTime {
		a.EndTask()
	}
	return time - used
}

// timedStep spends raw time toward a fixed amount of work and reports
// whether the work is complete
func (a *TendGreenhouse) timedStep(time, work float64) (used float64, complete bool) {
	effective := shared.SkillWorkTime(time, a.skill(), shared.DefaultSkillFactor)
	need := work - a.spent
	if effective < need {
		a.spent += effective
		return time, false
	}
	a.spent = work
	return time - rawLeftover(time, effective, effective-need), true
}

func (a *TendGreenhouse) transferring(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	used, complete := a.timedStep(time, transferWork)
	if !complete {
		return time - used
	}
	if crop, ok := a.farm.TransferSeedling(); ok {
		a.log(ctx, fmt.Sprintf("%s transferred a %s seedling", a.Worker().Name(), crop.Name()))
	}
	a.EndTask()
	return time - used
}

func (a *TendGreenhouse) sampling(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	used, complete := a.timedStep(time, sampleWork)
	if !complete {
		return time - used
	}
	if crop, ok := a.farm.SampleCrop(); ok {
		a.crop = crop
		a.log(ctx, fmt.Sprintf("%s sampled %s", a.Worker().Name(), crop.Name()))
	}
	a.EndTask()
	return time - used
}

func (a *TendGreenhouse) growingTissue(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	effective := shared.SkillWorkTime(time, a.skill(), shared.DefaultSkillFactor)
	if name, ok := a.farm.GrowTissue(effective); ok {
		a.log(ctx, fmt.Sprintf("%s grew a %s seedling", a.Worker().Name(), name))
		a.EndTask()
	}
	return 0
}

// harvesting works every crop awaiting harvest and stores finished produce
func (a *TendGreenhouse) harvesting(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	remaining := time
	for _, crop := range a.farm.CropsToHarvest() {
		if remaining <= 0 {
			break
		}
		effective := shared.SkillWorkTime(remaining, a.skill(), shared.DefaultSkillFactor)
		remaining = rawLeftover(remaining, effective, crop.AddWork(effective))
	}
	if kg := a.farm.HarvestReady(a.settlement.Inventory()); kg > 0 {
		a.log(ctx, fmt.Sprintf("%s harvested %.2f kg", a.Worker().Name(), kg))
	}
	if a.accident(ctx, time-remaining, a.skill()) {
		return remaining
	}
	if len(a.farm.CropsToHarvest()) == 0 {
		a.EndTask()
	}
	return remaining
}

func (a *TendGreenhouse) log(ctx context.Context, msg string) {
	common.LoggerFromContext(ctx).Log(common.LevelInfo, msg,
		map[string]interface{}{"worker": a.Worker().ID(), "building": a.building.ID(), "action": string(a.action)})
}

// tendGreenhouseMeta proposes greenhouses with crops owed care, seedlings
// to transfer, produce to harvest or overdue upkeep
type tendGreenhouseMeta struct {
	*metatask.MetaTask
}

// NewTendGreenhouseMeta creates the greenhouse generator
func NewTendGreenhouseMeta(env *sim.Env) metatask.SettlementMetaTask {
	m := &tendGreenhouseMeta{MetaTask: metatask.NewMetaTask("tend-greenhouse", "Tend Greenhouse", env)}
	m.AddPreferredJobs(worker.JobBotanist).
		AddPreferredRoles(worker.RoleChiefOfAgriculture, worker.RoleAgricultureSpecialist).
		SetFavorite(worker.FavoriteTending).
		AddRobotTypes(worker.RobotGardenbot)
	return m
}

func (m *tendGreenhouseMeta) GetSettlementTasks(s *settlement.Settlement) []*metatask.SettlementTask {
	now := m.Env().Now()
	var out []*metatask.SettlementTask
	for _, b := range s.BuildingsWith(settlement.FunctionFarming) {
		if b.HasMalfunction() {
			continue
		}
		farm := b.Farm()
		needy := len(farm.CropsNeedingTending())
		score := rating.NewNamedScore("crops", needyCropWeight*float64(needy))
		if farm.HasSeedling() && farm.HasFreeBed() {
			score.AddBase("seedlings", seedlingWeight)
		}
		if farm.HasHarvest() {
			score.AddBase("harvest", harvestWeight)
		}
		if hk := farm.HouseKeeping(); hk != nil {
			score.AddBase("upkeep", overduePartWeight*float64(hk.Overdue(now, housekeepingWindow)))
		}
		if score.Base() <= 0 {
			continue
		}
		score.AddModifier("health", 2-farm.AverageHealth())
		t := metatask.NewSettlementTask(m, m.Name(), metatask.FocusKey(b.ID()+"/farming"), b, score).
			SetSettlement(s).
			SetDemand(needy)
		out = append(out, t)
	}
	return out
}

func (m *tendGreenhouseMeta) CreateTask(w worker.Worker, t *metatask.SettlementTask) task.Activity {
	s := t.Settlement()
	if s == nil || w == nil {
		return nil
	}
	if a := NewTendGreenhouse(w, s, buildingOf(s, t.Building()), m.Env()); a != nil {
		return a
	}
	return nil
}
