package activity

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/adapters/metrics"
	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/manufacturing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

const (
	PhaseManufacture task.Phase = "MANUFACTURE"
	PhaseProduceFood task.Phase = "PRODUCE_FOOD"
)

const (
	// workshopDuration caps one stint at a workshop
	workshopDuration = 100.0

	// workshopStress is added per millisol at the printers
	workshopStress = 0.005
)

// workshopWork advances the processes of a manufacture or food-production
// workshop in the order running, queued, new.
type workshopWork struct {
	*facilityTask
	workshop *manufacturing.Workshop
	override settlement.Override
	facility string
	current  *manufacturing.Process
}

func newWorkshopWork(name string, phase task.Phase, w worker.Worker, s *settlement.Settlement, b *settlement.Building,
	ws *manufacturing.Workshop, override settlement.Override, facility string, env *sim.Env) *workshopWork {
	if w == nil || s == nil || b == nil || ws == nil || b.HasMalfunction() {
		return nil
	}
	a := &workshopWork{
		facilityTask: newFacilityTask(name, fmt.Sprintf("%s in %s", name, b.Name()), w, s, b, env),
		workshop:     ws,
		override:     override,
		facility:     facility,
	}
	a.SetDuration(workshopDuration)
	a.SetExperience(defaultExperienceRatio, ws.SkillType())
	a.SetStressModifier(workshopStress)
	a.AddPhase(phase, a.work)
	a.SetPhase(phase)
	if !a.occupy() {
		return nil
	}
	return a
}

// Process returns the process worked on last
func (a *workshopWork) Process() *manufacturing.Process { return a.current }

func (a *workshopWork) work(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	logger := common.LoggerFromContext(ctx)
	w := a.Worker()
	s := a.settlement
	inv := s.Inventory()
	skill := w.Skill(a.workshop.SkillType())

	for _, p := range a.workshop.CancelDifficultProcesses(s.HighestSkill(a.workshop.SkillType()), a.Env().Tuning.DifficultyMargin, inv) {
		metrics.RecordProcessEvent(a.facility, p.Name(), metrics.ProcessCancelled)
		logger.Log(common.LevelInfo, fmt.Sprintf("Cancelled %s in %s: nobody is skilled enough", p.Name(), a.building.Name()),
			map[string]interface{}{"building": a.building.ID(), "process": p.ID()})
	}

	before := a.workshop.CurrentTotalProcesses()
	p := a.workshop.SelectProcess(skill, inv, s.Economy(), a.Env().Rand, !s.Override(a.override))
	if p == nil {
		a.EndTask()
		return time
	}
	if a.workshop.CurrentTotalProcesses() > before {
		metrics.RecordProcessEvent(a.facility, p.Name(), metrics.ProcessStarted)
		logger.Log(common.LevelInfo, fmt.Sprintf("%s started %s", w.Name(), p.Name()),
			map[string]interface{}{"worker": w.ID(), "building": a.building.ID(), "process": p.ID()})
	}
	a.current = p
	a.SetDescription(fmt.Sprintf("%s: %s", a.Name(), p.Name()))

	effective := shared.SkillWorkTime(time, skill, shared.DefaultSkillFactor)
	leftover := rawLeftover(time, effective, p.AddWorkTime(effective))
	a.accident(ctx, time-leftover, skill)
	return leftover
}

// ManufactureGood works the printers of a manufacturing workshop
type ManufactureGood struct {
	*workshopWork
}

// NewManufactureGood sends the worker to the building's manufacture
// workshop. Returns nil when the workshop is missing, broken or full.
func NewManufactureGood(w worker.Worker, s *settlement.Settlement, b *settlement.Building, env *sim.Env) *ManufactureGood {
	if b == nil {
		return nil
	}
	ww := newWorkshopWork("Manufacture Good", PhaseManufacture, w, s, b, b.Manufacture(), settlement.OverrideManufacture, "manufacture", env)
	if ww == nil {
		return nil
	}
	return &ManufactureGood{workshopWork: ww}
}

// ProduceFood runs the food-production workshop
type ProduceFood struct {
	*workshopWork
}

// NewProduceFood sends the worker to the building's food-production
// workshop. Returns nil when it is missing, broken or full.
func NewProduceFood(w worker.Worker, s *settlement.Settlement, b *settlement.Building, env *sim.Env) *ProduceFood {
	if b == nil {
		return nil
	}
	ww := newWorkshopWork("Produce Food", PhaseProduceFood, w, s, b, b.FoodProduction(), settlement.OverrideFoodProduction, "food-production", env)
	if ww == nil {
		return nil
	}
	return &ProduceFood{workshopWork: ww}
}
