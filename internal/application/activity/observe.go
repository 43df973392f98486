package activity

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/metatask"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/rating"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/science"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

const PhaseObserving task.Phase = "OBSERVING"

const (
	observingDuration = 100.0
	observingStress   = -0.01

	// telescopeFactor is the research speed-up per observatory tech level
	telescopeFactor = 0.1
	studyWeight     = 30.0
)

// ObserveAstronomicalObjects spends the night at a telescope feeding the
// observatory's active study. The observer slot is held from creation until
// the activity ends.
type ObserveAstronomicalObjects struct {
	*facilityTask
	observatory *science.Observatory
	study       *science.Study
}

// NewObserveAstronomicalObjects reserves an observer slot and sends the
// worker to the observatory. Returns nil in daylight, when no study is
// active or when the observatory or building is full.
func NewObserveAstronomicalObjects(w worker.Worker, s *settlement.Settlement, b *settlement.Building, env *sim.Env) *ObserveAstronomicalObjects {
	if w == nil || s == nil || b == nil || b.Observatory() == nil || b.HasMalfunction() {
		return nil
	}
	if env.Solar.SolarIrradiance(s.Location()) > 0 {
		return nil
	}
	obs := b.Observatory()
	study := obs.ActiveStudy()
	if study == nil || !obs.AddObserver(w.ID()) {
		return nil
	}

	a := &ObserveAstronomicalObjects{
		facilityTask: newFacilityTask("Observe Astronomical Objects",
			fmt.Sprintf("Observing for %s in %s", study.Name(), b.Name()), w, s, b, env),
		observatory: obs,
		study:       study,
	}
	workerID := w.ID()
	a.AddClearDown(func() { obs.RemoveObserver(workerID) })
	a.SetDuration(observingDuration)
	a.SetExperience(defaultExperienceRatio, worker.SkillAstronomy)
	a.SetStressModifier(observingStress)
	a.AddPhase(PhaseObserving, a.observing)
	a.SetPhase(PhaseObserving)
	if !a.occupy() {
		a.EndTask()
		return nil
	}
	return a
}

func (a *ObserveAstronomicalObjects) Study() *science.Study { return a.study }

func (a *ObserveAstronomicalObjects) observing(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	if a.Env().Solar.SolarIrradiance(a.settlement.Location()) > 0 {
		a.EndTask()
		return time
	}
	if a.study.IsComplete() {
		a.EndTask()
		return time
	}

	skill := a.Worker().Skill(worker.SkillAstronomy)
	effective := shared.SkillWorkTime(time, skill, shared.DefaultSkillFactor) *
		(1 + telescopeFactor*float64(a.observatory.TechLevel()))
	leftover := rawLeftover(time, effective, a.study.AddResearch(effective))
	if a.study.IsComplete() {
		common.LoggerFromContext(ctx).Log(common.LevelInfo,
			fmt.Sprintf("%s completed the observations for %s", a.Worker().Name(), a.study.Name()),
			map[string]interface{}{"worker": a.Worker().ID(), "study": a.study.ID()})
		a.EndTask()
	}
	return leftover
}

// observeMeta proposes observatories with room and an active study while
// the sun is down
type observeMeta struct {
	*metatask.MetaTask
}

// NewObserveAstronomicalObjectsMeta creates the astronomy generator
func NewObserveAstronomicalObjectsMeta(env *sim.Env) metatask.SettlementMetaTask {
	m := &observeMeta{MetaTask: metatask.NewMetaTask("observe-astronomical-objects", "Observe Astronomical Objects", env)}
	m.AddPreferredJobs(worker.JobAstronomer).
		AddPreferredRoles(worker.RoleChiefOfScience).
		SetFavorite(worker.FavoriteResearch).
		AddTraitModifier(worker.TraitCurious, 1.3)
	return m
}

func (m *observeMeta) GetSettlementTasks(s *settlement.Settlement) []*metatask.SettlementTask {
	if m.Env().Solar.SolarIrradiance(s.Location()) > 0 {
		return nil
	}
	var out []*metatask.SettlementTask
	for _, b := range s.BuildingsWith(settlement.FunctionAstronomy) {
		obs := b.Observatory()
		if b.HasMalfunction() || !obs.HasRoom() {
			continue
		}
		study := obs.ActiveStudy()
		if study == nil {
			continue
		}
		score := rating.NewNamedScore("study", studyWeight*(1-study.Progress()))
		score.AddModifier("commerce", s.Economy().CommerceFactor(goods.CommerceResearch))
		t := metatask.NewSettlementTask(m, m.Name(), metatask.FocusKey(b.ID()+"/observatory"), b, score).
			SetSettlement(s).
			SetDemand(obs.Capacity() - obs.ObserverCount())
		out = append(out, t)
	}
	return out
}

func (m *observeMeta) CreateTask(w worker.Worker, t *metatask.SettlementTask) task.Activity {
	s := t.Settlement()
	if s == nil || w == nil {
		return nil
	}
	if a := NewObserveAstronomicalObjects(w, s, buildingOf(s, t.Building()), m.Env()); a != nil {
		return a
	}
	return nil
}
