package activity

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/cooking"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/metatask"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/rating"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

const PhasePreparing task.Phase = "PREPARING"

const (
	dessertDuration = 100.0
	dessertWeight   = 8.0
	maxDessertScore = 200.0
)

// PrepareDessert makes desserts in a kitchen until the population has
// enough servings
type PrepareDessert struct {
	*facilityTask
	kitchen  *cooking.Kitchen
	prepared []string
}

// NewPrepareDessert sends the worker to the kitchen. Returns nil when the
// kitchen is missing or broken, has nothing to make or the building is full.
func NewPrepareDessert(w worker.Worker, s *settlement.Settlement, b *settlement.Building, env *sim.Env) *PrepareDessert {
	if w == nil || s == nil || b == nil || b.Kitchen() == nil || b.HasMalfunction() {
		return nil
	}
	k := b.Kitchen()
	if !k.NeedsDesserts(s.Population()) || len(k.AvailableDesserts(s.Inventory())) == 0 {
		return nil
	}
	a := &PrepareDessert{
		facilityTask: newFacilityTask("Prepare Dessert", fmt.Sprintf("Preparing desserts in %s", b.Name()), w, s, b, env),
		kitchen:      k,
	}
	a.SetDuration(dessertDuration)
	a.SetExperience(defaultExperienceRatio, worker.SkillCooking)
	a.AddPhase(PhasePreparing, a.preparing)
	a.SetPhase(PhasePreparing)
	if !a.occupy() {
		return nil
	}
	return a
}

// Prepared lists the desserts finished by this activity
func (a *PrepareDessert) Prepared() []string {
	return append([]string(nil), a.prepared...)
}

func (a *PrepareDessert) preparing(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	if !a.kitchen.NeedsDesserts(a.settlement.Population()) {
		a.EndTask()
		return time
	}

	skill := a.Worker().Skill(worker.SkillCooking)
	effective := shared.SkillWorkTime(time, skill, shared.DefaultSkillFactor)
	name, ok := a.kitchen.AddWork(effective, a.settlement.Inventory())
	if !ok {
		a.EndTask()
		return time
	}
	if name != "" {
		a.prepared = append(a.prepared, name)
		common.LoggerFromContext(ctx).Log(common.LevelInfo,
			fmt.Sprintf("%s prepared %s", a.Worker().Name(), name),
			map[string]interface{}{"worker": a.Worker().ID(), "building": a.building.ID(), "dessert": name})
	}
	if a.accident(ctx, time, skill) {
		return 0
	}
	if !a.kitchen.NeedsDesserts(a.settlement.Population()) {
		a.EndTask()
	}
	return 0
}

// prepareDessertMeta proposes kitchens short of desserts
type prepareDessertMeta struct {
	*metatask.MetaTask
}

// NewPrepareDessertMeta creates the dessert generator
func NewPrepareDessertMeta(env *sim.Env) metatask.SettlementMetaTask {
	m := &prepareDessertMeta{MetaTask: metatask.NewMetaTask("prepare-dessert", "Prepare Dessert", env)}
	m.AddPreferredJobs(worker.JobChef).
		SetFavorite(worker.FavoriteCooking).
		AddTraitModifier(worker.TraitGregarious, 1.2).
		AddRobotTypes(worker.RobotChefbot)
	return m
}

func (m *prepareDessertMeta) GetSettlementTasks(s *settlement.Settlement) []*metatask.SettlementTask {
	pop := s.Population()
	var out []*metatask.SettlementTask
	for _, b := range s.BuildingsWith(settlement.FunctionCooking) {
		k := b.Kitchen()
		if b.HasMalfunction() || !k.NeedsDesserts(pop) || len(k.AvailableDesserts(s.Inventory())) == 0 {
			continue
		}
		score := rating.NewNamedScore("deficit", dessertWeight*float64(k.DessertDeficit(pop)))
		score.AddModifier("commerce", s.Economy().CommerceFactor(goods.CommerceCooking))
		score.ApplyRange(0, maxDessertScore)
		t := metatask.NewSettlementTask(m, m.Name(), metatask.FocusKey(b.ID()+"/kitchen"), b, score).
			SetSettlement(s)
		out = append(out, t)
	}
	return out
}

func (m *prepareDessertMeta) CreateTask(w worker.Worker, t *metatask.SettlementTask) task.Activity {
	s := t.Settlement()
	if s == nil || w == nil {
		return nil
	}
	if a := NewPrepareDessert(w, s, buildingOf(s, t.Building()), m.Env()); a != nil {
		return a
	}
	return nil
}
