package activity

import (
	"context"
	"fmt"
	"math"

	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/computing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/metatask"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/rating"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

const PhaseOptimizing task.Phase = "OPTIMIZING"

const (
	optimizeDuration = 100.0
	optimizeStress   = 0.003
	entropyWeight    = 10.0
	maxEntropyScore  = 300.0
)

// OptimizeSystem works off the entropy of a computing node
type OptimizeSystem struct {
	*facilityTask
	computation *computing.Computation
	removed     float64
}

// NewOptimizeSystem sends the worker to the node. Returns nil when the node
// is missing, broken or does not need optimizing, or the building is full.
func NewOptimizeSystem(w worker.Worker, s *settlement.Settlement, b *settlement.Building, env *sim.Env) *OptimizeSystem {
	if w == nil || s == nil || b == nil || b.Computation() == nil || b.HasMalfunction() {
		return nil
	}
	if !b.Computation().NeedsOptimizing() {
		return nil
	}
	a := &OptimizeSystem{
		facilityTask: newFacilityTask("Optimize System", fmt.Sprintf("Optimizing the computing node in %s", b.Name()), w, s, b, env),
		computation:  b.Computation(),
	}
	a.SetDuration(optimizeDuration)
	a.SetExperience(defaultExperienceRatio, worker.SkillComputing)
	a.SetStressModifier(optimizeStress)
	a.AddPhase(PhaseOptimizing, a.optimizing)
	a.SetPhase(PhaseOptimizing)
	if !a.occupy() {
		return nil
	}
	return a
}

// EntropyRemoved is the entropy worked off so far
func (a *OptimizeSystem) EntropyRemoved() float64 { return a.removed }

func (a *OptimizeSystem) optimizing(ctx context.Context, time float64) float64 {
	if a.broken(ctx) {
		return time
	}
	if !a.computation.NeedsOptimizing() {
		a.finish(ctx)
		return time
	}

	skill := a.Worker().Skill(worker.SkillComputing)
	effective := shared.SkillWorkTime(time, skill, shared.DefaultSkillFactor)
	removed := a.computation.ReduceEntropy(effective)
	if removed <= 0 {
		a.finish(ctx)
		return time
	}
	a.removed += removed
	used := min(effective, removed*math.Max(1, a.computation.PeakCU()))
	leftover := rawLeftover(time, effective, effective-used)
	if !a.computation.NeedsOptimizing() {
		a.finish(ctx)
	}
	return leftover
}

func (a *OptimizeSystem) finish(ctx context.Context) {
	common.LoggerFromContext(ctx).Log(common.LevelInfo,
		fmt.Sprintf("%s optimized %s, entropy down by %.2f", a.Worker().Name(), a.building.Name(), a.removed),
		map[string]interface{}{"worker": a.Worker().ID(), "building": a.building.ID()})
	a.EndTask()
}

// optimizeSystemMeta proposes computing nodes whose entropy is too high
type optimizeSystemMeta struct {
	*metatask.MetaTask
}

// NewOptimizeSystemMeta creates the computing generator
func NewOptimizeSystemMeta(env *sim.Env) metatask.SettlementMetaTask {
	m := &optimizeSystemMeta{MetaTask: metatask.NewMetaTask("optimize-system", "Optimize System", env)}
	m.AddPreferredJobs(worker.JobComputerScientist, worker.JobEngineer).
		AddPreferredRoles(worker.RoleChiefOfComputing).
		SetFavorite(worker.FavoriteOperations)
	return m
}

func (m *optimizeSystemMeta) GetSettlementTasks(s *settlement.Settlement) []*metatask.SettlementTask {
	var out []*metatask.SettlementTask
	for _, b := range s.BuildingsWith(settlement.FunctionComputation) {
		c := b.Computation()
		if b.HasMalfunction() || !c.NeedsOptimizing() {
			continue
		}
		score := rating.NewNamedScore("entropy", entropyWeight*c.Entropy())
		score.ApplyRange(0, maxEntropyScore)
		t := metatask.NewSettlementTask(m, m.Name(), metatask.FocusKey(b.ID()+"/computation"), b, score).
			SetSettlement(s)
		out = append(out, t)
	}
	return out
}

func (m *optimizeSystemMeta) CreateTask(w worker.Worker, t *metatask.SettlementTask) task.Activity {
	s := t.Settlement()
	if s == nil || w == nil {
		return nil
	}
	if a := NewOptimizeSystem(w, s, buildingOf(s, t.Building()), m.Env()); a != nil {
		return a
	}
	return nil
}
