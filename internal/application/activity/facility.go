// Package activity holds the concrete worker activities and the candidate
// generators that propose them. Every activity drives one facility engine of
// a settlement building.
package activity

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/adapters/metrics"
	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

// Experience ratios: millisols of work per experience point
const (
	defaultExperienceRatio = 100.0
	tendingExperienceRatio = 50.0
)

// facilityTask is the part every building-bound activity shares: the
// settlement and building it works in and the spot it holds there.
type facilityTask struct {
	*task.Task
	settlement *settlement.Settlement
	building   *settlement.Building
}

func newFacilityTask(name, description string, w worker.Worker, s *settlement.Settlement, b *settlement.Building, env *sim.Env) *facilityTask {
	return &facilityTask{
		Task:       task.NewTask(name, description, w, env),
		settlement: s,
		building:   b,
	}
}

func (f *facilityTask) Settlement() *settlement.Settlement { return f.settlement }
func (f *facilityTask) Building() *settlement.Building     { return f.building }

// occupy walks the worker into the building. False means no spot could be
// had and the activity must not start.
func (f *facilityTask) occupy() bool {
	from := f.settlement.LocateWorker(f.Worker())
	return f.WalkTo(from, f.building)
}

// broken ends the activity when the building has an outstanding fault
func (f *facilityTask) broken(ctx context.Context) bool {
	if !f.building.HasMalfunction() {
		return false
	}
	common.LoggerFromContext(ctx).Log(common.LevelInfo,
		fmt.Sprintf("%s stops %s: %s has a malfunction", f.Worker().Name(), f.Name(), f.building.Name()),
		map[string]interface{}{"worker": f.Worker().ID(), "building": f.building.ID()})
	f.EndTask()
	return true
}

// accident rolls for a work accident over the raw time worked and ends the
// activity on a hit
func (f *facilityTask) accident(ctx context.Context, worked float64, skill int) bool {
	env := f.Env()
	if env == nil || worked <= 0 {
		return false
	}
	if !f.CheckForAccident(f.building, worked, env.Tuning.AccidentChance, skill) {
		return false
	}
	metrics.RecordAccident(f.building.ID())
	common.LoggerFromContext(ctx).Log(common.LevelWarning,
		fmt.Sprintf("%s had an accident in %s", f.Worker().Name(), f.building.Name()),
		map[string]interface{}{"worker": f.Worker().ID(), "building": f.building.ID(), "activity": f.Name()})
	f.EndTask()
	return true
}

// rawLeftover converts unused effective work back into unused raw time
func rawLeftover(raw, effective, effectiveLeft float64) float64 {
	if effective <= 0 {
		return raw
	}
	return raw * effectiveLeft / effective
}

// buildingOf returns the candidate's building when it still belongs to the
// settlement
func buildingOf(s *settlement.Settlement, b *settlement.Building) *settlement.Building {
	if b == nil || s.Building(b.ID()) != b {
		return nil
	}
	return b
}
