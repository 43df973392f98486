package task

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

// PhaseWalking is the only phase of a walk
const PhaseWalking Phase = "WALKING"

// Walk moves a worker into a building. The activity spot at the destination
// is reserved when the walk is created and released if the walk is ended
// before arrival.
type Walk struct {
	*Task
	from     *settlement.Building
	to       *settlement.Building
	walkTime float64
	walked   float64
	arrived  bool
}

// NewWalk creates a walk from one building to another. from may be nil when
// the worker is not in any building.
func NewWalk(w worker.Worker, from, to *settlement.Building, env *sim.Env) (*Walk, error) {
	if w == nil || w.IsOutside() {
		return nil, ErrWorkerUnavailable
	}
	if to == nil {
		return nil, fmt.Errorf("walk destination: %w", ErrNoActivitySpot)
	}
	if !to.Enter(w) {
		return nil, fmt.Errorf("walk to %s: %w", to.Name(), ErrNoActivitySpot)
	}

	walk := &Walk{
		Task: NewTask("Walk", fmt.Sprintf("Walking to %s", to.Name()), w, env),
		from: from,
		to:   to,
	}
	if env != nil {
		walk.walkTime = env.Tuning.WalkTime
	}
	walk.SetMinPerformance(0)
	walk.AddPhase(PhaseWalking, walk.walking)
	walk.SetPhase(PhaseWalking)
	walk.AddClearDown(func() {
		if !walk.arrived {
			to.Leave(w.ID())
		}
	})
	return walk, nil
}

// Destination returns the target building
func (w *Walk) Destination() *settlement.Building { return w.to }

// Arrived reports whether the worker reached the destination
func (w *Walk) Arrived() bool { return w.arrived }

func (w *Walk) walking(_ context.Context, time float64) float64 {
	step := min(time, max(0, w.walkTime-w.walked))
	w.walked += step
	if w.walked < w.walkTime {
		return time - step
	}

	if w.from != nil && w.from != w.to {
		w.from.Leave(w.worker.ID())
	}
	w.worker.SetBuildingID(w.to.ID())
	w.arrived = true
	w.EndTask()
	return time - step
}

// WalkTo makes sure the worker holds a spot in the destination, walking
// there first when needed. The spot is released when the task ends.
func (t *Task) WalkTo(from, to *settlement.Building) bool {
	if to == nil || t.worker == nil {
		return false
	}
	if t.worker.BuildingID() == to.ID() {
		if !to.Enter(t.worker) {
			return false
		}
	} else {
		walk, err := NewWalk(t.worker, from, to, t.env)
		if err != nil {
			return false
		}
		if !t.AddSubTask(walk) {
			return false
		}
	}

	workerID := t.worker.ID()
	t.AddClearDown(func() { to.Leave(workerID) })
	return true
}
