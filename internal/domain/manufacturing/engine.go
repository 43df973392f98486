package manufacturing

import (
	"math/rand/v2"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// RunningProcess returns the first running process the worker is skilled
// enough for that still needs work.
func (w *Workshop) RunningProcess(skill int) *Process {
	for _, p := range w.processes {
		if p.spec.SkillLevel <= skill && p.workTimeRemaining > 0 {
			return p
		}
	}
	return nil
}

// PromoteQueued moves the first workable queued process into the running
// set. The queue is scanned on a snapshot and only mutated afterwards.
func (w *Workshop) PromoteQueued(skill int, inv *goods.Inventory) *Process {
	if !w.HasFreePrinter() {
		return nil
	}
	var chosen *Process
	for _, q := range w.Queue() {
		if w.CanRun(q.spec, skill, inv) {
			chosen = q
			break
		}
	}
	if chosen == nil {
		return nil
	}
	if err := w.AddProcess(chosen, inv); err != nil {
		return nil
	}
	return chosen
}

// CreateNewProcess starts a brand-new process picked at random with
// probability proportional to recipe value. Nothing is created when every
// printer is busy or no recipe has a positive value.
func (w *Workshop) CreateNewProcess(skill int, inv *goods.Inventory, v goods.Valuer, rng *rand.Rand) *Process {
	if !w.HasFreePrinter() {
		return nil
	}
	spec, ok := shared.PickWeighted(rng, w.WeightedRecipes(skill, inv, v))
	if !ok {
		return nil
	}
	p := NewProcess(spec, w.clock)
	if err := w.AddProcess(p, inv); err != nil {
		return nil
	}
	return p
}

// SelectProcess applies the work priority: a running process first, then a
// promoted queued one, and only then a new one when allowNew is set.
func (w *Workshop) SelectProcess(skill int, inv *goods.Inventory, v goods.Valuer, rng *rand.Rand, allowNew bool) *Process {
	if p := w.RunningProcess(skill); p != nil {
		return p
	}
	if p := w.PromoteQueued(skill, inv); p != nil {
		return p
	}
	if !allowNew {
		return nil
	}
	return w.CreateNewProcess(skill, inv, v, rng)
}

// HasWork reports whether a worker of the given skill could advance anything
func (w *Workshop) HasWork(skill int, inv *goods.Inventory, v goods.Valuer, allowNew bool) bool {
	if w.RunningProcess(skill) != nil {
		return true
	}
	if !w.HasFreePrinter() {
		return false
	}
	for _, q := range w.queue {
		if w.CanRun(q.spec, skill, inv) {
			return true
		}
	}
	return allowNew && len(w.WeightedRecipes(skill, inv, v)) > 0
}

// CancelDifficultProcesses ends every running process that needs more than
// highestSkill+margin, since nobody in the settlement can finish it.
func (w *Workshop) CancelDifficultProcesses(highestSkill, margin int, inv *goods.Inventory) []*Process {
	var doomed []*Process
	for _, p := range w.Processes() {
		if p.spec.SkillLevel > highestSkill+margin {
			doomed = append(doomed, p)
		}
	}
	for _, p := range doomed {
		_ = w.EndProcess(p, true, inv)
	}
	return doomed
}
