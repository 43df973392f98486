package manufacturing

import (
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

// Kind distinguishes the two workshop flavours sharing this engine
type Kind string

const (
	KindManufacture    Kind = "MANUFACTURE"
	KindFoodProduction Kind = "FOOD_PRODUCTION"
)

// Workshop is the manufacture or food-production function of a building.
// It owns its running processes and its queue; only the worker holding the
// building's activity spot mutates them.
type Workshop struct {
	kind          Kind
	techLevel     int
	printersInUse int
	catalog       []ProcessSpec
	processes     []*Process
	queue         []*Process
	clock         shared.SimClock
}

// NewWorkshop creates a workshop able to run the given recipes
func NewWorkshop(kind Kind, techLevel, printersInUse int, catalog []ProcessSpec, clock shared.SimClock) *Workshop {
	return &Workshop{
		kind:          kind,
		techLevel:     techLevel,
		printersInUse: printersInUse,
		catalog:       append([]ProcessSpec(nil), catalog...),
		clock:         clock,
	}
}

func (w *Workshop) Kind() Kind         { return w.kind }
func (w *Workshop) TechLevel() int     { return w.techLevel }
func (w *Workshop) PrintersInUse() int { return w.printersInUse }

// Catalog returns the recipes the workshop can run
func (w *Workshop) Catalog() []ProcessSpec {
	return append([]ProcessSpec(nil), w.catalog...)
}

// SetPrintersInUse changes the concurrency limit; running processes are kept
func (w *Workshop) SetPrintersInUse(n int) {
	if n < 0 {
		n = 0
	}
	w.printersInUse = n
}

// SkillType is the skill that drives work in this workshop
func (w *Workshop) SkillType() worker.SkillType {
	if w.kind == KindFoodProduction {
		return worker.SkillCooking
	}
	return worker.SkillMaterialsScience
}

// CurrentTotalProcesses counts the running processes
func (w *Workshop) CurrentTotalProcesses() int {
	return len(w.processes)
}

// HasFreePrinter reports whether another process may start
func (w *Workshop) HasFreePrinter() bool {
	return w.CurrentTotalProcesses() < w.printersInUse
}

// Processes returns a snapshot of the running processes
func (w *Workshop) Processes() []*Process {
	return append([]*Process(nil), w.processes...)
}

// Queue returns a snapshot of the queued processes
func (w *Workshop) Queue() []*Process {
	return append([]*Process(nil), w.queue...)
}

// QueueProcess appends a recipe instance to the queue
func (w *Workshop) QueueProcess(spec ProcessSpec) *Process {
	p := NewProcess(spec, w.clock)
	w.queue = append(w.queue, p)
	return p
}

// AddProcess starts a process, consuming its inputs from the inventory.
// A queued process passed here is taken off the queue.
func (w *Workshop) AddProcess(p *Process, inv *goods.Inventory) error {
	if !w.HasFreePrinter() {
		return &ErrWorkshopFull{Processes: w.CurrentTotalProcesses(), Printers: w.printersInUse}
	}
	if p.spec.TechLevel > w.techLevel {
		return &ErrTechLevelTooLow{Process: p.spec.Name, Required: p.spec.TechLevel, Available: w.techLevel}
	}
	for _, q := range p.spec.Inputs {
		if inv.Amount(q.Resource)+1e-9 < q.Amount {
			return shared.NewInsufficientResourceError(string(q.Resource), q.Amount, inv.Amount(q.Resource))
		}
	}
	if err := p.lifecycle.Start(); err != nil {
		return err
	}
	for _, q := range p.spec.Inputs {
		// availability checked above
		_ = inv.Retrieve(q.Resource, q.Amount)
	}
	w.removeQueued(p.id)
	w.processes = append(w.processes, p)
	return nil
}

// EndProcess removes a running process. Outputs are stored unless the end is
// premature, in which case the inputs are handed back instead.
func (w *Workshop) EndProcess(p *Process, premature bool, inv *goods.Inventory) error {
	idx := -1
	for i, running := range w.processes {
		if running.id == p.id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &ErrProcessNotFound{ProcessID: p.id}
	}
	w.processes = append(w.processes[:idx], w.processes[idx+1:]...)

	if premature {
		for _, q := range p.spec.Inputs {
			inv.Store(q.Resource, q.Amount)
		}
		return p.lifecycle.Cancel("ended prematurely")
	}
	for _, q := range p.spec.Outputs {
		inv.Store(q.Resource, q.Amount)
	}
	return p.lifecycle.Complete()
}

// TimePassing advances process time on every process whose work is done and
// completes the ones that are finished. Returns the completed processes.
func (w *Workshop) TimePassing(pulse float64, inv *goods.Inventory) []*Process {
	var finished []*Process
	for _, p := range w.Processes() {
		if p.IsWorkDone() {
			p.AddProcessTime(pulse)
		}
		if p.IsFinished() {
			finished = append(finished, p)
		}
	}
	for _, p := range finished {
		_ = w.EndProcess(p, false, inv)
	}
	return finished
}

// PowerRequired sums the power draw of running processes
func (w *Workshop) PowerRequired() float64 {
	total := 0.0
	for _, p := range w.processes {
		total += p.spec.PowerRequired
	}
	return total
}

func (w *Workshop) removeQueued(id string) {
	for i, q := range w.queue {
		if q.id == id {
			w.queue = append(w.queue[:i], w.queue[i+1:]...)
			return
		}
	}
}
