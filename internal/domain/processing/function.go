package processing

import (
	"math"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

const (
	// InputsExhaustedScore is the floor for switching off a starved process
	InputsExhaustedScore = 10.0

	// ExhaustedScoreFactor scales the last known score of a starved process
	ExhaustedScoreFactor = 0.9

	// WasteScoreScale turns waste input availability into a score
	WasteScoreScale = 100.0
)

// Function is the resource-processing or waste-processing function of a
// building
type Function struct {
	waste      bool
	numModules int
	processes  []*Process
}

// NewFunction creates a function running the given recipes
func NewFunction(waste bool, numModules int, specs []ProcessSpec) *Function {
	if numModules < 1 {
		numModules = 1
	}
	f := &Function{waste: waste, numModules: numModules}
	for _, s := range specs {
		f.processes = append(f.processes, NewProcess(s))
	}
	return f
}

func (f *Function) IsWaste() bool   { return f.waste }
func (f *Function) NumModules() int { return f.numModules }

// Processes returns the processes in declaration order
func (f *Function) Processes() []*Process {
	return append([]*Process(nil), f.processes...)
}

// Process looks a process up by recipe name
func (f *Function) Process(name string) *Process {
	for _, p := range f.processes {
		if p.spec.Name == name {
			return p
		}
	}
	return nil
}

// TimePassing runs every switched-on process for one pulse and refreshes
// the cached scores used by ToggleScore.
func (f *Function) TimePassing(pulse float64, inv *goods.Inventory, v goods.Valuer) {
	for _, p := range f.processes {
		if p.running {
			p.run(pulse, inv)
		}
		f.score(p, inv, v)
	}
}

// PowerRequired sums the power draw of switched-on processes
func (f *Function) PowerRequired() float64 {
	total := 0.0
	for _, p := range f.processes {
		if p.running {
			total += p.spec.PowerRequired
		}
	}
	return total
}

// score refreshes the cached scores. A running process whose inputs ran out
// keeps its last scores so the exhausted-toggle signal reflects what it used
// to be worth.
func (f *Function) score(p *Process, inv *goods.Inventory, v goods.Valuer) {
	if p.running && !p.IsInputsPresent(inv) {
		return
	}
	if f.waste {
		p.inputScore = p.InputAvailability(inv) * WasteScoreScale
		p.outputScore = 0
		p.overallScore = p.inputScore
		return
	}
	p.inputScore = goods.QuantityValue(v, p.spec.Inputs)
	p.outputScore = goods.QuantityValue(v, p.spec.Outputs)
	p.overallScore = (p.outputScore - p.inputScore) / float64(2*f.numModules)
}

// ToggleScore rates how worthwhile flipping a process is. It reads the
// cached scores and the inventory and never mutates anything.
func (f *Function) ToggleScore(p *Process, inv *goods.Inventory, v goods.Valuer, now shared.MarsTime, cooldown float64) float64 {
	if at, ok := p.LastToggledAt(); ok && now.Since(at) < cooldown {
		return 0
	}
	dampener := float64(2 * f.numModules)

	if !p.running {
		if !p.IsInputsPresent(inv) {
			return 0
		}
		if f.waste {
			return p.InputAvailability(inv) * WasteScoreScale
		}
		diff := p.ValueDiff(v)
		if diff <= 0 {
			return 0
		}
		return diff / dampener
	}

	if !p.IsInputsPresent(inv) {
		return math.Max(ExhaustedScoreFactor*p.overallScore, InputsExhaustedScore)
	}
	if f.waste {
		return 0
	}
	if diff := p.ValueDiff(v); diff < 0 {
		return -diff / dampener
	}
	return 0
}

// BestToggle returns the single most toggle-worthy process of the function
func (f *Function) BestToggle(inv *goods.Inventory, v goods.Valuer, now shared.MarsTime, cooldown float64) (*Process, float64) {
	var best *Process
	bestScore := 0.0
	for _, p := range f.processes {
		s := f.ToggleScore(p, inv, v, now, cooldown)
		if s > bestScore {
			best, bestScore = p, s
		}
	}
	return best, bestScore
}
