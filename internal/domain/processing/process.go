// Package processing runs the resource and waste processes of a building
// (electrolysis, Sabatier, composting ...) and scores which of them a worker
// should switch on or off.
package processing

import (
	"math"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// ProcessSpec is an immutable process recipe. Rates are kg per sol.
type ProcessSpec struct {
	Name           string             `mapstructure:"name" validate:"required"`
	Inputs         []goods.Quantity   `mapstructure:"inputs" validate:"dive"`
	AmbientInputs  []goods.ResourceID `mapstructure:"ambient_inputs"`
	Outputs        []goods.Quantity   `mapstructure:"outputs" validate:"min=1,dive"`
	PowerRequired  float64            `mapstructure:"power" validate:"gte=0"`
	ToggleWorkTime float64            `mapstructure:"toggle_work_time" validate:"gt=0"`
	DefaultOn      bool               `mapstructure:"default_on"`
}

// Process is one instance of a recipe inside a building function
type Process struct {
	spec                ProcessSpec
	running             bool
	toggleWorkRemaining float64
	lastToggledAt       shared.MarsTime
	everToggled         bool
	overallScore        float64
	inputScore          float64
	outputScore         float64
}

// NewProcess creates a process in its default state
func NewProcess(spec ProcessSpec) *Process {
	return &Process{
		spec:                spec,
		running:             spec.DefaultOn,
		toggleWorkRemaining: spec.ToggleWorkTime,
	}
}

func (p *Process) Name() string                 { return p.spec.Name }
func (p *Process) Spec() ProcessSpec            { return p.spec }
func (p *Process) IsRunning() bool              { return p.running }
func (p *Process) ToggleWorkRemaining() float64 { return p.toggleWorkRemaining }
func (p *Process) OverallScore() float64        { return p.overallScore }
func (p *Process) InputScore() float64          { return p.inputScore }
func (p *Process) OutputScore() float64         { return p.outputScore }

// LastToggledAt returns when the process was last switched by a worker
func (p *Process) LastToggledAt() (shared.MarsTime, bool) {
	return p.lastToggledAt, p.everToggled
}

// IsInputsPresent reports whether every stock input is available.
// Ambient inputs are always present.
func (p *Process) IsInputsPresent(inv *goods.Inventory) bool {
	for _, q := range p.spec.Inputs {
		if inv.Amount(q.Resource) <= 0 {
			return false
		}
	}
	return true
}

// InputAvailability is the lowest fraction, across stock inputs, of one
// sol's demand that is on hand. Ambient inputs count as fully available.
func (p *Process) InputAvailability(inv *goods.Inventory) float64 {
	lowest := 1.0
	for _, q := range p.spec.Inputs {
		if q.Amount <= 0 {
			continue
		}
		frac := math.Min(1, inv.Amount(q.Resource)/q.Amount)
		if frac < lowest {
			lowest = frac
		}
	}
	return lowest
}

// ValueDiff is output value minus stock input value per sol
func (p *Process) ValueDiff(v goods.Valuer) float64 {
	return goods.QuantityValue(v, p.spec.Outputs) - goods.QuantityValue(v, p.spec.Inputs)
}

// AddToggleWork applies work toward flipping the process. When the toggle
// completes the process switches state at now and the unused time is
// returned.
func (p *Process) AddToggleWork(t float64, now shared.MarsTime) (leftover float64, toggled bool) {
	if t <= 0 {
		return 0, false
	}
	used := math.Min(t, math.Max(0, p.toggleWorkRemaining))
	p.toggleWorkRemaining -= t
	if p.toggleWorkRemaining > 0 {
		return 0, false
	}
	p.running = !p.running
	p.lastToggledAt = now
	p.everToggled = true
	p.toggleWorkRemaining = p.spec.ToggleWorkTime
	return t - used, true
}

// run consumes one pulse of inputs and stores the outputs. A process that
// cannot draw every input keeps running but produces nothing.
func (p *Process) run(pulse float64, inv *goods.Inventory) bool {
	fraction := pulse / shared.MillisolsPerSol
	for _, q := range p.spec.Inputs {
		if inv.Amount(q.Resource)+1e-9 < q.Amount*fraction {
			return false
		}
	}
	for _, q := range p.spec.Inputs {
		_ = inv.Retrieve(q.Resource, q.Amount*fraction)
	}
	for _, q := range p.spec.Outputs {
		inv.Store(q.Resource, q.Amount*fraction)
	}
	return true
}
