package manufacturing

import (
	"math"

	"github.com/google/uuid"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// ProcessSpec is an immutable manufacturing or food production recipe.
// Times are in millisols, power in kW.
type ProcessSpec struct {
	Name                string           `mapstructure:"name" validate:"required"`
	TechLevel           int              `mapstructure:"tech_level" validate:"gte=0"`
	SkillLevel          int              `mapstructure:"skill_level" validate:"gte=0"`
	WorkTimeRequired    float64          `mapstructure:"work_time" validate:"gte=0"`
	ProcessTimeRequired float64          `mapstructure:"process_time" validate:"gte=0"`
	PowerRequired       float64          `mapstructure:"power" validate:"gte=0"`
	Inputs              []goods.Quantity `mapstructure:"inputs" validate:"dive"`
	Outputs             []goods.Quantity `mapstructure:"outputs" validate:"min=1,dive"`
}

// Process is a running (or queued) instance of a recipe owned by a workshop.
//
// State Machine:
//
//	QUEUED -> RUNNING -> COMPLETED
//	               \-> CANCELLED
type Process struct {
	id                   string
	spec                 ProcessSpec
	workTimeRemaining    float64
	processTimeRemaining float64
	lifecycle            *shared.LifecycleStateMachine
}

// NewProcess creates a queued instance of the recipe
func NewProcess(spec ProcessSpec, clock shared.SimClock) *Process {
	return &Process{
		id:                   uuid.New().String(),
		spec:                 spec,
		workTimeRemaining:    spec.WorkTimeRequired,
		processTimeRemaining: spec.ProcessTimeRequired,
		lifecycle:            shared.NewLifecycleStateMachine(clock),
	}
}

func (p *Process) ID() string                               { return p.id }
func (p *Process) Spec() ProcessSpec                        { return p.spec }
func (p *Process) Name() string                             { return p.spec.Name }
func (p *Process) WorkTimeRemaining() float64               { return p.workTimeRemaining }
func (p *Process) ProcessTimeRemaining() float64            { return p.processTimeRemaining }
func (p *Process) Status() shared.LifecycleStatus           { return p.lifecycle.Status() }
func (p *Process) Lifecycle() *shared.LifecycleStateMachine { return p.lifecycle }

// IsWorkDone reports whether no more worker effort is needed
func (p *Process) IsWorkDone() bool {
	return p.workTimeRemaining <= 0
}

// IsFinished reports whether both work and process time are used up
func (p *Process) IsFinished() bool {
	return p.workTimeRemaining <= 0 && p.processTimeRemaining <= 0
}

// AddWorkTime applies effective work time and returns the part that was not
// needed. The remaining work never goes below zero.
func (p *Process) AddWorkTime(t float64) float64 {
	if t <= 0 {
		return 0
	}
	used := math.Min(t, math.Max(0, p.workTimeRemaining))
	p.workTimeRemaining = math.Max(0, p.workTimeRemaining-t)
	return t - used
}

// AddProcessTime advances the unattended part of the recipe
func (p *Process) AddProcessTime(t float64) float64 {
	if t <= 0 {
		return 0
	}
	used := math.Min(t, math.Max(0, p.processTimeRemaining))
	p.processTimeRemaining = math.Max(0, p.processTimeRemaining-t)
	return t - used
}
