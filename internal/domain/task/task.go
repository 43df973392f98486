package task

import (
	"context"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
	"github.com/mars-sim/mars-sim-sub055/pkg/utils"
)

// Phase names a step of an activity
type Phase string

// PhaseHandler performs up to time millisols of work in one phase and
// returns the time it did not use.
type PhaseHandler func(ctx context.Context, time float64) float64

// FatiguePerMillisol is the fatigue a worker accrues per millisol of work
const FatiguePerMillisol = 0.1

// Activity is a unit of work a worker performs over several pulses
type Activity interface {
	ID() string
	Name() string
	Description() string
	Phase() Phase
	IsDone() bool

	// Perform advances the activity by up to time millisols and returns the
	// unused remainder
	Perform(ctx context.Context, time float64) float64

	// EndTask stops the activity; calling it again has no effect
	EndTask()

	Worker() worker.Worker
	TimeCompleted() float64
	Duration() float64
}

// Task is the phase-driven state machine shared by every activity. Concrete
// activities embed it, register one handler per phase and pick the starting
// phase in their constructor.
//
// Invariants:
//   - a finished task never runs a handler again
//   - timeCompleted never exceeds duration when a duration is set
//   - clear-down hooks run exactly once
type Task struct {
	id          string
	name        string
	description string
	worker      worker.Worker
	env         *sim.Env

	phase  Phase
	phases map[Phase]PhaseHandler

	timeCompleted float64
	duration      float64
	done          bool

	subTask   Activity
	clearDown []func()

	experienceRatio float64
	skills          []worker.SkillType
	stressModifier  float64
	minPerformance  float64
	allowOutside    bool
}

// NewTask creates an unphased task for the worker
func NewTask(name, description string, w worker.Worker, env *sim.Env) *Task {
	workerName := ""
	if w != nil {
		workerName = w.Name()
	}
	t := &Task{
		id:          utils.GenerateActivityID(name, workerName),
		name:        name,
		description: description,
		worker:      w,
		env:         env,
		phases:      make(map[Phase]PhaseHandler),
	}
	if env != nil {
		t.minPerformance = env.Tuning.MinPerformance
	}
	return t
}

func (t *Task) ID() string             { return t.id }
func (t *Task) Name() string           { return t.name }
func (t *Task) Description() string    { return t.description }
func (t *Task) Phase() Phase           { return t.phase }
func (t *Task) IsDone() bool           { return t.done }
func (t *Task) Worker() worker.Worker  { return t.worker }
func (t *Task) TimeCompleted() float64 { return t.timeCompleted }
func (t *Task) Duration() float64      { return t.duration }
func (t *Task) Env() *sim.Env          { return t.env }
func (t *Task) SubTask() Activity      { return t.subTask }

// SetDescription changes the status line shown for the task
func (t *Task) SetDescription(d string) {
	t.description = d
}

// SetDuration caps the total work time; 0 means unbounded
func (t *Task) SetDuration(d float64) {
	t.duration = max(0, d)
}

// SetExperience grants one point per ratio millisols worked, split between
// the given skills
func (t *Task) SetExperience(ratio float64, skills ...worker.SkillType) {
	t.experienceRatio = ratio
	t.skills = skills
}

// SetStressModifier sets the stress added per millisol worked (negative
// values relax the worker)
func (t *Task) SetStressModifier(m float64) {
	t.stressModifier = m
}

// SetAllowOutside lets the task continue while the worker is outside
func (t *Task) SetAllowOutside(allow bool) {
	t.allowOutside = allow
}

// SetMinPerformance overrides the incapacity threshold
func (t *Task) SetMinPerformance(p float64) {
	t.minPerformance = p
}

// AddPhase registers the handler of a phase
func (t *Task) AddPhase(p Phase, h PhaseHandler) {
	t.phases[p] = h
}

// SetPhase switches to the given phase; the handler must already be registered
func (t *Task) SetPhase(p Phase) {
	t.phase = p
}

// AddClearDown registers a hook run when the task ends
func (t *Task) AddClearDown(fn func()) {
	t.clearDown = append(t.clearDown, fn)
}

// AddSubTask delegates work to a child activity. The parent resumes once the
// child is done. A nil or finished child ends the parent.
func (t *Task) AddSubTask(a Activity) bool {
	if a == nil || a.IsDone() {
		t.EndTask()
		return false
	}
	t.subTask = a
	return true
}

// EndTask finishes the task, its sub-task and runs the clear-down hooks
func (t *Task) EndTask() {
	if t.done {
		return
	}
	t.done = true
	if t.subTask != nil {
		t.subTask.EndTask()
	}
	hooks := t.clearDown
	t.clearDown = nil
	for _, fn := range hooks {
		fn()
	}
}

// Perform runs phase handlers until the time is used up, the task ends or a
// handler makes no progress.
func (t *Task) Perform(ctx context.Context, time float64) float64 {
	if t.done || time <= 0 {
		return time
	}
	if !t.workerAvailable() {
		t.EndTask()
		return time
	}

	remaining := time
	for remaining > 0 && !t.done {
		if t.subTask != nil && !t.subTask.IsDone() {
			left := t.subTask.Perform(ctx, remaining)
			if !t.subTask.IsDone() {
				return max(0, left)
			}
			remaining = max(0, left)
			continue
		}

		handler, ok := t.phases[t.phase]
		if !ok || handler == nil {
			panic(&InvalidPhaseError{Task: t.name, Phase: t.phase})
		}

		offered := remaining
		capped := false
		if t.duration > 0 && t.timeCompleted+offered > t.duration {
			offered = max(0, t.duration-t.timeCompleted)
			capped = true
		}
		if capped && offered <= 0 {
			t.EndTask()
			break
		}

		phaseBefore := t.phase
		subBefore := t.subTask
		leftover := min(max(handler(ctx, offered), 0), offered)
		worked := offered - leftover
		t.recordWork(worked)
		remaining -= worked

		if capped {
			t.EndTask()
			break
		}
		if worked <= 0 && t.phase == phaseBefore && t.subTask == subBefore {
			break
		}
	}
	return remaining
}

func (t *Task) workerAvailable() bool {
	if t.worker == nil {
		return false
	}
	if t.worker.PerformanceRating() < t.minPerformance {
		return false
	}
	if t.worker.IsOutside() && !t.allowOutside {
		return false
	}
	return true
}

func (t *Task) recordWork(worked float64) {
	if worked <= 0 {
		return
	}
	t.timeCompleted += worked
	if t.experienceRatio > 0 && len(t.skills) > 0 {
		points := worked / t.experienceRatio / float64(len(t.skills))
		for _, s := range t.skills {
			t.worker.AddExperience(s, points)
		}
	}
	t.worker.AddFatigue(worked * FatiguePerMillisol)
	if t.stressModifier != 0 {
		t.worker.AddStress(worked * t.stressModifier)
	}
}
