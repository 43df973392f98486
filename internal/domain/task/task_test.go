package task_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

const (
	phaseA task.Phase = "A"
	phaseB task.Phase = "B"
)

func newEnv() *sim.Env {
	return sim.NewEnv(shared.NewMockClock(0), nil, shared.NewRand(7), sim.DefaultTuning())
}

func newPerson(id string) *worker.Person {
	return worker.NewPerson(worker.PersonProfile{ID: id, Name: id})
}

func TestTask_PerformRunsPhasesInOrder(t *testing.T) {
	// Arrange
	tk := task.NewTask("Two step", "", newPerson("ada"), newEnv())
	var seenB float64
	tk.AddPhase(phaseA, func(_ context.Context, time float64) float64 {
		tk.SetPhase(phaseB)
		return time - 10
	})
	tk.AddPhase(phaseB, func(_ context.Context, time float64) float64 {
		seenB = time
		tk.EndTask()
		return time - 5
	})
	tk.SetPhase(phaseA)

	// Act
	left := tk.Perform(context.Background(), 50)

	// Assert
	assert.Equal(t, 40.0, seenB)
	assert.Equal(t, 35.0, left)
	assert.Equal(t, 15.0, tk.TimeCompleted())
	assert.True(t, tk.IsDone())
}

func TestTask_DoneTaskReturnsAllTime(t *testing.T) {
	tk := task.NewTask("Idle", "", newPerson("ada"), newEnv())
	tk.EndTask()

	assert.Equal(t, 20.0, tk.Perform(context.Background(), 20))
}

func TestTask_IncapacitatedWorkerEndsTask(t *testing.T) {
	// Arrange
	p := newPerson("ada")
	p.SetPerformance(0.05)
	tk := task.NewTask("Work", "", p, newEnv())
	called := false
	tk.AddPhase(phaseA, func(_ context.Context, time float64) float64 {
		called = true
		return 0
	})
	tk.SetPhase(phaseA)

	// Act
	left := tk.Perform(context.Background(), 12)

	// Assert
	assert.Equal(t, 12.0, left)
	assert.True(t, tk.IsDone())
	assert.False(t, called)
}

func TestTask_OutsideWorkerEndsUnlessAllowed(t *testing.T) {
	p := newPerson("ada")
	p.SetOutside(true)
	blocked := task.NewTask("Inside job", "", p, newEnv())
	blocked.AddPhase(phaseA, func(_ context.Context, time float64) float64 { return 0 })
	blocked.SetPhase(phaseA)
	allowed := task.NewTask("EVA", "", p, newEnv())
	allowed.SetAllowOutside(true)
	allowed.AddPhase(phaseA, func(_ context.Context, time float64) float64 { return 0 })
	allowed.SetPhase(phaseA)

	blocked.Perform(context.Background(), 5)
	allowed.Perform(context.Background(), 5)

	assert.True(t, blocked.IsDone())
	assert.False(t, allowed.IsDone())
	assert.Equal(t, 5.0, allowed.TimeCompleted())
}

func TestTask_UnknownPhasePanics(t *testing.T) {
	tk := task.NewTask("Broken", "", newPerson("ada"), newEnv())
	tk.SetPhase("NOWHERE")

	assert.PanicsWithError(t, "task Broken has no handler for phase NOWHERE", func() {
		tk.Perform(context.Background(), 1)
	})
}

func TestTask_DurationCapsWork(t *testing.T) {
	// Arrange
	tk := task.NewTask("Short", "", newPerson("ada"), newEnv())
	tk.SetDuration(30)
	var offered float64
	tk.AddPhase(phaseA, func(_ context.Context, time float64) float64 {
		offered = time
		return 0
	})
	tk.SetPhase(phaseA)

	// Act
	left := tk.Perform(context.Background(), 50)

	// Assert
	assert.Equal(t, 30.0, offered)
	assert.Equal(t, 20.0, left)
	assert.Equal(t, 30.0, tk.TimeCompleted())
	assert.True(t, tk.IsDone())
}

func TestTask_ExhaustedDurationEndsWithoutCallingPhase(t *testing.T) {
	// Arrange
	tk := task.NewTask("Exact", "", newPerson("ada"), newEnv())
	tk.SetDuration(30)
	calls := 0
	tk.AddPhase(phaseA, func(_ context.Context, time float64) float64 {
		calls++
		return 0
	})
	tk.SetPhase(phaseA)
	require.Equal(t, 0.0, tk.Perform(context.Background(), 30))
	require.False(t, tk.IsDone())

	// Act
	left := tk.Perform(context.Background(), 10)

	// Assert
	assert.Equal(t, 1, calls)
	assert.Equal(t, 10.0, left)
	assert.Equal(t, 30.0, tk.TimeCompleted())
	assert.True(t, tk.IsDone())
}

func TestTask_StalledHandlerDoesNotSpin(t *testing.T) {
	tk := task.NewTask("Wait", "", newPerson("ada"), newEnv())
	calls := 0
	tk.AddPhase(phaseA, func(_ context.Context, time float64) float64 {
		calls++
		return time
	})
	tk.SetPhase(phaseA)

	left := tk.Perform(context.Background(), 10)

	assert.Equal(t, 10.0, left)
	assert.Equal(t, 1, calls)
	assert.False(t, tk.IsDone())
}

func TestTask_SubTaskRunsFirst(t *testing.T) {
	// Arrange
	env := newEnv()
	ada := newPerson("ada")
	lab := settlement.NewBuilding("lab", "Lab", 2)
	tk := task.NewTask("Research", "", ada, env)
	var parentTime float64
	tk.AddPhase(phaseA, func(_ context.Context, time float64) float64 {
		parentTime += time
		return 0
	})
	tk.SetPhase(phaseA)
	require.True(t, tk.WalkTo(nil, lab))

	// Act
	first := tk.Perform(context.Background(), 3)
	second := tk.Perform(context.Background(), 10)

	// Assert
	assert.Equal(t, 0.0, first)
	assert.Equal(t, 0.0, second)
	assert.Equal(t, 8.0, parentTime)
	assert.Equal(t, "lab", ada.BuildingID())
	assert.True(t, lab.IsOccupant("ada"))
}

func TestTask_NilSubTaskEndsParent(t *testing.T) {
	tk := task.NewTask("Work", "", newPerson("ada"), newEnv())

	assert.False(t, tk.AddSubTask(nil))
	assert.True(t, tk.IsDone())
}

func TestTask_ClearDownRunsOnce(t *testing.T) {
	tk := task.NewTask("Work", "", newPerson("ada"), newEnv())
	runs := 0
	tk.AddClearDown(func() { runs++ })

	tk.EndTask()
	tk.EndTask()

	assert.Equal(t, 1, runs)
}

func TestTask_WorkGrantsExperienceAndFatigue(t *testing.T) {
	// Arrange
	ada := newPerson("ada")
	tk := task.NewTask("Gardening", "", ada, newEnv())
	tk.SetExperience(10, worker.SkillBotany)
	tk.SetStressModifier(-0.01)
	tk.AddPhase(phaseA, func(_ context.Context, time float64) float64 { return 0 })
	tk.SetPhase(phaseA)

	// Act
	tk.Perform(context.Background(), 300)

	// Assert
	assert.Equal(t, 1, ada.Skill(worker.SkillBotany))
	assert.InDelta(t, 30.0, ada.Fatigue(), 1e-9)
	assert.Equal(t, 0.0, ada.Stress())
}

func TestAccidentChance_ScalesBySkillAndWorker(t *testing.T) {
	b := settlement.NewBuilding("b", "Shop", 2).SetMalfunctionManager(settlement.NewMalfunctionManager(2))
	robot := worker.NewRobot("r", "Makerbot", worker.RobotMakerbot, nil)

	assert.InDelta(t, 0.01*0.75*2*10, task.AccidentChance(newPerson("a"), b, 10, 0.01, 1), 1e-12)
	assert.InDelta(t, 0.01/3*2*10, task.AccidentChance(newPerson("a"), b, 10, 0.01, 5), 1e-12)
	assert.InDelta(t, 0.01*0.75*2*10*0.5, task.AccidentChance(robot, b, 10, 0.01, 1), 1e-12)
	assert.Equal(t, 0.0, task.AccidentChance(robot, nil, 10, 0.01, 1))
}

func TestTask_CheckForAccidentCreatesMalfunction(t *testing.T) {
	b := settlement.NewBuilding("b", "Shop", 2)
	tk := task.NewTask("Weld", "", newPerson("ada"), newEnv())

	hit := tk.CheckForAccident(b, 100, 1, 0)

	assert.True(t, hit)
	assert.Equal(t, 1, b.Malfunctions().AccidentCount())
}

func TestNewWalk_Failures(t *testing.T) {
	env := newEnv()
	full := settlement.NewBuilding("full", "Closet", 1)
	require.True(t, full.Enter(newPerson("bo")))
	outside := newPerson("eva")
	outside.SetOutside(true)

	_, errFull := task.NewWalk(newPerson("ada"), nil, full, env)
	_, errOutside := task.NewWalk(outside, nil, full, env)

	assert.True(t, errors.Is(errFull, task.ErrNoActivitySpot))
	assert.True(t, errors.Is(errOutside, task.ErrWorkerUnavailable))
}

func TestWalk_ArrivesAfterWalkTime(t *testing.T) {
	// Arrange
	ada := newPerson("ada")
	hab := settlement.NewBuilding("hab", "Hab", 2)
	lab := settlement.NewBuilding("lab", "Lab", 2)
	require.True(t, hab.Enter(ada))
	ada.SetBuildingID("hab")
	walk, err := task.NewWalk(ada, hab, lab, newEnv())
	require.NoError(t, err)

	// Act
	left := walk.Perform(context.Background(), 8)

	// Assert
	assert.Equal(t, 3.0, left)
	assert.True(t, walk.Arrived())
	assert.Equal(t, "lab", ada.BuildingID())
	assert.False(t, hab.IsOccupant("ada"))
	assert.True(t, lab.IsOccupant("ada"))
}

func TestWalk_EndedEarlyReleasesSpot(t *testing.T) {
	ada := newPerson("ada")
	lab := settlement.NewBuilding("lab", "Lab", 1)
	walk, err := task.NewWalk(ada, nil, lab, newEnv())
	require.NoError(t, err)

	walk.Perform(context.Background(), 1)
	walk.EndTask()

	assert.False(t, lab.IsOccupant("ada"))
	assert.True(t, lab.HasFreeSpot())
}
