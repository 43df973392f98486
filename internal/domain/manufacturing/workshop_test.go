package manufacturing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/manufacturing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

const (
	bolts  goods.ResourceID = "bolts"
	panels goods.ResourceID = "panels"
	steel  goods.ResourceID = "steel"
)

func recipe(name string, output goods.ResourceID, tech, skill int) manufacturing.ProcessSpec {
	return manufacturing.ProcessSpec{
		Name:                name,
		TechLevel:           tech,
		SkillLevel:          skill,
		WorkTimeRequired:    50,
		ProcessTimeRequired: 20,
		Outputs:             []goods.Quantity{{Resource: output, Amount: 1}},
	}
}

func TestProcess_AddWorkTimeNeverGoesNegative(t *testing.T) {
	// Arrange
	p := manufacturing.NewProcess(recipe("bolts", bolts, 1, 0), shared.NewMockClock(0))
	requests := []float64{10, 25, 30, 5, 0}
	remaining := p.WorkTimeRemaining()

	for _, req := range requests {
		// Act
		leftover := p.AddWorkTime(req)

		// Assert
		expected := req - min(req, remaining)
		assert.InDelta(t, expected, leftover, 1e-9)
		assert.GreaterOrEqual(t, p.WorkTimeRemaining(), 0.0)
		remaining = p.WorkTimeRemaining()
	}
	assert.True(t, p.IsWorkDone())
}

func TestWorkshop_CreateNewProcessFavoursValuableRecipe(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	catalog := []manufacturing.ProcessSpec{
		recipe("bolts", bolts, 1, 1),
		recipe("panels", panels, 2, 2),
	}
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 2, 1, catalog, clock)
	inv := goods.NewInventory()
	values := goods.NewValueTable(1).SetResourceValue(bolts, 10).SetResourceValue(panels, 25)
	rng := shared.NewRand(7)
	counts := map[string]int{}

	for i := 0; i < 2000; i++ {
		// Act
		p := ws.CreateNewProcess(3, inv, values, rng)
		require.NotNil(t, p)
		counts[p.Name()]++

		// a full workshop never gets a second process
		assert.Nil(t, ws.CreateNewProcess(3, inv, values, rng))
		assert.Equal(t, 1, ws.CurrentTotalProcesses())

		require.NoError(t, ws.EndProcess(p, true, inv))
	}

	// Assert
	assert.Greater(t, counts["panels"], counts["bolts"])
	assert.Greater(t, counts["bolts"], 0)
}

func TestWorkshop_AddProcessWhenFull(t *testing.T) {
	clock := shared.NewMockClock(0)
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 1, 1, nil, clock)
	inv := goods.NewInventory()

	require.NoError(t, ws.AddProcess(manufacturing.NewProcess(recipe("a", bolts, 1, 0), clock), inv))
	err := ws.AddProcess(manufacturing.NewProcess(recipe("b", bolts, 1, 0), clock), inv)

	var full *manufacturing.ErrWorkshopFull
	require.True(t, errors.As(err, &full))
	assert.Equal(t, 1, full.Printers)
}

func TestWorkshop_AddProcessConsumesInputs(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 1, 2, nil, clock)
	inv := goods.NewInventory()
	inv.Store(steel, 3)
	spec := recipe("panels", panels, 1, 0)
	spec.Inputs = []goods.Quantity{{Resource: steel, Amount: 2}}

	// Act
	err := ws.AddProcess(manufacturing.NewProcess(spec, clock), inv)
	errShort := ws.AddProcess(manufacturing.NewProcess(spec, clock), inv)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 1.0, inv.Amount(steel), 1e-9)
	var short *shared.InsufficientResourceError
	assert.True(t, errors.As(errShort, &short))
	assert.Equal(t, 1, ws.CurrentTotalProcesses())
}

func TestWorkshop_SelectProcessPriority(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 3, 2, []manufacturing.ProcessSpec{recipe("bolts", bolts, 1, 0)}, clock)
	inv := goods.NewInventory()
	values := goods.NewValueTable(1).SetResourceValue(bolts, 5)
	rng := shared.NewRand(1)

	// queued process is promoted before anything new is created
	queued := ws.QueueProcess(recipe("panels", panels, 1, 1))

	// Act
	first := ws.SelectProcess(2, inv, values, rng, true)
	second := ws.SelectProcess(2, inv, values, rng, true)

	// Assert
	assert.Equal(t, queued.ID(), first.ID())
	assert.Equal(t, first.ID(), second.ID(), "running process keeps priority while it needs work")
	assert.Empty(t, ws.Queue())
	assert.True(t, first.Lifecycle().IsRunning())
}

func TestWorkshop_OverrideOnlyStopsNewProcesses(t *testing.T) {
	clock := shared.NewMockClock(0)
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 3, 2, []manufacturing.ProcessSpec{recipe("bolts", bolts, 1, 0)}, clock)
	inv := goods.NewInventory()
	values := goods.NewValueTable(1).SetResourceValue(bolts, 5)
	rng := shared.NewRand(1)

	assert.Nil(t, ws.SelectProcess(1, inv, values, rng, false))
	assert.False(t, ws.HasWork(1, inv, values, false))

	running := ws.CreateNewProcess(1, inv, values, rng)
	require.NotNil(t, running)
	assert.Equal(t, running.ID(), ws.SelectProcess(1, inv, values, rng, false).ID())
}

func TestWorkshop_RunningProcessRespectsSkill(t *testing.T) {
	clock := shared.NewMockClock(0)
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 5, 2, nil, clock)
	inv := goods.NewInventory()
	require.NoError(t, ws.AddProcess(manufacturing.NewProcess(recipe("hard", panels, 1, 4), clock), inv))

	assert.Nil(t, ws.RunningProcess(3))
	assert.NotNil(t, ws.RunningProcess(4))
}

func TestWorkshop_CancelDifficultProcesses(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 5, 3, nil, clock)
	inv := goods.NewInventory()
	inv.Store(steel, 4)
	easy := manufacturing.NewProcess(recipe("easy", bolts, 1, 3), clock)
	hardSpec := recipe("hard", panels, 1, 6)
	hardSpec.Inputs = []goods.Quantity{{Resource: steel, Amount: 4}}
	hard := manufacturing.NewProcess(hardSpec, clock)
	require.NoError(t, ws.AddProcess(easy, inv))
	require.NoError(t, ws.AddProcess(hard, inv))

	// Act
	cancelled := ws.CancelDifficultProcesses(3, 2, inv)

	// Assert
	require.Len(t, cancelled, 1)
	assert.Equal(t, hard.ID(), cancelled[0].ID())
	assert.Equal(t, shared.LifecycleStatusCancelled, hard.Status())
	assert.Equal(t, 1, ws.CurrentTotalProcesses())
	assert.InDelta(t, 4.0, inv.Amount(steel), 1e-9, "inputs handed back")
}

func TestWorkshop_TimePassingCompletesFinishedWork(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 1, 1, nil, clock)
	inv := goods.NewInventory()
	p := manufacturing.NewProcess(recipe("bolts", bolts, 1, 0), clock)
	require.NoError(t, ws.AddProcess(p, inv))

	// Act
	ws.TimePassing(30, inv) // work not done, process time does not run
	p.AddWorkTime(60)
	ws.TimePassing(15, inv)
	done := ws.TimePassing(10, inv)

	// Assert
	require.Len(t, done, 1)
	assert.Equal(t, shared.LifecycleStatusCompleted, p.Status())
	assert.InDelta(t, 1.0, inv.Amount(bolts), 1e-9)
	assert.Zero(t, ws.CurrentTotalProcesses())
}
