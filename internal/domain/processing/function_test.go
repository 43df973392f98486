package processing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/processing"
)

func electrolysis(defaultOn bool) processing.ProcessSpec {
	return processing.ProcessSpec{
		Name:           "water electrolysis",
		Inputs:         []goods.Quantity{{Resource: goods.Water, Amount: 10}},
		Outputs:        []goods.Quantity{{Resource: goods.Oxygen, Amount: 8}, {Resource: goods.Hydrogen, Amount: 1}},
		ToggleWorkTime: 20,
		DefaultOn:      defaultOn,
	}
}

func composting(defaultOn bool) processing.ProcessSpec {
	return processing.ProcessSpec{
		Name:           "composting",
		Inputs:         []goods.Quantity{{Resource: goods.FoodWaste, Amount: 4}},
		AmbientInputs:  []goods.ResourceID{goods.CarbonDioxide},
		Outputs:        []goods.Quantity{{Resource: goods.Fertilizer, Amount: 3}},
		ToggleWorkTime: 10,
		DefaultOn:      defaultOn,
	}
}

func values() *goods.ValueTable {
	return goods.NewValueTable(1).
		SetResourceValue(goods.Water, 1).
		SetResourceValue(goods.Oxygen, 5).
		SetResourceValue(goods.Hydrogen, 2)
}

func TestToggleScore_OffResourceProcessUsesDampenedValue(t *testing.T) {
	// Arrange
	fn := processing.NewFunction(false, 2, []processing.ProcessSpec{electrolysis(false)})
	inv := goods.NewInventory()
	inv.Store(goods.Water, 100)
	p := fn.Process("water electrolysis")

	// Act
	score := fn.ToggleScore(p, inv, values(), 0, 50)

	// Assert: (40 + 2 - 10) / (2 * 2)
	assert.InDelta(t, 8.0, score, 1e-9)
}

func TestToggleScore_OffWithoutInputsIsZero(t *testing.T) {
	fn := processing.NewFunction(false, 1, []processing.ProcessSpec{electrolysis(false)})

	score := fn.ToggleScore(fn.Process("water electrolysis"), goods.NewInventory(), values(), 0, 50)

	assert.Zero(t, score)
}

func TestToggleScore_RunningNegativeValueProposesShutdown(t *testing.T) {
	fn := processing.NewFunction(false, 1, []processing.ProcessSpec{electrolysis(true)})
	inv := goods.NewInventory()
	inv.Store(goods.Water, 100)
	cheapOxygen := goods.NewValueTable(1).SetResourceValue(goods.Water, 10).SetResourceValue(goods.Oxygen, 1)

	score := fn.ToggleScore(fn.Process("water electrolysis"), inv, cheapOxygen, 0, 50)

	// -(8 - 100) / 2
	assert.InDelta(t, 46.0, score, 1e-9)
}

func TestToggleScore_ExhaustedWasteProcessUsesLastScore(t *testing.T) {
	// Arrange
	fn := processing.NewFunction(true, 1, []processing.ProcessSpec{composting(true)})
	inv := goods.NewInventory()
	inv.Store(goods.FoodWaste, 50)
	fn.TimePassing(1, inv, values())
	p := fn.Process("composting")
	require.InDelta(t, 100.0, p.OverallScore(), 1e-9)

	// Act
	inv.RetrieveUpTo(goods.FoodWaste, 1000)
	fn.TimePassing(1, inv, values())
	score := fn.ToggleScore(p, inv, values(), 0, 50)

	// Assert
	assert.False(t, p.IsInputsPresent(inv))
	assert.Zero(t, p.InputAvailability(inv))
	assert.InDelta(t, 90.0, score, 1e-9)
}

func TestToggleScore_ExhaustedFloorApplies(t *testing.T) {
	fn := processing.NewFunction(true, 1, []processing.ProcessSpec{composting(true)})

	score := fn.ToggleScore(fn.Process("composting"), goods.NewInventory(), values(), 0, 50)

	assert.Equal(t, processing.InputsExhaustedScore, score)
}

func TestToggleScore_OffWasteUsesAvailability(t *testing.T) {
	fn := processing.NewFunction(true, 1, []processing.ProcessSpec{composting(false)})
	inv := goods.NewInventory()
	inv.Store(goods.FoodWaste, 1)

	score := fn.ToggleScore(fn.Process("composting"), inv, values(), 0, 50)

	assert.InDelta(t, 25.0, score, 1e-9)
}

func TestAddToggleWork_FlipsAndHonoursCooldown(t *testing.T) {
	// Arrange
	fn := processing.NewFunction(false, 1, []processing.ProcessSpec{electrolysis(false)})
	inv := goods.NewInventory()
	inv.Store(goods.Water, 100)
	p := fn.Process("water electrolysis")

	// Act
	leftover, toggled := p.AddToggleWork(12, 100)
	require.False(t, toggled)
	assert.Zero(t, leftover)
	leftover, toggled = p.AddToggleWork(12, 105)

	// Assert
	require.True(t, toggled)
	assert.InDelta(t, 4.0, leftover, 1e-9)
	assert.True(t, p.IsRunning())
	assert.Zero(t, fn.ToggleScore(p, inv, values(), 120, 50))
}

func TestBestToggle_OnePerFunction(t *testing.T) {
	cheap := electrolysis(false)
	cheap.Name = "slow electrolysis"
	cheap.Outputs = []goods.Quantity{{Resource: goods.Oxygen, Amount: 3}}
	fn := processing.NewFunction(false, 1, []processing.ProcessSpec{cheap, electrolysis(false)})
	inv := goods.NewInventory()
	inv.Store(goods.Water, 100)

	best, score := fn.BestToggle(inv, values(), 0, 50)

	require.NotNil(t, best)
	assert.Equal(t, "water electrolysis", best.Name())
	assert.InDelta(t, 16.0, score, 1e-9)
}

func TestTimePassing_RunsOnlySwitchedOnProcesses(t *testing.T) {
	fn := processing.NewFunction(false, 1, []processing.ProcessSpec{electrolysis(true), composting(false)})
	inv := goods.NewInventory()
	inv.Store(goods.Water, 10)
	inv.Store(goods.FoodWaste, 10)

	fn.TimePassing(500, inv, values())

	assert.InDelta(t, 5.0, inv.Amount(goods.Water), 1e-9)
	assert.InDelta(t, 4.0, inv.Amount(goods.Oxygen), 1e-9)
	assert.InDelta(t, 10.0, inv.Amount(goods.FoodWaste), 1e-9)
}
