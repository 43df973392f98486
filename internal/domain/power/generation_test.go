package power_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/power"
)

func methaneGenerator() power.FuelSpec {
	return power.FuelSpec{
		Name:            "methane generator",
		Fuel:            goods.Methane,
		ConsumptionRate: 10,
		MaxPower:        20,
		ToggleWorkTime:  15,
	}
}

func TestToggleScore_OffSourceWorthRunning(t *testing.T) {
	gen := power.NewGeneration([]power.FuelSpec{methaneGenerator()})
	inv := goods.NewInventory()
	inv.Store(goods.Methane, 50)
	values := goods.NewValueTable(3).SetResourceValue(goods.Methane, 2)

	src, score := gen.BestToggle(inv, values, true, false)

	require.NotNil(t, src)
	assert.InDelta(t, 40.0, score, 1e-9)
}

func TestToggleScore_EmptyFuelForcesShutdown(t *testing.T) {
	src := power.NewFuelPowerSource(methaneGenerator())
	src.SetOn(true)
	values := goods.NewValueTable(3).SetResourceValue(goods.Methane, 2)

	score := power.ToggleScore(src, goods.NewInventory(), values, true, false)

	assert.Equal(t, power.EmptyFuelBonus, score)
}

func TestToggleScore_DuskGuardKeepsSourceOn(t *testing.T) {
	// Arrange: burning fuel is a loss
	src := power.NewFuelPowerSource(methaneGenerator())
	src.SetOn(true)
	inv := goods.NewInventory()
	inv.Store(goods.Methane, 50)
	values := goods.NewValueTable(1).SetResourceValue(goods.Methane, 5)

	// Act
	atDusk := power.ToggleScore(src, inv, values, false, true)
	atDuskWithLifeSupport := power.ToggleScore(src, inv, values, true, true)
	atNoon := power.ToggleScore(src, inv, values, false, false)

	// Assert
	assert.Zero(t, atDusk)
	assert.InDelta(t, 30.0, atDuskWithLifeSupport, 1e-9)
	assert.InDelta(t, 30.0, atNoon, 1e-9)
}

func TestAddToggleWork_Flips(t *testing.T) {
	src := power.NewFuelPowerSource(methaneGenerator())

	_, toggled := src.AddToggleWork(10)
	assert.False(t, toggled)
	leftover, toggled := src.AddToggleWork(10)

	assert.True(t, toggled)
	assert.InDelta(t, 5.0, leftover, 1e-9)
	assert.True(t, src.IsOn())
}

func TestGeneration_TimePassingRunsDry(t *testing.T) {
	// Arrange
	gen := power.NewGeneration([]power.FuelSpec{methaneGenerator()})
	src := gen.Sources()[0]
	src.SetOn(true)
	inv := goods.NewInventory()
	inv.Store(goods.Methane, 2.5)
	values := goods.NewValueTable(1)

	// Act
	energy := gen.TimePassing(500, inv)
	dry := gen.TimePassing(100, inv)
	best, score := gen.BestToggle(inv, values, true, false)

	// Assert: half a sol wants 5 kg, only 2.5 kg available
	assert.InDelta(t, 5.0, energy, 1e-9)
	assert.Zero(t, dry)
	assert.True(t, src.IsOn(), "a dry source waits for a worker to shut it down")
	assert.Zero(t, inv.Amount(goods.Methane))
	assert.Same(t, src, best)
	assert.Equal(t, power.EmptyFuelBonus, score)
}
