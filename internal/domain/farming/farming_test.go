package farming_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/farming"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/housekeeping"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

const potatoes goods.ResourceID = "potatoes"

func potato() farming.CropSpec {
	return farming.CropSpec{
		Name:          "potato",
		Produce:       potatoes,
		GrowingSols:   1,
		EdibleBiomass: 12,
		TendingWork:   20,
	}
}

func TestCrop_LifecycleFromPlantingToFinished(t *testing.T) {
	// Arrange
	c := farming.NewCrop(potato())
	require.Equal(t, farming.CropPlanting, c.Phase())

	// Act + Assert
	leftover := c.AddWork(15)
	assert.InDelta(t, 5.0, leftover, 1e-9)
	assert.Equal(t, farming.CropGrowing, c.Phase())

	for i := 0; i < 20 && c.Phase() == farming.CropGrowing; i++ {
		c.TimePassing(100)
	}
	assert.Equal(t, farming.CropHarvesting, c.Phase())

	c.AddWork(100)
	assert.Equal(t, farming.CropFinished, c.Phase())
	assert.False(t, c.NeedsTending())
}

func TestFarm_MostWorkStarvedCrop(t *testing.T) {
	farm := farming.NewFarm(3, []farming.CropSpec{potato()}, nil)
	a, _ := farm.Plant(potato())
	b, _ := farm.Plant(potato())
	a.AddWork(4)

	assert.Equal(t, b.ID(), farm.MostWorkStarvedCrop().ID())
	assert.Len(t, farm.CropsNeedingTending(), 2)
}

func TestFarm_TransferSeedlingNeedsFreeBed(t *testing.T) {
	farm := farming.NewFarm(1, nil, nil)
	farm.AddSeedling(potato())
	farm.AddSeedling(potato())

	_, ok := farm.TransferSeedling()
	require.True(t, ok)
	_, ok = farm.TransferSeedling()

	assert.False(t, ok)
	assert.True(t, farm.HasSeedling())
}

func TestFarm_GrowTissueProducesSeedling(t *testing.T) {
	farm := farming.NewFarm(2, []farming.CropSpec{potato()}, nil)

	_, ready := farm.GrowTissue(30)
	require.False(t, ready)
	name, ready := farm.GrowTissue(25)

	assert.True(t, ready)
	assert.Equal(t, "potato", name)
	assert.True(t, farm.HasSeedling())
	assert.Zero(t, farm.TissueProgress("potato"))
}

func TestFarm_HarvestReadyStoresYieldAndFreesBed(t *testing.T) {
	// Arrange
	farm := farming.NewFarm(1, nil, housekeeping.NewHouseKeeping([]string{"beds"}))
	c, _ := farm.Plant(potato())
	c.AddWork(10)
	c.TimePassing(1000)
	require.Equal(t, farming.CropHarvesting, c.Phase())
	require.True(t, farm.HasHarvest())
	c.AddWork(1000)
	inv := goods.NewInventory()

	// Act
	kg := farm.HarvestReady(inv)

	// Assert
	assert.Greater(t, kg, 0.0)
	assert.InDelta(t, kg, inv.Amount(potatoes), 1e-9)
	assert.True(t, farm.HasFreeBed())
	assert.Empty(t, farm.Crops())
}

func TestAlgaeFarm_HarvestStopsAtStockCulture(t *testing.T) {
	// Arrange
	pond := farming.NewAlgaeFarm(10, 9, 50, nil)
	inv := goods.NewInventory()

	// Act
	first := pond.Harvest(10, inv)
	second := pond.Harvest(100, inv)
	third := pond.Harvest(100, inv)

	// Assert
	assert.InDelta(t, 0.5, first, 1e-9)
	assert.InDelta(t, 0.5, second, 1e-9)
	assert.Zero(t, third)
	assert.InDelta(t, 1.0, inv.Amount(goods.Spirulina), 1e-9)
}

func TestAlgaeFarm_TimePassingAccruesCare(t *testing.T) {
	pond := farming.NewAlgaeFarm(10, 5, 50, nil)

	pond.TimePassing(500)

	assert.True(t, pond.NeedsTending())
	assert.Greater(t, pond.Mass(), 10.0)
	leftover := pond.Tend(100)
	assert.InDelta(t, 80.0, leftover, 1e-9)
	assert.False(t, pond.NeedsTending())
}

func TestChooseAction_NeedyCropsDominate(t *testing.T) {
	rng := shared.NewRand(3)
	counts := map[farming.Action]int{}

	for i := 0; i < 3000; i++ {
		counts[farming.ChooseAction(rng, 10, false, false)]++
	}

	assert.Greater(t, counts[farming.ActionTend], counts[farming.ActionInspect])
	assert.Zero(t, counts[farming.ActionTransfer])
	assert.Zero(t, counts[farming.ActionHarvest])
}

func TestChooseAction_NoNeedyCropsNeverTends(t *testing.T) {
	rng := shared.NewRand(5)

	for i := 0; i < 500; i++ {
		assert.NotEqual(t, farming.ActionTend, farming.ChooseAction(rng, 0, true, true))
	}
}
