package activity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub055/internal/application/activity"
	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/computing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/cooking"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/farming"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/housekeeping"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/manufacturing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/power"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/processing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/science"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

const bolts goods.ResourceID = "bolts"

// newEnv starts at local midnight on the prime meridian with accidents off
func newEnv(clock *shared.MockClock) *sim.Env {
	tuning := sim.DefaultTuning()
	tuning.AccidentChance = 0
	return sim.NewEnv(clock, nil, shared.NewRand(7), tuning)
}

func newBase(values *goods.ValueTable) *settlement.Settlement {
	if values == nil {
		values = goods.NewValueTable(1)
	}
	return settlement.NewSettlement("s1", "Schiaparelli", shared.Coordinates{}, goods.NewInventory(), values)
}

// newColonist registers a person already standing in the building
func newColonist(s *settlement.Settlement, b *settlement.Building, id string, skills map[worker.SkillType]int) *worker.Person {
	p := worker.NewPerson(worker.PersonProfile{ID: id, Name: "Colonist " + id, Skills: skills})
	p.SetBuildingID(b.ID())
	s.AddWorker(p)
	return p
}

func addBuilding(t *testing.T, s *settlement.Settlement, b *settlement.Building) *settlement.Building {
	t.Helper()
	require.NoError(t, s.AddBuilding(b))
	return b
}

func boltRecipe() manufacturing.ProcessSpec {
	return manufacturing.ProcessSpec{
		Name:                "bolts",
		TechLevel:           1,
		WorkTimeRequired:    50,
		ProcessTimeRequired: 20,
		Outputs:             []goods.Quantity{{Resource: bolts, Amount: 1}},
	}
}

func TestManufactureGood_StartsAndAdvancesProcess(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(goods.NewValueTable(1).SetResourceValue(bolts, 10))
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 1, 1, []manufacturing.ProcessSpec{boltRecipe()}, clock)
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Workshop", 2).SetWorkshop(ws))
	p := newColonist(s, b, "p1", map[worker.SkillType]int{ws.SkillType(): 3})

	a := activity.NewManufactureGood(p, s, b, env)
	require.NotNil(t, a)

	// Act
	leftover := a.Perform(context.Background(), 10)

	// Assert
	assert.Equal(t, 0.0, leftover)
	require.Equal(t, 1, ws.CurrentTotalProcesses())
	require.NotNil(t, a.Process())
	expected := 50 - shared.SkillWorkTime(10, 3, shared.DefaultSkillFactor)
	assert.InDelta(t, expected, a.Process().WorkTimeRemaining(), 1e-9)
	assert.False(t, a.IsDone())
}

func TestManufactureGood_OverrideBlocksNewProcesses(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(goods.NewValueTable(1).SetResourceValue(bolts, 10))
	s.SetOverride(settlement.OverrideManufacture, true)
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 1, 1, []manufacturing.ProcessSpec{boltRecipe()}, clock)
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Workshop", 2).SetWorkshop(ws))
	p := newColonist(s, b, "p1", map[worker.SkillType]int{ws.SkillType(): 3})

	a := activity.NewManufactureGood(p, s, b, env)
	require.NotNil(t, a)

	// Act
	leftover := a.Perform(context.Background(), 10)

	// Assert
	assert.Equal(t, 10.0, leftover)
	assert.True(t, a.IsDone())
	assert.Equal(t, 0, ws.CurrentTotalProcesses())
	assert.False(t, b.IsOccupant(p.ID()))
}

func TestManufactureGood_OverrideStillWorksRunningProcess(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(goods.NewValueTable(1).SetResourceValue(bolts, 10))
	s.SetOverride(settlement.OverrideManufacture, true)
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 1, 1, nil, clock)
	running := manufacturing.NewProcess(boltRecipe(), clock)
	require.NoError(t, ws.AddProcess(running, s.Inventory()))
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Workshop", 2).SetWorkshop(ws))
	p := newColonist(s, b, "p1", nil)

	a := activity.NewManufactureGood(p, s, b, env)
	require.NotNil(t, a)

	// Act
	a.Perform(context.Background(), 10)

	// Assert
	assert.Same(t, running, a.Process())
	assert.InDelta(t, 45.0, running.WorkTimeRemaining(), 1e-9)
}

func TestManufactureGood_MalfunctionEndsActivity(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(goods.NewValueTable(1).SetResourceValue(bolts, 10))
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 1, 1, []manufacturing.ProcessSpec{boltRecipe()}, clock)
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Workshop", 2).SetWorkshop(ws))
	p := newColonist(s, b, "p1", nil)
	a := activity.NewManufactureGood(p, s, b, env)
	require.NotNil(t, a)
	b.Malfunctions().AddMalfunction("power surge", clock.Now())

	// Act
	leftover := a.Perform(context.Background(), 25)

	// Assert
	assert.Equal(t, 25.0, leftover)
	assert.True(t, a.IsDone())
	assert.False(t, b.IsOccupant(p.ID()))
}

func TestManufactureGoodMeta_Candidates(t *testing.T) {
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(goods.NewValueTable(1).SetResourceValue(bolts, 10))
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 1, 1, []manufacturing.ProcessSpec{boltRecipe()}, clock)
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Workshop", 2).SetWorkshop(ws))
	newColonist(s, b, "p1", map[worker.SkillType]int{ws.SkillType(): 1})
	meta := activity.NewManufactureGoodMeta(env)

	t.Run("free printer yields one candidate", func(t *testing.T) {
		tasks := meta.GetSettlementTasks(s)

		require.Len(t, tasks, 1)
		assert.Same(t, b, tasks[0].Building())
		assert.Greater(t, tasks[0].Score().Value(), 0.0)
	})

	t.Run("override yields nothing", func(t *testing.T) {
		s.SetOverride(settlement.OverrideManufacture, true)
		defer s.SetOverride(settlement.OverrideManufacture, false)

		assert.Empty(t, meta.GetSettlementTasks(s))
	})
}

func TestManufactureGoodMeta_GatesOnWorkerSkill(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(goods.NewValueTable(1).SetResourceValue(bolts, 10))
	recipe := boltRecipe()
	recipe.SkillLevel = 3
	ws := manufacturing.NewWorkshop(manufacturing.KindManufacture, 1, 1, []manufacturing.ProcessSpec{recipe}, clock)
	addBuilding(t, s, settlement.NewBuilding("b1", "Workshop", 2).SetWorkshop(ws))
	quarters := addBuilding(t, s, settlement.NewBuilding("b2", "Quarters", 4))
	expert := newColonist(s, quarters, "expert", map[worker.SkillType]int{ws.SkillType(): 3})
	novice := newColonist(s, quarters, "novice", nil)
	meta := activity.NewManufactureGoodMeta(env)
	broker := scheduling.NewTaskBroker(env, meta)
	ctx := context.Background()

	// Act
	tasks := meta.GetSettlementTasks(s)
	require.Len(t, tasks, 1)
	noviceScore := meta.AssessWorkerSuitability(tasks[0], novice)
	_, noviceStarted := broker.SelectTask(ctx, s, novice)
	a, expertStarted := broker.SelectTask(ctx, s, expert)

	// Assert
	assert.False(t, noviceScore.Viable())
	assert.True(t, meta.AssessWorkerSuitability(tasks[0], expert).Viable())
	assert.False(t, noviceStarted)
	require.True(t, expertStarted)
	assert.Equal(t, "Manufacture Good", a.Name())
}

func compostingFunction() *processing.Function {
	return processing.NewFunction(true, 1, []processing.ProcessSpec{{
		Name:           "composting",
		Inputs:         []goods.Quantity{{Resource: goods.FoodWaste, Amount: 10}},
		Outputs:        []goods.Quantity{{Resource: goods.Fertilizer, Amount: 1}},
		ToggleWorkTime: 10,
		DefaultOn:      true,
	}})
}

func TestToggleResourceProcess_StarvedWasteProcessIsSwitchedOff(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(nil)
	fn := compostingFunction()
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Recycler", 2).SetProcessing(fn))
	p := newColonist(s, b, "p1", nil)

	s.Inventory().Store(goods.FoodWaste, 20)
	fn.TimePassing(1, s.Inventory(), s.Economy())
	s.Inventory().RetrieveUpTo(goods.FoodWaste, s.Inventory().Amount(goods.FoodWaste))
	meta := activity.NewToggleResourceProcessMeta(env)

	// Act
	tasks := meta.GetSettlementTasks(s)

	// Assert
	require.Len(t, tasks, 1)
	expected := max(processing.ExhaustedScoreFactor*processing.WasteScoreScale, processing.InputsExhaustedScore)
	assert.InDelta(t, expected, tasks[0].Score().Value(), 1e-6)

	a := meta.CreateTask(p, tasks[0])
	require.NotNil(t, a)
	leftover := a.Perform(context.Background(), 30)

	assert.InDelta(t, 10.0, leftover, 1e-9)
	assert.True(t, a.IsDone())
	assert.False(t, fn.Process("composting").IsRunning())
}

func TestToggleResourceProcess_OverrideBlocksTurningOn(t *testing.T) {
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(nil)
	fn := processing.NewFunction(true, 1, []processing.ProcessSpec{{
		Name:           "composting",
		Inputs:         []goods.Quantity{{Resource: goods.FoodWaste, Amount: 10}},
		Outputs:        []goods.Quantity{{Resource: goods.Fertilizer, Amount: 1}},
		ToggleWorkTime: 10,
	}})
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Recycler", 2).SetProcessing(fn))
	p := newColonist(s, b, "p1", nil)
	s.Inventory().Store(goods.FoodWaste, 20)
	s.SetOverride(settlement.OverrideWasteProcess, true)

	a := activity.NewToggleResourceProcess(p, s, b, fn, fn.Process("composting"), env)
	tasks := activity.NewToggleResourceProcessMeta(env).GetSettlementTasks(s)

	assert.Nil(t, a)
	assert.Empty(t, tasks)
}

func methaneSettlement(t *testing.T, lifeSupport bool) (*settlement.Settlement, *power.FuelPowerSource) {
	t.Helper()
	// burning methane is a loss: 1*20 power against 5*10 fuel
	s := newBase(goods.NewValueTable(1).SetResourceValue(goods.Methane, 5))
	s.Inventory().Store(goods.Methane, 100)
	gen := power.NewGeneration([]power.FuelSpec{{
		Name:            "methane generator",
		Fuel:            goods.Methane,
		ConsumptionRate: 10,
		MaxPower:        20,
		ToggleWorkTime:  15,
	}})
	src := gen.Sources()[0]
	src.SetOn(true)
	addBuilding(t, s, settlement.NewBuilding("b1", "Generator", 2).SetGeneration(gen).SetLifeSupport(lifeSupport))
	return s, src
}

func TestToggleFuelPowerSourceMeta_DuskGuard(t *testing.T) {
	// 700 local millisols on the prime meridian is dusk
	clock := shared.NewMockClock(700)
	env := newEnv(clock)
	meta := activity.NewToggleFuelPowerSourceMeta(env)

	t.Run("no life support keeps the generator on", func(t *testing.T) {
		s, _ := methaneSettlement(t, false)

		assert.Empty(t, meta.GetSettlementTasks(s))
	})

	t.Run("life support building may switch off", func(t *testing.T) {
		s, src := methaneSettlement(t, true)

		tasks := meta.GetSettlementTasks(s)

		require.Len(t, tasks, 1)
		assert.Same(t, src, tasks[0].Payload())
	})
}

func TestToggleFuelPowerSource_SwitchesOff(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(100)
	env := newEnv(clock)
	s, src := methaneSettlement(t, false)
	b := s.Building("b1")
	p := newColonist(s, b, "p1", nil)
	tasks := activity.NewToggleFuelPowerSourceMeta(env).GetSettlementTasks(s)
	require.Len(t, tasks, 1)

	// Act
	a := tasks[0].Meta().CreateTask(p, tasks[0])
	require.NotNil(t, a)
	leftover := a.Perform(context.Background(), 40)

	// Assert
	assert.InDelta(t, 10.0, leftover, 1e-9)
	assert.True(t, a.IsDone())
	assert.False(t, src.IsOn())
}

func lettuce() farming.CropSpec {
	return farming.CropSpec{
		Name:          "lettuce",
		Produce:       goods.ResourceID("lettuce"),
		GrowingSols:   10,
		EdibleBiomass: 2,
		TendingWork:   1000,
	}
}

func TestTendGreenhouse_TendingStopsAtCap(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(nil)
	farm := farming.NewFarm(2, []farming.CropSpec{lettuce()}, nil)
	crop, ok := farm.Plant(lettuce())
	require.True(t, ok)
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Greenhouse", 2).SetFarm(farm))
	p := newColonist(s, b, "p1", nil)

	var a *activity.TendGreenhouse
	for i := 0; i < 100 && a == nil; i++ {
		candidate := activity.NewTendGreenhouse(p, s, b, env)
		if candidate == nil {
			continue
		}
		if candidate.Action() != farming.ActionTend {
			candidate.EndTask()
			continue
		}
		a = candidate
	}
	require.NotNil(t, a)

	// Act
	leftover := a.Perform(context.Background(), 500)

	// Assert
	assert.InDelta(t, 500-farming.MaxTendingTime, leftover, 1e-9)
	assert.True(t, a.IsDone())
	assert.InDelta(t, 500-farming.MaxTendingTime/2, crop.WorkRequired(), 1e-9)
}

func TestTendAlgaePond_HarvestEndsWhenPondExhausted(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(nil)
	pond := farming.NewAlgaeFarm(10, 8, 100, nil)
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Algae Pond", 2).SetAlgaeFarm(pond))
	p := newColonist(s, b, "p1", nil)

	var a *activity.TendAlgaePond
	for i := 0; i < 100 && a == nil; i++ {
		a = activity.NewTendAlgaePond(p, s, b, env)
	}
	require.NotNil(t, a)
	require.Equal(t, farming.ActionHarvest, a.Action())

	// Act
	leftover := a.Perform(context.Background(), 100)

	// Assert
	assert.InDelta(t, 20.0, leftover, 1e-6)
	assert.True(t, a.IsDone())
	assert.InDelta(t, 2.0, a.Harvested(), 1e-9)
	assert.InDelta(t, 2.0, s.Inventory().Amount(goods.Spirulina), 1e-9)
	assert.Equal(t, 0.0, pond.HarvestableMass())
}

func TestTendHousekeeping_CleaningCapEndsOnce(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(10)
	env := newEnv(clock)
	s := newBase(nil)
	hk := housekeeping.NewHouseKeeping([]string{"airlock"})
	hk.Inspected("airlock", 0)
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Lander Hab", 2).SetHouseKeeping(hk))
	p := newColonist(s, b, "p1", nil)

	a := activity.NewTendHousekeeping(p, s, b, env)
	require.NotNil(t, a)
	require.Equal(t, housekeeping.ModeClean, a.Service().Mode())

	// Act
	first := a.Perform(context.Background(), housekeeping.MaxCleaningTime/2)
	second := a.Perform(context.Background(), housekeeping.MaxCleaningTime/2)
	_, cleanedEarly := hk.LastCleaned("airlock")
	third := a.Perform(context.Background(), 0.5)

	// Assert
	assert.Equal(t, 0.0, first)
	assert.Equal(t, 0.0, second)
	assert.False(t, cleanedEarly)
	assert.Equal(t, 0.0, third)
	assert.True(t, a.IsDone())
	at, ok := hk.LastCleaned("airlock")
	require.True(t, ok)
	assert.Equal(t, shared.MarsTime(10), at)
	assert.Equal(t, 5.0, a.Perform(context.Background(), 5))
}

func TestTendHousekeepingMeta_SkipsFarmBuildings(t *testing.T) {
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(nil)
	farmHK := housekeeping.NewHouseKeeping([]string{"trays"})
	addBuilding(t, s, settlement.NewBuilding("b1", "Greenhouse", 2).
		SetFarm(farming.NewFarm(1, nil, farmHK)).
		SetHouseKeeping(farmHK))
	addBuilding(t, s, settlement.NewBuilding("b2", "Lab", 2).
		SetHouseKeeping(housekeeping.NewHouseKeeping([]string{"bench", "fume hood"})))

	tasks := activity.NewTendHousekeepingMeta(env).GetSettlementTasks(s)

	require.Len(t, tasks, 1)
	assert.Equal(t, "b2", tasks[0].Building().ID())
	assert.Equal(t, 2, tasks[0].Demand())
}

func observatoryBase(t *testing.T) (*settlement.Settlement, *settlement.Building, *science.Observatory) {
	t.Helper()
	s := newBase(nil)
	obs := science.NewObservatory(1, 1)
	obs.AddStudy(science.NewStudy("Phobos transit", 100))
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Observatory", 3).SetObservatory(obs))
	return s, b, obs
}

func TestObserveAstronomicalObjects_HoldsObserverSlot(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s, b, obs := observatoryBase(t)
	p1 := newColonist(s, b, "p1", nil)
	p2 := newColonist(s, b, "p2", nil)

	// Act
	first := activity.NewObserveAstronomicalObjects(p1, s, b, env)
	second := activity.NewObserveAstronomicalObjects(p2, s, b, env)

	// Assert
	require.NotNil(t, first)
	assert.Nil(t, second)
	assert.False(t, obs.HasRoom())

	first.Perform(context.Background(), 10)
	assert.InDelta(t, 100-5*1.1, first.Study().ResearchRemaining(), 1e-9)

	first.EndTask()
	assert.True(t, obs.HasRoom())
	assert.False(t, b.IsOccupant(p1.ID()))
}

func TestObserveAstronomicalObjectsMeta_NothingInDaylight(t *testing.T) {
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s, b, _ := observatoryBase(t)
	p := newColonist(s, b, "p1", nil)
	meta := activity.NewObserveAstronomicalObjectsMeta(env)
	require.Len(t, meta.GetSettlementTasks(s), 1)

	clock.SetTime(500)

	assert.Empty(t, meta.GetSettlementTasks(s))
	assert.Nil(t, activity.NewObserveAstronomicalObjects(p, s, b, env))
}

func TestPrepareDessert_MakesServingsUntilEveryoneHasOne(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(nil)
	s.Inventory().Store(goods.Sugar, 1)
	kitchen := cooking.NewKitchen([]cooking.DessertSpec{{Name: "sugar cookie", Ingredient: goods.Sugar, DryMass: 0.1, PrepWork: 10}})
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Galley", 2).SetKitchen(kitchen))
	p := newColonist(s, b, "p1", nil)
	newColonist(s, b, "p2", nil)

	a := activity.NewPrepareDessert(p, s, b, env)
	require.NotNil(t, a)

	// Act
	leftover := a.Perform(context.Background(), 20)

	// Assert
	assert.Equal(t, 0.0, leftover)
	assert.Equal(t, []string{"sugar cookie"}, a.Prepared())
	assert.Equal(t, 1, kitchen.Servings())
	assert.InDelta(t, 0.9, s.Inventory().Amount(goods.Sugar), 1e-9)
	assert.False(t, a.IsDone())

	a.Perform(context.Background(), 20)
	assert.Equal(t, 2, kitchen.Servings())
	assert.True(t, a.IsDone())
}

func TestOptimizeSystem_StopsWhenEntropyGone(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(nil)
	node := computing.NewComputation(1, 0)
	node.SetEntropy(5)
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Server Farm", 2).SetComputation(node))
	p := newColonist(s, b, "p1", nil)

	a := activity.NewOptimizeSystem(p, s, b, env)
	require.NotNil(t, a)

	// Act
	leftover := a.Perform(context.Background(), 100)

	// Assert
	assert.InDelta(t, 90.0, leftover, 1e-9)
	assert.True(t, a.IsDone())
	assert.InDelta(t, 5.0, a.EntropyRemoved(), 1e-9)
	assert.Equal(t, 0.0, node.Entropy())
}

func TestOptimizeSystem_NotCreatedBelowThreshold(t *testing.T) {
	clock := shared.NewMockClock(0)
	env := newEnv(clock)
	s := newBase(nil)
	node := computing.NewComputation(1, 0)
	node.SetEntropy(computing.OptimizeThreshold)
	b := addBuilding(t, s, settlement.NewBuilding("b1", "Server Farm", 2).SetComputation(node))
	p := newColonist(s, b, "p1", nil)

	assert.Nil(t, activity.NewOptimizeSystem(p, s, b, env))
	assert.Empty(t, activity.NewOptimizeSystemMeta(env).GetSettlementTasks(s))
}

func TestDefaultMetas_OnePerActivity(t *testing.T) {
	metas := activity.DefaultMetas(newEnv(shared.NewMockClock(0)))

	ids := map[string]bool{}
	for _, m := range metas {
		ids[m.ID()] = true
	}
	assert.Len(t, metas, 10)
	assert.Len(t, ids, 10)
}
