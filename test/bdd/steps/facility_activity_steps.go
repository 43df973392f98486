package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/cucumber/godog"

	"github.com/mars-sim/mars-sim-sub055/internal/application/activity"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/housekeeping"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/metatask"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/power"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/processing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

const scoreTolerance = 1e-6

// facilityActivityContext holds state for facility tending scenarios
type facilityActivityContext struct {
	clock      *shared.MockClock
	env        *sim.Env
	settlement *settlement.Settlement
	building   *settlement.Building

	recycler  *processing.Function
	generator *power.FuelPowerSource
	hk        *housekeeping.HouseKeeping

	candidates   []*metatask.SettlementTask
	activity     task.Activity
	housekeeping *activity.TendHousekeeping
	leftover     float64
	colonists    int
}

func (fc *facilityActivityContext) reset() {
	*fc = facilityActivityContext{}
}

// newColonist places a fresh colonist in the scenario's building
func (fc *facilityActivityContext) newColonist() *worker.Person {
	fc.colonists++
	id := fmt.Sprintf("p%d", fc.colonists)
	p := worker.NewPerson(worker.PersonProfile{ID: id, Name: "Colonist " + id})
	if fc.building != nil {
		p.SetBuildingID(fc.building.ID())
	}
	fc.settlement.AddWorker(p)
	return p
}

func (fc *facilityActivityContext) addBuilding(b *settlement.Building) error {
	if err := fc.settlement.AddBuilding(b); err != nil {
		return fmt.Errorf("failed to add building %s: %w", b.ID(), err)
	}
	fc.building = b
	return nil
}

// ============================================================================
// Setup Steps
// ============================================================================

func (fc *facilityActivityContext) aSettlementAtLocalTime(millisols float64) error {
	fc.clock = shared.NewMockClock(shared.MarsTime(millisols))
	tuning := sim.DefaultTuning()
	tuning.AccidentChance = 0
	fc.env = sim.NewEnv(fc.clock, nil, shared.NewRand(7), tuning)
	fc.settlement = settlement.NewSettlement("s1", "Schiaparelli", shared.Coordinates{}, goods.NewInventory(), goods.NewValueTable(1))
	return nil
}

func (fc *facilityActivityContext) addRecycler(name string, on bool, amount, toggle float64) error {
	fc.recycler = processing.NewFunction(true, 1, []processing.ProcessSpec{{
		Name:           name,
		Inputs:         []goods.Quantity{{Resource: goods.FoodWaste, Amount: amount}},
		Outputs:        []goods.Quantity{{Resource: goods.Fertilizer, Amount: 1}},
		ToggleWorkTime: toggle,
		DefaultOn:      on,
	}})
	return fc.addBuilding(settlement.NewBuilding("b1", "Recycler", 2).SetProcessing(fc.recycler))
}

func (fc *facilityActivityContext) aRunningRecycler(name string, amount, toggle float64) error {
	return fc.addRecycler(name, true, amount, toggle)
}

func (fc *facilityActivityContext) aStoppedRecycler(name string, amount, toggle float64) error {
	return fc.addRecycler(name, false, amount, toggle)
}

func (fc *facilityActivityContext) theRecyclerHasRunOnWasteNowUsedUp(amount float64) error {
	inv := fc.settlement.Inventory()
	inv.Store(goods.FoodWaste, amount)
	fc.recycler.TimePassing(1, inv, fc.settlement.Economy())
	inv.RetrieveUpTo(goods.FoodWaste, inv.Amount(goods.FoodWaste))
	return nil
}

func (fc *facilityActivityContext) theSettlementStoresFoodWaste(amount float64) error {
	fc.settlement.Inventory().Store(goods.FoodWaste, amount)
	return nil
}

func (fc *facilityActivityContext) theWasteOverrideIsSet() error {
	fc.settlement.SetOverride(settlement.OverrideWasteProcess, true)
	return nil
}

// methaneGenerator burns 10 methane worth 5 each for 20 power worth 1 each
func (fc *facilityActivityContext) methaneGenerator(lifeSupport bool) error {
	values := goods.NewValueTable(1).SetResourceValue(goods.Methane, 5)
	fc.settlement = settlement.NewSettlement("s1", "Schiaparelli", shared.Coordinates{}, goods.NewInventory(), values)
	fc.settlement.Inventory().Store(goods.Methane, 100)
	gen := power.NewGeneration([]power.FuelSpec{{
		Name:            "methane generator",
		Fuel:            goods.Methane,
		ConsumptionRate: 10,
		MaxPower:        20,
		ToggleWorkTime:  15,
	}})
	fc.generator = gen.Sources()[0]
	fc.generator.SetOn(true)
	return fc.addBuilding(settlement.NewBuilding("b1", "Generator", 2).SetGeneration(gen).SetLifeSupport(lifeSupport))
}

func (fc *facilityActivityContext) aGeneratorWithoutLifeSupport() error {
	return fc.methaneGenerator(false)
}

func (fc *facilityActivityContext) aGeneratorWithLifeSupport() error {
	return fc.methaneGenerator(true)
}

func (fc *facilityActivityContext) aHabitatInspectedAt(target string, at float64) error {
	fc.hk = housekeeping.NewHouseKeeping([]string{target})
	fc.hk.Inspected(target, shared.MarsTime(at))
	return fc.addBuilding(settlement.NewBuilding("b1", "Lander Hab", 2).SetHouseKeeping(fc.hk))
}

// ============================================================================
// Action Steps
// ============================================================================

func (fc *facilityActivityContext) toggleResourceCandidatesAreListed() error {
	fc.candidates = activity.NewToggleResourceProcessMeta(fc.env).GetSettlementTasks(fc.settlement)
	return nil
}

func (fc *facilityActivityContext) fuelPowerCandidatesAreListed() error {
	fc.candidates = activity.NewToggleFuelPowerSourceMeta(fc.env).GetSettlementTasks(fc.settlement)
	return nil
}

func (fc *facilityActivityContext) aColonistPerformsTheFirstCandidate(millisols float64) error {
	if len(fc.candidates) == 0 {
		return fmt.Errorf("no candidates to perform")
	}
	first := fc.candidates[0]
	fc.activity = first.Meta().CreateTask(fc.newColonist(), first)
	if fc.activity == nil {
		return fmt.Errorf("candidate %s could not start", first.Name())
	}
	fc.leftover = fc.activity.Perform(context.Background(), millisols)
	return nil
}

func (fc *facilityActivityContext) aColonistStartsTendingHousekeeping() error {
	fc.housekeeping = activity.NewTendHousekeeping(fc.newColonist(), fc.settlement, fc.building, fc.env)
	if fc.housekeeping == nil {
		return fmt.Errorf("housekeeping could not start")
	}
	fc.activity = fc.housekeeping
	return nil
}

func (fc *facilityActivityContext) theColonistWorksHalfTheCapTwice() error {
	for i := 0; i < 2; i++ {
		if left := fc.activity.Perform(context.Background(), housekeeping.MaxCleaningTime/2); left != 0 {
			return fmt.Errorf("expected no leftover on pass %d, got %v", i+1, left)
		}
	}
	return nil
}

func (fc *facilityActivityContext) theColonistWorksMore(millisols float64) error {
	fc.leftover = fc.activity.Perform(context.Background(), millisols)
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (fc *facilityActivityContext) thereShouldBeCandidates(expected int) error {
	if len(fc.candidates) != expected {
		return fmt.Errorf("expected %d candidates, got %d", expected, len(fc.candidates))
	}
	return nil
}

func (fc *facilityActivityContext) thereShouldBeNoCandidates() error {
	return fc.thereShouldBeCandidates(0)
}

func (fc *facilityActivityContext) theFirstCandidateShouldScore(expected float64) error {
	if len(fc.candidates) == 0 {
		return fmt.Errorf("no candidates")
	}
	if got := fc.candidates[0].Score().Value(); math.Abs(got-expected) > scoreTolerance {
		return fmt.Errorf("expected score %v, got %v", expected, got)
	}
	return nil
}

func (fc *facilityActivityContext) theFirstCandidateShouldTargetTheGenerator() error {
	if len(fc.candidates) == 0 {
		return fmt.Errorf("no candidates")
	}
	if src, ok := fc.candidates[0].Payload().(*power.FuelPowerSource); !ok || src != fc.generator {
		return fmt.Errorf("expected the candidate to target %s, got %v", fc.generator.Name(), fc.candidates[0].Payload())
	}
	return nil
}

func (fc *facilityActivityContext) millisolsShouldBeLeftOver(expected float64) error {
	if math.Abs(fc.leftover-expected) > scoreTolerance {
		return fmt.Errorf("expected %v millisols left over, got %v", expected, fc.leftover)
	}
	return nil
}

func (fc *facilityActivityContext) theActivityShouldBeDone() error {
	if fc.activity == nil || !fc.activity.IsDone() {
		return fmt.Errorf("expected the activity to be done")
	}
	return nil
}

func (fc *facilityActivityContext) processShouldBeSwitchedOff(name string) error {
	p := fc.recycler.Process(name)
	if p == nil {
		return fmt.Errorf("unknown process %s", name)
	}
	if p.IsRunning() {
		return fmt.Errorf("expected %s to be off", name)
	}
	return nil
}

func (fc *facilityActivityContext) theGeneratorShouldBeOff() error {
	if fc.generator.IsOn() {
		return fmt.Errorf("expected %s to be off", fc.generator.Name())
	}
	return nil
}

func (fc *facilityActivityContext) theServiceModeShouldBe(expected string) error {
	if got := fc.housekeeping.Service().Mode(); got != housekeeping.Mode(expected) {
		return fmt.Errorf("expected mode %s, got %s", expected, got)
	}
	return nil
}

func (fc *facilityActivityContext) targetShouldNotBeCleaned(target string) error {
	if at, ok := fc.hk.LastCleaned(target); ok {
		return fmt.Errorf("expected %s not to be cleaned yet, cleaned at %v", target, at)
	}
	return nil
}

func (fc *facilityActivityContext) targetShouldBeCleanedAt(target string, expected float64) error {
	at, ok := fc.hk.LastCleaned(target)
	if !ok {
		return fmt.Errorf("expected %s to be cleaned", target)
	}
	if at != shared.MarsTime(expected) {
		return fmt.Errorf("expected %s cleaned at %v, got %v", target, expected, at)
	}
	return nil
}

func (fc *facilityActivityContext) workingMoreShouldLeaveOver(millisols, expected float64) error {
	if err := fc.theColonistWorksMore(millisols); err != nil {
		return err
	}
	return fc.millisolsShouldBeLeftOver(expected)
}

// ============================================================================
// Scenario Initialization
// ============================================================================

func InitializeFacilityActivityScenario(sc *godog.ScenarioContext) {
	fc := &facilityActivityContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		fc.reset()
		return ctx, nil
	})

	sc.Step(`^a settlement at local time (\d+(?:\.\d+)?) millisols$`, fc.aSettlementAtLocalTime)
	sc.Step(`^a recycler running "([^"]*)" on (\d+(?:\.\d+)?) food waste with a (\d+(?:\.\d+)?) millisol toggle$`, fc.aRunningRecycler)
	sc.Step(`^a recycler holding "([^"]*)" switched off on (\d+(?:\.\d+)?) food waste with a (\d+(?:\.\d+)?) millisol toggle$`, fc.aStoppedRecycler)
	sc.Step(`^the recycler has run on (\d+(?:\.\d+)?) food waste that is now used up$`, fc.theRecyclerHasRunOnWasteNowUsedUp)
	sc.Step(`^the settlement stores (\d+(?:\.\d+)?) food waste$`, fc.theSettlementStoresFoodWaste)
	sc.Step(`^the waste processing override is set$`, fc.theWasteOverrideIsSet)
	sc.Step(`^a methane generator burning at a loss in a building without life support$`, fc.aGeneratorWithoutLifeSupport)
	sc.Step(`^a methane generator burning at a loss in a life support building$`, fc.aGeneratorWithLifeSupport)
	sc.Step(`^a habitat whose "([^"]*)" was inspected at (\d+(?:\.\d+)?) millisols$`, fc.aHabitatInspectedAt)

	sc.Step(`^the toggle resource process candidates are listed$`, fc.toggleResourceCandidatesAreListed)
	sc.Step(`^the fuel power source candidates are listed$`, fc.fuelPowerCandidatesAreListed)
	sc.Step(`^a colonist performs the first candidate for (\d+(?:\.\d+)?) millisols$`, fc.aColonistPerformsTheFirstCandidate)
	sc.Step(`^a colonist starts tending housekeeping in the habitat$`, fc.aColonistStartsTendingHousekeeping)
	sc.Step(`^the colonist works half the cleaning cap twice$`, fc.theColonistWorksHalfTheCapTwice)
	sc.Step(`^the colonist works (\d+(?:\.\d+)?) millisols more$`, fc.theColonistWorksMore)

	sc.Step(`^there should be (\d+) candidates?$`, fc.thereShouldBeCandidates)
	sc.Step(`^there should be no candidates$`, fc.thereShouldBeNoCandidates)
	sc.Step(`^the first candidate should score (\d+(?:\.\d+)?)$`, fc.theFirstCandidateShouldScore)
	sc.Step(`^the first candidate should target the methane generator$`, fc.theFirstCandidateShouldTargetTheGenerator)
	sc.Step(`^(\d+(?:\.\d+)?) millisols should be left over$`, fc.millisolsShouldBeLeftOver)
	sc.Step(`^the activity should be done$`, fc.theActivityShouldBeDone)
	sc.Step(`^"([^"]*)" should be switched off$`, fc.processShouldBeSwitchedOff)
	sc.Step(`^the methane generator should be off$`, fc.theGeneratorShouldBeOff)
	sc.Step(`^the housekeeping service mode should be "([^"]*)"$`, fc.theServiceModeShouldBe)
	sc.Step(`^"([^"]*)" should not be recorded as cleaned$`, fc.targetShouldNotBeCleaned)
	sc.Step(`^"([^"]*)" should be recorded as cleaned at (\d+(?:\.\d+)?) millisols$`, fc.targetShouldBeCleanedAt)
	sc.Step(`^working (\d+(?:\.\d+)?) more millisols should leave (\d+(?:\.\d+)?) millisols over$`, fc.workingMoreShouldLeaveOver)
}
