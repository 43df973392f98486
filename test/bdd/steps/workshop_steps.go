package steps

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/cucumber/godog"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/manufacturing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// workshopContext holds state for workshop process selection scenarios
type workshopContext struct {
	clock    *shared.MockClock
	rng      *rand.Rand
	inv      *goods.Inventory
	values   *goods.ValueTable
	tech     int
	printers int
	catalog  []manufacturing.ProcessSpec
	workshop *manufacturing.Workshop
	started  map[string]int
	last     *manufacturing.Process
}

func (wc *workshopContext) reset() {
	wc.clock = shared.NewMockClock(0)
	wc.rng = shared.NewRand(7)
	wc.inv = goods.NewInventory()
	wc.values = goods.NewValueTable(1)
	wc.tech = 0
	wc.printers = 0
	wc.catalog = nil
	wc.workshop = nil
	wc.started = make(map[string]int)
	wc.last = nil
}

// ensureWorkshop builds the workshop lazily so catalog steps can follow the
// workshop step in any order
func (wc *workshopContext) ensureWorkshop() *manufacturing.Workshop {
	if wc.workshop == nil {
		wc.workshop = manufacturing.NewWorkshop(manufacturing.KindManufacture, wc.tech, wc.printers, wc.catalog, wc.clock)
	}
	return wc.workshop
}

// ============================================================================
// Setup Steps
// ============================================================================

func (wc *workshopContext) aManufacturingWorkshop(tech, printers int) error {
	wc.tech = tech
	wc.printers = printers
	return nil
}

func (wc *workshopContext) theCatalogOffers(name string, value float64, tech int) error {
	if wc.workshop != nil {
		return fmt.Errorf("catalog must be set up before the workshop is used")
	}
	output := goods.ResourceID(name)
	wc.catalog = append(wc.catalog, manufacturing.ProcessSpec{
		Name:                name,
		TechLevel:           tech,
		SkillLevel:          tech,
		WorkTimeRequired:    50,
		ProcessTimeRequired: 20,
		Outputs:             []goods.Quantity{{Resource: output, Amount: 1}},
	})
	wc.values.SetResourceValue(output, value)
	return nil
}

func (wc *workshopContext) aWorkerHasStartedANewProcess(skill int) error {
	p := wc.ensureWorkshop().CreateNewProcess(skill, wc.inv, wc.values, wc.rng)
	if p == nil {
		return fmt.Errorf("expected a process to start")
	}
	return nil
}

// ============================================================================
// Action Steps
// ============================================================================

func (wc *workshopContext) aWorkerStartsAndCancelsNewProcesses(skill, times int) error {
	ws := wc.ensureWorkshop()
	for i := 0; i < times; i++ {
		p := ws.CreateNewProcess(skill, wc.inv, wc.values, wc.rng)
		if p == nil {
			return fmt.Errorf("draw %d started nothing", i)
		}
		wc.started[p.Name()]++
		if err := ws.EndProcess(p, true, wc.inv); err != nil {
			return fmt.Errorf("failed to cancel %s: %w", p.Name(), err)
		}
	}
	return nil
}

func (wc *workshopContext) aWorkerTriesToStartAnotherProcess(skill int) error {
	wc.last = wc.ensureWorkshop().CreateNewProcess(skill, wc.inv, wc.values, wc.rng)
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (wc *workshopContext) startedMoreOftenThan(favoured, other string) error {
	if wc.started[favoured] <= wc.started[other] {
		return fmt.Errorf("expected %s (%d) to be started more often than %s (%d)",
			favoured, wc.started[favoured], other, wc.started[other])
	}
	return nil
}

func (wc *workshopContext) startedAtLeastOnce(name string) error {
	if wc.started[name] == 0 {
		return fmt.Errorf("expected %s to be started at least once", name)
	}
	return nil
}

func (wc *workshopContext) neverStarted(name string) error {
	if n := wc.started[name]; n != 0 {
		return fmt.Errorf("expected %s never to be started, got %d", name, n)
	}
	return nil
}

func (wc *workshopContext) noProcessShouldBeStarted() error {
	if wc.last != nil {
		return fmt.Errorf("expected no process, got %s", wc.last.Name())
	}
	return nil
}

func (wc *workshopContext) theWorkshopShouldHold(expected int) error {
	if got := wc.ensureWorkshop().CurrentTotalProcesses(); got != expected {
		return fmt.Errorf("expected %d processes, got %d", expected, got)
	}
	return nil
}

// ============================================================================
// Scenario Initialization
// ============================================================================

func InitializeWorkshopScenario(sc *godog.ScenarioContext) {
	wc := &workshopContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		wc.reset()
		return ctx, nil
	})

	sc.Step(`^a manufacturing workshop at tech level (\d+) with (\d+) printers?$`, wc.aManufacturingWorkshop)
	sc.Step(`^the workshop catalog offers "([^"]*)" worth (\d+(?:\.\d+)?) at tech level (\d+)$`, wc.theCatalogOffers)
	sc.Step(`^a worker with skill (\d+) has started a new process$`, wc.aWorkerHasStartedANewProcess)

	sc.Step(`^a worker with skill (\d+) starts and cancels a new process (\d+) times$`, wc.aWorkerStartsAndCancelsNewProcesses)
	sc.Step(`^a worker with skill (\d+) tries to start another new process$`, wc.aWorkerTriesToStartAnotherProcess)

	sc.Step(`^"([^"]*)" should have been started more often than "([^"]*)"$`, wc.startedMoreOftenThan)
	sc.Step(`^"([^"]*)" should have been started at least once$`, wc.startedAtLeastOnce)
	sc.Step(`^"([^"]*)" should never have been started$`, wc.neverStarted)
	sc.Step(`^no process should be started$`, wc.noProcessShouldBeStarted)
	sc.Step(`^the workshop should hold (\d+) process(?:es)?$`, wc.theWorkshopShouldHold)
}
