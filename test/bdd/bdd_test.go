package bdd

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/mars-sim/mars-sim-sub055/test/bdd/steps"
	"github.com/mars-sim/mars-sim-sub055/test/helpers"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain", "features/application", "features/adapters"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// Domain layer
	steps.InitializeWorkshopScenario(sc)

	// Application layer
	steps.InitializeFacilityActivityScenario(sc)
	steps.InitializeTaskBrokerScenario(sc)

	// Adapter layer
	steps.InitializeActivityLogScenario(sc)
}

func TestMain(m *testing.M) {
	// One in-memory database shared by every scenario, truncated between them
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}
	defer helpers.CloseSharedTestDB()

	os.Exit(m.Run())
}
