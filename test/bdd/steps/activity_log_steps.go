package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/mars-sim/mars-sim-sub055/internal/adapters/persistence"
	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/test/helpers"
)

// activityLogContext holds state for activity log persistence scenarios
type activityLogContext struct {
	clock *shared.MockClock
	repo  *persistence.GormActivityLogRepository
}

func (ac *activityLogContext) reset() error {
	ac.clock = shared.NewMockClock(0)
	ac.repo = nil
	return helpers.TruncateAllTables()
}

// ============================================================================
// Setup Steps
// ============================================================================

func (ac *activityLogContext) anActivityLogRepository() error {
	if helpers.SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	ac.repo = persistence.NewGormActivityLogRepository(helpers.SharedTestDB, ac.clock)
	return nil
}

func (ac *activityLogContext) aDedupWindow(millisols float64) error {
	if ac.repo == nil {
		return fmt.Errorf("repository not set up")
	}
	ac.repo.SetDedupWindow(millisols)
	return nil
}

// ============================================================================
// Action Steps
// ============================================================================

func (ac *activityLogContext) workerLogsWithLevel(workerID, settlementID, message string, at float64, level string) error {
	ac.clock.SetTime(shared.MarsTime(at))
	logger := persistence.NewWorkerLogger(ac.repo, settlementID, workerID)
	logger.Log(level, message, nil)
	return nil
}

func (ac *activityLogContext) workerLogs(workerID, settlementID, message string, at float64) error {
	return ac.workerLogsWithLevel(workerID, settlementID, message, at, common.LevelInfo)
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (ac *activityLogContext) countLogs(settlementID, workerID string, level *string) (int, error) {
	entries, err := ac.repo.GetLogs(context.Background(), settlementID, workerID, 1000, level, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to query logs: %w", err)
	}
	return len(entries), nil
}

func (ac *activityLogContext) settlementShouldHaveLogEntries(settlementID string, expected int) error {
	got, err := ac.countLogs(settlementID, "", nil)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %d log entries for %s, got %d", expected, settlementID, got)
	}
	return nil
}

func (ac *activityLogContext) workerShouldHaveLogEntries(workerID, settlementID string, expected int) error {
	got, err := ac.countLogs(settlementID, workerID, nil)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %d log entries for %s, got %d", expected, workerID, got)
	}
	return nil
}

func (ac *activityLogContext) settlementShouldHaveLevelEntries(settlementID string, expected int, level string) error {
	got, err := ac.countLogs(settlementID, "", &level)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %d %s entries for %s, got %d", expected, level, settlementID, got)
	}
	return nil
}

func (ac *activityLogContext) theNewestEntryShouldRead(settlementID, message string) error {
	entries, err := ac.repo.GetLogs(context.Background(), settlementID, "", 1, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to query logs: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no log entries for %s", settlementID)
	}
	if entries[0].Message != message {
		return fmt.Errorf("expected newest entry %q, got %q", message, entries[0].Message)
	}
	return nil
}

// ============================================================================
// Scenario Initialization
// ============================================================================

func InitializeActivityLogScenario(sc *godog.ScenarioContext) {
	ac := &activityLogContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, ac.reset()
	})

	sc.Step(`^an activity log repository on the shared database$`, ac.anActivityLogRepository)
	sc.Step(`^a dedup window of (\d+(?:\.\d+)?) millisols$`, ac.aDedupWindow)

	sc.Step(`^worker "([^"]*)" of "([^"]*)" logs "([^"]*)" at (\d+(?:\.\d+)?) millisols$`, ac.workerLogs)
	sc.Step(`^worker "([^"]*)" of "([^"]*)" logs "([^"]*)" at (\d+(?:\.\d+)?) millisols with level "([^"]*)"$`, ac.workerLogsWithLevel)

	sc.Step(`^settlement "([^"]*)" should have (\d+) log entries$`, ac.settlementShouldHaveLogEntries)
	sc.Step(`^worker "([^"]*)" of "([^"]*)" should have (\d+) log entries$`, ac.workerShouldHaveLogEntries)
	sc.Step(`^settlement "([^"]*)" should have (\d+) "([^"]*)" log entry$`, ac.settlementShouldHaveLevelEntries)
	sc.Step(`^the newest log entry of "([^"]*)" should read "([^"]*)"$`, ac.theNewestEntryShouldRead)
}
