package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling"
	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling/commands"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
)

func newRunner() *scheduling.Runner {
	clock := shared.NewMasterClock(0)
	env := sim.NewEnv(clock, nil, shared.NewRand(7), sim.DefaultTuning())
	return scheduling.NewRunner(clock, env, scheduling.NewTaskBroker(env), nil, scheduling.RunnerConfig{Pulse: 2})
}

func TestRunSimulationHandler_AdvancesClock(t *testing.T) {
	// Arrange
	handler := commands.NewRunSimulationHandler(newRunner())

	// Act
	resp, err := handler.Handle(context.Background(), &commands.RunSimulationCommand{Ticks: 5})

	// Assert
	require.NoError(t, err)
	result := resp.(*commands.RunSimulationResponse)
	assert.Equal(t, 5, result.TicksRun)
	assert.Equal(t, int64(5), result.TotalTicks)
	assert.Equal(t, shared.MarsTime(10), result.MarsTime)
}

func TestRunSimulationHandler_RejectsNegativeTicks(t *testing.T) {
	handler := commands.NewRunSimulationHandler(newRunner())

	_, err := handler.Handle(context.Background(), &commands.RunSimulationCommand{Ticks: -1})

	var validation *shared.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestRunSimulationHandler_ReportsPartialRunOnCancel(t *testing.T) {
	handler := commands.NewRunSimulationHandler(newRunner())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := handler.Handle(ctx, &commands.RunSimulationCommand{Ticks: 3})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, resp.(*commands.RunSimulationResponse).TicksRun)
}
