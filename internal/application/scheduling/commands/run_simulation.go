package commands

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/application/mediator"
	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// RunSimulationCommand advances the simulation by a number of pulses
type RunSimulationCommand struct {
	Ticks int
	// TicksPerSecond paces the run in wall-clock time; 0 runs flat out
	TicksPerSecond float64
}

// RunSimulationResponse reports where the simulation stopped
type RunSimulationResponse struct {
	TicksRun   int
	TotalTicks int64
	MarsTime   shared.MarsTime
}

// RunSimulationHandler handles the RunSimulation command
type RunSimulationHandler struct {
	runner *scheduling.Runner
}

// NewRunSimulationHandler creates a new RunSimulationHandler
func NewRunSimulationHandler(runner *scheduling.Runner) *RunSimulationHandler {
	return &RunSimulationHandler{runner: runner}
}

// Handle executes the RunSimulation command
func (h *RunSimulationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RunSimulationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RunSimulationCommand")
	}
	if cmd.Ticks < 0 {
		return nil, shared.NewValidationError("ticks", "must not be negative")
	}

	var limiter *rate.Limiter
	if cmd.TicksPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cmd.TicksPerSecond), 1)
	}

	before := h.runner.Ticks()
	logger := common.LoggerFromContext(ctx)
	logger.Log(common.LevelInfo, fmt.Sprintf("Running %d pulses", cmd.Ticks), map[string]interface{}{
		"ticks_per_second": cmd.TicksPerSecond,
	})

	err := h.runner.Run(ctx, cmd.Ticks, limiter)
	resp := &RunSimulationResponse{
		TicksRun:   int(h.runner.Ticks() - before),
		TotalTicks: h.runner.Ticks(),
		MarsTime:   h.runner.Env().Now(),
	}
	if err != nil {
		return resp, fmt.Errorf("simulation stopped: %w", err)
	}
	return resp, nil
}
