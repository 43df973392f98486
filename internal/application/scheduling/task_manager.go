package scheduling

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/adapters/metrics"
	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

// DefaultMaxIterations bounds the activities a worker may go through in one pulse
const DefaultMaxIterations = 8

// TaskManager runs one worker's current activity and asks the broker for
// the next one when it finishes.
type TaskManager struct {
	worker     worker.Worker
	settlement *settlement.Settlement
	broker     *TaskBroker
	schedule   task.ScheduleRepository
	env        *sim.Env

	current       task.Activity
	startedAt     shared.MarsTime
	maxIterations int
}

// NewTaskManager creates a manager; schedule may be nil
func NewTaskManager(w worker.Worker, s *settlement.Settlement, broker *TaskBroker, schedule task.ScheduleRepository, env *sim.Env, maxIterations int) *TaskManager {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &TaskManager{
		worker:        w,
		settlement:    s,
		broker:        broker,
		schedule:      schedule,
		env:           env,
		maxIterations: maxIterations,
	}
}

func (m *TaskManager) Worker() worker.Worker { return m.worker }

// Current returns the running activity, or nil when idle
func (m *TaskManager) Current() task.Activity {
	if m.current == nil || m.current.IsDone() {
		return nil
	}
	return m.current
}

// ExecuteTask spends up to time millisols on activities and returns the
// time nobody could use
func (m *TaskManager) ExecuteTask(ctx context.Context, time float64) float64 {
	remaining := time
	for i := 0; remaining > 0 && i < m.maxIterations; i++ {
		if m.current == nil || m.current.IsDone() {
			m.finishCurrent(ctx)
			next, ok := m.broker.SelectTask(ctx, m.settlement, m.worker)
			if !ok {
				break
			}
			m.current = next
			m.startedAt = m.env.Now()
		}

		before := remaining
		remaining = m.current.Perform(ctx, remaining)
		if m.current.IsDone() {
			m.finishCurrent(ctx)
			continue
		}
		if remaining >= before {
			break
		}
	}
	return remaining
}

// Abort ends the running activity
func (m *TaskManager) Abort(ctx context.Context) {
	if m.current != nil {
		m.current.EndTask()
		m.finishCurrent(ctx)
	}
}

func (m *TaskManager) finishCurrent(ctx context.Context) {
	if m.current == nil {
		return
	}
	done := m.current
	m.current = nil

	logger := common.LoggerFromContext(ctx)
	logger.Log(common.LevelInfo,
		fmt.Sprintf("%s finished %s", m.worker.Name(), done.Name()),
		map[string]interface{}{
			"worker":         m.worker.ID(),
			"activity":       done.ID(),
			"time_completed": done.TimeCompleted(),
		})
	metrics.RecordActivityFinished(m.settlement.ID(), done.Name(), done.TimeCompleted())

	if m.schedule == nil {
		return
	}
	entry := &task.ScheduleEntry{
		ActivityID:    done.ID(),
		SettlementID:  m.settlement.ID(),
		WorkerID:      m.worker.ID(),
		WorkerName:    m.worker.Name(),
		Activity:      done.Name(),
		Description:   done.Description(),
		LastPhase:     done.Phase(),
		StartedAt:     m.startedAt,
		EndedAt:       m.env.Now(),
		TimeCompleted: done.TimeCompleted(),
	}
	if err := m.schedule.Add(ctx, entry); err != nil {
		logger.Log(common.LevelError, fmt.Sprintf("failed to record task schedule: %v", err),
			map[string]interface{}{"worker": m.worker.ID()})
	}
}
