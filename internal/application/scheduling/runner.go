package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mars-sim/mars-sim-sub055/internal/adapters/metrics"
	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
)

// RunnerConfig holds the pulse settings
type RunnerConfig struct {
	// Pulse is the millisols simulated per tick
	Pulse float64
	// MaxIterations bounds activity switches per worker and pulse
	MaxIterations int
	// Logger builds the logger a settlement's pulses run under. When nil
	// the logger already in the tick context is used.
	Logger func(settlementID string) common.ActivityLogger
}

type settlementState struct {
	mu       sync.Mutex
	s        *settlement.Settlement
	managers map[string]*TaskManager
	logger   common.ActivityLogger
}

// Runner advances the master clock and every settlement pulse by pulse.
// Facilities progress first, then each worker in a freshly shuffled order.
type Runner struct {
	clock    *shared.MasterClock
	env      *sim.Env
	broker   *TaskBroker
	schedule task.ScheduleRepository
	cfg      RunnerConfig

	mu          sync.RWMutex
	settlements []*settlementState
	ticks       int64
}

// NewRunner creates a runner; env must use clock as its time source
func NewRunner(clock *shared.MasterClock, env *sim.Env, broker *TaskBroker, schedule task.ScheduleRepository, cfg RunnerConfig) *Runner {
	if cfg.Pulse <= 0 {
		cfg.Pulse = 1
	}
	return &Runner{
		clock:    clock,
		env:      env,
		broker:   broker,
		schedule: schedule,
		cfg:      cfg,
	}
}

func (r *Runner) Broker() *TaskBroker { return r.broker }
func (r *Runner) Env() *sim.Env       { return r.env }

// Ticks returns the number of completed pulses
func (r *Runner) Ticks() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ticks
}

// AddSettlement puts a settlement under the runner's control
func (r *Runner) AddSettlement(s *settlement.Settlement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := &settlementState{s: s, managers: make(map[string]*TaskManager)}
	if r.cfg.Logger != nil {
		st.logger = r.cfg.Logger(s.ID())
	}
	r.settlements = append(r.settlements, st)
}

// Settlements returns the managed settlements
func (r *Runner) Settlements() []*settlement.Settlement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*settlement.Settlement, len(r.settlements))
	for i, st := range r.settlements {
		out[i] = st.s
	}
	return out
}

// Settlement finds a managed settlement by id
func (r *Runner) Settlement(id string) *settlement.Settlement {
	if st := r.state(id); st != nil {
		return st.s
	}
	return nil
}

// CurrentActivity returns the worker's running activity name, or "" when idle
func (r *Runner) CurrentActivity(settlementID, workerID string) string {
	st := r.state(settlementID)
	if st == nil {
		return ""
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if m, ok := st.managers[workerID]; ok && m.Current() != nil {
		return m.Current().Name()
	}
	return ""
}

// WithSettlement runs fn while holding the settlement's lock
func (r *Runner) WithSettlement(id string, fn func(s *settlement.Settlement)) bool {
	st := r.state(id)
	if st == nil {
		return false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(st.s)
	return true
}

func (r *Runner) state(id string) *settlementState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, st := range r.settlements {
		if st.s.ID() == id {
			return st
		}
	}
	return nil
}

// Tick advances every settlement by one pulse and then the clock
func (r *Runner) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.RLock()
	states := append([]*settlementState(nil), r.settlements...)
	r.mu.RUnlock()

	for _, st := range states {
		r.tickSettlement(ctx, st)
	}

	r.clock.Advance(r.cfg.Pulse)
	r.mu.Lock()
	r.ticks++
	r.mu.Unlock()
	return nil
}

// Run performs n pulses. A non-nil limiter paces the pulses in wall-clock time.
func (r *Runner) Run(ctx context.Context, n int, limiter *rate.Limiter) error {
	for i := 0; i < n; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("pulse %d: %w", i, err)
			}
		}
		if err := r.Tick(ctx); err != nil {
			return fmt.Errorf("pulse %d: %w", i, err)
		}
	}
	return nil
}

func (r *Runner) tickSettlement(ctx context.Context, st *settlementState) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.logger != nil {
		ctx = common.WithLogger(ctx, st.logger)
	}

	start := time.Now()
	s := st.s
	pulse := r.cfg.Pulse
	r.facilitiesTimePassing(ctx, s, pulse)

	workers := s.Workers()
	r.env.Rand.Shuffle(len(workers), func(i, j int) { workers[i], workers[j] = workers[j], workers[i] })
	for _, w := range workers {
		m, ok := st.managers[w.ID()]
		if !ok {
			m = NewTaskManager(w, s, r.broker, r.schedule, r.env, r.cfg.MaxIterations)
			st.managers[w.ID()] = m
		}
		m.ExecuteTask(ctx, pulse)
	}

	metrics.RecordTick(s.ID(), time.Since(start).Seconds())
}

func (r *Runner) facilitiesTimePassing(ctx context.Context, s *settlement.Settlement, pulse float64) {
	inv := s.Inventory()
	population := s.Population()
	logger := common.LoggerFromContext(ctx)

	for _, b := range s.Buildings() {
		if ws := b.Manufacture(); ws != nil {
			for _, p := range ws.TimePassing(pulse, inv) {
				metrics.RecordProcessEvent("manufacture", p.Name(), metrics.ProcessCompleted)
			}
		}
		if ws := b.FoodProduction(); ws != nil {
			for _, p := range ws.TimePassing(pulse, inv) {
				metrics.RecordProcessEvent("food-production", p.Name(), metrics.ProcessCompleted)
			}
		}
		if f := b.ResourceProcessing(); f != nil {
			f.TimePassing(pulse, inv, s.Economy())
		}
		if f := b.WasteProcessing(); f != nil {
			f.TimePassing(pulse, inv, s.Economy())
		}
		if g := b.Generation(); g != nil {
			g.TimePassing(pulse, inv)
		}
		if f := b.Farm(); f != nil {
			f.TimePassing(pulse)
		}
		if a := b.AlgaeFarm(); a != nil {
			a.TimePassing(pulse)
		}
		if k := b.Kitchen(); k != nil {
			k.TimePassing(pulse, population)
		}
		if c := b.Computation(); c != nil {
			c.TimePassing(pulse)
		}
	}
	logger.Log(common.LevelDebug, fmt.Sprintf("Facilities advanced %.1f msol", pulse),
		map[string]interface{}{"settlement": s.ID()})
}

// Snapshots samples settlement state for the metrics collector
func (r *Runner) Snapshots() []metrics.SettlementSnapshot {
	r.mu.RLock()
	states := append([]*settlementState(nil), r.settlements...)
	r.mu.RUnlock()

	out := make([]metrics.SettlementSnapshot, 0, len(states))
	for _, st := range states {
		st.mu.Lock()
		snap := metrics.SettlementSnapshot{
			ID:         st.s.ID(),
			Population: len(st.s.Workers()),
			Resources:  inventorySnapshot(st.s.Inventory()),
		}
		for _, m := range st.managers {
			if m.Current() != nil {
				snap.Busy++
			}
		}
		st.mu.Unlock()
		out = append(out, snap)
	}
	return out
}

func inventorySnapshot(inv *goods.Inventory) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range inv.Resources() {
		out[string(r)] = inv.Amount(r)
	}
	return out
}
