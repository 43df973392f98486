package scheduling

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mars-sim/mars-sim-sub055/internal/adapters/metrics"
	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/metatask"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/rating"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

// RankedTask is a candidate scored for one worker
type RankedTask struct {
	Task  *metatask.SettlementTask
	Score rating.Score
}

type candidateCache struct {
	tick  int64
	tasks []*metatask.SettlementTask
}

// TaskBroker collects candidates from every registered generator and hands
// them out to workers by weighted random choice.
//
// Candidates are gathered at most once per integer millisol per settlement.
// Every hand-out decrements the candidate's demand, and a candidate leaves
// the cache once nobody else is wanted.
type TaskBroker struct {
	env   *sim.Env
	metas []metatask.SettlementMetaTask

	mu    sync.Mutex
	cache map[string]*candidateCache
}

// NewTaskBroker creates a broker for the given generators
func NewTaskBroker(env *sim.Env, metas ...metatask.SettlementMetaTask) *TaskBroker {
	return &TaskBroker{
		env:   env,
		metas: metas,
		cache: make(map[string]*candidateCache),
	}
}

// Register adds a generator; cached candidates are dropped
func (b *TaskBroker) Register(meta metatask.SettlementMetaTask) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.metas = append(b.metas, meta)
	b.cache = make(map[string]*candidateCache)
}

// Metas returns the registered generators
func (b *TaskBroker) Metas() []metatask.SettlementMetaTask {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]metatask.SettlementMetaTask(nil), b.metas...)
}

// Invalidate drops the cached candidates of a settlement
func (b *TaskBroker) Invalidate(s *settlement.Settlement) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.cache, s.ID())
}

// SettlementTasks returns snapshots of the settlement's de-duplicated
// candidates that still want workers
func (b *TaskBroker) SettlementTasks(ctx context.Context, s *settlement.Settlement) []*metatask.SettlementTask {
	b.mu.Lock()
	defer b.mu.Unlock()
	cached := b.candidatesLocked(ctx, s)
	out := make([]*metatask.SettlementTask, len(cached))
	for i, t := range cached {
		out[i] = t.Snapshot()
	}
	return out
}

func (b *TaskBroker) candidatesLocked(ctx context.Context, s *settlement.Settlement) []*metatask.SettlementTask {
	tick := b.env.Now().Tick()
	if c, ok := b.cache[s.ID()]; ok && c.tick == tick {
		return c.tasks
	}

	var all []*metatask.SettlementTask
	for _, meta := range b.metas {
		all = append(all, meta.GetSettlementTasks(s)...)
	}
	tasks := metatask.DedupTasks(all)
	b.cache[s.ID()] = &candidateCache{tick: tick, tasks: tasks}

	common.LoggerFromContext(ctx).Log(common.LevelDebug,
		fmt.Sprintf("Refreshed %d candidates for %s", len(tasks), s.Name()),
		map[string]interface{}{"settlement": s.ID(), "tick": tick})
	metrics.RecordCandidates(s.ID(), len(tasks))
	return tasks
}

// RankTasks scores every candidate for the worker and drops the non-viable
// ones. The ranked candidates are snapshots.
func (b *TaskBroker) RankTasks(ctx context.Context, s *settlement.Settlement, w worker.Worker) []RankedTask {
	b.mu.Lock()
	defer b.mu.Unlock()
	ranked := rankCandidates(b.candidatesLocked(ctx, s), w)
	for i := range ranked {
		ranked[i].Task = ranked[i].Task.Snapshot()
	}
	return ranked
}

func rankCandidates(candidates []*metatask.SettlementTask, w worker.Worker) []RankedTask {
	ranked := make([]RankedTask, 0, len(candidates))
	for _, t := range candidates {
		if t.Demand() <= 0 {
			continue
		}
		score := t.Meta().AssessWorkerSuitability(t, w)
		if score.Value() <= 0 {
			continue
		}
		ranked = append(ranked, RankedTask{Task: t, Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[j].Score.Less(ranked[i].Score)
	})
	return ranked
}

// SelectTask draws a candidate for the worker with probability proportional
// to its score and creates the activity. A candidate that cannot start for
// this worker is skipped and the draw is repeated; it leaves the cache only
// when its building is gone or broken.
func (b *TaskBroker) SelectTask(ctx context.Context, s *settlement.Settlement, w worker.Worker) (task.Activity, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	logger := common.LoggerFromContext(ctx)
	ranked := rankCandidates(b.candidatesLocked(ctx, s), w)

	for len(ranked) > 0 {
		items := make([]shared.Weighted[int], len(ranked))
		for i, r := range ranked {
			items[i] = shared.Weighted[int]{Item: i, Weight: r.Score.Value()}
		}
		idx, ok := shared.PickWeighted(b.env.Rand, items)
		if !ok {
			break
		}

		chosen := ranked[idx]
		activity := chosen.Task.Meta().CreateTask(w, chosen.Task)
		if activity == nil {
			if chosen.Task.Stale() {
				b.removeLocked(s, chosen.Task)
			}
			ranked = append(ranked[:idx], ranked[idx+1:]...)
			continue
		}

		if chosen.Task.ClaimDemand() <= 0 {
			b.removeLocked(s, chosen.Task)
		}
		logger.Log(common.LevelInfo,
			fmt.Sprintf("%s starts %s", w.Name(), activity.Name()),
			map[string]interface{}{
				"worker":   w.ID(),
				"activity": activity.ID(),
				"meta":     chosen.Task.Meta().ID(),
				"score":    chosen.Score.String(),
			})
		metrics.RecordSelection(s.ID(), chosen.Task.Meta().ID(), chosen.Score.Value())
		return activity, true
	}

	metrics.RecordIdle(s.ID())
	return nil, false
}

func (b *TaskBroker) removeLocked(s *settlement.Settlement, t *metatask.SettlementTask) {
	c, ok := b.cache[s.ID()]
	if !ok {
		return
	}
	out := c.tasks[:0:0]
	for _, other := range c.tasks {
		if other != t {
			out = append(out, other)
		}
	}
	c.tasks = out
}
