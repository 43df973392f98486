package metatask

import (
	"github.com/mars-sim/mars-sim-sub055/internal/domain/rating"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

// Focus is the thing a candidate works on (a building, a process, a crop)
type Focus interface {
	FocusID() string
}

// FocusKey is a Focus identified by a plain string
type FocusKey string

func (k FocusKey) FocusID() string { return string(k) }

// SettlementMetaTask generates candidate activities for a settlement and
// turns a chosen candidate into a running activity.
type SettlementMetaTask interface {
	ID() string
	Name() string

	// GetSettlementTasks lists the candidates; it must not change the settlement
	GetSettlementTasks(s *settlement.Settlement) []*SettlementTask

	// AssessWorkerSuitability scores a candidate for one worker. A zero score
	// rules the worker out.
	AssessWorkerSuitability(t *SettlementTask, w worker.Worker) rating.Score

	// CreateTask starts the activity. It returns nil when the focus is no
	// longer available.
	CreateTask(w worker.Worker, t *SettlementTask) task.Activity
}

// SettlementTask is one candidate activity offered to a settlement's workers
type SettlementTask struct {
	meta       SettlementMetaTask
	name       string
	focus      Focus
	settlement *settlement.Settlement
	building   *settlement.Building
	score      rating.Score
	skillType  worker.SkillType
	minSkill   int
	demand     int
	payload    any
}

// NewSettlementTask creates a candidate wanting one worker
func NewSettlementTask(meta SettlementMetaTask, name string, focus Focus, b *settlement.Building, score rating.Score) *SettlementTask {
	return &SettlementTask{
		meta:     meta,
		name:     name,
		focus:    focus,
		building: b,
		score:    score,
		demand:   1,
	}
}

func (t *SettlementTask) Meta() SettlementMetaTask           { return t.meta }
func (t *SettlementTask) Name() string                       { return t.name }
func (t *SettlementTask) Focus() Focus                       { return t.focus }
func (t *SettlementTask) Building() *settlement.Building     { return t.building }
func (t *SettlementTask) Settlement() *settlement.Settlement { return t.settlement }
func (t *SettlementTask) SkillType() worker.SkillType        { return t.skillType }
func (t *SettlementTask) MinSkill() int                      { return t.minSkill }
func (t *SettlementTask) Demand() int                        { return t.demand }
func (t *SettlementTask) Payload() any                       { return t.payload }

// Score returns a copy of the base score
func (t *SettlementTask) Score() rating.Score {
	return t.score.Clone()
}

// SetMinSkill gates the candidate on a skill level
func (t *SettlementTask) SetMinSkill(skill worker.SkillType, level int) *SettlementTask {
	t.skillType = skill
	t.minSkill = level
	return t
}

// SetSettlement records the settlement the candidate was generated for
func (t *SettlementTask) SetSettlement(s *settlement.Settlement) *SettlementTask {
	t.settlement = s
	return t
}

// SetDemand sets how many workers the candidate wants (at least one)
func (t *SettlementTask) SetDemand(n int) *SettlementTask {
	t.demand = max(1, n)
	return t
}

// SetPayload attaches generator specific data
func (t *SettlementTask) SetPayload(p any) *SettlementTask {
	t.payload = p
	return t
}

// Snapshot returns a detached copy. Claims on the copy do not reach the
// original and later claims on the original do not show in the copy.
func (t *SettlementTask) Snapshot() *SettlementTask {
	c := *t
	c.score = t.score.Clone()
	return &c
}

// Stale reports whether the candidate's building has left the settlement or
// broken down since the candidate was generated
func (t *SettlementTask) Stale() bool {
	if t.building == nil || t.settlement == nil {
		return false
	}
	return t.settlement.Building(t.building.ID()) != t.building || t.building.HasMalfunction()
}

// ClaimDemand takes one worker slot and returns how many remain
func (t *SettlementTask) ClaimDemand() int {
	if t.demand > 0 {
		t.demand--
	}
	return t.demand
}

// Key identifies the candidate for de-duplication
func (t *SettlementTask) Key() string {
	focus := ""
	if t.focus != nil {
		focus = t.focus.FocusID()
	}
	metaID := ""
	if t.meta != nil {
		metaID = t.meta.ID()
	}
	return metaID + "|" + focus
}

// DedupTasks keeps the best scored candidate per key, in first-seen order
func DedupTasks(tasks []*SettlementTask) []*SettlementTask {
	index := make(map[string]int, len(tasks))
	out := make([]*SettlementTask, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		k := t.Key()
		if i, ok := index[k]; ok {
			if out[i].score.Value() < t.score.Value() {
				out[i] = t
			}
			continue
		}
		index[k] = len(out)
		out = append(out, t)
	}
	return out
}
