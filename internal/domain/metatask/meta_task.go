// Package metatask holds the candidate generators' shared model: the
// candidate itself and the person/robot suitability assessment every
// generator starts from.
package metatask

import (
	"github.com/mars-sim/mars-sim-sub055/internal/domain/rating"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

// Modifier names written to the score ledger
const (
	ModifierCrowding    = "crowding"
	ModifierSocial      = "social"
	ModifierJob         = "job"
	ModifierRole        = "role"
	ModifierFavorite    = "favorite"
	ModifierTrait       = "trait"
	ModifierPerformance = "performance"
)

const (
	jobModifier      = 1.5
	roleModifier     = 1.25
	favoriteModifier = 1.5
)

// MetaTask is embedded by every generator. It carries identity and the
// worker preferences used by AssessWorkerSuitability.
type MetaTask struct {
	id      string
	name    string
	env     *sim.Env
	persons bool
	robots  bool

	jobs       map[worker.Job]bool
	roles      map[worker.Role]bool
	favorite   worker.Favorite
	traits     map[worker.Trait]float64
	robotTypes map[worker.RobotType]bool
}

// NewMetaTask creates a person-only generator base
func NewMetaTask(id, name string, env *sim.Env) *MetaTask {
	return &MetaTask{
		id:         id,
		name:       name,
		env:        env,
		persons:    true,
		jobs:       make(map[worker.Job]bool),
		roles:      make(map[worker.Role]bool),
		traits:     make(map[worker.Trait]float64),
		robotTypes: make(map[worker.RobotType]bool),
	}
}

func (m *MetaTask) ID() string                { return m.id }
func (m *MetaTask) Name() string              { return m.name }
func (m *MetaTask) Env() *sim.Env             { return m.env }
func (m *MetaTask) ForPersons() bool          { return m.persons }
func (m *MetaTask) ForRobots() bool           { return m.robots }
func (m *MetaTask) Favorite() worker.Favorite { return m.favorite }

// SetPersons toggles whether persons may take these candidates
func (m *MetaTask) SetPersons(on bool) *MetaTask {
	m.persons = on
	return m
}

// AddRobotTypes allows the given robot types
func (m *MetaTask) AddRobotTypes(types ...worker.RobotType) *MetaTask {
	for _, t := range types {
		m.robotTypes[t] = true
	}
	m.robots = len(m.robotTypes) > 0
	return m
}

// AddPreferredJobs boosts workers with one of the jobs
func (m *MetaTask) AddPreferredJobs(jobs ...worker.Job) *MetaTask {
	for _, j := range jobs {
		m.jobs[j] = true
	}
	return m
}

// AddPreferredRoles boosts workers holding one of the roles
func (m *MetaTask) AddPreferredRoles(roles ...worker.Role) *MetaTask {
	for _, r := range roles {
		m.roles[r] = true
	}
	return m
}

// SetFavorite boosts workers whose favourite activity matches
func (m *MetaTask) SetFavorite(f worker.Favorite) *MetaTask {
	m.favorite = f
	return m
}

// AddTraitModifier scales the score of workers with the trait
func (m *MetaTask) AddTraitModifier(t worker.Trait, multiplier float64) *MetaTask {
	m.traits[t] = multiplier
	return m
}

// AssessWorkerSuitability applies the shared person or robot assessment to
// a copy of the candidate's score
func (m *MetaTask) AssessWorkerSuitability(t *SettlementTask, w worker.Worker) rating.Score {
	if t == nil || w == nil {
		return rating.Zero()
	}
	// Building-bound work starts with a walk indoors
	if t.Building() != nil && w.IsOutside() {
		return rating.Zero()
	}
	switch w.Kind() {
	case worker.KindPerson:
		if !m.persons {
			return rating.Zero()
		}
		return m.assessPerson(t, w)
	case worker.KindRobot:
		if !m.robots {
			return rating.Zero()
		}
		return m.assessRobot(t, w)
	default:
		return rating.Zero()
	}
}

func (m *MetaTask) assessPerson(t *SettlementTask, w worker.Worker) rating.Score {
	if !w.IsFit() {
		return rating.Zero()
	}
	if t.MinSkill() > 0 && w.Skill(t.SkillType()) < t.MinSkill() {
		return rating.Zero()
	}

	score := t.Score()
	if b := t.Building(); b != nil {
		crowding, ok := CrowdingModifier(b, w)
		if !ok {
			return rating.Zero()
		}
		score.AddModifier(ModifierCrowding, crowding)
		score.AddModifier(ModifierSocial, SocialModifier(b, w))
	}
	if m.jobs[w.Job()] {
		score.AddModifier(ModifierJob, jobModifier)
	}
	if m.roles[w.Role()] {
		score.AddModifier(ModifierRole, roleModifier)
	}
	if m.favorite != worker.FavoriteNone && w.FavoriteActivity() == m.favorite {
		score.AddModifier(ModifierFavorite, favoriteModifier)
	}
	for trait, mult := range m.traits {
		if w.HasTrait(trait) {
			score.AddModifier(ModifierTrait, mult)
		}
	}
	score.AddModifier(ModifierPerformance, w.PerformanceRating())
	return score
}

func (m *MetaTask) assessRobot(t *SettlementTask, w worker.Worker) rating.Score {
	if !m.robotTypes[w.RobotType()] {
		return rating.Zero()
	}
	if t.MinSkill() > 0 && w.Skill(t.SkillType()) < t.MinSkill() {
		return rating.Zero()
	}
	score := t.Score()
	score.AddModifier(ModifierPerformance, w.PerformanceRating())
	return score
}

// CrowdingModifier is 1 in an empty building and falls to 0.5 when every
// spot is taken. A full building the worker is not already in is not
// reachable.
func CrowdingModifier(b *settlement.Building, w worker.Worker) (float64, bool) {
	if b.Capacity() <= 0 {
		return 0, false
	}
	occupants := b.OccupantCount()
	if b.IsOccupant(w.ID()) {
		occupants--
	} else if !b.HasFreeSpot() {
		return 0, false
	}
	return 1 - 0.5*float64(occupants)/float64(b.Capacity()), true
}

// SocialModifier maps the worker's mean opinion of the other occupants from
// [0, 100] onto [0.5, 1.5]. An empty building is neutral.
func SocialModifier(b *settlement.Building, w worker.Worker) float64 {
	total, n := 0.0, 0
	for _, o := range b.Occupants() {
		if o.ID() == w.ID() {
			continue
		}
		total += w.Opinion(o.ID())
		n++
	}
	if n == 0 {
		return 1
	}
	return 0.5 + total/float64(n)/100
}
