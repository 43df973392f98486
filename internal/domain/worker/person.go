package worker

import (
	"math"

	"github.com/mars-sim/mars-sim-sub055/pkg/utils"
)

// experienceBase is the experience needed to reach skill level 1; every
// further level doubles it.
const experienceBase = 25.0

// PersonProfile is the static part of a colonist
type PersonProfile struct {
	ID       string
	Name     string
	Job      Job
	Role     Role
	Favorite Favorite
	Traits   []Trait
	Skills   map[SkillType]int
}

// Person is a colonist. Fatigue and stress reduce the performance rating.
type Person struct {
	profile    PersonProfile
	skills     map[SkillType]int
	experience map[SkillType]float64
	opinions   map[string]float64
	traits     map[Trait]bool
	buildingID string
	outside    bool
	fit        bool
	basePerf   float64
	fatigue    float64
	stress     float64
}

// NewPerson creates a fit colonist with full base performance
func NewPerson(profile PersonProfile) *Person {
	p := &Person{
		profile:    profile,
		skills:     make(map[SkillType]int),
		experience: make(map[SkillType]float64),
		opinions:   make(map[string]float64),
		traits:     make(map[Trait]bool),
		fit:        true,
		basePerf:   1.0,
	}
	for s, lvl := range profile.Skills {
		p.skills[s] = lvl
	}
	for _, t := range profile.Traits {
		p.traits[t] = true
	}
	return p
}

func (p *Person) ID() string   { return p.profile.ID }
func (p *Person) Name() string { return p.profile.Name }
func (p *Person) Kind() Kind   { return KindPerson }

func (p *Person) Skill(skill SkillType) int {
	return p.skills[skill]
}

// SetSkill overrides a skill level
func (p *Person) SetSkill(skill SkillType, level int) {
	p.skills[skill] = level
}

// Experience returns the experience points carried toward the next level
func (p *Person) Experience(skill SkillType) float64 {
	return p.experience[skill]
}

// PerformanceRating degrades once fatigue passes 500 msol or stress passes 50
func (p *Person) PerformanceRating() float64 {
	perf := p.basePerf
	if p.fatigue > 500 {
		perf -= (p.fatigue - 500) / 1000
	}
	if p.stress > 50 {
		perf -= (p.stress - 50) / 100
	}
	return utils.ClampUnit(perf)
}

// SetPerformance sets the base performance before fatigue and stress
func (p *Person) SetPerformance(perf float64) {
	p.basePerf = utils.ClampUnit(perf)
}

func (p *Person) IsFit() bool { return p.fit }

// SetFit marks the colonist fit or unfit for work
func (p *Person) SetFit(fit bool) { p.fit = fit }

func (p *Person) IsOutside() bool { return p.outside }

// SetOutside places the colonist outside (true) or inside (false)
func (p *Person) SetOutside(outside bool) {
	p.outside = outside
	if outside {
		p.buildingID = ""
	}
}

func (p *Person) BuildingID() string { return p.buildingID }

func (p *Person) SetBuildingID(id string) {
	p.buildingID = id
	if id != "" {
		p.outside = false
	}
}

func (p *Person) Job() Job                   { return p.profile.Job }
func (p *Person) Role() Role                 { return p.profile.Role }
func (p *Person) HasTrait(t Trait) bool      { return p.traits[t] }
func (p *Person) FavoriteActivity() Favorite { return p.profile.Favorite }
func (p *Person) RobotType() RobotType       { return RobotNone }

func (p *Person) Opinion(otherID string) float64 {
	if o, ok := p.opinions[otherID]; ok {
		return o
	}
	return NeutralOpinion
}

// SetOpinion records the colonist's regard for another worker
func (p *Person) SetOpinion(otherID string, opinion float64) {
	p.opinions[otherID] = utils.Clamp(opinion, 0, 100)
}

// AddExperience accumulates experience and levels the skill up as
// thresholds are crossed.
func (p *Person) AddExperience(skill SkillType, points float64) {
	if points <= 0 {
		return
	}
	p.experience[skill] += points
	for {
		need := experienceBase * math.Pow(2, float64(p.skills[skill]))
		if p.experience[skill] < need {
			return
		}
		p.experience[skill] -= need
		p.skills[skill]++
	}
}

func (p *Person) AddFatigue(millisols float64) {
	p.fatigue = math.Max(0, p.fatigue+millisols)
}

func (p *Person) AddStress(amount float64) {
	p.stress = utils.Clamp(p.stress+amount, 0, 100)
}

// Fatigue returns accumulated fatigue in millisols
func (p *Person) Fatigue() float64 { return p.fatigue }

// Stress returns the stress level in [0, 100]
func (p *Person) Stress() float64 { return p.stress }
