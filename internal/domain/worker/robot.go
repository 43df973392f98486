package worker

import "github.com/mars-sim/mars-sim-sub055/pkg/utils"

// Robot is a worker with a fixed type and no social or emotional state.
// Robots do not learn; experience, fatigue and stress are ignored.
type Robot struct {
	id         string
	name       string
	robotType  RobotType
	skills     map[SkillType]int
	buildingID string
	outside    bool
	fit        bool
	perf       float64
}

// NewRobot creates an operational robot
func NewRobot(id, name string, robotType RobotType, skills map[SkillType]int) *Robot {
	r := &Robot{
		id:        id,
		name:      name,
		robotType: robotType,
		skills:    make(map[SkillType]int),
		fit:       true,
		perf:      1.0,
	}
	for s, lvl := range skills {
		r.skills[s] = lvl
	}
	return r
}

func (r *Robot) ID() string   { return r.id }
func (r *Robot) Name() string { return r.name }
func (r *Robot) Kind() Kind   { return KindRobot }

func (r *Robot) Skill(skill SkillType) int { return r.skills[skill] }

func (r *Robot) PerformanceRating() float64 { return r.perf }

// SetPerformance models battery level and wear
func (r *Robot) SetPerformance(perf float64) {
	r.perf = utils.ClampUnit(perf)
}

func (r *Robot) IsFit() bool { return r.fit }

// SetFit marks the robot operational or broken
func (r *Robot) SetFit(fit bool) { r.fit = fit }

func (r *Robot) IsOutside() bool { return r.outside }

// SetOutside places the robot outside (true) or inside (false)
func (r *Robot) SetOutside(outside bool) {
	r.outside = outside
	if outside {
		r.buildingID = ""
	}
}

func (r *Robot) BuildingID() string { return r.buildingID }

func (r *Robot) SetBuildingID(id string) {
	r.buildingID = id
	if id != "" {
		r.outside = false
	}
}

func (r *Robot) Job() Job                   { return "" }
func (r *Robot) Role() Role                 { return RoleNone }
func (r *Robot) HasTrait(Trait) bool        { return false }
func (r *Robot) FavoriteActivity() Favorite { return FavoriteNone }
func (r *Robot) RobotType() RobotType       { return r.robotType }
func (r *Robot) Opinion(string) float64     { return NeutralOpinion }

func (r *Robot) AddExperience(SkillType, float64) {}
func (r *Robot) AddFatigue(float64)               {}
func (r *Robot) AddStress(float64)                {}
