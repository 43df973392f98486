package worker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

func TestPerson_ExperienceLevelsUp(t *testing.T) {
	p := worker.NewPerson(worker.PersonProfile{ID: "p1", Name: "Ada"})

	p.AddExperience(worker.SkillBotany, 30)
	assert.Equal(t, 1, p.Skill(worker.SkillBotany))
	assert.InDelta(t, 5.0, p.Experience(worker.SkillBotany), 1e-9)

	p.AddExperience(worker.SkillBotany, 45)
	assert.Equal(t, 2, p.Skill(worker.SkillBotany))
}

func TestPerson_FatigueAndStressLowerPerformance(t *testing.T) {
	p := worker.NewPerson(worker.PersonProfile{ID: "p1"})
	assert.Equal(t, 1.0, p.PerformanceRating())

	p.AddFatigue(700)
	assert.InDelta(t, 0.8, p.PerformanceRating(), 1e-9)

	p.AddStress(70)
	assert.InDelta(t, 0.6, p.PerformanceRating(), 1e-9)
}

func TestPerson_LocationFlags(t *testing.T) {
	p := worker.NewPerson(worker.PersonProfile{ID: "p1"})
	p.SetBuildingID("b1")
	assert.False(t, p.IsOutside())

	p.SetOutside(true)
	assert.Empty(t, p.BuildingID())
}

func TestPerson_OpinionDefaultsToNeutral(t *testing.T) {
	p := worker.NewPerson(worker.PersonProfile{ID: "p1"})
	p.SetOpinion("p2", 150)

	assert.Equal(t, worker.NeutralOpinion, p.Opinion("p3"))
	assert.Equal(t, 100.0, p.Opinion("p2"))
}

func TestRobot_IgnoresSocialState(t *testing.T) {
	r := worker.NewRobot("r1", "Chefbot 1", worker.RobotChefbot, map[worker.SkillType]int{worker.SkillCooking: 2})

	r.AddExperience(worker.SkillCooking, 1000)
	r.AddFatigue(1000)

	assert.Equal(t, 2, r.Skill(worker.SkillCooking))
	assert.Equal(t, 1.0, r.PerformanceRating())
	assert.Equal(t, worker.KindRobot, r.Kind())
	assert.Equal(t, worker.RobotChefbot, r.RobotType())
}
