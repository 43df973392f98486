package task

import (
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

// robotAccidentFactor halves the accident chance of robots
const robotAccidentFactor = 0.5

// AccidentChance returns the probability of an accident over time millisols.
// Novices (skill up to 3) are penalised linearly, experts get 1/(skill-2).
func AccidentChance(w worker.Worker, b *settlement.Building, time, baseChance float64, skill int) float64 {
	if b == nil || time <= 0 || baseChance <= 0 {
		return 0
	}
	chance := baseChance
	if skill <= 3 {
		chance *= float64(4-skill) / 4
	} else {
		chance *= 1 / float64(skill-2)
	}
	chance *= b.Malfunctions().Susceptibility()
	if w != nil && w.Kind() == worker.KindRobot {
		chance *= robotAccidentFactor
	}
	return chance * time
}

// CheckForAccident rolls for a work accident in the building. On a hit the
// building gets an accident malfunction and true is returned.
func (t *Task) CheckForAccident(b *settlement.Building, time, baseChance float64, skill int) bool {
	if t.env == nil {
		return false
	}
	chance := AccidentChance(t.worker, b, time, baseChance, skill)
	if !shared.Chance(t.env.Rand, chance) {
		return false
	}
	b.Malfunctions().CreateAccident(fmt.Sprintf("%s accident (%s)", t.name, t.worker.Name()), t.env.Now())
	return true
}
