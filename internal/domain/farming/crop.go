// Package farming grows greenhouse crops and algae and tells tending
// activities where work is most needed.
package farming

import (
	"math"

	"github.com/google/uuid"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// CropPhase is the growth stage of a crop
type CropPhase string

const (
	CropPlanting   CropPhase = "PLANTING"
	CropGrowing    CropPhase = "GROWING"
	CropHarvesting CropPhase = "HARVESTING"
	CropFinished   CropPhase = "FINISHED"
)

// tendingThreshold is the outstanding work (millisols) above which a crop
// asks for attention
const tendingThreshold = 1.0

// CropSpec is an immutable crop type. TendingWork is millisols of care per sol.
type CropSpec struct {
	Name          string           `mapstructure:"name" validate:"required"`
	Produce       goods.ResourceID `mapstructure:"produce" validate:"required"`
	GrowingSols   float64          `mapstructure:"growing_sols" validate:"gt=0"`
	EdibleBiomass float64          `mapstructure:"edible_biomass" validate:"gt=0"`
	TendingWork   float64          `mapstructure:"tending_work" validate:"gt=0"`
}

// Crop is one planted bed
type Crop struct {
	id           string
	spec         CropSpec
	phase        CropPhase
	growth       float64
	health       float64
	currentWork  float64
	workRequired float64
}

// NewCrop plants a seedling; the bed still needs planting work
func NewCrop(spec CropSpec) *Crop {
	return &Crop{
		id:           uuid.New().String(),
		spec:         spec,
		phase:        CropPlanting,
		health:       1,
		workRequired: spec.TendingWork / 2,
	}
}

func (c *Crop) ID() string            { return c.id }
func (c *Crop) Name() string          { return c.spec.Name }
func (c *Crop) Spec() CropSpec        { return c.spec }
func (c *Crop) Phase() CropPhase      { return c.phase }
func (c *Crop) Growth() float64       { return c.growth }
func (c *Crop) Health() float64       { return c.health }
func (c *Crop) CurrentWork() float64  { return c.currentWork }
func (c *Crop) WorkRequired() float64 { return c.workRequired }

// NeedsTending reports whether outstanding work exceeds the threshold
func (c *Crop) NeedsTending() bool {
	return c.phase != CropFinished && c.workRequired > tendingThreshold
}

// AddWork applies effective tending work and returns what was not needed.
// Completing planting or harvesting work moves the crop on.
func (c *Crop) AddWork(t float64) float64 {
	if t <= 0 || c.phase == CropFinished {
		return t
	}
	used := math.Min(t, c.workRequired)
	c.workRequired -= used
	c.currentWork += used
	if c.workRequired <= 0 {
		c.workRequired = 0
		switch c.phase {
		case CropPlanting:
			c.phase = CropGrowing
		case CropHarvesting:
			c.phase = CropFinished
		}
	}
	return t - used
}

// Yield is the edible mass a finished crop delivers
func (c *Crop) Yield() float64 {
	return c.spec.EdibleBiomass * c.health
}

// TimePassing grows the crop and accrues its care demand. Neglect (more than
// a sol of outstanding care) costs health.
func (c *Crop) TimePassing(pulse float64) {
	if pulse <= 0 || c.phase == CropFinished {
		return
	}
	fraction := pulse / shared.MillisolsPerSol
	if c.phase == CropGrowing {
		c.workRequired += c.spec.TendingWork * fraction
		c.growth += fraction / c.spec.GrowingSols * c.health
		if c.growth >= 1 {
			c.growth = 1
			c.phase = CropHarvesting
			c.workRequired += c.spec.TendingWork / 2
		}
	}
	if c.workRequired > c.spec.TendingWork {
		c.health = math.Max(0.1, c.health-0.05*fraction)
	} else {
		c.health = math.Min(1, c.health+0.02*fraction)
	}
}
