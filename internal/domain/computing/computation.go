// Package computing models the settlement computing centre whose entropy
// builds up over time and is worked off by system optimization.
package computing

import (
	"math"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// OptimizeThreshold is the entropy above which optimization is worthwhile
const OptimizeThreshold = 1.0

// Computation is the computing function of a building
type Computation struct {
	entropy     float64
	peakCU      float64
	entropyRate float64
}

// NewComputation creates a computing node. entropyRate is added per sol.
func NewComputation(peakCU, entropyRate float64) *Computation {
	return &Computation{peakCU: peakCU, entropyRate: entropyRate}
}

func (c *Computation) Entropy() float64 { return c.entropy }
func (c *Computation) PeakCU() float64  { return c.peakCU }

// SetEntropy overrides the entropy level
func (c *Computation) SetEntropy(e float64) {
	c.entropy = math.Max(0, e)
}

// NeedsOptimizing reports whether entropy is above the threshold
func (c *Computation) NeedsOptimizing() bool {
	return c.entropy > OptimizeThreshold
}

// ReduceEntropy applies optimization work and returns the entropy removed.
// Larger nodes take more work per unit of entropy.
func (c *Computation) ReduceEntropy(work float64) float64 {
	if work <= 0 {
		return 0
	}
	scale := math.Max(1, c.peakCU)
	removed := math.Min(c.entropy, work/scale)
	c.entropy -= removed
	return removed
}

// TimePassing accrues entropy
func (c *Computation) TimePassing(pulse float64) {
	if pulse <= 0 {
		return
	}
	c.entropy += c.entropyRate * pulse / shared.MillisolsPerSol
}
