package computing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/computing"
)

func TestComputation_EntropyGrowsAndIsWorkedOff(t *testing.T) {
	// Arrange
	c := computing.NewComputation(4, 10)

	// Act
	c.TimePassing(500)
	removed := c.ReduceEntropy(8)

	// Assert
	assert.InDelta(t, 2.0, removed, 1e-9)
	assert.InDelta(t, 3.0, c.Entropy(), 1e-9)
	assert.True(t, c.NeedsOptimizing())
}

func TestComputation_ReduceNeverBelowZero(t *testing.T) {
	c := computing.NewComputation(1, 0)
	c.SetEntropy(1.5)

	assert.InDelta(t, 1.5, c.ReduceEntropy(100), 1e-9)
	assert.Zero(t, c.Entropy())
	assert.False(t, c.NeedsOptimizing())
}
