package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

func TestSkillWorkTime_ZeroSkillIsHalfRate(t *testing.T) {
	assert.InDelta(t, 5.0, shared.SkillWorkTime(10, 0, shared.DefaultSkillFactor), 1e-9)
	assert.InDelta(t, 5.0, shared.SkillWorkTime(10, 0, 0.5), 1e-9)
}

func TestSkillWorkTime_MonotonicInSkill(t *testing.T) {
	prev := 0.0
	for skill := 0; skill <= 10; skill++ {
		got := shared.SkillWorkTime(7.5, skill, shared.DefaultSkillFactor)
		assert.GreaterOrEqual(t, got, prev, "skill %d", skill)
		prev = got
	}
	assert.InDelta(t, 7.5*1.6, shared.SkillWorkTime(7.5, 3, 0.2), 1e-9)
}

func TestSkillWorkTime_NonPositiveTime(t *testing.T) {
	assert.Equal(t, 0.0, shared.SkillWorkTime(0, 4, 0.2))
	assert.Equal(t, 0.0, shared.SkillWorkTime(-3, 4, 0.2))
}

func TestPickWeighted_FrequencyFollowsWeights(t *testing.T) {
	// Arrange
	rng := shared.NewRand(42)
	items := []shared.Weighted[string]{
		{Item: "low", Weight: 10},
		{Item: "high", Weight: 25},
		{Item: "never", Weight: 0},
	}
	counts := map[string]int{}

	// Act
	for i := 0; i < 5000; i++ {
		got, ok := shared.PickWeighted(rng, items)
		require.True(t, ok)
		counts[got]++
	}

	// Assert
	assert.Zero(t, counts["never"])
	assert.Greater(t, counts["high"], counts["low"])
}

func TestPickWeighted_NothingSelectable(t *testing.T) {
	rng := shared.NewRand(1)

	_, ok := shared.PickWeighted(rng, []shared.Weighted[int]{{Item: 1, Weight: 0}, {Item: 2, Weight: -4}})
	assert.False(t, ok)

	_, ok = shared.PickWeighted[int](rng, nil)
	assert.False(t, ok)
}

func TestMarsTime_Components(t *testing.T) {
	ts := shared.MarsTime(2412.5)

	assert.Equal(t, 3, ts.Sol())
	assert.InDelta(t, 412.5, ts.Millisol(), 1e-9)
	assert.Equal(t, int64(2412), ts.Tick())
	assert.InDelta(t, 12.5, ts.Since(2400), 1e-9)
}

func TestSimpleSolarModel_DayNight(t *testing.T) {
	clock := shared.NewMockClock(500)
	solar := shared.NewSimpleSolarModel(clock)
	loc := shared.Coordinates{}

	assert.Greater(t, solar.SolarIrradiance(loc), 500.0)
	assert.False(t, solar.IsSunSetting(loc))

	clock.SetTime(700)
	assert.True(t, solar.IsSunSetting(loc))

	clock.SetTime(900)
	assert.Equal(t, 0.0, solar.SolarIrradiance(loc))
	assert.False(t, solar.IsSunSetting(loc))
}

func TestLifecycleStateMachine_Transitions(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(100)
	sm := shared.NewLifecycleStateMachine(clock)

	// Act + Assert
	require.NoError(t, sm.Start())
	clock.Advance(25)
	require.NoError(t, sm.Complete())

	assert.True(t, sm.IsFinished())
	assert.InDelta(t, 25.0, sm.RunningTime(), 1e-9)
	assert.Error(t, sm.Cancel("late"))
}
