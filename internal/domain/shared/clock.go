package shared

import (
	"fmt"
	"math"
)

// MillisolsPerSol is the length of a Martian day in millisols
const MillisolsPerSol = 1000.0

// MarsTime is an absolute simulation timestamp measured in millisols since
// the start of the mission (sol 1, millisol 0)
type MarsTime float64

// Sol returns the 1-based mission sol
func (t MarsTime) Sol() int {
	return int(float64(t)/MillisolsPerSol) + 1
}

// Millisol returns the time of day in [0, 1000)
func (t MarsTime) Millisol() float64 {
	return math.Mod(float64(t), MillisolsPerSol)
}

// Tick returns the integer millisol count, used as the broker's refresh key
func (t MarsTime) Tick() int64 {
	return int64(math.Floor(float64(t)))
}

// Add returns the timestamp advanced by the given millisols
func (t MarsTime) Add(millisols float64) MarsTime {
	return t + MarsTime(millisols)
}

// Since returns the millisols elapsed since an earlier timestamp
func (t MarsTime) Since(earlier MarsTime) float64 {
	return float64(t - earlier)
}

func (t MarsTime) String() string {
	return fmt.Sprintf("Sol %d %07.3f", t.Sol(), t.Millisol())
}

// SimClock is an abstraction for simulated time, allowing time to be mocked in tests
type SimClock interface {
	Now() MarsTime
}

// MasterClock is the simulation clock advanced by the runner each pulse
type MasterClock struct {
	now MarsTime
}

// NewMasterClock creates a clock starting at the given mission time
func NewMasterClock(start MarsTime) *MasterClock {
	return &MasterClock{now: start}
}

// Now returns the current mission time
func (c *MasterClock) Now() MarsTime {
	return c.now
}

// Advance moves the clock forward by the pulse length in millisols
func (c *MasterClock) Advance(millisols float64) MarsTime {
	if millisols > 0 {
		c.now = c.now.Add(millisols)
	}
	return c.now
}

// MockClock implements SimClock with a controllable time for testing
type MockClock struct {
	CurrentTime MarsTime
}

// Now returns the mock's current time
func (m *MockClock) Now() MarsTime {
	return m.CurrentTime
}

// Advance moves the mock clock forward by the given millisols
func (m *MockClock) Advance(millisols float64) {
	m.CurrentTime = m.CurrentTime.Add(millisols)
}

// SetTime sets the mock clock to a specific time
func (m *MockClock) SetTime(t MarsTime) {
	m.CurrentTime = t
}

// NewMockClock creates a MockClock starting at the given time
func NewMockClock(start MarsTime) *MockClock {
	return &MockClock{CurrentTime: start}
}
