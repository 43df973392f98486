package settlement

import (
	"github.com/google/uuid"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// Malfunction is a fault reported against a building
type Malfunction struct {
	ID       string
	Name     string
	Accident bool
	At       shared.MarsTime
}

// MalfunctionManager tracks a building's faults and how prone it is to them
type MalfunctionManager struct {
	susceptibility float64
	malfunctions   []Malfunction
	accidents      int
}

// NewMalfunctionManager creates a manager; susceptibility scales accident
// chances (1 = nominal)
func NewMalfunctionManager(susceptibility float64) *MalfunctionManager {
	if susceptibility < 0 {
		susceptibility = 0
	}
	return &MalfunctionManager{susceptibility: susceptibility}
}

func (m *MalfunctionManager) Susceptibility() float64 { return m.susceptibility }
func (m *MalfunctionManager) HasMalfunction() bool    { return len(m.malfunctions) > 0 }
func (m *MalfunctionManager) AccidentCount() int      { return m.accidents }

// Malfunctions returns the outstanding faults
func (m *MalfunctionManager) Malfunctions() []Malfunction {
	return append([]Malfunction(nil), m.malfunctions...)
}

// AddMalfunction records a fault
func (m *MalfunctionManager) AddMalfunction(name string, at shared.MarsTime) Malfunction {
	mf := Malfunction{ID: uuid.New().String(), Name: name, At: at}
	m.malfunctions = append(m.malfunctions, mf)
	return mf
}

// CreateAccident records a fault caused by a worker's accident
func (m *MalfunctionManager) CreateAccident(cause string, at shared.MarsTime) Malfunction {
	mf := Malfunction{ID: uuid.New().String(), Name: cause, Accident: true, At: at}
	m.malfunctions = append(m.malfunctions, mf)
	m.accidents++
	return mf
}

// RepairAll clears every outstanding fault
func (m *MalfunctionManager) RepairAll() {
	m.malfunctions = nil
}
