package shared

import "math"

// Coordinates is a surface location in degrees
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// SolarModel answers sunlight questions for a surface location
type SolarModel interface {
	// SolarIrradiance returns the surface irradiance in W/m2
	SolarIrradiance(loc Coordinates) float64

	// IsSunSetting reports whether local dusk is in progress
	IsSunSetting(loc Coordinates) bool
}

const (
	maxIrradiance  = 590.0
	sunriseMsol    = 250.0
	sunsetMsol     = 750.0
	duskWindowMsol = 100.0
)

// SimpleSolarModel derives a symmetric day/night cycle from the local time of day.
// Sunrise is at local millisol 250 and sunset at 750.
type SimpleSolarModel struct {
	clock SimClock
}

// NewSimpleSolarModel creates a solar model bound to the simulation clock
func NewSimpleSolarModel(clock SimClock) *SimpleSolarModel {
	return &SimpleSolarModel{clock: clock}
}

// LocalMillisol converts the clock's prime-meridian time to local time of day
func (m *SimpleSolarModel) LocalMillisol(loc Coordinates) float64 {
	local := m.clock.Now().Millisol() + loc.Longitude/360.0*MillisolsPerSol
	local = math.Mod(local, MillisolsPerSol)
	if local < 0 {
		local += MillisolsPerSol
	}
	return local
}

func (m *SimpleSolarModel) SolarIrradiance(loc Coordinates) float64 {
	local := m.LocalMillisol(loc)
	if local <= sunriseMsol || local >= sunsetMsol {
		return 0
	}
	angle := math.Pi * (local - sunriseMsol) / (sunsetMsol - sunriseMsol)
	latFactor := math.Cos(loc.Latitude * math.Pi / 180.0)
	return maxIrradiance * math.Sin(angle) * latFactor
}

func (m *SimpleSolarModel) IsSunSetting(loc Coordinates) bool {
	local := m.LocalMillisol(loc)
	return local >= sunsetMsol-duskWindowMsol && local < sunsetMsol
}
