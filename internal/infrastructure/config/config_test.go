package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/infrastructure/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_FileValuesOverDefaults(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
simulation:
  pulse: 2.5
  seed: 42
  tuning:
    accident_chance: 0
database:
  type: sqlite
  path: ":memory:"
`)

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Simulation.Pulse)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.Equal(t, 0.0, cfg.Simulation.Tuning.AccidentChance)
	assert.Equal(t, sim.DefaultTuning().WalkTime, cfg.Simulation.Tuning.WalkTime)
	assert.Equal(t, 8, cfg.Simulation.MaxIterations)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10.0, cfg.Logging.DedupWindow)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
simulation:
  pulse: 2.5
`)
	t.Setenv("MARS_SIMULATION_PULSE", "4")
	t.Setenv("MARS_LOGGING_LEVEL", "debug")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.Simulation.Pulse)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
simulation:
  pulse: 500
logging:
  level: chatty
`)

	// Act
	_, err := config.LoadConfig(path)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation.pulse: violates lte=100")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestLoadConfigOrDefault_FallsBackOnError(t *testing.T) {
	// Arrange
	path := writeConfig(t, "simulation: [not, a, map]\n")

	// Act
	cfg := config.LoadConfigOrDefault(path)

	// Assert
	assert.Equal(t, 1.0, cfg.Simulation.Pulse)
	assert.Equal(t, sim.DefaultTuning(), cfg.Simulation.Tuning)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestValidateConfig_PostgresNeedsALocation(t *testing.T) {
	// Arrange
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Database.Type = "postgres"
	cfg.Database.Host = ""

	// Act
	err := config.ValidateConfig(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")

	cfg.Database.URL = "postgresql://marssim@db:5432/marssim"
	assert.NoError(t, config.ValidateConfig(cfg))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.DatabaseConfig
		dsn      string
		inMemory bool
	}{
		{"sqlite file", config.DatabaseConfig{Type: "sqlite", Path: "marssim.db"}, "marssim.db", false},
		{"sqlite memory", config.DatabaseConfig{Type: "sqlite"}, ":memory:", true},
		{"postgres url", config.DatabaseConfig{Type: "postgres", URL: "postgresql://db/marssim", Host: "ignored"}, "postgresql://db/marssim", false},
		{"postgres fields", config.DatabaseConfig{Type: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"},
			"host=db port=5432 user=u password=p dbname=n sslmode=disable", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.dsn, tt.cfg.DSN())
			assert.Equal(t, tt.inMemory, tt.cfg.InMemory())
		})
	}
}

func TestMetricsConfig_Endpoint(t *testing.T) {
	cfg := config.MetricsConfig{Host: "localhost", Port: 9090, Path: "/metrics"}

	assert.Equal(t, "localhost:9090", cfg.Address())
	assert.Equal(t, "http://localhost:9090/metrics", cfg.Endpoint())
}
