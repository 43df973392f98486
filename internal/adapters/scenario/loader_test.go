package scenario_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub055/internal/adapters/scenario"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

const outpost = `
settlements:
  - id: s1
    name: Outpost
    longitude: 90
    values:
      methane: 2
    commerce:
      cooking: 1.5
    inventory:
      methane: 50
    overrides: [manufacture]
    buildings:
      - id: b1
        name: Hab
        spots: 2
        life_support: true
        housekeeping: [airlock]
        generators:
          - name: Methane Generator
            fuel: methane
            consumption_rate: 0.5
            max_power: 10
            toggle_work_time: 20
            on: true
      - id: b2
        name: Greenhouse
        spots: 2
        housekeeping: [trays]
        farm:
          beds: 2
          crops:
            - name: Lettuce
              produce: lettuce
              growing_sols: 30
              edible_biomass: 4
              tending_work: 300
          planted: [lettuce]
    people:
      - id: p1
        name: Ada
        building: b2
        job: botanist
        skills:
          botany: 3
    robots:
      - id: r1
        name: ChefBot
        type: CHEFBOT
        building: b1
`

func TestParse_BuildsSettlement(t *testing.T) {
	// Arrange
	f, err := scenario.Parse(strings.NewReader(outpost), "yaml")
	require.NoError(t, err)

	// Act
	settlements, err := f.Build(shared.NewMockClock(0))

	// Assert
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	s := settlements[0]
	assert.Equal(t, "Outpost", s.Name())
	assert.Equal(t, 90.0, s.Location().Longitude)
	assert.Equal(t, 50.0, s.Inventory().Amount(goods.Methane))
	assert.Equal(t, 2.0, s.Economy().ResourceValue(goods.Methane))
	assert.Equal(t, 1.5, s.Economy().CommerceFactor(goods.CommerceCooking))
	assert.True(t, s.Override(settlement.OverrideManufacture))

	hab := s.Building("b1")
	require.NotNil(t, hab)
	assert.True(t, hab.HasLifeSupport())
	require.NotNil(t, hab.Generation())
	require.Len(t, hab.Generation().Sources(), 1)
	assert.True(t, hab.Generation().Sources()[0].IsOn())
	assert.NotNil(t, hab.HouseKeeping())

	farm := s.Building("b2").Farm()
	require.NotNil(t, farm)
	assert.Len(t, farm.Crops(), 1)

	require.Len(t, s.Workers(), 2)
	p := s.Worker("p1")
	require.NotNil(t, p)
	assert.Equal(t, 3, p.Skill(worker.SkillBotany))
	assert.Equal(t, "b2", p.BuildingID())
	assert.Equal(t, 1, s.Population())
}

func TestParse_RejectsInvalidDocument(t *testing.T) {
	// Arrange
	doc := `
settlements:
  - id: s1
    name: Outpost
    overrides: [everything]
`

	// Act
	_, err := scenario.Parse(strings.NewReader(doc), "yaml")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
}

func TestParse_RequiresSettlements(t *testing.T) {
	_, err := scenario.Parse(strings.NewReader("settlements: []\n"), "yaml")

	assert.Error(t, err)
}

func TestBuild_UnknownWorkerBuilding(t *testing.T) {
	// Arrange
	doc := `
settlements:
  - id: s1
    name: Outpost
    people:
      - id: p1
        name: Ada
        building: nowhere
`
	f, err := scenario.Parse(strings.NewReader(doc), "yaml")
	require.NoError(t, err)

	// Act
	_, err = f.Build(shared.NewMockClock(0))

	// Assert
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestBuild_DuplicateSettlement(t *testing.T) {
	doc := `
settlements:
  - id: s1
    name: A
  - id: s1
    name: B
`
	f, err := scenario.Parse(strings.NewReader(doc), "yaml")
	require.NoError(t, err)

	_, err = f.Build(shared.NewMockClock(0))

	assert.Error(t, err)
}

func TestLoadFile_SampleScenario(t *testing.T) {
	// Arrange
	path := "../../../configs/scenario.yaml"

	// Act
	f, err := scenario.LoadFile(path)
	require.NoError(t, err)
	settlements, err := f.Build(shared.NewMockClock(0))

	// Assert
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	s := settlements[0]
	assert.Len(t, s.Buildings(), 6)
	assert.Len(t, s.Workers(), 5)
	assert.NotNil(t, s.Building("plant-1").ResourceProcessing())
	assert.NotNil(t, s.Building("plant-1").WasteProcessing())
	assert.NotNil(t, s.Building("workshop-1").Manufacture())
	assert.NotNil(t, s.Building("server-1").Computation())
	assert.NotNil(t, s.Building("observatory-1").Observatory())
}
