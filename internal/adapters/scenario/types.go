package scenario

import (
	"github.com/mars-sim/mars-sim-sub055/internal/domain/cooking"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/farming"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/manufacturing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/power"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/processing"
)

// File is the root of a scenario document
type File struct {
	Settlements []SettlementSpec `mapstructure:"settlements" validate:"min=1,dive"`
}

// SettlementSpec describes one base, its stock and its residents
type SettlementSpec struct {
	ID         string             `mapstructure:"id" validate:"required"`
	Name       string             `mapstructure:"name" validate:"required"`
	Latitude   float64            `mapstructure:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64            `mapstructure:"longitude" validate:"gte=-180,lte=360"`
	PowerValue float64            `mapstructure:"power_value" validate:"gte=0"`
	Values     map[string]float64 `mapstructure:"values"`
	Commerce   map[string]float64 `mapstructure:"commerce" validate:"omitempty,dive,keys,oneof=manufacturing cooking research tourism,endkeys,gte=0"`
	Inventory  map[string]float64 `mapstructure:"inventory" validate:"omitempty,dive,gte=0"`
	Capacity   map[string]float64 `mapstructure:"capacity" validate:"omitempty,dive,gte=0"`
	Overrides  []string           `mapstructure:"overrides" validate:"omitempty,dive,oneof=manufacture food-production resource-process waste-process"`
	Buildings  []BuildingSpec     `mapstructure:"buildings" validate:"omitempty,dive"`
	People     []PersonSpec       `mapstructure:"people" validate:"omitempty,dive"`
	Robots     []RobotSpec        `mapstructure:"robots" validate:"omitempty,dive"`
}

// BuildingSpec lists the functions a building carries. Absent sections
// leave the function off.
type BuildingSpec struct {
	ID             string   `mapstructure:"id" validate:"required"`
	Name           string   `mapstructure:"name" validate:"required"`
	Spots          int      `mapstructure:"spots" validate:"gte=0"`
	LifeSupport    bool     `mapstructure:"life_support"`
	Susceptibility float64  `mapstructure:"susceptibility" validate:"gte=0,lte=1"`
	Housekeeping   []string `mapstructure:"housekeeping"`

	Manufacture        *WorkshopSpec    `mapstructure:"manufacture"`
	FoodProduction     *WorkshopSpec    `mapstructure:"food_production"`
	ResourceProcessing *ProcessingSpec  `mapstructure:"resource_processing"`
	WasteProcessing    *ProcessingSpec  `mapstructure:"waste_processing"`
	Generators         []GeneratorSpec  `mapstructure:"generators" validate:"omitempty,dive"`
	Farm               *FarmSpec        `mapstructure:"farm"`
	AlgaePond          *AlgaeSpec       `mapstructure:"algae_pond"`
	Kitchen            *KitchenSpec     `mapstructure:"kitchen"`
	Observatory        *ObservatorySpec `mapstructure:"observatory"`
	Computation        *ComputationSpec `mapstructure:"computation"`
}

type WorkshopSpec struct {
	TechLevel int                         `mapstructure:"tech_level" validate:"gte=0"`
	Printers  int                         `mapstructure:"printers" validate:"gte=0"`
	Catalog   []manufacturing.ProcessSpec `mapstructure:"catalog" validate:"omitempty,dive"`
}

type ProcessingSpec struct {
	Modules   int                      `mapstructure:"modules" validate:"gte=0"`
	Processes []processing.ProcessSpec `mapstructure:"processes" validate:"min=1,dive"`
}

type GeneratorSpec struct {
	power.FuelSpec `mapstructure:",squash"`
	On             bool `mapstructure:"on"`
}

type FarmSpec struct {
	Beds    int                `mapstructure:"beds" validate:"min=1"`
	Crops   []farming.CropSpec `mapstructure:"crops" validate:"omitempty,dive"`
	Planted []string           `mapstructure:"planted"`
}

type AlgaeSpec struct {
	Mass    float64 `mapstructure:"mass" validate:"gte=0"`
	MinMass float64 `mapstructure:"min_mass" validate:"gte=0"`
	MaxMass float64 `mapstructure:"max_mass" validate:"gtefield=MinMass"`
}

type KitchenSpec struct {
	Desserts []cooking.DessertSpec `mapstructure:"desserts" validate:"min=1,dive"`
}

type ObservatorySpec struct {
	Capacity  int         `mapstructure:"capacity" validate:"min=1"`
	TechLevel int         `mapstructure:"tech_level" validate:"gte=0"`
	Studies   []StudySpec `mapstructure:"studies" validate:"omitempty,dive"`
}

type StudySpec struct {
	Name string  `mapstructure:"name" validate:"required"`
	Work float64 `mapstructure:"work" validate:"gt=0"`
}

type ComputationSpec struct {
	PeakCU      float64 `mapstructure:"peak_cu" validate:"gt=0"`
	EntropyRate float64 `mapstructure:"entropy_rate" validate:"gte=0"`
	Entropy     float64 `mapstructure:"entropy" validate:"gte=0"`
}

// PersonSpec is a colonist placed in a building
type PersonSpec struct {
	ID          string         `mapstructure:"id" validate:"required"`
	Name        string         `mapstructure:"name" validate:"required"`
	Building    string         `mapstructure:"building" validate:"required"`
	Job         string         `mapstructure:"job"`
	Role        string         `mapstructure:"role"`
	Favorite    string         `mapstructure:"favorite"`
	Traits      []string       `mapstructure:"traits"`
	Skills      map[string]int `mapstructure:"skills" validate:"omitempty,dive,gte=0"`
	Performance *float64       `mapstructure:"performance" validate:"omitempty,gte=0,lte=1"`
}

// RobotSpec is a robot placed in a building
type RobotSpec struct {
	ID       string         `mapstructure:"id" validate:"required"`
	Name     string         `mapstructure:"name" validate:"required"`
	Type     string         `mapstructure:"type" validate:"required,oneof=MAKERBOT GARDENBOT CHEFBOT REPAIRBOT DELIVERYBOT"`
	Building string         `mapstructure:"building" validate:"required"`
	Skills   map[string]int `mapstructure:"skills" validate:"omitempty,dive,gte=0"`
}
