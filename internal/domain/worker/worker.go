// Package worker defines the read-mostly worker snapshot consumed by the
// scheduling engine, together with the person and robot implementations the
// simulation runner uses.
package worker

// Kind distinguishes colonists from robots
type Kind string

const (
	KindPerson Kind = "PERSON"
	KindRobot  Kind = "ROBOT"
)

// SkillType names a trainable skill
type SkillType string

const (
	SkillMaterialsScience SkillType = "MATERIALS_SCIENCE"
	SkillBotany           SkillType = "BOTANY"
	SkillCooking          SkillType = "COOKING"
	SkillAstronomy        SkillType = "ASTRONOMY"
	SkillComputing        SkillType = "COMPUTING"
	SkillMechanics        SkillType = "MECHANICS"
	SkillChemistry        SkillType = "CHEMISTRY"
)

// Job is a colonist's occupation
type Job string

const (
	JobEngineer          Job = "ENGINEER"
	JobTechnician        Job = "TECHNICIAN"
	JobBotanist          Job = "BOTANIST"
	JobChef              Job = "CHEF"
	JobAstronomer        Job = "ASTRONOMER"
	JobComputerScientist Job = "COMPUTER_SCIENTIST"
	JobChemist           Job = "CHEMIST"
	JobMaterialsEngineer Job = "MATERIALS_ENGINEER"
)

// Role is a colonist's position in the settlement's chain of command
type Role string

const (
	RoleNone                  Role = ""
	RoleChiefOfEngineering    Role = "CHIEF_OF_ENGINEERING"
	RoleChiefOfAgriculture    Role = "CHIEF_OF_AGRICULTURE"
	RoleChiefOfScience        Role = "CHIEF_OF_SCIENCE"
	RoleChiefOfSupply         Role = "CHIEF_OF_SUPPLY"
	RoleChiefOfComputing      Role = "CHIEF_OF_COMPUTING"
	RoleResourceSpecialist    Role = "RESOURCE_SPECIALIST"
	RoleAgricultureSpecialist Role = "AGRICULTURE_SPECIALIST"
)

// Trait is a personality tag that nudges activity preferences
type Trait string

const (
	TraitConscientious Trait = "CONSCIENTIOUS"
	TraitCurious       Trait = "CURIOUS"
	TraitGregarious    Trait = "GREGARIOUS"
	TraitLazy          Trait = "LAZY"
)

// Favorite is the kind of activity a colonist enjoys most
type Favorite string

const (
	FavoriteNone       Favorite = ""
	FavoriteTinkering  Favorite = "TINKERING"
	FavoriteTending    Favorite = "TENDING_FARM"
	FavoriteCooking    Favorite = "COOKING"
	FavoriteResearch   Favorite = "RESEARCH"
	FavoriteOperations Favorite = "OPERATIONS"
)

// RobotType replaces job and role for robots
type RobotType string

const (
	RobotNone        RobotType = ""
	RobotMakerbot    RobotType = "MAKERBOT"
	RobotGardenbot   RobotType = "GARDENBOT"
	RobotChefbot     RobotType = "CHEFBOT"
	RobotRepairbot   RobotType = "REPAIRBOT"
	RobotDeliverybot RobotType = "DELIVERYBOT"
)

// NeutralOpinion is the relationship score between strangers
const NeutralOpinion = 50.0

// Worker is a person or robot capable of performing activities. The engine
// holds workers by reference and never owns them.
type Worker interface {
	ID() string
	Name() string
	Kind() Kind

	// Skill returns the effective skill level (0 = untrained)
	Skill(skill SkillType) int
	// PerformanceRating is in [0, 1]
	PerformanceRating() float64
	IsFit() bool
	IsOutside() bool

	BuildingID() string
	SetBuildingID(id string)

	Job() Job
	Role() Role
	HasTrait(t Trait) bool
	FavoriteActivity() Favorite
	RobotType() RobotType

	// Opinion of another worker in [0, 100]
	Opinion(otherID string) float64

	AddExperience(skill SkillType, points float64)
	AddFatigue(millisols float64)
	AddStress(amount float64)
}
