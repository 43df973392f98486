package activity

import (
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/manufacturing"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/metatask"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/rating"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

const (
	// workshopProcessWeight is the base per process that still needs work
	workshopProcessWeight = 10.0

	// workshopValueScale divides the best recipe value into the base
	workshopValueScale = 10.0
	maxWorkshopScore   = 500.0
)

// workshopMeta proposes one candidate per workshop that a settlement
// worker could advance
type workshopMeta struct {
	*metatask.MetaTask
	function settlement.FunctionType
	override settlement.Override
	commerce goods.CommerceType
	workshop func(b *settlement.Building) *manufacturing.Workshop
	create   func(w worker.Worker, s *settlement.Settlement, b *settlement.Building, env *sim.Env) task.Activity
}

// NewManufactureGoodMeta creates the manufacturing candidate generator
func NewManufactureGoodMeta(env *sim.Env) metatask.SettlementMetaTask {
	m := &workshopMeta{
		MetaTask: metatask.NewMetaTask("manufacture-good", "Manufacture Good", env),
		function: settlement.FunctionManufacture,
		override: settlement.OverrideManufacture,
		commerce: goods.CommerceManufacturing,
		workshop: (*settlement.Building).Manufacture,
		create: func(w worker.Worker, s *settlement.Settlement, b *settlement.Building, env *sim.Env) task.Activity {
			if a := NewManufactureGood(w, s, b, env); a != nil {
				return a
			}
			return nil
		},
	}
	m.AddPreferredJobs(worker.JobEngineer, worker.JobMaterialsEngineer, worker.JobTechnician).
		AddPreferredRoles(worker.RoleChiefOfEngineering).
		SetFavorite(worker.FavoriteTinkering).
		AddTraitModifier(worker.TraitConscientious, 1.2).
		AddRobotTypes(worker.RobotMakerbot, worker.RobotRepairbot)
	return m
}

// NewProduceFoodMeta creates the food-production candidate generator
func NewProduceFoodMeta(env *sim.Env) metatask.SettlementMetaTask {
	m := &workshopMeta{
		MetaTask: metatask.NewMetaTask("produce-food", "Produce Food", env),
		function: settlement.FunctionFoodProduction,
		override: settlement.OverrideFoodProduction,
		commerce: goods.CommerceCooking,
		workshop: (*settlement.Building).FoodProduction,
		create: func(w worker.Worker, s *settlement.Settlement, b *settlement.Building, env *sim.Env) task.Activity {
			if a := NewProduceFood(w, s, b, env); a != nil {
				return a
			}
			return nil
		},
	}
	m.AddPreferredJobs(worker.JobChef, worker.JobBotanist).
		SetFavorite(worker.FavoriteCooking).
		AddRobotTypes(worker.RobotChefbot, worker.RobotMakerbot)
	return m
}

func (m *workshopMeta) GetSettlementTasks(s *settlement.Settlement) []*metatask.SettlementTask {
	if s.Override(m.override) {
		return nil
	}
	inv := s.Inventory()
	econ := s.Economy()
	var out []*metatask.SettlementTask
	for _, b := range s.BuildingsWith(m.function) {
		if b.HasMalfunction() {
			continue
		}
		ws := m.workshop(b)
		skill := s.HighestSkill(ws.SkillType())
		if !ws.HasWork(skill, inv, econ, true) {
			continue
		}

		open := 0
		for _, p := range ws.Processes() {
			if !p.IsWorkDone() {
				open++
			}
		}
		score := rating.NewNamedScore("processes", workshopProcessWeight*float64(open+len(ws.Queue())))
		score.AddBase("value", ws.BestRecipeValue(skill, inv, econ)/workshopValueScale)
		score.AddModifier("commerce", econ.CommerceFactor(m.commerce))
		score.ApplyRange(0, maxWorkshopScore)

		freePrinters := max(0, ws.PrintersInUse()-ws.CurrentTotalProcesses())
		t := metatask.NewSettlementTask(m, m.Name(), metatask.FocusKey(b.ID()), b, score).
			SetSettlement(s).
			SetMinSkill(ws.SkillType(), 0).
			SetDemand(open + freePrinters)
		out = append(out, t)
	}
	return out
}

// AssessWorkerSuitability rules out workers who could not advance any
// process or recipe of the workshop with their own skill
func (m *workshopMeta) AssessWorkerSuitability(t *metatask.SettlementTask, w worker.Worker) rating.Score {
	if t == nil || w == nil || t.Settlement() == nil || t.Building() == nil {
		return rating.Zero()
	}
	s := t.Settlement()
	ws := m.workshop(t.Building())
	if ws == nil || !ws.HasWork(w.Skill(ws.SkillType()), s.Inventory(), s.Economy(), !s.Override(m.override)) {
		return rating.Zero()
	}
	return m.MetaTask.AssessWorkerSuitability(t, w)
}

func (m *workshopMeta) CreateTask(w worker.Worker, t *metatask.SettlementTask) task.Activity {
	s := t.Settlement()
	if s == nil || w == nil {
		return nil
	}
	b := buildingOf(s, t.Building())
	if b == nil || m.workshop(b) == nil {
		return nil
	}
	return m.create(w, s, b, m.Env())
}
