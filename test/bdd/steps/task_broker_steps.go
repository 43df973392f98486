package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/metatask"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/rating"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/worker"
)

const phaseScripted task.Phase = "SCRIPTED"

type scriptedCandidate struct {
	focus  string
	score  float64
	demand int
}

// scriptedMeta offers the same fresh candidates on every refresh and starts
// a plain fixed-length activity for any of them
type scriptedMeta struct {
	*metatask.MetaTask
	offers []scriptedCandidate
}

func (m *scriptedMeta) GetSettlementTasks(s *settlement.Settlement) []*metatask.SettlementTask {
	out := make([]*metatask.SettlementTask, 0, len(m.offers))
	for _, o := range m.offers {
		t := metatask.NewSettlementTask(m, m.Name(), metatask.FocusKey(o.focus), nil, rating.NewScore(o.score)).
			SetSettlement(s).
			SetDemand(o.demand)
		out = append(out, t)
	}
	return out
}

func (m *scriptedMeta) CreateTask(w worker.Worker, _ *metatask.SettlementTask) task.Activity {
	a := task.NewTask(m.Name(), "working on "+m.Name(), w, nil)
	a.SetDuration(30)
	a.AddPhase(phaseScripted, func(_ context.Context, time float64) float64 { return 0 })
	a.SetPhase(phaseScripted)
	return a
}

// taskBrokerContext holds state for task broker scenarios
type taskBrokerContext struct {
	clock      *shared.MockClock
	env        *sim.Env
	settlement *settlement.Settlement
	broker     *scheduling.TaskBroker
	colonists  map[string]*worker.Person
	candidates []*metatask.SettlementTask
	ranked     []scheduling.RankedTask
	started    map[string]string
}

func (bc *taskBrokerContext) reset() {
	*bc = taskBrokerContext{
		colonists: make(map[string]*worker.Person),
		started:   make(map[string]string),
	}
}

func (bc *taskBrokerContext) colonist(id string) *worker.Person {
	if p, ok := bc.colonists[id]; ok {
		return p
	}
	p := worker.NewPerson(worker.PersonProfile{ID: id, Name: "Colonist " + id})
	bc.settlement.AddWorker(p)
	bc.colonists[id] = p
	return p
}

func splitIDs(list string) []string {
	var out []string
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// parseOffer reads a focus | score | demand row
func parseOffer(row *messages.PickleTableRow) (scriptedCandidate, error) {
	if len(row.Cells) != 3 {
		return scriptedCandidate{}, fmt.Errorf("expected focus, score and demand")
	}
	score, err := strconv.ParseFloat(row.Cells[1].Value, 64)
	if err != nil {
		return scriptedCandidate{}, fmt.Errorf("invalid score: %w", err)
	}
	demand, err := strconv.Atoi(row.Cells[2].Value)
	if err != nil {
		return scriptedCandidate{}, fmt.Errorf("invalid demand: %w", err)
	}
	return scriptedCandidate{focus: row.Cells[0].Value, score: score, demand: demand}, nil
}

// ============================================================================
// Setup Steps
// ============================================================================

func (bc *taskBrokerContext) aSettlementServedByABroker(at float64) error {
	bc.clock = shared.NewMockClock(shared.MarsTime(at))
	bc.env = sim.NewEnv(bc.clock, nil, shared.NewRand(7), sim.DefaultTuning())
	bc.settlement = settlement.NewSettlement("s1", "Schiaparelli", shared.Coordinates{}, goods.NewInventory(), goods.NewValueTable(1))
	bc.broker = scheduling.NewTaskBroker(bc.env)
	return nil
}

func (bc *taskBrokerContext) theGeneratorOffers(id string, table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("generator %s offers no candidates", id)
	}
	meta := &scriptedMeta{MetaTask: metatask.NewMetaTask(id, id, bc.env)}
	for i, row := range table.Rows[1:] {
		offer, err := parseOffer(row)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		meta.offers = append(meta.offers, offer)
	}
	bc.broker.Register(meta)
	return nil
}

// ============================================================================
// Action Steps
// ============================================================================

func (bc *taskBrokerContext) theCandidatesAreListed() error {
	bc.candidates = bc.broker.SettlementTasks(context.Background(), bc.settlement)
	return nil
}

func (bc *taskBrokerContext) theCandidatesAreRankedFor(id string) error {
	bc.ranked = bc.broker.RankTasks(context.Background(), bc.settlement, bc.colonist(id))
	return nil
}

func (bc *taskBrokerContext) colonistAsksForATask(id string) error {
	a, ok := bc.broker.SelectTask(context.Background(), bc.settlement, bc.colonist(id))
	if ok {
		bc.started[id] = a.Name()
	}
	return nil
}

func (bc *taskBrokerContext) colonistsEachAskForATask(list string) error {
	for _, id := range splitIDs(list) {
		if err := bc.colonistAsksForATask(id); err != nil {
			return err
		}
	}
	return nil
}

func (bc *taskBrokerContext) theClockAdvancesTo(at float64) error {
	bc.clock.SetTime(shared.MarsTime(at))
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (bc *taskBrokerContext) thereShouldBeBrokerCandidates(expected int) error {
	got := len(bc.broker.SettlementTasks(context.Background(), bc.settlement))
	if got != expected {
		return fmt.Errorf("expected %d candidates, got %d", expected, got)
	}
	return nil
}

func (bc *taskBrokerContext) theCandidateShouldScore(metaID, focus string, expected float64) error {
	for _, t := range bc.candidates {
		if t.Meta().ID() == metaID && t.Focus().FocusID() == focus {
			if got := t.Score().Value(); got != expected {
				return fmt.Errorf("expected %s/%s to score %v, got %v", metaID, focus, expected, got)
			}
			return nil
		}
	}
	return fmt.Errorf("no %s candidate for %s", metaID, focus)
}

func (bc *taskBrokerContext) theRankingShouldBe(list string) error {
	expected := splitIDs(list)
	got := make([]string, len(bc.ranked))
	for i, r := range bc.ranked {
		got[i] = r.Task.Meta().ID()
	}
	if strings.Join(got, ",") != strings.Join(expected, ",") {
		return fmt.Errorf("expected ranking %v, got %v", expected, got)
	}
	return nil
}

func (bc *taskBrokerContext) colonistsShouldHaveStarted(list, name string) error {
	for _, id := range splitIDs(list) {
		if got, ok := bc.started[id]; !ok || got != name {
			return fmt.Errorf("expected %s to start %s, got %q", id, name, got)
		}
	}
	return nil
}

func (bc *taskBrokerContext) colonistShouldBeIdle(id string) error {
	if got, ok := bc.started[id]; ok {
		return fmt.Errorf("expected %s to be idle, started %s", id, got)
	}
	return nil
}

// ============================================================================
// Scenario Initialization
// ============================================================================

func InitializeTaskBrokerScenario(sc *godog.ScenarioContext) {
	bc := &taskBrokerContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		bc.reset()
		return ctx, nil
	})

	sc.Step(`^a settlement served by a task broker at (\d+(?:\.\d+)?) millisols$`, bc.aSettlementServedByABroker)
	sc.Step(`^the generator "([^"]*)" offers:$`, bc.theGeneratorOffers)

	sc.Step(`^the settlement's candidates are listed$`, bc.theCandidatesAreListed)
	sc.Step(`^the candidates are ranked for colonist "([^"]*)"$`, bc.theCandidatesAreRankedFor)
	sc.Step(`^colonist "([^"]*)" asks for a task$`, bc.colonistAsksForATask)
	sc.Step(`^colonists "([^"]*)" each ask for a task$`, bc.colonistsEachAskForATask)
	sc.Step(`^the clock advances to (\d+(?:\.\d+)?) millisols$`, bc.theClockAdvancesTo)

	sc.Step(`^there should be (\d+) broker candidates?$`, bc.thereShouldBeBrokerCandidates)
	sc.Step(`^the "([^"]*)" candidate for "([^"]*)" should score (\d+(?:\.\d+)?)$`, bc.theCandidateShouldScore)
	sc.Step(`^the ranking should be "([^"]*)"$`, bc.theRankingShouldBe)
	sc.Step(`^colonists "([^"]*)" should have started "([^"]*)"$`, bc.colonistsShouldHaveStarted)
	sc.Step(`^colonist "([^"]*)" should be idle$`, bc.colonistShouldBeIdle)
}
