package farming

import (
	"math/rand/v2"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// MaxTendingTime caps a single tending session on one crop, in millisols
const MaxTendingTime = 100.0

// Action is one of the things a worker can do in a greenhouse or algae pond
type Action string

const (
	ActionInspect    Action = "INSPECT"
	ActionClean      Action = "CLEAN"
	ActionTend       Action = "TEND"
	ActionTransfer   Action = "TRANSFER"
	ActionSample     Action = "SAMPLE"
	ActionGrowTissue Action = "GROW_TISSUE"
	ActionHarvest    Action = "HARVEST"
)

// ChooseAction draws a greenhouse action. Tending weighs more the more crops
// need attention; transfer and harvest are only drawn when possible.
func ChooseAction(rng *rand.Rand, needy int, hasSeedling, hasHarvest bool) Action {
	items := []shared.Weighted[Action]{
		{Item: ActionInspect, Weight: 1},
		{Item: ActionClean, Weight: 1},
		{Item: ActionTend, Weight: 2 * float64(needy)},
		{Item: ActionSample, Weight: 0.5},
		{Item: ActionGrowTissue, Weight: 0.5},
	}
	if hasSeedling {
		items = append(items, shared.Weighted[Action]{Item: ActionTransfer, Weight: 2})
	}
	if hasHarvest {
		items = append(items, shared.Weighted[Action]{Item: ActionHarvest, Weight: 3})
	}
	a, _ := shared.PickWeighted(rng, items)
	return a
}

// ChooseAlgaeAction draws an algae pond action
func ChooseAlgaeAction(rng *rand.Rand, needsTending, canHarvest bool) Action {
	items := []shared.Weighted[Action]{
		{Item: ActionInspect, Weight: 1},
		{Item: ActionClean, Weight: 1},
	}
	if needsTending {
		items = append(items, shared.Weighted[Action]{Item: ActionTend, Weight: 4})
	}
	if canHarvest {
		items = append(items, shared.Weighted[Action]{Item: ActionHarvest, Weight: 2})
	}
	a, _ := shared.PickWeighted(rng, items)
	return a
}
