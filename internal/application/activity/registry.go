package activity

import (
	"github.com/mars-sim/mars-sim-sub055/internal/domain/metatask"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
)

// DefaultMetas returns one generator per activity type, in a stable order
func DefaultMetas(env *sim.Env) []metatask.SettlementMetaTask {
	return []metatask.SettlementMetaTask{
		NewManufactureGoodMeta(env),
		NewProduceFoodMeta(env),
		NewToggleResourceProcessMeta(env),
		NewToggleFuelPowerSourceMeta(env),
		NewTendGreenhouseMeta(env),
		NewTendAlgaePondMeta(env),
		NewTendHousekeepingMeta(env),
		NewObserveAstronomicalObjectsMeta(env),
		NewPrepareDessertMeta(env),
		NewOptimizeSystemMeta(env),
	}
}
