// Package housekeeping tracks when each named part of a facility was last
// inspected and cleaned, and provides the small inspect/clean state machine
// any tending activity can drive.
package housekeeping

import (
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// Service caps in millisols
const (
	MaxInspectTime  = 30.0
	MaxCleaningTime = 80.0
)

// HouseKeeping is owned by a facility and lives as long as it does
type HouseKeeping struct {
	targets       []string
	lastInspected map[string]shared.MarsTime
	lastCleaned   map[string]shared.MarsTime
}

// NewHouseKeeping creates a tracker for the given target names. Target order
// breaks ties between parts that have never been serviced.
func NewHouseKeeping(targets []string) *HouseKeeping {
	return &HouseKeeping{
		targets:       append([]string(nil), targets...),
		lastInspected: make(map[string]shared.MarsTime),
		lastCleaned:   make(map[string]shared.MarsTime),
	}
}

// Targets returns the serviceable part names
func (h *HouseKeeping) Targets() []string {
	return append([]string(nil), h.targets...)
}

// LeastInspected returns the part inspected longest ago
func (h *HouseKeeping) LeastInspected() (string, bool) {
	return leastRecent(h.targets, h.lastInspected)
}

// LeastCleaned returns the part cleaned longest ago
func (h *HouseKeeping) LeastCleaned() (string, bool) {
	return leastRecent(h.targets, h.lastCleaned)
}

func (h *HouseKeeping) Inspected(target string, at shared.MarsTime) {
	h.lastInspected[target] = at
}

func (h *HouseKeeping) Cleaned(target string, at shared.MarsTime) {
	h.lastCleaned[target] = at
}

// LastInspected returns when a part was last inspected
func (h *HouseKeeping) LastInspected(target string) (shared.MarsTime, bool) {
	at, ok := h.lastInspected[target]
	return at, ok
}

// LastCleaned returns when a part was last cleaned
func (h *HouseKeeping) LastCleaned(target string) (shared.MarsTime, bool) {
	at, ok := h.lastCleaned[target]
	return at, ok
}

// Overdue counts parts not serviced (either way) within the given window
func (h *HouseKeeping) Overdue(now shared.MarsTime, window float64) int {
	n := 0
	for _, t := range h.targets {
		i, iok := h.lastInspected[t]
		c, cok := h.lastCleaned[t]
		if !iok || !cok || now.Since(i) > window || now.Since(c) > window {
			n++
		}
	}
	return n
}

func leastRecent(targets []string, last map[string]shared.MarsTime) (string, bool) {
	best := ""
	found := false
	var bestAt shared.MarsTime
	for _, t := range targets {
		at, ok := last[t]
		if !ok {
			return t, true
		}
		if !found || at < bestAt {
			best, bestAt, found = t, at, true
		}
	}
	return best, found
}
