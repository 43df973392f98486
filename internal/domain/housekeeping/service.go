package housekeeping

import (
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// Mode selects what a Service does to its target
type Mode string

const (
	ModeInspect Mode = "INSPECT"
	ModeClean   Mode = "CLEAN"
)

// Service accumulates time spent on one target and records the result on the
// owning HouseKeeping once the mode's cap is exceeded.
type Service struct {
	hk          *HouseKeeping
	mode        Mode
	target      string
	accumulated float64
	done        bool
}

// NewService picks the least recently serviced target for the mode. Returns
// false when the facility has nothing to service.
func NewService(hk *HouseKeeping, mode Mode) (*Service, bool) {
	if hk == nil {
		return nil, false
	}
	var target string
	var ok bool
	if mode == ModeInspect {
		target, ok = hk.LeastInspected()
	} else {
		target, ok = hk.LeastCleaned()
	}
	if !ok {
		return nil, false
	}
	return &Service{hk: hk, mode: mode, target: target}, true
}

func (s *Service) Mode() Mode           { return s.mode }
func (s *Service) Target() string       { return s.target }
func (s *Service) Accumulated() float64 { return s.accumulated }
func (s *Service) IsDone() bool         { return s.done }

// Cap returns the time after which the service is complete
func (s *Service) Cap() float64 {
	if s.mode == ModeInspect {
		return MaxInspectTime
	}
	return MaxCleaningTime
}

// Step spends elapsed millisols on the target. All of the time is consumed
// while the service is in progress. When the accumulated time first exceeds
// the cap the target is recorded as serviced at now and done is returned;
// later calls consume nothing.
func (s *Service) Step(elapsed float64, now shared.MarsTime) (leftover float64, done bool) {
	if s.done {
		return elapsed, true
	}
	if elapsed <= 0 {
		return 0, false
	}
	s.accumulated += elapsed
	if s.accumulated > s.Cap() {
		s.done = true
		if s.mode == ModeInspect {
			s.hk.Inspected(s.target, now)
		} else {
			s.hk.Cleaned(s.target, now)
		}
		return 0, true
	}
	return 0, false
}
