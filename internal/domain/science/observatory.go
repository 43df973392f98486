// Package science holds the observatory and the studies astronomers work on
package science

import (
	"math"

	"github.com/google/uuid"
)

// Study is a research project fed by observation time
type Study struct {
	id        string
	name      string
	remaining float64
	total     float64
}

// NewStudy creates a study needing the given millisols of research
func NewStudy(name string, work float64) *Study {
	return &Study{id: uuid.New().String(), name: name, remaining: work, total: work}
}

func (s *Study) ID() string                 { return s.id }
func (s *Study) Name() string               { return s.name }
func (s *Study) ResearchRemaining() float64 { return s.remaining }
func (s *Study) IsComplete() bool           { return s.remaining <= 0 }

// Progress is the completed fraction in [0, 1]
func (s *Study) Progress() float64 {
	if s.total <= 0 {
		return 1
	}
	return 1 - math.Max(0, s.remaining)/s.total
}

// AddResearch applies research work and returns what was not needed
func (s *Study) AddResearch(work float64) float64 {
	if work <= 0 {
		return 0
	}
	used := math.Min(work, math.Max(0, s.remaining))
	s.remaining = math.Max(0, s.remaining-work)
	return work - used
}

// Observatory is the astronomy function of a building. Observer slots are
// exclusive: a slot is held from task creation until the task ends.
type Observatory struct {
	capacity  int
	techLevel int
	observers map[string]bool
	studies   []*Study
}

// NewObservatory creates an observatory with the given observer slots
func NewObservatory(capacity, techLevel int) *Observatory {
	return &Observatory{
		capacity:  capacity,
		techLevel: techLevel,
		observers: make(map[string]bool),
	}
}

func (o *Observatory) Capacity() int      { return o.capacity }
func (o *Observatory) TechLevel() int     { return o.techLevel }
func (o *Observatory) ObserverCount() int { return len(o.observers) }
func (o *Observatory) HasRoom() bool      { return len(o.observers) < o.capacity }

// AddObserver reserves a slot for the worker. Reserving twice is a no-op.
func (o *Observatory) AddObserver(workerID string) bool {
	if o.observers[workerID] {
		return true
	}
	if !o.HasRoom() {
		return false
	}
	o.observers[workerID] = true
	return true
}

// RemoveObserver releases the worker's slot
func (o *Observatory) RemoveObserver(workerID string) {
	delete(o.observers, workerID)
}

// AddStudy registers a study that observations can feed
func (o *Observatory) AddStudy(s *Study) {
	o.studies = append(o.studies, s)
}

// ActiveStudy returns the first incomplete study
func (o *Observatory) ActiveStudy() *Study {
	for _, s := range o.studies {
		if !s.IsComplete() {
			return s
		}
	}
	return nil
}
