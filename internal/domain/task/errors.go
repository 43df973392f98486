package task

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkerUnavailable is returned when a worker cannot start an activity
	ErrWorkerUnavailable = errors.New("worker unavailable")

	// ErrNoActivitySpot is returned when the target building is full
	ErrNoActivitySpot = errors.New("no free activity spot")
)

// InvalidPhaseError reports an activity left in a phase it has no handler
// for. It is raised with panic since it can only come from a broken activity.
type InvalidPhaseError struct {
	Task  string
	Phase Phase
}

func (e *InvalidPhaseError) Error() string {
	if e.Phase == "" {
		return fmt.Sprintf("task %s has no phase", e.Task)
	}
	return fmt.Sprintf("task %s has no handler for phase %s", e.Task, e.Phase)
}
