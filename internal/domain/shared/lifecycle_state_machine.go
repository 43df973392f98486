package shared

import "fmt"

// LifecycleStatus represents the state of a facility process in its lifecycle
type LifecycleStatus string

const (
	// LifecycleStatusQueued indicates the process is waiting for a free slot
	LifecycleStatusQueued LifecycleStatus = "QUEUED"

	// LifecycleStatusRunning indicates the process occupies a facility slot
	LifecycleStatusRunning LifecycleStatus = "RUNNING"

	// LifecycleStatusCompleted indicates the outputs were produced
	LifecycleStatusCompleted LifecycleStatus = "COMPLETED"

	// LifecycleStatusCancelled indicates the process ended prematurely
	LifecycleStatusCancelled LifecycleStatus = "CANCELLED"
)

// LifecycleStateMachine manages the QUEUED → RUNNING → COMPLETED/CANCELLED
// transitions shared by facility processes.
//
// Invariants:
// - State transitions must follow valid paths
// - Timestamps are mission times taken from the injected clock
type LifecycleStateMachine struct {
	status     LifecycleStatus
	createdAt  MarsTime
	startedAt  *MarsTime
	stoppedAt  *MarsTime
	stopReason string
	clock      SimClock
}

// NewLifecycleStateMachine creates a lifecycle in QUEUED state
func NewLifecycleStateMachine(clock SimClock) *LifecycleStateMachine {
	if clock == nil {
		clock = NewMasterClock(0)
	}
	return &LifecycleStateMachine{
		status:    LifecycleStatusQueued,
		createdAt: clock.Now(),
		clock:     clock,
	}
}

func (sm *LifecycleStateMachine) Status() LifecycleStatus { return sm.status }
func (sm *LifecycleStateMachine) CreatedAt() MarsTime     { return sm.createdAt }
func (sm *LifecycleStateMachine) StartedAt() *MarsTime    { return sm.startedAt }
func (sm *LifecycleStateMachine) StoppedAt() *MarsTime    { return sm.stoppedAt }
func (sm *LifecycleStateMachine) StopReason() string      { return sm.stopReason }

// Start transitions from QUEUED to RUNNING
func (sm *LifecycleStateMachine) Start() error {
	if sm.status != LifecycleStatusQueued {
		return fmt.Errorf("cannot start from %s state", sm.status)
	}
	now := sm.clock.Now()
	sm.status = LifecycleStatusRunning
	sm.startedAt = &now
	return nil
}

// Complete transitions from RUNNING to COMPLETED
func (sm *LifecycleStateMachine) Complete() error {
	if sm.status != LifecycleStatusRunning {
		return fmt.Errorf("cannot complete from %s state", sm.status)
	}
	now := sm.clock.Now()
	sm.status = LifecycleStatusCompleted
	sm.stoppedAt = &now
	return nil
}

// Cancel ends a queued or running process with a reason
func (sm *LifecycleStateMachine) Cancel(reason string) error {
	if sm.IsFinished() {
		return fmt.Errorf("cannot cancel from %s state", sm.status)
	}
	now := sm.clock.Now()
	sm.status = LifecycleStatusCancelled
	sm.stopReason = reason
	sm.stoppedAt = &now
	return nil
}

func (sm *LifecycleStateMachine) IsQueued() bool  { return sm.status == LifecycleStatusQueued }
func (sm *LifecycleStateMachine) IsRunning() bool { return sm.status == LifecycleStatusRunning }

// IsFinished returns true if the process has completed or been cancelled
func (sm *LifecycleStateMachine) IsFinished() bool {
	return sm.status == LifecycleStatusCompleted || sm.status == LifecycleStatusCancelled
}

// RunningTime returns the millisols spent running (0 if never started)
func (sm *LifecycleStateMachine) RunningTime() float64 {
	if sm.startedAt == nil {
		return 0
	}
	end := sm.clock.Now()
	if sm.stoppedAt != nil {
		end = *sm.stoppedAt
	}
	return end.Since(*sm.startedAt)
}
