package manufacturing

import "fmt"

// ErrWorkshopFull indicates every printer of the workshop is busy
type ErrWorkshopFull struct {
	Processes int
	Printers  int
}

func (e *ErrWorkshopFull) Error() string {
	return fmt.Sprintf("workshop full: %d processes on %d printers", e.Processes, e.Printers)
}

// ErrTechLevelTooLow indicates a recipe needs a more advanced workshop
type ErrTechLevelTooLow struct {
	Process   string
	Required  int
	Available int
}

func (e *ErrTechLevelTooLow) Error() string {
	return fmt.Sprintf("process %s needs tech level %d, workshop has %d",
		e.Process, e.Required, e.Available)
}

// ErrProcessNotFound indicates a process is not running in the workshop
type ErrProcessNotFound struct {
	ProcessID string
}

func (e *ErrProcessNotFound) Error() string {
	return fmt.Sprintf("process not found: %s", e.ProcessID)
}
