package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "marssim"
	// Subsystem for scheduling metrics
	subsystem = "scheduler"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalCollector is the singleton scheduler metrics collector
	// Set by SetGlobalCollector() when metrics are enabled
	globalCollector SchedulerMetricsRecorder

	// globalFacilityCollector is the singleton facility metrics collector
	// Set by SetGlobalFacilityCollector() when metrics are enabled
	globalFacilityCollector FacilityMetricsRecorder
)

// SchedulerMetricsRecorder defines the interface for recording task broker
// and worker loop events
type SchedulerMetricsRecorder interface {
	RecordCandidates(settlementID string, count int)
	RecordSelection(settlementID, metaID string, score float64)
	RecordIdle(settlementID string)
	RecordActivityFinished(settlementID, activity string, millisols float64)
	RecordTick(settlementID string, seconds float64)
}

// FacilityMetricsRecorder defines the interface for recording facility events
type FacilityMetricsRecorder interface {
	RecordProcessEvent(facility, process, event string)
	RecordToggle(facility, name string, on bool)
	RecordAccident(buildingID string)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalCollector sets the global scheduler metrics collector
func SetGlobalCollector(collector SchedulerMetricsRecorder) {
	globalCollector = collector
}

// SetGlobalFacilityCollector sets the global facility metrics collector
func SetGlobalFacilityCollector(collector FacilityMetricsRecorder) {
	globalFacilityCollector = collector
}

// RecordCandidates records the size of a settlement's candidate list
func RecordCandidates(settlementID string, count int) {
	if globalCollector != nil {
		globalCollector.RecordCandidates(settlementID, count)
	}
}

// RecordSelection records a candidate handed to a worker
func RecordSelection(settlementID, metaID string, score float64) {
	if globalCollector != nil {
		globalCollector.RecordSelection(settlementID, metaID, score)
	}
}

// RecordIdle records a worker that found nothing to do
func RecordIdle(settlementID string) {
	if globalCollector != nil {
		globalCollector.RecordIdle(settlementID)
	}
}

// RecordActivityFinished records a finished activity and its work time
func RecordActivityFinished(settlementID, activity string, millisols float64) {
	if globalCollector != nil {
		globalCollector.RecordActivityFinished(settlementID, activity, millisols)
	}
}

// RecordTick records the wall-clock duration of one settlement pulse
func RecordTick(settlementID string, seconds float64) {
	if globalCollector != nil {
		globalCollector.RecordTick(settlementID, seconds)
	}
}

// RecordProcessEvent records a facility process start, completion or cancellation
func RecordProcessEvent(facility, process, event string) {
	if globalFacilityCollector != nil {
		globalFacilityCollector.RecordProcessEvent(facility, process, event)
	}
}

// RecordToggle records a process or power source switched on or off
func RecordToggle(facility, name string, on bool) {
	if globalFacilityCollector != nil {
		globalFacilityCollector.RecordToggle(facility, name, on)
	}
}

// RecordAccident records a work accident in a building
func RecordAccident(buildingID string) {
	if globalFacilityCollector != nil {
		globalFacilityCollector.RecordAccident(buildingID)
	}
}
