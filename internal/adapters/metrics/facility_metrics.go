package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Process event labels
const (
	ProcessStarted   = "started"
	ProcessCompleted = "completed"
	ProcessCancelled = "cancelled"
)

// FacilityMetricsCollector handles manufacture, processing and power metrics
type FacilityMetricsCollector struct {
	processEvents  *prometheus.CounterVec
	togglesTotal   *prometheus.CounterVec
	accidentsTotal *prometheus.CounterVec
}

// NewFacilityMetricsCollector creates a new facility metrics collector
func NewFacilityMetricsCollector() *FacilityMetricsCollector {
	return &FacilityMetricsCollector{
		processEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "facility",
				Name:      "process_events_total",
				Help:      "Total number of facility process lifecycle events",
			},
			[]string{"facility", "process", "event"},
		),

		togglesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "facility",
				Name:      "toggles_total",
				Help:      "Total number of processes and power sources switched by workers",
			},
			[]string{"facility", "name", "state"},
		),

		accidentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "facility",
				Name:      "accidents_total",
				Help:      "Total number of work accidents by building",
			},
			[]string{"building"},
		),
	}
}

// Register registers all facility metrics with the Prometheus registry
func (c *FacilityMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	for _, metric := range []prometheus.Collector{c.processEvents, c.togglesTotal, c.accidentsTotal} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

func (c *FacilityMetricsCollector) RecordProcessEvent(facility, process, event string) {
	c.processEvents.WithLabelValues(facility, process, event).Inc()
}

func (c *FacilityMetricsCollector) RecordToggle(facility, name string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	c.togglesTotal.WithLabelValues(facility, name, state).Inc()
}

func (c *FacilityMetricsCollector) RecordAccident(buildingID string) {
	c.accidentsTotal.WithLabelValues(buildingID).Inc()
}
