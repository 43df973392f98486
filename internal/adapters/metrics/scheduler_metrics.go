package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementSnapshot is the data the collector samples from a settlement
type SettlementSnapshot struct {
	ID         string
	Population int
	Busy       int
	Resources  map[string]float64
}

// SchedulerMetricsCollector handles task broker, worker loop and settlement metrics
type SchedulerMetricsCollector struct {
	// Dependencies
	getSettlements func() []SettlementSnapshot

	// Broker metrics
	candidatesTotal *prometheus.GaugeVec
	selectionsTotal *prometheus.CounterVec
	selectionScore  *prometheus.HistogramVec
	idleTotal       *prometheus.CounterVec

	// Activity metrics
	activitiesFinished *prometheus.CounterVec
	activityMillisols  *prometheus.CounterVec
	tickDuration       *prometheus.HistogramVec

	// Settlement metrics
	workersTotal  *prometheus.GaugeVec
	resourceStock *prometheus.GaugeVec

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	pollInterval time.Duration
}

// NewSchedulerMetricsCollector creates a new scheduler metrics collector.
// getSettlements may be nil when no settlement polling is wanted.
func NewSchedulerMetricsCollector(getSettlements func() []SettlementSnapshot, pollInterval time.Duration) *SchedulerMetricsCollector {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &SchedulerMetricsCollector{
		getSettlements: getSettlements,
		pollInterval:   pollInterval,

		candidatesTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "candidates_total",
				Help:      "Number of candidate activities offered in the current tick",
			},
			[]string{"settlement"},
		),

		selectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "selections_total",
				Help:      "Total number of candidates handed to workers by generator",
			},
			[]string{"settlement", "meta"},
		),

		selectionScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "selection_score",
				Help:      "Score of the selected candidate for the selecting worker",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"meta"},
		),

		idleTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "idle_total",
				Help:      "Total number of selections that found no viable candidate",
			},
			[]string{"settlement"},
		),

		activitiesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "activities_finished_total",
				Help:      "Total number of finished activities by name",
			},
			[]string{"settlement", "activity"},
		),

		activityMillisols: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "activity_millisols_total",
				Help:      "Work time spent in finished activities",
			},
			[]string{"activity"},
		),

		tickDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Wall-clock time needed to advance one settlement by one pulse",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"settlement"},
		),

		workersTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "workers_total",
				Help:      "Number of workers by state",
			},
			[]string{"settlement", "state"},
		),

		resourceStock: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resource_kg",
				Help:      "Stored amount of each resource",
			},
			[]string{"settlement", "resource"},
		),
	}
}

// Register registers all metrics with the Prometheus registry
func (c *SchedulerMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.candidatesTotal,
		c.selectionsTotal,
		c.selectionScore,
		c.idleTotal,
		c.activitiesFinished,
		c.activityMillisols,
		c.tickDuration,
		c.workersTotal,
		c.resourceStock,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// Start begins polling settlement snapshots
func (c *SchedulerMetricsCollector) Start(ctx context.Context) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)
	if c.getSettlements == nil {
		return
	}

	c.wg.Add(1)
	go c.collectSettlementMetrics()
}

// Stop gracefully stops the metrics collection
func (c *SchedulerMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *SchedulerMetricsCollector) collectSettlementMetrics() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.UpdateSettlementMetrics()
		}
	}
}

// UpdateSettlementMetrics samples the settlements once
func (c *SchedulerMetricsCollector) UpdateSettlementMetrics() {
	if c.getSettlements == nil {
		return
	}

	c.workersTotal.Reset()
	c.resourceStock.Reset()
	for _, s := range c.getSettlements() {
		c.workersTotal.WithLabelValues(s.ID, "busy").Set(float64(s.Busy))
		c.workersTotal.WithLabelValues(s.ID, "idle").Set(float64(max(0, s.Population-s.Busy)))
		for resource, kg := range s.Resources {
			c.resourceStock.WithLabelValues(s.ID, resource).Set(kg)
		}
	}
}

func (c *SchedulerMetricsCollector) RecordCandidates(settlementID string, count int) {
	c.candidatesTotal.WithLabelValues(settlementID).Set(float64(count))
}

func (c *SchedulerMetricsCollector) RecordSelection(settlementID, metaID string, score float64) {
	c.selectionsTotal.WithLabelValues(settlementID, metaID).Inc()
	c.selectionScore.WithLabelValues(metaID).Observe(score)
}

func (c *SchedulerMetricsCollector) RecordIdle(settlementID string) {
	c.idleTotal.WithLabelValues(settlementID).Inc()
}

func (c *SchedulerMetricsCollector) RecordActivityFinished(settlementID, activity string, millisols float64) {
	c.activitiesFinished.WithLabelValues(settlementID, activity).Inc()
	if millisols > 0 {
		c.activityMillisols.WithLabelValues(activity).Add(millisols)
	}
}

func (c *SchedulerMetricsCollector) RecordTick(settlementID string, seconds float64) {
	c.tickDuration.WithLabelValues(settlementID).Observe(seconds)
}
