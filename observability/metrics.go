package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver turns command completion events into prometheus metrics.
// Only events that carry AttrAction and AttrOutcome are counted; all others
// are ignored.
type MetricsObserver struct {
	registry *prometheus.Registry
	records  *prometheus.CounterVec
	commands *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsObserver creates a MetricsObserver with its own registry.
func NewMetricsObserver() *MetricsObserver {
	m := &MetricsObserver{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "worldbackup",
			Name:      "records_total",
			Help:      "Records processed by backup commands, by outcome.",
		}, []string{"action", "category", "outcome"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "worldbackup",
			Name:      "commands_total",
			Help:      "Backup commands executed, by outcome.",
		}, []string{"action", "category", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "worldbackup",
			Name:      "command_duration_seconds",
			Help:      "Wall time of backup commands.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"action", "category"}),
	}
	m.registry.MustRegister(m.records, m.commands, m.duration)
	return m
}

// Registry exposes the observer's registry for gathering.
func (m *MetricsObserver) Registry() *prometheus.Registry {
	return m.registry
}

// Records returns the records counter.
func (m *MetricsObserver) Records() *prometheus.CounterVec {
	return m.records
}

// Commands returns the commands counter.
func (m *MetricsObserver) Commands() *prometheus.CounterVec {
	return m.commands
}

func (m *MetricsObserver) OnEvent(_ context.Context, event Event) {
	action, ok := event.Data[AttrAction].(string)
	if !ok {
		return
	}
	outcome, ok := event.Data[AttrOutcome].(string)
	if !ok {
		return
	}
	category, _ := event.Data[AttrCategory].(string)

	m.commands.WithLabelValues(action, category, outcome).Inc()

	if n, ok := event.Data[AttrRecords].(int); ok && n > 0 {
		m.records.WithLabelValues(action, category, OutcomeOK).Add(float64(n))
	}
	if n, ok := event.Data[AttrSkipped].(int); ok && n > 0 {
		m.records.WithLabelValues(action, category, "skipped").Add(float64(n))
	}
	if d, ok := event.Data[AttrDuration].(time.Duration); ok {
		m.duration.WithLabelValues(action, category).Observe(d.Seconds())
	}
}

// WriteToTextfile writes the gathered metrics in the node-exporter textfile
// collector format. The file is replaced atomically.
func (m *MetricsObserver) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
