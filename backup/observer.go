package backup

import (
	"fmt"

	"github.com/tailored-agentic-units/worldbackup/observability"
)

// Runtime event types.
const (
	EventRunStart    observability.EventType = "backup.run.start"
	EventRunComplete observability.EventType = "backup.run.complete"
	EventRunError    observability.EventType = "backup.run.error"
)

// NewObserver builds the observer named by cfg.Observer. When
// cfg.MetricsFile is set a MetricsObserver is added to the fan-out and
// returned so the caller can write it after the run; otherwise the second
// result is nil.
func NewObserver(cfg *Config) (observability.Observer, *observability.MetricsObserver, error) {
	named, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create observer: %w", err)
	}

	if cfg.MetricsFile == "" {
		return named, nil, nil
	}

	metrics := observability.NewMetricsObserver()
	return observability.NewMultiObserver(named, metrics), metrics, nil
}
