// Package engine turns noisy per-probe results into stable, debounced
// up/down transitions.
package engine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"netwatch/internal/events"
	"netwatch/internal/metrics"
	"netwatch/internal/models"
	"netwatch/internal/probe"
	"netwatch/internal/registry"
)

// DefaultThreshold is the number of consecutive identical probe outcomes
// needed to confirm a transition.
const DefaultThreshold = 5

// Engine applies probe results to monitor state. Counter updates happen
// under the registry lock; a single monitor's probe-then-update sequence is
// therefore atomic with respect to its own counters.
type Engine struct {
	reg       *registry.Registry
	sink      events.Sink
	collector *metrics.Collector
	threshold int
	log       *logrus.Entry
	now       func() time.Time
}

// New creates an engine. Non-positive thresholds fall back to the default.
func New(reg *registry.Registry, sink events.Sink, collector *metrics.Collector, threshold int, log *logrus.Entry) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{
		reg:       reg,
		sink:      sink,
		collector: collector,
		threshold: threshold,
		log:       log,
		now:       time.Now,
	}
}

// Observe feeds one probe outcome into the monitor's state machine. A
// non-nil probeErr counts as a failed probe with a distinct narrative line.
// Results for monitors removed mid-flight are dropped.
func (e *Engine) Observe(id string, result probe.Result, probeErr error) {
	alive := probeErr == nil && result.Alive

	var transition models.Status
	updated, ok := e.reg.Apply(id, func(m *models.Monitor) {
		if alive {
			m.ConsecutiveSuccesses++
			m.ConsecutiveFailures = 0
			if m.ConsecutiveSuccesses >= e.threshold && m.ConfirmedStatus != models.StatusUp {
				m.ConfirmedStatus = models.StatusUp
				transition = models.StatusUp
			}
			return
		}
		m.ConsecutiveFailures++
		m.ConsecutiveSuccesses = 0
		if m.ConsecutiveFailures >= e.threshold && m.ConfirmedStatus != models.StatusDown {
			m.ConfirmedStatus = models.StatusDown
			transition = models.StatusDown
		}
	})
	if !ok {
		return
	}

	now := e.now()
	if probeErr != nil {
		e.log.WithError(probeErr).WithField("target", updated.Target).Warn("probe error")
	}

	e.collector.ObserveProbe(alive, result.LatencyMs)
	e.sink.PublishPing(events.PingData{
		ID:        updated.ID,
		Target:    updated.Target,
		Alive:     alive,
		Timestamp: now,
		LatencyMs: result.LatencyMs,
	})

	switch transition {
	case models.StatusDown:
		text := fmt.Sprintf("%s unreachable (%d consecutive failed probes)", updated.Target, e.threshold)
		if probeErr != nil {
			text = fmt.Sprintf("%s unreachable (probe error)", updated.Target)
		}
		e.collector.ObserveTransition(updated.ID, updated.Target, false)
		e.sink.PublishLog(events.LogEvent{Timestamp: now, StatusText: text})
	case models.StatusUp:
		e.collector.ObserveTransition(updated.ID, updated.Target, true)
		e.sink.PublishLog(events.LogEvent{
			Timestamp:  now,
			StatusText: fmt.Sprintf("%s recovered (%d consecutive successful probes)", updated.Target, e.threshold),
		})
	}
}
