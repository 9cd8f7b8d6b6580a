// Package service executes viewer commands against the registry and
// announces the resulting structural changes.
package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"netwatch/internal/events"
	"netwatch/internal/metrics"
	"netwatch/internal/models"
	"netwatch/internal/registry"
)

// Service is the command side of the core: every structural mutation goes
// through it so the matching events and narrative log lines always fire.
type Service struct {
	reg       *registry.Registry
	sink      events.Sink
	collector *metrics.Collector
	log       *logrus.Entry
	now       func() time.Time
}

// New wires a command service.
func New(reg *registry.Registry, sink events.Sink, collector *metrics.Collector, log *logrus.Entry) *Service {
	return &Service{
		reg:       reg,
		sink:      sink,
		collector: collector,
		log:       log,
		now:       time.Now,
	}
}

// Snapshot returns the current monitor list for newly attached viewers.
func (s *Service) Snapshot() []models.Monitor {
	return s.reg.List()
}

// SetCustomTarget retargets the custom monitor. Its counters and confirmed
// status reset so the new target starts from a clean slate.
func (s *Service) SetCustomTarget(address string) error {
	updated, err := s.reg.Retarget(registry.CustomID, address)
	if err != nil {
		return err
	}

	s.log.WithField("target", updated.Target).Info("custom monitor retargeted")
	s.sink.PublishMonitorEvent(events.MonitorEvent{Type: events.TypeMonitorUpdated, Monitor: updated})
	s.sink.PublishLog(events.LogEvent{
		Timestamp:  s.now(),
		StatusText: fmt.Sprintf("custom monitor retargeted to %s", updated.Target),
	})
	return nil
}

// AddMonitor parses "address - label" viewer input and registers an extra
// monitor.
func (s *Service) AddMonitor(raw string) (models.Monitor, error) {
	address, label := registry.ParseAddSpec(raw)
	added, err := s.reg.Add(address, label)
	if err != nil {
		return models.Monitor{}, err
	}

	s.log.WithFields(logrus.Fields{"id": added.ID, "target": added.Target}).Info("monitor added")
	s.sink.PublishMonitorEvent(events.MonitorEvent{Type: events.TypeMonitorAdded, Monitor: added})
	s.sink.PublishLog(events.LogEvent{
		Timestamp:  s.now(),
		StatusText: fmt.Sprintf("monitor added: %s", describe(added)),
	})
	return added, nil
}

// RemoveMonitor deletes an extra monitor.
func (s *Service) RemoveMonitor(id string) error {
	removed, err := s.reg.Remove(id)
	if err != nil {
		return err
	}

	s.collector.ForgetMonitor(removed.ID)
	s.log.WithFields(logrus.Fields{"id": removed.ID, "target": removed.Target}).Info("monitor removed")
	s.sink.PublishMonitorEvent(events.MonitorEvent{Type: events.TypeMonitorRemoved, Monitor: removed})
	s.sink.PublishLog(events.LogEvent{
		Timestamp:  s.now(),
		StatusText: fmt.Sprintf("monitor removed: %s", describe(removed)),
	})
	return nil
}

func describe(m models.Monitor) string {
	if m.Label != "" {
		return fmt.Sprintf("%s (%s)", m.Target, m.Label)
	}
	return m.Target
}
