package daylog

import (
	"github.com/sirupsen/logrus"

	"netwatch/internal/events"
)

// Sink persists log events through a Writer. Write failures are reported to
// the operational logger and otherwise swallowed so the probing path never
// stalls on disk trouble.
type Sink struct {
	writer *Writer
	log    *logrus.Entry
}

// NewSink wraps a writer for use in the event fan-out.
func NewSink(writer *Writer, log *logrus.Entry) *Sink {
	return &Sink{writer: writer, log: log}
}

// PublishLog appends the narrative line to today's file.
func (s *Sink) PublishLog(e events.LogEvent) {
	if err := s.writer.Append(e.Timestamp, e.StatusText); err != nil {
		s.log.WithError(err).Warn("day log write failed")
	}
}

// PublishPing is a no-op; live results are not persisted.
func (s *Sink) PublishPing(events.PingData) {}

// PublishMonitorEvent is a no-op; structural lines arrive as log events.
func (s *Sink) PublishMonitorEvent(events.MonitorEvent) {}
