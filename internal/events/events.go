// Package events defines the payloads the core emits and the sink interface
// carrying them to the delivery layer. Delivery is best effort.
package events

import (
	"sync"
	"time"

	"netwatch/internal/models"
)

// Event type names on the wire.
const (
	TypeMonitorList    = "monitorList"
	TypeMonitorAdded   = "monitorAdded"
	TypeMonitorRemoved = "monitorRemoved"
	TypeMonitorUpdated = "monitorUpdated"
	TypePingData       = "pingData"
	TypeLog            = "log"
)

// PingData is the live result of a single probe, emitted every tick for
// every monitor whether or not anything changed.
type PingData struct {
	ID        string    `json:"id"`
	Target    string    `json:"target"`
	Alive     bool      `json:"alive"`
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int64     `json:"latencyMs"`
}

// MonitorEvent announces a structural registry change.
type MonitorEvent struct {
	Type    string         `json:"type"`
	Monitor models.Monitor `json:"monitor"`
}

// LogEvent is a confirmed state-change or structural-change narrative line.
type LogEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	StatusText string    `json:"statusText"`
}

// Sink receives events from the core. Implementations must not block the
// caller; slow consumers drop.
type Sink interface {
	PublishPing(PingData)
	PublishMonitorEvent(MonitorEvent)
	PublishLog(LogEvent)
}

// Fanout dispatches every event to each attached sink in order. Sinks may
// be attached after construction, which breaks the wiring cycle between the
// command layer and the delivery layer.
type Fanout struct {
	mu    sync.RWMutex
	sinks []Sink
}

// NewFanout creates a fan-out over the given sinks.
func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

// Attach adds further sinks.
func (f *Fanout) Attach(sinks ...Sink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = append(f.sinks, sinks...)
}

func (f *Fanout) PublishPing(p PingData) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.sinks {
		s.PublishPing(p)
	}
}

func (f *Fanout) PublishMonitorEvent(e MonitorEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.sinks {
		s.PublishMonitorEvent(e)
	}
}

func (f *Fanout) PublishLog(e LogEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.sinks {
		s.PublishLog(e)
	}
}
