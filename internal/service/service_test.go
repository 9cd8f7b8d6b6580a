package service

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netwatch/internal/events"
	"netwatch/internal/metrics"
	"netwatch/internal/models"
	"netwatch/internal/registry"
)

type memorySink struct {
	mu            sync.Mutex
	monitorEvents []events.MonitorEvent
	logs          []events.LogEvent
}

func (m *memorySink) PublishPing(events.PingData) {}

func (m *memorySink) PublishMonitorEvent(e events.MonitorEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.monitorEvents = append(m.monitorEvents, e)
}

func (m *memorySink) PublishLog(e events.LogEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, e)
}

func newTestService(t *testing.T) (*Service, *memorySink) {
	t.Helper()
	reg := registry.New("8.8.8.8", "Main", "185.41.20.4", "Custom", 3)
	sink := &memorySink{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New(reg, sink, metrics.NewCollector(), log.WithField("component", "service")), sink
}

func TestAddMonitorParsesViewerInput(t *testing.T) {
	svc, sink := newTestService(t)

	added, err := svc.AddMonitor("8.8.4.4 - Secondary DNS")
	require.NoError(t, err)
	assert.Equal(t, "8.8.4.4", added.Target)
	assert.Equal(t, "Secondary DNS", added.Label)
	assert.Equal(t, models.KindExtra, added.Kind)

	require.Len(t, sink.monitorEvents, 1)
	assert.Equal(t, events.TypeMonitorAdded, sink.monitorEvents[0].Type)
	require.Len(t, sink.logs, 1)
	assert.Equal(t, "monitor added: 8.8.4.4 (Secondary DNS)", sink.logs[0].StatusText)
}

func TestAddMonitorFailureEmitsNothing(t *testing.T) {
	svc, sink := newTestService(t)

	_, err := svc.AddMonitor("   ")
	assert.ErrorIs(t, err, registry.ErrInvalidTarget)
	assert.Empty(t, sink.monitorEvents)
	assert.Empty(t, sink.logs)
}

func TestRemoveMonitorAnnouncesChange(t *testing.T) {
	svc, sink := newTestService(t)

	added, err := svc.AddMonitor("1.1.1.1")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveMonitor(added.ID))
	require.Len(t, sink.monitorEvents, 2)
	assert.Equal(t, events.TypeMonitorRemoved, sink.monitorEvents[1].Type)
	assert.Equal(t, "monitor removed: 1.1.1.1", sink.logs[1].StatusText)

	assert.ErrorIs(t, svc.RemoveMonitor(added.ID), registry.ErrNotFound)
	assert.ErrorIs(t, svc.RemoveMonitor(registry.MainID), registry.ErrForbidden)
}

func TestSetCustomTarget(t *testing.T) {
	svc, sink := newTestService(t)

	require.NoError(t, svc.SetCustomTarget("1.1.1.1"))
	require.Len(t, sink.monitorEvents, 1)
	assert.Equal(t, events.TypeMonitorUpdated, sink.monitorEvents[0].Type)
	assert.Equal(t, "1.1.1.1", sink.monitorEvents[0].Monitor.Target)
	assert.Equal(t, models.StatusUnknown, sink.monitorEvents[0].Monitor.ConfirmedStatus)
	assert.Equal(t, "custom monitor retargeted to 1.1.1.1", sink.logs[0].StatusText)

	assert.ErrorIs(t, svc.SetCustomTarget(""), registry.ErrInvalidTarget)
}

func TestSnapshotKeepsInsertionOrder(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.AddMonitor("1.1.1.1 - One")
	require.NoError(t, err)
	second, err := svc.AddMonitor("9.9.9.9 - Two")
	require.NoError(t, err)

	snapshot := svc.Snapshot()
	require.Len(t, snapshot, 4)
	assert.Equal(t, registry.MainID, snapshot[0].ID)
	assert.Equal(t, registry.CustomID, snapshot[1].ID)
	assert.Equal(t, first.ID, snapshot[2].ID)
	assert.Equal(t, second.ID, snapshot[3].ID)
}
