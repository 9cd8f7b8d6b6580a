package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netwatch/internal/daylog"
	"netwatch/internal/events"
	"netwatch/internal/hub"
	"netwatch/internal/metrics"
	"netwatch/internal/models"
	"netwatch/internal/registry"
	"netwatch/internal/service"
)

func newTestServer(t *testing.T) (*httptest.Server, *daylog.Writer, *metrics.UptimeTracker) {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	entry := log.WithField("component", "test")

	reg := registry.New("8.8.8.8", "Main", "185.41.20.4", "Custom", 3)
	collector := metrics.NewCollector()
	fanout := events.NewFanout()
	svc := service.New(reg, fanout, collector, entry)
	h := hub.NewHub(svc, collector, entry)
	uptime := metrics.NewUptimeTracker()
	fanout.Attach(h, uptime)

	writer, err := daylog.New(t.TempDir())
	require.NoError(t, err)

	stop := make(chan struct{})
	go h.Run(stop)

	s := New(":0", h, svc, writer, uptime, collector, entry)
	ts := httptest.NewServer(s.httpServer.Handler)
	t.Cleanup(func() {
		ts.Close()
		close(stop)
	})
	return ts, writer, uptime
}

func TestIndexServed(t *testing.T) {
	ts, _, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "netwatch")
}

func TestMonitorsSnapshot(t *testing.T) {
	ts, _, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/api/monitors")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var monitors []models.Monitor
	require.NoError(t, json.NewDecoder(res.Body).Decode(&monitors))
	require.Len(t, monitors, 2)
	assert.Equal(t, registry.MainID, monitors[0].ID)
}

func TestTodayLogEndpoint(t *testing.T) {
	ts, writer, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/api/log/today")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	require.NoError(t, writer.Append(time.Now(), "8.8.8.8 recovered (5 consecutive successful probes)"))

	res, err = http.Get(ts.URL + "/api/log/today")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "8.8.8.8 recovered")
}

func TestUptimeEndpoint(t *testing.T) {
	ts, _, uptime := newTestServer(t)

	uptime.PublishPing(events.PingData{ID: registry.MainID, Target: "8.8.8.8", Alive: true, Timestamp: time.Now()})
	uptime.PublishPing(events.PingData{ID: registry.MainID, Target: "8.8.8.8", Alive: false, Timestamp: time.Now()})

	res, err := http.Get(ts.URL + "/api/uptime")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var summary []metrics.MonitorUptime
	require.NoError(t, json.NewDecoder(res.Body).Decode(&summary))
	require.Len(t, summary, 1)
	assert.Equal(t, 50.0, summary[0].UptimePercent)
	assert.Equal(t, 2, summary[0].TotalProbes)
}

func TestHealthzAndMetrics(t *testing.T) {
	ts, _, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/api/healthz")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
