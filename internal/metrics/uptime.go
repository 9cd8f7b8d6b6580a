package metrics

import (
	"math"
	"sort"
	"sync"
	"time"

	"netwatch/internal/events"
)

// MonitorUptime summarises health of a monitored target since startup.
type MonitorUptime struct {
	ID            string  `json:"id"`
	Target        string  `json:"target"`
	UptimePercent float64 `json:"uptime_percent"`
	TotalProbes   int     `json:"total_probes"`
	Passing       int     `json:"passing"`
	Failing       int     `json:"failing"`
	LastAlive     bool    `json:"last_alive"`
	LastUpdated   string  `json:"last_updated,omitempty"`
}

type uptimeAcc struct {
	target    string
	passing   int
	failing   int
	lastAlive bool
	lastTime  time.Time
}

// UptimeTracker accumulates per-monitor probe outcomes. It implements
// events.Sink so it can sit in the fan-out next to the delivery layer.
type UptimeTracker struct {
	mu    sync.Mutex
	state map[string]*uptimeAcc
}

// NewUptimeTracker creates an empty tracker.
func NewUptimeTracker() *UptimeTracker {
	return &UptimeTracker{state: make(map[string]*uptimeAcc)}
}

// PublishPing folds one live result into the running totals.
func (u *UptimeTracker) PublishPing(p events.PingData) {
	u.mu.Lock()
	defer u.mu.Unlock()

	acc := u.state[p.ID]
	if acc == nil {
		acc = &uptimeAcc{}
		u.state[p.ID] = acc
	}
	acc.target = p.Target
	if p.Alive {
		acc.passing++
	} else {
		acc.failing++
	}
	acc.lastAlive = p.Alive
	acc.lastTime = p.Timestamp
}

// PublishMonitorEvent drops totals for removed monitors.
func (u *UptimeTracker) PublishMonitorEvent(e events.MonitorEvent) {
	if e.Type != events.TypeMonitorRemoved {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.state, e.Monitor.ID)
}

// PublishLog is a no-op; the tracker only consumes live results.
func (u *UptimeTracker) PublishLog(events.LogEvent) {}

// Summary aggregates uptime statistics per monitor, sorted by id.
func (u *UptimeTracker) Summary() []MonitorUptime {
	u.mu.Lock()
	defer u.mu.Unlock()

	if len(u.state) == 0 {
		return nil
	}

	keys := make([]string, 0, len(u.state))
	for k := range u.state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]MonitorUptime, 0, len(keys))
	for _, id := range keys {
		acc := u.state[id]
		total := acc.passing + acc.failing
		uptime := 0.0
		if total > 0 {
			uptime = float64(acc.passing) / float64(total) * 100
		}

		result := MonitorUptime{
			ID:            id,
			Target:        acc.target,
			UptimePercent: round2(uptime),
			TotalProbes:   total,
			Passing:       acc.passing,
			Failing:       acc.failing,
			LastAlive:     acc.lastAlive,
		}
		if !acc.lastTime.IsZero() {
			result.LastUpdated = acc.lastTime.UTC().Format(time.RFC3339)
		}
		results = append(results, result)
	}
	return results
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
