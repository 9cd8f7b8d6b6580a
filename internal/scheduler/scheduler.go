// Package scheduler drives the periodic probe sweep across all monitors.
package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"netwatch/internal/engine"
	"netwatch/internal/models"
	"netwatch/internal/probe"
)

// Snapshotter yields the current monitor list for one sweep.
type Snapshotter interface {
	List() []models.Monitor
}

// Scheduler fires a sweep on a fixed interval. Ticks are independent: a new
// tick starts even if the previous tick's probes have not all settled. That
// overlap is acceptable because the probe timeout is configured below the
// tick interval.
type Scheduler struct {
	interval time.Duration
	source   Snapshotter
	prober   *probe.Prober
	engine   *engine.Engine
	log      *logrus.Entry

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a scheduler. Non-positive intervals fall back to 3 seconds.
func New(interval time.Duration, source Snapshotter, prober *probe.Prober, eng *engine.Engine, log *logrus.Entry) *Scheduler {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Scheduler{
		interval: interval,
		source:   source,
		prober:   prober,
		engine:   eng,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the probing loop in a goroutine.
func (s *Scheduler) Start() {
	go s.run()
}

// Stop requests graceful loop termination and waits until it is done.
// In-flight probes are bounded by their timeout and simply run out.
func (s *Scheduler) Stop() {
	select {
	case <-s.doneCh:
		return
	default:
	}
	close(s.stopCh)
	<-s.doneCh
}

// TickOnce runs a single sweep and waits for every probe to settle. The
// periodic loop uses it fire-and-forget; tests and the startup sweep call it
// directly.
func (s *Scheduler) TickOnce(ctx context.Context) {
	monitors := s.source.List()
	if len(monitors) == 0 {
		return
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, m := range monitors {
		m := m
		group.Go(func() error {
			result, err := s.prober.Probe(groupCtx, m.Target)
			s.engine.Observe(m.ID, result, err)
			return nil
		})
	}
	_ = group.Wait()
}

func (s *Scheduler) run() {
	defer close(s.doneCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.TickOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			go s.TickOnce(ctx)
		case <-s.stopCh:
			return
		}
	}
}
