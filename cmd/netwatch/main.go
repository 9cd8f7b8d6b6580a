package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"netwatch/internal/config"
	"netwatch/internal/daylog"
	"netwatch/internal/engine"
	"netwatch/internal/events"
	"netwatch/internal/hub"
	"netwatch/internal/logging"
	"netwatch/internal/metrics"
	"netwatch/internal/probe"
	"netwatch/internal/registry"
	"netwatch/internal/scheduler"
	"netwatch/internal/server"
	"netwatch/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to configuration file (YAML)")
		addr       = flag.String("addr", "", "address for the web server (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.NewLogger("info").WithError(err).Fatal("load config")
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	logger := logging.NewLogger(cfg.LogLevel)
	log := logging.WithComponent(logger, "main")

	collector := metrics.NewCollector()
	reg := registry.New(cfg.MainTarget, cfg.MainLabel, cfg.CustomTarget, cfg.CustomLabel, cfg.MaxExtraMonitors)

	dayLog, err := daylog.New(filepath.Join(cfg.DataDirectory, "logs"))
	if err != nil {
		log.WithError(err).Fatal("initialise day log")
	}

	fanout := events.NewFanout()
	svc := service.New(reg, fanout, collector, logging.WithComponent(logger, "service"))
	viewerHub := hub.NewHub(svc, collector, logging.WithComponent(logger, "hub"))
	uptime := metrics.NewUptimeTracker()
	fanout.Attach(
		viewerHub,
		daylog.NewSink(dayLog, logging.WithComponent(logger, "daylog")),
		uptime,
	)

	stopHub := make(chan struct{})
	go viewerHub.Run(stopHub)
	defer close(stopHub)

	eng := engine.New(reg, fanout, collector, cfg.ConfirmThreshold, logging.WithComponent(logger, "engine"))
	prober := probe.New(time.Duration(cfg.ProbeTimeoutSeconds) * time.Second)
	sched := scheduler.New(time.Duration(cfg.TickSeconds)*time.Second, reg, prober, eng, logging.WithComponent(logger, "scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := server.New(cfg.ListenAddr, viewerHub, svc, dayLog, uptime, collector, logging.WithComponent(logger, "server"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("server shutdown")
		}
	}()

	log.WithField("addr", cfg.ListenAddr).
		WithField("tick_seconds", cfg.TickSeconds).
		Info("netwatch listening")
	if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server error")
	}
}
