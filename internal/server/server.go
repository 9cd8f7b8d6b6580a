package server

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/sirupsen/logrus"

	"netwatch/internal/daylog"
	"netwatch/internal/hub"
	"netwatch/internal/metrics"
	"netwatch/internal/models"
)

//go:embed static/*
var embeddedStatic embed.FS

// MonitorSource exposes the current monitor list to HTTP handlers.
type MonitorSource interface {
	Snapshot() []models.Monitor
}

// Server wraps HTTP serving of the viewer socket, API and static assets.
type Server struct {
	httpServer *http.Server
	staticFS   fs.FS
	hub        *hub.Hub
	source     MonitorSource
	dayLog     *daylog.Writer
	uptime     *metrics.UptimeTracker
	collector  *metrics.Collector
	log        *logrus.Entry
}

// New creates a configured HTTP server for the monitor.
func New(addr string, h *hub.Hub, source MonitorSource, dayLog *daylog.Writer, uptime *metrics.UptimeTracker, collector *metrics.Collector, log *logrus.Entry) *Server {
	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic("static assets missing: " + err.Error())
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{Addr: addr, Handler: mux},
		staticFS:   staticFS,
		hub:        h,
		source:     source,
		dayLog:     dayLog,
		uptime:     uptime,
		collector:  collector,
		log:        log,
	}
	s.registerRoutes(mux)
	return s
}

// Run blocks and serves HTTP traffic.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	fileServer := http.FileServer(http.FS(s.staticFS))

	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		data, err := fs.ReadFile(s.staticFS, "index.html")
		if err != nil {
			http.Error(w, "index missing", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	}))
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))
	mux.HandleFunc("/ws", s.hub.ServeWS)
	mux.HandleFunc("/api/monitors", s.handleMonitors)
	mux.HandleFunc("/api/uptime", s.handleUptime)
	mux.HandleFunc("/api/log/today", s.handleTodayLog)
	mux.HandleFunc("/api/healthz", s.handleHealthz)
	mux.Handle("/metrics", s.collector.Handler())
}

func (s *Server) handleMonitors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.source.Snapshot())
}

func (s *Server) handleUptime(w http.ResponseWriter, _ *http.Request) {
	summary := s.uptime.Summary()
	if summary == nil {
		summary = []metrics.MonitorUptime{}
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTodayLog(w http.ResponseWriter, _ *http.Request) {
	content, ok, err := s.dayLog.Today()
	if err != nil {
		s.log.WithError(err).Warn("read day log failed")
		http.Error(w, "day log unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no log entries for today yet\n"))
		return
	}
	_, _ = w.Write([]byte(content))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
