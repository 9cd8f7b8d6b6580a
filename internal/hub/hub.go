// Package hub fans live events out to websocket viewers and feeds their
// commands back into the core.
package hub

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"netwatch/internal/events"
	"netwatch/internal/metrics"
	"netwatch/internal/models"
)

// Commands is the slice of the core a viewer may drive.
type Commands interface {
	Snapshot() []models.Monitor
	SetCustomTarget(address string) error
	AddMonitor(raw string) (models.Monitor, error)
	RemoveMonitor(id string) error
}

// envelope frames every outbound message.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(strings.TrimSpace(r.Host))
		originHost := strings.ToLower(strings.TrimSpace(u.Host))
		return host == originHost
	},
}

// Hub maintains the set of attached viewers and broadcasts events to them.
// Delivery is best effort: a viewer that cannot keep up is dropped.
type Hub struct {
	commands  Commands
	collector *metrics.Collector
	log       *logrus.Entry

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a hub. Run must be started before serving connections.
func NewHub(commands Commands, collector *metrics.Collector, log *logrus.Entry) *Hub {
	return &Hub{
		commands:   commands,
		collector:  collector,
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run drives the hub's main loop until the stop channel closes.
func (h *Hub) Run(stop <-chan struct{}) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.collector.ViewerAttached(1)
			h.log.WithField("viewers", len(h.clients)).Info("viewer connected")
			client.enqueue(h.marshal(envelope{Type: events.TypeMonitorList, Data: h.commands.Snapshot()}))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.collector.ViewerAttached(-1)
				h.log.WithField("viewers", len(h.clients)).Info("viewer disconnected")
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.send)
					h.collector.ViewerAttached(-1)
					h.log.Warn("dropping slow viewer")
				}
			}

		case <-stop:
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// ServeWS upgrades an HTTP request and attaches the viewer.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// PublishPing implements events.Sink.
func (h *Hub) PublishPing(p events.PingData) {
	h.publish(envelope{Type: events.TypePingData, Data: p})
}

// PublishMonitorEvent implements events.Sink.
func (h *Hub) PublishMonitorEvent(e events.MonitorEvent) {
	h.publish(envelope{Type: e.Type, Data: e.Monitor})
}

// PublishLog implements events.Sink.
func (h *Hub) PublishLog(e events.LogEvent) {
	h.publish(envelope{Type: events.TypeLog, Data: e})
}

func (h *Hub) publish(env envelope) {
	message := h.marshal(env)
	if message == nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.log.Warn("broadcast channel full, dropping event")
	}
}

func (h *Hub) marshal(env envelope) []byte {
	message, err := json.Marshal(env)
	if err != nil {
		h.log.WithError(err).Error("marshal event failed")
		return nil
	}
	return message
}
