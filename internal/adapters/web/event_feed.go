package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
)

const (
	writeWait          = 5 * time.Second
	pingPeriod         = 30 * time.Second
	defaultEventBuffer = 64
)

// EventFeed upgrades /events requests to websockets and streams event records as JSON.
// Query parameters kind and severity filter the stream.
type EventFeed struct {
	bus      *events.Bus
	buffer   int
	logger   common.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewEventFeed creates a feed bound to a bus
func NewEventFeed(bus *events.Bus, buffer int, logger common.Logger) *EventFeed {
	if buffer < 1 {
		buffer = defaultEventBuffer
	}
	if logger == nil {
		logger = common.NoOpLogger{}
	}
	return &EventFeed{
		bus:    bus,
		buffer: buffer,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Connections returns the number of open sockets
func (f *EventFeed) Connections() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

// CloseAll sends a close frame to every open socket
func (f *EventFeed) CloseAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.conns {
		message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
		conn.Close()
	}
}

func (f *EventFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind != "" && !events.Kind(kind).IsValid() {
		http.Error(w, "unknown kind", http.StatusBadRequest)
		return
	}
	severity := r.URL.Query().Get("severity")
	if severity != "" && !events.Severity(severity).IsValid() {
		http.Error(w, "unknown severity", http.StatusBadRequest)
		return
	}

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Log(common.LevelWarning, "Websocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}

	// Subscribed before tracking; the socket is live from here on
	sub := f.bus.SubscribeChannel(f.buffer)
	f.track(conn)
	defer func() {
		sub.Close()
		f.untrack(conn)
		conn.Close()
		if dropped := sub.Dropped(); dropped > 0 {
			f.logger.Log(common.LevelWarning, "Event feed dropped events for slow client", map[string]interface{}{
				"dropped": dropped,
			})
		}
	}()

	// Reader: only control frames are expected; any error ends the session
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case e, ok := <-sub.C():
			if !ok {
				return
			}
			if kind != "" && string(e.Kind()) != kind {
				continue
			}
			if severity != "" && string(e.Severity()) != severity {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e.Record()); err != nil {
				return
			}
		}
	}
}

func (f *EventFeed) track(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conns[conn] = struct{}{}
}

func (f *EventFeed) untrack(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.conns, conn)
}
