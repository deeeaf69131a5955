// Websocket live stream: one summary frame per report cadence.
package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const maxLiveConns = 16

// liveUpdate is one frame of the live stream.
type liveUpdate struct {
	Tick         uint64  `json:"tick"`
	SimTime      float64 `json:"sim_time"`
	Population   float64 `json:"population"`
	Stability    float64 `json:"stability"`
	TechLevel    int     `json:"tech_level"`
	ActiveEvents int     `json:"active_events"`
}

// liveHub fans updates out to connected websocket clients.
type liveHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func newLiveHub() *liveHub {
	return &liveHub{clients: make(map[*websocket.Conn]bool)}
}

func (h *liveHub) add(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) >= maxLiveConns {
		return false
	}
	h.clients[conn] = true
	return true
}

func (h *liveHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

func (h *liveHub) broadcast(u liveUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(u); err != nil {
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

var upgrader = websocket.Upgrader{
	// Origin policy is handled by the CORS layer in front of the mux.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}
	if !s.hub.add(conn) {
		conn.WriteJSON(map[string]string{"error": "too many live connections"})
		conn.Close()
		return
	}
	slog.Info("live client connected", "remote", r.RemoteAddr)

	// Drain (and discard) client messages so pings are answered and
	// disconnects are noticed.
	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// ipLimiter keeps one token bucket per client address.
type ipLimiter struct {
	mu      sync.Mutex
	perSec  rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func newIPLimiter(perSec float64, burst int) *ipLimiter {
	return &ipLimiter{
		perSec:  rate.Limit(perSec),
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	lim, ok := l.clients[ip]
	if !ok {
		lim = rate.NewLimiter(l.perSec, l.burst)
		l.clients[ip] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
