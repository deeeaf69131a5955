// Package api serves the simulation state over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/cors"

	"github.com/talgya/macroverse/internal/engine"
	"github.com/talgya/macroverse/internal/sim"
)

// Server serves the simulation tree over HTTP.
type Server struct {
	Eng            *engine.Engine
	Port           int
	AdminKey       string // Bearer token for POST endpoints. Empty = POST disabled.
	AllowedOrigins []string

	hub     *liveHub
	limiter *ipLimiter
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	handler := s.handler()
	addr := fmt.Sprintf(":%d", s.Port)
	go func() {
		slog.Info("api server listening", "addr", addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("api server failed", "error", err)
		}
	}()
}

// handler wires the routes and middleware stack.
func (s *Server) handler() http.Handler {
	s.hub = newLiveHub()
	s.limiter = newIPLimiter(10, 20)

	mux := http.NewServeMux()

	// Public, read-only.
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/tree", s.handleTree)
	mux.HandleFunc("GET /api/v1/node/{id}", s.handleNode)
	mux.HandleFunc("GET /api/v1/node/{id}/events", s.handleNodeEvents)
	mux.HandleFunc("GET /api/v1/search", s.handleSearch)
	mux.HandleFunc("GET /api/v1/live", s.handleLive)

	// Admin control plane.
	mux.HandleFunc("POST /api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("POST /api/v1/node/{id}/activate", s.adminOnly(s.handleActivate))
	mux.HandleFunc("POST /api/v1/node/{id}/deactivate", s.adminOnly(s.handleDeactivate))
	mux.HandleFunc("POST /api/v1/node/{id}/event", s.adminOnly(s.handleTriggerEvent))

	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(s.rateLimit(mux))
}

// Broadcast pushes a tick summary to every live websocket client.
func (s *Server) Broadcast(tick uint64) {
	if s.hub == nil {
		return
	}
	root := s.Eng.Root
	s.hub.broadcast(liveUpdate{
		Tick:         tick,
		SimTime:      root.Tick,
		Population:   root.TotalPopulation(),
		Stability:    root.Stability.Overall,
		TechLevel:    root.Tech.Level,
		ActiveEvents: len(root.ActiveEvents),
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientIP(r)) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled", http.StatusForbidden)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	type status struct {
		Tick            uint64  `json:"tick"`
		SimTime         float64 `json:"sim_time"`
		Speed           float64 `json:"speed"`
		Nodes           int     `json:"nodes"`
		Population      float64 `json:"population"`
		PopulationHuman string  `json:"population_human"`
		GuardResets     uint64  `json:"guard_resets"`
	}
	var out status
	s.Eng.WithLock(func() {
		root := s.Eng.Root
		pop := root.TotalPopulation()
		out = status{
			Tick:            s.Eng.Tick,
			SimTime:         root.Tick,
			Speed:           s.Eng.Speed,
			Nodes:           root.Count(),
			Population:      pop,
			PopulationHuman: humanize.SIWithDigits(pop, 2, ""),
			GuardResets:     root.GuardResets(),
		}
	})
	writeJSON(w, out)
}

// nodeSummary is the shallow listing form of a node.
type nodeSummary struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Tier       string        `json:"tier"`
	Mode       string        `json:"mode"`
	Population float64       `json:"population"`
	Stability  float64       `json:"stability"`
	TechLevel  int           `json:"tech_level"`
	Children   []nodeSummary `json:"children,omitempty"`
}

func summarize(n *sim.Node, depth int) nodeSummary {
	out := nodeSummary{
		ID:         n.ID,
		Name:       n.Name,
		Tier:       n.Tier.String(),
		Mode:       n.Mode.String(),
		Population: n.Population.Total,
		Stability:  n.Stability.Overall,
		TechLevel:  n.Tech.Level,
	}
	if depth > 0 {
		for _, c := range n.Children {
			out.Children = append(out.Children, summarize(c, depth-1))
		}
	}
	return out
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	depth := 2
	if v := r.URL.Query().Get("depth"); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d >= 0 && d <= 6 {
			depth = d
		}
	}
	var out nodeSummary
	s.Eng.WithLock(func() {
		out = summarize(s.Eng.Root, depth)
	})
	writeJSON(w, out)
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var snap *sim.Snapshot
	s.Eng.WithLock(func() {
		if n, ok := s.Eng.Root.Find(id); ok {
			snap = n.Serialize()
		}
	})
	if snap == nil {
		http.Error(w, "node not found", http.StatusNotFound)
		return
	}
	writeJSON(w, snap)
}

func (s *Server) handleNodeEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var events []*sim.Event
	found := false
	s.Eng.WithLock(func() {
		if n, ok := s.Eng.Root.Find(id); ok {
			found = true
			events = append(events, n.ActiveEvents...)
		}
	})
	if !found {
		http.Error(w, "node not found", http.StatusNotFound)
		return
	}
	writeJSON(w, events)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "missing query parameter q", http.StatusBadRequest)
		return
	}
	var out *nodeSummary
	s.Eng.WithLock(func() {
		if n, ok := sim.FindByName(s.Eng.Root, q); ok {
			summary := summarize(n, 0)
			out = &summary
		}
	})
	if out == nil {
		http.Error(w, "no match", http.StatusNotFound)
		return
	}
	writeJSON(w, out)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Speed < 0 || req.Speed > 1000 {
		http.Error(w, "speed out of range", http.StatusBadRequest)
		return
	}
	s.Eng.Speed = req.Speed
	slog.Info("speed changed", "speed", req.Speed)
	writeJSON(w, map[string]float64{"speed": req.Speed})
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	s.modeChange(w, r, func(n *sim.Node) { n.Activate() })
}

func (s *Server) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	s.modeChange(w, r, func(n *sim.Node) { n.Deactivate() })
}

func (s *Server) modeChange(w http.ResponseWriter, r *http.Request, fn func(*sim.Node)) {
	id := r.PathValue("id")
	var out *nodeSummary
	s.Eng.WithLock(func() {
		if n, ok := s.Eng.Root.Find(id); ok {
			fn(n)
			summary := summarize(n, 0)
			out = &summary
		}
	})
	if out == nil {
		http.Error(w, "node not found", http.StatusNotFound)
		return
	}
	writeJSON(w, out)
}

func (s *Server) handleTriggerEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	var ev *sim.Event
	found := false
	s.Eng.WithLock(func() {
		if n, ok := s.Eng.Root.Find(id); ok {
			found = true
			ev = n.TriggerEvent(sim.EventCategory(req.Category))
		}
	})
	if !found {
		http.Error(w, "node not found", http.StatusNotFound)
		return
	}
	slog.Info("event triggered", "node", id, "category", req.Category)
	writeJSON(w, ev)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "error", err)
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.Split(fwd, ",")[0]
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
