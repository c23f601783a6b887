// Package server exposes the simulation to a remote renderer: one mutating
// /update call plus read-only snapshot queries, and a websocket stream that
// pushes the moving parts after every update. It draws nothing itself.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"citytraffic/element"
	"citytraffic/log"
	"citytraffic/simulator"
)

// Server wraps one simulation behind HTTP handlers. All handlers serialize
// on mu: the engine itself is single-threaded per tick.
type Server struct {
	mu    sync.Mutex
	state *simulator.SimulationState

	mapLines []string
	params   simulator.Params
	runID    string

	upgrader websocket.Upgrader

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]struct{}
}

// NewServer creates a server for the given map. The simulation itself is
// created by POST /init, matching the renderer handshake.
func NewServer(mapLines []string, params simulator.Params) *Server {
	return &Server{
		mapLines: mapLines,
		params:   params,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]struct{}),
	}
}

// Routes registers every endpoint on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/init", s.handleInit)
	mux.HandleFunc("/update", s.handleUpdate)
	mux.HandleFunc("/getAgents", s.handleGetAgents)
	mux.HandleFunc("/getCars", s.handleGetCars)
	mux.HandleFunc("/getTrafficLights", s.handleGetTrafficLights)
	mux.HandleFunc("/getObstacles", s.handleGetObstacles)
	mux.HandleFunc("/getDestinations", s.handleGetDestinations)
	mux.HandleFunc("/getCounters", s.handleGetCounters)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	log.WriteLog(fmt.Sprintf("simulation server listening on %s", addr))
	return http.ListenAndServe(addr, s.Routes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WriteLog(fmt.Sprintf("response encode failed: %v", err))
	}
}

func (s *Server) requireState(w http.ResponseWriter) bool {
	if s.state == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "model is not initialized"})
		return false
	}
	return true
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "simulation server running")
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := simulator.Initialize(s.mapLines, s.params)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": fmt.Sprintf("failed to initialize model: %v", err),
		})
		return
	}
	s.state = state
	s.runID = uuid.New().String()
	log.WriteLog(fmt.Sprintf("model initialized, run %s", s.runID))

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "model initialized",
		"runId":   s.runID,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireState(w) {
		return
	}

	s.state.Step()
	s.state.DrainTrips()
	s.broadcastSnapshot()

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "model updated",
		"tick":    s.state.Tick(),
	})
}

// agentJSON is the renderer-facing agent row. The y channel is height above
// ground; the grid's own y maps to z, matching the original protocol.
type agentJSON struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	X         int     `json:"x"`
	Y         float64 `json:"y"`
	Z         int     `json:"z"`
	Direction string  `json:"direction,omitempty"`
	State     string  `json:"state,omitempty"`
}

func (s *Server) snapshotAgents() []agentJSON {
	agents := make([]agentJSON, 0)
	for _, road := range s.state.RoadCells() {
		if _, isSignal := signalAt(s.state, road.Pos); isSignal {
			continue // signals are reported by their own route
		}
		agents = append(agents, agentJSON{
			ID:        fmt.Sprintf("road_%d_%d", road.Pos.X, road.Pos.Y),
			Type:      element.KindRoad.String(),
			X:         road.Pos.X,
			Y:         0,
			Z:         road.Pos.Y,
			Direction: road.Direction.String(),
		})
	}
	for _, c := range s.state.Obstacles() {
		agents = append(agents, agentJSON{
			ID:   fmt.Sprintf("obs_%d_%d", c.X, c.Y),
			Type: element.KindObstacle.String(),
			X:    c.X,
			Y:    0.5,
			Z:    c.Y,
		})
	}
	for _, c := range s.state.Destinations() {
		agents = append(agents, agentJSON{
			ID:   fmt.Sprintf("dest_%d_%d", c.X, c.Y),
			Type: element.KindDestination.String(),
			X:    c.X,
			Y:    0.25,
			Z:    c.Y,
		})
	}
	agents = append(agents, s.snapshotCars()...)
	return agents
}

func (s *Server) snapshotCars() []agentJSON {
	cars := make([]agentJSON, 0)
	for _, v := range s.state.Vehicles() {
		cars = append(cars, agentJSON{
			ID:        fmt.Sprintf("car_%d", v.ID),
			Type:      element.KindVehicle.String(),
			X:         v.Pos.X,
			Y:         0.25,
			Z:         v.Pos.Y,
			Direction: v.Heading.String(),
			State:     v.Class.String(),
		})
	}
	return cars
}

func (s *Server) snapshotTrafficLights() []agentJSON {
	lights := make([]agentJSON, 0)
	for _, sig := range s.state.SignalStates() {
		lights = append(lights, agentJSON{
			ID:        fmt.Sprintf("tl_%d_%d", sig.Pos.X, sig.Pos.Y),
			Type:      element.KindSignal.String(),
			X:         sig.Pos.X,
			Y:         1.0,
			Z:         sig.Pos.Y,
			Direction: sig.Lane.String(),
			State:     sig.Phase.String(),
		})
	}
	return lights
}

func signalAt(state *simulator.SimulationState, c element.Cell) (*element.TrafficSignal, bool) {
	sig, ok := state.Network().Signals[c]
	return sig, ok
}

func (s *Server) handleGetAgents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireState(w) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": s.snapshotAgents()})
}

func (s *Server) handleGetCars(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireState(w) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": s.snapshotCars()})
}

func (s *Server) handleGetTrafficLights(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireState(w) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": s.snapshotTrafficLights()})
}

func (s *Server) handleGetObstacles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireState(w) {
		return
	}
	obstacles := make([]agentJSON, 0)
	for _, c := range s.state.Obstacles() {
		obstacles = append(obstacles, agentJSON{
			ID:   fmt.Sprintf("obs_%d_%d", c.X, c.Y),
			Type: element.KindObstacle.String(),
			X:    c.X,
			Y:    0.5,
			Z:    c.Y,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": obstacles})
}

func (s *Server) handleGetDestinations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireState(w) {
		return
	}
	dests := make([]agentJSON, 0)
	for _, c := range s.state.Destinations() {
		dests = append(dests, agentJSON{
			ID:   fmt.Sprintf("dest_%d_%d", c.X, c.Y),
			Type: element.KindDestination.String(),
			X:    c.X,
			Y:    0.25,
			Z:    c.Y,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": dests})
}

func (s *Server) handleGetCounters(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireState(w) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"runId":    s.runID,
		"counters": s.state.Counters(),
	})
}

// snapshotMessage is the websocket payload pushed after every update.
type snapshotMessage struct {
	RunID         string      `json:"runId"`
	Tick          int         `json:"tick"`
	Cars          []agentJSON `json:"cars"`
	TrafficLights []agentJSON `json:"trafficLights"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WriteLog(fmt.Sprintf("websocket upgrade failed: %v", err))
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = struct{}{}
	s.clientsMu.Unlock()

	// Reader loop exists only to notice the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.clientsMu.Lock()
				delete(s.clients, conn)
				s.clientsMu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

// broadcastSnapshot pushes the moving state to every websocket client.
// Callers hold mu.
func (s *Server) broadcastSnapshot() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if len(s.clients) == 0 {
		return
	}

	msg := snapshotMessage{
		RunID:         s.runID,
		Tick:          s.state.Tick(),
		Cars:          s.snapshotCars(),
		TrafficLights: s.snapshotTrafficLights(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.WriteLog(fmt.Sprintf("snapshot encode failed: %v", err))
		return
	}

	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(s.clients, conn)
			conn.Close()
		}
	}
}
