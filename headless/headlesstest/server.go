// Package headlesstest provides a canned stand-in for the headless
// simulation API, for tests that need a server to talk to. It is not a
// simulation engine: callers seed fixed payloads for an unedited and an
// edited run, and the server picks between them based on whether a signal
// edit was in effect when the clock last advanced. Reset semantics match
// the real server, so reset-ordering mistakes show up in tests the same
// way they would in production.
package headlesstest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/breezechen/abstreet/headless"
)

// PhaseData is the set of payloads served for one variant of the world.
type PhaseData struct {
	Trips      []headless.Trip
	Delays     []headless.DelayEntry
	Throughput []headless.ThroughputEntry
}

// Server holds the fake API's state. Seed Baseline, Edited, Agents and the
// signal documents before serving; the handlers only read them.
type Server struct {
	// Baseline is served after a run with no edits applied, Edited after a
	// run with at least one.
	Baseline PhaseData
	Edited   PhaseData

	// Agents is returned by /data/get-agent-positions regardless of phase.
	Agents []headless.AgentSnapshot

	mu        sync.Mutex
	clock     time.Duration
	pristine  map[int64]json.RawMessage
	applied   map[int64]json.RawMessage
	editedRun bool
	requests  []string
}

// New returns an empty fake server.
func New() *Server {
	return &Server{
		pristine: map[int64]json.RawMessage{},
		applied:  map[int64]json.RawMessage{},
	}
}

// SeedSignal installs doc as the pristine timing plan for signal id. The
// document must at least parse as a signal config.
func (s *Server) SeedSignal(id int64, doc string) error {
	var cfg headless.SignalConfig
	if err := json.Unmarshal([]byte(doc), &cfg); err != nil {
		return fmt.Errorf("seeding signal %d: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pristine[id] = json.RawMessage(doc)
	return nil
}

// Requests returns the method and path of every request served so far, in
// order. Query strings are omitted.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// ClearRequests empties the request log.
func (s *Server) ClearRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// Handler returns the fake API as an http.Handler, ready for httptest.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.logRequests)
	s.RegisterRoutes(router)
	return router
}

// RegisterRoutes registers every endpoint of the headless API surface.
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sim/get-time", s.GetTime).Methods("GET")
	router.HandleFunc("/sim/reset", s.Reset).Methods("GET")
	router.HandleFunc("/sim/goto-time", s.GotoTime).Methods("GET")
	router.HandleFunc("/data/get-finished-trips", s.GetFinishedTrips).Methods("GET")
	router.HandleFunc("/data/get-agent-positions", s.GetAgentPositions).Methods("GET")
	router.HandleFunc("/traffic-signals/get", s.GetSignal).Methods("GET")
	router.HandleFunc("/traffic-signals/set", s.SetSignal).Methods("POST")
	router.HandleFunc("/traffic-signals/get-delays", s.GetDelays).Methods("GET")
	router.HandleFunc("/traffic-signals/get-cumulative-thruput", s.GetThroughput).Methods("GET")
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// GetTime reports the simulated clock.
func (s *Server) GetTime(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(w, headless.FormatClock(s.clock))
}

// Reset rewinds the clock to midnight and discards applied edits, exactly
// like the real server.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = 0
	s.editedRun = false
	s.applied = map[int64]json.RawMessage{}
	fmt.Fprint(w, "sim reloaded")
}

// GotoTime advances the clock to t. Advancing backward is an error; reset
// first instead.
func (s *Server) GotoTime(w http.ResponseWriter, r *http.Request) {
	t := r.URL.Query().Get("t")
	target, err := headless.ParseClock(t)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if target < s.clock {
		http.Error(w, fmt.Sprintf("%s is in the simulated past; reset first", t), http.StatusBadRequest)
		return
	}
	if target > s.clock {
		s.editedRun = len(s.applied) > 0
	}
	s.clock = target
	fmt.Fprintf(w, "it's now %s", headless.FormatClock(s.clock))
}

// GetFinishedTrips serves the current phase's trips.
func (s *Server) GetFinishedTrips(w http.ResponseWriter, r *http.Request) {
	trips := s.phase().Trips
	if trips == nil {
		trips = []headless.Trip{}
	}
	json.NewEncoder(w).Encode(trips)
}

// GetAgentPositions serves the seeded agent snapshot.
func (s *Server) GetAgentPositions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	agents := s.Agents
	s.mu.Unlock()
	if agents == nil {
		agents = []headless.AgentSnapshot{}
	}
	json.NewEncoder(w).Encode(map[string]any{"agents": agents})
}

// GetSignal serves the applied plan for id when one exists, the pristine
// plan otherwise.
func (s *Server) GetSignal(w http.ResponseWriter, r *http.Request) {
	id, ok := signalID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.applied[id]
	if !ok {
		doc, ok = s.pristine[id]
	}
	if !ok {
		http.Error(w, fmt.Sprintf("no traffic signal with id %d", id), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(doc)
}

// SetSignal stores the posted plan as the applied edit for its id. The
// edit lasts until the next reset.
func (s *Server) SetSignal(w http.ResponseWriter, r *http.Request) {
	var cfg headless.SignalConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, ok := cfg.ID()
	if !ok {
		http.Error(w, "signal config has no id", http.StatusBadRequest)
		return
	}
	doc, err := json.Marshal(cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, known := s.pristine[id]; !known {
		http.Error(w, fmt.Sprintf("no traffic signal with id %d", id), http.StatusNotFound)
		return
	}
	s.applied[id] = doc
	fmt.Fprintf(w, "saved edits to signal %d", id)
}

// GetDelays serves the current phase's per-direction delay samples.
func (s *Server) GetDelays(w http.ResponseWriter, r *http.Request) {
	if _, ok := signalID(w, r); !ok {
		return
	}
	q := r.URL.Query()
	if q.Get("t1") == "" || q.Get("t2") == "" {
		http.Error(w, "missing t1 or t2", http.StatusBadRequest)
		return
	}
	delays := s.phase().Delays
	if delays == nil {
		delays = []headless.DelayEntry{}
	}
	json.NewEncoder(w).Encode(map[string]any{"per_direction": delays})
}

// GetThroughput serves the current phase's per-direction counts.
func (s *Server) GetThroughput(w http.ResponseWriter, r *http.Request) {
	if _, ok := signalID(w, r); !ok {
		return
	}
	thruput := s.phase().Throughput
	if thruput == nil {
		thruput = []headless.ThroughputEntry{}
	}
	json.NewEncoder(w).Encode(map[string]any{"per_direction": thruput})
}

func (s *Server) phase() PhaseData {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editedRun {
		return s.Edited
	}
	return s.Baseline
}

func signalID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("bad signal id %q", raw), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
