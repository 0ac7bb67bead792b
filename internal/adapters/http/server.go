// Package http exposes a network over a JSON API: one-shot solves, stepped
// sessions backed by a StateStore, graph introspection and Prometheus
// metrics.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/credence"
	"github.com/aretw0/credence/internal/logging"
	"github.com/aretw0/credence/pkg/belief"
	"github.com/aretw0/credence/pkg/domain"
	"github.com/aretw0/credence/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// lockTTL bounds how long a crashed replica can hold a session.
const lockTTL = 30 * time.Second

// Server serves one network. Session solves are persisted through the store;
// the locker, when present, serializes steps of the same session across
// replicas.
type Server struct {
	network *credence.Network
	store   ports.StateStore
	locker  ports.DistributedLocker
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLocker enables distributed session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Server) {
		s.locker = locker
	}
}

// NewServer creates a server for the network with sessions in the store.
func NewServer(network *credence.Network, store ports.StateStore, opts ...Option) *Server {
	s := &Server{
		network: network,
		store:   store,
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))

	r.Post("/solve", s.handleSolve)
	r.Get("/graph", s.handleGraph)
	r.Get("/sessions", s.handleListSessions)
	r.Post("/sessions/{id}/solve", s.handleSessionSolve)
	r.Delete("/sessions/{id}", s.handleDeleteSession)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return r
}

// SolveRequest is the body of POST /solve and POST /sessions/{id}/solve.
// Evidence values are either a bare outcome string or an outcome-weight map.
type SolveRequest struct {
	Target   string         `json:"target"`
	Evidence map[string]any `json:"evidence,omitempty"`
}

// SolveResponse reports the solved belief. Step is present for session
// solves only.
type SolveResponse struct {
	Target string             `json:"target"`
	Belief map[string]float64 `json:"belief,omitempty"`
	OK     bool               `json:"ok"`
	Step   *int               `json:"step,omitempty"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, evs, ok := s.decodeSolve(w, r)
	if !ok {
		s.metrics.observeSolve("bad_request", time.Since(start).Seconds())
		return
	}

	res, err := s.solveOn(s.network, req.Target, evs)
	if err != nil {
		s.metrics.observeSolve("error", time.Since(start).Seconds())
		s.solveError(w, err)
		return
	}

	s.metrics.observeSolve("ok", time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, SolveResponse{
		Target: req.Target,
		Belief: beliefMap(res.Belief, res.OK),
		OK:     res.OK,
	})
}

func (s *Server) handleSessionSolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sessionID := chi.URLParam(r, "id")
	ctx := r.Context()

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, sessionID, lockTTL)
		if err != nil {
			s.metrics.observeSolve("error", time.Since(start).Seconds())
			http.Error(w, "failed to lock session", http.StatusServiceUnavailable)
			return
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				s.logger.Warn("session unlock failed", "session", sessionID, "error", err)
			}
		}()
	}

	req, evs, ok := s.decodeSolve(w, r)
	if !ok {
		s.metrics.observeSolve("bad_request", time.Since(start).Seconds())
		return
	}

	state, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		state = domain.NewState(s.network.Name(), s.network.Priors())
		err = nil
	}
	if err != nil {
		s.metrics.observeSolve("error", time.Since(start).Seconds())
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	snapshot := s.network.WithPriors(state.Priors)
	res, err := s.solveOn(snapshot, req.Target, evs)
	if err != nil {
		s.metrics.observeSolve("error", time.Since(start).Seconds())
		s.solveError(w, err)
		return
	}

	next := state.Advance(res.Next.Priors())
	if err := s.store.Save(ctx, sessionID, next); err != nil {
		s.metrics.observeSolve("error", time.Since(start).Seconds())
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}

	s.metrics.observeSolve("ok", time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, SolveResponse{
		Target: req.Target,
		Belief: beliefMap(res.Belief, res.OK),
		OK:     res.OK,
		Step:   &next.Step,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list sessions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, "failed to delete session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":      s.network.Name(),
		"variables": s.network.Inspect(),
	})
}

// decodeSolve parses the request body and converts its evidence into the
// engine's form, writing the HTTP error itself on failure.
func (s *Server) decodeSolve(w http.ResponseWriter, r *http.Request) (SolveRequest, []domain.Evidence, bool) {
	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return req, nil, false
	}
	if req.Target == "" {
		http.Error(w, "target is required", http.StatusBadRequest)
		return req, nil, false
	}

	evs := make([]domain.Evidence, 0, len(req.Evidence))
	for name, raw := range req.Evidence {
		switch v := raw.(type) {
		case string:
			evs = append(evs, domain.Value(name, v))
		case map[string]any:
			weights := make(map[string]float64, len(v))
			for outcome, rawWeight := range v {
				f, ok := rawWeight.(float64)
				if !ok {
					http.Error(w, "invalid evidence weight for "+name, http.StatusBadRequest)
					return req, nil, false
				}
				weights[outcome] = f
			}
			b, err := belief.New(weights)
			if err != nil {
				http.Error(w, "invalid evidence distribution for "+name, http.StatusBadRequest)
				return req, nil, false
			}
			evs = append(evs, domain.Observed(name, b))
		default:
			http.Error(w, "evidence for "+name+" must be an outcome or a distribution", http.StatusBadRequest)
			return req, nil, false
		}
	}
	return req, evs, true
}

func (s *Server) solveOn(net *credence.Network, target string, evs []domain.Evidence) (credence.Result, error) {
	if len(evs) == 0 {
		return net.Solve(target)
	}
	obs, err := net.Evidences(evs...)
	if err != nil {
		return credence.Result{}, err
	}
	return obs.Solve(target)
}

func (s *Server) solveError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrUnknownVariable) || errors.Is(err, domain.ErrOutcomeNotInDomain) {
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

func beliefMap(b belief.Belief, ok bool) map[string]float64 {
	if !ok {
		return nil
	}
	return b.Map()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
