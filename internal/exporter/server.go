// Package exporter serves benchmark metrics and the latest calibration over
// HTTP while the CLI runs.
package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/psantana5/benchtime/pkg/logging"
	"github.com/psantana5/benchtime/pkg/report"
)

// Server exposes /metrics, /healthz and /results/latest.
type Server struct {
	srv     *http.Server
	metrics *report.Metrics
	logger  *logging.Logger

	mu     sync.RWMutex
	latest *report.Calibration
}

// NewServer creates a server bound to addr. Nothing listens until Start.
func NewServer(addr string, metrics *report.Metrics, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{metrics: metrics, logger: logger}

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/results/latest", s.handleLatest).Methods(http.MethodGet)
	return r
}

// SetLatest publishes c on /results/latest.
func (s *Server) SetLatest(c *report.Calibration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = c
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	c := s.latest
	s.mu.RUnlock()

	if c == nil {
		http.Error(w, "no calibration has finished yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(c); err != nil {
		s.logger.Warn("failed to encode calibration", map[string]interface{}{"error": err.Error()})
	}
}

// Start listens on the configured address and serves in the background.
// It returns the bound address, useful when addr had port 0.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return "", err
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server stopped", map[string]interface{}{"error": err.Error()})
		}
	}()

	s.logger.Info("metrics server listening", map[string]interface{}{"addr": ln.Addr().String()})
	return ln.Addr().String(), nil
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
