package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-asset-cache/internal/imagecache"
	"go-asset-cache/internal/perfmon"
	"go-asset-cache/internal/prefetch"
	"go-asset-cache/internal/progressive"
	"go-asset-cache/internal/router"
	"go-asset-cache/internal/warmer"
)

// Server is the inbound HTTP surface the page process talks to
type Server struct {
	assets     *router.Router
	images     *imagecache.Manager
	prefetcher *prefetch.Manager
	loader     *progressive.Loader
	warm       *warmer.Warmer
	monitor    *perfmon.Monitor
	sampler    *prefetch.ReportedSampler
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a new Server wired to the pipeline components
func NewServer(
	assets *router.Router,
	images *imagecache.Manager,
	prefetcher *prefetch.Manager,
	loader *progressive.Loader,
	warm *warmer.Warmer,
	monitor *perfmon.Monitor,
	sampler *prefetch.ReportedSampler,
	logger *zap.Logger,
) *Server {
	return &Server{
		assets:     assets,
		images:     images,
		prefetcher: prefetcher,
		loader:     loader,
		warm:       warm,
		monitor:    monitor,
		sampler:    sampler,
		logger:     logger,
	}
}

// Start starts the HTTP server on a TCP address
func (s *Server) Start(addr string) error {
	s.server = s.newHTTPServer()
	s.server.Addr = addr

	s.logger.Info("Starting asset cache server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// StartUnixSocket starts the HTTP server on a Unix socket
func (s *Server) StartUnixSocket(socketPath string) error {
	// Remove existing socket file
	if err := os.RemoveAll(socketPath); err != nil {
		s.logger.Warn("Failed to remove existing socket file", zap.String("path", socketPath), zap.Error(err))
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}

	// Set socket permissions (readable/writable by owner and group)
	if err := os.Chmod(socketPath, 0660); err != nil {
		s.logger.Warn("Failed to set socket permissions", zap.String("path", socketPath), zap.Error(err))
	}

	s.server = s.newHTTPServer()

	s.logger.Info("Starting asset cache server on Unix socket", zap.String("socket_path", socketPath))
	return s.server.Serve(listener)
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping asset cache server")
	return s.server.Shutdown(ctx)
}

func (s *Server) newHTTPServer() *http.Server {
	return &http.Server{
		Handler:      s.createRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	r := mux.NewRouter()

	// Request path
	r.HandleFunc("/resource", s.handleResource).Methods("POST")
	r.HandleFunc("/render", s.handleRender).Methods("POST")

	// Gallery/session surface
	r.HandleFunc("/assignments", s.handleAssignments).Methods("POST")
	r.HandleFunc("/proxy-url", s.handleProxyURL).Methods("POST")

	// Speculative producers
	r.HandleFunc("/page-ready", s.handlePageReady).Methods("POST")
	r.HandleFunc("/scroll", s.handleScroll).Methods("POST")
	r.HandleFunc("/navigate", s.handleNavigate).Methods("POST")
	r.HandleFunc("/connection", s.handleConnection).Methods("POST")

	// Observability
	r.HandleFunc("/metric", s.handleMetric).Methods("POST")
	r.HandleFunc("/perf", s.handlePerf).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

// parseRequest parses JSON request body
func (s *Server) parseRequest(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	return json.Unmarshal(body, v)
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := map[string]interface{}{
		"success": false,
		"error":   message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}
