// Package server exposes scan results and on-demand scans over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness
//	GET  /metrics               Prometheus metrics
//	GET  /api/results           latest report (JSON array)
//	GET  /api/results/{repo}    one repository from the latest report
//	GET  /api/summary           summary of the latest report
//	POST /api/scans             start a scan (202, or 409 while one runs)
//	GET  /api/scans/{id}        scan status
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/hawkeye/pkg/metrics"
	"github.com/matzehuels/hawkeye/pkg/pipeline"
)

// ScanFunc runs one organization scan. The server calls it from a
// background goroutine with a context that ends at shutdown.
type ScanFunc func(ctx context.Context) (*pipeline.Run, error)

// Server serves the API. Create with New.
type Server struct {
	logger  *log.Logger
	metrics *metrics.Metrics
	scan    ScanFunc

	mu      sync.RWMutex
	results []pipeline.ScanResult
	loaded  time.Time
	scans   map[string]*Scan
	running string

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New returns a server. results seeds /api/results and may be nil. A nil
// scan disables POST /api/scans; a nil m disables /metrics.
func New(scan ScanFunc, results []pipeline.ScanResult, m *metrics.Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		logger:  logger,
		metrics: m,
		scan:    scan,
		scans:   make(map[string]*Scan),
		baseCtx: ctx,
		cancel:  cancel,
	}
	if results != nil {
		s.setResults(results)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/results", s.handleResults)
		r.Get("/results/{repo}", s.handleResult)
		r.Get("/summary", s.handleSummary)
		r.Post("/scans", s.handleStartScan)
		r.Get("/scans/{id}", s.handleGetScan)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully and cancels any running scan.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close cancels running scans and waits for them to finish.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
