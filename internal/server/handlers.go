package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/hawkeye/pkg/pipeline"
	"github.com/matzehuels/hawkeye/pkg/report"
)

type healthBody struct {
	Status        string    `json:"status"`
	Results       int       `json:"results"`
	ResultsLoaded time.Time `json:"results_loaded,omitzero"`
	ScanRunning   bool      `json:"scan_running"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	body := healthBody{
		Status:        "ok",
		Results:       len(s.results),
		ResultsLoaded: s.loaded,
		ScanRunning:   s.running != "",
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleResults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Results())
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "repo")
	for _, res := range s.Results() {
		if res.Repo == name {
			writeJSON(w, http.StatusOK, res)
			return
		}
	}
	writeError(w, http.StatusNotFound, "no result for repository "+name)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, report.Summarize(s.Results()))
}

func (s *Server) handleStartScan(w http.ResponseWriter, _ *http.Request) {
	if s.scan == nil {
		writeError(w, http.StatusServiceUnavailable, "scanning is not configured")
		return
	}
	scan, err := s.startScan()
	if err != nil {
		w.Header().Set("Location", "/api/scans/"+scan.ID)
		writeJSON(w, http.StatusConflict, struct {
			errorBody
			Scan Scan `json:"scan"`
		}{errorBody{err.Error()}, scan})
		return
	}
	w.Header().Set("Location", "/api/scans/"+scan.ID)
	writeJSON(w, http.StatusAccepted, scan)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	scan, ok := s.Scan(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown scan")
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

// Results returns the latest report.
func (s *Server) Results() []pipeline.ScanResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.results == nil {
		return []pipeline.ScanResult{}
	}
	return s.results
}

func (s *Server) setResults(results []pipeline.ScanResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = results
	s.loaded = time.Now()
}
