package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/hawkeye/pkg/errors"
	"github.com/matzehuels/hawkeye/pkg/report"
)

// Scan statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Scan is the state of one scan started through the API.
type Scan struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	Started  time.Time       `json:"started"`
	Finished time.Time       `json:"finished,omitzero"`
	RunID    string          `json:"run_id,omitempty"`
	Summary  *report.Summary `json:"summary,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// startScan launches a scan unless one is running, in which case it
// returns the running scan and a CONFLICT error.
func (s *Server) startScan() (Scan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running != "" {
		return *s.scans[s.running], errors.New(errors.ErrCodeConflict, "a scan is already running")
	}

	sc := &Scan{ID: uuid.NewString(), Status: StatusRunning, Started: time.Now()}
	s.scans[sc.ID] = sc
	s.running = sc.ID

	s.wg.Add(1)
	go s.runScan(sc.ID)
	return *sc, nil
}

func (s *Server) runScan(id string) {
	defer s.wg.Done()
	logger := s.logger.With("scan", id)
	logger.Info("scan started")

	run, err := s.scan(s.baseCtx)
	if err == nil && s.baseCtx.Err() != nil {
		// A run cut short holds partial repository results.
		err = errors.Wrap(errors.ErrCodeInterrupted, s.baseCtx.Err(), "scan interrupted")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.scans[id]
	sc.Finished = time.Now()
	s.running = ""

	if err != nil {
		sc.Status = StatusFailed
		sc.Error = errors.UserMessage(err)
		logger.Error("scan failed", "error", err)
		return
	}
	sc.Status = StatusCompleted
	sc.RunID = run.ID
	sc.Summary = report.SummarizeRun(run)
	s.results = run.Results
	s.loaded = sc.Finished
	logger.Info("scan finished", "run", run.ID, "repos", len(run.Results), "failed", run.Failed())
}

// Scan returns a copy of the scan with id.
func (s *Server) Scan(id string) (Scan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scans[id]
	if !ok {
		return Scan{}, false
	}
	return *sc, true
}
