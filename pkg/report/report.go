// Package report persists scan results and derives summaries from them.
//
// The canonical form is a JSON array with one object per repository:
//
//	[
//	  {"repo_name": "web", "dependencies": {"npm": [...], "yarn": [], "python": []},
//	   "vulnerabilities": [{"dependency": "lodash", "type": "npm", "version": "^4.17.0",
//	                        "vulnerabilities": [...]}]},
//	  {"repo_name": "private", "error": "..."}
//	]
//
// [JSONSink] writes that file, [ReadJSON] reads it back unchanged, and
// [MongoSink] stores the same objects as documents tagged with the run id.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/hawkeye/pkg/errors"
	"github.com/matzehuels/hawkeye/pkg/pipeline"
)

// DefaultPath is where the CLI writes the report unless told otherwise.
const DefaultPath = "scan_results.json"

// Sink receives the results of a finished run.
type Sink interface {
	Write(ctx context.Context, run *pipeline.Run) error
}

// Multi writes to every sink in order and stops at the first error.
type Multi []Sink

func (m Multi) Write(ctx context.Context, run *pipeline.Run) error {
	for _, s := range m {
		if err := s.Write(ctx, run); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON encodes results as an indented JSON array.
func WriteJSON(w io.Writer, results []pipeline.ScanResult) error {
	if results == nil {
		results = []pipeline.ScanResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a report written by [WriteJSON].
func ReadJSON(r io.Reader) ([]pipeline.ScanResult, error) {
	var results []pipeline.ScanResult
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidReport, err, "decode report")
	}
	if results == nil {
		results = []pipeline.ScanResult{}
	}
	return results, nil
}

// ReadFile reads a report from path.
func ReadFile(path string) ([]pipeline.ScanResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open report")
	}
	defer f.Close()
	return ReadJSON(f)
}

// JSONSink writes the report to a file, replacing it atomically.
type JSONSink struct {
	Path string
}

func (s JSONSink) Write(_ context.Context, run *pipeline.Run) error {
	if err := errors.ValidatePath(s.Path); err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".report-*.json")
	if err != nil {
		return fmt.Errorf("create %s: %w", s.Path, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSON(tmp, run.Results); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}
