package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/hawkeye/pkg/advisory"
	"github.com/matzehuels/hawkeye/pkg/deps"
)

// ScanResult is the terminal record for one repository: either its
// dependencies and matched advisories, or the error that ended its scan.
type ScanResult struct {
	Repo            string
	Dependencies    deps.DependencySet
	Vulnerabilities []advisory.Match
	Error           string
}

// Failed reports whether the scan ended in an error.
func (r ScanResult) Failed() bool { return r.Error != "" }

// Errored builds a failed result.
func Errored(repo string, err error) ScanResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ScanResult{Repo: repo, Error: msg}
}

type successJSON struct {
	Repo            string             `json:"repo_name"`
	Dependencies    deps.DependencySet `json:"dependencies"`
	Vulnerabilities []advisory.Match   `json:"vulnerabilities"`
}

type errorJSON struct {
	Repo  string `json:"repo_name"`
	Error string `json:"error"`
}

// MarshalJSON writes {repo_name, error} for failed scans and
// {repo_name, dependencies, vulnerabilities} otherwise.
func (r ScanResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(errorJSON{Repo: r.Repo, Error: r.Error})
	}
	out := successJSON{Repo: r.Repo, Dependencies: r.Dependencies, Vulnerabilities: r.Vulnerabilities}
	if out.Dependencies == nil {
		out.Dependencies = deps.NewDependencySet()
	}
	if out.Vulnerabilities == nil {
		out.Vulnerabilities = []advisory.Match{}
	}
	return json.Marshal(out)
}

func (r *ScanResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Repo            string             `json:"repo_name"`
		Error           *string            `json:"error"`
		Dependencies    deps.DependencySet `json:"dependencies"`
		Vulnerabilities []advisory.Match   `json:"vulnerabilities"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Repo == "" {
		return fmt.Errorf("scan result without repo_name")
	}

	if raw.Error != nil {
		msg := *raw.Error
		if msg == "" {
			msg = "unknown error"
		}
		*r = ScanResult{Repo: raw.Repo, Error: msg}
		return nil
	}

	if raw.Dependencies == nil {
		raw.Dependencies = deps.NewDependencySet()
	}
	if raw.Vulnerabilities == nil {
		raw.Vulnerabilities = []advisory.Match{}
	}
	// Indented reports carry indented advisory payloads; store them compact
	// so a decoded result equals the one that was written.
	for i, m := range raw.Vulnerabilities {
		var buf bytes.Buffer
		if err := json.Compact(&buf, m.Advisories); err == nil {
			raw.Vulnerabilities[i].Advisories = buf.Bytes()
		}
	}
	*r = ScanResult{Repo: raw.Repo, Dependencies: raw.Dependencies, Vulnerabilities: raw.Vulnerabilities}
	return nil
}
