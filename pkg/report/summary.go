package report

import (
	"slices"
	"time"

	"github.com/matzehuels/hawkeye/pkg/deps"
	"github.com/matzehuels/hawkeye/pkg/pipeline"
)

// Summary is the human-facing digest of a set of results.
type Summary struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Skipped    []string      `json:"skipped,omitempty"`
	Duration   time.Duration `json:"duration"`

	Repos  []RepoSummary `json:"repos"`
	Errors []RepoError   `json:"errors,omitempty"`

	// Vulnerable lists, per repository with matches, the vulnerable
	// dependencies in report order.
	Vulnerable []RepoVulnerabilities `json:"vulnerable,omitempty"`
}

// RepoSummary counts the dependencies of one successfully scanned repository.
type RepoSummary struct {
	Repo            string                 `json:"repo"`
	Counts          map[deps.Ecosystem]int `json:"counts"`
	Vulnerabilities int                    `json:"vulnerabilities"`
}

// Total is the number of dependencies across ecosystems.
func (r RepoSummary) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// RepoError is one failed repository.
type RepoError struct {
	Repo  string `json:"repo"`
	Error string `json:"error"`
}

// RepoVulnerabilities groups the vulnerable dependencies of one repository.
type RepoVulnerabilities struct {
	Repo         string          `json:"repo"`
	Dependencies []VulnerableDep `json:"dependencies"`
}

// VulnerableDep is a dependency with its advisory count.
type VulnerableDep struct {
	Name       string         `json:"name"`
	Type       deps.Ecosystem `json:"type"`
	Version    string         `json:"version"`
	Advisories int            `json:"advisories"`
}

// Summarize derives a Summary from results. Repositories keep their report
// order.
func Summarize(results []pipeline.ScanResult) *Summary {
	s := &Summary{Total: len(results), Repos: []RepoSummary{}}
	for _, res := range results {
		if res.Failed() {
			s.Failed++
			s.Errors = append(s.Errors, RepoError{Repo: res.Repo, Error: res.Error})
			continue
		}
		s.Successful++
		s.Repos = append(s.Repos, RepoSummary{
			Repo:            res.Repo,
			Counts:          res.Dependencies.Counts(),
			Vulnerabilities: len(res.Vulnerabilities),
		})

		if len(res.Vulnerabilities) == 0 {
			continue
		}
		rv := RepoVulnerabilities{Repo: res.Repo}
		for _, m := range res.Vulnerabilities {
			rv.Dependencies = append(rv.Dependencies, VulnerableDep{
				Name:       m.Dependency,
				Type:       m.Type,
				Version:    m.Version,
				Advisories: countAdvisories(m.Advisories),
			})
		}
		s.Vulnerable = append(s.Vulnerable, rv)
	}
	return s
}

// SummarizeRun adds run-level facts to [Summarize].
func SummarizeRun(run *pipeline.Run) *Summary {
	s := Summarize(run.Results)
	s.Skipped = slices.Clone(run.Skipped)
	s.Duration = run.Duration()
	return s
}

// VulnerableDependencies is the number of vulnerable dependency occurrences.
func (s *Summary) VulnerableDependencies() int {
	n := 0
	for _, rv := range s.Vulnerable {
		n += len(rv.Dependencies)
	}
	return n
}
