// Package pipeline scans every repository of an organization for
// dependencies and known advisories.
//
// # Architecture
//
// Each repository moves through fixed stages:
//
//  1. Cloning: the repository is cloned into its own temporary directory
//  2. Locating and Parsing: manifests are found and parsed by [deps.Extractor]
//  3. LookingUpAdvisories: every dependency name is checked by [advisory.Matcher]
//  4. Done
//
// Any failure or panic along the way ends the repository in an errored
// [ScanResult]; it never aborts the batch. The temporary directory is
// removed on every exit path.
//
// # Usage
//
//	runner := pipeline.NewRunner(extractor, gitClient, matcher, logger)
//	runner.Workers = 4
//	run, err := runner.ScanOrg(ctx, pipeline.GitHubOrg(client, "acme"))
//
// Only listing the organization's repositories can fail [Runner.ScanOrg].
//
// [deps.Extractor]: github.com/matzehuels/hawkeye/pkg/deps.Extractor
// [advisory.Matcher]: github.com/matzehuels/hawkeye/pkg/advisory.Matcher
package pipeline

import (
	"context"
	"slices"
	"time"
)

// Stage names a step of a repository scan.
type Stage string

const (
	StageCloning             Stage = "cloning"
	StageLocating            Stage = "locating"
	StageParsing             Stage = "parsing"
	StageLookingUpAdvisories Stage = "looking_up_advisories"
	StageDone                Stage = "done"
	StageErrored             Stage = "errored"
)

// DefaultWorkers scans repositories one at a time.
const DefaultWorkers = 1

// Repo identifies a repository to scan.
type Repo struct {
	Name     string `json:"name"`
	CloneURL string `json:"clone_url"`
}

// RepoSource lists the repositories of an organization.
type RepoSource interface {
	ListRepos(ctx context.Context) ([]Repo, error)
}

// RepoSourceFunc adapts a function to a [RepoSource].
type RepoSourceFunc func(ctx context.Context) ([]Repo, error)

func (f RepoSourceFunc) ListRepos(ctx context.Context) ([]Repo, error) { return f(ctx) }

// StaticRepos is a fixed list of repositories.
type StaticRepos []Repo

func (s StaticRepos) ListRepos(context.Context) ([]Repo, error) { return slices.Clone(s), nil }

// Cloner materializes a repository working tree at dest.
type Cloner interface {
	Clone(ctx context.Context, url, dest string) error
}

// Run is the outcome of one organization scan.
type Run struct {
	ID       string       `json:"id"`
	Started  time.Time    `json:"started_at"`
	Finished time.Time    `json:"finished_at"`
	Skipped  []string     `json:"skipped,omitempty"`
	Results  []ScanResult `json:"results"`
}

// Duration is the wall time of the run.
func (r *Run) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// Succeeded counts results without an error.
func (r *Run) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if !res.Failed() {
			n++
		}
	}
	return n
}

// Failed counts errored results.
func (r *Run) Failed() int { return len(r.Results) - r.Succeeded() }
