// Package pkg provides the core libraries of Hawkeye, a dependency inventory
// and advisory scanner for GitHub organizations.
//
// # Overview
//
// Hawkeye clones every repository of an organization, extracts the
// dependencies declared in its JavaScript and Python manifests, and checks
// each dependency name against the GitHub Advisory Database. The pkg
// directory is organized into these areas:
//
//  1. [deps] - Manifest discovery, package manager detection and parsing
//  2. [advisory] - Advisory matching for extracted dependencies
//  3. [integrations] - HTTP clients for external APIs (GitHub)
//  4. [pipeline] - Orchestration (list → clone → extract → match)
//  5. [report] - Report sinks (JSON file, MongoDB) and summaries
//
// # Architecture
//
// The data flow of one scan:
//
//	GitHub organization
//	         ↓
//	    [integrations/github] (list repositories)
//	         ↓
//	    [git] (shallow clone into a temporary directory)
//	         ↓
//	    [deps] (locate and parse manifests)
//	         ↓
//	    [advisory] (look up advisories per dependency name)
//	         ↓
//	    [report] (scan_results.json, MongoDB, Slack summary)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/hawkeye/pkg/advisory"
//	    "github.com/matzehuels/hawkeye/pkg/cache"
//	    "github.com/matzehuels/hawkeye/pkg/deps/languages"
//	    "github.com/matzehuels/hawkeye/pkg/git"
//	    "github.com/matzehuels/hawkeye/pkg/integrations/github"
//	    "github.com/matzehuels/hawkeye/pkg/pipeline"
//	    "github.com/matzehuels/hawkeye/pkg/report"
//	)
//
//	gh := github.NewClient(token, cache.NewNullCache(), 0)
//	matcher := advisory.NewMatcher(advisory.SourceFunc(gh.Advisories), nil)
//	runner := pipeline.NewRunner(languages.NewExtractor(nil), git.NewClient(token, nil), matcher, nil)
//
//	run, err := runner.ScanOrg(ctx, pipeline.GitHubOrg(gh, "acme"))
//	if err != nil {
//	    return err
//	}
//	return report.JSONSink{Path: report.DefaultPath}.Write(ctx, run)
//
// # Supporting Packages
//
// [cache] - Byte caches with TTL (file, Redis, null) used for HTTP
// responses and advisory lookups.
//
// [httputil] - Retry with backoff and typed HTTP errors.
//
// [errors] - Coded errors with user-facing messages.
//
// [observability] - Hook interfaces for scan progress, cache and HTTP
// events. [metrics] implements them on Prometheus.
//
// [notify] - Slack notifications for finished scans.
//
// [buildinfo] - Version information set at build time.
//
// [deps]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/deps
// [advisory]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/advisory
// [integrations]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/integrations
// [integrations/github]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/integrations/github
// [git]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/git
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/pipeline
// [report]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/report
// [cache]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/metrics
// [notify]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/notify
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/hawkeye/pkg/buildinfo
package pkg
