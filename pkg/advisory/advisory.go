// Package advisory attaches security advisories to extracted dependencies.
//
// Lookups are keyed by package name only. A [Source] failure for a name is
// treated as "no data" and never fails the scan; only cancellation of the
// context ends a match early.
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hawkeye/pkg/deps"
)

// Source returns the raw advisory list for a package name.
type Source interface {
	Lookup(ctx context.Context, name string) (json.RawMessage, error)
}

// SourceFunc adapts a function to a [Source].
type SourceFunc func(ctx context.Context, name string) (json.RawMessage, error)

func (f SourceFunc) Lookup(ctx context.Context, name string) (json.RawMessage, error) {
	return f(ctx, name)
}

// Match is one dependency occurrence with at least one advisory.
type Match struct {
	Dependency string          `json:"dependency"`
	Type       deps.Ecosystem  `json:"type"`
	Version    string          `json:"version"`
	Advisories json.RawMessage `json:"vulnerabilities"`
}

// Stats describes the lookups performed by one [Matcher.Match] call.
type Stats struct {
	Lookups  int // distinct names queried
	Failures int // lookups treated as no data
	Duration time.Duration
}

// Matcher queries a Source for every dependency in a set.
type Matcher struct {
	source Source
	logger *log.Logger
}

// NewMatcher creates a Matcher. If logger is nil, log.Default() is used.
func NewMatcher(source Source, logger *log.Logger) *Matcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Matcher{source: source, logger: logger}
}

// Match returns one Match per dependency occurrence whose name has a
// non-empty advisory list, in ecosystem order (npm, yarn, python) then
// set order. Each distinct name is looked up once per call.
//
// If ctx is cancelled before every name was answered, Match stops and
// returns ctx.Err() with the partial matches. Lookups failing because of
// the cancellation are not counted as failures.
func (m *Matcher) Match(ctx context.Context, set deps.DependencySet) ([]Match, Stats, error) {
	start := time.Now()
	var stats Stats
	answers := make(map[string]json.RawMessage)

	lookup := func(name string) (json.RawMessage, error) {
		if raw, ok := answers[name]; ok {
			return raw, nil
		}
		stats.Lookups++
		raw, err := m.source.Lookup(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			stats.Failures++
			m.logger.Debug("advisory lookup failed", "dependency", name, "err", err)
			raw = nil
		} else if !nonEmptyList(raw) {
			raw = nil
		}
		answers[name] = raw
		return raw, nil
	}

	matches := []Match{}
	for _, eco := range deps.Ecosystems {
		for _, d := range set[eco] {
			if err := ctx.Err(); err != nil {
				stats.Duration = time.Since(start)
				return matches, stats, err
			}
			raw, err := lookup(d.Name)
			if err != nil {
				stats.Duration = time.Since(start)
				return matches, stats, err
			}
			if raw == nil {
				continue
			}
			matches = append(matches, Match{
				Dependency: d.Name,
				Type:       eco,
				Version:    d.Version,
				Advisories: raw,
			})
		}
	}

	stats.Duration = time.Since(start)
	return matches, stats, ctx.Err()
}

// nonEmptyList reports whether raw is a JSON array with at least one element.
func nonEmptyList(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	return len(items) > 0
}
