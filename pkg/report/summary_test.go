package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/hawkeye/pkg/deps"
	"github.com/matzehuels/hawkeye/pkg/pipeline"
)

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults())

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Successful)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, []RepoError{{Repo: "private", Error: "clone private: exit status 128"}}, s.Errors)

	if assert.Len(t, s.Repos, 2) {
		assert.Equal(t, "web", s.Repos[0].Repo)
		assert.Equal(t, 3, s.Repos[0].Total())
		assert.Equal(t, 2, s.Repos[0].Counts[deps.EcosystemNPM])
		assert.Equal(t, 0, s.Repos[0].Counts[deps.EcosystemYarn])
		assert.Equal(t, 1, s.Repos[0].Vulnerabilities)
		assert.Equal(t, "docs", s.Repos[1].Repo)
		assert.Equal(t, 0, s.Repos[1].Total())
	}

	assert.Equal(t, []RepoVulnerabilities{{
		Repo: "web",
		Dependencies: []VulnerableDep{
			{Name: "lodash", Type: deps.EcosystemNPM, Version: "^4.17.0", Advisories: 2},
		},
	}}, s.Vulnerable)
	assert.Equal(t, 1, s.VulnerableDependencies())
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.NotNil(t, s.Repos)
	assert.Empty(t, s.Vulnerable)
}

func TestSummarizeRun(t *testing.T) {
	start := time.Now()
	run := &pipeline.Run{
		Started:  start,
		Finished: start.Add(3 * time.Second),
		Skipped:  []string{"legacy"},
		Results:  sampleResults(),
	}
	s := SummarizeRun(run)
	assert.Equal(t, 3*time.Second, s.Duration)
	assert.Equal(t, []string{"legacy"}, s.Skipped)
}

func TestDecodeAdvisories(t *testing.T) {
	raw := json.RawMessage(`[{"ghsa_id":"GHSA-1","cve_id":"CVE-2024-1","severity":"high","summary":"Prototype pollution","html_url":"https://github.com/advisories/GHSA-1"}]`)
	got := DecodeAdvisories(raw)
	assert.Equal(t, []Advisory{{
		GHSAID:   "GHSA-1",
		CVEID:    "CVE-2024-1",
		Severity: "high",
		Summary:  "Prototype pollution",
		URL:      "https://github.com/advisories/GHSA-1",
	}}, got)

	assert.Nil(t, DecodeAdvisories(json.RawMessage(`{"message":"x"}`)))
	assert.Equal(t, 0, countAdvisories(json.RawMessage(`{}`)))
	assert.Equal(t, 2, countAdvisories(json.RawMessage(`[1,2]`)))
}
