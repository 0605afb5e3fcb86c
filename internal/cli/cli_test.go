package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hawkeye/pkg/advisory"
	"github.com/matzehuels/hawkeye/pkg/deps"
	"github.com/matzehuels/hawkeye/pkg/errors"
	"github.com/matzehuels/hawkeye/pkg/pipeline"
	"github.com/matzehuels/hawkeye/pkg/report"
)

func sampleResults() []pipeline.ScanResult {
	web := deps.NewDependencySet()
	web.Add(deps.EcosystemNPM, deps.Dependency{Name: "lodash", Version: "^4.17.0"})
	web.Add(deps.EcosystemPython, deps.Dependency{Name: "flask", Version: deps.UnknownVersion})
	return []pipeline.ScanResult{
		{
			Repo:         "web",
			Dependencies: web,
			Vulnerabilities: []advisory.Match{{
				Dependency: "lodash",
				Type:       deps.EcosystemNPM,
				Version:    "^4.17.0",
				Advisories: json.RawMessage(`[{"ghsa_id":"GHSA-jf85-cpcp-j695","cve_id":"CVE-2019-10744","severity":"critical","summary":"Prototype Pollution in lodash","html_url":"https://github.com/advisories/GHSA-jf85-cpcp-j695"}]`),
			}},
		},
		{Repo: "docs", Dependencies: deps.NewDependencySet(), Vulnerabilities: []advisory.Match{}},
		{Repo: "private", Error: "clone private: authentication failed"},
	}
}

func writeReport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan_results.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, report.WriteJSON(f, sampleResults()))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(out.String()), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"scan", "serve", "report", "config", "cache", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestReportCommand_JSON(t *testing.T) {
	path := writeReport(t)

	out, err := execute(t, "report", path, "--json")
	require.NoError(t, err)

	var s report.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.VulnerableDependencies())
}

func TestReportCommand_Text(t *testing.T) {
	out, err := execute(t, "report", writeReport(t))
	require.NoError(t, err)
	for _, want := range []string{"Scan Summary", "web", "docs", "lodash", "1 advisory", "private", "authentication failed"} {
		assert.Contains(t, out, want)
	}
}

func TestReportCommand_Repo(t *testing.T) {
	path := writeReport(t)

	out, err := execute(t, "report", path, "--repo", "web")
	require.NoError(t, err)
	assert.Contains(t, out, "GHSA-jf85-cpcp-j695 / CVE-2019-10744")
	assert.Contains(t, out, "Prototype Pollution in lodash")
	assert.Contains(t, out, "npm 1 · python 1")

	out, err = execute(t, "report", path, "--repo", "private")
	require.NoError(t, err)
	assert.Contains(t, out, "authentication failed")

	_, err = execute(t, "report", path, "--repo", "nope")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestReportCommand_Missing(t *testing.T) {
	_, err := execute(t, "report", filepath.Join(t.TempDir(), "none.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("GITHUB_TOKEN", "ghp_secretsecret")
	t.Setenv("ORGANIZATION", "acme")

	_, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "hawkeye.toml"))

	_, err = execute(t, "config", "init")
	assert.True(t, errors.Is(err, errors.ErrCodeConflict))

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `organization = "acme"`)
	assert.Contains(t, out, "ghp_****")
	assert.NotContains(t, out, "secretsecret")
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", dir)

	out, err := execute(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hawkeye"), strings.TrimSpace(out))
}

func TestScanCommand_RequiresOrganization(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("GITHUB_TOKEN", "ghp_x")
	t.Setenv("ORGANIZATION", "")
	t.Setenv("HAWKEYE_GITHUB_ORGANIZATION", "")

	_, err := execute(t, "scan", "--no-progress")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "hawkeye")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}
