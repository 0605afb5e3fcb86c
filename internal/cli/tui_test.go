package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hawkeye/pkg/observability"
)

func update(t *testing.T, m ProgressModel, msg tea.Msg) (ProgressModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(ProgressModel)
	require.True(t, ok)
	return pm, cmd
}

func TestProgressModel_Flow(t *testing.T) {
	m := NewProgressModel("acme", nil)
	assert.NotNil(t, m.Init())

	m, _ = update(t, m, scanStartMsg{total: 3})
	m, _ = update(t, m, repoSkipMsg{repo: "legacy"})
	m, _ = update(t, m, repoStageMsg{repo: "web", stage: "cloning"})
	m, _ = update(t, m, repoStageMsg{repo: "api", stage: "cloning"})
	m, _ = update(t, m, repoStageMsg{repo: "web", stage: "looking_up_advisories"})

	assert.Equal(t, []string{"web", "api"}, m.Active)
	view := stripANSI(m.View())
	assert.Contains(t, view, "Scanning acme")
	assert.Contains(t, view, "0/3")
	assert.Contains(t, view, "looking up advisories")
	assert.Contains(t, view, "1 skipped")

	m, _ = update(t, m, repoStageMsg{repo: "web", stage: "done"})
	m, _ = update(t, m, repoDoneMsg{repo: "web", outcome: observability.RepoOutcome{Dependencies: 12, Vulnerabilities: 2}})
	m, _ = update(t, m, repoStageMsg{repo: "api", stage: "errored"})
	m, _ = update(t, m, repoDoneMsg{repo: "api", outcome: observability.RepoOutcome{Err: errors.New("clone failed")}})

	assert.Empty(t, m.Active)
	assert.Equal(t, 2, m.Done)
	assert.Equal(t, 1, m.Failed)
	view = stripANSI(m.View())
	assert.Contains(t, view, "2/3")
	assert.Contains(t, view, "12 dependencies, 2 vulnerable")
	assert.Contains(t, view, "clone failed")
	assert.Contains(t, view, "1 failed")

	m, cmd := update(t, m, scanDoneMsg{})
	assert.True(t, m.Finished)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestProgressModel_ValueSemantics(t *testing.T) {
	m := NewProgressModel("acme", nil)
	before, _ := update(t, m, repoStageMsg{repo: "web", stage: "cloning"})
	after, _ := update(t, before, repoStageMsg{repo: "web", stage: "parsing"})

	assert.Equal(t, "cloning", before.Stages["web"])
	assert.Equal(t, "parsing", after.Stages["web"])
	assert.Len(t, after.Active, 1)
}

func TestProgressModel_RecentIsBounded(t *testing.T) {
	m := NewProgressModel("acme", nil)
	for i := 0; i < recentLines+3; i++ {
		m, _ = update(t, m, repoDoneMsg{repo: strings.Repeat("r", i+1)})
	}
	assert.Len(t, m.Recent, recentLines)
	assert.Contains(t, m.Recent[recentLines-1], strings.Repeat("r", recentLines+3))
}

func TestProgressModel_Interrupt(t *testing.T) {
	cancelled := false
	m := NewProgressModel("acme", func() { cancelled = true })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.Interrupted)
	assert.True(t, cancelled)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, progressWidth, len([]rune(stripANSI(progressBar(0, 0)))))
	full := stripANSI(progressBar(4, 4))
	assert.Equal(t, strings.Repeat("█", progressWidth), full)
}

// stripANSI removes SGR escape sequences.
func stripANSI(s string) string {
	var b strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			in = true
		case in && r == 'm':
			in = false
		case !in:
			b.WriteRune(r)
		}
	}
	return b.String()
}
