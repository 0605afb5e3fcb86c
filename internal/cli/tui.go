package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/hawkeye/pkg/errors"
	"github.com/matzehuels/hawkeye/pkg/observability"
	"github.com/matzehuels/hawkeye/pkg/pipeline"
)

// =============================================================================
// Messages
// =============================================================================

type (
	scanStartMsg struct{ total int }
	repoStageMsg struct{ repo, stage string }
	repoSkipMsg  struct{ repo string }
	repoDoneMsg  struct {
		repo    string
		outcome observability.RepoOutcome
	}
	scanDoneMsg struct{}
	tickMsg     time.Time
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	progressWidth = 30
	recentLines   = 5
)

// =============================================================================
// ProgressModel - Live scan progress
// =============================================================================

// ProgressModel renders the progress of an organization scan. It is fed by
// [programHooks] and quits when the scan finishes or the user interrupts.
type ProgressModel struct {
	Org         string
	Total       int
	Done        int
	Failed      int
	Skipped     int
	Active      []string
	Stages      map[string]string
	Recent      []string
	Finished    bool
	Interrupted bool

	frame  int
	cancel context.CancelFunc
}

// NewProgressModel creates a progress model. cancel is called when the
// user presses ctrl+c.
func NewProgressModel(org string, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{Org: org, Stages: make(map[string]string), cancel: cancel}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Init() tea.Cmd {
	return tick()
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Interrupted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case scanStartMsg:
		m.Total = msg.total
	case repoSkipMsg:
		m.Skipped++
	case repoStageMsg:
		if st := pipeline.Stage(msg.stage); st == pipeline.StageDone || st == pipeline.StageErrored {
			break
		}
		if _, ok := m.Stages[msg.repo]; !ok {
			m.Active = append(m.Active, msg.repo)
		}
		m.Stages = cloneStages(m.Stages)
		m.Stages[msg.repo] = msg.stage
	case repoDoneMsg:
		m.Active = slices.DeleteFunc(slices.Clone(m.Active), func(r string) bool { return r == msg.repo })
		m.Stages = cloneStages(m.Stages)
		delete(m.Stages, msg.repo)
		m.Done++
		if msg.outcome.Err != nil {
			m.Failed++
		}
		m.Recent = append(m.Recent, recentLine(msg.repo, msg.outcome))
		if len(m.Recent) > recentLines {
			m.Recent = m.Recent[len(m.Recent)-recentLines:]
		}
	case scanDoneMsg:
		m.Finished = true
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

// cloneStages keeps value semantics: models returned from Update must not
// share the map with earlier copies.
func cloneStages(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

func recentLine(repo string, o observability.RepoOutcome) string {
	if o.Err != nil {
		return styleIconError.Render(iconError) + " " + repo + " " + StyleDim.Render(truncate(errors.UserMessage(o.Err), 60))
	}
	detail := fmt.Sprintf("%d dependencies", o.Dependencies)
	if o.Vulnerabilities > 0 {
		detail += ", " + StyleDanger.Render(fmt.Sprintf("%d vulnerable", o.Vulnerabilities))
	}
	return styleIconSuccess.Render(iconSuccess) + " " + repo + " " + StyleDim.Render(detail)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func (m ProgressModel) View() string {
	if m.Finished || m.Interrupted {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Scanning " + m.Org))
	b.WriteString("  ")
	b.WriteString(progressBar(m.Done, m.Total))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d", m.Done, m.Total)))
	if m.Failed > 0 {
		b.WriteString("  " + StyleDanger.Render(fmt.Sprintf("%d failed", m.Failed)))
	}
	if m.Skipped > 0 {
		b.WriteString("  " + StyleDim.Render(fmt.Sprintf("%d skipped", m.Skipped)))
	}
	b.WriteString("\n\n")

	frame := styleIconSpinner.Render(spinnerFrames[m.frame%len(spinnerFrames)])
	for _, repo := range m.Active {
		stage := strings.ReplaceAll(m.Stages[repo], "_", " ")
		b.WriteString(fmt.Sprintf("%s %s %s\n", frame, StyleValue.Render(repo), StyleDim.Render(stage)))
	}
	for _, line := range m.Recent {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("ctrl+c to cancel"))
	return b.String()
}

func progressBar(done, total int) string {
	filled := 0
	if total > 0 {
		filled = done * progressWidth / total
	}
	return lipgloss.NewStyle().Foreground(colorCyan).Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", progressWidth-filled))
}

// =============================================================================
// Hooks - forward scan events to the program
// =============================================================================

// programHooks adapts a running tea.Program to observability.ScanHooks.
type programHooks struct {
	p *tea.Program
}

func (h programHooks) OnScanStart(_ context.Context, _ string, repos int) {
	h.p.Send(scanStartMsg{total: repos})
}

func (h programHooks) OnRepoSkipped(_ context.Context, repo string) {
	h.p.Send(repoSkipMsg{repo: repo})
}

func (h programHooks) OnStage(_ context.Context, repo, stage string) {
	h.p.Send(repoStageMsg{repo: repo, stage: stage})
}

func (h programHooks) OnRepoComplete(_ context.Context, repo string, o observability.RepoOutcome) {
	h.p.Send(repoDoneMsg{repo: repo, outcome: o})
}

func (h programHooks) OnScanComplete(context.Context, string, time.Duration) {}
