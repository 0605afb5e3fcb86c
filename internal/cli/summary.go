package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/hawkeye/pkg/deps"
	"github.com/matzehuels/hawkeye/pkg/report"
)

// renderSummary renders the end-of-scan report: totals, a dependency table
// and the vulnerability tree.
func renderSummary(s *report.Summary) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Scan Summary"))
	b.WriteString("\n")
	b.WriteString(renderTotals(s))
	b.WriteString("\n\n")

	if len(s.Repos) > 0 {
		b.WriteString(renderDependencyTable(s))
		b.WriteString("\n\n")
	}

	if len(s.Vulnerable) > 0 {
		b.WriteString(StyleTitle.Render("Vulnerable Dependencies"))
		b.WriteString("\n")
		b.WriteString(renderVulnerabilityTree(s))
		b.WriteString("\n")
	} else if s.Successful > 0 {
		b.WriteString(StyleSuccess.Render(iconSuccess + " No known advisories for any dependency"))
		b.WriteString("\n")
	}

	if len(s.Errors) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleTitle.Render("Failed Repositories"))
		b.WriteString("\n")
		for _, e := range s.Errors {
			b.WriteString(styleIconError.Render(iconError) + " " + StyleValue.Render(e.Repo) + " " + StyleDim.Render(e.Error))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderTotals(s *report.Summary) string {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	line := func(key, value string) string {
		return keyStyle.Render(key) + " " + value
	}

	lines := []string{
		line("Repositories", StyleNumber.Render(strconv.Itoa(s.Total))),
		line("Successful", StyleSuccess.Render(strconv.Itoa(s.Successful))),
		line("Failed", failedStyle(s.Failed).Render(strconv.Itoa(s.Failed))),
	}
	if len(s.Skipped) > 0 {
		lines = append(lines, line("Skipped", StyleDim.Render(strings.Join(s.Skipped, ", "))))
	}
	lines = append(lines, line("Vulnerable", failedStyle(s.VulnerableDependencies()).Render(strconv.Itoa(s.VulnerableDependencies()))))
	if s.Duration > 0 {
		lines = append(lines, line("Scan time", StyleValue.Render(s.Duration.Round(time.Millisecond).String())))
	}
	return strings.Join(lines, "\n")
}

func failedStyle(n int) lipgloss.Style {
	if n > 0 {
		return StyleDanger
	}
	return StyleDim
}

// renderDependencyTable lists per-repository dependency counts.
func renderDependencyTable(s *report.Summary) string {
	headers := []string{"Repository"}
	for _, eco := range deps.Ecosystems {
		headers = append(headers, string(eco))
	}
	headers = append(headers, "Total", "Vulnerable")

	rows := make([][]string, 0, len(s.Repos))
	for _, r := range s.Repos {
		row := []string{r.Repo}
		for _, eco := range deps.Ecosystems {
			row = append(row, strconv.Itoa(r.Counts[eco]))
		}
		row = append(row, strconv.Itoa(r.Total()), strconv.Itoa(r.Vulnerabilities))
		rows = append(rows, row)
	}

	vulnCol := len(headers) - 1
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col > 0 {
				base = base.Align(lipgloss.Right)
			}
			if col == vulnCol && row >= 0 && row < len(s.Repos) && s.Repos[row].Vulnerabilities > 0 {
				return base.Foreground(colorRed).Bold(true)
			}
			if col == 0 {
				return base.Foreground(colorWhite)
			}
			return base.Foreground(colorGray)
		})
	return t.Render()
}

// renderVulnerabilityTree groups vulnerable dependencies by repository.
func renderVulnerabilityTree(s *report.Summary) string {
	root := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(styleBorder)

	for _, rv := range s.Vulnerable {
		repo := tree.Root(StyleValue.Bold(true).Render(rv.Repo)).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(styleBorder)
		for _, d := range rv.Dependencies {
			repo.Child(fmt.Sprintf("%s %s %s",
				StyleDanger.Render(d.Name),
				StyleDim.Render(d.Version+" ("+string(d.Type)+")"),
				StyleWarning.Render(plural(d.Advisories, "advisory", "advisories"))))
		}
		root.Child(repo)
	}
	return root.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
