package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hawkeye/pkg/deps"
	"github.com/matzehuels/hawkeye/pkg/errors"
	"github.com/matzehuels/hawkeye/pkg/pipeline"
	"github.com/matzehuels/hawkeye/pkg/report"
)

// reportCommand creates the report command.
func (c *CLI) reportCommand() *cobra.Command {
	var (
		asJSON bool
		repo   string
	)

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Summarize a saved scan report",
		Long: `Report reads a JSON report written by "hawkeye scan" and prints its
summary. With --repo it lists the advisories found in one repository.`,
		Example: `  hawkeye report
  hawkeye report reports/acme.json --repo web
  hawkeye report --json | jq .vulnerable`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := report.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			results, err := report.ReadFile(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if repo != "" {
				res, ok := findResult(results, repo)
				if !ok {
					return errors.New(errors.ErrCodeNotFound, "repository %q is not in %s", repo, path)
				}
				fmt.Fprint(out, renderRepoDetails(res))
				return nil
			}

			summary := report.Summarize(results)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprintln(out, renderSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().StringVar(&repo, "repo", "", "show advisory details for one repository")
	return cmd
}

func findResult(results []pipeline.ScanResult, repo string) (pipeline.ScanResult, bool) {
	for _, r := range results {
		if r.Repo == repo {
			return r, true
		}
	}
	return pipeline.ScanResult{}, false
}

// renderRepoDetails lists every vulnerable dependency of one repository
// with its advisories.
func renderRepoDetails(res pipeline.ScanResult) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(res.Repo))
	b.WriteString("\n")

	if res.Failed() {
		b.WriteString(styleIconError.Render(iconError) + " " + res.Error + "\n")
		return b.String()
	}

	counts := res.Dependencies.Counts()
	var parts []string
	for _, eco := range deps.Ecosystems {
		if n := counts[eco]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", eco, n))
		}
	}
	if len(parts) == 0 {
		b.WriteString(StyleDim.Render("no dependencies") + "\n")
	} else {
		b.WriteString(StyleDim.Render(strings.Join(parts, " · ")) + "\n")
	}

	if len(res.Vulnerabilities) == 0 {
		b.WriteString(StyleSuccess.Render(iconSuccess+" no known advisories") + "\n")
		return b.String()
	}

	for _, m := range res.Vulnerabilities {
		b.WriteString("\n")
		b.WriteString(StyleDanger.Render(m.Dependency) + " " + StyleDim.Render(m.Version+" ("+string(m.Type)+")") + "\n")
		advisories := report.DecodeAdvisories(m.Advisories)
		for _, a := range advisories {
			id := a.GHSAID
			if a.CVEID != "" {
				id += " / " + a.CVEID
			}
			b.WriteString(fmt.Sprintf("  %s %s %s\n", severityStyle(a.Severity).Render(fmt.Sprintf("%-8s", a.Severity)), StyleValue.Render(id), a.Summary))
			if a.URL != "" {
				b.WriteString("    " + StyleDim.Render(a.URL) + "\n")
			}
		}
	}
	return b.String()
}

func severityStyle(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "critical", "high":
		return StyleDanger.Bold(true)
	case "medium", "moderate":
		return StyleWarning
	default:
		return StyleDim
	}
}
