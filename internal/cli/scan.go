package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hawkeye/internal/config"
	"github.com/matzehuels/hawkeye/pkg/observability"
	"github.com/matzehuels/hawkeye/pkg/pipeline"
	"github.com/matzehuels/hawkeye/pkg/report"
)

// scanFlags registers the flags shared by scan and serve. They are read
// through config.Load, which binds them by name.
func scanFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("token", "", "GitHub token (env GITHUB_TOKEN)")
	f.String("org", "", "GitHub organization (env ORGANIZATION)")
	f.StringSlice("exclude", nil, "repository names to skip (env EXCLUDED_REPOS)")
	f.Int("workers", 1, "repositories scanned concurrently")
	f.String("cache", config.CacheFile, "cache backend: file, redis or none")
	f.String("cache-dir", "", "file cache directory")
	f.String("redis-url", "", "Redis URL for the redis cache backend")
	f.String("mongo-uri", "", "also store results in MongoDB")
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan every repository of a GitHub organization",
		Long: `Scan clones each repository of the organization, extracts its npm, yarn
and pip dependencies, looks every dependency up in the GitHub advisory
database and writes the results to a JSON report.`,
		Example: `  hawkeye scan --org acme
  GITHUB_TOKEN=ghp_xxx ORGANIZATION=acme EXCLUDED_REPOS=legacy,docs hawkeye scan
  hawkeye scan --org acme --workers 4 -o reports/acme.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateScan(); err != nil {
				return err
			}
			interactive := !noProgress && c.Logger.GetLevel() > log.DebugLevel && isatty.IsTerminal(os.Stdout.Fd())
			return c.runScan(cmd.Context(), cfg, interactive)
		},
	}

	scanFlags(cmd)
	cmd.Flags().StringP("output", "o", report.DefaultPath, "report file")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "log progress instead of the live display")
	return cmd
}

func (c *CLI) runScan(ctx context.Context, cfg *config.Config, interactive bool) error {
	org := cfg.GitHub.Organization
	fmt.Println(banner(org))
	printNewline()

	store, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	gh := newGitHubClient(cfg, store)
	runner := c.newRunner(cfg, gh)

	sink, closeSink, err := c.newSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	src := pipeline.GitHubOrg(gh, org)
	var run *pipeline.Run
	if interactive {
		run, err = c.scanWithProgress(ctx, runner, src, org)
	} else {
		prog := newProgress(loggerFromContext(ctx))
		run, err = runner.ScanOrg(ctx, src)
		if run != nil {
			prog.done(fmt.Sprintf("Scanned %d repositories", len(run.Results)))
		}
	}
	if run == nil {
		return err
	}
	if err == nil {
		err = ctx.Err()
	}
	// An interrupted scan still reports what it finished.
	interrupted := err

	writeCtx := context.WithoutCancel(ctx)
	var sp *Spinner
	if interactive {
		sp = newSpinner("Saving report...")
		sp.Start()
	}
	err = sink.Write(writeCtx, run)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	summary := report.SummarizeRun(run)
	fmt.Println(renderSummary(summary))
	printSuccess("Report saved")
	printFile(cfg.Scan.Output)

	if interrupted != nil {
		printWarning("Scan interrupted; the report is incomplete")
		return interrupted
	}

	if err := c.newNotifier(cfg).Notify(writeCtx, org, summary); err != nil {
		c.Logger.Warn("slack notification failed", "error", err)
	}

	printNewline()
	printNextStep("Show this report again", "hawkeye report "+cfg.Scan.Output)
	return nil
}

// scanWithProgress runs the scan behind the live progress display. Log
// output is held back until the display exits.
func (c *CLI) scanWithProgress(ctx context.Context, runner *pipeline.Runner, src pipeline.RepoSource, org string) (*pipeline.Run, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var logs bytes.Buffer
	c.Logger.SetOutput(&logs)
	defer func() {
		c.Logger.SetOutput(c.logOut)
		_, _ = io.Copy(c.logOut, &logs)
	}()

	prog := tea.NewProgram(NewProgressModel(org, cancel))
	runner.Hooks = observability.MultiScan(observability.Scan(), programHooks{p: prog})

	type result struct {
		run *pipeline.Run
		err error
	}
	done := make(chan result, 1)
	go func() {
		run, err := runner.ScanOrg(ctx, src)
		prog.Send(scanDoneMsg{})
		done <- result{run, err}
	}()

	final, err := prog.Run()
	if err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("progress display: %w", err)
	}
	res := <-done
	if m, ok := final.(ProgressModel); ok && m.Interrupted {
		return res.run, context.Canceled
	}
	return res.run, res.err
}
