package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hawkeye/internal/config"
	"github.com/matzehuels/hawkeye/internal/server"
	"github.com/matzehuels/hawkeye/pkg/cache"
	hawkerrors "github.com/matzehuels/hawkeye/pkg/errors"
	"github.com/matzehuels/hawkeye/pkg/metrics"
	"github.com/matzehuels/hawkeye/pkg/observability"
	"github.com/matzehuels/hawkeye/pkg/pipeline"
	"github.com/matzehuels/hawkeye/pkg/report"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scan results, metrics and on-demand scans over HTTP",
		Long: `Serve exposes the latest report under /api/results, Prometheus metrics
under /metrics, and starts scans on POST /api/scans. Scanning is enabled
when a GitHub token and organization are configured.`,
		Example: `  hawkeye serve --addr :8080 --results scan_results.json
  curl -X POST localhost:8080/api/scans`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runServer(cmd.Context(), cfg)
		},
	}

	scanFlags(cmd)
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("results", report.DefaultPath, "report served until the first scan completes")
	return cmd
}

func (c *CLI) runServer(ctx context.Context, cfg *config.Config) error {
	m := metrics.New(prometheus.NewRegistry())
	observability.SetScanHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)

	results, err := report.ReadFile(cfg.Server.ResultsPath)
	if err != nil {
		c.Logger.Warn("no initial results", "path", cfg.Server.ResultsPath, "error", err)
		results = nil
	}

	var scan server.ScanFunc
	if err := cfg.ValidateScan(); err != nil {
		c.Logger.Warn("scanning disabled", "reason", err)
	} else {
		store, err := newCache(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		scan, err = c.serverScan(ctx, cfg, store)
		if err != nil {
			return err
		}
	}

	srv := server.New(scan, results, m, c.Logger)
	err = srv.ListenAndServe(ctx, cfg.Server.Addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// serverScan builds the scan run by POST /api/scans: scan, persist to
// every sink, notify.
func (c *CLI) serverScan(ctx context.Context, cfg *config.Config, store cache.Cache) (server.ScanFunc, error) {
	gh := newGitHubClient(cfg, store)
	runner := c.newRunner(cfg, gh)
	notifier := c.newNotifier(cfg)

	sink, closeSink, err := c.newSink(ctx, cfg)
	if err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		closeSink()
	}()

	org := cfg.GitHub.Organization
	src := pipeline.GitHubOrg(gh, org)
	return func(ctx context.Context) (*pipeline.Run, error) {
		run, err := runner.ScanOrg(ctx, src)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, hawkerrors.Wrap(hawkerrors.ErrCodeInterrupted, err, "scan interrupted")
		}
		if err := sink.Write(ctx, run); err != nil {
			c.Logger.Error("write report", "error", err)
		}
		if err := notifier.Notify(ctx, org, report.SummarizeRun(run)); err != nil {
			c.Logger.Warn("slack notification failed", "error", err)
		}
		return run, nil
	}, nil
}

