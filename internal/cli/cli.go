// Package cli implements the hawkeye command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hawkeye/internal/config"
	"github.com/matzehuels/hawkeye/pkg/advisory"
	"github.com/matzehuels/hawkeye/pkg/buildinfo"
	"github.com/matzehuels/hawkeye/pkg/cache"
	"github.com/matzehuels/hawkeye/pkg/deps/languages"
	"github.com/matzehuels/hawkeye/pkg/git"
	"github.com/matzehuels/hawkeye/pkg/integrations/github"
	"github.com/matzehuels/hawkeye/pkg/notify"
	"github.com/matzehuels/hawkeye/pkg/pipeline"
	"github.com/matzehuels/hawkeye/pkg/report"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// logOut is where Logger writes; the progress display redirects the
	// logger while it owns the terminal.
	logOut io.Writer

	configFile string
	envFile    string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), logOut: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Hawkeye inventories the dependencies of a GitHub organization",
		Long: `Hawkeye clones every repository of a GitHub organization, extracts the
npm, yarn and pip dependencies it declares, and looks each one up in the
GitHub security advisory database.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default ./"+config.FileName+")")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the configuration, with the command's flags taking
// precedence.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		File:    c.configFile,
		EnvFile: c.envFile,
		Flags:   cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// =============================================================================
// Component Factories
// =============================================================================

// newCache opens the configured cache backend. Cached keys are namespaced
// so one Redis database can be shared.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		return cache.WithPrefix(rc, appName), nil
	default:
		if cfg.Cache.Dir == "" {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(cfg.Cache.Dir)
	}
}

func newGitHubClient(cfg *config.Config, c cache.Cache) *github.Client {
	client := github.NewClient(cfg.GitHub.Token, c, cfg.Cache.TTL)
	if cfg.GitHub.BaseURL != "" {
		client = client.WithBaseURL(cfg.GitHub.BaseURL)
	}
	return client
}

// newRunner wires the extractor, the git cloner and the advisory matcher.
func (c *CLI) newRunner(cfg *config.Config, gh *github.Client) *pipeline.Runner {
	cloner := git.NewClient(cfg.GitHub.Token, c.Logger)
	cloner.Depth = cfg.Scan.CloneDepth
	cloner.Timeout = cfg.Scan.CloneTimeout

	matcher := advisory.NewMatcher(advisory.SourceFunc(gh.Advisories), c.Logger)

	r := pipeline.NewRunner(languages.NewExtractor(c.Logger), cloner, matcher, c.Logger)
	r.Workers = cfg.Scan.Workers
	r.Excluded = cfg.Scan.Excluded
	r.TempDir = cfg.Scan.TempDir
	return r
}

// newSink returns the report sinks for a scan: the JSON file, plus MongoDB
// when configured. The returned close function releases the connection.
func (c *CLI) newSink(ctx context.Context, cfg *config.Config) (report.Sink, func(), error) {
	sinks := report.Multi{report.JSONSink{Path: cfg.Scan.Output}}
	closeFn := func() {}

	if cfg.Mongo.URI != "" {
		ms, err := report.NewMongoSink(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, nil, fmt.Errorf("mongodb: %w", err)
		}
		ms.Organization = cfg.GitHub.Organization
		sinks = append(sinks, ms)
		closeFn = func() {
			if err := ms.Close(context.Background()); err != nil {
				c.Logger.Warn("disconnect mongodb", "error", err)
			}
		}
	}
	return sinks, closeFn, nil
}

func (c *CLI) newNotifier(cfg *config.Config) notify.Notifier {
	s := cfg.Slack
	switch {
	case s.WebhookURL != "":
		n := notify.NewSlackWebhook(s.WebhookURL, c.Logger)
		n.OnlyVulnerable = s.OnlyVulnerable
		return n
	case s.Token != "" && s.Channel != "":
		n := notify.NewSlack(s.Token, s.Channel, c.Logger)
		n.OnlyVulnerable = s.OnlyVulnerable
		return n
	default:
		return notify.Nop{}
	}
}
