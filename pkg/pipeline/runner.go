package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/hawkeye/pkg/advisory"
	"github.com/matzehuels/hawkeye/pkg/deps"
	"github.com/matzehuels/hawkeye/pkg/errors"
	"github.com/matzehuels/hawkeye/pkg/observability"
)

// Runner scans repositories. It holds no per-scan state; concurrent calls
// to Run are safe.
type Runner struct {
	Extractor *deps.Extractor
	Cloner    Cloner
	Matcher   *advisory.Matcher
	Logger    *log.Logger

	// Hooks receives progress events. Nil means the globally registered
	// observability.Scan() hooks.
	Hooks observability.ScanHooks
	// Workers is the number of repositories scanned concurrently.
	Workers int
	// Excluded repository names are skipped without a result.
	Excluded []string
	// TempDir is the parent of the per-repository clone directories.
	// Empty means os.TempDir().
	TempDir string
}

// NewRunner creates a sequential runner. If logger is nil, log.Default()
// is used.
func NewRunner(extractor *deps.Extractor, cloner Cloner, matcher *advisory.Matcher, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Extractor: extractor,
		Cloner:    cloner,
		Matcher:   matcher,
		Logger:    logger,
		Workers:   DefaultWorkers,
	}
}

// ScanOrg lists the repositories of src and scans them. Failing to list is
// the only error; individual repositories fail into their results.
func (r *Runner) ScanOrg(ctx context.Context, src RepoSource) (*Run, error) {
	repos, err := src.ListRepos(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeListFailed, err, "list repositories")
	}
	r.Logger.Info("found repositories", "count", len(repos))
	return r.Run(ctx, repos), nil
}

// Run scans repos, skipping excluded names, and returns one result per
// remaining repository in input order.
func (r *Runner) Run(ctx context.Context, repos []Repo) *Run {
	hooks := r.hooks()
	run := &Run{ID: uuid.NewString(), Started: time.Now()}

	var todo []Repo
	for _, repo := range repos {
		if slices.Contains(r.Excluded, repo.Name) {
			r.Logger.Info("skipping excluded repository", "repo", repo.Name)
			run.Skipped = append(run.Skipped, repo.Name)
			hooks.OnRepoSkipped(ctx, repo.Name)
			continue
		}
		todo = append(todo, repo)
	}

	hooks.OnScanStart(ctx, run.ID, len(todo))
	run.Results = make([]ScanResult, len(todo))

	var g errgroup.Group
	g.SetLimit(max(r.Workers, 1))
	for i, repo := range todo {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				run.Results[i] = Errored(repo.Name, err)
				return nil
			}
			run.Results[i] = r.ScanRepo(ctx, repo)
			return nil
		})
	}
	_ = g.Wait()

	run.Finished = time.Now()
	hooks.OnScanComplete(ctx, run.ID, run.Duration())
	r.Logger.Info("scan complete",
		"repos", len(run.Results),
		"failed", run.Failed(),
		"skipped", len(run.Skipped),
		"duration", run.Duration().Round(time.Millisecond))
	return run
}

// ScanRepo runs the full scan of one repository. It never panics and
// never returns an error; failures are recorded in the result.
func (r *Runner) ScanRepo(ctx context.Context, repo Repo) (result ScanResult) {
	hooks := r.hooks()
	logger := r.Logger.With("repo", repo.Name)
	start := time.Now()

	var scanErr error
	defer func() {
		if p := recover(); p != nil {
			scanErr = errors.Panic(p)
			result = Errored(repo.Name, scanErr)
		}
		outcome := observability.RepoOutcome{Err: scanErr, Duration: time.Since(start)}
		if scanErr != nil {
			logger.Error("scan failed", "err", scanErr)
			hooks.OnStage(ctx, repo.Name, string(StageErrored))
		} else {
			outcome.Dependencies = result.Dependencies.Len()
			outcome.Vulnerabilities = len(result.Vulnerabilities)
			hooks.OnStage(ctx, repo.Name, string(StageDone))
		}
		hooks.OnRepoComplete(ctx, repo.Name, outcome)
	}()

	result, scanErr = r.scan(ctx, repo, logger)
	if scanErr != nil {
		result = Errored(repo.Name, scanErr)
	}
	return result
}

func (r *Runner) scan(ctx context.Context, repo Repo, logger *log.Logger) (ScanResult, error) {
	hooks := r.hooks()

	dir, err := os.MkdirTemp(r.TempDir, "hawkeye-")
	if err != nil {
		return ScanResult{}, errors.Wrap(errors.ErrCodeInternal, err, "create work directory")
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("failed to remove work directory", "dir", dir, "err", err)
		}
	}()
	root := filepath.Join(dir, "repo")

	hooks.OnStage(ctx, repo.Name, string(StageCloning))
	logger.Info("cloning")
	if err := r.Cloner.Clone(ctx, repo.CloneURL, root); err != nil {
		return ScanResult{}, errors.Wrap(errors.ErrCodeCloneFailed, err, "clone %s", repo.Name)
	}

	hooks.OnStage(ctx, repo.Name, string(StageLocating))
	hooks.OnStage(ctx, repo.Name, string(StageParsing))
	ex, err := r.Extractor.Extract(root)
	if err != nil {
		return ScanResult{}, errors.Wrap(errors.ErrCodeExtractFailed, err, "extract dependencies")
	}
	logger.Info("extracted dependencies",
		"manifests", len(ex.Files),
		"failed", len(ex.Failed()),
		"npm", len(ex.Dependencies[deps.EcosystemNPM]),
		"yarn", len(ex.Dependencies[deps.EcosystemYarn]),
		"python", len(ex.Dependencies[deps.EcosystemPython]))

	hooks.OnStage(ctx, repo.Name, string(StageLookingUpAdvisories))
	matches, stats, err := r.Matcher.Match(ctx, ex.Dependencies)
	if err != nil {
		return ScanResult{}, errors.Wrap(errors.ErrCodeInterrupted, err, "advisory lookup interrupted")
	}
	logger.Info("checked advisories",
		"lookups", stats.Lookups,
		"unavailable", stats.Failures,
		"vulnerable", len(matches),
		"duration", stats.Duration.Round(time.Millisecond))

	return ScanResult{
		Repo:            repo.Name,
		Dependencies:    ex.Dependencies,
		Vulnerabilities: matches,
	}, nil
}

func (r *Runner) hooks() observability.ScanHooks {
	if r.Hooks != nil {
		return r.Hooks
	}
	return observability.Scan()
}
