package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/raphi011/wtpr/internal/config"
	"github.com/raphi011/wtpr/internal/forge"
	"github.com/raphi011/wtpr/internal/git"
	"github.com/raphi011/wtpr/internal/log"
	"github.com/raphi011/wtpr/internal/workflow"
	"github.com/raphi011/wtpr/internal/worktree"
)

// FixPrune is the fix action for worktree entries whose directory is gone.
const FixPrune = "git worktree prune"

// Options configures a doctor run.
type Options struct {
	Dir       string
	Config    *config.Config
	ConfigErr error // error from loading the config, reported as a failed check

	// Forge builds the forge for a remote URL. Nil skips the forge check.
	Forge func(remoteURL string) (forge.Forge, error)
}

// Run performs all checks. It only returns an error when ctx is cancelled;
// problems are reported as failed checks.
func Run(ctx context.Context, opts Options) (*Report, error) {
	l := log.FromContext(ctx)
	report := &Report{}

	l.Debug("checking setup")
	checkSetup(report, opts)

	cfg := opts.Config
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}

	repo, err := git.Open(ctx, opts.Dir)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		report.add(Check{
			Category: CategoryRepo,
			Name:     "repository",
			Status:   StatusWarn,
			Detail:   "not inside a git repository, skipping repository checks",
		})
		return report, nil
	}
	report.add(Check{Category: CategoryRepo, Name: "repository", Status: StatusOK, Detail: repo.Root()})

	l.Debug("checking repository", "root", repo.Root())
	remoteURL := checkRepo(ctx, report, repo, cfg)
	if remoteURL != "" && opts.Forge != nil {
		l.Debug("checking forge", "remote", remoteURL)
		checkForge(ctx, report, opts.Forge, remoteURL)
	}

	l.Debug("checking worktrees")
	if err := checkWorktrees(ctx, report, repo); err != nil {
		return nil, err
	}
	return report, ctx.Err()
}

func checkSetup(report *Report, opts Options) {
	if err := git.CheckGit(); err != nil {
		report.add(Check{Category: CategorySetup, Name: "git", Status: StatusFail, Detail: err.Error()})
	} else {
		report.add(Check{Category: CategorySetup, Name: "git", Status: StatusOK})
	}

	if opts.ConfigErr != nil {
		report.add(Check{Category: CategorySetup, Name: "config", Status: StatusFail, Detail: opts.ConfigErr.Error()})
		return
	}
	detail := "defaults"
	if path, err := config.Path(); err == nil {
		if _, err := os.Stat(path); err == nil {
			detail = path
		}
	}
	report.add(Check{Category: CategorySetup, Name: "config", Status: StatusOK, Detail: detail})
}

// checkRepo verifies the remote and base branch. Returns the remote URL, or
// "" when the remote is missing.
func checkRepo(ctx context.Context, report *Report, repo *git.Repo, cfg *config.Config) string {
	remoteURL, err := repo.RemoteURL(ctx, cfg.Remote)
	if err != nil {
		report.add(Check{
			Category: CategoryRepo,
			Name:     "remote " + cfg.Remote,
			Status:   StatusFail,
			Detail:   "not configured, pushing and PR creation will fail",
		})
	} else {
		report.add(Check{Category: CategoryRepo, Name: "remote " + cfg.Remote, Status: StatusOK, Detail: remoteURL})
	}

	adapter := workflow.NewGitAdapter(repo, cfg.Remote)
	baseRef, err := adapter.ResolveBase(ctx, cfg.BaseBranch)
	switch {
	case err != nil:
		report.add(Check{Category: CategoryRepo, Name: "base " + cfg.BaseBranch, Status: StatusFail, Detail: err.Error()})
	case baseRef == cfg.BaseBranch && remoteURL != "":
		report.add(Check{
			Category: CategoryRepo,
			Name:     "base " + cfg.BaseBranch,
			Status:   StatusWarn,
			Detail:   fmt.Sprintf("no %s/%s, comparing against the local branch (fetch to fix)", cfg.Remote, cfg.BaseBranch),
		})
	default:
		report.add(Check{Category: CategoryRepo, Name: "base " + cfg.BaseBranch, Status: StatusOK, Detail: baseRef})
	}
	return remoteURL
}

func checkForge(ctx context.Context, report *Report, newForge func(string) (forge.Forge, error), remoteURL string) {
	f, err := newForge(remoteURL)
	if err != nil {
		report.add(Check{Category: CategoryForge, Name: "forge", Status: StatusFail, Detail: err.Error()})
		return
	}
	if err := f.Check(ctx); err != nil {
		if errors.Is(err, forge.ErrNotAuthenticated) {
			err = fmt.Errorf("%w, PRs cannot be created", err)
		}
		report.add(Check{Category: CategoryForge, Name: f.Name(), Status: StatusFail, Detail: err.Error()})
		return
	}
	report.add(Check{Category: CategoryForge, Name: f.Name(), Status: StatusOK, Detail: "authenticated"})
}

func checkWorktrees(ctx context.Context, report *Report, repo *git.Repo) error {
	worktrees, err := repo.ListWorktrees(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report.add(Check{Category: CategoryWorktree, Name: "worktrees", Status: StatusFail, Detail: err.Error()})
		return nil
	}

	for _, wt := range worktrees {
		if wt.Bare {
			continue
		}
		if _, err := os.Stat(wt.Path); errors.Is(err, os.ErrNotExist) {
			report.add(Check{
				Category:  CategoryWorktree,
				Name:      wt.Path,
				Status:    StatusWarn,
				Detail:    "directory no longer exists",
				FixAction: FixPrune,
			})
			continue
		}
		if worktree.IsPRWorktreeDir(wt.Path) && wt.Detached {
			report.add(Check{
				Category: CategoryWorktree,
				Name:     wt.Path,
				Status:   StatusWarn,
				Detail:   "PR worktree has no branch checked out",
			})
			continue
		}
		report.add(Check{Category: CategoryWorktree, Name: wt.Path, Status: StatusOK, Detail: wt.Branch})
	}
	return nil
}
