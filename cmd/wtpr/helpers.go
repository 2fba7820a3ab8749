package main

import (
	"context"
	"fmt"
	"os"

	"github.com/raphi011/wtpr/internal/config"
	"github.com/raphi011/wtpr/internal/forge"
	"github.com/raphi011/wtpr/internal/git"
	"github.com/raphi011/wtpr/internal/log"
	"github.com/raphi011/wtpr/internal/workflow"
)

// openRepo opens the repository containing dir and resolves its effective
// config. A .wtpr.toml is looked up in the main worktree, so linked
// worktrees share their repository's settings.
func openRepo(ctx context.Context, dir string) (*workflow.GitAdapter, *config.Config, error) {
	resolver := config.ResolverFromContext(ctx)
	if resolver == nil {
		return nil, nil, fmt.Errorf("config not loaded")
	}
	global := resolver.Global()

	adapter, err := workflow.OpenGitAdapter(ctx, dir, global.Remote)
	if err != nil {
		return nil, nil, err
	}

	root := adapter.Repo().Root()
	configRoot, err := git.GetMainRepoPath(root)
	if err != nil {
		configRoot = root
	}

	cfg, err := resolver.ConfigForRepo(configRoot)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Remote != global.Remote {
		adapter = workflow.NewGitAdapter(adapter.Repo(), cfg.Remote)
	}
	return adapter, cfg, nil
}

// forgeFunc builds the forge for a remote from cfg and checks it is usable.
func forgeFunc(ctx context.Context, cfg *config.Config) func(remoteURL string) (forge.Forge, error) {
	return func(remoteURL string) (forge.Forge, error) {
		f, err := forge.New(remoteURL, forgeOptions(cfg))
		if err != nil {
			return nil, err
		}
		log.FromContext(ctx).Debug("using forge", "name", f.Name(), "mode", cfg.Forge.Mode, "remote", remoteURL)
		if err := f.Check(ctx); err != nil {
			return nil, err
		}
		return f, nil
	}
}

func forgeOptions(cfg *config.Config) forge.Options {
	return forge.Options{
		Default: cfg.Forge.Default,
		Mode:    cfg.Forge.Mode,
		Token:   os.Getenv(cfg.Forge.TokenEnv),
		Hosts:   cfg.Forge.Hosts,
	}
}

// branchValidator rejects names git refuses or that already exist.
func branchValidator(ctx context.Context, m workflow.Mutator) func(string) error {
	return func(name string) error {
		if !m.ValidBranchName(ctx, name) {
			return fmt.Errorf("%w: %q", workflow.ErrInvalidBranchName, name)
		}
		if m.BranchExists(ctx, name) {
			return fmt.Errorf("%w: %q", workflow.ErrBranchExists, name)
		}
		return nil
	}
}
