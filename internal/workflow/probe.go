package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/raphi011/wtpr/internal/log"
	"github.com/raphi011/wtpr/internal/worktree"
)

// Adapter is the read-only view of a repository Analyze needs.
// Every method must be side-effect free.
type Adapter interface {
	// Dir is the directory the adapter was opened on.
	Dir() string
	RepoRoot(ctx context.Context) (string, error)
	RepoName(ctx context.Context) (string, error)
	CurrentBranch(ctx context.Context) (string, error)
	IsDetachedHead(ctx context.Context) (bool, error)
	HeadCommit(ctx context.Context) (string, error)

	// ResolveBase returns the ref HEAD is compared against for base,
	// preferring the remote-tracking branch.
	ResolveBase(ctx context.Context, base string) (string, error)
	CommitRelationship(ctx context.Context, baseRef string, onBase bool) (CommitRelationship, error)
	CommitsAhead(ctx context.Context, baseRef string) ([]Commit, error)

	StagedFiles(ctx context.Context) ([]string, error)
	UnstagedFiles(ctx context.Context) ([]string, error)

	ListWorktrees(ctx context.Context) ([]Worktree, error)
	IsWorktree(ctx context.Context, path string) (bool, error)
	SamePath(a, b string) bool
}

// Analyze probes the repository into a GitState.
// A missing repository or unresolvable base branch returns *RepoStateError.
func Analyze(ctx context.Context, a Adapter, baseBranch string) (*GitState, error) {
	if baseBranch == "" {
		baseBranch = "main"
	}

	root, err := a.RepoRoot(ctx)
	if err != nil {
		var stateErr *RepoStateError
		if errors.As(err, &stateErr) {
			return nil, stateErr
		}
		return nil, &RepoStateError{Kind: ErrNotRepository, Path: a.Dir(), Err: err}
	}

	baseRef, err := a.ResolveBase(ctx, baseBranch)
	if err != nil {
		return nil, &RepoStateError{Kind: ErrBaseUnresolvable, Path: baseBranch, Err: err}
	}

	s := &GitState{RepoRoot: root, BaseBranch: baseBranch, BaseRef: baseRef}

	if s.RepoName, err = a.RepoName(ctx); err != nil {
		return nil, fmt.Errorf("failed to get repo name: %w", err)
	}
	if s.HeadCommit, err = a.HeadCommit(ctx); err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	detached, err := a.IsDetachedHead(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check HEAD: %w", err)
	}
	if detached {
		s.BranchType = BranchDetached
	} else {
		if s.CurrentBranch, err = a.CurrentBranch(ctx); err != nil {
			return nil, fmt.Errorf("failed to get branch: %w", err)
		}
		s.BranchType = BranchOther
		if s.CurrentBranch == baseBranch {
			s.BranchType = BranchMain
		}
	}

	if s.WorktreeType, err = DetectWorktreeType(ctx, a, root); err != nil {
		return nil, err
	}
	if n, ok := worktree.ParsePRNumber(root); ok {
		s.PRNumber = n
	}

	if s.CommitRelationship, err = a.CommitRelationship(ctx, baseRef, s.BranchType == BranchMain); err != nil {
		return nil, fmt.Errorf("failed to compare with %s: %w", baseRef, err)
	}
	s.LocalCommits = []Commit{}
	if s.CommitRelationship == RelAhead || s.CommitRelationship == RelDivergent {
		if s.LocalCommits, err = a.CommitsAhead(ctx, baseRef); err != nil {
			return nil, fmt.Errorf("failed to list local commits: %w", err)
		}
	}

	if s.StagedFiles, err = a.StagedFiles(ctx); err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}
	if s.UnstagedFiles, err = a.UnstagedFiles(ctx); err != nil {
		return nil, fmt.Errorf("failed to list unstaged files: %w", err)
	}
	if s.StagedFiles == nil {
		s.StagedFiles = []string{}
	}
	if s.UnstagedFiles == nil {
		s.UnstagedFiles = []string{}
	}
	s.WorkingTreeStatus = StatusFromFiles(s.StagedFiles, s.UnstagedFiles)

	log.FromContext(ctx).Debug("analyzed repository",
		"root", root,
		"base", baseRef,
		"branch", s.BranchLabel(),
		"worktree", s.WorktreeType,
		"relationship", s.CommitRelationship,
		"status", s.WorkingTreeStatus)

	return s, nil
}

// DetectWorktreeType classifies path: a ".pr<N>" directory name wins, then
// the worktree registry, then whether path is a linked worktree at all.
// Anything else is the main worktree.
func DetectWorktreeType(ctx context.Context, a Adapter, path string) (WorktreeType, error) {
	if worktree.IsPRWorktreeDir(path) {
		return WorktreePR, nil
	}

	worktrees, err := a.ListWorktrees(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list worktrees: %w", err)
	}
	for _, wt := range worktrees {
		if a.SamePath(wt.Path, path) {
			if wt.IsMain {
				return WorktreeMain, nil
			}
			return WorktreeOther, nil
		}
	}

	linked, err := a.IsWorktree(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to check worktree: %w", err)
	}
	if linked {
		return WorktreeOther, nil
	}
	return WorktreeMain, nil
}
