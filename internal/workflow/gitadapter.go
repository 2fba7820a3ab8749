package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/raphi011/wtpr/internal/git"
)

// GitAdapter implements Adapter and Mutator with the git CLI.
type GitAdapter struct {
	repo   *git.Repo
	dir    string
	remote string
}

var (
	_ Adapter = (*GitAdapter)(nil)
	_ Mutator = (*GitAdapter)(nil)
)

// NewGitAdapter wraps repo. remote names the remote whose tracking branch is
// preferred as base; empty means local branches only.
func NewGitAdapter(repo *git.Repo, remote string) *GitAdapter {
	return &GitAdapter{repo: repo, dir: repo.Root(), remote: remote}
}

// OpenGitAdapter opens the repository containing dir.
// Returns *RepoStateError wrapping ErrNotRepository if there is none.
func OpenGitAdapter(ctx context.Context, dir, remote string) (*GitAdapter, error) {
	repo, err := git.Open(ctx, dir)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var gitErr *git.CommandError
		if errors.As(err, &gitErr) {
			err = gitErr
		}
		return nil, &RepoStateError{Kind: ErrNotRepository, Path: dir, Err: err}
	}
	a := NewGitAdapter(repo, remote)
	a.dir = dir
	return a, nil
}

// Dir returns the directory the adapter was opened on.
func (g *GitAdapter) Dir() string { return g.dir }

// Repo returns the underlying repository.
func (g *GitAdapter) Repo() *git.Repo {
	return g.repo
}

func (g *GitAdapter) RepoRoot(ctx context.Context) (string, error) {
	return g.repo.Root(), nil
}

// RepoName is the directory name of the main worktree, so every worktree of
// a repository reports the same name.
func (g *GitAdapter) RepoName(ctx context.Context) (string, error) {
	main, err := g.repo.MainWorktreePath(ctx)
	if err != nil {
		main = g.repo.Root()
	}
	return strings.TrimSuffix(filepath.Base(main), ".git"), nil
}

func (g *GitAdapter) CurrentBranch(ctx context.Context) (string, error) {
	return g.repo.CurrentBranch(ctx)
}

func (g *GitAdapter) IsDetachedHead(ctx context.Context) (bool, error) {
	branch, err := g.repo.CurrentBranch(ctx)
	if err != nil {
		return false, err
	}
	return branch == "", nil
}

func (g *GitAdapter) HeadCommit(ctx context.Context) (string, error) {
	return g.repo.HeadCommit(ctx)
}

func (g *GitAdapter) ResolveBase(ctx context.Context, base string) (string, error) {
	if g.remote != "" {
		ref := g.remote + "/" + base
		if g.repo.RefExists(ctx, ref) {
			return ref, nil
		}
	}
	if g.repo.RefExists(ctx, base) {
		return base, nil
	}
	return "", fmt.Errorf("%w: %s", git.ErrRefNotFound, base)
}

func (g *GitAdapter) CommitRelationship(ctx context.Context, baseRef string, onBase bool) (CommitRelationship, error) {
	ahead, err := g.repo.CountCommits(ctx, baseRef, "HEAD")
	if err != nil {
		return "", err
	}
	behind, err := g.repo.CountCommits(ctx, "HEAD", baseRef)
	if err != nil {
		return "", err
	}
	return Relate(ahead, behind, onBase), nil
}

func (g *GitAdapter) CommitsAhead(ctx context.Context, baseRef string) ([]Commit, error) {
	entries, err := g.repo.Log(ctx, baseRef, "HEAD")
	if err != nil {
		return nil, err
	}
	commits := make([]Commit, 0, len(entries))
	for _, c := range entries {
		commits = append(commits, Commit{Hash: c.Hash, Subject: c.Subject})
	}
	return commits, nil
}

func (g *GitAdapter) StagedFiles(ctx context.Context) ([]string, error) {
	entries, err := g.repo.Status(ctx)
	if err != nil {
		return nil, err
	}
	return git.StagedFiles(entries), nil
}

func (g *GitAdapter) UnstagedFiles(ctx context.Context) ([]string, error) {
	entries, err := g.repo.Status(ctx)
	if err != nil {
		return nil, err
	}
	return git.UnstagedFiles(entries), nil
}

func (g *GitAdapter) ListWorktrees(ctx context.Context) ([]Worktree, error) {
	infos, err := g.repo.ListWorktrees(ctx)
	if err != nil {
		return nil, err
	}
	worktrees := make([]Worktree, 0, len(infos))
	for _, info := range infos {
		if info.Bare {
			continue
		}
		worktrees = append(worktrees, Worktree{
			Path:   info.Path,
			Branch: info.Branch,
			Head:   info.CommitHash,
			IsMain: info.IsMain,
		})
	}
	return worktrees, nil
}

func (g *GitAdapter) IsWorktree(ctx context.Context, path string) (bool, error) {
	return git.IsLinkedWorktree(path), nil
}

func (g *GitAdapter) SamePath(a, b string) bool {
	return git.SamePath(a, b)
}

func (g *GitAdapter) StageAll(ctx context.Context) error {
	return g.repo.StageAll(ctx)
}

func (g *GitAdapter) Commit(ctx context.Context, message string, allowEmpty bool) error {
	return g.repo.Commit(ctx, message, allowEmpty)
}

func (g *GitAdapter) Stash(ctx context.Context, message string) (string, error) {
	return g.repo.Stash(ctx, message)
}

func (g *GitAdapter) CreateBranch(ctx context.Context, name, startPoint string) error {
	return g.repo.CheckoutNewBranch(ctx, name, startPoint)
}

func (g *GitAdapter) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	return g.repo.Push(ctx, remote, branch, setUpstream)
}

func (g *GitAdapter) ValidBranchName(ctx context.Context, name string) bool {
	return g.repo.ValidBranchName(ctx, name)
}

func (g *GitAdapter) BranchExists(ctx context.Context, name string) bool {
	return g.repo.BranchExists(ctx, name)
}
