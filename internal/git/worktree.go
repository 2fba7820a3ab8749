package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WorktreeInfo contains basic worktree information from git worktree list.
type WorktreeInfo struct {
	Path       string
	Branch     string // empty when detached or bare
	CommitHash string // full hash from git, caller can truncate
	IsMain     bool   // first entry of the list: the main worktree
	Bare       bool
	Detached   bool
}

// ListWorktrees returns all worktrees of the repository using
// git worktree list --porcelain. The main worktree is always first.
func (r *Repo) ListWorktrees(ctx context.Context) ([]WorktreeInfo, error) {
	output, err := outputGit(ctx, r.root, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %w", err)
	}
	return parseWorktreeList(string(output)), nil
}

func parseWorktreeList(output string) []WorktreeInfo {
	var worktrees []WorktreeInfo
	var current WorktreeInfo

	flush := func() {
		if current.Path != "" {
			current.IsMain = len(worktrees) == 0
			worktrees = append(worktrees, current)
		}
		current = WorktreeInfo{}
	}

	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			current.CommitHash = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch refs/heads/"):
			current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		case line == "detached":
			current.Detached = true
		case line == "bare":
			current.Bare = true
		}
	}
	flush()

	return worktrees
}

// MainWorktreePath returns the path of the main worktree.
func (r *Repo) MainWorktreePath(ctx context.Context) (string, error) {
	worktrees, err := r.ListWorktrees(ctx)
	if err != nil {
		return "", err
	}
	if len(worktrees) == 0 {
		return "", fmt.Errorf("git worktree list returned no entries")
	}
	return worktrees[0].Path, nil
}

// IsLinkedWorktree reports whether path is a linked worktree,
// i.e. its .git is a file pointing into another repository's .git/worktrees.
func IsLinkedWorktree(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	if err != nil || info.IsDir() {
		return false
	}
	_, err = GetMainRepoPath(path)
	return err == nil
}

// SamePath compares two filesystem paths after resolving symlinks.
func SamePath(a, b string) bool {
	if a == b {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return ra == rb
}

// AddWorktree attaches an existing branch as a new worktree at path.
func (r *Repo) AddWorktree(ctx context.Context, path, branch string) error {
	if err := runGit(ctx, r.root, "worktree", "add", path, branch); err != nil {
		return fmt.Errorf("failed to add worktree: %w", err)
	}
	return nil
}

// PruneWorktrees removes registry entries of worktrees whose directory is gone.
func (r *Repo) PruneWorktrees(ctx context.Context) error {
	if err := runGit(ctx, r.root, "worktree", "prune"); err != nil {
		return fmt.Errorf("failed to prune worktrees: %w", err)
	}
	return nil
}
