package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Repo runs git commands against one working tree.
type Repo struct {
	root string
}

// Open resolves the working tree containing dir.
// Returns an error wrapping ErrNotGitRepo if dir is not inside a work tree.
func Open(ctx context.Context, dir string) (*Repo, error) {
	output, err := outputGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrNotGitRepo, dir, err)
	}
	root := strings.TrimSpace(string(output))
	if root == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, dir)
	}
	return &Repo{root: root}, nil
}

// Root returns the top-level directory of the working tree.
func (r *Repo) Root() string {
	return r.root
}

// CurrentBranch returns the checked out branch name.
// Returns an empty string for detached HEAD.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	output, err := outputGit(ctx, r.root, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// HeadCommit returns the full hash of HEAD.
func (r *Repo) HeadCommit(ctx context.Context) (string, error) {
	output, err := outputGit(ctx, r.root, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// RefExists reports whether ref resolves to a commit.
func (r *Repo) RefExists(ctx context.Context, ref string) bool {
	return runGit(ctx, r.root, "rev-parse", "--verify", "--quiet", ref+"^{commit}") == nil
}

// ResolveCommit returns the commit hash ref points to.
func (r *Repo) ResolveCommit(ctx context.Context, ref string) (string, error) {
	output, err := outputGit(ctx, r.root, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrRefNotFound, ref)
	}
	return strings.TrimSpace(string(output)), nil
}

// CountCommits returns the number of commits reachable from to but not from from.
func (r *Repo) CountCommits(ctx context.Context, from, to string) (int, error) {
	output, err := outputGit(ctx, r.root, "rev-list", "--count", from+".."+to)
	if err != nil {
		return 0, fmt.Errorf("failed to count commits %s..%s: %w", from, to, err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse commit count: %w", err)
	}
	return count, nil
}

// Commit is a one-line commit summary.
type Commit struct {
	Hash    string `json:"hash"`
	Subject string `json:"subject"`
}

// Log returns commits reachable from to but not from from, newest first.
func (r *Repo) Log(ctx context.Context, from, to string) ([]Commit, error) {
	output, err := outputGit(ctx, r.root, "log", "--format=%h%x00%s", from+".."+to)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits %s..%s: %w", from, to, err)
	}

	var commits []Commit
	for _, line := range strings.Split(string(output), "\n") {
		if line == "" {
			continue
		}
		hash, subject, _ := strings.Cut(line, "\x00")
		commits = append(commits, Commit{Hash: hash, Subject: subject})
	}
	return commits, nil
}

// LastCommitSubject returns the subject line of HEAD.
func (r *Repo) LastCommitSubject(ctx context.Context) (string, error) {
	output, err := outputGit(ctx, r.root, "log", "-1", "--format=%s")
	if err != nil {
		return "", fmt.Errorf("failed to get last commit: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// RemoteURL returns the fetch URL of the named remote.
func (r *Repo) RemoteURL(ctx context.Context, remote string) (string, error) {
	output, err := outputGit(ctx, r.root, "remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("failed to get %s URL: %w", remote, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ValidBranchName reports whether name is acceptable as a new branch name.
func (r *Repo) ValidBranchName(ctx context.Context, name string) bool {
	if name == "" {
		return false
	}
	return runGit(ctx, r.root, "check-ref-format", "--branch", name) == nil
}

// BranchExists checks if a local branch exists
func (r *Repo) BranchExists(ctx context.Context, branch string) bool {
	return runGit(ctx, r.root, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch) == nil
}

// GetMainRepoPath extracts main repo path from .git file in worktree
func GetMainRepoPath(worktreePath string) (string, error) {
	gitFile := filepath.Join(worktreePath, ".git")
	if info, err := os.Stat(gitFile); err == nil && info.IsDir() {
		return worktreePath, nil
	}
	content, err := os.ReadFile(gitFile)
	if err != nil {
		return "", fmt.Errorf("failed to read .git file: %w", err)
	}

	// Parse: "gitdir: /path/to/repo/.git/worktrees/name"
	// Only the first line matters; any additional lines are ignored
	line := strings.TrimSpace(string(content))
	if idx := strings.Index(line, "\n"); idx != -1 {
		line = strings.TrimSpace(line[:idx])
	}
	if !strings.HasPrefix(line, "gitdir: ") {
		return "", fmt.Errorf("invalid .git file format: expected 'gitdir: <path>'")
	}

	gitdir := strings.TrimPrefix(line, "gitdir: ")
	if gitdir == "" {
		return "", fmt.Errorf("invalid .git file format: empty gitdir path")
	}

	// gitdir can be relative to the worktree
	if !filepath.IsAbs(gitdir) {
		gitdir = filepath.Join(worktreePath, gitdir)
	}
	gitdir = filepath.Clean(gitdir)

	// gitdir is like /path/to/repo/.git/worktrees/name; we want /path/to/repo
	dir := gitdir
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find main repo path from gitdir: %s", gitdir)
		}
		if filepath.Base(dir) == ".git" {
			return parent, nil
		}
		dir = parent
	}
}
