package git

import (
	"context"
	"fmt"
)

// StageAll stages every change in the working tree, untracked files included.
func (r *Repo) StageAll(ctx context.Context) error {
	if err := runGit(ctx, r.root, "add", "--all"); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// Commit records the index as a new commit on HEAD.
// allowEmpty permits a commit without changes.
func (r *Repo) Commit(ctx context.Context, message string, allowEmpty bool) error {
	args := []string{"commit", "-m", message}
	if allowEmpty {
		args = []string{"commit", "--allow-empty", "-m", message}
	}
	if err := runGit(ctx, r.root, args...); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// CheckoutNewBranch creates branch at startPoint and switches to it.
// Uncommitted changes are carried over; git refuses if they conflict.
func (r *Repo) CheckoutNewBranch(ctx context.Context, branch, startPoint string) error {
	args := []string{"checkout", "-b", branch}
	if startPoint != "" {
		args = append(args, startPoint)
	}
	if err := runGit(ctx, r.root, args...); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	return nil
}

// Checkout switches to an existing branch.
func (r *Repo) Checkout(ctx context.Context, branch string) error {
	if err := runGit(ctx, r.root, "checkout", branch); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, err)
	}
	return nil
}

// CheckoutDetached detaches HEAD at commit.
func (r *Repo) CheckoutDetached(ctx context.Context, commit string) error {
	if err := runGit(ctx, r.root, "checkout", "--detach", commit); err != nil {
		return fmt.Errorf("failed to detach at %s: %w", commit, err)
	}
	return nil
}

// Push pushes branch to remote, optionally recording it as upstream.
func (r *Repo) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)
	if err := runGit(ctx, r.root, args...); err != nil {
		return fmt.Errorf("failed to push %s to %s: %w", branch, remote, err)
	}
	return nil
}
