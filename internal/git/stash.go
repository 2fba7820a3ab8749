package git

import (
	"context"
	"fmt"
	"strings"
)

// Stash shelves all uncommitted changes, untracked files included, under
// message. Returns the created stash ref, or "" if there was nothing to
// stash. The entry is never dropped or popped here.
func (r *Repo) Stash(ctx context.Context, message string) (string, error) {
	before, err := r.stashTop(ctx)
	if err != nil {
		return "", err
	}

	if err := runGit(ctx, r.root, "stash", "push", "--include-untracked", "-m", message); err != nil {
		return "", fmt.Errorf("failed to stash changes: %w", err)
	}

	after, err := r.stashTop(ctx)
	if err != nil {
		return "", err
	}
	if after == "" || after == before {
		return "", nil
	}
	return "stash@{0}", nil
}

// StashList returns the stash subjects, newest first.
func (r *Repo) StashList(ctx context.Context) ([]string, error) {
	output, err := outputGit(ctx, r.root, "stash", "list", "--format=%gs")
	if err != nil {
		return nil, fmt.Errorf("failed to list stashes: %w", err)
	}
	var entries []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line != "" {
			entries = append(entries, line)
		}
	}
	return entries, nil
}

// stashTop returns the commit hash of refs/stash, or "" if there is none.
func (r *Repo) stashTop(ctx context.Context) (string, error) {
	if !r.RefExists(ctx, "refs/stash") {
		return "", nil
	}
	return r.ResolveCommit(ctx, "refs/stash")
}
