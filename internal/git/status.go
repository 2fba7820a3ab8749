package git

import (
	"context"
	"fmt"
	"strings"
)

// StatusEntry is one path reported by git status --porcelain.
type StatusEntry struct {
	Index    byte   // X column: staged state
	Worktree byte   // Y column: unstaged state
	Path     string // current path
	OrigPath string // source path for renames and copies
}

// Staged reports whether the entry has changes in the index.
func (e StatusEntry) Staged() bool {
	return e.Index != ' ' && e.Index != '?' && e.Index != '!'
}

// Unstaged reports whether the entry has working tree changes or is untracked.
func (e StatusEntry) Unstaged() bool {
	if e.Index == '?' {
		return true
	}
	return e.Worktree != ' ' && e.Worktree != '!'
}

// Status returns the porcelain status entries, untracked files included.
func (r *Repo) Status(ctx context.Context) ([]StatusEntry, error) {
	output, err := outputGit(ctx, r.root, "status", "--porcelain=v1", "-z", "--untracked-files=all")
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}
	return parsePorcelainZ(string(output))
}

// parsePorcelainZ parses NUL-separated v1 porcelain output.
// Renames and copies carry their source path in the following field.
func parsePorcelainZ(output string) ([]StatusEntry, error) {
	var entries []StatusEntry
	fields := strings.Split(output, "\x00")
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if f == "" {
			continue
		}
		if len(f) < 4 || f[2] != ' ' {
			return nil, fmt.Errorf("malformed status entry %q", f)
		}
		e := StatusEntry{Index: f[0], Worktree: f[1], Path: f[3:]}
		if e.Index == 'R' || e.Index == 'C' {
			if i+1 < len(fields) {
				i++
				e.OrigPath = fields[i]
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// StagedFiles returns paths with staged changes, in status order.
func StagedFiles(entries []StatusEntry) []string {
	var paths []string
	for _, e := range entries {
		if e.Staged() {
			paths = append(paths, e.Path)
		}
	}
	return paths
}

// UnstagedFiles returns paths with unstaged or untracked changes, in status order.
func UnstagedFiles(entries []StatusEntry) []string {
	var paths []string
	for _, e := range entries {
		if e.Unstaged() {
			paths = append(paths, e.Path)
		}
	}
	return paths
}
