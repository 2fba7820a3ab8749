// Package doctor diagnoses the environment wtpr runs in.
//
// Checks run in four categories:
//
//   - setup: git is installed and the config file parses
//   - repo: the current directory is a repository, the remote exists and
//     the base branch resolves
//   - forge: the forge CLI or API token for the remote is usable
//   - worktree: every registered worktree still exists on disk
//
// Outside a repository only the setup checks run. Stale worktree entries
// can be removed with [Fix], which runs git worktree prune.
package doctor
