// Package hooks runs configured shell commands after wtpr publishes a branch.
//
// Hooks are defined as [hooks.NAME] tables in the global or local config:
//
//	[hooks.deps]
//	command = "npm ci"
//	description = "Install dependencies"
//	on = ["worktree"]
//
// # Triggers
//
//   - pr: the PR was created or an existing one was found
//   - worktree: the new branch was moved into its own PR worktree
//   - all: both of the above
//
// A hook without "on" never runs. --no-hook skips all hooks.
//
// # Placeholder Substitution
//
// Placeholders are replaced with shell-quoted values:
//
//   - {path}: directory the hook runs in (the PR worktree when one was created)
//   - {branch}: the published branch
//   - {base}: the base branch the PR targets
//   - {repo}: repository name
//   - {number}: PR number
//   - {url}: PR URL
//   - {trigger}: pr or worktree
//
// Hooks run after every git mutation succeeded. Their failures are reported
// as warnings and never undo anything.
package hooks
