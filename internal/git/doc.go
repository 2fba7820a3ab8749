// Package git provides git operations via shell commands.
//
// All operations go through [github.com/raphi011/wtpr/internal/cmd] and call
// the git CLI directly rather than using Go git libraries, so that user
// configuration (hooks, credential helpers, signing) and git's own lock files
// behave exactly as they do in a terminal.
//
// # Read-only queries
//
//   - [Repo.CurrentBranch], [Repo.HeadCommit]: branch identity
//   - [Repo.RefExists], [Repo.CountCommits], [Repo.Log]: ancestry
//   - [Repo.Status]: porcelain working tree entries
//   - [Repo.ListWorktrees], [IsLinkedWorktree]: worktree registry
//
// # Mutations
//
//   - [Repo.StageAll], [Repo.Commit], [Repo.Stash]
//   - [Repo.CheckoutNewBranch], [Repo.Checkout], [Repo.CheckoutDetached]
//   - [Repo.Push], [Repo.AddWorktree]
//
// Failed invocations are returned as [*CommandError] carrying the git
// arguments and stderr.
package git
