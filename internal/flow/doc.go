// Package flow drives one wtpr start invocation.
//
// A [Flow] analyzes the working tree, classifies it into a scenario, asks
// its [Chooser] for an action (interactive menu or --action key), runs the
// action's git plan and publishes the result: push, PR creation and moving
// a branch created in the main worktree into its own <repo>.pr<N> worktree.
//
// A PR worktree skips the catalog entirely; the flow only reports the PR of
// the checked out branch.
//
// All git and forge access goes through injected interfaces, so tests run
// whole flows against in-memory fakes.
package flow
