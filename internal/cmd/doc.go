// Package cmd provides helpers for executing shell commands with proper error handling.
//
// This package wraps [os/exec.Cmd] to capture stderr and include it in error
// messages, making command failures more informative for users.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, dir, "git", "status"); err != nil {
//	    // err is a *cmd.Error whose message is git's stderr
//	    return fmt.Errorf("git failed: %w", err)
//	}
//
//	// For commands that return output:
//	out, err := cmd.OutputContext(ctx, dir, "git", "branch")
//
// Every invocation is traced through the context logger, so --verbose shows
// the exact command line, its working directory and duration.
//
// # Design Notes
//
// wtpr shells out to git/gh/glab CLIs rather than using Go libraries.
// This keeps behaviour identical to what the user gets in a terminal
// (SSH keys, credential helpers, hooks, lock files).
package cmd
