package git

import (
	"context"
	"errors"

	"github.com/raphi011/wtpr/internal/cmd"
)

// runGit executes a git command in dir with context support and verbose logging.
func runGit(ctx context.Context, dir string, args ...string) error {
	_, err := outputGit(ctx, dir, args...)
	return err
}

// outputGit executes a git command in dir and returns stdout.
func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	out, err := cmd.OutputContext(ctx, dir, "git", args...)
	if err != nil {
		var cmdErr *cmd.Error
		if errors.As(err, &cmdErr) {
			return nil, &CommandError{Args: args, Dir: dir, Stderr: cmdErr.Stderr, Err: cmdErr.Err}
		}
		return nil, err
	}
	return out, nil
}
