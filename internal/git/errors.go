package git

import (
	"errors"
	"strings"
)

var (
	// ErrNotGitRepo indicates the path is not inside a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrRefNotFound indicates a ref could not be resolved to a commit.
	ErrRefNotFound = errors.New("ref not found")
)

// CommandError wraps a failed git invocation.
type CommandError struct {
	Args   []string // arguments passed to git (without -C)
	Dir    string   // working directory the command ran in
	Stderr string   // trimmed stderr output
	Err    error
}

func (e *CommandError) Error() string {
	msg := e.Stderr
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return e.Command() + ": " + msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Command returns the failing command line, e.g. "git commit -m wip".
func (e *CommandError) Command() string {
	return strings.TrimSpace("git " + strings.Join(e.Args, " "))
}
