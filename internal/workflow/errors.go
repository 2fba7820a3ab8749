package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/raphi011/wtpr/internal/git"
)

var (
	// ErrNotRepository indicates the directory is not inside a git work tree.
	ErrNotRepository = errors.New("not a git repository")

	// ErrBaseUnresolvable indicates neither <remote>/<base> nor <base> resolve.
	ErrBaseUnresolvable = errors.New("base branch cannot be resolved")

	// ErrUserCancelled is returned when the cancel choice is selected.
	// It is a normal outcome, not a failure.
	ErrUserCancelled = errors.New("cancelled")

	// ErrBranchRequired indicates a branch-creating action got no branch name.
	ErrBranchRequired = errors.New("branch name required")

	// ErrInvalidBranchName indicates git rejects the branch name.
	ErrInvalidBranchName = errors.New("invalid branch name")

	// ErrBranchExists indicates the new branch name is already taken.
	ErrBranchExists = errors.New("branch already exists")
)

// RepoStateError is a fatal probe failure. Classification does not happen.
type RepoStateError struct {
	Kind error  // ErrNotRepository or ErrBaseUnresolvable
	Path string // directory or base branch the probe was asked about
	Err  error  // underlying cause
}

func (e *RepoStateError) Error() string {
	msg := fmt.Sprintf("%v: %s", e.Kind, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches both the kind sentinel and the cause chain.
func (e *RepoStateError) Is(target error) bool {
	return target == e.Kind
}

func (e *RepoStateError) Unwrap() error {
	return e.Err
}

// StepError reports the step at which an action's execution stopped.
// Steps before Index were applied and are not rolled back.
type StepError struct {
	Action ActionKey
	Index  int // zero-based index into the plan
	Step   Step
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %d (%s) failed: %v", e.Action, e.Index+1, e.Step.Describe(), e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Stderr returns git's stderr for the failed step, if any.
func (e *StepError) Stderr() string {
	var gitErr *git.CommandError
	if errors.As(e.Err, &gitErr) {
		return gitErr.Stderr
	}
	return ""
}

// InvalidActionError rejects an action key the scenario does not offer.
// No git mutation has happened when it is returned.
type InvalidActionError struct {
	Key         string
	Scenario    Scenario
	Valid       []string
	Suggestions []string
}

func (e *InvalidActionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "action %q is not available for scenario %s", e.Key, e.Scenario)
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	if len(e.Valid) > 0 {
		fmt.Fprintf(&b, "; valid actions: %s", strings.Join(e.Valid, ", "))
	}
	return b.String()
}
