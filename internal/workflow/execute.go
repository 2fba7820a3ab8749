package workflow

import (
	"context"
	"fmt"

	"github.com/raphi011/wtpr/internal/log"
)

// Mutator is the set of git mutations an action can perform.
type Mutator interface {
	StageAll(ctx context.Context) error
	Commit(ctx context.Context, message string, allowEmpty bool) error
	// Stash returns the created stash ref, or "" when there was nothing to stash.
	Stash(ctx context.Context, message string) (string, error)
	CreateBranch(ctx context.Context, name, startPoint string) error
	Push(ctx context.Context, remote, branch string, setUpstream bool) error

	ValidBranchName(ctx context.Context, name string) bool
	BranchExists(ctx context.Context, name string) bool
}

// Result reports the outcome of Execute.
type Result struct {
	Success        bool      `json:"success"`
	Action         ActionKey `json:"action"`
	Branch         string    `json:"branch,omitempty"`
	Steps          []Step    `json:"steps"`
	ChangesApplied []string  `json:"changes_applied"`
	StashRef       string    `json:"stash_ref,omitempty"`
	FailedStep     *Step     `json:"failed_step,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// Execute plans action against state and runs the steps in order.
// Branch names are validated before the first mutation. Execution stops at
// the first failing step with a *StepError; applied steps stay applied and a
// created stash is never dropped. The returned Result is never nil.
func Execute(ctx context.Context, m Mutator, action StateAction, state *GitState, opts PlanOptions) (*Result, error) {
	res := &Result{Action: action.Action, ChangesApplied: []string{}}

	fail := func(err error) (*Result, error) {
		res.Error = err.Error()
		return res, err
	}

	steps, err := Plan(action, state, opts)
	if err != nil {
		return fail(err)
	}
	res.Steps = steps

	branch, err := TargetBranch(action, state, opts)
	if err != nil {
		return fail(err)
	}
	res.Branch = branch

	if action.CreatesBranch() {
		if !m.ValidBranchName(ctx, branch) {
			return fail(fmt.Errorf("%w: %q", ErrInvalidBranchName, branch))
		}
		if m.BranchExists(ctx, branch) {
			return fail(fmt.Errorf("%w: %q", ErrBranchExists, branch))
		}
	}

	l := log.FromContext(ctx)
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		l.Debug("executing step", "action", action.Action, "step", i+1, "cmd", step.Command())

		change, err := runStep(ctx, m, step, res)
		if err != nil {
			failed := step
			res.FailedStep = &failed
			return fail(&StepError{Action: action.Action, Index: i, Step: step, Err: err})
		}
		res.ChangesApplied = append(res.ChangesApplied, change)
	}

	res.Success = true
	return res, nil
}

func runStep(ctx context.Context, m Mutator, s Step, res *Result) (string, error) {
	switch s.Kind {
	case StepStash:
		ref, err := m.Stash(ctx, s.Message)
		if err != nil {
			return "", err
		}
		if ref == "" {
			return "nothing to stash", nil
		}
		res.StashRef = ref
		return fmt.Sprintf("stashed changes as %s (%s)", ref, s.Message), nil
	case StepCreateBranch:
		if err := m.CreateBranch(ctx, s.Branch, s.StartPoint); err != nil {
			return "", err
		}
		return fmt.Sprintf("created branch %s from %s", s.Branch, s.StartPoint), nil
	case StepStageAll:
		if err := m.StageAll(ctx); err != nil {
			return "", err
		}
		return "staged all changes", nil
	case StepCommit:
		if err := m.Commit(ctx, s.Message, s.AllowEmpty); err != nil {
			return "", err
		}
		if s.AllowEmpty {
			return fmt.Sprintf("created empty commit %q", s.Message), nil
		}
		return fmt.Sprintf("committed %q", s.Message), nil
	case StepPush:
		if err := m.Push(ctx, s.Remote, s.Branch, s.SetUpstream); err != nil {
			return "", err
		}
		return fmt.Sprintf("pushed %s to %s", s.Branch, s.Remote), nil
	}
	return "", fmt.Errorf("unknown step kind %q", s.Kind)
}
