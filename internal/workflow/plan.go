package workflow

import (
	"fmt"
	"strings"
)

// Default message templates. "{branch}" expands to the target branch.
const (
	DefaultCommitMessage = "wip: {branch}"
	DefaultEmptyMessage  = "chore: start {branch}"
	DefaultStashMessage  = "wtpr: {branch}"
)

// StepKind is a single git mutation.
type StepKind string

const (
	StepStash        StepKind = "stash"
	StepCreateBranch StepKind = "create_branch"
	StepStageAll     StepKind = "stage_all"
	StepCommit       StepKind = "commit"
	StepPush         StepKind = "push"
)

// Step is one planned mutation with its arguments resolved.
type Step struct {
	Kind        StepKind `json:"kind"`
	Branch      string   `json:"branch,omitempty"`
	StartPoint  string   `json:"start_point,omitempty"`
	Remote      string   `json:"remote,omitempty"`
	Message     string   `json:"message,omitempty"`
	AllowEmpty  bool     `json:"allow_empty,omitempty"`
	SetUpstream bool     `json:"set_upstream,omitempty"`
}

// Command renders the step as the git command line it runs.
func (s Step) Command() string {
	switch s.Kind {
	case StepStash:
		return "git stash push --include-untracked -m " + quote(s.Message)
	case StepCreateBranch:
		return strings.TrimSpace("git checkout -b " + s.Branch + " " + s.StartPoint)
	case StepStageAll:
		return "git add --all"
	case StepCommit:
		if s.AllowEmpty {
			return "git commit --allow-empty -m " + quote(s.Message)
		}
		return "git commit -m " + quote(s.Message)
	case StepPush:
		if s.SetUpstream {
			return "git push -u " + s.Remote + " " + s.Branch
		}
		return "git push " + s.Remote + " " + s.Branch
	}
	return string(s.Kind)
}

// Describe is a short human description of the step.
func (s Step) Describe() string {
	switch s.Kind {
	case StepStash:
		return "stash uncommitted changes"
	case StepCreateBranch:
		return fmt.Sprintf("create branch %s from %s", s.Branch, s.StartPoint)
	case StepStageAll:
		return "stage all changes"
	case StepCommit:
		if s.AllowEmpty {
			return "create empty commit"
		}
		return "commit changes"
	case StepPush:
		return fmt.Sprintf("push %s to %s", s.Branch, s.Remote)
	}
	return string(s.Kind)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// PlanOptions carries the caller-supplied inputs of a plan.
type PlanOptions struct {
	Branch        string // new branch name for branch-creating actions
	Remote        string // remote for push_then_branch, default "origin"
	CommitMessage string // message for commit_* actions
	EmptyMessage  string // message for empty commits
	StashMessage  string // stash entry label
}

// TargetBranch returns the branch the action leaves checked out.
func TargetBranch(action StateAction, state *GitState, opts PlanOptions) (string, error) {
	if action.CreatesBranch() {
		if strings.TrimSpace(opts.Branch) == "" {
			return "", fmt.Errorf("%s: %w", action.Action, ErrBranchRequired)
		}
		return strings.TrimSpace(opts.Branch), nil
	}
	if state == nil || state.CurrentBranch == "" {
		return "", fmt.Errorf("%s needs a checked out branch: %w", action.Action, ErrBranchRequired)
	}
	return state.CurrentBranch, nil
}

// Plan expands action into the exact ordered git mutations. It does not
// touch the repository. A nil plan with no error means nothing has to change.
func Plan(action StateAction, state *GitState, opts PlanOptions) ([]Step, error) {
	if state == nil {
		return nil, fmt.Errorf("plan %s: no repository state", action.Action)
	}
	branch, err := TargetBranch(action, state, opts)
	if err != nil {
		return nil, err
	}

	remote := opts.Remote
	if remote == "" {
		remote = "origin"
	}
	commitMsg := expand(opts.CommitMessage, DefaultCommitMessage, branch)
	emptyMsg := expand(opts.EmptyMessage, DefaultEmptyMessage, branch)
	stashMsg := expand(opts.StashMessage, DefaultStashMessage, branch)

	start := "HEAD"
	if action.BranchFrom == FromBase {
		start = state.BaseRef
		if start == "" {
			start = state.BaseBranch
		}
		if start == "" {
			return nil, fmt.Errorf("plan %s: %w", action.Action, ErrBaseUnresolvable)
		}
	}

	stash := Step{Kind: StepStash, Message: stashMsg}
	create := Step{Kind: StepCreateBranch, Branch: branch, StartPoint: start}
	stageAll := Step{Kind: StepStageAll}
	commit := Step{Kind: StepCommit, Message: commitMsg}
	empty := Step{Kind: StepCommit, Message: emptyMsg, AllowEmpty: true}

	switch action.Action {
	case ActionEmptyCommit:
		return []Step{create, empty}, nil
	case ActionCommitStaged:
		if action.StashUnstaged {
			// stash after the commit so the entry holds only what was not staged
			return []Step{create, commit, stash}, nil
		}
		return []Step{create, commit}, nil
	case ActionCommitAll, ActionUseCommitsAndCommitAll:
		return []Step{create, stageAll, commit}, nil
	case ActionStashAndEmpty:
		return []Step{stash, create, empty}, nil
	case ActionUseCommits, ActionBranchFromDetached:
		return []Step{create}, nil
	case ActionUseCommitsAndStash:
		return []Step{stash, create}, nil
	case ActionPushThenBranch:
		if state.CurrentBranch == "" {
			return nil, fmt.Errorf("%s needs a checked out branch to push", action.Action)
		}
		return []Step{{Kind: StepPush, Remote: remote, Branch: state.CurrentBranch}, create}, nil
	case ActionCreatePRForBranch:
		return nil, nil
	case ActionPRForBranchCommitAll:
		return []Step{stageAll, commit}, nil
	case ActionPRForBranchStash:
		return []Step{stash}, nil
	}

	return nil, fmt.Errorf("unknown action %q", action.Action)
}

func expand(msg, fallback, branch string) string {
	if strings.TrimSpace(msg) == "" {
		msg = fallback
	}
	return strings.ReplaceAll(msg, "{branch}", branch)
}
