package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/raphi011/wtpr/internal/config"
	"github.com/raphi011/wtpr/internal/forge"
	"github.com/raphi011/wtpr/internal/hooks"
	"github.com/raphi011/wtpr/internal/log"
	"github.com/raphi011/wtpr/internal/workflow"
)

// Publisher is the set of git operations used after an action ran:
// pushing, restoring the main worktree and attaching a PR worktree.
// *git.Repo implements it.
type Publisher interface {
	Push(ctx context.Context, remote, branch string, setUpstream bool) error
	Checkout(ctx context.Context, branch string) error
	CheckoutDetached(ctx context.Context, commit string) error
	AddWorktree(ctx context.Context, path, branch string) error
	LastCommitSubject(ctx context.Context) (string, error)
	RemoteURL(ctx context.Context, remote string) (string, error)
}

// ForgeFunc returns the forge serving remoteURL.
type ForgeFunc func(remoteURL string) (forge.Forge, error)

// Flow runs one start invocation: probe, classify, choose, execute, publish.
// All collaborators are injected so tests can run it against fakes.
type Flow struct {
	Adapter   workflow.Adapter
	Mutator   workflow.Mutator
	Publisher Publisher
	Chooser   Chooser
	Forge     ForgeFunc

	// RunHook executes hook commands; nil means hooks.Shell.
	RunHook hooks.Runner
}

// Options configures a run.
type Options struct {
	BaseBranch string
	Remote     string

	Branch        string // new branch name; prompts or fails when empty
	CommitMessage string // message template for commit_* actions
	EmptyMessage  string // message template for empty commits
	StashMessage  string // stash label template

	Title string // PR title; defaults to the last commit subject
	Body  string
	Draft bool

	Push           bool
	CreatePR       bool
	Worktree       bool // move a new PR branch into its own worktree
	WorktreeFormat string

	Hooks  map[string]config.Hook
	NoHook bool

	DryRun bool
}

// Outcome describes what a run did.
type Outcome struct {
	State    *workflow.GitState `json:"state"`
	Scenario workflow.Scenario  `json:"scenario"`
	Action   workflow.ActionKey `json:"action,omitempty"`

	Cancelled bool `json:"cancelled,omitempty"`
	DryRun    bool `json:"dry_run,omitempty"`

	// Plan holds the git command lines of a dry run, publish steps included.
	Plan []string `json:"plan,omitempty"`

	Result   *workflow.Result `json:"result,omitempty"`
	PR       *forge.PRInfo    `json:"pr,omitempty"`
	Worktree string           `json:"worktree,omitempty"`

	// Warnings lists failed hooks. They never undo a run.
	Warnings []string `json:"warnings,omitempty"`
}

// Run classifies the current state and carries out the chosen action.
// A cancelled choice is not an error: the Outcome reports Cancelled.
// An error from the execute or publish phase comes with the partial Outcome.
func (f *Flow) Run(ctx context.Context, opts Options) (*Outcome, error) {
	l := log.FromContext(ctx)

	state, err := workflow.Analyze(ctx, f.Adapter, opts.BaseBranch)
	if err != nil {
		return nil, err
	}

	scenario := workflow.DetectScenario(state)
	out := &Outcome{State: state, Scenario: scenario}
	l.Debug("classified", "scenario", scenario, "branch", state.BranchLabel())

	if scenario == workflow.PRWorktree {
		return f.existingPR(ctx, opts, out)
	}

	sc := workflow.GetScenarioContext(scenario, state, state.BaseBranch)
	choice, err := f.Chooser.ChooseAction(ctx, scenario, sc)
	if err != nil {
		if errors.Is(err, workflow.ErrUserCancelled) {
			out.Cancelled = true
			return out, nil
		}
		return out, err
	}
	if choice.IsCancel() {
		out.Cancelled = true
		return out, nil
	}
	action := *choice.Action
	out.Action = action.Action

	planOpts := workflow.PlanOptions{
		Branch:        opts.Branch,
		Remote:        opts.Remote,
		CommitMessage: opts.CommitMessage,
		EmptyMessage:  opts.EmptyMessage,
		StashMessage:  opts.StashMessage,
	}
	if action.CreatesBranch() {
		branch, err := f.Chooser.BranchName(ctx, action, opts.Branch)
		if err != nil {
			if errors.Is(err, workflow.ErrUserCancelled) {
				out.Cancelled = true
				return out, nil
			}
			return out, err
		}
		planOpts.Branch = branch
	}

	if opts.DryRun {
		return f.dryRun(action, state, planOpts, opts, out)
	}

	res, err := workflow.Execute(ctx, f.Mutator, action, state, planOpts)
	out.Result = res
	if err != nil {
		return out, err
	}

	if err := f.publish(ctx, action, opts, out); err != nil {
		res.Success = false
		res.Error = err.Error()
		return out, err
	}
	return out, nil
}

// existingPR looks up the PR of a PR worktree's branch. Nothing is mutated.
func (f *Flow) existingPR(ctx context.Context, opts Options, out *Outcome) (*Outcome, error) {
	branch := out.State.CurrentBranch
	if branch == "" {
		return out, fmt.Errorf("PR worktree %s has no branch checked out", out.State.RepoRoot)
	}

	fg, remoteURL, err := f.forgeFor(ctx, opts)
	if err != nil {
		return out, err
	}
	pr, err := fg.GetPRForBranch(ctx, remoteURL, branch)
	if err != nil {
		return out, fmt.Errorf("look up PR for %s: %w", branch, err)
	}
	out.PR = pr
	return out, nil
}

func (f *Flow) forgeFor(ctx context.Context, opts Options) (forge.Forge, string, error) {
	remoteURL, err := f.Publisher.RemoteURL(ctx, remoteName(opts))
	if err != nil {
		return nil, "", fmt.Errorf("remote %s: %w", remoteName(opts), err)
	}
	fg, err := f.Forge(remoteURL)
	if err != nil {
		return nil, "", err
	}
	return fg, remoteURL, nil
}

func remoteName(opts Options) string {
	if opts.Remote == "" {
		return "origin"
	}
	return opts.Remote
}
