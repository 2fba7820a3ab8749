package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raphi011/wtpr/internal/forge"
	"github.com/raphi011/wtpr/internal/hooks"
	"github.com/raphi011/wtpr/internal/log"
	"github.com/raphi011/wtpr/internal/workflow"
	"github.com/raphi011/wtpr/internal/worktree"
)

// PublishError reports a failed step after the action's git mutations
// succeeded. Everything before Step stays applied.
type PublishError struct {
	Step string
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish: %s: %v", e.Step, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// publish pushes the branch, opens the PR and moves a new branch out of
// the main worktree, stopping at the first failure.
func (f *Flow) publish(ctx context.Context, action workflow.StateAction, opts Options, out *Outcome) error {
	res := out.Result
	state := out.State
	branch := res.Branch
	remote := remoteName(opts)
	l := log.FromContext(ctx)

	if opts.Push {
		l.Debug("publishing", "step", "push", "branch", branch, "remote", remote)
		if err := f.Publisher.Push(ctx, remote, branch, true); err != nil {
			return &PublishError{Step: "push " + branch, Err: err}
		}
		res.ChangesApplied = append(res.ChangesApplied, fmt.Sprintf("pushed %s to %s", branch, remote))
	}

	if !opts.CreatePR {
		return nil
	}

	pr, change, err := f.createPR(ctx, opts, state, branch)
	if err != nil {
		return &PublishError{Step: "create PR", Err: err}
	}
	out.PR = pr
	res.ChangesApplied = append(res.ChangesApplied, change)

	if movesToWorktree(action, opts, state) && pr.Number > 0 {
		path, err := f.moveToWorktree(ctx, opts, state, branch, pr.Number)
		if err != nil {
			return err
		}
		out.Worktree = path
		res.ChangesApplied = append(res.ChangesApplied, fmt.Sprintf("moved %s into worktree %s", branch, path))
	}

	f.runHooks(ctx, opts, out, branch)
	return nil
}

// runHooks runs the pr hooks and, when a PR worktree was attached, the
// worktree hooks. Failures become warnings on the outcome.
func (f *Flow) runHooks(ctx context.Context, opts Options, out *Outcome, branch string) {
	triggers := []hooks.Trigger{hooks.TriggerPR}
	dir := out.State.RepoRoot
	if out.Worktree != "" {
		triggers = append(triggers, hooks.TriggerWorktree)
		dir = out.Worktree
	}

	for _, trigger := range triggers {
		matches := hooks.Select(opts.Hooks, opts.NoHook, trigger)
		if len(matches) == 0 {
			continue
		}
		hctx := hooks.Context{
			Path:    dir,
			Branch:  branch,
			Base:    out.State.BaseBranch,
			Repo:    out.State.RepoName,
			Number:  out.PR.Number,
			URL:     out.PR.URL,
			Trigger: trigger,
		}
		if err := hooks.Run(ctx, f.RunHook, matches, hctx); err != nil {
			log.FromContext(ctx).Printf("Warning: %v\n", err)
			out.Warnings = append(out.Warnings, err.Error())
		}
	}
}

// createPR opens a PR for branch. An existing PR for the branch is reused.
func (f *Flow) createPR(ctx context.Context, opts Options, state *workflow.GitState, branch string) (*forge.PRInfo, string, error) {
	fg, remoteURL, err := f.forgeFor(ctx, opts)
	if err != nil {
		return nil, "", err
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		if title, err = f.Publisher.LastCommitSubject(ctx); err != nil {
			return nil, "", fmt.Errorf("PR title: %w", err)
		}
	}

	created, err := fg.CreatePR(ctx, remoteURL, forge.CreatePRParams{
		Title: title,
		Body:  opts.Body,
		Base:  state.BaseBranch,
		Head:  branch,
		Draft: opts.Draft,
	})
	if errors.Is(err, forge.ErrPRExists) {
		existing, lookupErr := fg.GetPRForBranch(ctx, remoteURL, branch)
		if lookupErr != nil || existing == nil {
			return nil, "", err
		}
		return existing, fmt.Sprintf("PR #%d already exists: %s", existing.Number, existing.URL), nil
	}
	if err != nil {
		return nil, "", err
	}

	pr := &forge.PRInfo{
		Number:  created.Number,
		State:   forge.PRStateOpen,
		IsDraft: opts.Draft,
		URL:     created.URL,
	}
	return pr, fmt.Sprintf("created PR #%d: %s", pr.Number, pr.URL), nil
}

// moveToWorktree restores the main worktree to what was checked out before
// and attaches branch as a <repo>.pr<N> worktree.
func (f *Flow) moveToWorktree(ctx context.Context, opts Options, state *workflow.GitState, branch string, number int) (string, error) {
	if state.CurrentBranch != "" {
		if err := f.Publisher.Checkout(ctx, state.CurrentBranch); err != nil {
			return "", &PublishError{Step: "restore " + state.CurrentBranch, Err: err}
		}
	} else {
		if err := f.Publisher.CheckoutDetached(ctx, state.HeadCommit); err != nil {
			return "", &PublishError{Step: "restore " + state.HeadCommit, Err: err}
		}
	}

	path := worktree.ResolvePath(state.RepoRoot, worktreeFormat(opts), worktree.Placeholders{
		Repo:   state.RepoName,
		Branch: branch,
		Number: number,
	})
	if err := f.Publisher.AddWorktree(ctx, path, branch); err != nil {
		return "", &PublishError{Step: "add worktree " + path, Err: err}
	}
	return path, nil
}

// dryRun fills out.Plan with the command lines a real run would execute.
func (f *Flow) dryRun(action workflow.StateAction, state *workflow.GitState, planOpts workflow.PlanOptions, opts Options, out *Outcome) (*Outcome, error) {
	out.DryRun = true

	steps, err := workflow.Plan(action, state, planOpts)
	if err != nil {
		return out, err
	}
	branch, err := workflow.TargetBranch(action, state, planOpts)
	if err != nil {
		return out, err
	}

	plan := make([]string, 0, len(steps)+4)
	for _, s := range steps {
		plan = append(plan, s.Command())
	}
	if opts.Push {
		push := workflow.Step{Kind: workflow.StepPush, Remote: remoteName(opts), Branch: branch, SetUpstream: true}
		plan = append(plan, push.Command())
	}
	if opts.CreatePR {
		plan = append(plan, fmt.Sprintf("create PR %s -> %s", branch, state.BaseBranch))
		if movesToWorktree(action, opts, state) {
			restore := "git checkout " + state.CurrentBranch
			if state.CurrentBranch == "" {
				restore = "git checkout --detach " + state.HeadCommit
			}
			path := worktree.ResolvePath(state.RepoRoot,
				strings.ReplaceAll(worktreeFormat(opts), "{number}", "<N>"),
				worktree.Placeholders{Repo: state.RepoName, Branch: branch})
			plan = append(plan, restore, "git worktree add "+path+" "+branch)
			plan = append(plan, dryRunHooks(opts, state, path, branch, hooks.TriggerPR, hooks.TriggerWorktree)...)
		} else {
			plan = append(plan, dryRunHooks(opts, state, state.RepoRoot, branch, hooks.TriggerPR)...)
		}
	}

	out.Plan = plan
	return out, nil
}

// dryRunHooks renders the hooks a run would start after the PR exists.
func dryRunHooks(opts Options, state *workflow.GitState, dir, branch string, triggers ...hooks.Trigger) []string {
	var lines []string
	for _, trigger := range triggers {
		for _, m := range hooks.Select(opts.Hooks, opts.NoHook, trigger) {
			command := hooks.SubstitutePlaceholders(m.Hook.Command, hooks.Context{
				Path:    dir,
				Branch:  branch,
				Base:    state.BaseBranch,
				Repo:    state.RepoName,
				Trigger: trigger,
			})
			lines = append(lines, fmt.Sprintf("hook %s: %s", m.Name, command))
		}
	}
	return lines
}

// movesToWorktree reports whether a new branch created in the main
// worktree gets moved into its own PR worktree.
func movesToWorktree(action workflow.StateAction, opts Options, state *workflow.GitState) bool {
	return opts.Worktree && action.CreatesBranch() && state.WorktreeType == workflow.WorktreeMain
}

func worktreeFormat(opts Options) string {
	if opts.WorktreeFormat == "" {
		return worktree.DefaultFormat
	}
	return opts.WorktreeFormat
}
