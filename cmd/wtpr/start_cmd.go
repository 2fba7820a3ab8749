package main

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/wtpr/internal/config"
	"github.com/raphi011/wtpr/internal/flow"
	"github.com/raphi011/wtpr/internal/log"
	"github.com/raphi011/wtpr/internal/output"
	"github.com/raphi011/wtpr/internal/ui/styles"
	"github.com/raphi011/wtpr/internal/workflow"
)

func newStartCmd() *cobra.Command {
	var (
		base       string
		action     string
		branch     string
		message    string
		title      string
		body       string
		draft      bool
		noPush     bool
		noPR       bool
		noWorktree bool
		noHook     bool
		dryRun     bool
		copyURL    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "start",
		Short:   "Turn the current state into a PR branch",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Analyze the current repository and run one of the actions offered for
its state.

Without --action an interactive menu lists the choices that apply. Actions
that create a branch ask for its name unless --branch is given. After the
git steps ran, the branch is pushed, a PR is opened and a branch created
from the main worktree is moved into its own PR worktree. Configured hooks
run last.

Steps that already ran are not rolled back when a later one fails.`,
		Example: `  wtpr start                                   # Choose interactively
  wtpr start --action commit_all -b feat/login # Commit everything onto feat/login
  wtpr start --action empty_commit -b spike --draft
  wtpr start --dry-run --action use_commits -b fix  # Print the git commands only
  wtpr start --no-pr --action stash_and_empty -b wip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			adapter, cfg, err := openRepo(ctx, config.WorkDirFromContext(ctx))
			if err != nil {
				return err
			}

			opts := startOptions(cfg)
			if cmd.Flags().Changed("base") {
				opts.BaseBranch = base
			}
			if message != "" {
				opts.CommitMessage = message
				opts.EmptyMessage = message
			}
			opts.Branch = branch
			opts.Title = title
			opts.Body = body
			opts.Draft = opts.Draft || draft
			opts.Push = opts.Push && !noPush
			opts.CreatePR = opts.Push && !noPR
			opts.Worktree = opts.Worktree && !noWorktree
			opts.NoHook = noHook
			opts.DryRun = dryRun
			if noPush && !noPR {
				l.Println("Not pushing, so no PR is created")
			}

			f := &flow.Flow{
				Adapter:   adapter,
				Mutator:   adapter,
				Publisher: adapter.Repo(),
				Chooser:   flow.NewChooser(action, flow.IsInteractive(os.Stdin), branchValidator(ctx, adapter)),
				Forge:     forgeFunc(ctx, cfg),
			}

			outcome, runErr := f.Run(ctx, opts)
			if jsonOutput && outcome != nil {
				if err := out.JSON(outcome); err != nil {
					return err
				}
				return runErr
			}
			if outcome != nil {
				printOutcome(ctx, outcome)
			}
			if runErr != nil {
				return runErr
			}

			if copyURL && outcome.PR != nil && outcome.PR.URL != "" {
				if err := clipboard.WriteAll(outcome.PR.URL); err != nil {
					l.Printf("Warning: failed to copy to clipboard: %v\n", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base branch (default from config)")
	cmd.Flags().StringVarP(&action, "action", "a", "", "Action key to run without prompting")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Name of the branch to create")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message ({branch} expands to the branch name)")
	cmd.Flags().StringVar(&title, "title", "", "PR title (default: last commit subject)")
	cmd.Flags().StringVar(&body, "body", "", "PR body")
	cmd.Flags().BoolVar(&draft, "draft", false, "Open the PR as draft")
	cmd.Flags().BoolVar(&noPush, "no-push", false, "Do not push the branch")
	cmd.Flags().BoolVar(&noPR, "no-pr", false, "Do not open a PR")
	cmd.Flags().BoolVar(&noWorktree, "no-worktree", false, "Keep the new branch in the current worktree")
	cmd.Flags().BoolVar(&noHook, "no-hook", false, "Skip configured hooks")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the commands without running them")
	cmd.Flags().BoolVar(&copyURL, "copy", false, "Copy the PR URL to clipboard")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.RegisterFlagCompletionFunc("action", completeActions)

	return cmd
}

// startOptions seeds flow options from the effective config.
func startOptions(cfg *config.Config) flow.Options {
	return flow.Options{
		BaseBranch:     cfg.BaseBranch,
		Remote:         cfg.Remote,
		CommitMessage:  cfg.Commit.Message,
		EmptyMessage:   cfg.Commit.EmptyMessage,
		StashMessage:   cfg.Commit.StashMessage,
		Draft:          cfg.PR.Draft,
		Push:           cfg.PR.Push,
		CreatePR:       cfg.PR.Push,
		Worktree:       cfg.PR.Worktree,
		WorktreeFormat: cfg.PR.WorktreeFormat,
		Hooks:          cfg.Hooks,
	}
}

// printOutcome reports a run: plan lines for dry runs, applied changes
// otherwise. The PR URL goes to stdout so it can be piped.
func printOutcome(ctx context.Context, o *flow.Outcome) {
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	switch {
	case o.Cancelled:
		l.Println("Cancelled, nothing changed")
		return
	case o.Scenario == workflow.PRWorktree:
		if o.PR == nil {
			l.Printf("PR worktree for %s, no PR found\n", o.State.BranchLabel())
			return
		}
		l.Printf("PR worktree for %s: %s\n", o.State.BranchLabel(),
			styles.FormatPRRef(o.PR.Number, o.PR.State, o.PR.IsDraft, o.PR.URL))
		out.Println(o.PR.URL)
		return
	case o.DryRun:
		l.Printf("Would run %s:\n", o.Action)
		for _, line := range o.Plan {
			out.Println(line)
		}
		return
	}

	if o.Result != nil {
		for _, change := range o.Result.ChangesApplied {
			l.Printf("%s %s\n", styles.SuccessStyle.Render("✓"), change)
		}
		if o.Result.StashRef != "" {
			l.Printf("Stashed changes are kept in %s\n", styles.Bold.Render(o.Result.StashRef))
		}
	}
	if o.PR != nil && o.PR.URL != "" {
		out.Println(o.PR.URL)
	}
	if o.Worktree != "" {
		l.Printf("cd %s\n", o.Worktree)
	}
	for _, w := range o.Warnings {
		l.Println(styles.WarningStyle.Render("Warning: " + w))
	}
	if o.Result != nil && !o.Result.Success {
		l.Println(styles.WarningStyle.Render(fmt.Sprintf("%s stopped before finishing", o.Action)))
	}
}

// completeActions offers the keys valid for the current repository state.
func completeActions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Default()
	if loaded, err := config.Load(); err == nil {
		cfg = loaded
	}

	adapter, err := workflow.OpenGitAdapter(ctx, config.WorkDirFromContext(ctx), cfg.Remote)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	base := cfg.BaseBranch
	if flag := cmd.Flags().Lookup("base"); flag != nil && flag.Changed {
		base = flag.Value.String()
	}
	state, err := workflow.Analyze(ctx, adapter, base)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	scenario := workflow.DetectScenario(state)
	sc := workflow.GetScenarioContext(scenario, state, state.BaseBranch)
	if sc == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sc.Keys(), cobra.ShellCompDirectiveNoFileComp
}
