package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtpr/internal/config"
	"github.com/raphi011/wtpr/internal/flow"
	"github.com/raphi011/wtpr/internal/log"
	"github.com/raphi011/wtpr/internal/output"
	"github.com/raphi011/wtpr/internal/ui/static"
	"github.com/raphi011/wtpr/internal/ui/styles"
	"github.com/raphi011/wtpr/internal/workflow"
)

func newListCmd() *cobra.Command {
	var (
		base       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List worktrees with their detected scenario",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List every worktree of the current repository together with its
branch, PR number, working tree status and the scenario wtpr detects there.

Worktrees that cannot be analyzed are reported as warnings.`,
		Example: `  wtpr list          # Table of all worktrees
  wtpr list --json   # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			adapter, cfg, err := openRepo(ctx, config.WorkDirFromContext(ctx))
			if err != nil {
				return err
			}
			baseBranch := cfg.BaseBranch
			if cmd.Flags().Changed("base") {
				baseBranch = base
			}

			open := func(ctx context.Context, path string) (workflow.Adapter, error) {
				return workflow.OpenGitAdapter(ctx, path, cfg.Remote)
			}
			entries, warnings, err := flow.List(ctx, adapter, open, baseBranch)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				l.Printf("Warning: %v\n", w)
			}

			if jsonOutput {
				return out.JSON(entries)
			}
			if len(entries) == 0 {
				l.Println("No worktrees found")
				return nil
			}
			out.Print(renderEntries(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base branch (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func renderEntries(entries []flow.Entry) string {
	headers := []string{"PATH", "BRANCH", "PR", "STATUS", "RELATION", "SCENARIO"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		branch := e.Branch
		if branch == "" {
			branch = styles.MutedStyle.Render("(detached)")
		}
		pr := ""
		if e.PRNumber > 0 {
			pr = "#" + strconv.Itoa(e.PRNumber)
		}
		rel := string(e.Relationship)
		if e.Ahead > 0 {
			rel += " +" + strconv.Itoa(e.Ahead)
		}
		path := e.Path
		if e.IsMain {
			path += " " + styles.MutedStyle.Render("(main)")
		}
		rows = append(rows, []string{
			path,
			branch,
			pr,
			styles.FormatStatus(string(e.Status)),
			rel,
			string(e.Scenario),
		})
	}
	return static.RenderTable(headers, rows)
}
