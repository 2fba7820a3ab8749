package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtpr/internal/config"
	"github.com/raphi011/wtpr/internal/output"
	"github.com/raphi011/wtpr/internal/ui/static"
	"github.com/raphi011/wtpr/internal/ui/styles"
	"github.com/raphi011/wtpr/internal/workflow"
)

// StatusReport is the JSON form of wtpr status.
type StatusReport struct {
	State    *workflow.GitState        `json:"state"`
	Scenario workflow.Scenario         `json:"scenario"`
	Context  *workflow.ScenarioContext `json:"context,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var (
		base       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show the detected state and the actions it offers",
		Aliases: []string{"st"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Show how wtpr classifies the current repository and which actions
'wtpr start' would offer. Nothing is changed.`,
		Example: `  wtpr status              # Show scenario and choices
  wtpr status --base develop
  wtpr status --json       # Full state as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			adapter, cfg, err := openRepo(ctx, config.WorkDirFromContext(ctx))
			if err != nil {
				return err
			}
			baseBranch := cfg.BaseBranch
			if cmd.Flags().Changed("base") {
				baseBranch = base
			}

			state, err := workflow.Analyze(ctx, adapter, baseBranch)
			if err != nil {
				return err
			}
			scenario := workflow.DetectScenario(state)
			report := StatusReport{
				State:    state,
				Scenario: scenario,
				Context:  workflow.GetScenarioContext(scenario, state, state.BaseBranch),
			}

			if jsonOutput {
				return out.JSON(report)
			}
			out.Print(renderStatus(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base branch (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func renderStatus(r StatusReport) string {
	s := r.State
	fields := [][2]string{
		{"Repository", s.RepoName},
		{"Branch", s.BranchLabel()},
		{"Base", s.BaseRef},
		{"Relation", relationLabel(s)},
		{"Changes", styles.FormatStatus(string(s.WorkingTreeStatus))},
		{"Worktree", string(s.WorktreeType)},
		{"Scenario", styles.Bold.Render(string(r.Scenario))},
	}
	if s.PRNumber > 0 {
		fields = append(fields, [2]string{"PR", "#" + strconv.Itoa(s.PRNumber)})
	}

	var b strings.Builder
	b.WriteString(static.RenderFields(fields))

	if r.Context == nil {
		b.WriteString("\nThis is a PR worktree. 'wtpr start' shows its PR.\n")
		return b.String()
	}

	b.WriteString("\n" + r.Context.Message + "\n")
	if r.Context.SubMessage != "" {
		b.WriteString(styles.MutedStyle.Render(r.Context.SubMessage) + "\n")
	}
	b.WriteString("\n")
	for i, c := range r.Context.Choices {
		fmt.Fprintf(&b, "  %d. %s %s\n", i+1, c.Label, styles.MutedStyle.Render("("+c.Key()+")"))
	}
	return b.String()
}

func relationLabel(s *workflow.GitState) string {
	rel := string(s.CommitRelationship)
	if n := len(s.LocalCommits); n > 0 {
		rel += fmt.Sprintf(" (%d local)", n)
	}
	return rel
}
