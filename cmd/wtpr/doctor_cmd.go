package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtpr/internal/config"
	"github.com/raphi011/wtpr/internal/doctor"
	"github.com/raphi011/wtpr/internal/forge"
	"github.com/raphi011/wtpr/internal/git"
	"github.com/raphi011/wtpr/internal/log"
	"github.com/raphi011/wtpr/internal/output"
	"github.com/raphi011/wtpr/internal/ui/styles"
)

func newDoctorCmd() *cobra.Command {
	var (
		fix        bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose setup, forge access and worktrees",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Check that wtpr can do its job here: git is installed, the config
parses, the remote and base branch exist, the forge CLI or token works and
every worktree of the repository still exists on disk.

Use --fix to prune worktree entries whose directory is gone.`,
		Example: `  wtpr doctor          # Run all checks
  wtpr doctor --fix    # Prune stale worktree entries
  wtpr doctor --json   # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			dir := config.WorkDirFromContext(ctx)

			cfg, cfgErr := doctorConfig(ctx, dir)
			opts := doctor.Options{
				Dir:       dir,
				Config:    cfg,
				ConfigErr: cfgErr,
				Forge: func(remoteURL string) (forge.Forge, error) {
					return forge.New(remoteURL, forgeOptions(cfg))
				},
			}
			report, err := doctor.Run(ctx, opts)
			if err != nil {
				return err
			}

			if fix {
				applied, err := doctor.Fix(ctx, dir, report)
				for _, a := range applied {
					l.Printf("%s %s\n", styles.SuccessStyle.Render("✓"), a)
				}
				if err != nil {
					return err
				}
				if len(applied) > 0 {
					if report, err = doctor.Run(ctx, opts); err != nil {
						return err
					}
				}
			}

			if jsonOutput {
				if err := out.JSON(report); err != nil {
					return err
				}
			} else {
				out.Print(renderReport(report, fix))
			}
			if report.Failed() {
				return fmt.Errorf("%d check(s) failed", report.Count(doctor.StatusFail))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Repair what can be repaired")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// doctorConfig loads the effective config for dir. A broken config is
// returned as error alongside the defaults so the other checks still run.
func doctorConfig(ctx context.Context, dir string) (*config.Config, error) {
	global, err := config.Load()
	if err != nil {
		d := config.Default()
		return &d, err
	}
	resolver := config.NewResolver(&global)

	repo, err := git.Open(ctx, dir)
	if err != nil {
		return resolver.Global(), nil
	}
	root, err := git.GetMainRepoPath(repo.Root())
	if err != nil {
		root = repo.Root()
	}
	cfg, err := resolver.ConfigForRepo(root)
	if err != nil {
		return resolver.Global(), err
	}
	return cfg, nil
}

func renderReport(r *doctor.Report, fixed bool) string {
	titles := map[doctor.Category]string{
		doctor.CategorySetup:    "Setup",
		doctor.CategoryRepo:     "Repository",
		doctor.CategoryForge:    "Forge",
		doctor.CategoryWorktree: "Worktrees",
	}

	var b strings.Builder
	var current doctor.Category
	for _, c := range r.Checks {
		if c.Category != current {
			if current != "" {
				b.WriteString("\n")
			}
			current = c.Category
			b.WriteString(styles.Bold.Render(titles[c.Category]) + "\n")
		}
		line := fmt.Sprintf("  %s %s", statusSymbol(c.Status), c.Name)
		if c.Detail != "" {
			line += styles.MutedStyle.Render(": " + c.Detail)
		}
		b.WriteString(line + "\n")
	}

	fails, warns := r.Count(doctor.StatusFail), r.Count(doctor.StatusWarn)
	b.WriteString("\n")
	switch {
	case fails == 0 && warns == 0:
		b.WriteString(styles.SuccessStyle.Render("✓ No issues found") + "\n")
	default:
		fmt.Fprintf(&b, "%d failed, %d warning(s)\n", fails, warns)
	}
	if !fixed && len(r.Fixable()) > 0 {
		b.WriteString("Run 'wtpr doctor --fix' to repair.\n")
	}
	return b.String()
}

func statusSymbol(s doctor.Status) string {
	switch s {
	case doctor.StatusOK:
		return styles.SuccessStyle.Render("✓")
	case doctor.StatusWarn:
		return styles.WarningStyle.Render("⚠")
	default:
		return styles.ErrorStyle.Render("✗")
	}
}
