package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtpr/internal/config"
	"github.com/raphi011/wtpr/internal/git"
	"github.com/raphi011/wtpr/internal/log"
	"github.com/raphi011/wtpr/internal/output"
	"github.com/raphi011/wtpr/internal/workflow"
)

var (
	// Global flags
	verbose bool
	quiet   bool
)

// Command group IDs for organizing help output
const (
	GroupCore   = "core"
	GroupConfig = "config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wtpr",
		Short: "Turn the current git state into a PR branch",
		Long: `wtpr looks at the current repository (branch, commits ahead of the base
branch, staged and unstaged changes, worktree) and offers the actions that
make sense from there: commit what you have onto a new branch, stash it,
or start with an empty commit. It then pushes the branch, opens the PR and
moves the branch into its own <repo>.pr<N> worktree.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet))
			cmd.SetContext(ctx)

			// Skip setup for completion, help, config init and doctor,
			// which loads the config itself to report errors
			switch cmd.Name() {
			case "completion", "__complete", "help", "init", "doctor":
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cmd.SetContext(config.WithResolver(ctx, config.NewResolver(&cfg)))

			return git.CheckGit()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newListCmd())

	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wtpr: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout for primary data, the logger (set up once flags are parsed) for diagnostics
	ctx = output.WithPrinter(ctx, os.Stdout)
	ctx = config.WithWorkDir(ctx, workDir)

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(err)
		cancel()
		os.Exit(1)
	}
}

// printError reports err on stderr with a hint for the error kinds users
// can act on.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "wtpr: %v\n", err)

	var stepErr *workflow.StepError
	if errors.As(err, &stepErr) && stepErr.Index > 0 {
		fmt.Fprintf(os.Stderr, "The %d step(s) before it were applied and are not rolled back\n", stepErr.Index)
	}

	var invalid *workflow.InvalidActionError
	if errors.As(err, &invalid) {
		fmt.Fprintln(os.Stderr, "Run 'wtpr status' to see the available actions")
	}
}
