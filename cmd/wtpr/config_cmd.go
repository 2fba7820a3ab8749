package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtpr/internal/config"
	"github.com/raphi011/wtpr/internal/flow"
	"github.com/raphi011/wtpr/internal/git"
	"github.com/raphi011/wtpr/internal/log"
	"github.com/raphi011/wtpr/internal/output"
	"github.com/raphi011/wtpr/internal/ui/prompt"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage wtpr configuration.

Global config: ~/.config/wtpr/config.toml (or $WTPR_CONFIG)
Local config:  .wtpr.toml (in the main worktree)`,
		Example: `  wtpr config init          # Create default global config
  wtpr config init --local  # Create local repo config
  wtpr config show          # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates the global config. With --local, creates .wtpr.toml
in the main worktree of the current repository.`,
		Example: `  wtpr config init           # Create global config
  wtpr config init --local   # Create local repo config
  wtpr config init -f        # Overwrite existing config
  wtpr config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			if stdout {
				if local {
					out.Print(config.DefaultLocalConfig())
				} else {
					out.Print(config.DefaultConfig())
				}
				return nil
			}

			write := func(force bool) (string, error) {
				if !local {
					return config.Init(force)
				}
				repo, err := git.Open(ctx, config.WorkDirFromContext(ctx))
				if err != nil {
					return "", fmt.Errorf("not inside a git repository: %w", err)
				}
				root, err := git.GetMainRepoPath(repo.Root())
				if err != nil {
					root = repo.Root()
				}
				return config.InitLocal(root, force)
			}

			path, err := write(force)
			if errors.Is(err, config.ErrConfigExists) && flow.IsInteractive(os.Stdin) {
				res, promptErr := prompt.Confirm(fmt.Sprintf("%s exists. Overwrite?", path), false)
				if promptErr != nil {
					return promptErr
				}
				if !res.Confirmed || res.Cancelled {
					l.Println("Kept existing config")
					return nil
				}
				path, err = write(true)
			}
			if errors.Is(err, config.ErrConfigExists) {
				return fmt.Errorf("%w (use -f to overwrite)", err)
			}
			if err != nil {
				return err
			}

			l.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create per-repo .wtpr.toml instead of global config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration.

Inside a repository the local .wtpr.toml is merged over the global config.`,
		Example: `  wtpr config show         # Show config as TOML
  wtpr config show --json  # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			cfg := config.ResolverFromContext(ctx).Global()
			if _, repoCfg, err := openRepo(ctx, config.WorkDirFromContext(ctx)); err == nil {
				cfg = repoCfg
			} else {
				log.FromContext(ctx).Debug("showing global config", "reason", err)
			}

			if jsonOutput {
				return out.JSON(cfg)
			}
			return config.Encode(out.Writer(), cfg)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
