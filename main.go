package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abey/branch-ref/internal/config"
	"github.com/abey/branch-ref/internal/errors"
	"github.com/abey/branch-ref/internal/git"
	"github.com/abey/branch-ref/internal/logging"
)

const (
	Version     = "0.2.0"
	Description = "Inspect local and remote-tracking branches: their remotes, upstreams and names without the remote prefix."
)

func main() {
	a := &app{}
	defer a.close()

	if err := newRootCmd(a).Execute(); err != nil {
		a.close()
		errors.FatalError(errors.CodeOf(err), "%v", err)
	}
}

// app holds what the commands share. Everything but the flags is set up
// lazily so commands that need no repository never touch the disk.
type app struct {
	verbose bool

	repoRoot      string
	configService config.Service
	branches      git.BranchService
	logger        *slog.Logger
	logCloser     io.Closer
}

// setupConfig loads the user configuration and the logger. It does not need
// a repository.
func (a *app) setupConfig(stderr io.Writer) error {
	if a.configService != nil {
		return nil
	}

	configService, err := config.NewService(a.repoRoot)
	if err != nil {
		return errors.WithExitCode(errors.ExitConfig, fmt.Errorf("failed to initialize configuration service: %w", err))
	}

	logFile, err := configService.Config().LogPath()
	if err != nil {
		return errors.WithExitCode(errors.ExitConfig, err)
	}
	logger, closer, err := logging.New(logging.Options{
		Console:  stderr,
		Verbose:  a.verbose,
		FilePath: logFile,
	})
	if err != nil {
		return errors.WithExitCode(errors.ExitConfig, err)
	}
	a.logger = logger
	a.logCloser = closer
	a.configService = configService

	// Onboard on first use with the defaults
	if !configService.IsOnboarded() {
		if err := configService.Save(); err != nil {
			return errors.WithExitCode(errors.ExitConfig, fmt.Errorf("failed to save default configuration: %w", err))
		}
		logger.Info("Welcome to branch-ref! Default configuration written to " + configService.ConfigPath())
	}
	return nil
}

// setup is setupConfig plus the repository root, for commands that read
// branches.
func (a *app) setup(stderr io.Writer) error {
	if a.repoRoot == "" {
		repoRoot, err := config.FindGitRepoRoot()
		if err != nil {
			return errors.WithExitCode(errors.ExitGit, fmt.Errorf("not in a git repository: %w", err))
		}
		a.repoRoot = repoRoot
	}
	return a.setupConfig(stderr)
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

func (a *app) branchService() git.BranchService {
	if a.branches == nil {
		a.branches = git.NewBranchService(a.repoRoot, a.configService.Config().RemoteName, a.logger)
	}
	return a.branches
}

func (a *app) loader() (git.BranchLoader, error) {
	switch backend := a.configService.Config().Backend; backend {
	case "", config.BackendExec:
		return a.branchService(), nil
	case config.BackendGoGit:
		repo, err := git.OpenRepository(a.repoRoot, a.logger)
		if err != nil {
			return nil, errors.WithExitCode(errors.ExitGit, err)
		}
		return repo, nil
	default:
		return nil, errors.WithExitCode(errors.ExitConfig, fmt.Errorf("unknown backend '%s'", backend))
	}
}

func (a *app) loadBranches() ([]*git.Branch, error) {
	loader, err := a.loader()
	if err != nil {
		return nil, err
	}
	branches, err := loader.LoadBranches()
	if err != nil {
		return nil, errors.WithExitCode(errors.ExitGit, err)
	}
	return branches, nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "branch-ref",
		Short:         "Inspect local and remote-tracking branches",
		Long:          Description,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetVersionTemplate("branch-ref version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose output")

	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newDeleteCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

func newListCmd(a *app) *cobra.Command {
	var localOnly, remoteOnly, asYAML bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List local and remote-tracking branches, local first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd.ErrOrStderr()); err != nil {
				return err
			}
			branches, err := a.loadBranches()
			if err != nil {
				return err
			}

			include := a.configService.Config().IncludeRegex
			var selected []*git.Branch
			for _, b := range branches {
				if localOnly && b.IsRemote() || remoteOnly && !b.IsRemote() {
					continue
				}
				if len(include) > 0 && !git.MatchesAny(b.NameWithoutRemote(), include) {
					a.logger.Debug("skipping branch: no include pattern matches", "branch", b.Name())
					continue
				}
				selected = append(selected, b)
			}

			if asYAML {
				return writeYAML(cmd.OutOrStdout(), selected)
			}
			if len(selected) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No branches found.")
				return nil
			}
			writeBranchList(cmd.OutOrStdout(), selected)
			return nil
		},
	}

	cmd.Flags().BoolVar(&localOnly, "local-only", false, "Only list local branches")
	cmd.Flags().BoolVar(&remoteOnly, "remote-only", false, "Only list remote-tracking branches")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print branches as YAML")
	cmd.MarkFlagsMutuallyExclusive("local-only", "remote-only")

	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "show <branch>",
		Short: "Show the derived attributes of one branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd.ErrOrStderr()); err != nil {
				return err
			}
			branches, err := a.loadBranches()
			if err != nil {
				return err
			}
			branch, err := git.FindBranch(branches, args[0])
			if err != nil {
				return err
			}
			if asYAML {
				return writeYAML(cmd.OutOrStdout(), []*git.Branch{branch})
			}
			writeBranchDetails(cmd.OutOrStdout(), branch)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the branch as YAML")

	return cmd
}

func newParseCmd() *cobra.Command {
	var (
		upstream string
		remote   bool
	)

	cmd := &cobra.Command{
		Use:   "parse <name>",
		Short: "Derive remote and names from a branch name without a repository",
		Example: `  branch-ref parse main --upstream origin/main
  branch-ref parse origin/feature/x --remote`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := git.Local
			if remote {
				kind = git.Remote
			}
			writeBranchDetails(cmd.OutOrStdout(), git.NewBranch(args[0], upstream, nil, kind))
			return nil
		},
	}
	cmd.Flags().StringVar(&upstream, "upstream", "", "Remote-prefixed upstream name, e.g. origin/main")
	cmd.Flags().BoolVar(&remote, "remote", false, "Treat the name as a remote-tracking branch")

	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "delete <branch>",
		Short: "Delete a local branch, or a branch on its remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd.ErrOrStderr()); err != nil {
				return err
			}
			service := a.branchService()
			branch, err := service.GetBranchByName(args[0])
			if err != nil {
				return errors.WithExitCode(errors.ExitGit, err)
			}
			if service.IsProtectedBranch(branch, a.configService.Config().ProtectedRegex) {
				return errors.WithExitCode(errors.ExitGit, fmt.Errorf("%w: %s", git.ErrProtectedBranch, branch.Name()))
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "[DRY RUN] Would delete %s branch %s\n", branch.Kind(), branch.Name())
				return nil
			}
			if err := service.DeleteBranch(branch); err != nil {
				return errors.WithExitCode(errors.ExitGit, fmt.Errorf("failed to delete %s branch %s: %w", branch.Kind(), branch.Name(), err))
			}
			fmt.Fprintf(out, "✓ Deleted %s branch: %s\n", branch.Kind(), branch.Name())
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without actually doing it")

	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setupConfig(cmd.ErrOrStderr()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", a.configService.ConfigPath())
			return writeYAML(cmd.OutOrStdout(), a.configService.Config())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a configuration value",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setupConfig(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if err := a.configService.Set(args[0], args[1]); err != nil {
				return errors.WithExitCode(errors.ExitConfig, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			return nil
		},
	})

	return cmd
}
