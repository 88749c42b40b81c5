package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"attrsync/internal/config"
	"attrsync/internal/engine"
	"attrsync/internal/flags"
	gh "attrsync/internal/github"
	"attrsync/internal/gitcmd"
)

var cfg = config.New()

var configPath string

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the .gitattributes template to an account's repositories",
	Long: `Apply the .gitattributes template to every repository the account owns.

For each repository, attrsync clones it into the work directory, checks for
an existing .gitattributes, copies the template when absent, commits, and
pushes. Repositories are processed one at a time, most recently pushed first,
with a short pause in between to stay under GitHub's rate limits. A failure
in one repository never stops the run; it is recorded and reported in the
summary.

Authentication:
  attrsync uses a GitHub access token. It prefers --token, then GITHUB_TOKEN,
  then GitHub CLI authentication if the gh CLI is installed and logged in.
  Pushes use your regular git credentials (credential helper or SSH agent).

Defaults:
  Flag defaults can come from ATTRSYNC_* environment variables (e.g.
  ATTRSYNC_USER) or a .attrsync.yaml file in the current or home directory.
  Explicit flags always win.

Exit codes:
	0 = run completed (individual repository failures are reported, not fatal)
	1 = fatal error (git missing, no token, template missing, zero repositories)

Examples:
  # Token via environment variable
  export GITHUB_TOKEN="<your_token>"
  attrsync apply --user octocat

  # Preview only; include private repositories
  attrsync apply --user octocat --include-private --dry-run

  # Custom template and commit message
  attrsync apply --user octocat --template ./templates/gitattributes \
    --message "Classify generated code for linguist"
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.ApplyDefaults(cmd.Flags(), cfg, configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// Env and config-file defaults count as input: only a completely bare
		// invocation shows help instead of running.
		if !runRequested(cmd.Flags(), args, cfg) {
			_ = cmd.Help()
			return
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Runtime.Timeout)
		defer cancel()

		token, _, err := gh.ResolveAuthToken(ctx, cfg.Runtime.Token)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to resolve GitHub auth token: %v\n", err)
			os.Exit(1)
		}
		if strings.TrimSpace(token) == "" {
			fmt.Fprintln(os.Stderr, "Error: GitHub auth token is required (set GITHUB_TOKEN or run 'gh auth login')")
			os.Exit(1)
		}

		client, err := gh.NewClient(ctx, token, gh.WithVerbose(cfg.Runtime.Verbose, nil))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create GitHub client: %v\n", err)
			os.Exit(1)
		}

		git := gitcmd.New(gitcmd.NewExecRunner(newGitLogger(cfg.Runtime.Verbose)))
		eng := engine.NewEngine(client, git)
		os.Exit(eng.Run(ctx, cfg))
	},
}

// runRequested reports whether the invocation carries enough input to start a
// run. It is evaluated after defaults are layered, so ATTRSYNC_USER or a
// config-file account is as good as --user.
func runRequested(flagSet *pflag.FlagSet, args []string, cfg *config.Config) bool {
	return len(args) > 0 || flagSet.NFlag() > 0 || cfg.Targeting.User != ""
}

// newGitLogger builds the zap logger used for git subprocess diagnostics.
// Without --verbose it is a no-op so normal runs stay quiet.
func newGitLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func init() {
	rootCmd.AddCommand(applyCmd)

	// Targeting
	applyCmd.Flags().StringVar(&cfg.Targeting.User, flags.FlagUser, "", "GitHub account whose repositories are processed (name or URL)")
	applyCmd.Flags().BoolVar(&cfg.Targeting.IncludePrivate, flags.FlagIncludePrivate, false, "Include private repositories")
	applyCmd.Flags().BoolVar(&cfg.Targeting.IncludeForks, flags.FlagIncludeForks, false, "Include forked repositories")
	applyCmd.Flags().StringSliceVar(&cfg.Targeting.Include, flags.FlagInclude, nil, "Include pattern(s) (repeatable; comma-separated accepted). Go path.Match style; if pattern contains '/', matches OWNER/REPO, else matches repo name")
	applyCmd.Flags().StringSliceVar(&cfg.Targeting.Exclude, flags.FlagExclude, nil, "Exclude pattern(s) (repeatable; comma-separated accepted). Same matching rules as --include")
	applyCmd.Flags().IntVar(&cfg.Targeting.MaxRepos, flags.FlagMaxRepos, 0, "Maximum number of repositories to process (0 = unlimited)")

	// Template
	applyCmd.Flags().StringVar(&cfg.Template.Source, flags.FlagTemplate, cfg.Template.Source, "Path of the template file to install")
	applyCmd.Flags().StringVar(&cfg.Template.Marker, flags.FlagMarker, cfg.Template.Marker, "In-repo destination path of the template")
	applyCmd.Flags().StringVar(&cfg.Template.Message, flags.FlagMessage, cfg.Template.Message, "Commit message")

	// Run
	applyCmd.Flags().StringVar(&cfg.Run.WorkDir, flags.FlagWorkDir, cfg.Run.WorkDir, "Directory for temporary clones (removed at end of run)")
	applyCmd.Flags().BoolVar(&cfg.Run.DryRun, flags.FlagDryRun, false, "Preview the plan without cloning, committing, or pushing (still requires auth token)")
	applyCmd.Flags().DurationVar(&cfg.Run.Pause, flags.FlagPause, cfg.Run.Pause, "Pause between repositories")
	applyCmd.Flags().BoolVar(&cfg.Run.KeepClones, flags.FlagKeepClones, false, "Keep temporary clones after the run (debugging)")

	// Output
	applyCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write the outcome list as a JSON array to this path")

	// Runtime
	applyCmd.Flags().StringVar(&cfg.Runtime.Token, flags.FlagToken, "", "GitHub access token (overrides GITHUB_TOKEN and gh CLI auth)")
	applyCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout (default: 30m)")
	applyCmd.Flags().StringVar(&configPath, flags.FlagConfig, "", "Explicit config file path (default: .attrsync.yaml in . or $HOME)")
}
