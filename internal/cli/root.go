package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"attrsync/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "attrsync",
	Short: "Propagate a .gitattributes template across a GitHub account's repositories",
	Long: `attrsync installs a shared .gitattributes template (linguist
language-classification rules) into every repository a GitHub account owns:
it lists the repositories, clones each one, copies the template if it is not
already present, commits, and pushes.

attrsync never overwrites an existing .gitattributes: repositories that
already carry the marker are skipped.

Examples:
	# Show available commands and global flags
	attrsync --help

	# Preview what would change for a user
	attrsync apply --user octocat --dry-run

	# Apply the template for real
	attrsync apply --user octocat

	# Print build info
	attrsync version

Output:
	Progress is written to stderr while repositories are processed; the final
	summary (counts by status plus details for skipped/errored repositories)
	is written to stdout. Use --out to also write a JSON report.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every GitHub API call and every git invocation)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
