package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ownerlint/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ownerlint",
	Short: "Lint, query, and fix CODEOWNERS files",
	Long: `ownerlint analyzes GitHub CODEOWNERS files: it validates patterns and
owners, finds rules shadowed by later rules, reports patterns matching no
files, and measures ownership coverage against the repository's file tree.

Examples:
	# Show available commands and global flags
	ownerlint --help

	# Lint the CODEOWNERS file of the current repository
	ownerlint lint

	# Which rule owns a file?
	ownerlint check src/main.go

	# Ownership coverage
	ownerlint coverage

	# Print build info
	ownerlint version

Output:
	By default, commands write human-readable output to stdout.
	The lint command supports structured output (see "ownerlint lint --help").`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every GitHub API call and full error details)")
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
