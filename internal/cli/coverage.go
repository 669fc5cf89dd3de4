package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ownerlint/internal/codeowners"
	"ownerlint/internal/filecache"
	"ownerlint/internal/flags"
)

var coverageListUnowned bool

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Report how much of the repository has code owners",
	Long: `Report ownership coverage: how many of the repository's files are
matched by at least one CODEOWNERS rule.

Files are listed the way git sees them (tracked plus unignored untracked
files); outside a git checkout the directory tree is walked instead.

Examples:
	ownerlint coverage
	ownerlint coverage --unowned
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cfg.Target.Root
		if root == "" {
			root = "."
		}

		path := cfg.Target.File
		if path == "" {
			path = codeowners.Locate(root)
			if path == "" {
				return fmt.Errorf("no CODEOWNERS file found in %s", root)
			}
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		file := codeowners.ParseFile(string(content))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Runtime.Timeout.Std())
		defer cancel()
		cache, err := filecache.Load(ctx, root)
		if err != nil {
			return fmt.Errorf("listing repository files: %w", err)
		}

		total := len(cache.Files())
		unowned := cache.UnownedFiles(file.Lines)
		owned := total - len(unowned)

		pct := 100.0
		if total > 0 {
			pct = float64(owned) / float64(total) * 100
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d/%d files owned (%.1f%%), %d unowned\n", owned, total, pct, len(unowned))

		if coverageListUnowned {
			for _, f := range unowned {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(coverageCmd)
	coverageCmd.Flags().StringVar(&cfg.Target.Root, flags.FlagRoot, "", "Repository root (default: current directory)")
	coverageCmd.Flags().StringVar(&cfg.Target.File, flags.FlagFile, "", "Explicit CODEOWNERS path")
	coverageCmd.Flags().BoolVar(&coverageListUnowned, "unowned", false, "List every unowned file")
}
