package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ownerlint/internal/codeowners"
	"ownerlint/internal/filecache"
	"ownerlint/internal/flags"
	"ownerlint/internal/ownership"
)

var fixWrite bool

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Apply safe automatic fixes to a CODEOWNERS file",
	Long: `Apply the safe subset of fixes to a CODEOWNERS file:

	- remove duplicated owners on a line
	- remove exact duplicate rules (the earlier, dead one)
	- remove rules whose pattern matches no files

Fixes never change which files end up owned by whom. Without --write the
fixed content goes to stdout and the file is untouched.

Examples:
	# Preview
	ownerlint fix

	# Apply in place
	ownerlint fix --write
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

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Runtime.Timeout.Std())
		defer cancel()
		cache, err := filecache.Load(ctx, codeowners.RepoRoot(path, root))
		if err != nil {
			return fmt.Errorf("listing repository files: %w", err)
		}

		result := ownership.ApplySafeFixes(string(content), cache)

		if !fixWrite {
			fmt.Fprint(cmd.OutOrStdout(), result.Content)
			if len(result.Fixes) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d fix(es) available; rerun with --write to apply\n", len(result.Fixes))
			}
			return nil
		}

		if len(result.Fixes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to fix")
			return nil
		}
		if err := os.WriteFile(path, []byte(result.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d fix(es) to %s:\n", len(result.Fixes), path)
		for _, f := range result.Fixes {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
	fixCmd.Flags().StringVar(&cfg.Target.Root, flags.FlagRoot, "", "Repository root (default: current directory)")
	fixCmd.Flags().StringVar(&cfg.Target.File, flags.FlagFile, "", "Explicit CODEOWNERS path")
	fixCmd.Flags().BoolVar(&fixWrite, flags.FlagWrite, false, "Write the fixed content back to the file")
}
