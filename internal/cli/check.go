package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ownerlint/internal/codeowners"
	"ownerlint/internal/flags"
	"ownerlint/internal/ownership"
)

var checkCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Show which rule owns the given paths",
	Long: `Show which CODEOWNERS rule owns each given path.

Paths are matched the way GitHub matches them: relative to the repository
root, with the last matching rule winning.

Examples:
	ownerlint check src/main.go
	ownerlint check src/main.go docs/guide.md
	ownerlint check --root ../other-repo cmd/tool/main.go
`,
	Args: cobra.MinimumNArgs(1),
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

		for _, arg := range args {
			res, ok := ownership.Resolve(file.Lines, arg)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no owners\n", arg)
				continue
			}
			if len(res.Owners) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no owners (matched %q on line %d)\n", arg, res.Pattern, res.Line+1)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (matched %q on line %d)\n",
				arg, strings.Join(res.Owners, " "), res.Pattern, res.Line+1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&cfg.Target.Root, flags.FlagRoot, "", "Repository root (default: current directory)")
	checkCmd.Flags().StringVar(&cfg.Target.File, flags.FlagFile, "", "Explicit CODEOWNERS path")
}
