package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ownerlint/internal/codeowners"
	"ownerlint/internal/flags"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Format a CODEOWNERS file",
	Long: `Format a CODEOWNERS file: normalize spacing between pattern and
owners, collapse runs of blank lines, and end the file with a newline.
Comments and rule order are preserved.

Without --write the formatted content goes to stdout and the file is
untouched.

Examples:
	ownerlint fmt
	ownerlint fmt --write
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

		formatted := codeowners.Format(string(content))

		if !fmtWrite {
			fmt.Fprint(cmd.OutOrStdout(), formatted)
			return nil
		}

		if formatted == string(content) {
			fmt.Fprintln(cmd.OutOrStdout(), "already formatted")
			return nil
		}
		if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "formatted %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().StringVar(&cfg.Target.Root, flags.FlagRoot, "", "Repository root (default: current directory)")
	fmtCmd.Flags().StringVar(&cfg.Target.File, flags.FlagFile, "", "Explicit CODEOWNERS path")
	fmtCmd.Flags().BoolVar(&fmtWrite, flags.FlagWrite, false, "Write the formatted content back to the file")
}
