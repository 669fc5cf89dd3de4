package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ownerlint/internal/codeowners"
	"ownerlint/internal/config"
	"ownerlint/internal/diagnostics"
	"ownerlint/internal/filecache"
	"ownerlint/internal/flags"
	gh "ownerlint/internal/github"
	"ownerlint/internal/output"
)

var cfg = config.New()

var (
	severityFlags []string
	lintTimeout   time.Duration
)

const lintHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Configuration:
	Severities and defaults can be set in .ownerlint.yml at the repository
	root; .ownerlint.local.yml overlays it and is meant for per-developer
	settings. CLI flags win over both.

Environment (only with --github):
	Owner existence checks authenticate to GitHub using an access token.

	Sources (in order):
	1) --token flag
	2) GITHUB_TOKEN environment variable
	3) GitHub CLI (gh) authentication via gh auth token (if gh is installed and logged in)

Exit codes:
	0 = no findings at error severity
	1 = findings at error severity (or warning, with --strict)
	3 = fatal error (lint did not run)

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint a CODEOWNERS file",
	Long: `Lint a CODEOWNERS file against the repository's file tree.

Checks:
	invalid-pattern    pattern does not parse
	invalid-owner      owner is not @user, @org/team, or an email
	pattern-no-match   pattern matches no files in the repository
	duplicate-owner    same owner listed twice on one line
	shadowed-rule      rule fully covered by a later rule (last match wins)
	no-owners          rule with no owners
	unowned-files      files not covered by any rule

With --github, owners are also checked for existence via the GitHub API
(github-owner-not-found). That needs network access and usually a token.

Output:
	Console output is controlled by --format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --report: write a Markdown summary to a file
	- --no-console: suppress the console sink (use with --out/--report)

	NDJSON mode emits one JSON object per line: lifecycle Events with a
	"type" field (run.started, finding, run.finished).

Examples:
	# Lint the repository in the current directory
	ownerlint lint

	# Treat warnings as fatal in CI
	ownerlint lint --strict

	# Machine-readable findings
	ownerlint lint --no-console --out findings.ndjson

	# Turn a check off for one run
	ownerlint lint --severity shadowed-rule=off
`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runLint(cmd))
	},
}

func runLint(cmd *cobra.Command) int {
	root := cfg.Target.Root
	if root == "" {
		root = "."
	}

	fileCfg, err := config.Load(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}
	applyFileConfig(cmd, cfg, fileCfg)

	if err := applySeverityFlags(cfg, severityFlags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Runtime.Timeout.Std())
	defer cancel()

	path := cfg.Target.File
	if path == "" {
		path = codeowners.Locate(root)
		if path == "" {
			fmt.Fprintf(os.Stderr, "Error: no CODEOWNERS file found in %s (tried CODEOWNERS, .github/CODEOWNERS, docs/CODEOWNERS)\n", root)
			return 3
		}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", path, err)
		return 3
	}
	file := codeowners.ParseFile(string(content))

	// An explicit --file may live outside --root; the file tree is
	// resolved against the repository the CODEOWNERS file belongs to.
	cacheRoot := root
	if cfg.Target.File != "" {
		cacheRoot = codeowners.RepoRoot(path, root)
	}
	cache, err := filecache.Load(ctx, cacheRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: listing repository files: %v\n", err)
		return 3
	}

	eng := diagnostics.NewEngine(diagnostics.ConfigFromMap(cfg.Checks.Severities), diagnostics.Defaults())
	diags := eng.Analyze(file, cache)

	if cfg.Checks.GitHub {
		if sev, on := eng.SeverityFor(diagnostics.CodeOwnerNotFound); on {
			ghDiags, err := checkOwnersOnline(ctx, file, sev)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 3
			}
			diags = append(diags, ghDiags...)
		}
	}

	mgr, err := buildSinks(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}

	code := exitCode(diags, cfg.Checks.Strict)

	_ = mgr.Write(output.Event{Type: "run.started", File: path})
	for _, d := range diags {
		if err := mgr.Write(output.Finding{File: path, Diagnostic: d}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	_ = mgr.Write(output.Event{Type: "run.finished", Findings: len(diags), ExitCode: code})
	if err := mgr.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}

	return code
}

func checkOwnersOnline(ctx context.Context, file codeowners.File, sev diagnostics.Severity) ([]diagnostics.Diagnostic, error) {
	token, _, err := gh.ResolveToken(ctx, cfg.Checks.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve GitHub auth token: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("GitHub auth token is required for --github (set GITHUB_TOKEN or run 'gh auth login')")
	}
	client, err := gh.NewClient(ctx, token, gh.WithVerbose(cfg.Runtime.Verbose, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return client.CheckOwners(ctx, file, sev)
}

func buildSinks(cfg *config.Config) (*output.Manager, error) {
	mgr := output.NewManager()
	if !cfg.Output.NoConsole {
		sink := output.NewConsoleSink(os.Stdout, cfg.Output.ConsoleFormat, diagnostics.Severity(cfg.Output.MinSeverity))
		if err := mgr.AddSink(sink); err != nil {
			return nil, err
		}
	}
	if cfg.Output.Out != "" {
		sink, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			return nil, err
		}
		if err := mgr.AddSink(sink); err != nil {
			return nil, err
		}
	}
	if cfg.Output.Report != "" {
		sink, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			return nil, err
		}
		if err := mgr.AddSink(sink); err != nil {
			return nil, err
		}
	}
	return mgr, nil
}

// applyFileConfig fills in every setting the user did not pass as a flag
// from the layered config files. Flags always win.
func applyFileConfig(cmd *cobra.Command, cfg, fileCfg *config.Config) {
	if cmd == nil {
		return
	}
	changed := func(name string) bool { return cmd.Flags().Changed(name) }

	if !changed(flags.FlagFile) {
		cfg.Target.File = fileCfg.Target.File
	}
	if !changed(flags.FlagStrict) {
		cfg.Checks.Strict = fileCfg.Checks.Strict
	}
	if !changed(flags.FlagGitHub) {
		cfg.Checks.GitHub = fileCfg.Checks.GitHub
	}
	if !changed(flags.FlagFormat) {
		cfg.Output.ConsoleFormat = fileCfg.Output.ConsoleFormat
	}
	if !changed(flags.FlagMinSeverity) {
		cfg.Output.MinSeverity = fileCfg.Output.MinSeverity
	}
	if !changed(flags.FlagReport) {
		cfg.Output.Report = fileCfg.Output.Report
	}
	if !changed(flags.FlagOut) {
		cfg.Output.Out = fileCfg.Output.Out
	}
	if !changed(flags.FlagOutFormat) {
		cfg.Output.OutFormat = fileCfg.Output.OutFormat
	}
	if !changed(flags.FlagNoConsole) {
		cfg.Output.NoConsole = fileCfg.Output.NoConsole
	}
	if changed(flags.FlagTimeout) {
		cfg.Runtime.Timeout = config.Duration(lintTimeout)
	} else {
		cfg.Runtime.Timeout = fileCfg.Runtime.Timeout
	}
	if !changed(flags.FlagVerbose) && fileCfg.Runtime.Verbose {
		cfg.Runtime.Verbose = true
	}

	// Severities from files form the base; --severity entries are layered
	// on top by applySeverityFlags.
	cfg.Checks.Severities = fileCfg.Checks.Severities
}

// applySeverityFlags overlays --severity code=severity pairs onto the
// configured severities.
func applySeverityFlags(cfg *config.Config, entries []string) error {
	if len(entries) == 0 {
		return nil
	}
	if cfg.Checks.Severities == nil {
		cfg.Checks.Severities = make(map[string]string)
	}
	for _, raw := range entries {
		code, sev, ok := strings.Cut(raw, "=")
		code = strings.TrimSpace(code)
		sev = strings.TrimSpace(sev)
		if !ok || code == "" || sev == "" {
			return fmt.Errorf("invalid --severity entry %q: expected code=severity", raw)
		}
		cfg.Checks.Severities[code] = sev
	}
	return nil
}

// exitCode decides the process exit code from the findings. Errors are
// always fatal; strict mode drags warnings along.
func exitCode(diags []diagnostics.Diagnostic, strict bool) int {
	threshold := diagnostics.SeverityError
	if strict {
		threshold = diagnostics.SeverityWarning
	}
	for _, d := range diags {
		if d.Severity.AtLeast(threshold) {
			return 1
		}
	}
	return 0
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.SetHelpTemplate(lintHelpTemplate)

	// Target
	lintCmd.Flags().StringVar(&cfg.Target.Root, flags.FlagRoot, "", "Repository root to lint (default: current directory)")
	lintCmd.Flags().StringVar(&cfg.Target.File, flags.FlagFile, "", "Explicit CODEOWNERS path (default: probe CODEOWNERS, .github/CODEOWNERS, docs/CODEOWNERS)")

	// Checks
	lintCmd.Flags().StringSliceVar(&severityFlags, flags.FlagSeverity, nil, "Per-check severity as code=severity (repeatable; comma-separated accepted; severity one of off|hint|info|warning|error)")
	lintCmd.Flags().BoolVar(&cfg.Checks.Strict, flags.FlagStrict, false, "Treat warnings as fatal for the exit code")
	lintCmd.Flags().BoolVar(&cfg.Checks.GitHub, flags.FlagGitHub, false, "Check owner existence via the GitHub API")
	lintCmd.Flags().StringVar(&cfg.Checks.Token, flags.FlagToken, "", "GitHub access token for --github (default: GITHUB_TOKEN, then gh CLI)")

	// Output
	lintCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagFormat, "text", "Console output format: text|json|ndjson (default: text)")
	lintCmd.Flags().StringVar(&cfg.Output.MinSeverity, flags.FlagMinSeverity, "", "Hide console findings below this severity: hint|info|warning|error")
	lintCmd.Flags().StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	lintCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	lintCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	lintCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --out/--report)")

	// Runtime
	lintCmd.Flags().DurationVar(&lintTimeout, flags.FlagTimeout, cfg.Runtime.Timeout.Std(), "Global timeout (default: 2m)")
}
