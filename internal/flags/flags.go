package flags

// Package flags defines canonical CLI flag names shared across commands.
// Keeping these as constants helps avoid drift between Cobra flag wiring
// and the code paths that need to check whether a flag was set.
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Target
	FlagRoot = "root"
	FlagFile = "file"

	// Checks
	FlagSeverity = "severity"
	FlagStrict   = "strict"
	FlagGitHub   = "github"
	FlagToken    = "token"

	// Output
	FlagFormat      = "format"
	FlagMinSeverity = "min-severity"
	FlagReport      = "report"
	FlagOut         = "out"
	FlagOutFormat   = "out-format"
	FlagNoConsole   = "no-console"

	// Runtime
	FlagTimeout = "timeout"
	FlagVerbose = "verbose"

	// Fixing
	FlagWrite = "write"
)
