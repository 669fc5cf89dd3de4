package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ownerlint/internal/diagnostics"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect
	// lint behavior, keep the CLI flags in internal/cli/lint.go in sync.
	Target  Target  `yaml:"target"`
	Checks  Checks  `yaml:"checks"`
	Output  Output  `yaml:"output"`
	Runtime Runtime `yaml:"runtime"`
}

type Target struct {
	// Root is the repository root to lint. Empty means the current
	// directory (see --root). The CODEOWNERS file and the tracked file
	// listing are both resolved relative to it.
	Root string `yaml:"root"`

	// File is an explicit CODEOWNERS path (see --file). Empty means the
	// standard locations are probed: CODEOWNERS, .github/CODEOWNERS,
	// docs/CODEOWNERS.
	File string `yaml:"file"`
}

type Checks struct {
	// Severities overrides the per-code severity, code -> severity.
	// Allowed severities: off, hint, info, warning, error.
	Severities map[string]string `yaml:"severities"`

	// Strict promotes warnings to errors for the exit-code decision
	// (see --strict). Reported severities are unchanged.
	Strict bool `yaml:"strict"`

	// GitHub enables online owner existence checks against the GitHub
	// API (see --github). Off by default: it needs network and usually
	// a token.
	GitHub bool `yaml:"github"`

	// Token is the GitHub access token for owner checks (see --token).
	// Empty falls back to GITHUB_TOKEN and then the gh CLI.
	Token string `yaml:"-"`
}

type Output struct {
	// ConsoleFormat controls the console sink format (see --format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string `yaml:"format"`

	// MinSeverity hides console findings below this severity (see
	// --min-severity). Empty shows everything.
	MinSeverity string `yaml:"min-severity"`

	// Report writes a Markdown report to this path (see --report).
	Report string `yaml:"report"`

	// Out writes structured output to this path (see --out).
	Out string `yaml:"out"`

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the
	// --out file extension.
	OutFormat string `yaml:"out-format"`

	// NoConsole suppresses the console sink (see --no-console).
	// Use with --out/--report for machine-readable output.
	NoConsole bool `yaml:"no-console"`
}

type Runtime struct {
	// Timeout is the global timeout for the run (see --timeout).
	// Must be > 0.
	Timeout Duration `yaml:"timeout"`

	// Verbose enables more detailed diagnostics, including GitHub API
	// request logging when owner checks are on.
	Verbose bool `yaml:"verbose"`
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func New() *Config {
	return &Config{
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Timeout: Duration(2 * time.Minute),
		},
	}
}

func (c *Config) Validate() error {
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		return errors.New("--format must be one of: text, json, ndjson")
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	c.Output.MinSeverity = normalizeEnumValue(c.Output.MinSeverity)
	if c.Output.MinSeverity != "" && c.Output.MinSeverity != "off" {
		if !diagnostics.ValidSeverity(c.Output.MinSeverity) {
			return fmt.Errorf("unsupported --min-severity: %s (must be one of: hint, info, warning, error)", c.Output.MinSeverity)
		}
	}

	for code, sev := range c.Checks.Severities {
		v := normalizeEnumValue(sev)
		if !diagnostics.ValidSeverity(v) {
			return fmt.Errorf("invalid severity %q for check %q (must be one of: off, hint, info, warning, error)", sev, code)
		}
		c.Checks.Severities[code] = v
	}

	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson", ".jsonl":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else {
			if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
				return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
			}
		}
	}

	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
