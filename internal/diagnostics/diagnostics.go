// Package diagnostics detects CODEOWNERS issues: invalid syntax, dead
// rules, patterns matching nothing, and coverage gaps. All outcomes are
// returned as data; malformed input becomes diagnostics, never errors.
package diagnostics

// Code identifies a diagnostic class. Severity configuration is keyed by
// code.
type Code string

const (
	CodeInvalidPattern Code = "invalid-pattern"
	CodeInvalidOwner   Code = "invalid-owner"
	CodePatternNoMatch Code = "pattern-no-match"
	CodeDuplicateOwner Code = "duplicate-owner"
	CodeShadowedRule   Code = "shadowed-rule"
	CodeNoOwners       Code = "no-owners"
	CodeUnownedFiles   Code = "unowned-files"
	CodeOwnerNotFound  Code = "github-owner-not-found"
)

type Severity string

const (
	SeverityHint    Severity = "hint"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// severityOff is the configuration value suppressing a code entirely; it
// is never attached to an emitted diagnostic.
const severityOff = "off"

// ValidSeverity reports whether s is an accepted configuration value.
func ValidSeverity(s string) bool {
	switch Severity(s) {
	case SeverityHint, SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return s == severityOff
}

// Defaults returns the built-in severity per code, applied when a code
// has no configured override. Callers pass this to NewEngine explicitly;
// the engine holds no hidden global table.
func Defaults() map[Code]Severity {
	return map[Code]Severity{
		CodeInvalidPattern: SeverityError,
		CodeInvalidOwner:   SeverityError,
		CodePatternNoMatch: SeverityWarning,
		CodeDuplicateOwner: SeverityWarning,
		CodeShadowedRule:   SeverityWarning,
		CodeNoOwners:       SeverityHint,
		CodeUnownedFiles:   SeverityInfo,
		CodeOwnerNotFound:  SeverityWarning,
	}
}

// Config holds per-code severity overrides. The zero value configures
// nothing: every code keeps its default.
type Config struct {
	overrides map[Code]Severity
	off       map[Code]bool
}

// ConfigFromMap builds a Config from code -> severity strings, the shape
// config files use. Unknown severity values are ignored, leaving the
// code's default in effect.
func ConfigFromMap(m map[string]string) Config {
	cfg := Config{
		overrides: make(map[Code]Severity),
		off:       make(map[Code]bool),
	}
	for code, value := range m {
		if value == severityOff {
			cfg.off[Code(code)] = true
			continue
		}
		if ValidSeverity(value) {
			cfg.overrides[Code(code)] = Severity(value)
		}
	}
	return cfg
}

// Resolve returns the effective severity for code, and false when the
// code is configured off.
func (c Config) Resolve(code Code, def Severity) (Severity, bool) {
	if c.off[code] {
		return def, false
	}
	if sev, ok := c.overrides[code]; ok {
		return sev, true
	}
	return def, true
}

// Diagnostic is one reported issue. Character offsets are byte positions
// within the line; EndChar -1 means end of line. RelatedLine points at a
// supporting line (the shadowing rule), -1 when absent. Immutable once
// constructed.
type Diagnostic struct {
	Line        int      `json:"line"`
	StartChar   int      `json:"start_char"`
	EndChar     int      `json:"end_char"`
	Severity    Severity `json:"severity"`
	Code        Code     `json:"code"`
	Message     string   `json:"message"`
	RelatedLine int      `json:"related_line,omitempty"`
}

// rank orders severities for exit-code decisions.
func rank(s Severity) int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is at least as severe as threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return rank(s) >= rank(threshold)
}
