package diagnostics

import (
	"fmt"
	"strings"

	"ownerlint/internal/codeowners"
	"ownerlint/internal/filecache"
	"ownerlint/internal/owners"
	"ownerlint/internal/pattern"
)

// unownedSampleSize bounds the file sample quoted in the coverage
// diagnostic.
const unownedSampleSize = 5

// Engine computes diagnostics for parsed CODEOWNERS files. It carries no
// state between analyses; construct once and reuse freely.
type Engine struct {
	cfg      Config
	defaults map[Code]Severity
}

// NewEngine builds an engine with the given severity overrides and
// default table (normally Defaults()).
func NewEngine(cfg Config, defaults map[Code]Severity) *Engine {
	return &Engine{cfg: cfg, defaults: defaults}
}

// SeverityFor resolves the effective severity of code; false means the
// code is configured off and must not be emitted.
func (e *Engine) SeverityFor(code Code) (Severity, bool) {
	return e.cfg.Resolve(code, e.defaults[code])
}

// Analyze runs one pass over the parsed file and returns its diagnostics.
// A nil cache silently disables the checks needing the file set
// (pattern-no-match and unowned-files); everything else still runs.
// Malformed patterns and owners become diagnostics, never errors.
func (e *Engine) Analyze(file codeowners.File, cache *filecache.Cache) []Diagnostic {
	var diags []Diagnostic

	shadowSev, shadowOn := e.SeverityFor(CodeShadowedRule)

	type seenPattern struct {
		pattern string
		line    int
	}
	var seen []seenPattern
	lastExact := make(map[string]int)

	type checkedPattern struct {
		pattern    string
		line       int
		start, end int
	}
	var toCheck []checkedPattern

	for _, ln := range file.Lines {
		if ln.Kind != codeowners.LineRule {
			continue
		}

		// Pattern validity; malformed patterns skip the existence check.
		if err := pattern.Validate(ln.Pattern); err != nil {
			if sev, on := e.SeverityFor(CodeInvalidPattern); on {
				diags = append(diags, Diagnostic{
					Line:        ln.Number,
					StartChar:   ln.PatternStart,
					EndChar:     ln.PatternEnd,
					Severity:    sev,
					Code:        CodeInvalidPattern,
					Message:     err.Error(),
					RelatedLine: -1,
				})
			}
		} else if cache != nil {
			toCheck = append(toCheck, checkedPattern{
				pattern: ln.Pattern,
				line:    ln.Number,
				start:   ln.PatternStart,
				end:     ln.PatternEnd,
			})
		}

		// Owner validity, structural only.
		for i, owner := range ln.Owners {
			if err := owners.Validate(owner); err != nil {
				if sev, on := e.SeverityFor(CodeInvalidOwner); on {
					start := ln.OwnerOffsets[i]
					diags = append(diags, Diagnostic{
						Line:        ln.Number,
						StartChar:   start,
						EndChar:     start + len(owner),
						Severity:    sev,
						Code:        CodeInvalidOwner,
						Message:     err.Error(),
						RelatedLine: -1,
					})
				}
			}
		}

		// Duplicate owners on one line.
		if sev, on := e.SeverityFor(CodeDuplicateOwner); on {
			seenOwners := make(map[string]bool)
			for _, owner := range ln.Owners {
				if seenOwners[owner] {
					diags = append(diags, Diagnostic{
						Line:        ln.Number,
						StartChar:   ln.OwnersStart,
						EndChar:     -1,
						Severity:    sev,
						Code:        CodeDuplicateOwner,
						Message:     fmt.Sprintf("duplicate owner %q on this line", owner),
						RelatedLine: -1,
					})
				}
				seenOwners[owner] = true
			}
		}

		// Dead rules: an earlier pattern fully covered by this one is
		// unreachable under last-match-wins. The whole scan is skipped
		// when shadowed-rule is configured off.
		if shadowOn {
			key := exactKey(ln.Pattern)
			if prev, ok := lastExact[key]; ok {
				diags = append(diags, Diagnostic{
					Line:        prev,
					StartChar:   0,
					EndChar:     -1,
					Severity:    shadowSev,
					Code:        CodeShadowedRule,
					Message:     fmt.Sprintf("rule is shadowed by a later rule on line %d with the same pattern", ln.Number+1),
					RelatedLine: ln.Number,
				})
			}

			// Only patterns that can subsume others are worth the
			// quadratic comparison.
			if strings.Contains(ln.Pattern, "*") || strings.HasSuffix(ln.Pattern, "/") {
				for _, prev := range seen {
					if exactKey(prev.pattern) == key {
						continue // handled by the exact-duplicate path
					}
					if pattern.Subsumes(prev.pattern, ln.Pattern) {
						diags = append(diags, Diagnostic{
							Line:        prev.line,
							StartChar:   0,
							EndChar:     -1,
							Severity:    shadowSev,
							Code:        CodeShadowedRule,
							Message:     fmt.Sprintf("rule is shadowed by a more general pattern %q on line %d", ln.Pattern, ln.Number+1),
							RelatedLine: ln.Number,
						})
					}
				}
			}

			lastExact[key] = ln.Number
			seen = append(seen, seenPattern{pattern: ln.Pattern, line: ln.Number})
		}

		// Rules without owners, commonly an intentional opt-out.
		if len(ln.Owners) == 0 {
			if sev, on := e.SeverityFor(CodeNoOwners); on {
				diags = append(diags, Diagnostic{
					Line:        ln.Number,
					StartChar:   ln.PatternStart,
					EndChar:     ln.PatternEnd,
					Severity:    sev,
					Code:        CodeNoOwners,
					Message:     "rule has no owners; files matching this pattern will have no code owners",
					RelatedLine: -1,
				})
			}
		}
	}

	// Patterns matching no files: one batch query for all valid patterns.
	if cache != nil {
		if sev, on := e.SeverityFor(CodePatternNoMatch); on && len(toCheck) > 0 {
			patterns := make([]string, len(toCheck))
			for i, cp := range toCheck {
				patterns[i] = cp.pattern
			}
			matched := cache.FindPatternsWithMatches(patterns)
			for i, cp := range toCheck {
				if _, ok := matched[i]; ok {
					continue
				}
				diags = append(diags, Diagnostic{
					Line:        cp.line,
					StartChar:   cp.start,
					EndChar:     cp.end,
					Severity:    sev,
					Code:        CodePatternNoMatch,
					Message:     fmt.Sprintf("pattern %q matches no files in the repository", cp.pattern),
					RelatedLine: -1,
				})
			}
		}

		// Coverage: one summary diagnostic naming a bounded sample.
		if sev, on := e.SeverityFor(CodeUnownedFiles); on {
			unowned := cache.UnownedFiles(file.Lines)
			if len(unowned) > 0 {
				lastLine := file.LineCount - 1
				if lastLine < 0 {
					lastLine = 0
				}
				diags = append(diags, Diagnostic{
					Line:        lastLine,
					StartChar:   0,
					EndChar:     0,
					Severity:    sev,
					Code:        CodeUnownedFiles,
					Message:     unownedMessage(unowned),
					RelatedLine: -1,
				})
			}
		}
	}

	return diags
}

// exactKey normalizes a pattern for the exact-duplicate fast path. Exact
// multi-segment paths are implicitly anchored, so "/src/foo" and
// "src/foo" collapse to one key; every other pattern keys as written
// because anchoring changes its match set.
func exactKey(p string) string {
	trimmed := strings.TrimLeft(p, "/")
	if !strings.Contains(trimmed, "*") && !strings.HasSuffix(trimmed, "/") && strings.Contains(trimmed, "/") {
		return trimmed
	}
	return p
}

func unownedMessage(unowned []string) string {
	sample := unowned
	if len(sample) > unownedSampleSize {
		sample = sample[:unownedSampleSize]
	}
	if len(unowned) > unownedSampleSize {
		return fmt.Sprintf("%d files have no code owners (e.g., %s)", len(unowned), strings.Join(sample, ", "))
	}
	return fmt.Sprintf("%d files have no code owners: %s", len(unowned), strings.Join(sample, ", "))
}
