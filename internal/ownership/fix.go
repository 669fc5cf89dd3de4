package ownership

import (
	"fmt"
	"strings"

	"ownerlint/internal/codeowners"
	"ownerlint/internal/filecache"
)

// FixResult is the outcome of ApplySafeFixes.
type FixResult struct {
	Content string
	// Fixes describes each applied fix, one human-readable entry per fix.
	Fixes []string
}

// ApplySafeFixes rewrites CODEOWNERS content applying only fixes that
// cannot change resolution semantics: duplicate owners within a rule,
// exact-duplicate patterns (the earlier, shadowed line is dropped), and,
// when a file cache is supplied, patterns matching no files. Fix messages
// use 1-based line numbers.
func ApplySafeFixes(content string, cache *filecache.Cache) FixResult {
	parsed := codeowners.ParseFile(content)
	original := strings.Split(content, "\n")

	var fixes []string
	deleted := make(map[int]bool)
	replaced := make(map[int]string)

	// Last line seen per normalized pattern, for the exact-duplicate path.
	lastSeen := make(map[string]int)

	for _, ln := range parsed.Lines {
		if ln.Kind != codeowners.LineRule {
			continue
		}
		normalized := strings.TrimLeft(ln.Pattern, "/")

		// Duplicate owners.
		seen := make(map[string]bool)
		var deduped []string
		for _, owner := range ln.Owners {
			if !seen[owner] {
				seen[owner] = true
				deduped = append(deduped, owner)
			}
		}
		if len(deduped) < len(ln.Owners) {
			line := ln.Pattern
			if len(deduped) > 0 {
				line += " " + strings.Join(deduped, " ")
			}
			replaced[ln.Number] = line
			fixes = append(fixes, fmt.Sprintf("line %d: removed duplicate owners", ln.Number+1))
		}

		// Exact-duplicate patterns shadow the earlier occurrence.
		if prev, ok := lastSeen[normalized]; ok {
			deleted[prev] = true
			fixes = append(fixes, fmt.Sprintf("line %d: removed shadowed rule (duplicated on line %d)", prev+1, ln.Number+1))
		}
		lastSeen[normalized] = ln.Number

		// Patterns matching nothing.
		if cache != nil && !cache.HasMatches(ln.Pattern) {
			deleted[ln.Number] = true
			fixes = append(fixes, fmt.Sprintf("line %d: removed pattern %q (matches no files)", ln.Number+1, ln.Pattern))
		}
	}

	var kept []string
	for i, line := range original {
		if deleted[i] {
			continue
		}
		if repl, ok := replaced[i]; ok {
			kept = append(kept, repl)
			continue
		}
		kept = append(kept, line)
	}

	out := strings.Join(kept, "\n")
	if content != "" && strings.HasSuffix(content, "\n") && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	return FixResult{Content: out, Fixes: fixes}
}
