// Package ownership resolves which rule owns a path and applies safe
// CODEOWNERS fixes.
package ownership

import (
	"strings"

	"ownerlint/internal/codeowners"
	"ownerlint/internal/pattern"
)

// Resolution is the winning rule for a queried path.
type Resolution struct {
	Pattern string
	Owners  []string
	Line    int
}

// Resolve evaluates rules in file order and keeps the last whose pattern
// matches path: the CODEOWNERS last-match-wins semantics. The second
// return is false when no rule matches. Evaluation order is load-bearing
// and must never be parallelized.
func Resolve(lines []codeowners.Line, path string) (Resolution, bool) {
	path = strings.TrimPrefix(path, "./")

	var res Resolution
	found := false
	for _, ln := range lines {
		if ln.Kind != codeowners.LineRule {
			continue
		}
		if pattern.Match(ln.Pattern, path) {
			res = Resolution{Pattern: ln.Pattern, Owners: ln.Owners, Line: ln.Number}
			found = true
		}
	}
	return res, found
}
