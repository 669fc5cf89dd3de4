package pattern

import "strings"

// Subsumes reports whether every path matched by a is also matched by b.
// If true and b appears later in a CODEOWNERS file, the rule carrying a is
// dead under last-match-wins resolution.
//
// The relation is deliberately conservative: a false result for an
// overlapping-but-non-nesting pair is acceptable, a true result for a pair
// that does not nest is a bug. Anchoring matters because unanchored
// patterns match strictly more paths than their anchored counterparts:
// "/docs/" is subsumed by "docs/", never the other way around.
func Subsumes(a, b string) bool {
	aAnchored := strings.HasPrefix(a, "/")
	bAnchored := strings.HasPrefix(b, "/")

	a = strings.TrimLeft(a, "/")
	b = strings.TrimLeft(b, "/")

	if a == b && aAnchored == bAnchored {
		return true
	}

	// Exact paths containing "/" are implicitly anchored, so "/src/foo"
	// and "src/foo" select the same files.
	aExact := !strings.Contains(a, "*") && !strings.HasSuffix(a, "/")
	bExact := !strings.Contains(b, "*") && !strings.HasSuffix(b, "/")
	if aExact && bExact && a == b && strings.Contains(a, "/") {
		return true
	}

	// Catch-alls subsume everything.
	if b == "*" || b == "**" {
		return true
	}

	// Extension patterns: *.rs.bak is subsumed by *.bak.
	if aExt, ok := strings.CutPrefix(a, "*"); ok {
		if bExt, ok := strings.CutPrefix(b, "*"); ok {
			return strings.HasSuffix(aExt, bExt)
		}
		return false
	}

	aDir, aIsDir := dirStem(a)
	bDir, bIsDir := dirStem(b)

	if aIsDir && bIsDir {
		if aAnchored && !bAnchored {
			// "/docs/" is subsumed by "docs/" when stems nest.
			return aDir == bDir || underDir(aDir, bDir)
		}
		if !aAnchored && bAnchored {
			// "docs/" still matches nested docs directories that
			// "/docs/" cannot reach.
			return false
		}
		return aDir == bDir || underDir(aDir, bDir)
	}

	// Exact path inside a directory: src/main.rs is subsumed by src/.
	if bIsDir && !aIsDir {
		if !aAnchored && bAnchored {
			return false
		}
		return a == bDir || underDir(a, bDir)
	}

	return false
}

// dirStem strips directory markers (trailing "/", "/**", "/*") and reports
// whether the pattern carried one.
func dirStem(p string) (string, bool) {
	isDir := strings.HasSuffix(p, "/") || strings.HasSuffix(p, "/**") || strings.HasSuffix(p, "/*")
	for strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	for strings.HasSuffix(p, "/**") {
		p = p[:len(p)-3]
	}
	for strings.HasSuffix(p, "/*") {
		p = p[:len(p)-2]
	}
	return p, isDir
}

// underDir reports whether path is strictly nested under dir.
func underDir(path, dir string) bool {
	return len(path) > len(dir) && strings.HasPrefix(path, dir) && path[len(dir)] == '/'
}
