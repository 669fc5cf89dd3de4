package pattern

import "strings"

// matchKind selects the matching strategy chosen at compile time. The
// cheapest strategy that preserves CODEOWNERS semantics wins, so repeated
// matching never re-inspects the pattern text.
type matchKind uint8

const (
	// kindMatchAll matches everything (unanchored * or **).
	kindMatchAll matchKind = iota
	// kindRootFiles matches only root-level files (anchored /*).
	kindRootFiles
	// kindSuffix is an extension suffix check (from *.rs).
	kindSuffix
	// kindFilenameGlob matches a single-segment glob against the filename
	// at any depth.
	kindFilenameGlob
	// kindPathGlob matches pre-split glob segments against the whole path.
	kindPathGlob
	// kindAnchoredDir matches a directory prefix at the root only.
	kindAnchoredDir
	// kindUnanchoredDir matches a directory component at any depth.
	kindUnanchoredDir
	// kindExact is an exact path or directory prefix, always anchored.
	kindExact
)

// Compiled is a pre-processed pattern for repeated matching. Compile once
// and reuse across many Match calls; semantics are identical to the
// package-level Match.
type Compiled struct {
	kind matchKind
	text string
	segs []string
}

// Compile pre-classifies pattern into its matching strategy.
func Compile(pattern string) *Compiled {
	anchored := strings.HasPrefix(pattern, "/")
	pattern = strings.TrimLeft(pattern, "/")

	if pattern == "*" || pattern == "**" {
		if anchored && pattern == "*" {
			return &Compiled{kind: kindRootFiles}
		}
		return &Compiled{kind: kindMatchAll}
	}

	if strings.Contains(pattern, "*") {
		if !anchored && !strings.Contains(pattern, "/") {
			if ext, ok := strings.CutPrefix(pattern, "*"); ok && !strings.ContainsAny(ext, "*?") {
				return &Compiled{kind: kindSuffix, text: ext}
			}
			return &Compiled{kind: kindFilenameGlob, text: pattern}
		}
		return &Compiled{kind: kindPathGlob, segs: splitSegments(pattern)}
	}

	if strings.HasSuffix(pattern, "/") {
		dir := strings.TrimRight(pattern, "/")
		if anchored {
			return &Compiled{kind: kindAnchoredDir, text: dir}
		}
		return &Compiled{kind: kindUnanchoredDir, text: dir}
	}

	return &Compiled{kind: kindExact, text: pattern}
}

// Match reports whether the compiled pattern matches path.
func (c *Compiled) Match(path string) bool {
	if path == "" {
		return false
	}

	switch c.kind {
	case kindMatchAll:
		return true
	case kindRootFiles:
		return !strings.Contains(path, "/")
	case kindSuffix:
		return matchSuffix(c.text, path)
	case kindFilenameGlob:
		return matchSegment(c.text, pathBase(path))
	case kindPathGlob:
		return matchSegments(c.segs, splitSegments(path), 0)
	case kindAnchoredDir:
		return hasDirPrefix(path, c.text)
	case kindUnanchoredDir:
		return matchDirAnywhere(path, c.text)
	case kindExact:
		return hasDirPrefix(path, c.text)
	default:
		return false
	}
}
