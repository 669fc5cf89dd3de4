// Package pattern implements CODEOWNERS glob matching.
//
// Semantics follow GitHub's CODEOWNERS rules, which differ from gitignore:
// character classes and negation are not supported, a single-segment
// wildcard pattern like *.rs matches by filename at any depth, and a
// pattern without wildcards or a trailing slash is anchored to the
// repository root.
package pattern

import "strings"

// Match reports whether pattern matches the repository-relative path.
//
// Key rules:
//   - A leading "/" anchors the pattern to the repository root.
//   - "*" or "**" alone matches everything; anchored "/*" matches only
//     root-level files.
//   - A single-segment wildcard pattern (no "/") matches by filename at
//     any depth.
//   - "*" matches within one segment; "**" crosses segment boundaries.
//   - A trailing "/" marks a directory pattern matching the directory and
//     everything nested under it.
//   - No wildcards and no trailing "/" means an exact path or directory
//     prefix, always anchored.
func Match(pattern, path string) bool {
	if path == "" {
		return false
	}

	anchored := strings.HasPrefix(pattern, "/")
	pattern = strings.TrimLeft(pattern, "/")

	// Only unanchored * or ** are true catch-alls.
	if !anchored && (pattern == "*" || pattern == "**") {
		return true
	}

	if strings.Contains(pattern, "*") {
		// /* matches files directly under the root, nothing nested.
		if anchored && pattern == "*" {
			return !strings.Contains(path, "/")
		}

		if !anchored && !strings.Contains(pattern, "/") {
			// Fast path: *.ext is a suffix check.
			if ext, ok := strings.CutPrefix(pattern, "*"); ok && !strings.ContainsAny(ext, "*?") {
				return matchSuffix(ext, path)
			}
			// Single-segment glob matches the filename at any depth.
			return matchSegment(pattern, pathBase(path))
		}

		return matchSegments(splitSegments(pattern), splitSegments(path), 0)
	}

	if strings.HasSuffix(pattern, "/") {
		dir := strings.TrimRight(pattern, "/")
		if anchored {
			return hasDirPrefix(path, dir)
		}
		return matchDirAnywhere(path, dir)
	}

	// Exact path or directory prefix, implicitly anchored.
	return hasDirPrefix(path, pattern)
}

// matchSuffix matches an extension suffix extracted from a *EXT pattern.
// The character preceding the suffix must not be a path separator, so the
// wildcard consumed at least part of a filename.
func matchSuffix(ext, path string) bool {
	if !strings.HasSuffix(path, ext) {
		return false
	}
	return len(path) == len(ext) || path[len(path)-len(ext)-1] != '/'
}

// hasDirPrefix reports whether path equals dir or lies under dir.
func hasDirPrefix(path, dir string) bool {
	if !strings.HasPrefix(path, dir) {
		return false
	}
	return len(path) == len(dir) || path[len(dir)] == '/'
}

// matchDirAnywhere reports whether path contains dir as a whole directory
// component at any depth.
func matchDirAnywhere(path, dir string) bool {
	if hasDirPrefix(path, dir) {
		return true
	}
	for i := 0; i < len(path); i++ {
		if path[i] != '/' {
			continue
		}
		if hasDirPrefix(path[i+1:], dir) {
			return true
		}
	}
	return false
}

// pathBase returns the final path component.
func pathBase(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func splitSegments(s string) []string {
	return strings.Split(s, "/")
}
