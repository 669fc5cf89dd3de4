package pattern

// maxDoubleStarDepth bounds recursion while resolving interior "**"
// segments. Path segment counts are small in practice; the cap only
// guards against pathological input.
const maxDoubleStarDepth = 64

// matchSegments matches pre-split pattern segments against pre-split path
// segments. "**" as a whole segment matches zero or more whole segments;
// as the final segment it matches unconditionally. Interior "**" is
// resolved by trying every split point of the remaining path.
func matchSegments(pat, path []string, depth int) bool {
	if depth > maxDoubleStarDepth {
		return false
	}

	for len(pat) > 0 {
		if pat[0] == "**" {
			if len(pat) == 1 {
				return true
			}
			for skip := 0; skip <= len(path); skip++ {
				if matchSegments(pat[1:], path[skip:], depth+1) {
					return true
				}
			}
			return false
		}

		if len(path) == 0 {
			return false
		}
		if !matchSegment(pat[0], path[0]) {
			return false
		}
		pat = pat[1:]
		path = path[1:]
	}

	return len(path) == 0
}

// matchSegment matches one pattern segment against one path segment.
// "*" matches zero or more characters, "?" matches exactly one; neither
// crosses a segment boundary here because segments contain no separators.
// Backtracks to the most recent "*" on mismatch.
func matchSegment(pat, seg string) bool {
	pIdx, sIdx := 0, 0
	starPat, starSeg := -1, 0

	for sIdx < len(seg) {
		switch {
		case pIdx < len(pat) && (pat[pIdx] == '?' || pat[pIdx] == seg[sIdx]):
			pIdx++
			sIdx++
		case pIdx < len(pat) && pat[pIdx] == '*':
			starPat = pIdx
			starSeg = sIdx
			pIdx++
		case starPat >= 0:
			// Let the last "*" consume one more byte and retry.
			pIdx = starPat + 1
			starSeg++
			sIdx = starSeg
		default:
			return false
		}
	}

	for pIdx < len(pat) && pat[pIdx] == '*' {
		pIdx++
	}
	return pIdx == len(pat)
}
