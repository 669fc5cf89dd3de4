package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrEmptyPattern reports a pattern with no content after stripping the
// anchoring slash.
var ErrEmptyPattern = errors.New("empty pattern")

// Validate checks pattern for structural validity (non-empty, balanced
// glob syntax). Matching assumes well-formed input; callers surface
// Validate failures as diagnostics instead of calling Match.
func Validate(pattern string) error {
	trimmed := strings.TrimLeft(pattern, "/")
	if trimmed == "" {
		return ErrEmptyPattern
	}
	if !doublestar.ValidatePattern(trimmed) {
		return fmt.Errorf("invalid glob pattern %q", pattern)
	}
	return nil
}
