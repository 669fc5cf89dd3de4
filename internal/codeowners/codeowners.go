// Package codeowners parses CODEOWNERS files into positioned rule lines.
// The parser never fails: malformed patterns and owners pass through as
// text for the diagnostics engine to judge.
package codeowners

import (
	"os"
	"path/filepath"
	"strings"
)

type LineKind int

const (
	LineEmpty LineKind = iota
	LineComment
	LineRule
)

// Line is one parsed CODEOWNERS line. Offsets are byte positions within
// the line, used for diagnostic ranges.
type Line struct {
	Number int
	Kind   LineKind

	Pattern string
	Owners  []string

	PatternStart int
	PatternEnd   int
	OwnersStart  int
	// OwnerOffsets holds the byte offset of each owner token.
	OwnerOffsets []int
	// CommentStart is the offset of an inline # comment, -1 when absent.
	CommentStart int
}

// File is a parsed CODEOWNERS file.
type File struct {
	Lines     []Line
	LineCount int
}

// Rules returns the rule lines in file order.
func (f File) Rules() []Line {
	var rules []Line
	for _, ln := range f.Lines {
		if ln.Kind == LineRule {
			rules = append(rules, ln)
		}
	}
	return rules
}

// ParseFile parses CODEOWNERS content. Lines are numbered from zero.
func ParseFile(content string) File {
	raw := splitLines(content)
	parsed := make([]Line, 0, len(raw))
	for i, line := range raw {
		parsed = append(parsed, parseLine(i, line))
	}
	return File{Lines: parsed, LineCount: len(raw)}
}

func parseLine(number int, line string) Line {
	out := Line{Number: number, CommentStart: -1}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return out
	}
	if strings.HasPrefix(trimmed, "#") {
		out.Kind = LineComment
		return out
	}

	tokens, offsets := fields(line)

	// Tokens from the first #-token onward belong to an inline comment.
	end := len(tokens)
	for i, tok := range tokens {
		if strings.HasPrefix(tok, "#") {
			end = i
			out.CommentStart = offsets[i]
			break
		}
	}
	tokens, offsets = tokens[:end], offsets[:end]

	if len(tokens) == 0 {
		return out
	}

	out.Kind = LineRule
	out.Pattern = tokens[0]
	out.PatternStart = offsets[0]
	out.PatternEnd = offsets[0] + len(tokens[0])
	if len(tokens) > 1 {
		out.Owners = tokens[1:]
		out.OwnerOffsets = offsets[1:]
		out.OwnersStart = offsets[1]
	} else {
		out.OwnersStart = out.PatternEnd
	}
	return out
}

// fields splits a line on whitespace, returning tokens with their byte
// offsets.
func fields(line string) ([]string, []int) {
	var tokens []string
	var offsets []int
	start := -1
	for i := 0; i <= len(line); i++ {
		isSpace := i == len(line) || line[i] == ' ' || line[i] == '\t'
		if isSpace {
			if start >= 0 {
				tokens = append(tokens, line[start:i])
				offsets = append(offsets, start)
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	return tokens, offsets
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	// A trailing newline does not introduce a final empty line.
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// standardLocations are the paths where CODEOWNERS files conventionally
// live, in lookup order.
var standardLocations = []string{
	"CODEOWNERS",
	filepath.Join(".github", "CODEOWNERS"),
	filepath.Join("docs", "CODEOWNERS"),
}

// Locate finds a CODEOWNERS file under dir at one of the standard
// locations. Returns "" when none exists.
func Locate(dir string) string {
	for _, loc := range standardLocations {
		p := filepath.Join(dir, loc)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// RepoRoot derives the repository root from a CODEOWNERS file path. A
// CODEOWNERS file inside .github/ or docs/ belongs to the parent repo.
func RepoRoot(codeownersPath, fallback string) string {
	parent := filepath.Dir(codeownersPath)
	if parent == "" || parent == "." {
		return fallback
	}
	base := filepath.Base(parent)
	if base == ".github" || base == "docs" {
		return filepath.Dir(parent)
	}
	return parent
}

// Format normalizes rule spacing: single spaces between pattern and
// owners, comments preserved verbatim, runs of blank lines collapsed, a
// trailing newline ensured.
func Format(content string) string {
	var result []string
	prevEmpty := false

	for _, line := range splitLines(content) {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			if !prevEmpty && len(result) > 0 {
				result = append(result, "")
			}
			prevEmpty = true
			continue
		}
		prevEmpty = false

		// People align comments deliberately; keep them byte-for-byte.
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		parsed := parseLine(0, line)
		if parsed.Kind != LineRule {
			continue
		}

		formatted := parsed.Pattern
		if len(parsed.Owners) > 0 {
			formatted += " " + strings.Join(parsed.Owners, " ")
		}
		if parsed.CommentStart >= 0 {
			formatted += " " + strings.TrimRight(line[parsed.CommentStart:], " \t")
		}
		result = append(result, formatted)
	}

	if len(result) == 0 {
		return ""
	}
	return strings.Join(result, "\n") + "\n"
}
