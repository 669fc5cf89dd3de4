package codeowners

import (
	"reflect"
	"testing"
)

func TestParseFile(t *testing.T) {
	content := "# Header\n\n*.rs @rust-team @backup\n/docs/   @docs-team # inline note\n/unowned/\n"
	f := ParseFile(content)

	if f.LineCount != 5 {
		t.Fatalf("LineCount = %d, want 5", f.LineCount)
	}
	if f.Lines[0].Kind != LineComment {
		t.Errorf("line 0 kind = %v, want comment", f.Lines[0].Kind)
	}
	if f.Lines[1].Kind != LineEmpty {
		t.Errorf("line 1 kind = %v, want empty", f.Lines[1].Kind)
	}

	rule := f.Lines[2]
	if rule.Kind != LineRule || rule.Pattern != "*.rs" {
		t.Fatalf("line 2 = %+v, want rule *.rs", rule)
	}
	if !reflect.DeepEqual(rule.Owners, []string{"@rust-team", "@backup"}) {
		t.Errorf("owners = %v", rule.Owners)
	}
	if rule.PatternStart != 0 || rule.PatternEnd != 4 || rule.OwnersStart != 5 {
		t.Errorf("offsets = %d..%d owners %d", rule.PatternStart, rule.PatternEnd, rule.OwnersStart)
	}
	if rule.OwnerOffsets[1] != 16 {
		t.Errorf("second owner offset = %d, want 16", rule.OwnerOffsets[1])
	}

	inline := f.Lines[3]
	if inline.Pattern != "/docs/" || len(inline.Owners) != 1 {
		t.Fatalf("line 3 = %+v", inline)
	}
	if inline.OwnersStart != 9 {
		t.Errorf("owners start = %d, want 9 (extra spaces skipped)", inline.OwnersStart)
	}
	if inline.CommentStart != 21 {
		t.Errorf("comment start = %d, want 21", inline.CommentStart)
	}

	bare := f.Lines[4]
	if bare.Kind != LineRule || bare.Pattern != "/unowned/" || len(bare.Owners) != 0 {
		t.Fatalf("line 4 = %+v, want ownerless rule", bare)
	}
	if bare.OwnersStart != bare.PatternEnd {
		t.Errorf("ownerless OwnersStart = %d, want PatternEnd %d", bare.OwnersStart, bare.PatternEnd)
	}
}

func TestParseFileCommentOnlyRule(t *testing.T) {
	// Leading whitespace does not stop a comment from being a comment.
	f := ParseFile("   # not a leading comment but trimmed to one\n")
	if f.Lines[0].Kind != LineComment {
		t.Fatalf("kind = %v, want comment", f.Lines[0].Kind)
	}
}

func TestRules(t *testing.T) {
	f := ParseFile("# c\n*.rs @a\n\n/src/ @b\n")
	rules := f.Rules()
	if len(rules) != 2 {
		t.Fatalf("len(rules) = %d, want 2", len(rules))
	}
	if rules[0].Number != 1 || rules[1].Number != 3 {
		t.Errorf("rule lines = %d, %d, want 1, 3", rules[0].Number, rules[1].Number)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"normalizes spacing",
			"# Comment\n*.rs    @owner1   @owner2\n/src/   @team",
			"# Comment\n*.rs @owner1 @owner2\n/src/ @team\n",
		},
		{
			"collapses blank runs",
			"*.rs @owner\n\n\n\n/src/ @team",
			"*.rs @owner\n\n/src/ @team\n",
		},
		{
			"keeps ownerless rule",
			"/unowned/",
			"/unowned/\n",
		},
		{
			"preserves inline comment",
			"*.rs   @owner   # trailing note",
			"*.rs @owner # trailing note\n",
		},
		{
			"preserves comment spacing",
			"# aligned    comment    here\n*.rs @owner",
			"# aligned    comment    here\n*.rs @owner\n",
		},
		{
			"empty input",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.input); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRepoRoot(t *testing.T) {
	tests := []struct {
		path     string
		fallback string
		want     string
	}{
		{"/project/.github/CODEOWNERS", "/project", "/project"},
		{"/project/docs/CODEOWNERS", "/project", "/project"},
		{"/project/CODEOWNERS", "/x", "/project"},
		{"CODEOWNERS", "/fallback", "/fallback"},
	}
	for _, tt := range tests {
		if got := RepoRoot(tt.path, tt.fallback); got != tt.want {
			t.Errorf("RepoRoot(%q, %q) = %q, want %q", tt.path, tt.fallback, got, tt.want)
		}
	}
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	if got := Locate(dir); got != "" {
		t.Fatalf("Locate(empty dir) = %q, want \"\"", got)
	}
}
