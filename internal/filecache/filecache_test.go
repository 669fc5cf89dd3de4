package filecache

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"ownerlint/internal/codeowners"
)

var testFiles = []string{
	"Cargo.toml",
	"docs/readme.md",
	"src/lib.rs",
	"src/main.rs",
}

func rulesFor(patterns ...string) []codeowners.Line {
	var rules []codeowners.Line
	for i, p := range patterns {
		rules = append(rules, codeowners.Line{Number: i, Kind: codeowners.LineRule, Pattern: p, Owners: []string{"@x"}})
	}
	return rules
}

func TestCountMatches(t *testing.T) {
	c := New(testFiles)
	tests := []struct {
		pattern string
		want    int
	}{
		{"*.rs", 2},
		{"*.md", 1},
		{"src/**", 2},
		{"*", 4},
		{"*.nothing", 0},
	}
	for _, tt := range tests {
		if got := c.CountMatches(tt.pattern); got != tt.want {
			t.Errorf("CountMatches(%q) = %d, want %d", tt.pattern, got, tt.want)
		}
		// Second call is served from the memo and must agree.
		if got := c.CountMatches(tt.pattern); got != tt.want {
			t.Errorf("memoized CountMatches(%q) = %d, want %d", tt.pattern, got, tt.want)
		}
	}
}

func TestHasMatches(t *testing.T) {
	c := New(testFiles)
	if !c.HasMatches("*.rs") {
		t.Error("HasMatches(*.rs) = false, want true")
	}
	if c.HasMatches("*.nothing") {
		t.Error("HasMatches(*.nothing) = true, want false")
	}

	// A cached count must answer existence without a rescan.
	c2 := New(testFiles)
	if c2.CountMatches("*.md") != 1 {
		t.Fatal("setup: CountMatches(*.md)")
	}
	if !c2.HasMatches("*.md") {
		t.Error("HasMatches after CountMatches = false, want true")
	}
	if c2.CountMatches("*.nothing") != 0 {
		t.Fatal("setup: CountMatches(*.nothing)")
	}
	if c2.HasMatches("*.nothing") {
		t.Error("HasMatches after zero CountMatches = true, want false")
	}
}

func TestFindPatternsWithMatches(t *testing.T) {
	patterns := []string{"*.rs", "*.nothing", "docs/", "missing/", "Cargo.toml"}

	c := New(testFiles)
	got := c.FindPatternsWithMatches(patterns)

	// The batch result must equal N individual HasMatches calls.
	want := make(map[int]struct{})
	ref := New(testFiles)
	for i, p := range patterns {
		if ref.HasMatches(p) {
			want[i] = struct{}{}
		}
	}

	if len(got) != len(want) {
		t.Fatalf("batch = %v, want %v", got, want)
	}
	for i := range want {
		if _, ok := got[i]; !ok {
			t.Errorf("batch missing index %d", i)
		}
	}

	// Repeat: now fully cache-served, must not change.
	again := c.FindPatternsWithMatches(patterns)
	if len(again) != len(want) {
		t.Errorf("cached batch = %v, want %v", again, want)
	}
}

func TestFindPatternsWithMatchesEmpty(t *testing.T) {
	c := New(testFiles)
	if got := c.FindPatternsWithMatches(nil); len(got) != 0 {
		t.Errorf("FindPatternsWithMatches(nil) = %v, want empty", got)
	}
	empty := New(nil)
	if got := empty.FindPatternsWithMatches([]string{"*"}); len(got) != 0 {
		t.Errorf("empty cache batch = %v, want empty", got)
	}
}

func TestUnownedFiles(t *testing.T) {
	c := New([]string{"a.rs", "b.md"})

	unowned := c.UnownedFiles(rulesFor("*.rs"))
	if len(unowned) != 1 || unowned[0] != "b.md" {
		t.Errorf("UnownedFiles(*.rs) = %v, want [b.md]", unowned)
	}

	if unowned := c.UnownedFiles(rulesFor("*")); len(unowned) != 0 {
		t.Errorf("UnownedFiles(*) = %v, want empty", unowned)
	}

	// Non-rule lines are ignored.
	lines := append([]codeowners.Line{{Kind: codeowners.LineComment}}, rulesFor("*.md")...)
	unowned = c.UnownedFiles(lines)
	if len(unowned) != 1 || unowned[0] != "a.rs" {
		t.Errorf("UnownedFiles = %v, want [a.rs]", unowned)
	}
}

func TestMatchesAndFiles(t *testing.T) {
	c := New(testFiles)
	got := c.Matches("src/**")
	want := []string{"src/lib.rs", "src/main.rs"}
	if len(got) != len(want) {
		t.Fatalf("Matches(src/**) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Matches[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(c.Files()) != len(testFiles) {
		t.Errorf("Files() len = %d, want %d", len(c.Files()), len(testFiles))
	}
}

func TestSnapshotIsCopied(t *testing.T) {
	files := []string{"a.rs", "b.md"}
	c := New(files)
	files[0] = "mutated"
	if c.Files()[0] != "a.rs" {
		t.Error("cache shares the caller's backing array")
	}
}

func TestConcurrentQueries(t *testing.T) {
	c := New(testFiles)
	patterns := []string{"*.rs", "*.md", "src/", "docs/", "*.nothing", "*"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, p := range patterns {
				c.CountMatches(p)
				c.HasMatches(p)
			}
			c.FindPatternsWithMatches(patterns)
		}()
	}
	wg.Wait()

	if c.CountMatches("*.rs") != 2 {
		t.Error("CountMatches(*.rs) after concurrent load != 2")
	}
}

func TestLoadWalkFallback(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"src/main.rs", "docs/readme.md", "Cargo.toml"} {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Not a git repository, so Load takes the walk path.
	c, err := Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	files := append([]string(nil), c.Files()...)
	sort.Strings(files)
	want := []string{"Cargo.toml", "docs/readme.md", "src/main.rs"}
	if len(files) != len(want) {
		t.Fatalf("Files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("Files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}
