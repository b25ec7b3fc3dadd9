package graph

import "testing"

func TestEntryPatternMatching(t *testing.T) {
	m := CompilePatterns([]string{"**/main.*", "src/cli.js", "scripts/*"})

	matches := []string{
		"/src/main.js",
		"/main.go",
		"/deep/nested/main.py",
		"/src/cli.js",
		"/scripts/deploy.sh",
	}
	for _, p := range matches {
		if !m.MatchPath(p) {
			t.Fatalf("expected %s to match", p)
		}
	}

	misses := []string{
		"/src/domain.js", // "main" must sit on a segment boundary
		"/src/mainframe", // extension required by the glob
		"/x/src/cli.js",  // non-* patterns anchor at the root
		"/script/x",      // no partial segment match
	}
	for _, p := range misses {
		if m.MatchPath(p) {
			t.Fatalf("expected %s not to match", p)
		}
	}
}

func TestEntryPatternBareStarMatchesBaseName(t *testing.T) {
	m := CompilePatterns([]string{"*.test.js", "*rc"})

	// Canonical paths always start with "/", which a bare "*" glob must
	// still be able to match at any depth.
	for _, p := range []string{"/foo.test.js", "/src/foo.test.js", "/a/b/c/d.test.js", "/.npmrc"} {
		if !m.MatchPath(p) {
			t.Fatalf("expected %s to match", p)
		}
	}
	if m.MatchPath("/src/foo.test.jsx") {
		t.Fatalf("extension-anchored glob matched a longer extension")
	}
}

func TestEntryPatternExtensionAnchoring(t *testing.T) {
	m := CompilePatterns([]string{"**/index.js"})
	if !m.MatchPath("/pkg/index.js") {
		t.Fatalf("expected /pkg/index.js to match")
	}
	// A recognized extension anchors the pattern at the end of the path.
	if m.MatchPath("/pkg/index.js.bak") {
		t.Fatalf("expected /pkg/index.js.bak not to match")
	}
}

func TestCompilePatternsTagsOutcome(t *testing.T) {
	m := CompilePatterns([]string{"**/main.*", "", "  "})
	pats := m.Patterns()
	if len(pats) != 1 {
		t.Fatalf("blank patterns must be dropped, got %d", len(pats))
	}
	if pats[0].Kind != PatternCompiled {
		t.Fatalf("kind = %s, want %s", pats[0].Kind, PatternCompiled)
	}
	if PatternLiteralFallback.String() != "literal-fallback" {
		t.Fatalf("fallback kind renders as %q", PatternLiteralFallback.String())
	}
}

func TestNilMatcherMatchesNothing(t *testing.T) {
	var m *EntryMatcher
	if m.MatchPath("/src/main.js") {
		t.Fatalf("nil matcher must match nothing")
	}
	if m.Patterns() != nil {
		t.Fatalf("nil matcher has no patterns")
	}
}
