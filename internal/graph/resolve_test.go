package graph

import "testing"

func TestStrictResolveRelative(t *testing.T) {
	cases := []struct {
		ref, fromDir, want string
	}{
		{"./b", "src", "/src/b"},
		{"./b.js", "src", "/src/b.js"},
		{"../util/fmt", "src/app", "/src/util/fmt"},
		{"./x", "", "/x"},
		{"../x", "", "/x"},       // ".." clamps at the root
		{"../../../x", "a", "/x"},
		{"./sub/inner", "src", "/src/sub/inner"},
	}
	for _, c := range cases {
		got, ok := StrictResolve(c.ref, c.fromDir, nil)
		if !ok {
			t.Fatalf("StrictResolve(%q, %q): expected success", c.ref, c.fromDir)
		}
		if got != c.want {
			t.Fatalf("StrictResolve(%q, %q) = %q, want %q", c.ref, c.fromDir, got, c.want)
		}
	}
}

func TestStrictResolveAliases(t *testing.T) {
	table := NewAliasTable([]AliasPair{
		{Pattern: "@/*", Targets: []string{"/src/*"}},
		{Pattern: "config", Targets: []string{"/config/index.js"}},
		{Pattern: "~/*", Targets: []string{"/*"}},
	})

	got, ok := StrictResolve("@/lib/a.js", "anywhere", table)
	if !ok || got != "/src/lib/a.js" {
		t.Fatalf("wildcard alias: got (%q, %v)", got, ok)
	}

	got, ok = StrictResolve("config", "src", table)
	if !ok || got != "/config/index.js" {
		t.Fatalf("exact alias: got (%q, %v)", got, ok)
	}

	got, ok = StrictResolve("~/deep/mod", "src", table)
	if !ok || got != "/deep/mod" {
		t.Fatalf("root alias: got (%q, %v)", got, ok)
	}

	// External packages match nothing and are not errors.
	if _, ok := StrictResolve("react", "src", table); ok {
		t.Fatalf("expected external reference to stay unresolved")
	}
	if _, ok := StrictResolve("", "src", table); ok {
		t.Fatalf("expected empty reference to stay unresolved")
	}
}

func TestStrictResolveFirstMatchWins(t *testing.T) {
	table := NewAliasTable([]AliasPair{
		{Pattern: "lib/*", Targets: []string{"/first/*"}},
		{Pattern: "lib/*", Targets: []string{"/second/*"}},
	})
	got, ok := StrictResolve("lib/x", "", table)
	if !ok || got != "/first/x" {
		t.Fatalf("expected first entry to win, got (%q, %v)", got, ok)
	}
}

func TestFuzzyResolve(t *testing.T) {
	index := map[string]*FileNode{
		"/src/b.js":      {Path: "/src/b.js"},
		"/src/util/b.js": {Path: "/src/util/b.js"},
		"/lib/format.ts": {Path: "/lib/format.ts"},
		"/b":             {Path: "/b"},
	}
	paths := sortedKeys(index)

	// Exact canonical hit via the stripped tail.
	got, ok := FuzzyResolve("./b", index, paths)
	if !ok || got != "/b" {
		t.Fatalf("exact tail: got (%q, %v)", got, ok)
	}

	// Extensionless equality before suffix matching.
	got, ok = FuzzyResolve("/lib/format", index, paths)
	if !ok || got != "/lib/format.ts" {
		t.Fatalf("extensionless: got (%q, %v)", got, ok)
	}

	// Suffix match takes the first hit in sorted path order.
	got, ok = FuzzyResolve("util/b.js", index, paths)
	if !ok || got != "/src/util/b.js" {
		t.Fatalf("suffix: got (%q, %v)", got, ok)
	}

	// Containment as the last resort.
	got, ok = FuzzyResolve("ormat", index, paths)
	if !ok || got != "/lib/format.ts" {
		t.Fatalf("containment: got (%q, %v)", got, ok)
	}

	if _, ok := FuzzyResolve("nothing-like-this", index, paths); ok {
		t.Fatalf("expected miss for unknown reference")
	}
}
