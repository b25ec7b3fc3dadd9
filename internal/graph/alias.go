package graph

import (
	"path"
	"sort"
	"strings"
)

// AliasPair is one configured alias: a pattern (exact symbol or a prefix
// ending in "/*") mapped to one or more target templates.
type AliasPair struct {
	Pattern string   `json:"pattern"`
	Targets []string `json:"targets"`
}

type aliasEntry struct {
	prefix   string // pattern without the trailing "/*"
	targets  []string
	wildcard bool
}

// AliasTable is an ordered, immutable set of alias entries. Entries are
// scanned in insertion order; the first match wins.
type AliasTable struct {
	entries []aliasEntry
}

// NewAliasTable builds a table preserving the order of pairs. Pairs with an
// empty pattern or no targets are dropped.
func NewAliasTable(pairs []AliasPair) *AliasTable {
	t := &AliasTable{}
	for _, p := range pairs {
		pattern := strings.TrimSpace(p.Pattern)
		if pattern == "" || len(p.Targets) == 0 {
			continue
		}
		e := aliasEntry{targets: p.Targets}
		if strings.HasSuffix(pattern, "/*") {
			e.wildcard = true
			e.prefix = strings.TrimSuffix(pattern, "/*")
		} else {
			e.prefix = pattern
		}
		t.entries = append(t.entries, e)
	}
	return t
}

// Pairs returns the table contents for snapshot export.
func (t *AliasTable) Pairs() []AliasPair {
	if t == nil {
		return nil
	}
	out := make([]AliasPair, 0, len(t.entries))
	for _, e := range t.entries {
		pattern := e.prefix
		if e.wildcard {
			pattern += "/*"
		}
		out = append(out, AliasPair{Pattern: pattern, Targets: append([]string(nil), e.targets...)})
	}
	return out
}

// StrictResolve maps a raw reference to a canonical project-relative path.
//
// Relative references ("./x", "../x") join against fromDir and always
// succeed. Anything else is matched against the alias table in insertion
// order: a wildcard entry matches when the reference starts with its prefix
// plus separator and appends the remainder to the entry's first target; an
// exact entry matches on equality and returns its first target verbatim.
// No match means the reference is external: ("", false), never an error.
//
// StrictResolve never checks that the result exists in the node index;
// that is the builder's job.
func StrictResolve(ref, fromDir string, aliases *AliasTable) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	if isRelativeRef(ref) {
		base := "/" + strings.Trim(fromDir, "/")
		// path.Join clamps ".." at the root, so the result always stays
		// project-relative.
		return path.Join(base, ref), true
	}
	if aliases == nil {
		return "", false
	}
	for _, e := range aliases.entries {
		if e.wildcard {
			if strings.HasPrefix(ref, e.prefix+"/") {
				remainder := ref[len(e.prefix)+1:]
				target := e.targets[0]
				joined := strings.TrimSuffix(target, "*") + remainder
				if !strings.HasPrefix(joined, "/") {
					joined = "/" + joined
				}
				return path.Clean(joined), true
			}
			continue
		}
		if ref == e.prefix {
			return e.targets[0], true
		}
	}
	return "", false
}

func isRelativeRef(ref string) bool {
	return ref == "." || ref == ".." ||
		strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../")
}

// FuzzyResolve maps a raw reference onto the live node index using suffix and
// containment matching instead of the strict alias rules. The analyzer uses
// it to re-derive edges lazily during traversals.
//
// Looser by construction: canonical paths that share a suffix can produce
// false edges. StrictResolve remains the authority for the build pass.
func FuzzyResolve(ref string, index map[string]*FileNode, sortedPaths []string) (string, bool) {
	tail := fuzzyTail(ref)
	if tail == "" {
		return "", false
	}
	if n, ok := index["/"+tail]; ok {
		return n.Path, true
	}
	for _, p := range sortedPaths {
		if stripExt(p) == "/"+tail {
			return p, true
		}
	}
	suffix := "/" + tail
	for _, p := range sortedPaths {
		if strings.HasSuffix(p, suffix) || strings.HasSuffix(stripExt(p), suffix) {
			return p, true
		}
	}
	for _, p := range sortedPaths {
		if strings.Contains(p, tail) {
			return p, true
		}
	}
	return "", false
}

func fuzzyTail(ref string) string {
	ref = strings.TrimSpace(ref)
	for {
		switch {
		case strings.HasPrefix(ref, "./"):
			ref = ref[2:]
		case strings.HasPrefix(ref, "../"):
			ref = ref[3:]
		case strings.HasPrefix(ref, "/"):
			ref = ref[1:]
		default:
			return ref
		}
	}
}

func stripExt(p string) string {
	ext := path.Ext(p)
	if ext == "" {
		return p
	}
	return p[:len(p)-len(ext)]
}

// sortedKeys is shared by the builder and analyzer for deterministic sweeps.
func sortedKeys(m map[string]*FileNode) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
