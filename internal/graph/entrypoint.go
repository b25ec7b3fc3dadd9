package graph

import (
	"regexp"
	"strings"
)

// PatternKind tags how an entry-point pattern was compiled.
type PatternKind int

const (
	// PatternCompiled means the glob translated to a working regexp.
	PatternCompiled PatternKind = iota
	// PatternLiteralFallback means translation failed and the pattern is
	// matched as an escaped literal instead. Callers can report this.
	PatternLiteralFallback
)

func (k PatternKind) String() string {
	if k == PatternLiteralFallback {
		return "literal-fallback"
	}
	return "compiled"
}

// CompiledPattern is one entry-point pattern with its compilation outcome.
type CompiledPattern struct {
	Source string
	Kind   PatternKind
	re     *regexp.Regexp
}

// EntryMatcher decides which canonical paths count as entry points by
// pattern. It is a pure function of the configured patterns.
type EntryMatcher struct {
	patterns []CompiledPattern
}

// reKnownExt recognizes extensions that anchor a pattern at the end of the
// path instead of allowing a prefix match.
var reKnownExt = regexp.MustCompile(`\.(?:jsx?|tsx?|mjs|cjs|go|py|rb|java|rs|c|h|cc|cpp|hpp|cs|php|swift|kt)$`)

// CompilePatterns translates each glob into a matcher. Globs that fail to
// compile fall back to escaped-literal matching and are tagged so callers
// can tell which path was taken.
func CompilePatterns(patterns []string) *EntryMatcher {
	m := &EntryMatcher{}
	for _, src := range patterns {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		cp := CompiledPattern{Source: src}
		expr := translateGlob(src)
		re, err := regexp.Compile(expr)
		if err != nil {
			cp.Kind = PatternLiteralFallback
			cp.re = regexp.MustCompile("^" + regexp.QuoteMeta(src) + "$")
		} else {
			cp.re = re
		}
		m.patterns = append(m.patterns, cp)
	}
	return m
}

// translateGlob converts a glob to an anchored regexp:
//
//	**/  optional leading segments with a trailing separator
//	**   zero or more path segments, separators included
//	*    within-segment wildcard, never crossing a separator
//
// Other regexp metacharacters are escaped. Patterns not starting with "*"
// anchor to a leading "/"; a pattern starting with a single "*" speaks
// about the base name, so it may match after any segment boundary.
// Patterns ending in a recognized extension anchor at the end, everything
// else matches as a prefix.
func translateGlob(src string) string {
	pattern := src
	if !strings.HasPrefix(pattern, "*") && !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	var sb strings.Builder
	sb.WriteString("^")
	if strings.HasPrefix(pattern, "*") && !strings.HasPrefix(pattern, "**") {
		sb.WriteString(`(?:.*/)?`)
	}
	for i := 0; i < len(pattern); {
		switch {
		case strings.HasPrefix(pattern[i:], "**/"):
			sb.WriteString(`(?:.*/)?`)
			i += 3
		case strings.HasPrefix(pattern[i:], "**"):
			sb.WriteString(`.*`)
			i += 2
		case pattern[i] == '*':
			sb.WriteString(`[^/]*`)
			i++
		default:
			sb.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			i++
		}
	}
	if reKnownExt.MatchString(src) {
		sb.WriteString("$")
	}
	return sb.String()
}

// MatchPath reports whether any pattern matches the canonical path.
func (m *EntryMatcher) MatchPath(p string) bool {
	if m == nil {
		return false
	}
	for _, cp := range m.patterns {
		if cp.re.MatchString(p) {
			return true
		}
	}
	return false
}

// Patterns exposes each pattern's compilation outcome for reporting.
func (m *EntryMatcher) Patterns() []CompiledPattern {
	if m == nil {
		return nil
	}
	return m.patterns
}
