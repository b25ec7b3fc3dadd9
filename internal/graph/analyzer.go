package graph

// Analyzer runs graph analytics over a completed build. Edges are
// re-derived lazily through FuzzyResolve against the live index, so the
// analyzer tolerates records whose usedBy has drifted; the builder's strict
// pass remains the authority for persisted edges.
//
// Single-threaded by design: an Analyzer is owned by one invocation.
type Analyzer struct {
	g       *Graph
	matcher *EntryMatcher

	outMemo map[string][]string
}

// NewAnalyzer pairs a built graph with an entry-point matcher.
func NewAnalyzer(g *Graph, matcher *EntryMatcher) *Analyzer {
	return &Analyzer{
		g:       g,
		matcher: matcher,
		outMemo: make(map[string][]string, len(g.Nodes)),
	}
}

// outEdges returns the node's internally-resolving forward edges, fuzzily
// resolved, deduplicated, self-loops dropped. Memoized per run.
func (a *Analyzer) outEdges(from string) []string {
	if cached, ok := a.outMemo[from]; ok {
		return cached
	}
	n := a.g.Nodes[from]
	if n == nil {
		a.outMemo[from] = nil
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, ref := range n.Uses {
		target, ok := FuzzyResolve(ref, a.g.Nodes, a.g.SortedPaths())
		if !ok || target == from {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	a.outMemo[from] = out
	return out
}

// IsEntryPoint reports whether a node is considered "used" without inbound
// edges: either a configured pattern matches its path, or it has zero
// inbound uses edges and zero internally-resolving outbound references
// (a pure root invoked by an external framework).
func (a *Analyzer) IsEntryPoint(n *FileNode) bool {
	if a.matcher.MatchPath(n.Path) {
		return true
	}
	return len(n.UsedBy) == 0 && len(a.outEdges(n.Path)) == 0
}

// EntryPoints lists every entry point in path order.
func (a *Analyzer) EntryPoints() []string {
	var out []string
	for _, p := range a.g.SortedPaths() {
		if a.IsEntryPoint(a.g.Nodes[p]) {
			out = append(out, p)
		}
	}
	return out
}
