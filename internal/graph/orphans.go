package graph

// Orphans lists dead-code candidates in path order. A node is an orphan
// when nothing resolves into it (usedBy empty), it is not an entry point,
// its calledBy set is also empty, and it declares at least one
// internally-resolving reference. Leaf utilities with zero outbound
// internal references are excluded even if unused.
func (a *Analyzer) Orphans() []string {
	var out []string
	for _, p := range a.g.SortedPaths() {
		n := a.g.Nodes[p]
		if len(n.UsedBy) > 0 || len(n.CalledBy) > 0 {
			continue
		}
		if len(a.outEdges(p)) == 0 {
			continue
		}
		if a.matcher.MatchPath(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}
