package graph

import (
	"fmt"
	"sort"
	"strings"
)

// BlastRadius is the backward-reachable set of a target node: everything
// that would be affected if it changed.
type BlastRadius struct {
	Target string `json:"target"`
	Found  bool   `json:"found"`
	Note   string `json:"note,omitempty"`
	// Direct are distance-1 dependents via usedBy; Transitive distance >= 2.
	Direct     []string `json:"direct"`
	Transitive []string `json:"transitive"`
	// HTTPCallers come from the target's calledBy set and are not expanded
	// transitively.
	HTTPCallers []string `json:"httpCallers"`
	Total       int      `json:"total"`
}

// BlastRadius computes the blast radius for a target path. The target is
// located by exact canonical match first, then by the first suffix or
// substring hit in path order. An unmatched target yields a descriptive
// not-found result, not an error.
func (a *Analyzer) BlastRadius(target string) BlastRadius {
	path, ok := a.locate(target)
	if !ok {
		return BlastRadius{
			Target: target,
			Note:   fmt.Sprintf("no node matching %q in a graph of %d files", target, len(a.g.Nodes)),
		}
	}

	dist := map[string]int{path: 0}
	queue := []string{path}
	var direct, transitive []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		n := a.g.Nodes[cur]
		for _, dep := range n.UsedBy {
			if _, seen := dist[dep]; seen {
				continue
			}
			if _, exists := a.g.Nodes[dep]; !exists {
				continue
			}
			d := dist[cur] + 1
			dist[dep] = d
			if d == 1 {
				direct = append(direct, dep)
			} else {
				transitive = append(transitive, dep)
			}
			queue = append(queue, dep)
		}
	}

	var httpCallers []string
	if n := a.g.Nodes[path]; n != nil {
		for _, caller := range n.CalledBy {
			if caller == path {
				continue
			}
			if _, already := dist[caller]; already {
				continue
			}
			httpCallers = appendUnique(httpCallers, caller)
		}
	}

	sort.Strings(direct)
	sort.Strings(transitive)
	sort.Strings(httpCallers)
	return BlastRadius{
		Target:      path,
		Found:       true,
		Direct:      direct,
		Transitive:  transitive,
		HTTPCallers: httpCallers,
		Total:       len(direct) + len(transitive) + len(httpCallers),
	}
}

// locate matches a target by exact canonical path, then falls back to the
// first suffix or substring hit in sorted order.
func (a *Analyzer) locate(target string) (string, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", false
	}
	if _, ok := a.g.Nodes[target]; ok {
		return target, true
	}
	for _, p := range a.g.SortedPaths() {
		if strings.HasSuffix(p, target) {
			return p, true
		}
	}
	for _, p := range a.g.SortedPaths() {
		if strings.Contains(p, target) {
			return p, true
		}
	}
	return "", false
}
