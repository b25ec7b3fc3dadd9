package graph

import "sort"

// Clusters partitions the unreachable part of the graph into connected
// components, largest first.
//
// Entry points are the pattern matches, the zero-internal-deps heuristic,
// and any node with a non-empty calledBy (an HTTP caller keeps it alive).
// Forward reachability flows over uses edges; the complement is the
// isolated set, and components connect over the union of uses and usedBy
// restricted to that set.
func (a *Analyzer) Clusters() []Cluster {
	reachable := make(map[string]struct{})
	var queue []string
	for _, p := range a.g.SortedPaths() {
		n := a.g.Nodes[p]
		if a.IsEntryPoint(n) || len(n.CalledBy) > 0 {
			reachable[p] = struct{}{}
			queue = append(queue, p)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range a.outEdges(cur) {
			if _, ok := reachable[next]; ok {
				continue
			}
			reachable[next] = struct{}{}
			queue = append(queue, next)
		}
	}

	isolated := make(map[string]struct{})
	for _, p := range a.g.SortedPaths() {
		if _, ok := reachable[p]; !ok {
			isolated[p] = struct{}{}
		}
	}

	var clusters []Cluster
	claimed := make(map[string]struct{}, len(isolated))
	for _, start := range a.g.SortedPaths() {
		if _, ok := isolated[start]; !ok {
			continue
		}
		if _, ok := claimed[start]; ok {
			continue
		}
		members := a.component(start, isolated, claimed)
		sort.Strings(members)
		clusters = append(clusters, Cluster{Size: len(members), Members: members})
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Size != clusters[j].Size {
			return clusters[i].Size > clusters[j].Size
		}
		return clusters[i].Members[0] < clusters[j].Members[0]
	})
	return clusters
}

// component collects the connected component of start via BFS over the
// undirected union of uses and usedBy edges, confined to the isolated set.
func (a *Analyzer) component(start string, isolated, claimed map[string]struct{}) []string {
	claimed[start] = struct{}{}
	members := []string{start}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		neighbors := append([]string(nil), a.outEdges(cur)...)
		if n := a.g.Nodes[cur]; n != nil {
			neighbors = append(neighbors, n.UsedBy...)
		}
		for _, next := range neighbors {
			if _, ok := isolated[next]; !ok {
				continue
			}
			if _, ok := claimed[next]; ok {
				continue
			}
			claimed[next] = struct{}{}
			members = append(members, next)
			queue = append(queue, next)
		}
	}
	return members
}
