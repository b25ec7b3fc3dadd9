package graph

import (
	"sort"
	"strings"
)

type visitState uint8

const (
	stateUnvisited visitState = iota
	stateOnStack
	stateDone
)

// dfsFrame is one explicit stack frame: a node and a cursor into its
// outgoing edge list.
type dfsFrame struct {
	node   string
	cursor int
}

// Cycles finds dependency cycles over the fuzzily-resolved uses edges.
//
// DFS sweeps from every node with an explicit frame stack. Each sweep gets
// its own state map: a cycle whose closing edge lands on a node finished by
// an earlier sweep is still discovered when that node becomes the start.
// Revisiting a node already on the recursion stack closes a cycle: the path
// is sliced from that node's first occurrence and canonicalized by rotating
// the lexicographically smallest member to the front, which is the only
// dedup between sweeps. Each reported cycle is a closed sequence whose
// first and last member are equal.
func (a *Analyzer) Cycles() [][]string {
	seen := make(map[string]struct{})
	var cycles [][]string

	for _, start := range a.g.SortedPaths() {
		states := make(map[string]visitState, len(a.g.Nodes))
		stack := []dfsFrame{{node: start}}
		states[start] = stateOnStack
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			edges := a.outEdges(f.node)
			if f.cursor >= len(edges) {
				states[f.node] = stateDone
				stack = stack[:len(stack)-1]
				continue
			}
			next := edges[f.cursor]
			f.cursor++
			switch states[next] {
			case stateUnvisited:
				states[next] = stateOnStack
				stack = append(stack, dfsFrame{node: next})
			case stateOnStack:
				if c, ok := closeCycle(stack, next); ok {
					key := strings.Join(c, " -> ")
					if _, dup := seen[key]; !dup {
						seen[key] = struct{}{}
						cycles = append(cycles, c)
					}
				}
			case stateDone:
				// Already fully explored from another sweep.
			}
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i], " -> ") < strings.Join(cycles[j], " -> ")
	})
	return cycles
}

// closeCycle slices the current path from the first occurrence of member and
// returns it canonicalized and closed (v0 repeated at the end).
func closeCycle(stack []dfsFrame, member string) ([]string, bool) {
	start := -1
	for i, f := range stack {
		if f.node == member {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, false
	}
	open := make([]string, 0, len(stack)-start)
	for _, f := range stack[start:] {
		open = append(open, f.node)
	}
	return canonicalizeCycle(open), true
}

// canonicalizeCycle rotates the open member list so the lexicographically
// smallest member comes first, then closes the sequence. Equivalent
// discoveries from different sweep orders collapse to the same form.
func canonicalizeCycle(open []string) []string {
	if len(open) == 0 {
		return nil
	}
	smallest := 0
	for i := 1; i < len(open); i++ {
		if open[i] < open[smallest] {
			smallest = i
		}
	}
	closed := make([]string, 0, len(open)+1)
	closed = append(closed, open[smallest:]...)
	closed = append(closed, open[:smallest]...)
	closed = append(closed, closed[0])
	return closed
}
