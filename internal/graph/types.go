package graph

import (
	"path"
	"strings"
)

// FileNode is one documented file, identified by its canonical path:
// POSIX-separated, leading slash, project-root-relative.
type FileNode struct {
	Path    string   `json:"path"`
	Purpose string   `json:"purpose"`
	Exports []string `json:"exports,omitempty"`
	// Uses holds raw reference strings as authored, in order.
	Uses []string `json:"uses,omitempty"`
	// UsedBy is derived by the builder: the canonical paths whose uses
	// resolve into this node. Fully recomputed on every build.
	UsedBy []string `json:"usedBy,omitempty"`
	// Calls/CalledBy mirror HTTP-call edges owned by an external
	// collaborator; the analyzer reads them like uses/usedBy.
	Calls    []string `json:"calls,omitempty"`
	CalledBy []string `json:"calledBy,omitempty"`
}

// Dir returns the node's project-relative folder ("" for the root).
func (n *FileNode) Dir() string {
	d := path.Dir(n.Path)
	return strings.TrimPrefix(d, "/")
}

// Graph is the full node index for one invocation. It is built fresh each
// run and never persisted; the per-folder records are the durable state.
type Graph struct {
	Root    string
	Aliases *AliasTable
	Nodes   map[string]*FileNode

	paths []string // sorted canonical paths
}

// Node looks up a node by exact canonical path.
func (g *Graph) Node(p string) (*FileNode, bool) {
	n, ok := g.Nodes[p]
	return n, ok
}

// SortedPaths returns every canonical path in lexicographic order.
func (g *Graph) SortedPaths() []string {
	if g.paths == nil {
		g.paths = sortedKeys(g.Nodes)
	}
	return g.paths
}

// Cluster is a maximal connected group of nodes unreachable from any entry
// point; a dead-code candidate as a whole.
type Cluster struct {
	Size    int      `json:"size"`
	Members []string `json:"members"`
}
