// Package export serializes a built graph, raw node map included, to an
// external sink.
package export

import (
	"time"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/graph"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/jsonutil"
)

// Snapshot is the full-graph export document.
type Snapshot struct {
	Root        string                     `json:"root"`
	GeneratedAt time.Time                  `json:"generatedAt"`
	Aliases     []graph.AliasPair          `json:"aliases,omitempty"`
	Nodes       map[string]*graph.FileNode `json:"nodes"`
}

// BuildSnapshot captures the graph as an export document.
func BuildSnapshot(g *graph.Graph) Snapshot {
	return Snapshot{
		Root:        g.Root,
		GeneratedAt: time.Now().UTC(),
		Aliases:     g.Aliases.Pairs(),
		Nodes:       g.Nodes,
	}
}

// Encode renders the snapshot as indented JSON.
func (s Snapshot) Encode() ([]byte, error) {
	return jsonutil.MarshalNoEscapeIndent(s, "", "  ")
}
