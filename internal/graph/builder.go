package graph

import (
	"sort"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/docrec"
)

// ProgressEvent reports builder progress to an optional observer.
type ProgressEvent struct {
	Stage  string `json:"stage"` // "index" | "link" | "persist"
	Folder string `json:"folder,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// ProgressFunc receives builder progress events. May be nil.
type ProgressFunc func(ProgressEvent)

// RecordWriter is the owning collaborator's write path for mutated records.
type RecordWriter interface {
	Write(rec docrec.Record) error
}

// BuildReport is the run report for one build pass.
type BuildReport struct {
	NodeCount    int `json:"nodeCount"`
	LinksCreated int `json:"linksCreated"`
	// Unresolved maps each reference that resolved to nothing in the index
	// to the canonical paths of the nodes that declared it. Diagnostic,
	// never fatal.
	Unresolved map[string][]string `json:"unresolved,omitempty"`
	// FoldersSkipped lists folders whose records were malformed.
	FoldersSkipped []docrec.FolderError `json:"foldersSkipped,omitempty"`
	// WriteErrors lists folders whose updated records could not be
	// persisted. These risk usedBy/uses divergence and make the run fail.
	WriteErrors []docrec.FolderError `json:"writeErrors,omitempty"`
}

// HasErrors reports whether the run should exit non-zero. Unresolved
// references are diagnostics and do not count.
func (r *BuildReport) HasErrors() bool {
	return r != nil && (len(r.FoldersSkipped) > 0 || len(r.WriteErrors) > 0)
}

// Builder derives the bidirectional dependency graph from folder records.
//
// Every build resets and fully recomputes usedBy; nothing is merged. Two
// consecutive builds on unchanged input therefore produce byte-identical
// usedBy sets, and the second build persists nothing.
type Builder struct {
	Root    string
	Aliases *AliasTable
	// Writer persists mutated records. Nil skips persistence (analysis-only
	// callers and tests).
	Writer   RecordWriter
	Progress ProgressFunc
}

// Build indexes all records, resolves every declared reference through
// StrictResolve, derives the reverse usedBy edge set, and persists mutated
// records. Unresolved references are collected, never raised.
func (b *Builder) Build(records []docrec.Record) (*Graph, *BuildReport) {
	g := &Graph{
		Root:    b.Root,
		Aliases: b.Aliases,
		Nodes:   make(map[string]*FileNode),
	}
	report := &BuildReport{Unresolved: make(map[string][]string)}

	// Index every node by canonical path across all records.
	type slot struct {
		rec  int
		file string
	}
	slots := make(map[string]slot)
	for i, rec := range records {
		for _, name := range rec.FileNames() {
			e := rec.Entries[name]
			p := rec.CanonicalPath(name)
			g.Nodes[p] = &FileNode{
				Path:     p,
				Purpose:  e.Purpose,
				Exports:  e.Exports,
				Uses:     e.Uses,
				Calls:    e.Calls,
				CalledBy: e.CalledBy,
			}
			slots[p] = slot{rec: i, file: name}
		}
		b.emit(ProgressEvent{Stage: "index", Folder: rec.Dir, Count: len(rec.Entries)})
	}
	report.NodeCount = len(g.Nodes)

	// Extension completion: references are commonly authored without the
	// file extension ("./b" for b.js). Collisions keep the
	// lexicographically smallest path so resolution stays deterministic.
	extless := make(map[string]string)
	for _, p := range g.SortedPaths() {
		bare := stripExt(p)
		if bare == p {
			continue
		}
		if _, taken := extless[bare]; !taken {
			extless[bare] = p
		}
	}

	// Reset, then derive usedBy from scratch with set semantics.
	usedBy := make(map[string]map[string]struct{}, len(g.Nodes))
	for p := range g.Nodes {
		usedBy[p] = make(map[string]struct{})
	}
	for _, from := range g.SortedPaths() {
		n := g.Nodes[from]
		for _, ref := range n.Uses {
			target, ok := StrictResolve(ref, n.Dir(), b.Aliases)
			if ok {
				if _, hit := g.Nodes[target]; !hit {
					if c, hit2 := extless[target]; hit2 {
						target = c
					} else {
						ok = false
					}
				}
			}
			if !ok {
				report.Unresolved[ref] = appendUnique(report.Unresolved[ref], from)
				continue
			}
			if _, dup := usedBy[target][from]; !dup {
				usedBy[target][from] = struct{}{}
				report.LinksCreated++
			}
		}
		b.emit(ProgressEvent{Stage: "link", Folder: n.Dir()})
	}
	if len(report.Unresolved) == 0 {
		report.Unresolved = nil
	}

	// Sorted usedBy lists make consecutive builds byte-identical.
	changed := make(map[int]bool)
	for p, set := range usedBy {
		list := make([]string, 0, len(set))
		for from := range set {
			list = append(list, from)
		}
		sort.Strings(list)
		if len(list) == 0 {
			list = nil
		}
		g.Nodes[p].UsedBy = list

		s := slots[p]
		e := records[s.rec].Entries[s.file]
		if !equalStrings(e.UsedBy, list) {
			e.UsedBy = list
			records[s.rec].Entries[s.file] = e
			changed[s.rec] = true
		}
	}

	if b.Writer != nil {
		for i, rec := range records {
			if !changed[i] {
				continue
			}
			if err := b.Writer.Write(rec); err != nil {
				report.WriteErrors = append(report.WriteErrors, docrec.FolderError{
					Dir: rec.Dir,
					Err: err.Error(),
				})
				continue
			}
			b.emit(ProgressEvent{Stage: "persist", Folder: rec.Dir})
		}
		sort.Slice(report.WriteErrors, func(i, j int) bool {
			return report.WriteErrors[i].Dir < report.WriteErrors[j].Dir
		})
	}

	return g, report
}

func (b *Builder) emit(ev ProgressEvent) {
	if b.Progress != nil {
		b.Progress(ev)
	}
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
