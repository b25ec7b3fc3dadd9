// Package ops wires the scanner, record store, and graph core into the
// operations the CLI and the RPC tools share. Each operation is a
// synchronous, run-to-completion pass: the builder always finishes before
// any analysis starts, and nothing survives the invocation except the
// records written back.
package ops

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/config"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/docrec"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/graph"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/scan"
)

// Analysis modes accepted by Analyze.
const (
	ModeCycles      = "cycles"
	ModeOrphans     = "orphans"
	ModeEntryPoints = "entry-points"
	ModeClusters    = "clusters"
	ModeBlastRadius = "blast-radius"
)

// Rebuild loads every record under root, builds the graph, and persists the
// derived usedBy sets through the record store.
func Rebuild(root string, cfg config.Config, progress graph.ProgressFunc) (*graph.Graph, *graph.BuildReport, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("ops: resolve root: %w", err)
	}
	dirs, err := scan.RecordDirs(absRoot, scan.Options{IgnoreDirs: cfg.IgnoreDirs})
	if err != nil {
		return nil, nil, fmt.Errorf("ops: scan %s: %w", absRoot, err)
	}
	store := docrec.NewStore(absRoot)
	records, skipped := store.LoadAll(dirs)

	b := &graph.Builder{
		Root:     absRoot,
		Aliases:  graph.NewAliasTable(cfg.AliasPairs),
		Writer:   store,
		Progress: progress,
	}
	g, report := b.Build(records)
	report.FoldersSkipped = skipped
	return g, report, nil
}

// Analysis is one analyze invocation's result. Exactly one of the mode
// fields is populated.
type Analysis struct {
	Mode        string              `json:"mode"`
	Report      *graph.BuildReport  `json:"report"`
	Cycles      [][]string          `json:"cycles,omitempty"`
	Orphans     []string            `json:"orphans,omitempty"`
	EntryPoints []string            `json:"entryPoints,omitempty"`
	Clusters    []graph.Cluster     `json:"clusters,omitempty"`
	Blast       *graph.BlastRadius  `json:"blastRadius,omitempty"`
}

// Analyze rebuilds the graph, then runs the requested analysis against it.
func Analyze(root string, cfg config.Config, mode, target string) (*Analysis, error) {
	g, report, err := Rebuild(root, cfg, nil)
	if err != nil {
		return nil, err
	}
	a := graph.NewAnalyzer(g, graph.CompilePatterns(cfg.EntryPatterns))
	out := &Analysis{Mode: mode, Report: report}
	switch mode {
	case ModeCycles:
		out.Cycles = a.Cycles()
	case ModeOrphans:
		out.Orphans = a.Orphans()
	case ModeEntryPoints:
		out.EntryPoints = a.EntryPoints()
	case ModeClusters:
		out.Clusters = a.Clusters()
	case ModeBlastRadius:
		if strings.TrimSpace(target) == "" {
			return nil, fmt.Errorf("ops: blast-radius requires a target path")
		}
		blast := a.BlastRadius(target)
		out.Blast = &blast
	default:
		return nil, fmt.Errorf("ops: unknown analysis mode %q", mode)
	}
	return out, nil
}

// Render produces the human-readable form of an analysis.
func (r *Analysis) Render() string {
	var sb strings.Builder
	switch r.Mode {
	case ModeCycles:
		if len(r.Cycles) == 0 {
			sb.WriteString("no dependency cycles\n")
			break
		}
		fmt.Fprintf(&sb, "%d dependency cycle(s):\n", len(r.Cycles))
		for _, c := range r.Cycles {
			fmt.Fprintf(&sb, "  %s\n", strings.Join(c, " -> "))
		}
	case ModeOrphans:
		if len(r.Orphans) == 0 {
			sb.WriteString("no orphaned files\n")
			break
		}
		fmt.Fprintf(&sb, "%d orphaned file(s):\n", len(r.Orphans))
		for _, p := range r.Orphans {
			fmt.Fprintf(&sb, "  %s\n", p)
		}
	case ModeEntryPoints:
		fmt.Fprintf(&sb, "%d entry point(s):\n", len(r.EntryPoints))
		for _, p := range r.EntryPoints {
			fmt.Fprintf(&sb, "  %s\n", p)
		}
	case ModeClusters:
		if len(r.Clusters) == 0 {
			sb.WriteString("no isolated clusters\n")
			break
		}
		fmt.Fprintf(&sb, "%d isolated cluster(s):\n", len(r.Clusters))
		for i, c := range r.Clusters {
			fmt.Fprintf(&sb, "  cluster %d (%d files):\n", i+1, c.Size)
			for _, m := range c.Members {
				fmt.Fprintf(&sb, "    %s\n", m)
			}
		}
	case ModeBlastRadius:
		b := r.Blast
		if !b.Found {
			fmt.Fprintf(&sb, "target not found: %s\n", b.Note)
			break
		}
		fmt.Fprintf(&sb, "blast radius of %s: %d file(s)\n", b.Target, b.Total)
		renderList(&sb, "direct", b.Direct)
		renderList(&sb, "transitive", b.Transitive)
		renderList(&sb, "http callers", b.HTTPCallers)
	}
	renderReport(&sb, r.Report)
	return sb.String()
}

func renderList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "  %s:\n", label)
	for _, it := range items {
		fmt.Fprintf(sb, "    %s\n", it)
	}
}

// RenderReport summarizes a build report for the CLI.
func RenderReport(report *graph.BuildReport) string {
	var sb strings.Builder
	renderReport(&sb, report)
	return sb.String()
}

func renderReport(sb *strings.Builder, report *graph.BuildReport) {
	if report == nil {
		return
	}
	fmt.Fprintf(sb, "graph: %d nodes, %d links\n", report.NodeCount, report.LinksCreated)
	if len(report.Unresolved) > 0 {
		refs := make([]string, 0, len(report.Unresolved))
		for ref := range report.Unresolved {
			refs = append(refs, ref)
		}
		sort.Strings(refs)
		fmt.Fprintf(sb, "%d unresolved reference(s):\n", len(refs))
		for _, ref := range refs {
			fmt.Fprintf(sb, "  %q <- %s\n", ref, strings.Join(report.Unresolved[ref], ", "))
		}
	}
	for _, fe := range report.FoldersSkipped {
		fmt.Fprintf(sb, "skipped folder %s: %s\n", folderLabel(fe.Dir), fe.Err)
	}
	for _, fe := range report.WriteErrors {
		fmt.Fprintf(sb, "write failed for folder %s: %s\n", folderLabel(fe.Dir), fe.Err)
	}
}

func folderLabel(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
