package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/config"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/export"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/ops"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/registry"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/safeio"
)

// Host carries the shared collaborators tools need.
type Host struct {
	Config   config.Config
	Registry *registry.Store // may be nil
	// Jail confines tool-supplied roots; requests resolving outside it are
	// rejected. Nil means unrestricted (in-process callers).
	Jail *safeio.FS
}

// resolveRoot validates a caller-supplied root against the jail.
func (h Host) resolveRoot(root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", fmt.Errorf("rpc: a root is required")
	}
	if h.Jail == nil {
		return root, nil
	}
	resolved, err := h.Jail.ResolveDir(root)
	if err != nil {
		return "", fmt.Errorf("rpc: root not allowed: %w", err)
	}
	return resolved, nil
}

// RegisterDefaultTools installs the default tool set.
func RegisterDefaultTools(r *Registry, h Host) {
	if r == nil {
		return
	}
	r.Register(rebuildTool{h: h})
	r.Register(analyzeTool{h: h})
	r.Register(exportTool{h: h})
}

type rebuildTool struct{ h Host }

func (rebuildTool) Spec() ToolSpec {
	return ToolSpec{
		Name:        "graph.rebuild",
		Description: "Rebuild the dependency graph from folder records and persist derived usedBy sets.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"root":{"type":"string"}},"required":["root"]}`),
	}
}

func (t rebuildTool) Call(_ context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in struct {
		Root string `json:"root"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("rpc: rebuild input: %w", err)
	}
	root, err := t.h.resolveRoot(in.Root)
	if err != nil {
		return nil, err
	}
	g, report, err := ops.Rebuild(root, t.h.Config, nil)
	if err != nil {
		return nil, err
	}
	updateRegistry(t.h.Registry, g.Root, report.NodeCount, report.LinksCreated, len(report.Unresolved))
	return json.Marshal(report)
}

type analyzeTool struct{ h Host }

func (analyzeTool) Spec() ToolSpec {
	return ToolSpec{
		Name:        "graph.analyze",
		Description: "Run cycles, orphans, entry-points, clusters, or blast-radius analysis.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"root":{"type":"string"},"mode":{"type":"string"},"target":{"type":"string"}},"required":["root","mode"]}`),
	}
}

func (t analyzeTool) Call(_ context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in struct {
		Root   string `json:"root"`
		Mode   string `json:"mode"`
		Target string `json:"target"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("rpc: analyze input: %w", err)
	}
	root, err := t.h.resolveRoot(in.Root)
	if err != nil {
		return nil, err
	}
	result, err := ops.Analyze(root, t.h.Config, in.Mode, in.Target)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

type exportTool struct{ h Host }

func (exportTool) Spec() ToolSpec {
	return ToolSpec{
		Name:        "graph.export",
		Description: "Serialize the full graph snapshot to the configured sink.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"root":{"type":"string"},"dir":{"type":"string"}},"required":["root"]}`),
	}
}

func (t exportTool) Call(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in struct {
		Root string `json:"root"`
		Dir  string `json:"dir"` // local sink dir; S3 when empty and configured
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("rpc: export input: %w", err)
	}
	root, err := t.h.resolveRoot(in.Root)
	if err != nil {
		return nil, err
	}
	g, _, err := ops.Rebuild(root, t.h.Config, nil)
	if err != nil {
		return nil, err
	}
	snap := export.BuildSnapshot(g)
	data, err := snap.Encode()
	if err != nil {
		return nil, err
	}
	var sink export.Sink
	if strings.TrimSpace(in.Dir) != "" {
		sink = export.FileSink{Dir: in.Dir}
	} else {
		s3, err := export.NewS3Sink(t.h.Config.S3)
		if err != nil {
			return nil, err
		}
		sink = s3
	}
	name := snapshotName(g.Root, snap.GeneratedAt)
	if err := sink.Put(ctx, name, data); err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{"name": name, "bytes": len(data)})
}

func updateRegistry(store *registry.Store, root string, nodes, links, unresolved int) {
	if store == nil {
		return
	}
	// Registry updates are best effort; a broken registry never fails a run.
	_ = store.Put(registry.Summary{
		Repo:        root,
		Nodes:       nodes,
		Links:       links,
		Unresolved:  unresolved,
		LastRebuild: time.Now().UTC(),
	})
}

func snapshotName(root string, at time.Time) string {
	base := strings.Trim(strings.ReplaceAll(root, "\\", "/"), "/")
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if base == "" {
		base = "repo"
	}
	return fmt.Sprintf("%s-%s.json", base, at.Format("20060102T150405Z"))
}
