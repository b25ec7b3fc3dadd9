package rpc

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/graph"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/ops"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewMux mounts the tool registry and the watch stream on a fresh mux:
//
//	POST /rpc          {"tool": "...", "input": {...}}
//	GET  /rpc/tools    tool specs
//	GET  /watch?root=  websocket stream of rebuild progress + final report
func NewMux(reg *Registry, h Host) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/rpc", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var in struct {
			Tool  string          `json:"tool"`
			Input json.RawMessage `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		out, err := reg.Call(r.Context(), in.Tool, in.Input)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		_, _ = w.Write(out)
	})

	mux.HandleFunc("/rpc/tools", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reg.Specs())
	})

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		root := strings.TrimSpace(r.URL.Query().Get("root"))
		if root == "" {
			http.Error(w, "root is required", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		serveWatch(conn, root, h)
	})

	return mux
}

// serveWatch runs one rebuild, streaming progress events followed by the
// final report. The build itself stays single-threaded; the socket is just
// a spectator.
func serveWatch(conn *websocket.Conn, root string, h Host) {
	resolved, err := h.resolveRoot(root)
	if err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "error": err.Error()})
		return
	}
	root = resolved
	progress := func(ev graph.ProgressEvent) {
		msg := map[string]any{"type": "progress", "event": ev}
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("rpc: watch write: %v", err)
		}
	}
	g, report, err := ops.Rebuild(root, h.Config, progress)
	if err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "error": err.Error()})
		return
	}
	updateRegistry(h.Registry, g.Root, report.NodeCount, report.LinksCreated, len(report.Unresolved))
	_ = conn.WriteJSON(map[string]any{"type": "report", "report": report})
}
