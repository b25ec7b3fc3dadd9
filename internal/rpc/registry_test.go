package rpc

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

type echoTool struct{ name string }

func (t echoTool) Spec() ToolSpec {
	return ToolSpec{Name: t.name, Description: "echoes its input"}
}

func (t echoTool) Call(_ context.Context, input json.RawMessage) (json.RawMessage, error) {
	return input, nil
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry(echoTool{name: "echo"})

	out, err := r.Call(context.Background(), "echo", json.RawMessage(`{"x":1}`))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if string(out) != `{"x":1}` {
		t.Fatalf("out = %s", out)
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call(context.Background(), "nope", nil)
	if err == nil {
		t.Fatalf("expected error for unknown tool")
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Fatalf("error should name the tool: %v", err)
	}
}

func TestRegistryReplaceByName(t *testing.T) {
	r := NewRegistry(echoTool{name: "t"})
	r.Register(echoTool{name: "t"})
	if got := len(r.Specs()); got != 1 {
		t.Fatalf("specs = %d, want 1", got)
	}
}

func TestDefaultToolsRegistered(t *testing.T) {
	r := NewRegistry()
	RegisterDefaultTools(r, Host{})

	want := map[string]bool{"graph.rebuild": false, "graph.analyze": false, "graph.export": false}
	for _, spec := range r.Specs() {
		if _, ok := want[spec.Name]; ok {
			want[spec.Name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("tool %s not registered", name)
		}
	}
}
