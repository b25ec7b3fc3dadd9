package rpc

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMuxDispatchesTools(t *testing.T) {
	reg := NewRegistry(echoTool{name: "echo"})
	mux := NewMux(reg, Host{})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/rpc", "application/json",
		strings.NewReader(`{"tool":"echo","input":{"ping":true}}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	if got := string(buf[:n]); got != `{"ping":true}` {
		t.Fatalf("body = %q", got)
	}
}

func TestMuxRejectsUnknownTool(t *testing.T) {
	mux := NewMux(NewRegistry(), Host{})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/rpc", "application/json",
		strings.NewReader(`{"tool":"missing"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMuxListsToolSpecs(t *testing.T) {
	reg := NewRegistry()
	RegisterDefaultTools(reg, Host{})
	srv := httptest.NewServer(NewMux(reg, Host{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/rpc/tools")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestWatchRequiresRoot(t *testing.T) {
	srv := httptest.NewServer(NewMux(NewRegistry(), Host{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/watch")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
