package registry

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	s := New(path)

	sum := Summary{
		Repo:        "/repos/alpha",
		Nodes:       42,
		Links:       99,
		Unresolved:  3,
		LastRebuild: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.Put(sum); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok := s.Get("/repos/alpha")
	if !ok {
		t.Fatalf("summary not found")
	}
	if got.Nodes != 42 || got.Links != 99 {
		t.Fatalf("got %+v", got)
	}

	// A fresh store over the same file sees the persisted state.
	reopened := New(path)
	if _, ok := reopened.Get("/repos/alpha"); !ok {
		t.Fatalf("summary lost across reopen")
	}
}

func TestFileStoreListSorted(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "registry.json"))
	for _, repo := range []string{"/z", "/a", "/m"} {
		if err := s.Put(Summary{Repo: repo}); err != nil {
			t.Fatalf("put %s: %v", repo, err)
		}
	}
	list, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Repo != "/a" || list[1].Repo != "/m" || list[2].Repo != "/z" {
		t.Fatalf("list = %+v", list)
	}
}

func TestFileStoreUpsert(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "registry.json"))
	if err := s.Put(Summary{Repo: "/r", Nodes: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(Summary{Repo: "/r", Nodes: 2}); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get("/r")
	if got.Nodes != 2 {
		t.Fatalf("upsert kept stale value: %+v", got)
	}
	list, _ := s.List()
	if len(list) != 1 {
		t.Fatalf("duplicate rows after upsert: %+v", list)
	}
}

func TestNilStoreIsInert(t *testing.T) {
	var s *Store
	if _, ok := s.Get("/r"); ok {
		t.Fatalf("nil store returned a summary")
	}
	if err := s.Put(Summary{Repo: "/r"}); err == nil {
		t.Fatalf("nil store must reject writes")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
