package ops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/config"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/docrec"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/graph"
)

func testConfig() config.Config {
	return config.Config{
		IgnoreDirs:    config.DefaultIgnoreDirs(),
		AliasPairs:    config.DefaultAliasPairs(),
		EntryPatterns: config.DefaultEntryPatterns(),
	}
}

func seedProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	store := docrec.NewStore(root)
	if err := store.Write(docrec.Record{Dir: "src", Entries: map[string]docrec.Entry{
		"main.js": {Purpose: "cli entry", Uses: []string{"./a"}},
		"a.js":    {Uses: []string{"./b"}},
		"b.js":    {Uses: []string{"./a"}},
	}}); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestRebuildPersistsUsedBy(t *testing.T) {
	root := seedProject(t)
	var events []graph.ProgressEvent
	g, report, err := Rebuild(root, testConfig(), func(ev graph.ProgressEvent) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("report = %+v", report)
	}
	if report.NodeCount != 3 || report.LinksCreated != 3 {
		t.Fatalf("report = %+v", report)
	}
	if len(events) == 0 {
		t.Fatalf("no progress events emitted")
	}

	n, ok := g.Node("/src/a.js")
	if !ok || len(n.UsedBy) != 2 {
		t.Fatalf("a.js usedBy = %+v", n)
	}

	// The derived edges landed on disk.
	store := docrec.NewStore(root)
	rec, ok, err := store.Load("src")
	if err != nil || !ok {
		t.Fatalf("reload record: ok=%v err=%v", ok, err)
	}
	gotUsedBy := rec.Entries["a.js"].UsedBy
	if len(gotUsedBy) != 2 || gotUsedBy[0] != "/src/b.js" || gotUsedBy[1] != "/src/main.js" {
		t.Fatalf("persisted usedBy = %v", gotUsedBy)
	}
}

func TestRebuildReportsMalformedFolders(t *testing.T) {
	root := seedProject(t)
	bad := filepath.Join(root, "broken")
	if err := os.MkdirAll(bad, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bad, docrec.RecordFileName), []byte("oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, report, err := Rebuild(root, testConfig(), nil)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if !report.HasErrors() {
		t.Fatalf("malformed folder must fail the run: %+v", report)
	}
	if len(report.FoldersSkipped) != 1 || report.FoldersSkipped[0].Dir != "broken" {
		t.Fatalf("foldersSkipped = %+v", report.FoldersSkipped)
	}
	// The healthy folder still built.
	if report.NodeCount != 3 {
		t.Fatalf("node count = %d", report.NodeCount)
	}
}

func TestAnalyzeCycles(t *testing.T) {
	root := seedProject(t)
	res, err := Analyze(root, testConfig(), ModeCycles, "")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Cycles) != 1 {
		t.Fatalf("cycles = %v", res.Cycles)
	}
	want := []string{"/src/a.js", "/src/b.js", "/src/a.js"}
	for i, p := range want {
		if res.Cycles[0][i] != p {
			t.Fatalf("cycle = %v, want %v", res.Cycles[0], want)
		}
	}
	if !strings.Contains(res.Render(), "/src/a.js") {
		t.Fatalf("render omitted the cycle: %q", res.Render())
	}
}

func TestAnalyzeBlastRequiresTarget(t *testing.T) {
	root := seedProject(t)
	if _, err := Analyze(root, testConfig(), ModeBlastRadius, ""); err == nil {
		t.Fatalf("expected missing target to error")
	}
	res, err := Analyze(root, testConfig(), ModeBlastRadius, "a.js")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Blast == nil || !res.Blast.Found {
		t.Fatalf("blast = %+v", res.Blast)
	}
}

func TestAnalyzeUnknownMode(t *testing.T) {
	if _, err := Analyze(seedProject(t), testConfig(), "meltdown", ""); err == nil {
		t.Fatalf("expected unknown mode to error")
	}
}
