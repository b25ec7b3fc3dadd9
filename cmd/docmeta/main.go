package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/config"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/docrec"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/export"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/extract"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/graph"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/ops"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/purpose"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/registry"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/rpc"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/safeio"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/scan"
)

const usage = `usage: docmeta <command> [flags]

commands:
  rebuild       resolve references and rewrite usedBy across all records
  analyze       rebuild, then run one analysis (cycles, orphans, entry-points, clusters, blast-radius)
  export        rebuild and write a graph snapshot to a directory or S3
  extract       seed record files from source code (js/ts/python)
  purpose-init  fill placeholder purposes with a Gemini model
  serve         expose the tool set over HTTP (POST /rpc, GET /watch)
`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "rebuild":
		runRebuild(args)
	case "analyze":
		runAnalyze(args)
	case "export":
		runExport(args)
	case "extract":
		runExtract(args)
	case "purpose-init":
		runPurposeInit(args)
	case "serve":
		runServe(args)
	default:
		fmt.Fprintf(os.Stderr, "docmeta: unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
}

func runRebuild(args []string) {
	fs := flag.NewFlagSet("rebuild", flag.ExitOnError)
	root := fs.String("root", ".", "project root")
	verbose := fs.Bool("v", false, "log per-folder progress")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	fs.Parse(args)

	cfg := config.Load(*root)
	var progress graph.ProgressFunc
	if *verbose {
		progress = func(ev graph.ProgressEvent) {
			log.Printf("%s %s (%d)", ev.Stage, ev.Folder, ev.Count)
		}
	}
	_, report, err := ops.Rebuild(*root, cfg, progress)
	if err != nil {
		log.Fatal(err)
	}
	recordSummary(cfg, *root, report)
	if *asJSON {
		printJSON(report)
	} else {
		fmt.Print(ops.RenderReport(report))
	}
	if report.HasErrors() {
		os.Exit(1)
	}
}

func runAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	root := fs.String("root", ".", "project root")
	mode := fs.String("mode", ops.ModeCycles, "cycles | orphans | entry-points | clusters | blast-radius")
	target := fs.String("target", "", "target path for blast-radius")
	asJSON := fs.Bool("json", false, "print the analysis as JSON")
	fs.Parse(args)

	cfg := config.Load(*root)
	res, err := ops.Analyze(*root, cfg, *mode, *target)
	if err != nil {
		log.Fatal(err)
	}
	recordSummary(cfg, *root, res.Report)
	if *asJSON {
		printJSON(res)
	} else {
		fmt.Print(res.Render())
	}
	if res.Report.HasErrors() {
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	root := fs.String("root", ".", "project root")
	outDir := fs.String("out", "", "local snapshot directory (omit to upload to configured S3)")
	fs.Parse(args)

	cfg := config.Load(*root)
	g, report, err := ops.Rebuild(*root, cfg, nil)
	if err != nil {
		log.Fatal(err)
	}
	recordSummary(cfg, *root, report)

	snap := export.BuildSnapshot(g)
	data, err := snap.Encode()
	if err != nil {
		log.Fatal(err)
	}

	var sink export.Sink
	if *outDir != "" {
		sink = export.FileSink{Dir: *outDir}
	} else {
		s3, err := export.NewS3Sink(cfg.S3)
		if err != nil {
			log.Fatal(err)
		}
		sink = s3
	}
	name := fmt.Sprintf("%s-%s.json", filepath.Base(strings.TrimRight(*root, "/\\")), time.Now().UTC().Format("20060102T150405Z"))
	if err := sink.Put(context.Background(), name, data); err != nil {
		log.Fatal(err)
	}
	log.Printf("exported %s (%d nodes)", name, len(snap.Nodes))
	if report.HasErrors() {
		os.Exit(1)
	}
}

func runExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	root := fs.String("root", ".", "project root")
	langs := fs.String("langs", "", "comma-separated language families (default: all)")
	fs.Parse(args)

	cfg := config.Load(*root)
	abs, err := filepath.Abs(*root)
	if err != nil {
		log.Fatal(err)
	}

	selected := extract.Languages()
	if *langs != "" {
		wanted := make(map[string]bool)
		for _, name := range strings.Split(*langs, ",") {
			wanted[strings.TrimSpace(name)] = true
		}
		var filtered []extract.LangSpec
		for _, l := range selected {
			if wanted[l.Name] {
				filtered = append(filtered, l)
			}
		}
		if len(filtered) == 0 {
			log.Fatalf("no known language family in %q", *langs)
		}
		selected = filtered
	}

	store := docrec.NewStore(abs)
	rep, err := extract.Seed(store, selected, scan.Options{IgnoreDirs: cfg.IgnoreDirs})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("scanned %d files, wrote %d records", rep.FilesScanned, rep.RecordsWritten)
	for _, fe := range rep.WriteErrors {
		log.Printf("write failed for %s: %s", fe.Dir, fe.Err)
	}
	if len(rep.WriteErrors) > 0 {
		os.Exit(1)
	}
}

func runPurposeInit(args []string) {
	fs := flag.NewFlagSet("purpose-init", flag.ExitOnError)
	root := fs.String("root", ".", "project root")
	model := fs.String("model", "", "Gemini model id (defaults to GEMINI_MODEL or gemini-2.5-flash)")
	fs.Parse(args)

	cfg := config.Load(*root)
	m := *model
	if m == "" {
		m = cfg.GeminiModel
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		log.Fatal("GEMINI_API_KEY is not set")
	}

	ctx := context.Background()
	cli, err := purpose.NewGeminiClient(ctx, m)
	if err != nil {
		log.Fatal(err)
	}

	abs, err := filepath.Abs(*root)
	if err != nil {
		log.Fatal(err)
	}
	dirs, err := scan.RecordDirs(abs, scan.Options{IgnoreDirs: cfg.IgnoreDirs})
	if err != nil {
		log.Fatal(err)
	}
	rep, err := purpose.Fill(ctx, docrec.NewStore(abs), dirs, cli)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("filled %d of %d placeholder purposes (%d records written)", rep.Filled, rep.Candidates, rep.RecordsWritten)
	for _, fe := range rep.WriteErrors {
		log.Printf("write failed for %s: %s", fe.Dir, fe.Err)
	}
	if len(rep.WriteErrors) > 0 {
		os.Exit(1)
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	root := fs.String("root", ".", "project root")
	port := fs.String("port", ":8080", "server port")
	fs.Parse(args)

	cfg := config.Load(*root)
	reg := registry.Open(cfg.RegistryPath, cfg.RegistryDSN)
	defer reg.Close()

	// Network callers may only point tools at directories under the served
	// root.
	jail, err := safeio.New(*root)
	if err != nil {
		log.Fatal(err)
	}

	h := rpc.Host{Config: cfg, Registry: reg, Jail: jail}
	r := rpc.NewRegistry()
	rpc.RegisterDefaultTools(r, h)

	log.Printf("docmeta serving on %s (root %s)", *port, *root)
	log.Fatal(http.ListenAndServe(*port, h2c.NewHandler(rpc.NewMux(r, h), &http2.Server{})))
}

// recordSummary stores the latest rebuild numbers in the summary registry,
// best effort.
func recordSummary(cfg config.Config, root string, report *graph.BuildReport) {
	reg := registry.Open(cfg.RegistryPath, cfg.RegistryDSN)
	if reg == nil {
		return
	}
	defer reg.Close()
	abs, err := filepath.Abs(root)
	if err != nil {
		return
	}
	_ = reg.Put(registry.Summary{
		Repo:        abs,
		Nodes:       report.NodeCount,
		Links:       report.LinksCreated,
		Unresolved:  len(report.Unresolved),
		LastRebuild: time.Now().UTC(),
	})
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(b))
}
