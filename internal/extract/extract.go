// Package extract seeds per-folder records with uses/exports lists pulled
// from source files by per-language regex heuristics. The graph core treats
// the result exactly like hand-authored data; nothing here is compiler-grade.
package extract

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/docrec"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/safeio"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/scan"
)

// LangSpec describes one language family's extraction heuristics.
type LangSpec struct {
	Name      string
	Exts      []string
	UseRes    []*regexp.Regexp // capture group 1 is the raw reference
	ExportRes []*regexp.Regexp // capture group 1 is the symbol name
}

// Languages returns the built-in language families.
func Languages() []LangSpec {
	return []LangSpec{
		{
			Name: "js",
			Exts: []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"},
			UseRes: []*regexp.Regexp{
				regexp.MustCompile(`(?m)import\s+(?:[^'"]+\s+from\s+)?['"]([^'"]+)['"]`),
				regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`),
				regexp.MustCompile(`(?m)export\s+(?:\*|\{[^}]*\})\s*from\s+['"]([^'"]+)['"]`),
			},
			ExportRes: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function|class|const|let|var|interface|type|enum)\s+([A-Za-z_$][\w$]*)`),
				regexp.MustCompile(`(?m)^\s*(?:module\.)?exports\.([A-Za-z_$][\w$]*)\s*=`),
			},
		},
		{
			Name: "python",
			Exts: []string{".py"},
			UseRes: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*from\s+([\w.]+)\s+import`),
				regexp.MustCompile(`(?m)^\s*import\s+([\w.]+)`),
			},
			ExportRes: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^def\s+([A-Za-z_]\w*)`),
				regexp.MustCompile(`(?m)^class\s+([A-Za-z_]\w*)`),
			},
		},
	}
}

// Report summarizes one extraction pass.
type Report struct {
	FilesScanned   int
	RecordsWritten int
	WriteErrors    []docrec.FolderError
}

// Seed scans the chosen language families under root and merges extracted
// uses/exports into each folder's record. Purposes and derived fields are
// preserved; new entries start with the placeholder purpose.
func Seed(store *docrec.Store, langs []LangSpec, opts scan.Options) (Report, error) {
	var rep Report
	root := store.Root()

	// Reads go through a path jail: a symlink pointing outside the project
	// is skipped like any other unreadable file.
	fsys, err := safeio.New(root)
	if err != nil {
		return rep, err
	}

	type fileData struct {
		uses    []string
		exports []string
	}
	byDir := make(map[string]map[string]fileData)

	for _, lang := range langs {
		files, err := scan.FilesWithExtensions(root, lang.Exts, opts)
		if err != nil {
			return rep, err
		}
		for _, rel := range files {
			data, err := fsys.ReadFile(filepath.FromSlash(rel))
			if err != nil {
				continue
			}
			rep.FilesScanned++
			src := string(data)
			fd := fileData{
				uses:    matchOrdered(src, lang.UseRes, normalizeRef(lang.Name)),
				exports: matchSorted(src, lang.ExportRes),
			}
			dir := filepath.ToSlash(filepath.Dir(rel))
			if dir == "." {
				dir = ""
			}
			if byDir[dir] == nil {
				byDir[dir] = make(map[string]fileData)
			}
			byDir[dir][filepath.Base(rel)] = fd
		}
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		rec, ok, err := store.Load(dir)
		if err != nil || !ok {
			rec = docrec.Record{Dir: dir, Entries: make(map[string]docrec.Entry)}
		}
		if rec.Entries == nil {
			rec.Entries = make(map[string]docrec.Entry)
		}
		for name, fd := range byDir[dir] {
			e, exists := rec.Entries[name]
			if !exists {
				e = docrec.Entry{Purpose: docrec.PlaceholderPurpose}
			}
			e.Uses = fd.uses
			e.Exports = fd.exports
			rec.Entries[name] = e
		}
		if err := store.Write(rec); err != nil {
			rep.WriteErrors = append(rep.WriteErrors, docrec.FolderError{Dir: dir, Err: err.Error()})
			continue
		}
		rep.RecordsWritten++
	}
	return rep, nil
}

// matchOrdered collects capture-group hits in source order, deduplicated.
func matchOrdered(src string, res []*regexp.Regexp, normalize func(string) string) []string {
	type hit struct {
		pos int
		ref string
	}
	var hits []hit
	seen := make(map[string]struct{})
	for _, re := range res {
		for _, m := range re.FindAllStringSubmatchIndex(src, -1) {
			if len(m) < 4 || m[2] < 0 {
				continue
			}
			ref := normalize(src[m[2]:m[3]])
			if ref == "" {
				continue
			}
			if _, dup := seen[ref]; dup {
				continue
			}
			seen[ref] = struct{}{}
			hits = append(hits, hit{pos: m[0], ref: ref})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.ref)
	}
	return out
}

func matchSorted(src string, res []*regexp.Regexp) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, re := range res {
		for _, m := range re.FindAllStringSubmatch(src, -1) {
			if len(m) < 2 || m[1] == "" {
				continue
			}
			if _, dup := seen[m[1]]; dup {
				continue
			}
			seen[m[1]] = struct{}{}
			out = append(out, m[1])
		}
	}
	sort.Strings(out)
	return out
}

// normalizeRef adapts matched references to the record convention. Python's
// dotted module paths become slash paths; leading dots become relative
// segments so the strict resolver can handle them.
func normalizeRef(lang string) func(string) string {
	if lang != "python" {
		return func(ref string) string { return strings.TrimSpace(ref) }
	}
	return func(ref string) string {
		ref = strings.TrimSpace(ref)
		dots := 0
		for dots < len(ref) && ref[dots] == '.' {
			dots++
		}
		rest := strings.ReplaceAll(ref[dots:], ".", "/")
		switch dots {
		case 0:
			return rest
		case 1:
			return "./" + rest
		default:
			return strings.Repeat("../", dots-1) + rest
		}
	}
}
