package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/docrec"
)

// Options controls a walk. The ignore list is always supplied by the
// caller; nothing here consults process-wide defaults.
type Options struct {
	// IgnoreDirs are directory base names skipped wholesale.
	IgnoreDirs []string
}

// FileVisit carries per-entry metadata to walk callbacks.
type FileVisit struct {
	// Path is repo-relative using forward slashes.
	Path  string
	IsDir bool
	// Ext is the lowercased extension including the dot; empty for dirs.
	Ext  string
	Size int64
}

// VisitFunc is invoked for every visited entry.
type VisitFunc func(fv FileVisit)

// Walk traverses root, skipping ignored directories. Unreadable entries are
// treated as absent, never as a failure.
func Walk(root string, opts Options, cb VisitFunc) error {
	ignore := make(map[string]struct{}, len(opts.IgnoreDirs))
	for _, d := range opts.IgnoreDirs {
		ignore[d] = struct{}{}
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if _, skip := ignore[filepath.Base(p)]; skip && p != root {
				return filepath.SkipDir
			}
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			rel = ""
		}
		fv := FileVisit{Path: rel, IsDir: d.IsDir()}
		if !d.IsDir() {
			fv.Ext = strings.ToLower(filepath.Ext(rel))
			if fi, e := os.Stat(p); e == nil {
				fv.Size = fi.Size()
			}
		}
		if cb != nil {
			cb(fv)
		}
		return nil
	})
}

// RecordDirs returns the project-relative folders under root that hold a
// record file, sorted. "" denotes the root itself.
func RecordDirs(root string, opts Options) ([]string, error) {
	var dirs []string
	err := Walk(root, opts, func(fv FileVisit) {
		if fv.IsDir || filepath.Base(fv.Path) != docrec.RecordFileName {
			return
		}
		dir := filepath.ToSlash(filepath.Dir(fv.Path))
		if dir == "." {
			dir = ""
		}
		dirs = append(dirs, dir)
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}

// FilesWithExtensions returns repo-relative paths of files whose extension
// matches any entry in exts (case-insensitive, leading dot optional).
func FilesWithExtensions(root string, exts []string, opts Options) ([]string, error) {
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	if len(allowed) == 0 {
		return nil, nil
	}
	var files []string
	err := Walk(root, opts, func(fv FileVisit) {
		if fv.IsDir {
			return
		}
		if _, ok := allowed[fv.Ext]; ok {
			files = append(files, fv.Path)
		}
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
