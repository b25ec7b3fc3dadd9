package docrec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/jsonutil"
)

// FolderError records a per-folder problem encountered while scanning.
// These accumulate into the run report; they never abort a scan.
type FolderError struct {
	Dir string `json:"dir"`
	Err string `json:"error"`
}

// Store reads and writes per-folder records under a fixed project root.
type Store struct {
	root string // absolute project root
}

// NewStore binds a store to the given project root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the absolute project root bound to this store.
func (s *Store) Root() string {
	if s == nil {
		return ""
	}
	return s.root
}

// LoadAll reads every record found in the given project-relative folders.
// An unreadable folder or record is treated as containing nothing; a
// malformed record is skipped for that folder only. Both cases are reported
// as FolderErrors alongside the successfully loaded records.
func (s *Store) LoadAll(dirs []string) ([]Record, []FolderError) {
	if s == nil {
		return nil, nil
	}
	var records []Record
	var errs []FolderError
	sorted := append([]string(nil), dirs...)
	sort.Strings(sorted)
	for _, dir := range sorted {
		rec, ok, err := s.Load(dir)
		if err != nil {
			errs = append(errs, FolderError{Dir: dir, Err: err.Error()})
			continue
		}
		if ok {
			records = append(records, rec)
		}
	}
	return records, errs
}

// Load reads one folder's record. The bool reports whether a record file
// exists; a missing or unreadable file is (Record{}, false, nil), a present
// but malformed file is an error.
func (s *Store) Load(dir string) (Record, bool, error) {
	if s == nil {
		return Record{}, false, nil
	}
	data, err := os.ReadFile(s.recordPath(dir))
	if err != nil {
		// Unreadable folders contain nothing.
		return Record{}, false, nil
	}
	var entries map[string]Entry
	if err := jsonutil.Unmarshal(data, &entries); err != nil {
		return Record{}, false, fmt.Errorf("docrec: malformed record in %q: %w", displayDir(dir), err)
	}
	return Record{Dir: normalizeDir(dir), Entries: entries}, true, nil
}

// Write persists one folder's record. A write failure is returned to the
// caller so the run report can surface it per folder.
func (s *Store) Write(rec Record) error {
	if s == nil {
		return fmt.Errorf("docrec: store is nil")
	}
	data, err := jsonutil.MarshalNoEscapeIndent(rec.Entries, "", "  ")
	if err != nil {
		return fmt.Errorf("docrec: encode record for %q: %w", displayDir(rec.Dir), err)
	}
	p := s.recordPath(rec.Dir)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("docrec: prepare folder %q: %w", displayDir(rec.Dir), err)
	}
	if err := os.WriteFile(p, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("docrec: write record for %q: %w", displayDir(rec.Dir), err)
	}
	return nil
}

func (s *Store) recordPath(dir string) string {
	return filepath.Join(s.root, filepath.FromSlash(normalizeDir(dir)), RecordFileName)
}

func normalizeDir(dir string) string {
	dir = strings.Trim(strings.ReplaceAll(dir, "\\", "/"), "/")
	if dir == "." {
		return ""
	}
	return dir
}

func displayDir(dir string) string {
	if normalizeDir(dir) == "" {
		return "."
	}
	return normalizeDir(dir)
}
