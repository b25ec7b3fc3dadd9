package docrec

import (
	"path"
	"sort"
	"strings"
)

// RecordFileName is the per-folder record file maintained by the tool.
const RecordFileName = ".docmeta.json"

// PlaceholderPurpose marks entries whose purpose has not been authored yet.
const PlaceholderPurpose = "(purpose not yet documented)"

// Entry documents a single file within a folder record.
type Entry struct {
	// Purpose is free text; may be PlaceholderPurpose.
	Purpose string `json:"purpose"`
	// Exports lists declared symbol names.
	Exports []string `json:"exports,omitempty"`
	// Uses lists raw reference strings exactly as authored, in order.
	Uses []string `json:"uses,omitempty"`
	// UsedBy lists canonical paths of files resolving into this one.
	// Derived by the graph builder; never authored by hand.
	UsedBy []string `json:"usedBy,omitempty"`
	// Calls and CalledBy mirror HTTP-call edges owned by an external
	// collaborator. Read-only here.
	Calls    []string `json:"calls,omitempty"`
	CalledBy []string `json:"calledBy,omitempty"`
}

// Record is one folder's worth of file entries.
type Record struct {
	// Dir is the project-relative folder using forward slashes,
	// "" for the project root.
	Dir string
	// Entries maps file base name to its documentation entry.
	Entries map[string]Entry
}

// CanonicalPath returns the canonical identity for a file in this record:
// POSIX-separated, leading slash, project-root-relative.
func (r Record) CanonicalPath(file string) string {
	return CanonicalPath(r.Dir, file)
}

// CanonicalPath joins a project-relative dir and a file base name into the
// canonical leading-slash form.
func CanonicalPath(dir, file string) string {
	dir = strings.Trim(strings.ReplaceAll(dir, "\\", "/"), "/")
	if dir == "" {
		return "/" + file
	}
	return "/" + path.Join(dir, file)
}

// FileNames returns the record's file names in sorted order.
func (r Record) FileNames() []string {
	names := make([]string, 0, len(r.Entries))
	for name := range r.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
