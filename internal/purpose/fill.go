package purpose

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/docrec"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/jsonutil"
)

const fillPrompt = `You are documenting a codebase. For each file below, write a
one-sentence "purpose" describing what the file is for, based on its name,
exported symbols, and the files it references. Return ONLY a JSON object
mapping each canonical path to its purpose string. Do not invent files.`

type fileSketch struct {
	Path    string   `json:"path"`
	Exports []string `json:"exports,omitempty"`
	Uses    []string `json:"uses,omitempty"`
	UsedBy  []string `json:"usedBy,omitempty"`
}

// Generator produces purposes for a batch of file sketches. Satisfied by
// *GeminiClient; tests substitute a canned implementation.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, input any) ([]byte, error)
}

// Report summarizes one fill pass.
type Report struct {
	Candidates     int                 `json:"candidates"`
	Filled         int                 `json:"filled"`
	RecordsWritten int                 `json:"recordsWritten"`
	WriteErrors    []docrec.FolderError `json:"writeErrors,omitempty"`
}

// Fill rewrites every entry still carrying the placeholder purpose with a
// model-authored one. Entries with authored purposes are never touched.
func Fill(ctx context.Context, store *docrec.Store, dirs []string, gen Generator) (*Report, error) {
	records, skipped := store.LoadAll(dirs)
	for _, fe := range skipped {
		log.Printf("purpose: skipping %s: %s", folderLabel(fe.Dir), fe.Err)
	}

	rep := &Report{}
	pending := make(map[string]*docrec.Record) // dir -> record needing a write
	var batch []fileSketch
	owner := make(map[string]string) // canonical path -> dir

	byDir := make(map[string]*docrec.Record, len(records))
	for i := range records {
		rec := &records[i]
		byDir[rec.Dir] = rec
		for _, name := range rec.FileNames() {
			e := rec.Entries[name]
			if e.Purpose != docrec.PlaceholderPurpose && e.Purpose != "" {
				continue
			}
			p := rec.CanonicalPath(name)
			batch = append(batch, fileSketch{Path: p, Exports: e.Exports, Uses: e.Uses, UsedBy: e.UsedBy})
			owner[p] = rec.Dir
		}
	}
	rep.Candidates = len(batch)
	if len(batch) == 0 {
		return rep, nil
	}

	raw, err := gen.GenerateJSON(ctx, fillPrompt, batch)
	if err != nil {
		return nil, fmt.Errorf("purpose: generate: %w", err)
	}
	purposes, err := decodePurposes(raw)
	if err != nil {
		return nil, fmt.Errorf("purpose: decode model output: %w", err)
	}

	for p, text := range purposes {
		dir, ok := owner[p]
		if !ok || text == "" {
			continue
		}
		rec := byDir[dir]
		name := baseName(p)
		e, ok := rec.Entries[name]
		if !ok {
			continue
		}
		e.Purpose = text
		rec.Entries[name] = e
		pending[dir] = rec
		rep.Filled++
	}

	dirsToWrite := make([]string, 0, len(pending))
	for d := range pending {
		dirsToWrite = append(dirsToWrite, d)
	}
	sort.Strings(dirsToWrite)
	for _, d := range dirsToWrite {
		if err := store.Write(*pending[d]); err != nil {
			rep.WriteErrors = append(rep.WriteErrors, docrec.FolderError{Dir: d, Err: err.Error()})
			continue
		}
		rep.RecordsWritten++
	}
	return rep, nil
}

func decodePurposes(raw []byte) (map[string]string, error) {
	out := map[string]string{}
	if err := jsonutil.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func baseName(canonical string) string {
	for i := len(canonical) - 1; i >= 0; i-- {
		if canonical[i] == '/' {
			return canonical[i+1:]
		}
	}
	return canonical
}

func folderLabel(dir string) string {
	if dir == "" {
		return "(root)"
	}
	return dir
}
