package obsidian

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lepinkainen/lumina/internal/book"
	"github.com/lepinkainen/lumina/internal/fileutil"
)

// ExportOptions controls ExportBooks.
type ExportOptions struct {
	Dir string
	// Overwrite rewrites existing notes entirely. Otherwise only the managed
	// frontmatter of an existing note is refreshed and its body is kept.
	Overwrite bool
	// CoverPaths maps book IDs to local cover files, relative to Dir.
	CoverPaths map[string]string
}

// ExportSummary counts what ExportBooks did.
type ExportSummary struct {
	Written   int
	Updated   int
	Unchanged int
}

// ExportBooks writes one note per book into opts.Dir.
func ExportBooks(books []book.Book, read book.ReadSet, opts ExportOptions) (ExportSummary, error) {
	var summary ExportSummary

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return summary, fmt.Errorf("failed to create export directory: %w", err)
	}

	existing := indexNotes(opts.Dir)
	used := make(map[string]bool, len(books))
	for _, b := range books {
		path := existing.pathFor(b, opts.Dir, used)
		cover := opts.CoverPaths[b.ID]

		if !opts.Overwrite && fileutil.FileExists(path) {
			changed, err := refreshNote(path, b, read.Has(b.ID), cover)
			if err != nil {
				return summary, err
			}
			if changed {
				summary.Updated++
			} else {
				summary.Unchanged++
			}
			continue
		}

		content, err := BookNote(b, read.Has(b.ID), cover).Build()
		if err != nil {
			return summary, fmt.Errorf("failed to build note for %s: %w", b.ID, err)
		}
		if _, err := fileutil.WriteFileWithOverwrite(path, content, 0o644, true); err != nil {
			return summary, err
		}
		slog.Debug("Wrote note", "path", path, "id", b.ID)
		summary.Written++
	}

	slog.Info("Export finished", "dir", opts.Dir, "written", summary.Written, "updated", summary.Updated, "unchanged", summary.Unchanged)
	return summary, nil
}

// noteIndex maps the lumina_id of notes already in the export directory to
// their files, and back.
type noteIndex struct {
	byID  map[string]string
	owner map[string]string
}

func indexNotes(dir string) noteIndex {
	idx := noteIndex{byID: map[string]string{}, owner: map[string]string{}}

	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return idx
	}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		note, err := ParseNote(content)
		if err != nil {
			slog.Debug("Skipping unparsable note", "path", path, "error", err)
			continue
		}
		id := note.Frontmatter.GetString("lumina_id")
		if id == "" {
			continue
		}
		if _, seen := idx.byID[id]; !seen {
			idx.byID[id] = path
		}
		idx.owner[path] = id
	}
	return idx
}

// pathFor reuses the note that already carries the book's ID. Otherwise it
// picks a file per title, suffixing the ID when the title file belongs to
// another book or was already taken in this export.
func (idx noteIndex) pathFor(b book.Book, dir string, used map[string]bool) string {
	if path, ok := idx.byID[b.ID]; ok && !used[path] {
		used[path] = true
		return path
	}

	path := fileutil.MarkdownPath(b.Title, dir)
	owner, owned := idx.owner[path]
	if used[path] || (owned && owner != b.ID) {
		path = fileutil.MarkdownPath(fmt.Sprintf("%s (%s)", b.Title, b.ID), dir)
	}
	used[path] = true
	return path
}

func refreshNote(path string, b book.Book, read bool, cover string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	note, err := ParseNote(existing)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	ApplyBook(note.Frontmatter, b, read, cover)
	content, err := note.Build()
	if err != nil {
		return false, err
	}
	if bytes.Equal(content, existing) {
		return false, nil
	}

	if _, err := fileutil.WriteFileWithOverwrite(path, content, 0o644, true); err != nil {
		return false, err
	}
	return true, nil
}
