// Package fileutil holds the small file helpers shared by the exporters.
package fileutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var filenameReplacer = strings.NewReplacer(
	":", " -",
	"/", "-",
	"\\", "-",
	"?", "",
	"*", "",
	"\"", "'",
	"<", "",
	">", "",
	"|", "-",
)

// SanitizeFilename replaces characters that are unsafe in file names.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(filenameReplacer.Replace(name))
	if name == "" {
		return "untitled"
	}
	return name
}

// MarkdownPath returns the note path for a title inside directory.
func MarkdownPath(title, directory string) string {
	return filepath.Join(directory, SanitizeFilename(title)+".md")
}

// FileExists reports whether a regular file exists at path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// WriteFileWithOverwrite writes data unless the file exists and overwrite is
// false. It reports whether the file was written.
func WriteFileWithOverwrite(path string, data []byte, perm os.FileMode, overwrite bool) (bool, error) {
	if FileExists(path) && !overwrite {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// WriteJSONFile writes data as indented JSON, honoring overwrite.
func WriteJSONFile(data any, path string, overwrite bool) (bool, error) {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	written, err := WriteFileWithOverwrite(path, append(encoded, '\n'), 0o644, overwrite)
	if err != nil {
		return false, err
	}
	if !written {
		slog.Info("JSON file already exists, skipping", "path", path)
	}
	return written, nil
}
