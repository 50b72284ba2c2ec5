package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileHelper provides path utilities for the use cases
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// ResolveRoot validates a project root and returns its absolute path.
// An empty path means the current directory.
func (h *FileHelper) ResolveRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve project root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project root %s is not a directory", abs)
	}
	return abs, nil
}

// RelativizeChangedFiles converts changed-file arguments to
// project-relative slash paths. Relative arguments are taken as
// project-relative already; absolute ones are rebased onto the root.
// Nonexistent paths pass through, the engine treats them as deletions.
func (h *FileHelper) RelativizeChangedFiles(root string, files []string) ([]string, error) {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" {
			continue
		}
		if !filepath.IsAbs(f) {
			out = append(out, filepath.ToSlash(filepath.Clean(f)))
			continue
		}
		rel, err := filepath.Rel(root, f)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("changed file %s is outside the project root", f)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out, nil
}

// IsSourceFile reports whether a path has a JavaScript/TypeScript
// extension
func (h *FileHelper) IsSourceFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs":
		return true
	}
	return false
}
