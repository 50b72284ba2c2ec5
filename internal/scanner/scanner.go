// Package scanner enumerates the source files of a project, respecting
// the project's .gitignore and the built-in exclude conventions.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/routelens/routelens/internal/constants"
	"github.com/routelens/routelens/internal/parser"
)

// Scanner walks a project root and yields parseable source files
type Scanner struct {
	root        string
	excludeDirs map[string]bool
	ignorer     *ignore.GitIgnore
}

// New creates a Scanner for the given root. A .gitignore at the root is
// compiled when present; extraExcludes extend the built-in directory list.
func New(root string, extraExcludes []string) *Scanner {
	excludes := make(map[string]bool, len(constants.DefaultExcludeDirs)+len(extraExcludes))
	for _, dir := range constants.DefaultExcludeDirs {
		excludes[dir] = true
	}
	for _, dir := range extraExcludes {
		excludes[dir] = true
	}

	s := &Scanner{root: root, excludeDirs: excludes}
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		s.ignorer = gi
	}
	return s
}

// DisableGitignore drops any compiled .gitignore patterns
func (s *Scanner) DisableGitignore() {
	s.ignorer = nil
}

// Scan returns the project-relative, slash-separated paths of all source
// files under the root, sorted for deterministic processing.
func (s *Scanner) Scan() ([]string, error) {
	var files []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries degrade to a smaller scan, never an abort
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if s.excludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			if s.ignorer != nil && s.ignorer.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !parser.IsSourceFile(path) {
			return nil
		}
		if s.ignorer != nil && s.ignorer.MatchesPath(rel) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Exists reports whether a project-relative path exists as a regular file
func (s *Scanner) Exists(rel string) bool {
	info, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel)))
	return err == nil && info.Mode().IsRegular()
}

// Read returns the bytes of a project-relative file
func (s *Scanner) Read(rel string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
}
