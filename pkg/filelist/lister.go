// Package filelist finds the source files to bundle.
package filelist

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gptizer/gptizer/pkg/errors"
)

// Options controls which files List returns.
type Options struct {
	// Extensions is the allow-list, with leading dot. Matching is exact
	// and case-sensitive, so ".R" and ".r" differ.
	Extensions []string
	// IgnoredDirs are directory names skipped at any depth.
	IgnoredDirs []string
	// Exclude are extra glob or prefix patterns matched against the
	// slash-separated path relative to the root.
	Exclude []string
	// SkipHidden skips files and directories whose name starts with a dot.
	SkipHidden bool
	// SkipPaths are absolute paths never returned or descended into,
	// such as the output directory.
	SkipPaths []string
}

// Lister lists source files under a root.
type Lister struct {
	extensions map[string]bool
	ignored    map[string]bool
	exclude    []string
	skipHidden bool
	skipPaths  map[string]bool
}

// NewLister creates a Lister from opts.
func NewLister(opts Options) *Lister {
	l := &Lister{
		extensions: make(map[string]bool, len(opts.Extensions)),
		ignored:    make(map[string]bool, len(opts.IgnoredDirs)),
		exclude:    opts.Exclude,
		skipHidden: opts.SkipHidden,
		skipPaths:  make(map[string]bool, len(opts.SkipPaths)),
	}
	for _, ext := range opts.Extensions {
		l.extensions[ext] = true
	}
	for _, dir := range opts.IgnoredDirs {
		l.ignored[dir] = true
	}
	for _, p := range opts.SkipPaths {
		if abs, err := filepath.Abs(p); err == nil {
			l.skipPaths[abs] = true
		}
	}
	return l
}

// List walks root in lexical order and returns the absolute paths of
// matching regular files.
func (l *Lister) List(ctx context.Context, root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.FilesystemError("resolve root", err).WithPath(root)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == absRoot {
			return nil
		}

		if l.skipPaths[path] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			if l.ignored[name] || (l.skipHidden && isHidden(name)) || l.shouldExclude(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if l.skipHidden && isHidden(name) {
			return nil
		}
		if !l.extensions[filepath.Ext(name)] || l.shouldExclude(rel) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.FilesystemError("walk source tree", err).WithPath(absRoot)
	}

	return files, nil
}

// Matches reports whether a root-relative slash path would be listed,
// ignoring whether it exists. Used by watch mode to filter events.
func (l *Lister) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	parts := strings.Split(rel, "/")
	for i, part := range parts {
		last := i == len(parts)-1
		if !last && l.ignored[part] {
			return false
		}
		if l.skipHidden && isHidden(part) {
			return false
		}
	}
	return l.extensions[filepath.Ext(rel)] && !l.shouldExclude(rel)
}

// SkipDir reports whether the directory at the root-relative slash path
// rel is pruned from listing.
func (l *Lister) SkipDir(rel string) bool {
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if l.ignored[part] || (l.skipHidden && isHidden(part)) {
			return true
		}
	}
	return l.shouldExclude(rel)
}

// shouldExclude checks if a path should be excluded
func (l *Lister) shouldExclude(path string) bool {
	for _, pattern := range l.exclude {
		// Glob against the whole relative path
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
		// Directory prefix
		if strings.HasPrefix(path, strings.TrimSuffix(pattern, "/")+"/") {
			return true
		}
		if path == pattern {
			return true
		}
		// Glob against any single path component, so "*.min.js" works at any depth
		if !strings.Contains(pattern, "/") {
			for _, part := range strings.Split(path, "/") {
				if matched, err := filepath.Match(pattern, part); err == nil && matched {
					return true
				}
			}
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
