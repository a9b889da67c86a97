// Package annotate prefixes each source file with a comment naming its path.
package annotate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gptizer/gptizer/pkg/errors"
)

// Annotator reads files below a root and wraps them with a path header.
type Annotator struct {
	root    string
	display string
	prefix  string
}

// New creates an Annotator for files under root. prefix is the comment
// marker written before the path, "//" when empty.
func New(root, prefix string) (*Annotator, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.FilesystemError("resolve root", err).WithPath(root)
	}
	if prefix == "" {
		prefix = "//"
	}
	home, _ := os.UserHomeDir()
	return &Annotator{
		root:    absRoot,
		display: DisplayRoot(absRoot, home),
		prefix:  prefix,
	}, nil
}

// DisplayRoot is the root as shown in headers: relative to home when it
// lives under home, so user names do not leak into bundles.
func DisplayRoot(absRoot, home string) string {
	if home != "" {
		if rel, err := filepath.Rel(home, absRoot); err == nil && rel != "." && !escapesRoot(rel) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(absRoot)
}

// Header returns the header line for path.
func (a *Annotator) Header(path string) (string, error) {
	rel, err := filepath.Rel(a.root, path)
	if err != nil || escapesRoot(rel) {
		return "", errors.FilesystemError("file is outside the root", err).WithPath(path)
	}
	return fmt.Sprintf("%s %s/%s", a.prefix, a.display, filepath.ToSlash(rel)), nil
}

// Annotate reads path and returns "<prefix> <display path>\n\n<content>\n".
// Content must be valid UTF-8.
func (a *Annotator) Annotate(path string) (string, error) {
	header, err := a.Header(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.FilesystemError("read source file", err).WithPath(path)
	}
	if !utf8.Valid(data) {
		return "", errors.FilesystemError("source file is not valid UTF-8", nil).WithPath(path)
	}

	var b strings.Builder
	b.Grow(len(header) + len(data) + 3)
	b.WriteString(header)
	b.WriteString("\n\n")
	b.Write(data)
	b.WriteString("\n")
	return b.String(), nil
}

// escapesRoot reports whether a filepath.Rel result points outside its base.
// Names that merely start with two dots, such as "..notes.md", do not.
func escapesRoot(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
