// Package tree renders the directory tree placed at the top of the first bundle.
package tree

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gptizer/gptizer/pkg/errors"
)

// Renderer produces a text tree for root. files are the absolute paths the
// run will bundle; renderers may ignore them.
type Renderer interface {
	Render(ctx context.Context, root string, files []string) (string, error)
}

// Mode names accepted by New.
const (
	ModeAuto    = "auto"
	ModeExec    = "exec"
	ModeBuiltin = "builtin"
	ModeNone    = "none"
)

// New returns the renderer for mode. ignore lists directory names the
// external tool should leave out.
func New(mode string, ignore []string) (Renderer, error) {
	switch mode {
	case ModeAuto, "":
		if _, err := exec.LookPath("tree"); err == nil {
			return &Exec{Ignore: ignore}, nil
		}
		return Builtin{}, nil
	case ModeExec:
		return &Exec{Ignore: ignore}, nil
	case ModeBuiltin:
		return Builtin{}, nil
	case ModeNone:
		return None{}, nil
	default:
		return nil, errors.ConfigError(fmt.Sprintf("unknown tree mode %q", mode), nil)
	}
}

// None renders nothing.
type None struct{}

// Render implements Renderer.
func (None) Render(context.Context, string, []string) (string, error) {
	return "", nil
}

// Exec shells out to `tree`, falling back to `ls -T` when tree is missing.
type Exec struct {
	Ignore []string
	// lookPath is exec.LookPath unless overridden in tests.
	lookPath func(string) (string, error)
}

// Command returns the argv used for root.
func (e *Exec) Command(root string) []string {
	lookPath := e.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	bin := []string{"tree"}
	if _, err := lookPath("tree"); err != nil {
		bin = []string{"ls", "-T"}
	}
	args := append(bin, root)
	if len(e.Ignore) > 0 {
		args = append(args, "-I", strings.Join(e.Ignore, "|"))
	}
	return args
}

// Render implements Renderer. Only stdout is returned.
func (e *Exec) Render(ctx context.Context, root string, _ []string) (string, error) {
	argv := e.Command(root)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s cancelled: %w", argv[0], ctx.Err())
		}
		return "", errors.TreeError(fmt.Sprintf("%s failed: %s", argv[0], strings.TrimSpace(stderr.String())), err)
	}
	return stdout.String(), nil
}

// Builtin draws the tree from the listed files without external tools.
type Builtin struct {
	// MaxDepth limits how deep the tree goes; 0 means unlimited.
	MaxDepth int
}

// Render implements Renderer.
func (b Builtin) Render(_ context.Context, root string, files []string) (string, error) {
	rels := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil || escapesRoot(rel) {
			continue
		}
		rels = append(rels, filepath.ToSlash(rel))
	}
	return BuildTree(filepath.Base(root), rels, b.MaxDepth), nil
}

// BuildTree builds a visual tree from slash-separated relative paths.
// Children are sorted by name.
func BuildTree(rootName string, files []string, maxDepth int) string {
	root := &treeNode{name: rootName}

	for _, file := range files {
		if file == "" {
			continue
		}
		parts := strings.Split(file, "/")
		current := root

		for i, part := range parts {
			if maxDepth > 0 && i >= maxDepth {
				break
			}
			current = current.child(part)
		}
	}

	root.sort()
	return root.String()
}

// treeNode represents a node in the file tree
type treeNode struct {
	name     string
	children []*treeNode
}

func (n *treeNode) child(name string) *treeNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	c := &treeNode{name: name}
	n.children = append(n.children, c)
	return c
}

func (n *treeNode) sort() {
	sort.Slice(n.children, func(i, j int) bool {
		return n.children[i].name < n.children[j].name
	})
	for _, c := range n.children {
		c.sort()
	}
}

// String returns the tree as a formatted string
func (n *treeNode) String() string {
	var buf strings.Builder
	n.writeTo(&buf, "", true, true)
	return buf.String()
}

func (n *treeNode) writeTo(buf *strings.Builder, prefix string, isLast, isRoot bool) {
	connector := "├── "
	if isRoot {
		connector = ""
	} else if isLast {
		connector = "└── "
	}

	buf.WriteString(prefix + connector + n.name + "\n")

	for i, child := range n.children {
		newPrefix := prefix
		if !isRoot {
			if isLast {
				newPrefix += "    "
			} else {
				newPrefix += "│   "
			}
		}

		child.writeTo(buf, newPrefix, i == len(n.children)-1, false)
	}
}

// escapesRoot reports whether a filepath.Rel result points outside its base.
// Names that merely start with two dots, such as "..notes.md", do not.
func escapesRoot(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
