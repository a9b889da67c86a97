package tree

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gptizer/gptizer/pkg/config"
	gerrors "github.com/gptizer/gptizer/pkg/errors"
)

func TestBuildTree(t *testing.T) {
	got := BuildTree("proj", []string{"b.go", "a/y.go", "a/x.go", ""}, 0)

	want := "proj\n" +
		"├── a\n" +
		"│   ├── x.go\n" +
		"│   └── y.go\n" +
		"└── b.go\n"
	assert.Equal(t, want, got)
}

func TestBuildTree_MaxDepth(t *testing.T) {
	got := BuildTree("proj", []string{"src/a/b/c.go", "README.md"}, 2)

	want := "proj\n" +
		"├── README.md\n" +
		"└── src\n" +
		"    └── a\n"
	assert.Equal(t, want, got)
}

func TestBuildTree_Empty(t *testing.T) {
	assert.Equal(t, "proj\n", BuildTree("proj", nil, 0))
}

func TestBuiltin_Render(t *testing.T) {
	root := filepath.FromSlash("/work/proj")
	files := []string{
		filepath.Join(root, "main.go"),
		filepath.Join(root, "pkg", "x.go"),
		filepath.FromSlash("/elsewhere/ignored.go"),
	}

	got, err := Builtin{}.Render(context.Background(), root, files)
	require.NoError(t, err)
	assert.Equal(t, "proj\n├── main.go\n└── pkg\n    └── x.go\n", got)
}

func TestBuiltin_RenderDotDotPrefixedName(t *testing.T) {
	root := filepath.FromSlash("/work/proj")
	files := []string{
		filepath.Join(root, "..notes.md"),
		filepath.Join(root, "main.go"),
	}

	got, err := Builtin{}.Render(context.Background(), root, files)
	require.NoError(t, err)
	assert.Equal(t, "proj\n├── ..notes.md\n└── main.go\n", got)
}

func TestNone_Render(t *testing.T) {
	got, err := None{}.Render(context.Background(), "/x", []string{"/x/a.go"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExec_Command(t *testing.T) {
	found := func(string) (string, error) { return "/usr/bin/tree", nil }
	missing := func(string) (string, error) { return "", exec.ErrNotFound }

	e := &Exec{Ignore: []string{"node_modules", "dist"}, lookPath: found}
	assert.Equal(t, []string{"tree", "/src", "-I", "node_modules|dist"}, e.Command("/src"))

	e = &Exec{Ignore: []string{"build"}, lookPath: missing}
	assert.Equal(t, []string{"ls", "-T", "/src", "-I", "build"}, e.Command("/src"))

	e = &Exec{lookPath: found}
	assert.Equal(t, []string{"tree", "/src"}, e.Command("/src"))
}

// TestNew_ExecIgnoresOutputDir tests that tree -I leaves out the output directory.
func TestNew_ExecIgnoresOutputDir(t *testing.T) {
	root := t.TempDir()
	r, err := New(ModeExec, config.DefaultConfig().TreeIgnore(root))
	require.NoError(t, err)

	argv := r.(*Exec).Command(root)
	require.GreaterOrEqual(t, len(argv), 2)
	assert.Equal(t, "-I", argv[len(argv)-2])
	assert.Contains(t, strings.Split(argv[len(argv)-1], "|"), "gptizer_op")
	assert.Contains(t, strings.Split(argv[len(argv)-1], "|"), "node_modules")
}

func TestExec_RenderWithTree(t *testing.T) {
	if _, err := exec.LookPath("tree"); err != nil {
		t.Skip("tree is not installed")
	}
	root := t.TempDir()
	got, err := (&Exec{}).Render(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Contains(t, got, root)
}

func TestExec_RenderFailure(t *testing.T) {
	if _, err := exec.LookPath("tree"); err != nil {
		t.Skip("tree is not installed")
	}
	_, err := (&Exec{}).Render(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	if err == nil {
		// Some tree builds print an error line but exit 0.
		return
	}
	var gErr *gerrors.GptizerError
	assert.True(t, errors.As(err, &gErr))
	assert.True(t, gerrors.IsType(err, gerrors.ErrTree))
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"", ModeAuto, ModeExec, ModeBuiltin, ModeNone} {
		r, err := New(mode, nil)
		require.NoError(t, err, mode)
		assert.NotNil(t, r, mode)
	}

	r, err := New(ModeBuiltin, nil)
	require.NoError(t, err)
	assert.IsType(t, Builtin{}, r)

	_, err = New("graphviz", nil)
	assert.True(t, gerrors.IsType(err, gerrors.ErrInvalidConfiguration))
}
