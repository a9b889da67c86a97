package annotate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gptizer/gptizer/pkg/errors"
)

func TestAnnotate(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	p := filepath.Join(root, "pkg", "a.go")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("package pkg"), 0o644))

	a, err := New(root, "")
	require.NoError(t, err)
	a.display = "proj"

	got, err := a.Annotate(p)
	require.NoError(t, err)
	assert.Equal(t, "// proj/pkg/a.go\n\npackage pkg\n", got)
}

func TestAnnotate_CustomPrefix(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "run.sh")
	require.NoError(t, os.WriteFile(p, []byte("echo hi\n"), 0o644))

	a, err := New(root, "#")
	require.NoError(t, err)
	a.display = "root"

	got, err := a.Annotate(p)
	require.NoError(t, err)
	assert.Equal(t, "# root/run.sh\n\necho hi\n\n", got)
}

func TestAnnotate_InvalidUTF8(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "bin.txt")
	require.NoError(t, os.WriteFile(p, []byte{0xff, 0xfe, 0x00}, 0o644))

	a, err := New(root, "")
	require.NoError(t, err)

	_, err = a.Annotate(p)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrFilesystem))
	path, ok := errors.PathOf(err)
	assert.True(t, ok)
	assert.Equal(t, p, path)
}

func TestAnnotate_Missing(t *testing.T) {
	root := t.TempDir()
	a, err := New(root, "")
	require.NoError(t, err)

	_, err = a.Annotate(filepath.Join(root, "gone.go"))
	assert.True(t, errors.IsType(err, errors.ErrFilesystem))
}

func TestHeader_OutsideRoot(t *testing.T) {
	a, err := New(t.TempDir(), "")
	require.NoError(t, err)

	_, err = a.Header(filepath.Join(t.TempDir(), "elsewhere.go"))
	assert.Error(t, err)
}

func TestHeader_DotDotPrefixedName(t *testing.T) {
	root := t.TempDir()
	a, err := New(root, "")
	require.NoError(t, err)

	got, err := a.Header(filepath.Join(root, "..notes.md"))
	require.NoError(t, err)
	assert.Equal(t, "// "+filepath.Base(root)+"/..notes.md", got)

	_, err = a.Header(filepath.Join(root, "..", "sibling.go"))
	assert.Error(t, err)
}

func TestEscapesRoot(t *testing.T) {
	sep := string(filepath.Separator)
	tests := map[string]bool{
		"..":                 true,
		".." + sep + "x.go":  true,
		"..notes.md":         false,
		"..d" + sep + "x.go": false,
		"pkg" + sep + "a.go": false,
		".":                  false,
	}
	for rel, want := range tests {
		assert.Equal(t, want, escapesRoot(rel), rel)
	}
}

func TestDisplayRoot(t *testing.T) {
	home := filepath.FromSlash("/home/alice")
	tests := []struct {
		root string
		want string
	}{
		{"/home/alice/projects/foo", "projects/foo"},
		{"/srv/app", "app"},
		{"/home/alice", "alice"},
		{"/home/alicex/foo", "foo"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayRoot(filepath.FromSlash(tt.root), home), tt.root)
	}
	assert.Equal(t, "app", DisplayRoot(filepath.FromSlash("/srv/app"), ""))
}
