package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gptizer/gptizer/pkg/errors"
	"github.com/gptizer/gptizer/pkg/tokenizer"
)

func TestWriter_WritesNumberedFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gptizer_op")
	w := NewWriter(dir, "op", false, tokenizer.NewEstimating(4))

	got, err := w.Write(context.Background(), []string{"aaaa", "bbbbbbbb"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, filepath.Join(dir, "op_1.txt"), got[0].Path)
	assert.Equal(t, filepath.Join(dir, "op_2.txt"), got[1].Path)
	assert.Equal(t, 1, got[0].Tokens)
	assert.Equal(t, 2, got[1].Tokens)
	assert.Equal(t, int64(8), got[1].Bytes)
	assert.Equal(t, 2, got[1].Index)

	data, err := os.ReadFile(got[1].Path)
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbb", string(data))
}

func TestWriter_Overwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "op", false, nil)

	_, err := w.Write(context.Background(), []string{"first run"})
	require.NoError(t, err)
	_, err = w.Write(context.Background(), []string{"second"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "op_1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriter_EmptyCreatesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	got, err := NewWriter(dir, "op", true, nil).Write(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestWriter_CleanRemovesStale(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"op_1.txt", "op_2.txt", "op_3.txt", "op_x.txt", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("old"), 0o644))
	}

	_, err := NewWriter(dir, "op", true, nil).Write(context.Background(), []string{"new"})
	require.NoError(t, err)

	for name, exists := range map[string]bool{
		"op_1.txt":  true,
		"op_2.txt":  false,
		"op_3.txt":  false,
		"op_x.txt":  true,
		"notes.txt": true,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.Equal(t, exists, err == nil, name)
	}
}

func TestWriter_KeepsStaleWithoutClean(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "op_2.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	_, err := NewWriter(dir, "op", false, nil).Write(context.Background(), []string{"new"})
	require.NoError(t, err)

	_, err = os.Stat(stale)
	assert.NoError(t, err)
}

func TestWriter_UnwritableDirectory(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := NewWriter(filepath.Join(blocker, "out"), "op", false, nil).
		Write(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrWrite))
}

func TestWriter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := NewWriter(t.TempDir(), "op", false, nil).Write(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, got)
}

// failOn fails to count any text containing marker.
type failOn struct{ marker string }

func (f failOn) Count(text string) (int, error) {
	if strings.Contains(text, f.marker) {
		return 0, fmt.Errorf("cannot count %q", f.marker)
	}
	return len(text), nil
}

func TestWriter_CountFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "op_1.txt"), []byte("previous"), 0o644))

	_, err := NewWriter(dir, "op", false, failOn{marker: "bad"}).
		Write(context.Background(), []string{"good", "bad"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTokenization))

	data, err := os.ReadFile(filepath.Join(dir, "op_1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data), "earlier bundle left untouched")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staged files removed")
}

func TestWriter_DirectoryTargetWritesNothing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "op_2.txt"), 0o755))

	_, err := NewWriter(dir, "op", false, nil).Write(context.Background(), []string{"one", "two"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrWrite))

	_, err = os.Stat(filepath.Join(dir, "op_1.txt"))
	assert.True(t, os.IsNotExist(err), "no partial output")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
