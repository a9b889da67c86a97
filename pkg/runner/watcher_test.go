package runner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_RerunsOnChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping watch test in short mode")
	}

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.go": "weight:1"})
	r := newRunner(t, root, testConfig(10), &weightCounter{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results := make(chan *Result, 8)
	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx, func(res *Result, err error) {
			if err == nil {
				results <- res
			}
		})
	}()

	first := waitResult(t, results)
	assert.Len(t, first.Files, 1)

	writeFiles(t, root, map[string]string{"sub/b.go": "weight:2"})
	// the new directory is picked up before its file is written
	time.Sleep(100 * time.Millisecond)
	writeFiles(t, root, map[string]string{"sub/c.go": "weight:2"})

	deadline := time.After(5 * time.Second)
	for {
		select {
		case res := <-results:
			if len(res.Files) == 3 {
				cancel()
				require.NoError(t, <-done)
				return
			}
		case <-deadline:
			t.Fatal("watch did not pick up new files")
		}
	}
}

func TestWatch_Relevant(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.go": "weight:1"})
	cfg := testConfig(10)
	cfg.Files.SkipHidden = false
	r := newRunner(t, root, cfg, &weightCounter{})

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"source write", fsnotify.Event{Name: filepath.Join(root, "a.go"), Op: fsnotify.Write}, true},
		{"dot-dot prefixed name", fsnotify.Event{Name: filepath.Join(root, "..gen.go"), Op: fsnotify.Write}, true},
		{"source removed", fsnotify.Event{Name: filepath.Join(root, "a.go"), Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: filepath.Join(root, "a.go"), Op: fsnotify.Chmod}, false},
		{"unlisted extension", fsnotify.Event{Name: filepath.Join(root, "notes.txt"), Op: fsnotify.Write}, false},
		{"output file", fsnotify.Event{Name: filepath.Join(r.OutputDir(), "op_1.go"), Op: fsnotify.Create}, false},
		{"ignored dir", fsnotify.Event{Name: filepath.Join(root, "node_modules", "x.js"), Op: fsnotify.Write}, false},
		{"outside root", fsnotify.Event{Name: filepath.Join(filepath.Dir(root), "x.go"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.relevant(w, tt.event))
		})
	}
}

func TestInside(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	assert.True(t, inside(dir, dir))
	assert.True(t, inside(dir, filepath.Join(dir, "op_1.txt")))
	assert.False(t, inside(dir, dir+"_other"))
}

func waitResult(t *testing.T, ch <-chan *Result) *Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for run")
		return nil
	}
}
