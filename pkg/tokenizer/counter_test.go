package tokenizer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gptizer/gptizer/pkg/cache"
	"github.com/gptizer/gptizer/pkg/config"
	gerrors "github.com/gptizer/gptizer/pkg/errors"
)

// countingCounter counts words and records how often it was called.
type countingCounter struct {
	mu    sync.Mutex
	calls int
	fail  string
}

func (c *countingCounter) Count(text string) (int, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.fail != "" && strings.Contains(text, c.fail) {
		return 0, errors.New("cannot encode")
	}
	return len(strings.Fields(text)), nil
}

func TestEstimating(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		text  string
		want  int
	}{
		{"empty", 4, "", 0},
		{"rounds down", 4, "abcde", 1},
		{"rounds up", 4, "abcdef", 2},
		{"runes not bytes", 4, "héllo wörld", 3},
		{"custom ratio", 2, "abcdef", 3},
		{"default ratio when zero", 0, "abcdefgh", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEstimating(tt.ratio).Count(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "estimate-4", NameOf(NewEstimating(0)))
	assert.Equal(t, "*tokenizer.countingCounter", NameOf(&countingCounter{}))
}

func TestCached_MemoizesCounts(t *testing.T) {
	inner := &countingCounter{}
	var hits, misses int
	c := NewCached(inner, cache.NewMemoryCache()).OnLookup(func(hit bool) {
		if hit {
			hits++
		} else {
			misses++
		}
	})

	for i := 0; i < 3; i++ {
		n, err := c.Count("one two three")
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	}

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)
}

func TestCached_DoesNotStoreFailures(t *testing.T) {
	inner := &countingCounter{fail: "bad"}
	c := NewCached(inner, cache.NewMemoryCache())

	_, err := c.Count("bad input")
	require.Error(t, err)
	_, err = c.Count("bad input")
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

// readOnlyStore misses every lookup and rejects every write.
type readOnlyStore struct{ cache.Cache }

func (readOnlyStore) Get(context.Context, string) ([]byte, error) {
	return nil, cache.ErrCacheMiss
}

func (readOnlyStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("read-only file system")
}

func TestCached_ReportsStoreErrors(t *testing.T) {
	var got []error
	c := NewCached(&countingCounter{}, readOnlyStore{}).OnStoreError(func(err error) {
		got = append(got, err)
	})

	n, err := c.Count("one two")
	require.NoError(t, err, "a failed cache write does not fail the count")
	assert.Equal(t, 2, n)
	require.Len(t, got, 1)
	assert.EqualError(t, got[0], "read-only file system")
}

func TestCached_SurvivesAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	disk, err := cache.NewDiskCache(dir)
	require.NoError(t, err)

	first := &countingCounter{}
	_, err = NewCached(first, disk).Count("a b")
	require.NoError(t, err)

	second := &countingCounter{}
	n, err := NewCached(second, disk).Count("a b")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, second.calls)
}

func TestNew(t *testing.T) {
	c, err := New(config.TokenizerConfig{Kind: "estimate", CharsPerToken: 2}, "")
	require.NoError(t, err)
	n, err := c.Count("abcd")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cached, err := New(config.TokenizerConfig{Kind: "estimate", Cache: true}, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, cached)

	_, err = New(config.TokenizerConfig{Kind: "sentencepiece"}, "")
	assert.True(t, gerrors.IsType(err, gerrors.ErrInvalidConfiguration))
}

func TestTiktoken(t *testing.T) {
	if testing.Short() {
		t.Skip("tiktoken loads its BPE ranks over the network")
	}
	tk, err := NewTiktoken("")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}

	n, err := tk.Count("hello world")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Special tokens are plain text, not a failure.
	n, err = tk.Count("<|endoftext|>")
	require.NoError(t, err)
	assert.Greater(t, n, 1)

	assert.Equal(t, "tiktoken-cl100k_base", tk.Name())
}
