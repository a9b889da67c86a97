package bundle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_SingleBundleHasNoPositionalText(t *testing.T) {
	msgs := DefaultMessages()
	bundles := []Bundle{{Items: []Item{{Text: "// a.go\n\npackage a\n"}, {Text: "// b.go\n\npackage b\n"}}}}

	got := Frame(bundles, "tree\n", msgs)

	require.Len(t, got, 1)
	assert.Equal(t, "tree\n\n// a.go\n\npackage a\n\n// b.go\n\npackage b\n", got[0])
	assert.NotContains(t, got[0], msgs.First)
	assert.NotContains(t, got[0], msgs.Last)
}

func TestFrame_ThreeBundles(t *testing.T) {
	bundles := []Bundle{
		{Items: []Item{{Text: "a"}}},
		{Items: []Item{{Text: "b"}}},
		{Items: []Item{{Text: "c"}, {Text: "d"}}},
	}

	got := Frame(bundles, "TREE", DefaultMessages())

	require.Len(t, got, 3)
	assert.Equal(t, "I will send you my codebase, and this is the first part\nTREE\na", got[0])
	assert.Equal(t, "This is the 2nd part\nb", got[1])
	assert.Equal(t, "This is the last message\nc\nd", got[2])
}

func TestFrame_EmptyTreeKeepsItsSlot(t *testing.T) {
	got := Frame([]Bundle{{Items: []Item{{Text: "x"}}}}, "", DefaultMessages())
	require.Len(t, got, 1)
	assert.Equal(t, "\nx", got[0])
}

func TestFrame_NoBundles(t *testing.T) {
	assert.Empty(t, Frame(nil, "tree", DefaultMessages()))
}

// TestFrame_Annotations checks one first, N-2 numbered middles and one last.
func TestFrame_Annotations(t *testing.T) {
	msgs := Messages{First: "FIRST", Next: "PART {index}", Last: "LAST"}
	n := 6
	bundles := make([]Bundle, n)
	for i := range bundles {
		bundles[i] = Bundle{Items: []Item{{Text: "body"}}}
	}

	got := Frame(bundles, "tree", msgs)
	require.Len(t, got, n)

	firsts, lasts := 0, 0
	for i, text := range got {
		head := strings.SplitN(text, "\n", 2)[0]
		switch {
		case head == "FIRST":
			firsts++
			assert.Equal(t, 0, i)
			assert.Contains(t, text, "tree")
		case head == "LAST":
			lasts++
			assert.Equal(t, n-1, i)
		default:
			assert.Equal(t, "PART "+string(rune('0'+i+1)), head)
			assert.NotContains(t, text, "tree")
		}
	}
	assert.Equal(t, 1, firsts)
	assert.Equal(t, 1, lasts)
}

func TestFrame_Deterministic(t *testing.T) {
	bundles := []Bundle{{Items: []Item{{Text: "a"}}}, {Items: []Item{{Text: "b"}}}}
	assert.Equal(t, Frame(bundles, "t", DefaultMessages()), Frame(bundles, "t", DefaultMessages()))
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 10: "10th",
		11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd",
		101: "101st", 111: "111th", 112: "112th",
	}
	for n, want := range tests {
		assert.Equal(t, want, Ordinal(n), "Ordinal(%d)", n)
	}
}

func TestMessages_Positional(t *testing.T) {
	m := Messages{First: "F", Next: "{index}/{ordinal}", Last: "L"}

	assert.Equal(t, "", m.Positional(0, 1))
	assert.Equal(t, "F", m.Positional(0, 2))
	assert.Equal(t, "L", m.Positional(1, 2))
	assert.Equal(t, "3/3rd", m.Positional(2, 5))
}
