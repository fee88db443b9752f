package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyEdits_Empty(t *testing.T) {
	src := []byte("unchanged")
	out, err := ApplyEdits(src, nil)
	require.NoError(t, err)
	require.Equal(t, src, out)
}

func TestApplyEdits_SingleReplacement(t *testing.T) {
	src := []byte("hello world")
	out, err := ApplyEdits(src, []Edit{{Start: 6, End: 11, Replacement: []byte("there")}})
	require.NoError(t, err)
	require.Equal(t, "hello there", string(out))
}

func TestApplyEdits_MultipleOutOfOrder(t *testing.T) {
	src := []byte("aaa bbb ccc")
	edits := []Edit{
		{Start: 0, End: 3, Replacement: []byte("XX")},
		{Start: 8, End: 11, Replacement: []byte("ZZZZ")},
		{Start: 4, End: 7, Replacement: []byte("Y")},
	}
	out, err := ApplyEdits(src, edits)
	require.NoError(t, err)
	require.Equal(t, "XX Y ZZZZ", string(out))
}

func TestApplyEdits_GrowingReplacementsDoNotShiftEarlierSpans(t *testing.T) {
	// Each replacement is longer than the span it replaces; earlier spans must
	// still land on the original offsets.
	src := []byte("[a] [b] [c]")
	edits := []Edit{
		{Start: 0, End: 3, Replacement: []byte("[a](link-a)")},
		{Start: 4, End: 7, Replacement: []byte("[b](link-b)")},
		{Start: 8, End: 11, Replacement: []byte("[c](link-c)")},
	}
	out, err := ApplyEdits(src, edits)
	require.NoError(t, err)
	require.Equal(t, "[a](link-a) [b](link-b) [c](link-c)", string(out))
}

func TestApplyEdits_Insertion(t *testing.T) {
	src := []byte("ab")
	out, err := ApplyEdits(src, []Edit{{Start: 1, End: 1, Replacement: []byte("X")}})
	require.NoError(t, err)
	require.Equal(t, "aXb", string(out))
}

func TestApplyEdits_Deletion(t *testing.T) {
	src := []byte("abcdef")
	out, err := ApplyEdits(src, []Edit{{Start: 2, End: 4, Replacement: nil}})
	require.NoError(t, err)
	require.Equal(t, "abef", string(out))
}

func TestApplyEdits_RejectsOverlap(t *testing.T) {
	src := []byte("abcdef")
	edits := []Edit{
		{Start: 0, End: 3, Replacement: []byte("x")},
		{Start: 2, End: 5, Replacement: []byte("y")},
	}
	_, err := ApplyEdits(src, edits)
	require.Error(t, err)
	require.Contains(t, err.Error(), "overlapping")
}

func TestApplyEdits_RejectsOutOfBounds(t *testing.T) {
	src := []byte("abc")
	_, err := ApplyEdits(src, []Edit{{Start: 1, End: 10, Replacement: []byte("x")}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of bounds")
}

func TestApplyEdits_RejectsNegativeRange(t *testing.T) {
	src := []byte("abc")
	_, err := ApplyEdits(src, []Edit{{Start: -1, End: 2, Replacement: []byte("x")}})
	require.Error(t, err)
}

func TestApplyEdits_RejectsInvertedRange(t *testing.T) {
	src := []byte("abc")
	_, err := ApplyEdits(src, []Edit{{Start: 2, End: 1, Replacement: []byte("x")}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "end before start")
}

func TestApplyEdits_DoesNotMutateInput(t *testing.T) {
	src := []byte("hello world")
	orig := append([]byte(nil), src...)
	_, err := ApplyEdits(src, []Edit{{Start: 0, End: 5, Replacement: []byte("howdy")}})
	require.NoError(t, err)
	require.Equal(t, orig, src)
}
