package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_PartitionsInOrder(t *testing.T) {
	urls := []string{"u1", "u2", "u3", "u4", "u5"}
	out, err := Split(urls, []int{2, 0, 3})
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"u1", "u2"},
		{},
		{"u3", "u4", "u5"},
	}, out)
}

func TestSplit_EmptyBook(t *testing.T) {
	out, err := Split(nil, nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestSplit_AllCountsZero(t *testing.T) {
	out, err := Split(nil, []int{0, 0})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Empty(t, out[0])
	require.Empty(t, out[1])
}

func TestSplit_CountMismatch(t *testing.T) {
	_, err := Split([]string{"u1"}, []int{2})
	require.Error(t, err)
	require.Contains(t, err.Error(), "url split mismatch")

	_, err = Split([]string{"u1", "u2"}, []int{1})
	require.Error(t, err)
}
