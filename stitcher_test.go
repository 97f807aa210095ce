package paragrep

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStitcherFeedEmitsMatchingParagraph(t *testing.T) {
	re, err := CompilePattern("fox")
	require.NoError(t, err)

	var out bytes.Buffer
	s := NewStitcher(re, &out)

	found, err := s.Feed([]byte("Alpha beta.\n\nThe quick brown fox.\n\nDone.\n"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "The quick brown fox.\n\n", out.String())
}

func TestStitcherFeedNoMatch(t *testing.T) {
	re, err := CompilePattern("cat")
	require.NoError(t, err)

	var out bytes.Buffer
	s := NewStitcher(re, &out)

	found, err := s.Feed([]byte("Alpha beta.\n\nThe quick brown fox.\n\nDone.\n"))
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, out.String())
}

func TestStitcherParagraphSpanningMultipleChunks(t *testing.T) {
	re, err := CompilePattern("Needle")
	require.NoError(t, err)

	var out bytes.Buffer
	s := NewStitcher(re, &out)

	found1, err := s.Feed([]byte("A long paragraph that contains "))
	require.NoError(t, err)
	require.False(t, found1)
	require.Zero(t, out.Len())

	found2, err := s.Feed([]byte("a Needle and continues here.\n\n"))
	require.NoError(t, err)
	require.True(t, found2)
	require.Equal(t, "A long paragraph that contains a Needle and continues here.\n\n", out.String())
}

func TestStitcherFlushTrailingFragment(t *testing.T) {
	re, err := CompilePattern("Needle")
	require.NoError(t, err)

	var out bytes.Buffer
	s := NewStitcher(re, &out)

	found, err := s.Feed([]byte("Final Needle paragraph.\n"))
	require.NoError(t, err)
	require.False(t, found, "trailing fragment must not be attributed to this chunk's found flag")

	require.NoError(t, s.Flush())
	require.Equal(t, "Final Needle paragraph.\n", out.String())
}

func TestStitcherFlushAddsNewlineWhenMissing(t *testing.T) {
	re, err := CompilePattern("Needle")
	require.NoError(t, err)

	var out bytes.Buffer
	s := NewStitcher(re, &out)

	_, err = s.Feed([]byte("trailing Needle text"))
	require.NoError(t, err)
	require.NoError(t, s.Flush())
	require.Equal(t, "trailing Needle text\n", out.String())
}

func TestStitcherFlushEmptyCarryIsNoop(t *testing.T) {
	re, err := CompilePattern("Needle")
	require.NoError(t, err)

	var out bytes.Buffer
	s := NewStitcher(re, &out)
	require.NoError(t, s.Flush())
	require.Empty(t, out.String())
}
