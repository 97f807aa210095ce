package paragrep

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReorderBufferReleasesInOrder(t *testing.T) {
	b := NewReorderBuffer()

	b.Insert(Chunk{Offset: 8192, BytesRead: 100})
	b.Insert(Chunk{Offset: 0, BytesRead: 8192})
	b.Insert(Chunk{Offset: 8292, BytesRead: 4096})

	// Offset 8292 arrived but 0 hasn't released yet, so it must not pop.
	_, ok := b.PopIf(8292)
	require.False(t, ok)

	c, ok := b.PopIf(0)
	require.True(t, ok)
	require.Equal(t, uint64(0), c.Offset)

	c, ok = b.PopIf(8192)
	require.True(t, ok)
	require.Equal(t, uint64(8192), c.Offset)

	c, ok = b.PopIf(8292)
	require.True(t, ok)
	require.Equal(t, uint64(8292), c.Offset)

	require.Equal(t, 0, b.Len())
}

func TestReorderBufferOutOfOrderArrival(t *testing.T) {
	b := NewReorderBuffer()
	offsets := []uint64{0, 10, 20, 30, 40}
	shuffled := append([]uint64{}, offsets...)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for _, off := range shuffled {
		b.Insert(Chunk{Offset: off, BytesRead: 10})
	}

	var released []uint64
	for i, expected := 0, uint64(0); i < len(offsets); i++ {
		c, ok := b.PopIf(expected)
		require.True(t, ok)
		released = append(released, c.Offset)
		expected += c.BytesRead
	}
	require.Equal(t, offsets, released)
}

func TestReorderBufferHoldsAheadChunks(t *testing.T) {
	b := NewReorderBuffer()
	// Up to num_workers-1 chunks may sit ahead of the expected offset.
	b.Insert(Chunk{Offset: 10, BytesRead: 10})
	b.Insert(Chunk{Offset: 20, BytesRead: 10})
	require.Equal(t, 2, b.Len())

	_, ok := b.PopIf(0)
	require.False(t, ok)
	require.Equal(t, 2, b.Len())
}
