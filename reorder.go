package paragrep

import "sort"

// Chunk is a ResultMessage held in the reorder buffer until it can be
// released to the stitcher in file order.
type Chunk struct {
	Offset    uint64
	BytesRead uint64
	Elapsed   float64
	Payload   []byte
	WorkerID  uint32
}

// ReorderBuffer holds chunks keyed by offset, ordered ascending, and
// releases them only in strictly ascending order. Between releases it
// may hold up to num_workers-1 chunks ahead of the expected offset.
type ReorderBuffer struct {
	chunks []Chunk
}

// NewReorderBuffer returns an empty buffer.
func NewReorderBuffer() *ReorderBuffer {
	return &ReorderBuffer{}
}

// Insert places c in ascending-offset order.
func (b *ReorderBuffer) Insert(c Chunk) {
	i := sort.Search(len(b.chunks), func(i int) bool {
		return b.chunks[i].Offset >= c.Offset
	})
	b.chunks = append(b.chunks, Chunk{})
	copy(b.chunks[i+1:], b.chunks[i:])
	b.chunks[i] = c
}

// PopIf removes and returns the head chunk iff its offset equals
// expected. The bool result reports whether a chunk was released.
func (b *ReorderBuffer) PopIf(expected uint64) (Chunk, bool) {
	if len(b.chunks) == 0 || b.chunks[0].Offset != expected {
		return Chunk{}, false
	}
	c := b.chunks[0]
	b.chunks = b.chunks[1:]
	return c, true
}

// Len reports how many chunks are currently held, awaiting release.
func (b *ReorderBuffer) Len() int {
	return len(b.chunks)
}
