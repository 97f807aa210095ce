package paragrep

// ChunkSize is the fixed size, in bytes, of every chunk the dispatcher
// assigns and every worker reads. A read of this size with no newline in
// it is assigned whole, ending mid-line; the Stitcher's carry buffer keeps
// accumulating such a line until a paragraph delimiter arrives.
const ChunkSize = 8192

// MaxWorkers is the upper bound on concurrently running workers.
const MaxWorkers = 32

// tag identifies the kind of frame on a worker's pipes. Every message
// starts with one of these, fixed-width, before its type-specific header.
type tag uint32

const (
	tagRequest tag = iota + 1
	tagAssignment
	tagResult
)
