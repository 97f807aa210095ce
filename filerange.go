package paragrep

// FileRange is a contiguous byte region of the input file. Offset+Length
// must never exceed the file's size at the time of read.
type FileRange struct {
	Offset uint64
	Length uint64
}
