package paragrep

import "github.com/c2h5oh/datasize"

// humanSize renders a byte count the way verbose log lines report chunk
// and file sizes, e.g. "8.0KB" instead of a raw integer.
func humanSize(n uint64) string {
	return datasize.ByteSize(n).HumanReadable()
}
