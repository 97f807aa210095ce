package paragrep

import (
	"os"

	pb "gopkg.in/cheggaaa/pb.v1"

	"golang.org/x/term"
)

// NewProgressBar initializes a wrapper for a https://github.com/cheggaaa/pb
// progressbar that implements ProgressBar, tracking bytes of the input
// file released through the reorder buffer. Falls back to NullProgressBar
// when stderr isn't a terminal, since a redrawing bar on a pipe or log
// file is just noise.
func NewProgressBar(prefix string) ProgressBar {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return NullProgressBar{}
	}
	bar := pb.New64(0).Prefix(prefix)
	bar.ShowCounters = true
	bar.Output = os.Stderr
	bar.SetUnits(pb.U_BYTES)
	return defaultProgressBar{bar}
}

// defaultProgressBar wraps https://github.com/cheggaaa/pb and implements ProgressBar.
type defaultProgressBar struct {
	*pb.ProgressBar
}

func (p defaultProgressBar) SetTotal(total uint64) {
	p.ProgressBar.SetTotal64(int64(total))
}

func (p defaultProgressBar) Start() {
	p.ProgressBar.Start()
}

func (p defaultProgressBar) Set(current uint64) {
	p.ProgressBar.Set64(int64(current))
}
