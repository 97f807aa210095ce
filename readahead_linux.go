//go:build linux

package paragrep

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential hints to the kernel that f will be read sequentially
// from the start, the same best-effort, error-discarding spirit as the
// teacher's CanClone/CloneRange ioctl helpers: it never affects
// correctness, only read-ahead behavior, so any failure is ignored.
func adviseSequential(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
