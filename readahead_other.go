//go:build !linux

package paragrep

import "os"

// adviseSequential is a no-op on platforms without posix_fadvise.
func adviseSequential(f *os.File) {}
