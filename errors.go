package paragrep

import "fmt"

// UsageError is returned for invalid invocations (wrong argument count,
// an out-of-range worker count). The CLI prints it to stderr alongside
// usage and exits non-zero, per spec §7's Usage error kind.
type UsageError struct {
	Msg string
}

func (e UsageError) Error() string {
	return fmt.Sprintf("usage error: %s", e.Msg)
}
