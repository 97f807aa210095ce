package paragrep

// ProgressBar allows the CLI to plug in a graphical progress indicator
// driven by bytes released through the reorder buffer. Optional - nil
// (or NullProgressBar) disables it entirely. Writing to it is always a
// diagnostic, never search output, so it only ever targets stderr.
type ProgressBar interface {
	SetTotal(total uint64)
	Start()
	Finish()
	Set(current uint64)
}
