package paragrep

// NullProgressBar implements ProgressBar as a no-op, used when --progress
// wasn't requested or stderr isn't a terminal.
type NullProgressBar struct{}

func (NullProgressBar) SetTotal(total uint64) {}
func (NullProgressBar) Start()                {}
func (NullProgressBar) Finish()               {}
func (NullProgressBar) Set(current uint64)    {}
