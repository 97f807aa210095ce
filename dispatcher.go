package paragrep

import (
	"bytes"
	"io"
	"os"

	"github.com/boljen/go-bitmap"
	"github.com/pkg/errors"
)

// Dispatcher hands out byte ranges on demand. It holds its own read
// handle on the input file, used only to probe how far the next chunk
// should extend - the actual chunk bytes are read again by the worker
// that receives the assignment (see SPEC_FULL.md §7: the
// dispatcher's read is deliberately discarded to keep bulk bytes off the
// assignment pipe).
type Dispatcher struct {
	f    *os.File
	next uint64

	// exhausted is set once a probe read returns zero bytes; all further
	// dispatches become stop signals.
	exhausted bool

	// stopped idempotently records which worker IDs have already been
	// told to stop. MaxWorkers (32) fits in a single bitmap word.
	stopped bitmap.Bitmap
}

// NewDispatcher opens its own handle on file for probing.
func NewDispatcher(file string) (*Dispatcher, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "dispatcher: open")
	}
	adviseSequential(f)
	return &Dispatcher{
		f:       f,
		stopped: bitmap.New(MaxWorkers),
	}, nil
}

// Close releases the dispatcher's probing file handle.
func (d *Dispatcher) Close() error {
	return d.f.Close()
}

// Dispatch produces the assignment for the given requesting worker.
// Idempotent with respect to workerID: once a worker has been told to
// stop it keeps being told to stop.
func (d *Dispatcher) Dispatch(workerID uint32) (AssignmentMessage, error) {
	if d.exhausted || (workerID < MaxWorkers && d.stopped.Get(int(workerID))) {
		if workerID < MaxWorkers {
			d.stopped.Set(int(workerID), true)
		}
		return AssignmentMessage{Stop: true}, nil
	}

	if _, err := d.f.Seek(int64(d.next), io.SeekStart); err != nil {
		return AssignmentMessage{}, errors.Wrap(err, "dispatcher: seek")
	}
	scratch := make([]byte, ChunkSize)
	raw, err := io.ReadFull(d.f, scratch)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return AssignmentMessage{}, errors.Wrap(err, "dispatcher: read")
	}

	if raw == 0 {
		d.exhausted = true
		if workerID < MaxWorkers {
			d.stopped.Set(int(workerID), true)
		}
		return AssignmentMessage{Stop: true}, nil
	}

	effective := raw
	if idx := bytes.LastIndexByte(scratch[:raw], '\n'); idx >= 0 && idx+1 < raw {
		effective = idx + 1
	}
	if effective == 0 {
		effective = raw
	}

	r := FileRange{Offset: d.next, Length: uint64(effective)}
	d.next += uint64(effective)
	return AssignmentMessage{Range: r}, nil
}
