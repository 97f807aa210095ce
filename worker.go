package paragrep

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
)

// workerState names the per-worker state machine from idle through a
// single request/read/report cycle. Purely documentary - the Run loop
// below records it but never branches on it, and no log line reads it.
type workerState int

const (
	stateIdle workerState = iota
	stateRequested
	stateReading
	stateReporting
)

func (s workerState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateRequested:
		return "requested"
	case stateReading:
		return "reading"
	case stateReporting:
		return "reporting"
	default:
		return "unknown"
	}
}

// Worker reads chunks on demand from its own file handle and reports them
// back to the coordinator. It never inspects file content beyond finding
// the last newline in its own read buffer, and never sees the regex.
type Worker struct {
	ID   uint32
	file string

	// toWorker is the worker's read end of the assignment pipe;
	// fromWorker is the worker's write end of the request/result pipe.
	toWorker   io.Reader
	fromWorker io.Writer

	state workerState
}

// NewWorker returns a Worker wired to the given pipe endpoints. The
// worker's own read handle on file is opened by Run.
func NewWorker(id uint32, file string, toWorker io.Reader, fromWorker io.Writer) *Worker {
	return &Worker{ID: id, file: file, toWorker: toWorker, fromWorker: fromWorker}
}

// Run executes the worker's request/read/report cycle until it receives
// a stop assignment, then returns nil. Any I/O or protocol error is
// fatal for this worker and is returned to the caller (which, per the
// coordinator's errgroup, makes it fatal for the whole run).
func (w *Worker) Run(ctx context.Context) error {
	f, err := os.Open(w.file)
	if err != nil {
		return errors.Wrapf(err, "worker %d: open %s", w.ID, w.file)
	}
	defer f.Close()

	buf := make([]byte, ChunkSize)
	adviseSequential(f)

	for {
		w.state = stateRequested
		if err := WriteRequest(w.fromWorker, RequestMessage{WorkerID: w.ID}); err != nil {
			return errors.Wrapf(err, "worker %d: send request", w.ID)
		}

		assignment, err := ReadAssignment(w.toWorker)
		if err != nil {
			return errors.Wrapf(err, "worker %d: read assignment", w.ID)
		}
		if assignment.Stop {
			return nil
		}

		w.state = stateReading
		if assignment.Range.Length > ChunkSize {
			return errors.Errorf("worker %d: assigned range length %d exceeds chunk size %d", w.ID, assignment.Range.Length, ChunkSize)
		}

		start := time.Now()
		if _, err := f.Seek(int64(assignment.Range.Offset), io.SeekStart); err != nil {
			return errors.Wrapf(err, "worker %d: seek to %d", w.ID, assignment.Range.Offset)
		}
		n, err := io.ReadFull(f, buf[:assignment.Range.Length])
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return errors.Wrapf(err, "worker %d: read at %d", w.ID, assignment.Range.Offset)
		}
		read := buf[:n]

		usable := n
		if idx := bytes.LastIndexByte(read, '\n'); idx >= 0 {
			usable = idx + 1
		}
		elapsed := time.Since(start).Seconds()

		w.state = stateReporting
		payload := make([]byte, usable)
		copy(payload, read[:usable])
		result := ResultMessage{
			WorkerID:       w.ID,
			Offset:         assignment.Range.Offset,
			BytesRead:      uint64(usable),
			ElapsedSeconds: elapsed,
			Payload:        payload,
		}
		if err := WriteResult(w.fromWorker, result); err != nil {
			return errors.Wrapf(err, "worker %d: send result", w.ID)
		}
		w.state = stateIdle
	}
}
