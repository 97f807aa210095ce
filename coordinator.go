package paragrep

import (
	"context"
	"io"
	"os"
	"regexp"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// frameEvent is a request-or-result frame tagged with the worker it
// arrived from, fed into the coordinator's single fan-in channel - the
// in-process analogue of the "multiplex all worker pipes with a
// readiness primitive" loop spec.md §4.6 describes. Go's idiomatic
// equivalent of a select-based readiness loop is one goroutine per
// blocking reader forwarding onto a shared channel; the channel receive
// in Run's loop is the readiness signal.
type frameEvent struct {
	workerID uint32
	f        frame
}

type workerPipes struct {
	toWorkerW   *io.PipeWriter
	toWorkerR   *io.PipeReader
	fromWorkerW *io.PipeWriter
	fromWorkerR *io.PipeReader
}

// Coordinator multiplexes the worker pool, drives the dispatcher,
// reorder buffer and stitcher, and appends one log row per released
// chunk. It is itself single-threaded: all of Dispatcher, ReorderBuffer,
// Stitcher and LogSink are touched exclusively from the goroutine running
// Run's event loop.
type Coordinator struct {
	file       string
	numWorkers int
	re         *regexp.Regexp
	stdout     io.Writer
	logw       io.Writer
	progress   ProgressBar
}

// NewCoordinator validates numWorkers against spec's [1, MaxWorkers]
// bound and returns a ready-to-run Coordinator.
func NewCoordinator(file string, numWorkers int, re *regexp.Regexp, stdout, logw io.Writer, progress ProgressBar) (*Coordinator, error) {
	if numWorkers < 1 || numWorkers > MaxWorkers {
		return nil, UsageError{Msg: "num_workers must be between 1 and 32"}
	}
	if progress == nil {
		progress = NullProgressBar{}
	}
	return &Coordinator{file: file, numWorkers: numWorkers, re: re, stdout: stdout, logw: logw, progress: progress}, nil
}

// Run drives one complete search over the coordinator's file, returning
// the first fatal error encountered by any worker, the dispatcher, the
// stitcher, or the log sink.
func (c *Coordinator) Run(parent context.Context) error {
	info, err := os.Stat(c.file)
	if err != nil {
		return errors.Wrap(err, "coordinator: stat input file")
	}

	dispatcher, err := NewDispatcher(c.file)
	if err != nil {
		return err
	}
	defer dispatcher.Close()

	logSink, err := NewLogSink(c.logw)
	if err != nil {
		return err
	}
	stitcher := NewStitcher(c.re, c.stdout)
	reorder := NewReorderBuffer()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	pipes := make([]workerPipes, c.numWorkers)
	defer func() {
		// The errgroup goroutines below close their own ends
		// (fromWorkerW, toWorkerR) on exit; the coordinator's own ends
		// must be closed here so both ends of every pipe are closed by
		// the time Run returns, per spec.md §5.
		for _, p := range pipes {
			p.toWorkerW.Close()
			p.fromWorkerR.Close()
		}
	}()
	var g errgroup.Group
	for i := 0; i < c.numWorkers; i++ {
		id := uint32(i)
		toWorkerR, toWorkerW := io.Pipe()
		fromWorkerR, fromWorkerW := io.Pipe()
		pipes[id] = workerPipes{toWorkerW: toWorkerW, toWorkerR: toWorkerR, fromWorkerW: fromWorkerW, fromWorkerR: fromWorkerR}

		g.Go(func() error {
			defer fromWorkerW.Close()
			defer toWorkerR.Close()
			w := NewWorker(id, c.file, toWorkerR, fromWorkerW)
			if err := w.Run(ctx); err != nil {
				Log.WithField("worker", id).WithError(err).Debug("worker exited with error")
				return err
			}
			return nil
		})
	}

	events := make(chan frameEvent)
	var fwg sync.WaitGroup
	for i := 0; i < c.numWorkers; i++ {
		id := uint32(i)
		r := pipes[id].fromWorkerR
		fwg.Add(1)
		go func() {
			defer fwg.Done()
			for {
				fr := readFrame(r)
				events <- frameEvent{workerID: id, f: fr}
				if fr.err != nil {
					return
				}
			}
		}()
	}
	go func() {
		fwg.Wait()
		close(events)
	}()

	c.progress.SetTotal(uint64(info.Size()))
	c.progress.Start()
	defer c.progress.Finish()

	var mainErr error
	recordMainErr := func(err error) {
		if err != nil && mainErr == nil {
			mainErr = err
			cancel()
		}
	}

	var nextOffsetToProcess uint64
	for ev := range events {
		if ev.f.err != nil {
			if ev.f.err != io.EOF {
				recordMainErr(errors.Wrapf(ev.f.err, "worker %d", ev.workerID))
			}
			continue
		}

		switch {
		case ev.f.request != nil:
			var assignment AssignmentMessage
			if ctx.Err() != nil {
				assignment = AssignmentMessage{Stop: true}
			} else {
				a, err := dispatcher.Dispatch(ev.workerID)
				if err != nil {
					recordMainErr(err)
					a = AssignmentMessage{Stop: true}
				}
				assignment = a
			}
			if err := WriteAssignment(pipes[ev.workerID].toWorkerW, assignment); err != nil {
				recordMainErr(errors.Wrapf(err, "send assignment to worker %d", ev.workerID))
			}

		case ev.f.result != nil:
			r := ev.f.result
			Log.WithFields(map[string]interface{}{
				"worker": r.WorkerID,
				"offset": r.Offset,
				"size":   humanSize(r.BytesRead),
			}).Debug("chunk received")
			reorder.Insert(Chunk{
				Offset:    r.Offset,
				BytesRead: r.BytesRead,
				Elapsed:   r.ElapsedSeconds,
				Payload:   r.Payload,
				WorkerID:  r.WorkerID,
			})
			for {
				chunk, ok := reorder.PopIf(nextOffsetToProcess)
				if !ok {
					break
				}
				found, err := stitcher.Feed(chunk.Payload)
				if err != nil {
					recordMainErr(errors.Wrap(err, "stitcher"))
				}
				if err := logSink.WriteRow(chunk.WorkerID, chunk.Offset, chunk.BytesRead, chunk.Elapsed, found); err != nil {
					recordMainErr(err)
				}
				nextOffsetToProcess += chunk.BytesRead
				c.progress.Set(nextOffsetToProcess)
			}
		}
	}

	if err := g.Wait(); err != nil && mainErr == nil {
		mainErr = err
	}
	if mainErr == nil {
		if err := stitcher.Flush(); err != nil {
			mainErr = err
		}
	}
	return mainErr
}
