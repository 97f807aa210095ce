package paragrep

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// runDispatcherBackedWorker wires a Worker directly to a Dispatcher over
// in-process pipes, bypassing the Coordinator's fan-in loop, to exercise
// the worker's request/read/report cycle in isolation.
func runDispatcherBackedWorker(t *testing.T, content string) []ResultMessage {
	t.Helper()
	path := writeTempFile(t, content)

	d, err := NewDispatcher(path)
	require.NoError(t, err)
	defer d.Close()

	toWorkerR, toWorkerW := io.Pipe()
	fromWorkerR, fromWorkerW := io.Pipe()

	w := NewWorker(0, path, toWorkerR, fromWorkerW)

	done := make(chan error, 1)
	go func() {
		done <- w.Run(context.Background())
	}()

	var results []ResultMessage
	for {
		req := readFrame(fromWorkerR)
		require.NoError(t, req.err)
		require.NotNil(t, req.request)

		a, err := d.Dispatch(req.request.WorkerID)
		require.NoError(t, err)
		require.NoError(t, WriteAssignment(toWorkerW, a))
		if a.Stop {
			break
		}

		f := readFrame(fromWorkerR)
		require.NoError(t, f.err)
		require.NotNil(t, f.result)
		results = append(results, *f.result)
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit after stop")
	}
	return results
}

func TestWorkerReportsTrimmedChunk(t *testing.T) {
	content := "Alpha beta.\n\nThe quick brown fox.\n\nDone.\n"
	results := runDispatcherBackedWorker(t, content)

	require.Len(t, results, 1)
	require.Equal(t, uint64(0), results[0].Offset)
	require.Equal(t, uint64(len(content)), results[0].BytesRead)
	require.Equal(t, content, string(results[0].Payload))
	require.GreaterOrEqual(t, results[0].ElapsedSeconds, 0.0)
}

func TestWorkerReportsMultipleChunksInOrder(t *testing.T) {
	var content []byte
	line := "0123456789012345678901234567890123456789012345678901234\n"
	for len(content) < ChunkSize*2+100 {
		content = append(content, line...)
	}
	results := runDispatcherBackedWorker(t, string(content))

	require.Greater(t, len(results), 1)
	var total uint64
	for _, r := range results {
		require.Equal(t, total, r.Offset)
		total += r.BytesRead
		require.Equal(t, int(r.BytesRead), len(r.Payload))
	}
	require.Equal(t, uint64(len(content)), total)
}
