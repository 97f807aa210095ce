package paragrep

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// logHeader is the fixed CSV header row; no pack dependency provides CSV
// encoding, so this uses the standard library's encoding/csv rather than
// inventing a bespoke writer.
var logHeader = []string{"process_id", "file_offset", "bytes_read", "elapsed_time", "found"}

// LogSink appends one CSV row per released chunk, in release order.
type LogSink struct {
	w *csv.Writer
}

// NewLogSink writes the fixed header immediately and returns a sink
// ready to accept rows.
func NewLogSink(w io.Writer) (*LogSink, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(logHeader); err != nil {
		return nil, errors.Wrap(err, "log sink: write header")
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, errors.Wrap(err, "log sink: flush header")
	}
	return &LogSink{w: cw}, nil
}

// WriteRow appends a single data row and flushes it to the underlying
// writer immediately, so the log reflects progress as the run proceeds.
func (s *LogSink) WriteRow(workerID uint32, offset, bytesRead uint64, elapsed float64, found bool) error {
	foundField := "0"
	if found {
		foundField = "1"
	}
	row := []string{
		fmt.Sprintf("%d", workerID),
		fmt.Sprintf("%d", offset),
		fmt.Sprintf("%d", bytesRead),
		fmt.Sprintf("%.6f", elapsed),
		foundField,
	}
	if err := s.w.Write(row); err != nil {
		return errors.Wrap(err, "log sink: write row")
	}
	s.w.Flush()
	return errors.Wrap(s.w.Error(), "log sink: flush row")
}
