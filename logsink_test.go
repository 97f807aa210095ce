package paragrep

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogSinkWritesHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewLogSink(&buf)
	require.NoError(t, err)

	require.NoError(t, sink.WriteRow(0, 0, 8192, 0.000123, true))
	require.NoError(t, sink.WriteRow(1, 8192, 4096, 1.5, false))

	r := csv.NewReader(bytes.NewReader(buf.Bytes()))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"process_id", "file_offset", "bytes_read", "elapsed_time", "found"}, rows[0])
	require.Equal(t, []string{"0", "0", "8192", "0.000123", "1"}, rows[1])
	require.Equal(t, []string{"1", "8192", "4096", "1.500000", "0"}, rows[2])
}
