package paragrep

import (
	"encoding/binary"
	"io"
	"math"
	"syscall"

	"github.com/pkg/errors"
)

// byteOrder is the fixed wire order for every frame. The protocol never
// leaves the process (each pipe connects a worker goroutine to the
// coordinator goroutine in the same binary) so there is no real
// cross-platform concern, but the wire format is still spelled out
// explicitly rather than left to whatever the in-memory struct layout
// happens to be.
var byteOrder = binary.LittleEndian

// RequestMessage is sent by a worker to pull its next assignment.
type RequestMessage struct {
	WorkerID uint32
}

// AssignmentMessage is sent by the coordinator in response to a request.
// Exactly one of Stop or Range is meaningful.
type AssignmentMessage struct {
	Stop  bool
	Range FileRange
}

// ResultMessage is sent by a worker once it has read and trimmed a chunk.
type ResultMessage struct {
	WorkerID       uint32
	Offset         uint64
	BytesRead      uint64
	ElapsedSeconds float64
	Payload        []byte
}

// readExact fills buf completely from r, retrying on EINTR, and returns
// io.EOF only if zero bytes were read before the stream closed (i.e. at a
// message boundary). Any other short read is a protocol/IO error.
func readExact(r io.Reader, buf []byte) error {
	read := 0
	for read < len(buf) {
		n, err := r.Read(buf[read:])
		read += n
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			if err == io.EOF && read == 0 {
				return io.EOF
			}
			if err == io.EOF {
				return errors.Wrap(io.ErrUnexpectedEOF, "truncated frame")
			}
			return errors.Wrap(err, "read_exact")
		}
	}
	return nil
}

// writeExact writes all of b to w, retrying on partial writes and EINTR.
func writeExact(w io.Writer, b []byte) error {
	written := 0
	for written < len(b) {
		n, err := w.Write(b[written:])
		written += n
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			return errors.Wrap(err, "write_exact")
		}
	}
	return nil
}

func readTag(r io.Reader) (tag, error) {
	var buf [4]byte
	if err := readExact(r, buf[:]); err != nil {
		return 0, err
	}
	return tag(byteOrder.Uint32(buf[:])), nil
}

func writeTag(w io.Writer, t tag) error {
	var buf [4]byte
	byteOrder.PutUint32(buf[:], uint32(t))
	return writeExact(w, buf[:])
}

// WriteRequest frames and sends a RequestMessage.
func WriteRequest(w io.Writer, m RequestMessage) error {
	if err := writeTag(w, tagRequest); err != nil {
		return err
	}
	var buf [4]byte
	byteOrder.PutUint32(buf[:], m.WorkerID)
	return writeExact(w, buf[:])
}

// readRequestBody reads the fixed-width body of a request frame; the tag
// itself must already have been consumed by the caller.
func readRequestBody(r io.Reader) (RequestMessage, error) {
	var buf [4]byte
	if err := readExact(r, buf[:]); err != nil {
		return RequestMessage{}, err
	}
	return RequestMessage{WorkerID: byteOrder.Uint32(buf[:])}, nil
}

// WriteAssignment frames and sends an AssignmentMessage: a stop flag,
// then - only when not stopping - the range offset and length.
func WriteAssignment(w io.Writer, m AssignmentMessage) error {
	if err := writeTag(w, tagAssignment); err != nil {
		return err
	}
	stopByte := [1]byte{0}
	if m.Stop {
		stopByte[0] = 1
	}
	if err := writeExact(w, stopByte[:]); err != nil {
		return err
	}
	if m.Stop {
		return nil
	}
	var buf [16]byte
	byteOrder.PutUint64(buf[0:8], m.Range.Offset)
	byteOrder.PutUint64(buf[8:16], m.Range.Length)
	return writeExact(w, buf[:])
}

// ReadAssignment reads a full assignment frame, tag included. Workers are
// the only readers of the assignment pipe and there is only ever one
// frame type on it, so unlike the request/result pipe there is no tag
// dispatch to do first.
func ReadAssignment(r io.Reader) (AssignmentMessage, error) {
	t, err := readTag(r)
	if err != nil {
		return AssignmentMessage{}, err
	}
	if t != tagAssignment {
		return AssignmentMessage{}, errors.Errorf("protocol error: expected assignment frame, got tag %d", t)
	}
	var stopByte [1]byte
	if err := readExact(r, stopByte[:]); err != nil {
		return AssignmentMessage{}, err
	}
	if stopByte[0] != 0 {
		return AssignmentMessage{Stop: true}, nil
	}
	var buf [16]byte
	if err := readExact(r, buf[:]); err != nil {
		return AssignmentMessage{}, err
	}
	return AssignmentMessage{
		Range: FileRange{
			Offset: byteOrder.Uint64(buf[0:8]),
			Length: byteOrder.Uint64(buf[8:16]),
		},
	}, nil
}

// WriteResult frames and sends a ResultMessage, header followed by the
// variable-length payload.
func WriteResult(w io.Writer, m ResultMessage) error {
	if err := writeTag(w, tagResult); err != nil {
		return err
	}
	var buf [28]byte
	byteOrder.PutUint32(buf[0:4], m.WorkerID)
	byteOrder.PutUint64(buf[4:12], m.Offset)
	byteOrder.PutUint64(buf[12:20], m.BytesRead)
	byteOrder.PutUint64(buf[20:28], math.Float64bits(m.ElapsedSeconds))
	if err := writeExact(w, buf[:]); err != nil {
		return err
	}
	return writeExact(w, m.Payload)
}

// readResultBody reads the header and payload of a result frame; the tag
// must already have been consumed by the caller.
func readResultBody(r io.Reader) (ResultMessage, error) {
	var buf [28]byte
	if err := readExact(r, buf[:]); err != nil {
		return ResultMessage{}, err
	}
	m := ResultMessage{
		WorkerID:       byteOrder.Uint32(buf[0:4]),
		Offset:         byteOrder.Uint64(buf[4:12]),
		BytesRead:      byteOrder.Uint64(buf[12:20]),
		ElapsedSeconds: math.Float64frombits(byteOrder.Uint64(buf[20:28])),
	}
	if m.BytesRead > 0 {
		m.Payload = make([]byte, m.BytesRead)
		if err := readExact(r, m.Payload); err != nil {
			return ResultMessage{}, err
		}
	}
	return m, nil
}

// frame is whichever of RequestMessage/ResultMessage arrived next on a
// worker's outbound pipe, tagged so the coordinator knows which.
type frame struct {
	request *RequestMessage
	result  *ResultMessage
	err     error
}

// readFrame reads one request-or-result frame from a worker's outbound
// pipe. Returns io.EOF once the worker has closed its end.
func readFrame(r io.Reader) frame {
	t, err := readTag(r)
	if err != nil {
		return frame{err: err}
	}
	switch t {
	case tagRequest:
		m, err := readRequestBody(r)
		if err != nil {
			return frame{err: err}
		}
		return frame{request: &m}
	case tagResult:
		m, err := readResultBody(r)
		if err != nil {
			return frame{err: err}
		}
		return frame{result: &m}
	default:
		return frame{err: errors.Errorf("protocol error: unexpected frame tag %d", t)}
	}
}
