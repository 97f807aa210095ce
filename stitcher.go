package paragrep

import (
	"bytes"
	"io"
	"regexp"
)

var delimiter = []byte("\n\n")

// Stitcher accumulates released chunk payloads in a carry buffer and
// detects paragraphs (delimited by "\n\n") across chunk boundaries. The
// dispatcher ends a chunk at its last newline, at EOF, or - when a whole
// ChunkSize read holds no newline - mid-line; since every payload is
// appended to the same carry buffer, the delimiter is detected regardless
// of which chunk it straddles.
type Stitcher struct {
	carry bytes.Buffer
	re    *regexp.Regexp
	out   io.Writer
}

// NewStitcher writes matching paragraphs to out using re.
func NewStitcher(re *regexp.Regexp, out io.Writer) *Stitcher {
	return &Stitcher{re: re, out: out}
}

// Feed appends payload (the bytes of one released chunk) to the carry
// buffer and emits every paragraph it completes. It reports whether any
// paragraph completed by this call matched the pattern - that flag is
// what the log sink records as "found" for the chunk that supplied
// payload.
func (s *Stitcher) Feed(payload []byte) (found bool, err error) {
	s.carry.Write(payload)
	for {
		buf := s.carry.Bytes()
		idx := bytes.Index(buf, delimiter)
		if idx < 0 {
			break
		}
		paragraph := make([]byte, idx)
		copy(paragraph, buf[:idx])

		if s.re.Match(paragraph) {
			found = true
			if _, err := s.out.Write(paragraph); err != nil {
				return found, err
			}
			if _, err := s.out.Write([]byte("\n\n")); err != nil {
				return found, err
			}
			if f, ok := s.out.(interface{ Flush() error }); ok {
				if err := f.Flush(); err != nil {
					return found, err
				}
			}
		}

		s.carry.Next(idx + len(delimiter))
	}
	return found, nil
}

// Flush tests and, if matched, prints the trailing fragment left in the
// carry buffer once the stream has ended. Per spec, a match found here is
// not attributed to any chunk's found flag.
func (s *Stitcher) Flush() error {
	if s.carry.Len() == 0 {
		return nil
	}
	paragraph := s.carry.Bytes()
	matched := s.re.Match(paragraph)
	if matched {
		if _, err := s.out.Write(paragraph); err != nil {
			return err
		}
		if paragraph[len(paragraph)-1] != '\n' {
			if _, err := s.out.Write([]byte("\n")); err != nil {
				return err
			}
		}
		if f, ok := s.out.(interface{ Flush() error }); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}
	s.carry.Reset()
	return nil
}
