package measure

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

const DefaultMaxLineLength = 4096

// minimum buffer size accepted by bufio
const minBufferSize = 16

var ErrLineTooLong = errors.New("line exceeds maximum length")

// Line is one record read from the input stream. Err is set when the record
// could not be delivered as text (see ErrLineTooLong).
type Line struct {
	Text string
	Err  error
}

// LineReader splits an input stream into lines without ever buffering more
// than maxLength bytes of a single line.
type LineReader struct {
	reader    *bufio.Reader
	maxLength int
	eof       bool
}

func NewLineReader(r io.Reader, maxLength int) *LineReader {
	if maxLength <= 0 {
		maxLength = DefaultMaxLineLength
	}
	// +2 leaves room for the "\r\n" terminator of a line of exactly maxLength bytes
	size := maxLength + 2
	if size < minBufferSize {
		size = minBufferSize
	}
	return &LineReader{
		reader:    bufio.NewReaderSize(r, size),
		maxLength: maxLength,
	}
}

// Next returns the next line. It returns io.EOF once the stream is exhausted;
// any other error is a read failure of the underlying stream.
func (lr *LineReader) Next() (Line, error) {
	if lr.eof {
		return Line{}, io.EOF
	}

	var (
		kept      []byte
		truncated bool
	)
	for {
		chunk, err := lr.reader.ReadSlice('\n')
		if len(kept)+len(chunk) <= lr.maxLength+2 {
			kept = append(kept, chunk...)
		} else {
			room := lr.maxLength + 2 - len(kept)
			if room > 0 {
				kept = append(kept, chunk[:room]...)
			}
			truncated = true
		}

		switch {
		case err == nil:
			return lr.line(kept, truncated), nil
		case errors.Is(err, bufio.ErrBufferFull):
			truncated = true
			continue
		case errors.Is(err, io.EOF):
			lr.eof = true
			if len(kept) == 0 && !truncated {
				return Line{}, io.EOF
			}
			return lr.line(kept, truncated), nil
		default:
			return Line{}, fmt.Errorf("read input: %w", err)
		}
	}
}

func (lr *LineReader) line(raw []byte, truncated bool) Line {
	raw = bytes.TrimSuffix(raw, []byte("\n"))
	raw = bytes.TrimSuffix(raw, []byte("\r"))
	if len(raw) > lr.maxLength {
		raw = raw[:lr.maxLength]
		truncated = true
	}
	if truncated {
		return Line{Text: string(raw), Err: ErrLineTooLong}
	}
	return Line{Text: string(raw)}
}

// ParseLine folds a line read by a LineReader into a Reading or a ParseError.
func (p *Parser) ParseLine(line Line, receivedAt time.Time) (Reading, error) {
	if line.Err != nil {
		return Reading{}, &ParseError{Kind: MalformedFormat, Raw: line.Text, Err: line.Err}
	}
	return p.Parse(line.Text, receivedAt)
}
